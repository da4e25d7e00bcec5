package goalseek

import (
	"testing"

	"github.com/damo1005/dealflow-properties-sub003/internal/domain"
	"github.com/damo1005/dealflow-properties-sub003/internal/modules/deal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonotonicity_CoversEveryPair(t *testing.T) {
	for _, v := range Variables {
		for _, g := range Goals {
			rule, ok := Monotonicity[v][g]
			assert.True(t, ok, "%s/%s", v, g)
			assert.NotNil(t, rule, "%s/%s", v, g)
		}
	}
}

// The rules must agree with the calculator across the search bounds, whichever way the
// deal is levered.
func TestMonotonicity_MatchesCalculator(t *testing.T) {
	_, deals := newTestEngine(t)

	cash := btlDeal()
	cash.Financing.FinanceType = domain.FinanceCash

	tests := []struct {
		name string
		base domain.DealInput
	}{
		{"positive leverage", btlDeal()},
		{"negative leverage", negativeLeverageDeal()},
		{"cash purchase", cash},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := deals.Evaluate(tt.base)
			require.NoError(t, err)

			for _, v := range Variables {
				current, err := deal.Get(tt.base, v)
				if err != nil {
					continue // not applicable to this deal
				}
				lo, hi := searchBounds(v, current)

				for _, g := range Goals {
					low, err := deal.Set(tt.base, v, lo)
					require.NoError(t, err)
					high, err := deal.Set(tt.base, v, hi)
					require.NoError(t, err)

					delta := metricFor(t, deals, high, g) - metricFor(t, deals, low, g)
					switch DirectionOf(v, g, tt.base, m) {
					case Increasing:
						assert.Greater(t, delta, 0.0, "%s/%s", v, g)
					case Decreasing:
						assert.Less(t, delta, 0.0, "%s/%s", v, g)
					case NoEffect:
						assert.InDelta(t, 0.0, delta, 1e-9, "%s/%s", v, g)
					}
				}
			}
		})
	}
}

func TestDirectionOf_DependsOnDeal(t *testing.T) {
	_, deals := newTestEngine(t)

	positive, err := deals.Evaluate(btlDeal())
	require.NoError(t, err)
	negative, err := deals.Evaluate(negativeLeverageDeal())
	require.NoError(t, err)

	assert.Equal(t, Decreasing, DirectionOf(domain.VarDepositPercent, domain.GoalROI, btlDeal(), positive))
	assert.Equal(t, Increasing, DirectionOf(domain.VarDepositPercent, domain.GoalROI, negativeLeverageDeal(), negative))

	cash := btlDeal()
	cash.Financing.FinanceType = domain.FinanceCash
	cashMetrics, err := deals.Evaluate(cash)
	require.NoError(t, err)
	assert.Equal(t, NoEffect, DirectionOf(domain.VarPurchasePrice, domain.GoalCashFlow, cash, cashMetrics))
	assert.Equal(t, Decreasing, DirectionOf(domain.VarPurchasePrice, domain.GoalCashFlow, btlDeal(), positive))
}

func TestNeedsIncrease(t *testing.T) {
	assert.True(t, Increasing.NeedsIncrease(100, 200))
	assert.False(t, Increasing.NeedsIncrease(200, 100))
	assert.False(t, Decreasing.NeedsIncrease(100, 200))
	assert.True(t, Decreasing.NeedsIncrease(200, 100))
}

func TestSearchBounds(t *testing.T) {
	lo, hi := searchBounds(domain.VarPurchasePrice, 200000)
	assert.InDelta(t, 140000, lo, 1e-6)
	assert.InDelta(t, 260000, hi, 1e-6)

	lo, hi = searchBounds(domain.VarDepositPercent, 25)
	assert.Equal(t, []float64{5, 50}, []float64{lo, hi})

	lo, hi = searchBounds(domain.VarMortgageRate, 5)
	assert.Equal(t, []float64{2, 10}, []float64{lo, hi})
}

func TestFeasibility(t *testing.T) {
	tests := []struct {
		name      string
		v         domain.Variable
		current   float64
		value     float64
		wantScore int
		wantLabel string
	}{
		{"price small cut", domain.VarPurchasePrice, 200000, 192000, 90, "Very achievable"},
		{"price negotiation", domain.VarPurchasePrice, 200000, 182000, 70, "Achievable with negotiation"},
		{"price big cut", domain.VarPurchasePrice, 200000, 165000, 45, "Challenging"},
		{"price huge cut", domain.VarPurchasePrice, 200000, 150000, 20, "Unlikely"},
		{"rent nudge", domain.VarMonthlyRent, 1000, 1040, 85, "Very achievable"},
		{"rent rise", domain.VarMonthlyRent, 1000, 1090, 65, "Achievable"},
		{"rent big rise", domain.VarMonthlyRent, 1000, 1150, 40, "Challenging"},
		{"rent huge rise", domain.VarMonthlyRent, 1000, 1300, 15, "Unlikely"},
		{"deposit small", domain.VarDepositPercent, 25, 30, 95, labelYourChoice},
		{"deposit large", domain.VarDepositPercent, 25, 45, 80, labelYourChoice},
		{"rate small", domain.VarMortgageRate, 5, 4.6, 85, labelYourChoice},
		{"rate medium", domain.VarMortgageRate, 5, 4, 60, "Shop around"},
		{"rate large", domain.VarMortgageRate, 5, 3, 30, "Unlikely"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, label := feasibility(tt.v, tt.current, tt.value)
			assert.Equal(t, tt.wantScore, score)
			assert.Equal(t, tt.wantLabel, label)
		})
	}
}

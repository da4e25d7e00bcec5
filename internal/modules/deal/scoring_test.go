package deal

import (
	"testing"

	"github.com/damo1005/dealflow-properties-sub003/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestLadders(t *testing.T) {
	tests := []struct {
		name   string
		ladder ladder
		value  float64
		want   float64
	}{
		{"cash flow 600", cashFlowLadder, 600, 10},
		{"cash flow 500", cashFlowLadder, 500, 10},
		{"cash flow 499.99", cashFlowLadder, 499.99, 8},
		{"cash flow 300", cashFlowLadder, 300, 8},
		{"cash flow 150", cashFlowLadder, 150, 6},
		{"cash flow 0", cashFlowLadder, 0, 4},
		{"cash flow negative", cashFlowLadder, -0.01, 2},
		{"roi 15", roiLadder, 15, 10},
		{"roi 10", roiLadder, 10, 8},
		{"roi 6", roiLadder, 6, 6},
		{"roi 3", roiLadder, 3, 4},
		{"roi 2.9", roiLadder, 2.9, 2},
		{"growth 5", growthLadder, 5, 10},
		{"growth 4", growthLadder, 4, 8},
		{"growth 3", growthLadder, 3, 6},
		{"growth 2", growthLadder, 2, 4},
		{"growth 1", growthLadder, 1, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.ladder.score(tt.value))
		})
	}
}

func TestRiskScore(t *testing.T) {
	assert.Equal(t, 10.0, riskScore(nil))
	assert.Equal(t, 10.0, riskScore([]domain.RiskItem{{Severity: domain.SeverityLow}}))
	assert.Equal(t, 7.0, riskScore([]domain.RiskItem{{Severity: domain.SeverityHigh}, {Severity: domain.SeverityMedium}}))

	many := make([]domain.RiskItem, 8)
	for i := range many {
		many[i].Severity = domain.SeverityHigh
	}
	assert.Equal(t, 0.0, riskScore(many))
}

func TestExitScore(t *testing.T) {
	tests := []struct {
		name     string
		kind     domain.StrategyKind
		finance  domain.FinanceType
		ltv      float64
		expected float64
	}{
		{"btl mortgage", domain.StrategyBTL, domain.FinanceMortgage, 75, 8},
		{"btl cash", domain.StrategyBTL, domain.FinanceCash, 0, 10},
		{"btl high ltv", domain.StrategyBTL, domain.FinanceMortgage, 85, 6},
		{"hmo", domain.StrategyHMO, domain.FinanceMortgage, 75, 6},
		{"student", domain.StrategyStudent, domain.FinanceMortgage, 75, 5},
		{"student cash", domain.StrategyStudent, domain.FinanceCash, 0, 7},
		{"short let", domain.StrategyShortLet, domain.FinanceMortgage, 90, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := domain.DealInput{
				Financing: domain.FinancingInput{FinanceType: tt.finance, LTV: tt.ltv},
				Strategy:  domain.StrategyInput{Kind: tt.kind},
			}
			assert.Equal(t, tt.expected, exitScore(in))
		})
	}
}

func TestScore_Composite(t *testing.T) {
	strong := Metrics{MonthlyCashFlow: 1000, ROI: 20}

	in := btlDeal()
	in.Assumptions = &domain.Assumptions{CapitalGrowthPercent: 6}
	assert.Equal(t, 96, Score(in, strong, nil).Total)

	in.Financing.FinanceType = domain.FinanceCash
	assert.Equal(t, 100, Score(in, strong, nil).Total)

	in = btlDeal()
	in.Assumptions = &domain.Assumptions{CapitalGrowthPercent: 0}
	in.Strategy = domain.StrategyInput{Kind: domain.StrategyStudent, Student: &domain.StudentStrategy{}}
	in.Financing.LTV = 90

	risks := make([]domain.RiskItem, 5)
	for i := range risks {
		risks[i].Severity = domain.SeverityHigh
	}
	worst := Score(in, Metrics{MonthlyCashFlow: -500, ROI: -10}, risks)
	assert.Equal(t, domain.ScoreBreakdown{
		Total:       18,
		CashFlow:    2,
		ROI:         2,
		Risk:        0,
		Growth:      2,
		ExitOptions: 3,
	}, worst)
}

package deal

import (
	"testing"

	"github.com/damo1005/dealflow-properties-sub003/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProject_InterestOnly(t *testing.T) {
	calc := newTestCalculator(t)
	in := btlDeal()

	m, err := calc.Evaluate(in)
	require.NoError(t, err)

	rows := Project(in, m)
	require.Len(t, rows, 5)

	first := rows[0]
	assert.Equal(t, 1, first.Year)
	assert.Equal(t, 206000.0, first.PropertyValue)
	assert.Equal(t, 150000.0, first.LoanBalance)
	assert.Equal(t, 56000.0, first.Equity)
	assert.Equal(t, 3576.92, first.AnnualCashFlow)
	assert.Equal(t, 3576.92, first.CumulativeCashFlow)
	assert.Equal(t, 9576.92, first.TotalReturn)

	second := rows[1]
	assert.Equal(t, 212180.0, second.PropertyValue)
	assert.Equal(t, 3798.46, second.AnnualCashFlow)
	assert.Equal(t, 7375.38, second.CumulativeCashFlow)

	for i, row := range rows {
		assert.Equal(t, i+1, row.Year)
		assert.Equal(t, 150000.0, row.LoanBalance)
		if i > 0 {
			assert.Greater(t, row.PropertyValue, rows[i-1].PropertyValue)
			assert.Greater(t, row.CumulativeCashFlow, rows[i-1].CumulativeCashFlow)
		}
	}
}

func TestProject_RepaymentBalanceHeuristic(t *testing.T) {
	calc := newTestCalculator(t)
	in := btlDeal()
	in.Financing.InterestOnly = false

	m, err := calc.Evaluate(in)
	require.NoError(t, err)

	rows := Project(in, m)
	assert.Equal(t, 145500.0, rows[0].LoanBalance)
	assert.Equal(t, 141135.0, rows[1].LoanBalance)
	assert.Equal(t, 128810.1, rows[4].LoanBalance)
	assert.InDelta(t, rows[4].PropertyValue-rows[4].LoanBalance, rows[4].Equity, 0.011)
}

func TestProject_CustomGrowth(t *testing.T) {
	calc := newTestCalculator(t)
	in := btlDeal()
	in.Assumptions = &domain.Assumptions{CapitalGrowthPercent: 0, RentGrowthPercent: 0}

	m, err := calc.Evaluate(in)
	require.NoError(t, err)

	rows := Project(in, m)
	for _, row := range rows {
		assert.Equal(t, 200000.0, row.PropertyValue)
		assert.Equal(t, 3576.92, row.AnnualCashFlow)
	}
	assert.Equal(t, 17884.62, rows[4].CumulativeCashFlow)
	assert.Equal(t, rows[4].CumulativeCashFlow, rows[4].TotalReturn)
}

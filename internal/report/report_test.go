package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/damo1005/dealflow-properties-sub003/internal/domain"
	"github.com/damo1005/dealflow-properties-sub003/internal/modules/deal"
	"github.com/damo1005/dealflow-properties-sub003/internal/modules/tax"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func analysedDeal(t *testing.T) (domain.DealInput, *domain.DealAnalysisResult) {
	t.Helper()
	taxCalc, err := tax.NewDefaultCalculator()
	require.NoError(t, err)
	calc := deal.NewCalculator(taxCalc, zerolog.Nop())

	in := domain.DealInput{
		Property: domain.PropertyInput{Address: "1 Test Street", Postcode: "LS1 1AA"},
		Financing: domain.FinancingInput{
			AskingPrice:  200000,
			LTV:          75,
			InterestRate: 5,
			TermYears:    25,
			InterestOnly: true,
			FinanceType:  domain.FinanceMortgage,
			Jurisdiction: domain.JurisdictionEngland,
		},
		Strategy: domain.NewBTL(1200, 2),
		Costs:    domain.OperatingCosts{ManagementPercent: 10, MaintenancePercent: 10},
	}
	res, err := calc.Analyse(in)
	require.NoError(t, err)
	return in, res
}

func TestGBP(t *testing.T) {
	tests := []struct {
		amount float64
		want   string
	}{
		{0, "£0.00"},
		{298.08, "£298.08"},
		{1234567.891, "£1,234,567.89"},
		{-625, "-£625.00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, GBP(tt.amount))
	}

	assert.Equal(t, "+£298.08", SignedGBP(298.08))
	assert.Equal(t, "-£76.92", SignedGBP(-76.92))
	assert.Equal(t, "£0.00", SignedGBP(0))
}

func TestDealMarkdown(t *testing.T) {
	in, res := analysedDeal(t)

	md := DealMarkdown(in, res)

	assert.True(t, strings.HasPrefix(md, "# 1 Test Street\n"))
	assert.Contains(t, md, "Buy-to-let at £200,000.00")
	assert.Contains(t, md, "| Monthly cash flow | +£298.08 |")
	assert.Contains(t, md, "| Deposit | £50,000.00 |")
	assert.Contains(t, md, "## SDLT")
	assert.Contains(t, md, "## Interest rate stress test")
	assert.Contains(t, md, "## Five year projection")
	assert.NotContains(t, md, "| Insurance |")
}

func TestDealMarkdown_UntitledCashDeal(t *testing.T) {
	in, res := analysedDeal(t)
	in.Property.Address = ""
	res.LoanAmount = 0
	res.StressTest = nil
	res.Risks = nil

	md := DealMarkdown(in, res)

	assert.True(t, strings.HasPrefix(md, "# Deal analysis\n"))
	assert.NotContains(t, md, "Monthly mortgage")
	assert.NotContains(t, md, "stress test")
	assert.Contains(t, md, "No risks flagged.")
}

func TestSimulationMarkdown(t *testing.T) {
	out := &domain.SimulationOutput{
		Iterations:              1000,
		Seed:                    42,
		BaselineMonthlyCashFlow: 298.08,
		Probabilities: []domain.ThresholdProbability{
			{Metric: "monthly_cash_flow", Threshold: 0, Probability: 97.5},
			{Metric: "roi", Threshold: 5, Probability: 80},
		},
	}

	md := SimulationMarkdown(out)
	assert.Contains(t, md, "1000 trials, seed 42.")
	assert.Contains(t, md, "| Baseline | +£298.08 |")
	assert.Contains(t, md, "P(monthly_cash_flow >= £0.00) = 97.50%")
	assert.Contains(t, md, "P(roi >= 5.00%) = 80.00%")
}

func TestGoalSeekMarkdown(t *testing.T) {
	value := 1332.5
	res := &domain.GoalSeekResult{
		Goal:             domain.GoalCashFlow,
		Variable:         domain.VarMonthlyRent,
		Target:           400,
		CurrentValue:     1200,
		Value:            &value,
		ChangePercent:    11.04,
		Feasibility:      40,
		FeasibilityLabel: "Challenging",
		Alternatives: []domain.GoalSeekResult{
			{Variable: domain.VarMortgageRate, CurrentValue: 5, FeasibilityLabel: "Not achievable within limits"},
		},
	}

	md := GoalSeekMarkdown(res)
	assert.Contains(t, md, "| monthlyRent | 1200.00 | 1332.50 | +11.0% | 40 (Challenging) |")
	assert.Contains(t, md, "| mortgageRate | 5.00 | n/a |")
}

func TestDealPDF(t *testing.T) {
	in, res := analysedDeal(t)

	doc, err := DealPDF(in, res, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(doc, []byte("%PDF-")))
	assert.Greater(t, len(doc), 1000)
}

func TestTerminal(t *testing.T) {
	out, err := Terminal("# Title\n\nSome **bold** text.", 80, true)
	require.NoError(t, err)
	assert.Contains(t, out, "Title")
	assert.Contains(t, out, "bold")
}

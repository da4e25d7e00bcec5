package deal

import (
	"math"

	"github.com/damo1005/dealflow-properties-sub003/internal/domain"
	"github.com/damo1005/dealflow-properties-sub003/pkg/formulas"
)

const (
	// ProjectionYears is the length of the forward projection.
	ProjectionYears = 5
	// BalanceReductionFactor approximates a repayment mortgage's annual capital reduction.
	// It is a flat heuristic, not an amortization schedule; RemainingBalance in pkg/formulas
	// gives the exact figure.
	BalanceReductionFactor = 0.97
)

// Project steps the deal forward ProjectionYears years. The property value grows by capital
// growth each year; income and operating costs grow by rent growth from year 2; the mortgage
// payment stays fixed. Total return is cumulative cash flow plus the gain in value.
func Project(in domain.DealInput, m Metrics) []domain.ProjectionYear {
	growth := in.GrowthAssumptions()
	g := growth.CapitalGrowthPercent / 100
	rg := growth.RentGrowthPercent / 100

	interestOnly := in.Financing.InterestOnly
	rows := make([]domain.ProjectionYear, 0, ProjectionYears)
	cumulative := 0.0

	for year := 1; year <= ProjectionYears; year++ {
		uplift := math.Pow(1+rg, float64(year-1))
		cashFlow := m.NetOperatingIncome()*uplift - m.AnnualMortgage
		cumulative += cashFlow

		value := m.PurchasePrice * math.Pow(1+g, float64(year))
		balance := m.LoanAmount
		if !interestOnly {
			balance = m.LoanAmount * math.Pow(BalanceReductionFactor, float64(year))
		}

		rows = append(rows, domain.ProjectionYear{
			Year:               year,
			PropertyValue:      formulas.Round2(value),
			LoanBalance:        formulas.Round2(balance),
			Equity:             formulas.Round2(value - balance),
			AnnualCashFlow:     formulas.Round2(cashFlow),
			CumulativeCashFlow: formulas.Round2(cumulative),
			TotalReturn:        formulas.Round2(cumulative + value - m.PurchasePrice),
		})
	}

	return rows
}

package deal

import (
	"github.com/damo1005/dealflow-properties-sub003/internal/domain"
	"github.com/damo1005/dealflow-properties-sub003/pkg/formulas"
)

// RateShocks are the percentage-point increases applied by the stress test.
var RateShocks = []float64{0, 1, 2, 3, 4}

// WarningCashFlow is the monthly cash flow below which a stressed deal is flagged.
const WarningCashFlow = 100.0

// StressTest recomputes cash flow with each rate shock added to the mortgage rate. Cash
// purchases are unaffected by rates, so every row matches the base case.
func StressTest(in domain.DealInput, m Metrics) []domain.StressRow {
	fin := in.Financing
	rows := make([]domain.StressRow, 0, len(RateShocks))

	for _, shock := range RateShocks {
		rate := fin.InterestRate + shock
		payment := formulas.MonthlyPayment(m.LoanAmount, rate, fin.TermYears, fin.InterestOnly)
		annual := m.NetOperatingIncome() - payment*12
		monthly := annual / 12

		rows = append(rows, domain.StressRow{
			RateIncrease:    shock,
			InterestRate:    rate,
			MonthlyPayment:  formulas.Round2(payment),
			MonthlyCashFlow: formulas.Round2(monthly),
			AnnualCashFlow:  formulas.Round2(annual),
			Status:          stressStatus(monthly),
		})
	}

	return rows
}

func stressStatus(monthlyCashFlow float64) domain.StressStatus {
	switch {
	case monthlyCashFlow < 0:
		return domain.StressNegative
	case monthlyCashFlow < WarningCashFlow:
		return domain.StressWarning
	}
	return domain.StressPositive
}

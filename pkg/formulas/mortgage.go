// Package formulas holds the pure numeric building blocks shared by the deal, simulation and
// goal-seek engines: mortgage payments and sample statistics.
package formulas

import "math"

// MonthlyPayment returns the monthly mortgage payment for a loan.
//
// Interest-only loans pay loan × rate/1200 every month. Amortizing loans use the annuity
// formula P·r·(1+r)^n / ((1+r)^n − 1) with r = rate/1200 and n = termYears·12.
//
// Edge cases:
//   - loan ≤ 0 or a negative rate returns 0
//   - an amortizing loan with termYears ≤ 0 returns 0
//   - a zero-rate amortizing loan is repaid in equal instalments of loan / n
func MonthlyPayment(loanAmount, annualRatePercent float64, termYears int, interestOnly bool) float64 {
	if loanAmount <= 0 || annualRatePercent < 0 {
		return 0
	}

	monthlyRate := annualRatePercent / 1200
	if interestOnly {
		return loanAmount * monthlyRate
	}

	if termYears <= 0 {
		return 0
	}

	n := float64(termYears * 12)
	if monthlyRate == 0 {
		return loanAmount / n
	}

	growth := math.Pow(1+monthlyRate, n)
	return loanAmount * monthlyRate * growth / (growth - 1)
}

// AnnualDebtService returns twelve monthly payments.
func AnnualDebtService(loanAmount, annualRatePercent float64, termYears int, interestOnly bool) float64 {
	return MonthlyPayment(loanAmount, annualRatePercent, termYears, interestOnly) * 12
}

// RemainingBalance returns the outstanding balance after monthsPaid payments of an amortizing
// loan. Interest-only loans never reduce; a fully repaid loan returns 0.
func RemainingBalance(loanAmount, annualRatePercent float64, termYears int, interestOnly bool, monthsPaid int) float64 {
	if loanAmount <= 0 {
		return 0
	}
	if interestOnly || monthsPaid <= 0 {
		return loanAmount
	}

	n := termYears * 12
	if monthsPaid >= n {
		return 0
	}

	r := annualRatePercent / 1200
	if r <= 0 {
		return loanAmount * (1 - float64(monthsPaid)/float64(n))
	}

	payment := MonthlyPayment(loanAmount, annualRatePercent, termYears, false)
	growth := math.Pow(1+r, float64(monthsPaid))
	balance := loanAmount*growth - payment*(growth-1)/r
	return math.Max(0, balance)
}

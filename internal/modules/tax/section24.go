package tax

import (
	"fmt"

	"github.com/damo1005/dealflow-properties-sub003/internal/domain"
)

// Section24Impact compares tax under the pre-2017 regime (interest fully deductible) with the
// current regime (interest earns a credit) for the same year's figures, and projects the
// difference over 10 and 25 years at today's numbers.
//
// A let is flagged loss-making when the current-regime rental tax exceeds the actual cash
// profit, rent − expenses − interest.
func (c *Calculator) Section24Impact(in domain.IncomeTaxInput) (*domain.Section24Result, error) {
	income, err := c.RentalIncomeTax(in)
	if err != nil {
		return nil, err
	}

	diff := dec(income.Current.TaxAfterCredit).Sub(dec(income.PreReform.TaxAfterCredit))
	cashProfit := dec(in.GrossRent).Sub(dec(income.TotalExpenses)).Sub(dec(in.MortgageInterest))
	rentalTax := dec(income.Current.RentalTax)

	effective := 0.0
	if cashProfit.IsPositive() {
		effective = rentalTax.Div(cashProfit).Mul(hundred).Round(4).InexactFloat64()
	}

	result := &domain.Section24Result{
		TaxYear:                   c.rules.TaxYear,
		Current:                   income.Current,
		PreReform:                 income.PreReform,
		AnnualDifference:          money(diff),
		TenYearExtra:              money(diff.Mul(dec(10))),
		TwentyFiveYearExtra:       money(diff.Mul(dec(25))),
		CashProfit:                money(cashProfit),
		EffectiveRateOnCashProfit: effective,
	}

	if rentalTax.GreaterThan(cashProfit) {
		result.LossMaking = true
		result.Warning = fmt.Sprintf("tax bill of £%s exceeds cash profit of £%s: the let loses money after tax",
			rentalTax.StringFixed(2), cashProfit.StringFixed(2))
	}

	return result, nil
}

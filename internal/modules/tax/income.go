package tax

import (
	"fmt"

	"github.com/damo1005/dealflow-properties-sub003/internal/domain"
	"github.com/shopspring/decimal"
)

// RentalIncomeTax computes income tax on rental profit under the current rules, where mortgage
// interest is not deductible but earns a basic-rate tax credit, alongside the pre-reform
// calculation where interest was fully deductible.
//
// Only the share of tax attributable to rental income is reported as RentalTax:
// taxAfterCredit × rentalProfit / totalIncome, or 0 when total income is 0.
func (c *Calculator) RentalIncomeTax(in domain.IncomeTaxInput) (*domain.IncomeTaxResult, error) {
	if err := validateIncomeInput(in); err != nil {
		return nil, err
	}

	region := in.Region
	if region == "" {
		region = domain.RegionRestOfUK
	}
	bands, ok := c.rules.Income.Regions[region]
	if !ok {
		return nil, fmt.Errorf("%w: income tax region %q", domain.ErrUnsupportedJurisdiction, in.Region)
	}

	gross := dec(in.GrossRent)
	expenses := sumItems(in.AllowableExpenses)
	interest := dec(in.MortgageInterest)
	other := sumItems(in.OtherIncome)

	current := c.incomeRegime(bands, maxDec(zero, gross.Sub(expenses)), other, interest, true)
	preReform := c.incomeRegime(bands, maxDec(zero, gross.Sub(expenses).Sub(interest)), other, zero, false)

	effective := 0.0
	if current.RentalProfit > 0 {
		effective = dec(current.RentalTax).Div(dec(current.RentalProfit)).Mul(hundred).Round(4).InexactFloat64()
	}

	return &domain.IncomeTaxResult{
		TaxYear:          c.rules.TaxYear,
		Region:           region,
		GrossRent:        in.GrossRent,
		TotalExpenses:    money(expenses),
		MortgageInterest: in.MortgageInterest,
		OtherIncome:      money(other),
		Current:          current,
		PreReform:        preReform,
		EffectiveRate:    effective,
	}, nil
}

// incomeRegime runs one complete calculation. With withCredit the finance-cost credit is
// credit% × interest, capped at the tax otherwise due.
func (c *Calculator) incomeRegime(bands []Band, rentalProfit, other, interest decimal.Decimal, withCredit bool) domain.IncomeTaxRegime {
	total := rentalProfit.Add(other)
	allowance := c.personalAllowance(total)
	taxable := maxDec(zero, total.Sub(allowance))

	outcome := applyBands(taxable, bands, zero)
	taxBefore := outcome.tax

	credit := zero
	if withCredit {
		credit = interest.Mul(dec(c.rules.Income.FinanceCostCreditRate)).Div(hundred).Round(2)
		credit = minDec(credit, taxBefore)
	}
	after := taxBefore.Sub(credit)

	rentalTax := zero
	if total.IsPositive() {
		rentalTax = after.Mul(rentalProfit).Div(total).Round(2)
	}

	return domain.IncomeTaxRegime{
		RentalProfit:      money(rentalProfit),
		TotalIncome:       money(total),
		PersonalAllowance: money(allowance),
		TaxableIncome:     money(taxable),
		Bands:             outcome.rows,
		TaxBeforeCredit:   money(taxBefore),
		FinanceCostCredit: money(credit),
		TaxAfterCredit:    money(after),
		RentalTax:         money(rentalTax),
	}
}

// personalAllowance tapers the allowance by TaperRate for every pound of income above the
// taper threshold, down to zero.
func (c *Calculator) personalAllowance(totalIncome decimal.Decimal) decimal.Decimal {
	in := c.rules.Income
	allowance := dec(in.PersonalAllowance)
	excess := totalIncome.Sub(dec(in.TaperThreshold))
	if excess.IsPositive() {
		allowance = allowance.Sub(excess.Mul(dec(in.TaperRate)))
	}
	return maxDec(zero, allowance)
}

func validateIncomeInput(in domain.IncomeTaxInput) error {
	if in.GrossRent < 0 || in.MortgageInterest < 0 {
		return fmt.Errorf("%w: rent and interest must not be negative", domain.ErrInvalidInput)
	}
	for _, item := range append(append([]domain.LineItem{}, in.AllowableExpenses...), in.OtherIncome...) {
		if item.Amount < 0 {
			return fmt.Errorf("%w: %q must not be negative", domain.ErrInvalidInput, item.Name)
		}
	}
	return nil
}

func sumItems(items []domain.LineItem) decimal.Decimal {
	total := zero
	for _, item := range items {
		total = total.Add(dec(item.Amount))
	}
	return total
}

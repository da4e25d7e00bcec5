package tax

import (
	"fmt"
	"time"

	"github.com/damo1005/dealflow-properties-sub003/internal/domain"
)

const (
	// finalPeriodMonths of ownership always qualify for private residence relief once the
	// property has been a main residence.
	finalPeriodMonths = 9
	// reportingWindowDays after completion to report and pay on account.
	reportingWindowDays = 60
)

// CapitalGainsTax computes residential CGT on a disposal.
//
// grossGain = sale − purchase − purchase costs − improvements − sale costs. Private residence
// relief is the whole gain for a lifelong main residence, gain × min((months lived in + 9) /
// ownership months, 1) for partial occupation and nothing otherwise. The chargeable gain is never
// negative and never above the gross gain. After the unused annual exempt amount, the taxable gain
// is taxed at the basic rate up to whatever remains of the basic-rate band and at the higher rate
// above it. The liability is the tax scaled by the taxpayer's ownership share.
func (c *Calculator) CapitalGainsTax(in domain.CGTInput) (*domain.CGTResult, error) {
	if err := validateCGTInput(in); err != nil {
		return nil, err
	}

	rules := c.rules.CGT

	gross := dec(in.SalePrice).
		Sub(dec(in.PurchasePrice)).
		Sub(dec(in.PurchaseCosts)).
		Sub(dec(in.ImprovementCosts)).
		Sub(dec(in.SaleCosts))

	proportion := zero
	switch in.MainResidence {
	case domain.ResidenceFull:
		proportion = dec(1)
	case domain.ResidencePartial:
		proportion = dec(float64(in.MonthsLivedIn + finalPeriodMonths)).Div(dec(float64(in.OwnershipMonths)))
		proportion = minDec(proportion, dec(1))
	}

	positiveGain := maxDec(zero, gross)
	relief := positiveGain.Mul(proportion).Round(2)
	chargeable := minDec(maxDec(zero, gross.Sub(relief)), positiveGain)

	allowanceLeft := maxDec(zero, dec(rules.AnnualExemptAmount).Sub(dec(in.AllowanceUsed)))
	allowance := minDec(allowanceLeft, chargeable)
	taxable := chargeable.Sub(allowance)

	basicLeft := maxDec(zero, dec(rules.BasicRateBand).Sub(dec(in.OtherTaxableIncome)))
	bands := []Band{{From: 0, Rate: rules.BasicRate}}
	if basicLeft.IsPositive() {
		bands = append(bands, Band{From: basicLeft.InexactFloat64(), Rate: rules.HigherRate})
	} else {
		bands[0].Rate = rules.HigherRate
	}
	outcome := applyBands(taxable, bands, zero)

	share := in.OwnershipSharePercent
	if share == 0 {
		share = 100
	}
	liability := outcome.tax.Mul(dec(share)).Div(hundred).Round(2)

	result := &domain.CGTResult{
		TaxYear:                c.rules.TaxYear,
		GrossGain:              money(gross),
		ReliefProportion:       proportion.Round(6).InexactFloat64(),
		PrivateResidenceRelief: money(relief),
		ChargeableGain:         money(chargeable),
		AnnualExemptAmount:     rules.AnnualExemptAmount,
		AllowanceApplied:       money(allowance),
		TaxableGain:            money(taxable),
		BasicBandRemaining:     money(basicLeft),
		Bands:                  outcome.rows,
		TotalTax:               money(outcome.tax),
		OwnershipSharePercent:  share,
		Liability:              money(liability),
	}

	if !in.DisposalDate.IsZero() {
		report, pay := DisposalDeadlines(in.DisposalDate)
		result.ReportingDeadline = &report
		result.PaymentDeadline = &pay
	}

	return result, nil
}

// DisposalDeadlines returns the date the disposal must be reported by (60 days after completion)
// and the balancing payment date: 31 January after the end of the tax year, which ends on 5 April.
func DisposalDeadlines(disposal time.Time) (report, pay time.Time) {
	d := time.Date(disposal.Year(), disposal.Month(), disposal.Day(), 0, 0, 0, 0, time.UTC)
	report = d.AddDate(0, 0, reportingWindowDays)

	taxYearEnd := d.Year()
	if d.After(time.Date(d.Year(), time.April, 5, 0, 0, 0, 0, time.UTC)) {
		taxYearEnd++
	}
	pay = time.Date(taxYearEnd+1, time.January, 31, 0, 0, 0, 0, time.UTC)
	return report, pay
}

func validateCGTInput(in domain.CGTInput) error {
	if in.SalePrice < 0 || in.PurchasePrice < 0 || in.PurchaseCosts < 0 ||
		in.ImprovementCosts < 0 || in.SaleCosts < 0 {
		return fmt.Errorf("%w: prices and costs must not be negative", domain.ErrInvalidInput)
	}
	if in.OtherTaxableIncome < 0 || in.AllowanceUsed < 0 {
		return fmt.Errorf("%w: income and allowance used must not be negative", domain.ErrInvalidInput)
	}
	if in.OwnershipSharePercent < 0 || in.OwnershipSharePercent > 100 {
		return fmt.Errorf("%w: ownership share must be within [0,100]", domain.ErrInvalidInput)
	}

	switch in.MainResidence {
	case "", domain.ResidenceNever, domain.ResidenceFull:
	case domain.ResidencePartial:
		if in.OwnershipMonths <= 0 {
			return fmt.Errorf("%w: partial residence needs ownership months", domain.ErrInvalidInput)
		}
		if in.MonthsLivedIn < 0 || in.MonthsLivedIn > in.OwnershipMonths {
			return fmt.Errorf("%w: months lived in must be within [0, ownership months]", domain.ErrInvalidInput)
		}
	default:
		return fmt.Errorf("%w: main residence %q", domain.ErrInvalidInput, in.MainResidence)
	}
	return nil
}

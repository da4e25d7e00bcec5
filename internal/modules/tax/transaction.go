package tax

import (
	"fmt"

	"github.com/damo1005/dealflow-properties-sub003/internal/domain"
)

// TransactionTax computes SDLT, LBTT or LTT on a purchase.
//
// Band selection, in order:
//  1. a company buying above the jurisdiction's company threshold pays a single flat-rate band
//  2. a first-time buyer who is not buying an additional property, at or under the relief cap,
//     uses the first-time buyer bands
//  3. everyone else uses the standard bands
//
// Additional-property buyers (companies count as additional) have the jurisdiction's surcharge
// added to every band's rate. The non-resident surcharge is a percentage of the full price added
// on top of the banded tax.
func (c *Calculator) TransactionTax(in domain.TransactionTaxInput) (*domain.TransactionTaxResult, error) {
	if in.Price < 0 {
		return nil, fmt.Errorf("%w: price must not be negative", domain.ErrInvalidInput)
	}

	jurisdiction := in.Jurisdiction
	if jurisdiction == "" {
		jurisdiction = domain.JurisdictionEngland
	}
	rules, ok := c.rules.Transaction[jurisdiction]
	if !ok {
		return nil, fmt.Errorf("%w: transaction tax for %q", domain.ErrUnsupportedJurisdiction, in.Jurisdiction)
	}

	price := dec(in.Price)
	additional := in.Buyer.AdditionalProperty || in.Buyer.Company

	bands := rules.StandardBands
	surcharge := zero
	relief := domain.ReliefNone

	switch {
	case in.Buyer.Company && rules.Company != nil && in.Price > rules.Company.Threshold:
		bands = []Band{{From: 0, Rate: rules.Company.FlatRate}}
		relief = domain.ReliefCompanyFlatRate

	case in.Buyer.FirstTimeBuyer && !additional && qualifiesForFirstTimeBuyer(rules.FirstTimeBuyer, in.Price):
		bands = rules.FirstTimeBuyer.Bands
		relief = domain.ReliefFirstTimeBuyer

	case additional:
		surcharge = dec(rules.AdditionalSurcharge)
	}

	outcome := applyBands(price, bands, surcharge)

	nonResident := zero
	if in.Buyer.NonResident && rules.NonResidentSurcharge > 0 {
		nonResident = price.Mul(dec(rules.NonResidentSurcharge)).Div(hundred).Round(2)
	}

	total := outcome.tax.Add(nonResident)
	effective := 0.0
	if price.IsPositive() {
		effective = total.Div(price).Mul(hundred).Round(4).InexactFloat64()
	}

	return &domain.TransactionTaxResult{
		TaxYear:              c.rules.TaxYear,
		TaxName:              rules.Name,
		Jurisdiction:         jurisdiction,
		Price:                in.Price,
		Relief:               relief,
		Bands:                outcome.rows,
		StandardTax:          money(outcome.baseTax),
		BandTax:              money(outcome.tax),
		AdditionalSurcharge:  money(outcome.tax.Sub(outcome.baseTax)),
		NonResidentSurcharge: money(nonResident),
		TotalTax:             money(total),
		EffectiveRate:        effective,
	}, nil
}

func qualifiesForFirstTimeBuyer(ftb *FirstTimeBuyerRules, price float64) bool {
	if ftb == nil {
		return false
	}
	return ftb.MaxPrice == 0 || price <= ftb.MaxPrice
}

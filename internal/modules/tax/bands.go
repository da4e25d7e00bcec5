package tax

import (
	"github.com/damo1005/dealflow-properties-sub003/internal/domain"
	"github.com/shopspring/decimal"
)

var (
	hundred = decimal.NewFromInt(100)
	zero    = decimal.Zero
)

// bandOutcome is the decimal result of running an amount through a band table.
type bandOutcome struct {
	rows    []domain.BandAmount
	tax     decimal.Decimal
	baseTax decimal.Decimal
}

// applyBands taxes amount across bands in ascending order. Each band taxes only the portion
// min(amount, next) − from, at (rate + surcharge)/100, rounded to pennies per band, so the rows
// always sum exactly to the totals. Every band is emitted, including those above amount, so the
// breakdown covers [0, ∞).
func applyBands(amount decimal.Decimal, bands []Band, surcharge decimal.Decimal) bandOutcome {
	out := bandOutcome{
		rows:    make([]domain.BandAmount, 0, len(bands)),
		tax:     zero,
		baseTax: zero,
	}

	for i, b := range bands {
		from := decimal.NewFromFloat(b.From)
		baseRate := decimal.NewFromFloat(b.Rate)
		rate := baseRate.Add(surcharge)

		var upper *decimal.Decimal
		if i+1 < len(bands) {
			next := decimal.NewFromFloat(bands[i+1].From)
			upper = &next
		}

		taxable := zero
		if amount.GreaterThan(from) {
			top := amount
			if upper != nil && upper.LessThan(top) {
				top = *upper
			}
			taxable = top.Sub(from)
		}

		bandTax := taxable.Mul(rate).Div(hundred).Round(2)
		bandBase := taxable.Mul(baseRate).Div(hundred).Round(2)
		out.tax = out.tax.Add(bandTax)
		out.baseTax = out.baseTax.Add(bandBase)

		row := domain.BandAmount{
			From:     b.From,
			Rate:     rate.InexactFloat64(),
			BaseRate: b.Rate,
			Taxable:  taxable.InexactFloat64(),
			Tax:      bandTax.InexactFloat64(),
			BaseTax:  bandBase.InexactFloat64(),
		}
		if upper != nil {
			to := upper.InexactFloat64()
			row.To = &to
		}
		out.rows = append(out.rows, row)
	}

	return out
}

func dec(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v)
}

func money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

func maxDec(a, b decimal.Decimal) decimal.Decimal {
	if a.GreaterThan(b) {
		return a
	}
	return b
}

func minDec(a, b decimal.Decimal) decimal.Decimal {
	if a.LessThan(b) {
		return a
	}
	return b
}

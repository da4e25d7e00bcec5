package tax

import (
	"testing"

	"github.com/damo1005/dealflow-properties-sub003/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCalculator(t *testing.T, year string) *Calculator {
	t.Helper()
	book, err := DefaultRules()
	require.NoError(t, err)
	calc, err := NewCalculator(book, year)
	require.NoError(t, err)
	return calc
}

func TestTransactionTax_EnglandAdditionalProperty(t *testing.T) {
	calc := newTestCalculator(t, "2024-25")

	result, err := calc.TransactionTax(domain.TransactionTaxInput{
		Price:        300000,
		Jurisdiction: domain.JurisdictionEngland,
		Buyer:        domain.BuyerStatus{AdditionalProperty: true},
	})
	require.NoError(t, err)

	require.Len(t, result.Bands, 4)
	assert.Equal(t, 3.0, result.Bands[0].Rate)
	assert.Equal(t, 250000.0, result.Bands[0].Taxable)
	assert.Equal(t, 7500.0, result.Bands[0].Tax)
	assert.Equal(t, 8.0, result.Bands[1].Rate)
	assert.Equal(t, 50000.0, result.Bands[1].Taxable)
	assert.Equal(t, 4000.0, result.Bands[1].Tax)
	assert.Equal(t, 0.0, result.Bands[2].Tax)
	assert.Equal(t, 0.0, result.Bands[3].Tax)

	assert.Equal(t, 11500.0, result.TotalTax)
	assert.Equal(t, 11500.0, result.BandTax)
	assert.Equal(t, 2500.0, result.StandardTax)
	assert.Equal(t, 9000.0, result.AdditionalSurcharge)
	assert.Equal(t, 0.0, result.NonResidentSurcharge)
	assert.InDelta(t, 3.8333, result.EffectiveRate, 1e-4)
	assert.Equal(t, "SDLT", result.TaxName)
	assert.Equal(t, domain.ReliefNone, result.Relief)
}

func TestTransactionTax_Scenarios(t *testing.T) {
	tests := []struct {
		name         string
		year         string
		price        float64
		jurisdiction domain.Jurisdiction
		buyer        domain.BuyerStatus
		wantTotal    float64
		wantRelief   domain.Relief
	}{
		{"england standard 300k", "2024-25", 300000, domain.JurisdictionEngland, domain.BuyerStatus{}, 2500, domain.ReliefNone},
		{"england below nil band", "2024-25", 240000, domain.JurisdictionEngland, domain.BuyerStatus{}, 0, domain.ReliefNone},
		{"england empty jurisdiction defaults", "2024-25", 300000, "", domain.BuyerStatus{}, 2500, domain.ReliefNone},
		{"england first time buyer under nil band", "2024-25", 400000, domain.JurisdictionEngland, domain.BuyerStatus{FirstTimeBuyer: true}, 0, domain.ReliefFirstTimeBuyer},
		{"england first time buyer 500k", "2024-25", 500000, domain.JurisdictionEngland, domain.BuyerStatus{FirstTimeBuyer: true}, 3750, domain.ReliefFirstTimeBuyer},
		{"england first time buyer at cap", "2024-25", 625000, domain.JurisdictionEngland, domain.BuyerStatus{FirstTimeBuyer: true}, 10000, domain.ReliefFirstTimeBuyer},
		{"england first time buyer over cap", "2024-25", 626000, domain.JurisdictionEngland, domain.BuyerStatus{FirstTimeBuyer: true}, 18800, domain.ReliefNone},
		{"england first time buyer with additional property", "2024-25", 300000, domain.JurisdictionEngland,
			domain.BuyerStatus{FirstTimeBuyer: true, AdditionalProperty: true}, 11500, domain.ReliefNone},
		{"england company above threshold", "2024-25", 600000, domain.JurisdictionEngland, domain.BuyerStatus{Company: true}, 90000, domain.ReliefCompanyFlatRate},
		{"england company below threshold pays surcharge", "2024-25", 400000, domain.JurisdictionEngland, domain.BuyerStatus{Company: true}, 19500, domain.ReliefNone},
		{"england non resident", "2024-25", 300000, domain.JurisdictionEngland, domain.BuyerStatus{NonResident: true}, 8500, domain.ReliefNone},
		{"scotland standard", "2024-25", 300000, domain.JurisdictionScotland, domain.BuyerStatus{}, 4600, domain.ReliefNone},
		{"scotland additional dwelling supplement", "2024-25", 300000, domain.JurisdictionScotland, domain.BuyerStatus{AdditionalProperty: true}, 22600, domain.ReliefNone},
		{"scotland first time buyer", "2024-25", 300000, domain.JurisdictionScotland, domain.BuyerStatus{FirstTimeBuyer: true}, 4000, domain.ReliefFirstTimeBuyer},
		{"scotland non resident has no surcharge", "2024-25", 300000, domain.JurisdictionScotland, domain.BuyerStatus{NonResident: true}, 4600, domain.ReliefNone},
		{"wales standard", "2024-25", 300000, domain.JurisdictionWales, domain.BuyerStatus{}, 4500, domain.ReliefNone},
		{"wales first time buyer has no relief", "2024-25", 300000, domain.JurisdictionWales, domain.BuyerStatus{FirstTimeBuyer: true}, 4500, domain.ReliefNone},
		{"wales higher rates", "2024-25", 300000, domain.JurisdictionWales, domain.BuyerStatus{AdditionalProperty: true}, 16500, domain.ReliefNone},
		{"england 2025-26 standard", "2025-26", 300000, domain.JurisdictionEngland, domain.BuyerStatus{}, 5000, domain.ReliefNone},
		{"england 2025-26 additional", "2025-26", 300000, domain.JurisdictionEngland, domain.BuyerStatus{AdditionalProperty: true}, 20000, domain.ReliefNone},
		{"zero price", "2024-25", 0, domain.JurisdictionEngland, domain.BuyerStatus{AdditionalProperty: true}, 0, domain.ReliefNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calc := newTestCalculator(t, tt.year)
			result, err := calc.TransactionTax(domain.TransactionTaxInput{
				Price:        tt.price,
				Jurisdiction: tt.jurisdiction,
				Buyer:        tt.buyer,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.wantTotal, result.TotalTax)
			assert.Equal(t, tt.wantRelief, result.Relief)
		})
	}
}

func TestTransactionTax_ZeroPriceHasZeroEffectiveRate(t *testing.T) {
	calc := newTestCalculator(t, "2024-25")
	result, err := calc.TransactionTax(domain.TransactionTaxInput{Price: 0})
	require.NoError(t, err)
	assert.Equal(t, 0.0, result.EffectiveRate)
}

func TestTransactionTax_Errors(t *testing.T) {
	calc := newTestCalculator(t, "2024-25")

	_, err := calc.TransactionTax(domain.TransactionTaxInput{Price: -1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = calc.TransactionTax(domain.TransactionTaxInput{Price: 300000, Jurisdiction: "northern_ireland"})
	assert.ErrorIs(t, err, domain.ErrUnsupportedJurisdiction)
}

var buyerConfigs = map[string]domain.BuyerStatus{
	"standard":       {},
	"first_time":     {FirstTimeBuyer: true},
	"additional":     {AdditionalProperty: true},
	"company":        {Company: true},
	"non_resident":   {NonResident: true},
	"additional_nrb": {AdditionalProperty: true, NonResident: true},
}

func allJurisdictions() []domain.Jurisdiction {
	return []domain.Jurisdiction{domain.JurisdictionEngland, domain.JurisdictionScotland, domain.JurisdictionWales}
}

func priceGrid() []float64 {
	var prices []float64
	for p := 0.0; p <= 2000000; p += 2500 {
		prices = append(prices, p)
	}
	// Straddle the thresholds where band tables switch.
	for _, edge := range []float64{125000, 145000, 175000, 225000, 250000, 300000, 325000, 400000, 425000,
		500000, 625000, 750000, 925000, 1500000} {
		prices = append(prices, edge-0.01, edge, edge+0.01)
	}
	return prices
}

func TestTransactionTax_BreakdownSumsToTotals(t *testing.T) {
	for _, year := range []string{"2024-25", "2025-26"} {
		calc := newTestCalculator(t, year)
		for _, j := range allJurisdictions() {
			for name, buyer := range buyerConfigs {
				for _, price := range priceGrid() {
					result, err := calc.TransactionTax(domain.TransactionTaxInput{Price: price, Jurisdiction: j, Buyer: buyer})
					require.NoError(t, err)

					tax, base := decimal.Zero, decimal.Zero
					for _, b := range result.Bands {
						tax = tax.Add(decimal.NewFromFloat(b.Tax))
						base = base.Add(decimal.NewFromFloat(b.BaseTax))
					}
					require.True(t, tax.Equal(decimal.NewFromFloat(result.BandTax)),
						"%s %s %s %.2f: bands sum %s, band tax %.2f", year, j, name, price, tax, result.BandTax)
					require.True(t, base.Equal(decimal.NewFromFloat(result.StandardTax)),
						"%s %s %s %.2f: base sum %s, standard tax %.2f", year, j, name, price, base, result.StandardTax)
				}
			}
		}
	}
}

func TestTransactionTax_BandsAreContiguous(t *testing.T) {
	for _, year := range []string{"2024-25", "2025-26"} {
		calc := newTestCalculator(t, year)
		for _, j := range allJurisdictions() {
			for name, buyer := range buyerConfigs {
				result, err := calc.TransactionTax(domain.TransactionTaxInput{Price: 450000, Jurisdiction: j, Buyer: buyer})
				require.NoError(t, err)
				assertContiguous(t, result.Bands, "%s %s %s", year, j, name)
			}
		}
	}
}

func assertContiguous(t *testing.T, bands []domain.BandAmount, msgAndArgs ...interface{}) {
	t.Helper()
	require.NotEmpty(t, bands, msgAndArgs...)
	assert.Equal(t, 0.0, bands[0].From, msgAndArgs...)
	for i := 0; i < len(bands)-1; i++ {
		require.NotNil(t, bands[i].To, msgAndArgs...)
		assert.Equal(t, *bands[i].To, bands[i+1].From, msgAndArgs...)
		assert.Greater(t, bands[i+1].From, bands[i].From, msgAndArgs...)
	}
	assert.Nil(t, bands[len(bands)-1].To, msgAndArgs...)
}

func TestTransactionTax_MonotonicInPrice(t *testing.T) {
	for _, year := range []string{"2024-25", "2025-26"} {
		calc := newTestCalculator(t, year)
		for _, j := range allJurisdictions() {
			for name, buyer := range buyerConfigs {
				prices := priceGrid()
				sortFloats(prices)

				previous := -1.0
				for _, price := range prices {
					result, err := calc.TransactionTax(domain.TransactionTaxInput{Price: price, Jurisdiction: j, Buyer: buyer})
					require.NoError(t, err)
					require.GreaterOrEqual(t, result.TotalTax, previous,
						"%s %s %s: tax fell at price %.2f", year, j, name, price)
					previous = result.TotalTax
				}
			}
		}
	}
}

func sortFloats(v []float64) {
	for i := 1; i < len(v); i++ {
		for k := i; k > 0 && v[k] < v[k-1]; k-- {
			v[k], v[k-1] = v[k-1], v[k]
		}
	}
}

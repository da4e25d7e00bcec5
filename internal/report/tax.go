package report

import (
	"fmt"
	"strings"

	"github.com/damo1005/dealflow-properties-sub003/internal/domain"
)

func writeBands(b *strings.Builder, bands []domain.BandAmount) {
	fmt.Fprintln(b, "| Band | Rate | Taxable | Tax |")
	fmt.Fprintln(b, "|:---|---:|---:|---:|")
	for _, band := range bands {
		upper := "and above"
		if band.To != nil {
			upper = "to " + GBP(*band.To)
		}
		fmt.Fprintf(b, "| %s %s | %s | %s | %s |\n", GBP(band.From), upper, Percent(band.Rate), GBP(band.Taxable), GBP(band.Tax))
	}
	fmt.Fprintln(b)
}

// TransactionTaxMarkdown renders an SDLT, LBTT or LTT calculation.
func TransactionTaxMarkdown(res *domain.TransactionTaxResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s on %s\n\n", res.TaxName, GBP(res.Price))
	fmt.Fprintf(&b, "Tax year %s, relief: %s.\n\n", res.TaxYear, res.Relief)
	writeBands(&b, res.Bands)

	fmt.Fprintln(&b, "| | Amount |")
	fmt.Fprintln(&b, "|:---|---:|")
	fmt.Fprintf(&b, "| Standard tax | %s |\n", GBP(res.StandardTax))
	if res.AdditionalSurcharge > 0 {
		fmt.Fprintf(&b, "| Additional property surcharge | %s |\n", GBP(res.AdditionalSurcharge))
	}
	if res.NonResidentSurcharge > 0 {
		fmt.Fprintf(&b, "| Non-resident surcharge | %s |\n", GBP(res.NonResidentSurcharge))
	}
	fmt.Fprintf(&b, "| **Total** | **%s** |\n", GBP(res.TotalTax))
	fmt.Fprintf(&b, "| Effective rate | %s |\n", Percent(res.EffectiveRate))
	return b.String()
}

func writeRegime(b *strings.Builder, title string, r domain.IncomeTaxRegime) {
	fmt.Fprintf(b, "## %s\n\n", title)
	fmt.Fprintln(b, "| | Amount |")
	fmt.Fprintln(b, "|:---|---:|")
	fmt.Fprintf(b, "| Rental profit | %s |\n", SignedGBP(r.RentalProfit))
	fmt.Fprintf(b, "| Personal allowance | %s |\n", GBP(r.PersonalAllowance))
	fmt.Fprintf(b, "| Taxable income | %s |\n", GBP(r.TaxableIncome))
	fmt.Fprintf(b, "| Tax before credit | %s |\n", GBP(r.TaxBeforeCredit))
	if r.FinanceCostCredit > 0 {
		fmt.Fprintf(b, "| Finance cost credit | -%s |\n", GBP(r.FinanceCostCredit))
	}
	fmt.Fprintf(b, "| Tax due | %s |\n", GBP(r.TaxAfterCredit))
	fmt.Fprintf(b, "| Tax on rental income | **%s** |\n\n", GBP(r.RentalTax))
}

// IncomeTaxMarkdown renders a rental income tax calculation with the pre-reform comparison.
func IncomeTaxMarkdown(res *domain.IncomeTaxResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Rental income tax %s\n\n", res.TaxYear)
	fmt.Fprintf(&b, "Gross rent %s, expenses %s, mortgage interest %s, other income %s.\n\n",
		GBP(res.GrossRent), GBP(res.TotalExpenses), GBP(res.MortgageInterest), GBP(res.OtherIncome))
	writeRegime(&b, "Current rules", res.Current)
	writeRegime(&b, "Before Section 24", res.PreReform)
	fmt.Fprintf(&b, "Effective rate on rental profit: %s\n", Percent(res.EffectiveRate))
	return b.String()
}

// CGTMarkdown renders a capital gains tax calculation for a disposal.
func CGTMarkdown(res *domain.CGTResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Capital gains tax %s\n\n", res.TaxYear)
	fmt.Fprintln(&b, "| | Amount |")
	fmt.Fprintln(&b, "|:---|---:|")
	fmt.Fprintf(&b, "| Gross gain | %s |\n", SignedGBP(res.GrossGain))
	if res.PrivateResidenceRelief > 0 {
		fmt.Fprintf(&b, "| Private residence relief (%s) | -%s |\n", Percent(res.ReliefProportion*100), GBP(res.PrivateResidenceRelief))
	}
	fmt.Fprintf(&b, "| Chargeable gain | %s |\n", GBP(res.ChargeableGain))
	fmt.Fprintf(&b, "| Annual exempt amount applied | -%s |\n", GBP(res.AllowanceApplied))
	fmt.Fprintf(&b, "| Taxable gain | %s |\n", GBP(res.TaxableGain))
	fmt.Fprintf(&b, "| Tax | %s |\n", GBP(res.TotalTax))
	if res.OwnershipSharePercent != 100 {
		fmt.Fprintf(&b, "| Your share (%s) | **%s** |\n", Percent(res.OwnershipSharePercent), GBP(res.Liability))
	} else {
		fmt.Fprintf(&b, "| **Liability** | **%s** |\n", GBP(res.Liability))
	}
	fmt.Fprintln(&b)

	if len(res.Bands) > 0 {
		writeBands(&b, res.Bands)
	}
	if res.ReportingDeadline != nil && res.PaymentDeadline != nil {
		fmt.Fprintf(&b, "Report by %s and pay by %s.\n",
			res.ReportingDeadline.Format("2 January 2006"), res.PaymentDeadline.Format("2 January 2006"))
	}
	return b.String()
}

// Section24Markdown renders the comparison of current and pre-reform mortgage interest relief.
func Section24Markdown(res *domain.Section24Result) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Section 24 impact %s\n\n", res.TaxYear)
	fmt.Fprintln(&b, "| | Current | Before Section 24 |")
	fmt.Fprintln(&b, "|:---|---:|---:|")
	fmt.Fprintf(&b, "| Taxable income | %s | %s |\n", GBP(res.Current.TaxableIncome), GBP(res.PreReform.TaxableIncome))
	fmt.Fprintf(&b, "| Finance cost credit | %s | %s |\n", GBP(res.Current.FinanceCostCredit), GBP(res.PreReform.FinanceCostCredit))
	fmt.Fprintf(&b, "| Tax on rental income | %s | %s |\n\n", GBP(res.Current.RentalTax), GBP(res.PreReform.RentalTax))

	fmt.Fprintf(&b, "- Extra tax per year: **%s**\n", SignedGBP(res.AnnualDifference))
	fmt.Fprintf(&b, "- Over 10 years: %s\n", SignedGBP(res.TenYearExtra))
	fmt.Fprintf(&b, "- Over 25 years: %s\n", SignedGBP(res.TwentyFiveYearExtra))
	fmt.Fprintf(&b, "- Effective rate on cash profit: %s\n", Percent(res.EffectiveRateOnCashProfit))
	if res.Warning != "" {
		fmt.Fprintf(&b, "\n> %s\n", res.Warning)
	}
	return b.String()
}

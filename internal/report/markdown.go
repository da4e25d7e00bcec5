package report

import (
	"fmt"
	"strings"

	"github.com/damo1005/dealflow-properties-sub003/internal/domain"
)

var strategyNames = map[domain.StrategyKind]string{
	domain.StrategyBTL:      "Buy-to-let",
	domain.StrategyStudent:  "Student let",
	domain.StrategyHMO:      "HMO",
	domain.StrategyShortLet: "Short let",
}

// StrategyName returns a display name for a strategy kind.
func StrategyName(k domain.StrategyKind) string {
	if name, ok := strategyNames[k]; ok {
		return name
	}
	return string(k)
}

// DealMarkdown renders a full deal analysis. The title is taken from the property
// address when one is known.
func DealMarkdown(in domain.DealInput, res *domain.DealAnalysisResult) string {
	var b strings.Builder

	title := in.Property.Address
	if title == "" {
		title = "Deal analysis"
	}
	fmt.Fprintf(&b, "# %s\n\n", title)
	fmt.Fprintf(&b, "%s at %s. Deal score **%d/100**.\n\n", StrategyName(res.Strategy), GBP(res.PurchasePrice), res.Score.Total)

	fmt.Fprint(&b, "## Summary\n\n")
	fmt.Fprintln(&b, "| Metric | Value |")
	fmt.Fprintln(&b, "|:---|---:|")
	fmt.Fprintf(&b, "| Monthly cash flow | %s |\n", SignedGBP(res.MonthlyCashFlow))
	fmt.Fprintf(&b, "| Annual cash flow | %s |\n", SignedGBP(res.AnnualCashFlow))
	fmt.Fprintf(&b, "| Gross yield | %s |\n", Percent(res.GrossYield))
	fmt.Fprintf(&b, "| Net yield | %s |\n", Percent(res.NetYield))
	fmt.Fprintf(&b, "| Return on cash | %s |\n", Percent(res.ROI))
	if res.LoanAmount > 0 {
		fmt.Fprintf(&b, "| Loan | %s |\n", GBP(res.LoanAmount))
		fmt.Fprintf(&b, "| Monthly mortgage | %s |\n", GBP(res.MonthlyMortgage))
	}
	fmt.Fprintln(&b)

	fmt.Fprint(&b, "## Score\n\n")
	fmt.Fprintln(&b, "| Component | Score (0-10) |")
	fmt.Fprintln(&b, "|:---|---:|")
	fmt.Fprintf(&b, "| Cash flow | %.1f |\n", res.Score.CashFlow)
	fmt.Fprintf(&b, "| ROI | %.1f |\n", res.Score.ROI)
	fmt.Fprintf(&b, "| Risk | %.1f |\n", res.Score.Risk)
	fmt.Fprintf(&b, "| Growth | %.1f |\n", res.Score.Growth)
	fmt.Fprintf(&b, "| Exit options | %.1f |\n\n", res.Score.ExitOptions)

	fmt.Fprint(&b, "## Income and costs\n\n")
	fmt.Fprintln(&b, "| Item | Annual |")
	fmt.Fprintln(&b, "|:---|---:|")
	fmt.Fprintf(&b, "| Potential income | %s |\n", GBP(res.Income.PotentialAnnual))
	fmt.Fprintf(&b, "| Void / occupancy loss | %s |\n", GBP(-res.Income.VoidLoss))
	fmt.Fprintf(&b, "| **Effective income** | **%s** |\n", GBP(res.Income.EffectiveAnnual))
	for _, c := range costRows(res.Costs) {
		fmt.Fprintf(&b, "| %s | %s |\n", c.label, GBP(-c.amount))
	}
	fmt.Fprintf(&b, "| Mortgage | %s |\n", GBP(-res.AnnualMortgage))
	fmt.Fprintf(&b, "| **Cash flow** | **%s** |\n\n", SignedGBP(res.AnnualCashFlow))

	fmt.Fprint(&b, "## Cash required\n\n")
	fmt.Fprintln(&b, "| Item | Amount |")
	fmt.Fprintln(&b, "|:---|---:|")
	for _, c := range cashRows(res.CashRequired) {
		fmt.Fprintf(&b, "| %s | %s |\n", c.label, GBP(c.amount))
	}
	fmt.Fprintf(&b, "| **Total** | **%s** |\n\n", GBP(res.CashRequired.Total))

	sd := res.Tax.StampDuty
	fmt.Fprintf(&b, "## %s\n\n", sd.TaxName)
	fmt.Fprintf(&b, "%s of %s (effective rate %s).\n\n", sd.TaxName, GBP(sd.TotalTax), Percent(sd.EffectiveRate))
	if it := res.Tax.IncomeTax; it != nil {
		fmt.Fprintf(&b, "Estimated income tax on the rental profit: %s a year (%s before Section 24).\n\n",
			GBP(it.Current.RentalTax), GBP(it.PreReform.RentalTax))
	}

	if len(res.StressTest) > 0 {
		fmt.Fprint(&b, "## Interest rate stress test\n\n")
		fmt.Fprintln(&b, "| Rate | Monthly payment | Monthly cash flow | Status |")
		fmt.Fprintln(&b, "|---:|---:|---:|:---|")
		for _, row := range res.StressTest {
			fmt.Fprintf(&b, "| %s | %s | %s | %s |\n",
				Percent(row.InterestRate), GBP(row.MonthlyPayment), SignedGBP(row.MonthlyCashFlow), row.Status)
		}
		fmt.Fprintln(&b)
	}

	if len(res.Projection) > 0 {
		fmt.Fprint(&b, "## Five year projection\n\n")
		fmt.Fprintln(&b, "| Year | Value | Loan | Equity | Cumulative cash flow | Total return |")
		fmt.Fprintln(&b, "|---:|---:|---:|---:|---:|---:|")
		for _, y := range res.Projection {
			fmt.Fprintf(&b, "| %d | %s | %s | %s | %s | %s |\n",
				y.Year, GBP(y.PropertyValue), GBP(y.LoanBalance), GBP(y.Equity),
				SignedGBP(y.CumulativeCashFlow), SignedGBP(y.TotalReturn))
		}
		fmt.Fprintln(&b)
	}

	fmt.Fprint(&b, "## Risks\n\n")
	if len(res.Risks) == 0 {
		fmt.Fprint(&b, "No risks flagged.\n")
	}
	for _, r := range res.Risks {
		fmt.Fprintf(&b, "- **%s**: %s\n", strings.ToUpper(string(r.Severity)), r.Message)
	}

	return b.String()
}

type row struct {
	label  string
	amount float64
}

// costRows lists the non-zero operating costs in display order.
func costRows(c domain.CostBreakdown) []row {
	all := []row{
		{"Management", c.Management},
		{"Maintenance", c.Maintenance},
		{"Insurance", c.Insurance},
		{"Service charge", c.ServiceCharge},
		{"Ground rent", c.GroundRent},
		{"Bills", c.Bills},
		{"Platform fees", c.PlatformFees},
		{"Cleaning", c.Cleaning},
		{"Other", c.Other},
	}
	return nonZero(all)
}

func cashRows(c domain.CashRequired) []row {
	all := []row{
		{"Deposit", c.Deposit},
		{"Stamp duty", c.StampDuty},
		{"Legal fees", c.LegalFees},
		{"Survey", c.SurveyFees},
		{"Refurbishment", c.Refurbishment},
		{"Arrangement fee", c.ArrangementFee},
	}
	return nonZero(all)
}

func nonZero(rows []row) []row {
	out := rows[:0]
	for _, r := range rows {
		if r.amount != 0 {
			out = append(out, r)
		}
	}
	return out
}

// SimulationMarkdown summarises a Monte Carlo run.
func SimulationMarkdown(out *domain.SimulationOutput) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Monte Carlo simulation\n\n%d trials, seed %d.\n\n", out.Iterations, out.Seed)
	fmt.Fprintln(&b, "| Statistic | Monthly cash flow | ROI |")
	fmt.Fprintln(&b, "|:---|---:|---:|")
	cf, roi := out.CashFlowStats, out.ROIStats
	fmt.Fprintf(&b, "| Baseline | %s | %s |\n", SignedGBP(out.BaselineMonthlyCashFlow), Percent(out.BaselineROI))
	fmt.Fprintf(&b, "| Mean | %s | %s |\n", SignedGBP(cf.Mean), Percent(roi.Mean))
	fmt.Fprintf(&b, "| Std dev | %s | %s |\n", GBP(cf.StdDev), Percent(roi.StdDev))
	fmt.Fprintf(&b, "| P10 | %s | %s |\n", SignedGBP(cf.P10), Percent(roi.P10))
	fmt.Fprintf(&b, "| P50 | %s | %s |\n", SignedGBP(cf.P50), Percent(roi.P50))
	fmt.Fprintf(&b, "| P90 | %s | %s |\n", SignedGBP(cf.P90), Percent(roi.P90))
	fmt.Fprintf(&b, "| Min | %s | %s |\n", SignedGBP(cf.Min), Percent(roi.Min))
	fmt.Fprintf(&b, "| Max | %s | %s |\n", SignedGBP(cf.Max), Percent(roi.Max))

	if len(out.Probabilities) > 0 {
		fmt.Fprint(&b, "\n## Probabilities\n\n")
		for _, p := range out.Probabilities {
			threshold := Percent(p.Threshold)
			if p.Metric == "monthly_cash_flow" {
				threshold = GBP(p.Threshold)
			}
			fmt.Fprintf(&b, "- P(%s >= %s) = %s\n", p.Metric, threshold, Percent(p.Probability))
		}
	}
	return b.String()
}

// GoalSeekMarkdown summarises a goal seek and its alternatives.
func GoalSeekMarkdown(res *domain.GoalSeekResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Goal seek: %s = %.2f\n\n", res.Goal, res.Target)
	fmt.Fprintln(&b, "| Variable | Current | Required | Change | Feasibility |")
	fmt.Fprintln(&b, "|:---|---:|---:|---:|:---|")
	writeSeekRow(&b, *res)
	for _, alt := range res.Alternatives {
		writeSeekRow(&b, alt)
	}
	if res.Message != "" {
		fmt.Fprintf(&b, "\n%s\n", res.Message)
	}
	return b.String()
}

func writeSeekRow(b *strings.Builder, r domain.GoalSeekResult) {
	required := "n/a"
	if r.Value != nil {
		required = fmt.Sprintf("%.2f", *r.Value)
	}
	fmt.Fprintf(b, "| %s | %.2f | %s | %+.1f%% | %d (%s) |\n",
		r.Variable, r.CurrentValue, required, r.ChangePercent, r.Feasibility, r.FeasibilityLabel)
}

package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/damo1005/dealflow-properties-sub003/internal/domain"
	"github.com/go-pdf/fpdf"
)

const (
	marginLeft   = 15.0
	marginTop    = 15.0
	marginRight  = 15.0
	marginBottom = 15.0
	contentWidth = 210.0 - marginLeft - marginRight
)

// dealPDF lays out a single deal analysis on A4 pages.
type dealPDF struct {
	pdf *fpdf.Fpdf
	in  domain.DealInput
	res *domain.DealAnalysisResult
	now time.Time
}

// DealPDF renders a deal analysis as a PDF document.
func DealPDF(in domain.DealInput, res *domain.DealAnalysisResult, generated time.Time) ([]byte, error) {
	r := &dealPDF{
		pdf: fpdf.New("P", "mm", "A4", ""),
		in:  in,
		res: res,
		now: generated,
	}
	r.pdf.SetMargins(marginLeft, marginTop, marginRight)
	r.pdf.SetAutoPageBreak(true, marginBottom)
	r.pdf.SetTitle("Deal analysis", true)

	r.addSummaryPage()
	r.addDetailPage()

	var buf bytes.Buffer
	if err := r.pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *dealPDF) heading(text string) {
	r.pdf.Ln(6)
	r.pdf.SetFont("Arial", "B", 13)
	r.pdf.SetTextColor(0, 51, 102)
	r.pdf.CellFormat(contentWidth, 8, pdfText(text), "B", 1, "L", false, 0, "")
	r.pdf.Ln(2)
	r.pdf.SetFont("Arial", "", 10)
	r.pdf.SetTextColor(50, 50, 50)
}

func (r *dealPDF) keyValue(label, value string) {
	r.pdf.CellFormat(contentWidth*0.6, 6, pdfText(label), "", 0, "L", false, 0, "")
	r.pdf.CellFormat(contentWidth*0.4, 6, pdfText(value), "", 1, "R", false, 0, "")
}

// table draws a header row and body rows with equal-width columns. The first column is
// left aligned and the rest right aligned.
func (r *dealPDF) table(header []string, rows [][]string) {
	width := contentWidth / float64(len(header))

	r.pdf.SetFont("Arial", "B", 9)
	r.pdf.SetFillColor(245, 247, 250)
	for i, h := range header {
		r.pdf.CellFormat(width, 7, pdfText(h), "1", 0, align(i), true, 0, "")
	}
	r.pdf.Ln(-1)

	r.pdf.SetFont("Arial", "", 9)
	for _, row := range rows {
		for i, cell := range row {
			r.pdf.CellFormat(width, 6, pdfText(cell), "1", 0, align(i), false, 0, "")
		}
		r.pdf.Ln(-1)
	}
	r.pdf.SetFont("Arial", "", 10)
}

func align(col int) string {
	if col == 0 {
		return "L"
	}
	return "R"
}

func (r *dealPDF) addSummaryPage() {
	r.pdf.AddPage()

	title := r.in.Property.Address
	if title == "" {
		title = "Deal analysis"
	}
	r.pdf.SetFont("Arial", "B", 20)
	r.pdf.SetTextColor(0, 51, 102)
	r.pdf.CellFormat(contentWidth, 12, pdfText(title), "", 1, "L", false, 0, "")

	r.pdf.SetFont("Arial", "I", 10)
	r.pdf.SetTextColor(80, 80, 80)
	subtitle := fmt.Sprintf("%s at %s. Generated %s",
		StrategyName(r.res.Strategy), GBP(r.res.PurchasePrice), r.now.Format("2 January 2006"))
	r.pdf.CellFormat(contentWidth, 6, pdfText(subtitle), "", 1, "L", false, 0, "")

	r.pdf.Ln(4)
	r.pdf.SetFont("Arial", "B", 28)
	r.pdf.SetTextColor(scoreColour(r.res.Score.Total))
	r.pdf.CellFormat(contentWidth, 14, fmt.Sprintf("%d / 100", r.res.Score.Total), "", 1, "C", false, 0, "")

	res := r.res
	r.heading("Key figures")
	r.keyValue("Monthly cash flow", SignedGBP(res.MonthlyCashFlow))
	r.keyValue("Annual cash flow", SignedGBP(res.AnnualCashFlow))
	r.keyValue("Gross yield", Percent(res.GrossYield))
	r.keyValue("Net yield", Percent(res.NetYield))
	r.keyValue("Return on cash", Percent(res.ROI))
	r.keyValue("Total cash required", GBP(res.CashRequired.Total))
	if res.LoanAmount > 0 {
		r.keyValue("Loan", GBP(res.LoanAmount))
		r.keyValue("Monthly mortgage", GBP(res.MonthlyMortgage))
	}
	sd := res.Tax.StampDuty
	r.keyValue(sd.TaxName, GBP(sd.TotalTax))

	r.heading("Score breakdown")
	r.keyValue("Cash flow", fmt.Sprintf("%.1f / 10", res.Score.CashFlow))
	r.keyValue("ROI", fmt.Sprintf("%.1f / 10", res.Score.ROI))
	r.keyValue("Risk", fmt.Sprintf("%.1f / 10", res.Score.Risk))
	r.keyValue("Growth", fmt.Sprintf("%.1f / 10", res.Score.Growth))
	r.keyValue("Exit options", fmt.Sprintf("%.1f / 10", res.Score.ExitOptions))

	r.heading("Risks")
	if len(res.Risks) == 0 {
		r.pdf.CellFormat(contentWidth, 6, "No risks flagged.", "", 1, "L", false, 0, "")
	}
	for _, risk := range res.Risks {
		r.pdf.MultiCell(contentWidth, 6, pdfText(fmt.Sprintf("[%s] %s", risk.Severity, risk.Message)), "", "L", false)
	}
}

func (r *dealPDF) addDetailPage() {
	r.pdf.AddPage()
	res := r.res

	r.heading("Income and costs (annual)")
	r.keyValue("Potential income", GBP(res.Income.PotentialAnnual))
	r.keyValue("Void / occupancy loss", GBP(-res.Income.VoidLoss))
	r.keyValue("Effective income", GBP(res.Income.EffectiveAnnual))
	for _, c := range costRows(res.Costs) {
		r.keyValue(c.label, GBP(-c.amount))
	}
	r.keyValue("Mortgage", GBP(-res.AnnualMortgage))

	r.heading("Cash required")
	for _, c := range cashRows(res.CashRequired) {
		r.keyValue(c.label, GBP(c.amount))
	}

	if len(res.StressTest) > 0 {
		r.heading("Interest rate stress test")
		rows := make([][]string, 0, len(res.StressTest))
		for _, s := range res.StressTest {
			rows = append(rows, []string{
				Percent(s.InterestRate), GBP(s.MonthlyPayment), SignedGBP(s.MonthlyCashFlow), string(s.Status),
			})
		}
		r.table([]string{"Rate", "Payment", "Cash flow", "Status"}, rows)
	}

	if len(res.Projection) > 0 {
		r.heading("Five year projection")
		rows := make([][]string, 0, len(res.Projection))
		for _, y := range res.Projection {
			rows = append(rows, []string{
				fmt.Sprintf("Year %d", y.Year), GBP(y.PropertyValue), GBP(y.Equity),
				SignedGBP(y.CumulativeCashFlow), SignedGBP(y.TotalReturn),
			})
		}
		r.table([]string{"Year", "Value", "Equity", "Cash flow", "Total return"}, rows)
	}
}

func scoreColour(score int) (int, int, int) {
	switch {
	case score >= 70:
		return 0, 128, 0
	case score >= 50:
		return 204, 122, 0
	default:
		return 178, 34, 34
	}
}

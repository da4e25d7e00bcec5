// Package report renders deal analyses as markdown and PDF.
package report

import (
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// GBP formats an amount in pounds with thousands separators, e.g. £1,234.56.
func GBP(amount float64) string {
	pence := decimal.NewFromFloat(amount).Shift(2).Round(0).IntPart()
	return money.New(pence, money.GBP).Display()
}

// SignedGBP is GBP with an explicit plus sign on positive amounts.
func SignedGBP(amount float64) string {
	s := GBP(amount)
	if amount > 0 && !strings.HasPrefix(s, "+") {
		return "+" + s
	}
	return s
}

// Percent formats a percentage to two decimal places.
func Percent(v float64) string {
	return fmt.Sprintf("%.2f%%", v)
}

// pdfText converts UTF-8 text to the Latin-1 the core PDF fonts expect.
func pdfText(s string) string {
	return strings.NewReplacer("£", "\xa3", "−", "-", "–", "-").Replace(s)
}

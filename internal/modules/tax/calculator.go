// Package tax implements UK property taxes: transaction tax on purchase (SDLT, LBTT, LTT),
// income tax on rental profit with the Section 24 finance-cost restriction, and capital gains
// tax on disposal. Rates and thresholds come from versioned rule tables, never from code.
package tax

import (
	"fmt"

	"github.com/damo1005/dealflow-properties-sub003/internal/domain"
)

// Calculator computes taxes under one tax year's rules. It holds no mutable state and is safe
// for concurrent use.
type Calculator struct {
	rules *Rules
}

// NewCalculator selects year from book. An empty year selects DefaultTaxYear.
func NewCalculator(book RuleBook, year string) (*Calculator, error) {
	if year == "" {
		year = DefaultTaxYear
	}
	rules, ok := book[year]
	if !ok {
		return nil, fmt.Errorf("%w: no tax rules for year %q (have %v)", domain.ErrInvalidInput, year, book.Years())
	}
	return &Calculator{rules: rules}, nil
}

// NewDefaultCalculator uses the compiled-in rules for DefaultTaxYear.
func NewDefaultCalculator() (*Calculator, error) {
	book, err := DefaultRules()
	if err != nil {
		return nil, err
	}
	return NewCalculator(book, DefaultTaxYear)
}

// TaxYear returns the year this calculator applies.
func (c *Calculator) TaxYear() string {
	return c.rules.TaxYear
}

// Rules exposes the rule set, read-only by convention.
func (c *Calculator) Rules() *Rules {
	return c.rules
}

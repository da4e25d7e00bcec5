package domain

import "errors"

var (
	// ErrInvalidInput is returned when a calculation receives values it cannot work with:
	// negative prices, an LTV outside [0,100], a malformed band table, an unknown variable.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedJurisdiction is returned when a tax calculation is asked for a
	// jurisdiction or income-tax region that has no rule table.
	ErrUnsupportedJurisdiction = errors.New("unsupported jurisdiction")

	// ErrNotFound is returned by stores when a record does not exist.
	ErrNotFound = errors.New("not found")
)

package goalseek

import (
	"math"

	"github.com/damo1005/dealflow-properties-sub003/internal/domain"
)

const (
	labelNotAchievable = "Not achievable within limits"
	labelYourChoice    = "Your choice"
)

// feasibility scores how realistic a change is. Price and rent are judged by the percentage
// change; deposit and rate by the change in percentage points, since the buyer controls them.
func feasibility(v domain.Variable, current, value float64) (int, string) {
	pct := math.Abs(changePercent(current, value))
	points := math.Abs(value - current)

	switch v {
	case domain.VarPurchasePrice:
		switch {
		case pct <= 5:
			return 90, "Very achievable"
		case pct <= 10:
			return 70, "Achievable with negotiation"
		case pct <= 20:
			return 45, "Challenging"
		}
		return 20, "Unlikely"

	case domain.VarMonthlyRent:
		switch {
		case pct <= 5:
			return 85, "Very achievable"
		case pct <= 10:
			return 65, "Achievable"
		case pct <= 20:
			return 40, "Challenging"
		}
		return 15, "Unlikely"

	case domain.VarDepositPercent:
		if points <= 10 {
			return 95, labelYourChoice
		}
		return 80, labelYourChoice

	case domain.VarMortgageRate:
		switch {
		case points <= 0.5:
			return 85, labelYourChoice
		case points <= 1.5:
			return 60, "Shop around"
		}
		return 30, "Unlikely"
	}

	return 0, labelNotAchievable
}

func changePercent(current, value float64) float64 {
	if current == 0 {
		return 0
	}
	return (value - current) / current * 100
}

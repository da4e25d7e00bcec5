package formulas

import "math"

// Round2 rounds to pennies.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Round1 rounds to one decimal place (used for percentages in presented results).
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// SafeDiv returns a/b, or fallback when b is zero or the result is not finite.
func SafeDiv(a, b, fallback float64) float64 {
	if b == 0 {
		return fallback
	}
	v := a / b
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fallback
	}
	return v
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// RoundTo rounds to the given number of decimal places.
func RoundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

package formulas

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Summary describes a sample of simulated outcomes.
type Summary struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	P10    float64 `json:"percentile_10"`
	P50    float64 `json:"percentile_50"`
	P90    float64 `json:"percentile_90"`
}

// Summarize computes mean, standard deviation, extremes and the 10/50/90 percentiles in one pass
// over a sorted copy of data. The input slice is left untouched.
func Summarize(data []float64) Summary {
	if len(data) == 0 {
		return Summary{}
	}

	sorted := sortedCopy(data)
	mean := stat.Mean(sorted, nil)
	std := 0.0
	if len(sorted) > 1 {
		std = stat.StdDev(sorted, nil)
	}

	return Summary{
		Mean:   mean,
		StdDev: std,
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
		P10:    stat.Quantile(0.10, stat.Empirical, sorted, nil),
		P50:    stat.Quantile(0.50, stat.Empirical, sorted, nil),
		P90:    stat.Quantile(0.90, stat.Empirical, sorted, nil),
	}
}

// ProbabilityAtLeast returns the percentage of samples ≥ threshold.
func ProbabilityAtLeast(data []float64, threshold float64) float64 {
	if len(data) == 0 {
		return 0
	}
	count := 0
	for _, v := range data {
		if v >= threshold {
			count++
		}
	}
	return float64(count) / float64(len(data)) * 100
}

func sortedCopy(data []float64) []float64 {
	sorted := make([]float64, len(data))
	copy(sorted, data)
	sort.Float64s(sorted)
	return sorted
}

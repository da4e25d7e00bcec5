package domain

import (
	"fmt"
	"sort"
)

// Variable names an adjustable or uncertain input of a deal.
type Variable string

const (
	VarPurchasePrice      Variable = "purchasePrice"
	VarMonthlyRent        Variable = "monthlyRent"
	VarDepositPercent     Variable = "depositPercent"
	VarMortgageRate       Variable = "mortgageRate"
	VarVoidWeeks          Variable = "voidWeeks"
	VarManagementPercent  Variable = "managementPercent"
	VarMaintenancePercent Variable = "maintenancePercent"
	VarOccupancyPercent   Variable = "occupancyPercent"
	VarNightlyRate        Variable = "nightlyRate"
	VarRoomRent           Variable = "roomRent"
)

// IsPercent reports whether the variable is a percentage bounded by 100.
func (v Variable) IsPercent() bool {
	switch v {
	case VarDepositPercent, VarManagementPercent, VarMaintenancePercent, VarOccupancyPercent:
		return true
	}
	return false
}

// Distribution is the sampling shape of an uncertain variable.
type Distribution string

const (
	DistributionNormal     Distribution = "normal"
	DistributionUniform    Distribution = "uniform"
	DistributionTriangular Distribution = "triangular"
)

// VariableRange bounds an uncertain variable.
type VariableRange struct {
	Min          float64      `json:"min"`
	MostLikely   float64      `json:"most_likely"`
	Max          float64      `json:"max"`
	Distribution Distribution `json:"distribution"`
}

// Validate requires 0 ≤ min ≤ mostLikely ≤ max and a known distribution.
func (r VariableRange) Validate() error {
	if r.Min < 0 {
		return fmt.Errorf("%w: range minimum must not be negative", ErrInvalidInput)
	}
	if r.Min > r.MostLikely || r.MostLikely > r.Max {
		return fmt.Errorf("%w: range requires min <= most likely <= max, got %.4g/%.4g/%.4g",
			ErrInvalidInput, r.Min, r.MostLikely, r.Max)
	}
	switch r.Distribution {
	case DistributionNormal, DistributionUniform, DistributionTriangular:
		return nil
	}
	return fmt.Errorf("%w: unknown distribution %q", ErrInvalidInput, r.Distribution)
}

// Thresholds are the values whose exceedance probability a simulation reports.
type Thresholds struct {
	MonthlyCashFlow []float64 `json:"monthly_cash_flow,omitempty"`
	ROI             []float64 `json:"roi,omitempty"`
}

// SimulationConfig configures a Monte Carlo run.
type SimulationConfig struct {
	Iterations int                        `json:"iterations"`
	Seed       uint64                     `json:"seed"`
	Variables  map[Variable]VariableRange `json:"variables"`
	Thresholds Thresholds                 `json:"thresholds"`
}

// SortedVariables returns the configured variables in a stable order for sampling.
func (c SimulationConfig) SortedVariables() []Variable {
	vars := make([]Variable, 0, len(c.Variables))
	for v := range c.Variables {
		vars = append(vars, v)
	}
	sort.Slice(vars, func(i, j int) bool { return vars[i] < vars[j] })
	return vars
}

// SimulationResult holds the raw per-trial samples, in trial order.
type SimulationResult struct {
	MonthlyCashFlow []float64 `json:"monthly_cash_flow"`
	ROI             []float64 `json:"roi"`
}

// SimulationStats summarises one metric across all trials.
type SimulationStats struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	P10    float64 `json:"percentile_10"`
	P50    float64 `json:"percentile_50"`
	P90    float64 `json:"percentile_90"`
}

// ThresholdProbability is the share of trials, in percent, whose metric was at least Threshold.
type ThresholdProbability struct {
	Metric      string  `json:"metric"`
	Threshold   float64 `json:"threshold"`
	Probability float64 `json:"probability"`
}

// SimulationOutput is everything a Monte Carlo run returns.
type SimulationOutput struct {
	Iterations    int                    `json:"iterations"`
	Seed          uint64                 `json:"seed"`
	Results       SimulationResult       `json:"results"`
	CashFlowStats SimulationStats        `json:"cash_flow_stats"`
	ROIStats      SimulationStats        `json:"roi_stats"`
	Probabilities []ThresholdProbability `json:"probabilities"`
	// BaselineMonthlyCashFlow and BaselineROI are the deterministic figures for the unsampled deal.
	BaselineMonthlyCashFlow float64 `json:"baseline_monthly_cash_flow"`
	BaselineROI             float64 `json:"baseline_roi"`
}

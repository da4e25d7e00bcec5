package deal

import (
	"math"

	"github.com/damo1005/dealflow-properties-sub003/internal/domain"
)

// rung is one step of a threshold ladder: values at or above min score points.
type rung struct {
	min    float64
	points float64
}

// ladder scores a value against rungs sorted by descending min, falling back to floor.
type ladder struct {
	rungs []rung
	floor float64
}

func (l ladder) score(v float64) float64 {
	for _, r := range l.rungs {
		if v >= r.min {
			return r.points
		}
	}
	return l.floor
}

var (
	// monthly cash flow in pounds
	cashFlowLadder = ladder{rungs: []rung{{500, 10}, {300, 8}, {150, 6}, {0, 4}}, floor: 2}
	// cash-on-cash return in percent
	roiLadder = ladder{rungs: []rung{{15, 10}, {10, 8}, {6, 6}, {3, 4}}, floor: 2}
	// assumed capital growth in percent a year
	growthLadder = ladder{rungs: []rung{{5, 10}, {4, 8}, {3, 6}, {2, 4}}, floor: 2}
)

// exitBase is the exit-options score each strategy starts from before financing adjustments.
var exitBase = map[domain.StrategyKind]float64{
	domain.StrategyBTL:      8,
	domain.StrategyHMO:      6,
	domain.StrategyStudent:  5,
	domain.StrategyShortLet: 6,
}

// Score produces the five 0–10 sub-scores and the 0–100 composite, round(mean × 10).
func Score(in domain.DealInput, m Metrics, risks []domain.RiskItem) domain.ScoreBreakdown {
	s := domain.ScoreBreakdown{
		CashFlow:    cashFlowLadder.score(m.MonthlyCashFlow),
		ROI:         roiLadder.score(m.ROI),
		Risk:        riskScore(risks),
		Growth:      growthLadder.score(in.GrowthAssumptions().CapitalGrowthPercent),
		ExitOptions: exitScore(in),
	}

	mean := (s.CashFlow + s.ROI + s.Risk + s.Growth + s.ExitOptions) / 5
	s.Total = int(math.Round(math.Max(0, math.Min(100, mean*10))))
	return s
}

// riskScore starts at 10 and loses 2 per high and 1 per medium risk.
func riskScore(risks []domain.RiskItem) float64 {
	score := 10.0
	for _, r := range risks {
		switch r.Severity {
		case domain.SeverityHigh:
			score -= 2
		case domain.SeverityMedium:
			score--
		}
	}
	return math.Max(0, score)
}

func exitScore(in domain.DealInput) float64 {
	score, ok := exitBase[in.Strategy.Kind]
	if !ok {
		return 0
	}
	if in.Financing.IsCash() {
		score += 2
	} else if in.Financing.LTV > 80 {
		score -= 2
	}
	return math.Max(0, math.Min(10, score))
}

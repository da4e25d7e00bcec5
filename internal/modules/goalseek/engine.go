// Package goalseek solves deals backwards: given a target for one output metric it searches
// one adjustable input for the value that reaches it.
package goalseek

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/damo1005/dealflow-properties-sub003/internal/domain"
	"github.com/damo1005/dealflow-properties-sub003/internal/modules/deal"
	"github.com/damo1005/dealflow-properties-sub003/pkg/formulas"
	"github.com/rs/zerolog"
)

// MaxIterations bounds every bisection.
const MaxIterations = 50

// Request asks for the value of Variable that brings Goal to Target.
type Request struct {
	Deal     domain.DealInput `json:"deal"`
	Goal     domain.Goal      `json:"goal"`
	Target   float64          `json:"target"`
	Variable domain.Variable  `json:"variable"`
}

// Validate checks the goal, the variable and the deal.
func (r Request) Validate() error {
	if _, ok := goalTolerance[r.Goal]; !ok {
		return fmt.Errorf("%w: unknown goal %q", domain.ErrInvalidInput, r.Goal)
	}
	if _, ok := Monotonicity[r.Variable]; !ok {
		return fmt.Errorf("%w: %q cannot be goal-sought", domain.ErrInvalidInput, r.Variable)
	}
	if math.IsNaN(r.Target) || math.IsInf(r.Target, 0) {
		return fmt.Errorf("%w: target must be a finite number", domain.ErrInvalidInput)
	}
	return r.Deal.Validate()
}

// Engine runs goal seeks.
type Engine struct {
	deals   *deal.Calculator
	timeout time.Duration
	log     zerolog.Logger
}

// NewEngine creates a goal-seek engine. A positive timeout bounds every Seek in addition to
// the caller's context.
func NewEngine(deals *deal.Calculator, timeout time.Duration, log zerolog.Logger) *Engine {
	return &Engine{
		deals:   deals,
		timeout: timeout,
		log:     log.With().Str("component", "goal_seek").Logger(),
	}
}

// Seek solves req for its variable and, as alternatives, for every other adjustable variable
// that applies to the deal. Alternatives are ordered by feasibility, most feasible first.
func (e *Engine) Seek(ctx context.Context, req Request) (*domain.GoalSeekResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	primary, err := e.seek(ctx, req.Deal, req.Goal, req.Target, req.Variable)
	if err != nil {
		return nil, err
	}

	for _, v := range Variables {
		if v == req.Variable {
			continue
		}
		if _, err := deal.Get(req.Deal, v); err != nil {
			continue // not applicable to this deal
		}
		alt, err := e.seek(ctx, req.Deal, req.Goal, req.Target, v)
		if err != nil {
			return nil, err
		}
		primary.Alternatives = append(primary.Alternatives, alt)
	}
	sort.SliceStable(primary.Alternatives, func(i, j int) bool {
		return primary.Alternatives[i].Feasibility > primary.Alternatives[j].Feasibility
	})

	e.log.Debug().
		Str("goal", string(req.Goal)).
		Str("variable", string(req.Variable)).
		Float64("target", req.Target).
		Bool("achieved", primary.Achieved).
		Int("iterations", primary.Iterations).
		Dur("duration", time.Since(start)).
		Msg("Goal seek completed")

	return &primary, nil
}

func metricOf(m deal.Metrics, goal domain.Goal) float64 {
	switch goal {
	case domain.GoalROI:
		return m.ROI
	case domain.GoalNetYield:
		return m.NetYield
	case domain.GoalMaxCashRequired:
		return m.CashRequired.Total
	default:
		return m.MonthlyCashFlow
	}
}

// evaluate sets v to x on a copy of base and returns the goal metric.
func (e *Engine) evaluate(base domain.DealInput, goal domain.Goal, v domain.Variable, x float64) (float64, error) {
	in, err := deal.Set(base, v, x)
	if err != nil {
		return 0, err
	}
	m, err := e.deals.Evaluate(in)
	if err != nil {
		return 0, err
	}
	return metricOf(m, goal), nil
}

// seek bisects a single variable.
func (e *Engine) seek(ctx context.Context, base domain.DealInput, goal domain.Goal, target float64, v domain.Variable) (domain.GoalSeekResult, error) {
	current, err := deal.Get(base, v)
	if err != nil {
		return domain.GoalSeekResult{}, err
	}
	m, err := e.deals.Evaluate(base)
	if err != nil {
		return domain.GoalSeekResult{}, err
	}
	currentMetric := metricOf(m, goal)

	res := domain.GoalSeekResult{
		Goal:          goal,
		Variable:      v,
		Target:        target,
		CurrentValue:  current,
		CurrentMetric: formulas.Round2(currentMetric),
	}
	tol := goalTolerance[goal]

	if math.Abs(currentMetric-target) <= tol {
		value, metric := current, formulas.Round2(currentMetric)
		res.Value, res.AchievedMetric = &value, &metric
		res.Achieved = true
		res.Feasibility, res.FeasibilityLabel = feasibility(v, current, current)
		res.Message = "Target already met"
		return res, nil
	}

	dir := DirectionOf(v, goal, base, m)
	if dir == NoEffect {
		res.FeasibilityLabel = labelNotAchievable
		res.Message = fmt.Sprintf("%s does not affect %s", v, goal)
		return res, nil
	}

	lo, hi := searchBounds(v, current)
	if hi <= lo {
		res.FeasibilityLabel = labelNotAchievable
		res.Message = fmt.Sprintf("%s has no range to search", v)
		return res, nil
	}

	best, bestMetric, found := 0.0, 0.0, false
	try := func(x float64) (float64, error) {
		metric, err := e.evaluate(base, goal, v, x)
		if err != nil {
			return 0, err
		}
		if !found || math.Abs(metric-target) < math.Abs(bestMetric-target) {
			best, bestMetric, found = x, metric, true
		}
		return metric, nil
	}

	// Search from the current value towards the bound dir points at. When only the opposite
	// side brackets the target, search that side instead.
	near, far, other := formulas.Clamp(current, lo, hi), hi, lo
	if !dir.NeedsIncrease(currentMetric, target) {
		far, other = lo, hi
	}
	fNear, err := try(near)
	if err != nil {
		return res, err
	}
	fFar, err := try(far)
	if err != nil {
		return res, err
	}
	if !brackets(fNear, fFar, target) {
		fOther, err := try(other)
		if err != nil {
			return res, err
		}
		if brackets(fNear, fOther, target) {
			far = other
		}
	}

	varTol := variableTolerance[v]
	for res.Iterations < MaxIterations && math.Abs(far-near) > varTol && math.Abs(bestMetric-target) > tol {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		mid := (near + far) / 2
		metric, err := try(mid)
		res.Iterations++
		if err != nil {
			return res, err
		}
		if (metric-target)*(fNear-target) > 0 {
			near, fNear = mid, metric
		} else {
			far = mid
		}
	}

	value := formulas.RoundTo(best, variablePrecision[v])
	metric, err := e.evaluate(base, goal, v, value)
	if err != nil {
		return res, err
	}
	roundedMetric := formulas.Round2(metric)
	res.Value, res.AchievedMetric = &value, &roundedMetric
	res.ChangePercent = formulas.Round2(changePercent(current, value))
	res.Achieved = math.Abs(metric-target) <= tol

	if res.Achieved {
		res.Feasibility, res.FeasibilityLabel = feasibility(v, current, value)
	} else {
		res.FeasibilityLabel = labelNotAchievable
		res.Message = fmt.Sprintf("Closest reachable %s is %.2f at %s %.2f", goal, metric, v, value)
	}
	return res, nil
}

// brackets reports whether target lies between a and b inclusive.
func brackets(a, b, target float64) bool {
	return (a-target)*(b-target) <= 0
}

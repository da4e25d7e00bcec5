// Package simulation runs Monte Carlo trials over a deal's uncertain inputs.
//
// Trials are grouped into fixed-size chunks. Chunk k always draws from the random stream
// SourceFactory(seed, k), so a seeded run produces the same samples whether its chunks run on
// one goroutine or many.
package simulation

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/damo1005/dealflow-properties-sub003/internal/domain"
	"github.com/damo1005/dealflow-properties-sub003/internal/modules/deal"
	"github.com/damo1005/dealflow-properties-sub003/internal/progress"
	"github.com/damo1005/dealflow-properties-sub003/internal/workers"
	"github.com/damo1005/dealflow-properties-sub003/pkg/formulas"
	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
)

const (
	DefaultChunkSize     = 250
	DefaultMaxIterations = 10000
)

// Config tunes the engine.
type Config struct {
	ChunkSize     int
	Workers       int // 0 uses the logical CPU count
	MaxIterations int
	// SourceFactory returns the random stream for chunk of a run seeded with seed.
	SourceFactory func(seed, chunk uint64) rand.Source
}

// PCGSource is the default SourceFactory.
func PCGSource(seed, chunk uint64) rand.Source {
	return rand.NewPCG(seed, chunk)
}

// DefaultConfig returns the engine defaults.
func DefaultConfig() Config {
	return Config{
		ChunkSize:     DefaultChunkSize,
		MaxIterations: DefaultMaxIterations,
		SourceFactory: PCGSource,
	}
}

func workerCount(configured int) int {
	if configured > 0 {
		return configured
	}
	n, err := cpu.Counts(true)
	if err != nil || n <= 0 {
		return 1
	}
	return n
}

// Engine runs simulations. It is safe for concurrent use.
type Engine struct {
	deals *deal.Calculator
	cfg   Config
	pool  *workers.Pool
	log   zerolog.Logger
}

// NewEngine creates an engine that evaluates trials with deals.
func NewEngine(deals *deal.Calculator, cfg Config, log zerolog.Logger) *Engine {
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = DefaultChunkSize
	}
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = DefaultMaxIterations
	}
	if cfg.SourceFactory == nil {
		cfg.SourceFactory = PCGSource
	}
	cfg.Workers = workerCount(cfg.Workers)

	return &Engine{
		deals: deals,
		cfg:   cfg,
		pool:  workers.NewPool(cfg.Workers),
		log:   log.With().Str("component", "monte_carlo").Logger(),
	}
}

// Config returns the effective engine configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// chunkResult holds one chunk's samples in trial order.
type chunkResult struct {
	cashFlow []float64
	roi      []float64
}

// plan is a validated run.
type plan struct {
	base     domain.DealInput
	sc       domain.SimulationConfig
	vars     []domain.Variable
	baseline deal.Metrics
	chunks   int
}

func (p plan) chunkBounds(k, chunkSize int) (start, size int) {
	start = k * chunkSize
	size = chunkSize
	if start+size > p.sc.Iterations {
		size = p.sc.Iterations - start
	}
	return start, size
}

// prepare validates the request before any trial runs.
func (e *Engine) prepare(base domain.DealInput, sc domain.SimulationConfig) (plan, error) {
	if sc.Iterations < 1 || sc.Iterations > e.cfg.MaxIterations {
		return plan{}, fmt.Errorf("%w: iterations must be between 1 and %d, got %d",
			domain.ErrInvalidInput, e.cfg.MaxIterations, sc.Iterations)
	}
	if len(sc.Variables) == 0 {
		return plan{}, fmt.Errorf("%w: at least one variable range is required", domain.ErrInvalidInput)
	}

	for v, r := range sc.Variables {
		if err := r.Validate(); err != nil {
			return plan{}, fmt.Errorf("variable %s: %w", v, err)
		}
		if v.IsPercent() && r.Max > 100 {
			return plan{}, fmt.Errorf("%w: variable %s maximum %.2f exceeds 100", domain.ErrInvalidInput, v, r.Max)
		}
		if v == domain.VarPurchasePrice && r.Min <= 0 {
			return plan{}, fmt.Errorf("%w: purchase price range must be positive", domain.ErrInvalidInput)
		}
		if _, err := deal.Get(base, v); err != nil {
			return plan{}, err
		}
	}

	baseline, err := e.deals.Evaluate(base)
	if err != nil {
		return plan{}, err
	}

	return plan{
		base:     base,
		sc:       sc,
		vars:     sc.SortedVariables(),
		baseline: baseline,
		chunks:   (sc.Iterations + e.cfg.ChunkSize - 1) / e.cfg.ChunkSize,
	}, nil
}

// runChunk executes every trial of chunk k.
func (e *Engine) runChunk(p plan, k int) (chunkResult, error) {
	_, size := p.chunkBounds(k, e.cfg.ChunkSize)
	src := e.cfg.SourceFactory(p.sc.Seed, uint64(k))

	samplers := make([]sampler, len(p.vars))
	for i, v := range p.vars {
		samplers[i] = newSampler(p.sc.Variables[v], src)
	}

	res := chunkResult{
		cashFlow: make([]float64, 0, size),
		roi:      make([]float64, 0, size),
	}
	for trial := 0; trial < size; trial++ {
		in := p.base
		for i, v := range p.vars {
			var err error
			in, err = deal.Set(in, v, samplers[i].Rand())
			if err != nil {
				return chunkResult{}, err
			}
		}

		m, err := e.deals.Evaluate(in)
		if err != nil {
			return chunkResult{}, fmt.Errorf("trial %d: %w", k*e.cfg.ChunkSize+trial, err)
		}
		res.cashFlow = append(res.cashFlow, m.MonthlyCashFlow)
		res.roi = append(res.roi, m.ROI)
	}
	return res, nil
}

// Run simulates sc.Iterations trials of base. cb receives (trials completed, total) after each
// chunk. When ctx is cancelled Run returns ctx.Err() and no partial output.
func (e *Engine) Run(ctx context.Context, base domain.DealInput, sc domain.SimulationConfig, cb progress.Callback) (*domain.SimulationOutput, error) {
	p, err := e.prepare(base, sc)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	completedTrials := 0
	chunks, err := workers.Run(ctx, e.pool, p.chunks,
		func(_ context.Context, k int) (chunkResult, error) {
			return e.runChunk(p, k)
		},
		func(k, _ int) {
			_, size := p.chunkBounds(k, e.cfg.ChunkSize)
			completedTrials += size
			progress.Call(cb, completedTrials, sc.Iterations, "simulating")
		},
	)
	if err != nil {
		e.log.Debug().Err(err).Int("iterations", sc.Iterations).Msg("Simulation stopped")
		return nil, err
	}

	out := summarise(p, chunks)
	e.log.Debug().
		Int("iterations", sc.Iterations).
		Int("chunks", p.chunks).
		Int("workers", e.pool.Size()).
		Dur("duration", time.Since(start)).
		Msg("Simulation completed")
	return out, nil
}

func summarise(p plan, chunks []chunkResult) *domain.SimulationOutput {
	results := domain.SimulationResult{
		MonthlyCashFlow: make([]float64, 0, p.sc.Iterations),
		ROI:             make([]float64, 0, p.sc.Iterations),
	}
	for _, c := range chunks {
		results.MonthlyCashFlow = append(results.MonthlyCashFlow, c.cashFlow...)
		results.ROI = append(results.ROI, c.roi...)
	}

	out := &domain.SimulationOutput{
		Iterations:              p.sc.Iterations,
		Seed:                    p.sc.Seed,
		Results:                 results,
		CashFlowStats:           toStats(formulas.Summarize(results.MonthlyCashFlow)),
		ROIStats:                toStats(formulas.Summarize(results.ROI)),
		BaselineMonthlyCashFlow: formulas.Round2(p.baseline.MonthlyCashFlow),
		BaselineROI:             formulas.Round2(p.baseline.ROI),
	}

	for _, t := range p.sc.Thresholds.MonthlyCashFlow {
		out.Probabilities = append(out.Probabilities, domain.ThresholdProbability{
			Metric:      "monthly_cash_flow",
			Threshold:   t,
			Probability: formulas.ProbabilityAtLeast(results.MonthlyCashFlow, t),
		})
	}
	for _, t := range p.sc.Thresholds.ROI {
		out.Probabilities = append(out.Probabilities, domain.ThresholdProbability{
			Metric:      "roi",
			Threshold:   t,
			Probability: formulas.ProbabilityAtLeast(results.ROI, t),
		})
	}
	return out
}

func toStats(s formulas.Summary) domain.SimulationStats {
	return domain.SimulationStats{
		Mean:   s.Mean,
		StdDev: s.StdDev,
		Min:    s.Min,
		Max:    s.Max,
		P10:    s.P10,
		P50:    s.P50,
		P90:    s.P90,
	}
}

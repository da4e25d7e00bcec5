package simulation

import (
	"context"
	"math/rand/v2"
	"sync/atomic"
	"testing"

	"github.com/damo1005/dealflow-properties-sub003/internal/domain"
	"github.com/damo1005/dealflow-properties-sub003/internal/modules/deal"
	"github.com/damo1005/dealflow-properties-sub003/internal/modules/tax"
	"github.com/damo1005/dealflow-properties-sub003/pkg/formulas"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T, cfg Config) *Engine {
	t.Helper()
	taxCalc, err := tax.NewDefaultCalculator()
	require.NoError(t, err)
	return NewEngine(deal.NewCalculator(taxCalc, zerolog.Nop()), cfg, zerolog.Nop())
}

func btlDeal() domain.DealInput {
	return domain.DealInput{
		Financing: domain.FinancingInput{
			AskingPrice:  200000,
			LTV:          75,
			InterestRate: 5,
			TermYears:    25,
			InterestOnly: true,
			FinanceType:  domain.FinanceMortgage,
		},
		Strategy: domain.NewBTL(1200, 2),
		Costs:    domain.OperatingCosts{ManagementPercent: 10, MaintenancePercent: 10},
	}
}

func rentRange(iterations int, seed uint64) domain.SimulationConfig {
	return domain.SimulationConfig{
		Iterations: iterations,
		Seed:       seed,
		Variables: map[domain.Variable]domain.VariableRange{
			domain.VarMonthlyRent: {Min: 1080, MostLikely: 1200, Max: 1320, Distribution: domain.DistributionNormal},
		},
	}
}

func TestSampler_NormalReproducesMostLikely(t *testing.T) {
	r := domain.VariableRange{Min: 1080, MostLikely: 1200, Max: 1320, Distribution: domain.DistributionNormal}
	s := newSampler(r, rand.NewPCG(42, 0))

	draws := make([]float64, 10000)
	for i := range draws {
		draws[i] = s.Rand()
		require.GreaterOrEqual(t, draws[i], r.Min)
		require.LessOrEqual(t, draws[i], r.Max)
	}

	sum := formulas.Summarize(draws)
	assert.InEpsilon(t, 1200, sum.Mean, 0.01)
	assert.LessOrEqual(t, sum.P10, sum.Mean)
	assert.LessOrEqual(t, sum.Mean, sum.P90)
	assert.InDelta(t, 40, sum.StdDev, 4)
}

func TestSampler_Shapes(t *testing.T) {
	tests := []struct {
		name string
		r    domain.VariableRange
	}{
		{"uniform", domain.VariableRange{Min: 4, MostLikely: 5, Max: 7, Distribution: domain.DistributionUniform}},
		{"triangular", domain.VariableRange{Min: 4, MostLikely: 5, Max: 7, Distribution: domain.DistributionTriangular}},
		{"triangular mode at edge", domain.VariableRange{Min: 4, MostLikely: 4, Max: 7, Distribution: domain.DistributionTriangular}},
		{"normal", domain.VariableRange{Min: 4, MostLikely: 5, Max: 7, Distribution: domain.DistributionNormal}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSampler(tt.r, rand.NewPCG(7, 1))
			for i := 0; i < 2000; i++ {
				x := s.Rand()
				assert.GreaterOrEqual(t, x, tt.r.Min)
				assert.LessOrEqual(t, x, tt.r.Max)
			}
		})
	}
}

func TestSampler_DegenerateRange(t *testing.T) {
	for _, d := range []domain.Distribution{domain.DistributionNormal, domain.DistributionUniform, domain.DistributionTriangular} {
		s := newSampler(domain.VariableRange{Min: 3, MostLikely: 3, Max: 3, Distribution: d}, rand.NewPCG(1, 1))
		assert.Equal(t, 3.0, s.Rand(), string(d))
	}
}

func TestRun_TenThousandTrialsTrackBaseline(t *testing.T) {
	e := newTestEngine(t, DefaultConfig())

	out, err := e.Run(context.Background(), btlDeal(), rentRange(10000, 2024), nil)
	require.NoError(t, err)

	assert.Equal(t, 10000, out.Iterations)
	assert.Len(t, out.Results.MonthlyCashFlow, 10000)
	assert.Len(t, out.Results.ROI, 10000)
	assert.Equal(t, 298.08, out.BaselineMonthlyCashFlow)

	// Cash flow is linear in rent, so its mean tracks the cash flow at the most likely rent.
	assert.InEpsilon(t, out.BaselineMonthlyCashFlow, out.CashFlowStats.Mean, 0.01)
	assert.LessOrEqual(t, out.CashFlowStats.P10, out.CashFlowStats.Mean)
	assert.LessOrEqual(t, out.CashFlowStats.Mean, out.CashFlowStats.P90)
	assert.LessOrEqual(t, out.CashFlowStats.Min, out.CashFlowStats.P10)
	assert.GreaterOrEqual(t, out.CashFlowStats.Max, out.CashFlowStats.P90)
	assert.InEpsilon(t, out.BaselineROI, out.ROIStats.Mean, 0.01)
}

func TestRun_ThousandTrialRentScenario(t *testing.T) {
	e := newTestEngine(t, DefaultConfig())

	out, err := e.Run(context.Background(), btlDeal(), rentRange(1000, 99), nil)
	require.NoError(t, err)
	assert.InDelta(t, 298.08, out.CashFlowStats.Mean, 5)
}

func TestRun_DegenerateRangeEqualsDeterministic(t *testing.T) {
	e := newTestEngine(t, DefaultConfig())
	sc := domain.SimulationConfig{
		Iterations: 300,
		Variables: map[domain.Variable]domain.VariableRange{
			domain.VarMonthlyRent: {Min: 1200, MostLikely: 1200, Max: 1200, Distribution: domain.DistributionNormal},
		},
	}

	out, err := e.Run(context.Background(), btlDeal(), sc, nil)
	require.NoError(t, err)
	for _, cf := range out.Results.MonthlyCashFlow {
		assert.InDelta(t, 298.08, cf, 0.005)
	}
	assert.InDelta(t, 0, out.CashFlowStats.StdDev, 1e-9)
}

func TestRun_SerialAndParallelAgree(t *testing.T) {
	sc := rentRange(1234, 5)
	sc.Variables[domain.VarMortgageRate] = domain.VariableRange{Min: 4, MostLikely: 5, Max: 7, Distribution: domain.DistributionTriangular}
	sc.Variables[domain.VarVoidWeeks] = domain.VariableRange{Min: 0, MostLikely: 2, Max: 6, Distribution: domain.DistributionUniform}

	serialCfg := DefaultConfig()
	serialCfg.Workers = 1
	parallelCfg := DefaultConfig()
	parallelCfg.Workers = 8

	serial, err := newTestEngine(t, serialCfg).Run(context.Background(), btlDeal(), sc, nil)
	require.NoError(t, err)
	parallel, err := newTestEngine(t, parallelCfg).Run(context.Background(), btlDeal(), sc, nil)
	require.NoError(t, err)

	assert.Equal(t, serial.Results, parallel.Results)
	assert.Equal(t, serial.CashFlowStats, parallel.CashFlowStats)
}

func TestRun_SeedChangesSamples(t *testing.T) {
	e := newTestEngine(t, DefaultConfig())

	a, err := e.Run(context.Background(), btlDeal(), rentRange(500, 1), nil)
	require.NoError(t, err)
	b, err := e.Run(context.Background(), btlDeal(), rentRange(500, 1), nil)
	require.NoError(t, err)
	c, err := e.Run(context.Background(), btlDeal(), rentRange(500, 2), nil)
	require.NoError(t, err)

	assert.Equal(t, a.Results, b.Results)
	assert.NotEqual(t, a.Results, c.Results)
}

func TestRun_InjectedSource(t *testing.T) {
	var calls atomic.Int32
	cfg := DefaultConfig()
	cfg.ChunkSize = 100
	cfg.SourceFactory = func(seed, chunk uint64) rand.Source {
		calls.Add(1)
		return rand.NewPCG(seed, chunk)
	}

	_, err := newTestEngine(t, cfg).Run(context.Background(), btlDeal(), rentRange(450, 3), nil)
	require.NoError(t, err)
	assert.Equal(t, int32(5), calls.Load())
}

func TestRun_ReportsProgressPerChunk(t *testing.T) {
	e := newTestEngine(t, DefaultConfig())

	var seen []int
	_, err := e.Run(context.Background(), btlDeal(), rentRange(1000, 1), func(current, total int, _ string) {
		assert.Equal(t, 1000, total)
		seen = append(seen, current)
	})
	require.NoError(t, err)

	assert.Equal(t, []int{250, 500, 750, 1000}, seen)
}

func TestRun_Cancellation(t *testing.T) {
	e := newTestEngine(t, DefaultConfig())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	out, err := e.Run(ctx, btlDeal(), rentRange(10000, 1), func(current, _ int, _ string) {
		if current >= 250 {
			cancel()
		}
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, out)
}

func TestRun_Thresholds(t *testing.T) {
	e := newTestEngine(t, DefaultConfig())
	sc := rentRange(400, 8)
	sc.Thresholds = domain.Thresholds{
		MonthlyCashFlow: []float64{-1e9, 1e9},
		ROI:             []float64{0},
	}

	out, err := e.Run(context.Background(), btlDeal(), sc, nil)
	require.NoError(t, err)
	require.Len(t, out.Probabilities, 3)

	assert.Equal(t, domain.ThresholdProbability{Metric: "monthly_cash_flow", Threshold: -1e9, Probability: 100}, out.Probabilities[0])
	assert.Equal(t, domain.ThresholdProbability{Metric: "monthly_cash_flow", Threshold: 1e9, Probability: 0}, out.Probabilities[1])
	assert.Equal(t, "roi", out.Probabilities[2].Metric)
	assert.Equal(t, 100.0, out.Probabilities[2].Probability)
}

func TestRun_Validation(t *testing.T) {
	e := newTestEngine(t, DefaultConfig())

	tests := []struct {
		name   string
		mutate func(sc *domain.SimulationConfig, in *domain.DealInput)
	}{
		{"zero iterations", func(sc *domain.SimulationConfig, _ *domain.DealInput) { sc.Iterations = 0 }},
		{"too many iterations", func(sc *domain.SimulationConfig, _ *domain.DealInput) { sc.Iterations = 10001 }},
		{"no variables", func(sc *domain.SimulationConfig, _ *domain.DealInput) { sc.Variables = nil }},
		{"inverted range", func(sc *domain.SimulationConfig, _ *domain.DealInput) {
			sc.Variables[domain.VarMonthlyRent] = domain.VariableRange{Min: 1300, MostLikely: 1200, Max: 1100, Distribution: domain.DistributionNormal}
		}},
		{"unknown distribution", func(sc *domain.SimulationConfig, _ *domain.DealInput) {
			sc.Variables[domain.VarMonthlyRent] = domain.VariableRange{Min: 1, MostLikely: 2, Max: 3, Distribution: "lognormal"}
		}},
		{"percent above 100", func(sc *domain.SimulationConfig, _ *domain.DealInput) {
			sc.Variables[domain.VarDepositPercent] = domain.VariableRange{Min: 20, MostLikely: 25, Max: 120, Distribution: domain.DistributionUniform}
		}},
		{"variable not applicable", func(sc *domain.SimulationConfig, _ *domain.DealInput) {
			sc.Variables[domain.VarOccupancyPercent] = domain.VariableRange{Min: 50, MostLikely: 60, Max: 70, Distribution: domain.DistributionUniform}
		}},
		{"invalid deal", func(_ *domain.SimulationConfig, in *domain.DealInput) { in.Financing.AskingPrice = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc := rentRange(100, 1)
			in := btlDeal()
			tt.mutate(&sc, &in)

			out, err := e.Run(context.Background(), in, sc, nil)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
			assert.Nil(t, out)
		})
	}
}

func TestStepper_MatchesRun(t *testing.T) {
	e := newTestEngine(t, DefaultConfig())
	sc := rentRange(600, 11)

	s, err := e.NewStepper(btlDeal(), sc)
	require.NoError(t, err)

	_, err = s.Result()
	assert.Error(t, err)

	steps := 1
	for s.Step() {
		steps++
		completed, total := s.Progress()
		assert.Equal(t, 600, total)
		assert.Less(t, completed, total)
	}
	assert.Equal(t, 3, steps)
	assert.True(t, s.Done())
	assert.False(t, s.Step())

	completed, _ := s.Progress()
	assert.Equal(t, 600, completed)

	stepped, err := s.Result()
	require.NoError(t, err)
	ran, err := e.Run(context.Background(), btlDeal(), sc, nil)
	require.NoError(t, err)
	assert.Equal(t, ran, stepped)
}

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/damo1005/dealflow-properties-sub003/internal/domain"
	"github.com/damo1005/dealflow-properties-sub003/internal/modules/goalseek"
	"github.com/damo1005/dealflow-properties-sub003/internal/modules/simulation"
	"github.com/damo1005/dealflow-properties-sub003/internal/progress"
	"github.com/damo1005/dealflow-properties-sub003/internal/report"
	"github.com/google/subcommands"
)

// maxCLIIterations is the trial cap for local runs, matching the largest server setting.
const maxCLIIterations = 100000

// simulationInput mirrors the body of POST /api/simulations.
type simulationInput struct {
	Deal   domain.DealInput        `json:"deal"`
	Config domain.SimulationConfig `json:"config"`
}

type simulateCmd struct {
	ioFlags
	iterations int
	seed       uint64
	samples    bool
	workers    int
	quiet      bool
}

func (*simulateCmd) Name() string     { return "simulate" }
func (*simulateCmd) Synopsis() string { return "Monte Carlo simulation of a deal" }
func (*simulateCmd) Usage() string {
	return `dealctl simulate [-i <simulation.json>] [-n <iterations>] [-seed <n>] [-samples] [-json]

  Samples the uncertain inputs of a deal and reports the distribution of
  monthly cash flow and ROI. The input holds "deal" and "config". Ctrl-C
  cancels the run.
`
}

func (c *simulateCmd) SetFlags(f *flag.FlagSet) {
	c.register(f)
	f.IntVar(&c.iterations, "n", 0, "Override the number of trials")
	f.Uint64Var(&c.seed, "seed", 0, "Override the random seed")
	f.BoolVar(&c.samples, "samples", false, "Include per-trial samples in JSON output")
	f.IntVar(&c.workers, "workers", 0, "Worker goroutines (0 uses the logical CPU count)")
	f.BoolVar(&c.quiet, "q", false, "Do not report progress on stderr")
}

func (c *simulateCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var in simulationInput
	if err := c.readInput(&in); err != nil {
		return fail(err)
	}
	if c.iterations > 0 {
		in.Config.Iterations = c.iterations
	}
	if c.seed > 0 {
		in.Config.Seed = c.seed
	}

	log := newLogger()
	deals, err := newDealCalculator(log)
	if err != nil {
		return fail(err)
	}
	cfg := simulation.DefaultConfig()
	cfg.Workers = c.workers
	cfg.MaxIterations = maxCLIIterations
	engine := simulation.NewEngine(deals, cfg, log)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	var cb progress.Callback
	if !c.quiet {
		cb = func(current, total int, _ string) {
			fmt.Fprintf(os.Stderr, "\rsimulating %d/%d", current, total)
			if current == total {
				fmt.Fprintln(os.Stderr)
			}
		}
	}

	out, err := engine.Run(ctx, in.Deal, in.Config, cb)
	if errors.Is(err, context.Canceled) {
		fmt.Fprintln(os.Stderr, "\nsimulation cancelled")
		return subcommands.ExitFailure
	}
	if err != nil {
		return fail(err)
	}
	if !c.samples {
		out.Results = domain.SimulationResult{}
	}

	if err := c.print(out, report.SimulationMarkdown(out)); err != nil {
		return fail(err)
	}
	return subcommands.ExitSuccess
}

type seekCmd struct {
	ioFlags
}

func (*seekCmd) Name() string     { return "seek" }
func (*seekCmd) Synopsis() string { return "find the input value that reaches a target" }
func (*seekCmd) Usage() string {
	return `dealctl seek [-i <seek.json>] [-json]

  Solves a deal backwards. The input holds "deal", "goal", "target" and
  "variable", for example the rent needed for a monthly cash flow of 400.
  Alternatives using the other variables are listed with their feasibility.
`
}

func (c *seekCmd) SetFlags(f *flag.FlagSet) { c.register(f) }

func (c *seekCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var req goalseek.Request
	if err := c.readInput(&req); err != nil {
		return fail(err)
	}

	log := newLogger()
	deals, err := newDealCalculator(log)
	if err != nil {
		return fail(err)
	}
	res, err := goalseek.NewEngine(deals, 0, log).Seek(ctx, req)
	if err != nil {
		return fail(err)
	}
	if err := c.print(res, report.GoalSeekMarkdown(res)); err != nil {
		return fail(err)
	}
	return subcommands.ExitSuccess
}

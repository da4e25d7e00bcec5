package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/damo1005/dealflow-properties-sub003/internal/domain"
	"github.com/damo1005/dealflow-properties-sub003/internal/report"
	"github.com/google/subcommands"
)

type analyseCmd struct {
	ioFlags
	pdf string
}

func (*analyseCmd) Name() string     { return "analyse" }
func (*analyseCmd) Synopsis() string { return "analyse a property deal" }
func (*analyseCmd) Usage() string {
	return `dealctl analyse [-i <deal.json>] [-json] [-pdf <report.pdf>]

  Analyses a deal: cash flow, yields, cash required, transaction tax, score,
  stress test, five-year projection and risks. With -pdf the report is also
  written as a PDF.
`
}

func (c *analyseCmd) SetFlags(f *flag.FlagSet) {
	c.register(f)
	f.StringVar(&c.pdf, "pdf", "", "Also write the report as PDF to this file")
}

func (c *analyseCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var in domain.DealInput
	if err := c.readInput(&in); err != nil {
		return fail(err)
	}

	calc, err := newDealCalculator(newLogger())
	if err != nil {
		return fail(err)
	}
	res, err := calc.Analyse(in)
	if err != nil {
		return fail(err)
	}

	if c.pdf != "" {
		data, err := report.DealPDF(in, res, time.Now())
		if err != nil {
			return fail(err)
		}
		if err := os.WriteFile(c.pdf, data, 0644); err != nil {
			return fail(err)
		}
		fmt.Fprintf(os.Stderr, "PDF report written to %s\n", c.pdf)
	}

	if err := c.print(res, report.DealMarkdown(in, res)); err != nil {
		return fail(err)
	}
	return subcommands.ExitSuccess
}

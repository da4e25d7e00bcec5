package main

import (
	"context"
	"flag"

	"github.com/damo1005/dealflow-properties-sub003/internal/domain"
	"github.com/damo1005/dealflow-properties-sub003/internal/report"
	"github.com/google/subcommands"
)

type sdltCmd struct {
	ioFlags
	price        float64
	jurisdiction string
	firstTime    bool
	additional   bool
	company      bool
	nonResident  bool
}

func (*sdltCmd) Name() string     { return "sdlt" }
func (*sdltCmd) Synopsis() string { return "transaction tax (SDLT, LBTT or LTT) on a purchase" }
func (*sdltCmd) Usage() string {
	return `dealctl sdlt -price <amount> [-region england|scotland|wales] [-ftb] [-additional] [-company] [-non-resident] [-json]
dealctl sdlt -i <purchase.json> [-json]

  Calculates the transaction tax on a residential purchase. Without -price the
  purchase is read as JSON.
`
}

func (c *sdltCmd) SetFlags(f *flag.FlagSet) {
	c.register(f)
	f.Float64Var(&c.price, "price", 0, "Purchase price")
	f.StringVar(&c.jurisdiction, "region", string(domain.JurisdictionEngland), "Nation of the property (england, scotland, wales)")
	f.BoolVar(&c.firstTime, "ftb", false, "Buyer is a first-time buyer")
	f.BoolVar(&c.additional, "additional", false, "Purchase is an additional property")
	f.BoolVar(&c.company, "company", false, "Buyer is a company")
	f.BoolVar(&c.nonResident, "non-resident", false, "Buyer is not UK resident")
}

func (c *sdltCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	in := domain.TransactionTaxInput{
		Price:        c.price,
		Jurisdiction: domain.Jurisdiction(c.jurisdiction),
		Buyer: domain.BuyerStatus{
			FirstTimeBuyer:     c.firstTime,
			AdditionalProperty: c.additional,
			Company:            c.company,
			NonResident:        c.nonResident,
		},
	}
	if c.price == 0 {
		in = domain.TransactionTaxInput{}
		if err := c.readInput(&in); err != nil {
			return fail(err)
		}
	}

	calc, err := newTaxCalculator()
	if err != nil {
		return fail(err)
	}
	res, err := calc.TransactionTax(in)
	if err != nil {
		return fail(err)
	}
	if err := c.print(res, report.TransactionTaxMarkdown(res)); err != nil {
		return fail(err)
	}
	return subcommands.ExitSuccess
}

type incomeTaxCmd struct {
	ioFlags
}

func (*incomeTaxCmd) Name() string     { return "income-tax" }
func (*incomeTaxCmd) Synopsis() string { return "income tax on rental profit" }
func (*incomeTaxCmd) Usage() string {
	return `dealctl income-tax [-i <income.json>] [-json]

  Calculates a landlord's income tax on rental profit for one year, with the
  pre-Section 24 comparison.
`
}

func (c *incomeTaxCmd) SetFlags(f *flag.FlagSet) { c.register(f) }

func (c *incomeTaxCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var in domain.IncomeTaxInput
	if err := c.readInput(&in); err != nil {
		return fail(err)
	}
	calc, err := newTaxCalculator()
	if err != nil {
		return fail(err)
	}
	res, err := calc.RentalIncomeTax(in)
	if err != nil {
		return fail(err)
	}
	if err := c.print(res, report.IncomeTaxMarkdown(res)); err != nil {
		return fail(err)
	}
	return subcommands.ExitSuccess
}

type cgtCmd struct {
	ioFlags
}

func (*cgtCmd) Name() string     { return "cgt" }
func (*cgtCmd) Synopsis() string { return "capital gains tax on a property sale" }
func (*cgtCmd) Usage() string {
	return `dealctl cgt [-i <disposal.json>] [-json]

  Calculates capital gains tax on the disposal of a residential property,
  including private residence relief and the reporting deadlines.
`
}

func (c *cgtCmd) SetFlags(f *flag.FlagSet) { c.register(f) }

func (c *cgtCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var in domain.CGTInput
	if err := c.readInput(&in); err != nil {
		return fail(err)
	}
	calc, err := newTaxCalculator()
	if err != nil {
		return fail(err)
	}
	res, err := calc.CapitalGainsTax(in)
	if err != nil {
		return fail(err)
	}
	if err := c.print(res, report.CGTMarkdown(res)); err != nil {
		return fail(err)
	}
	return subcommands.ExitSuccess
}

type section24Cmd struct {
	ioFlags
}

func (*section24Cmd) Name() string     { return "section24" }
func (*section24Cmd) Synopsis() string { return "extra tax caused by the mortgage interest restriction" }
func (*section24Cmd) Usage() string {
	return `dealctl section24 [-i <income.json>] [-json]

  Compares tax under the current finance cost credit with the full deduction
  of mortgage interest allowed before Section 24.
`
}

func (c *section24Cmd) SetFlags(f *flag.FlagSet) { c.register(f) }

func (c *section24Cmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var in domain.IncomeTaxInput
	if err := c.readInput(&in); err != nil {
		return fail(err)
	}
	calc, err := newTaxCalculator()
	if err != nil {
		return fail(err)
	}
	res, err := calc.Section24Impact(in)
	if err != nil {
		return fail(err)
	}
	if err := c.print(res, report.Section24Markdown(res)); err != nil {
		return fail(err)
	}
	return subcommands.ExitSuccess
}

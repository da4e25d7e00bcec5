package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/damo1005/dealflow-properties-sub003/internal/domain"
	"github.com/damo1005/dealflow-properties-sub003/internal/modules/deal"
	"github.com/damo1005/dealflow-properties-sub003/internal/modules/tax"
	"github.com/damo1005/dealflow-properties-sub003/internal/report"
	"github.com/damo1005/dealflow-properties-sub003/pkg/logger"
	"github.com/google/subcommands"
	"github.com/rs/zerolog"
)

var (
	taxYear  = flag.String("year", tax.DefaultTaxYear, "Tax year whose rules apply (e.g. 2024-25)")
	rulesDir = flag.String("rules", "", "Directory of YAML tax rule files layered over the built-in rules")
	logLevel = flag.String("log-level", "disabled", "Log level written to stderr (debug, info, warn, error, disabled)")
	width    = flag.Int("width", 100, "Word wrap width for terminal output")
)

// ioFlags are shared by every subcommand that reads a JSON document and prints a result.
type ioFlags struct {
	input   string
	asJSON  bool
	stdin   io.Reader
	stdout  io.Writer
	isPlain func() bool
}

func (c *ioFlags) register(f *flag.FlagSet) {
	f.StringVar(&c.input, "i", "-", "Input JSON file, or - for standard input")
	f.BoolVar(&c.asJSON, "json", false, "Print the raw JSON result instead of a rendered report")
}

func (c *ioFlags) in() io.Reader {
	if c.stdin != nil {
		return c.stdin
	}
	return os.Stdin
}

func (c *ioFlags) out() io.Writer {
	if c.stdout != nil {
		return c.stdout
	}
	return os.Stdout
}

// readInput decodes the input document into v, rejecting unknown fields.
func (c *ioFlags) readInput(v interface{}) error {
	r := c.in()
	if c.input != "" && c.input != "-" {
		f, err := os.Open(c.input)
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}

	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	return nil
}

// print writes either v as indented JSON or md rendered for the terminal.
func (c *ioFlags) print(v interface{}, md string) error {
	if c.asJSON {
		enc := json.NewEncoder(c.out())
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	return printMarkdown(c.out(), md, c.plain())
}

func (c *ioFlags) plain() bool {
	if c.isPlain != nil {
		return c.isPlain()
	}
	info, err := os.Stdout.Stat()
	return err != nil || info.Mode()&os.ModeCharDevice == 0
}

func printMarkdown(w io.Writer, md string, plain bool) error {
	out, err := report.Terminal(md, *width, plain)
	if err != nil {
		// Fall back to the raw markdown, which is still readable.
		_, err = io.WriteString(w, md)
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}

func newLogger() zerolog.Logger {
	return logger.New(logger.Config{Level: *logLevel, Pretty: true, Output: os.Stderr})
}

func newTaxCalculator() (*tax.Calculator, error) {
	book, err := tax.LoadRulesWithOverrides(*rulesDir)
	if err != nil {
		return nil, err
	}
	return tax.NewCalculator(book, *taxYear)
}

func newDealCalculator(log zerolog.Logger) (*deal.Calculator, error) {
	taxCalc, err := newTaxCalculator()
	if err != nil {
		return nil, err
	}
	return deal.NewCalculator(taxCalc, log), nil
}

// fail reports err on stderr and maps it to an exit status.
func fail(err error) subcommands.ExitStatus {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	if isUsage(err) {
		return subcommands.ExitUsageError
	}
	return subcommands.ExitFailure
}

func isUsage(err error) bool {
	return errors.Is(err, domain.ErrInvalidInput) || errors.Is(err, domain.ErrUnsupportedJurisdiction)
}

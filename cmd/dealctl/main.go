// Command dealctl runs the property deal calculators from the command line.
//
// Inputs are JSON documents with the same shape as the HTTP API request bodies, read from
// a file given with -i or from standard input.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))

	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")

	commander.Register(&analyseCmd{}, "deals")
	commander.Register(&simulateCmd{}, "deals")
	commander.Register(&seekCmd{}, "deals")

	commander.Register(&sdltCmd{}, "tax")
	commander.Register(&incomeTaxCmd{}, "tax")
	commander.Register(&cgtCmd{}, "tax")
	commander.Register(&section24Cmd{}, "tax")

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

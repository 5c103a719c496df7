// Command tradecli summarizes a brokerage trade export on the command line using
// the same parser and analytics as the trade upload endpoints.
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
	register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

func register(c *subcommands.Commander) {
	c.Register(&positionsCmd{out: os.Stdout}, "analysis")
	c.Register(&statsCmd{out: os.Stdout}, "analysis")
}

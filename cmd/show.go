package cmd

import (
	"context"
	"flag"

	"github.com/etnz/tracker"
	"github.com/etnz/tracker/renderer"
	"github.com/google/subcommands"
)

// showCmd holds the flags for the 'show' subcommand.
type showCmd struct {
	detailed bool
}

func (*showCmd) Name() string     { return "show" }
func (*showCmd) Synopsis() string { return "display the portfolio overview" }
func (*showCmd) Usage() string {
	return `pt show [-v]

  Displays the portfolio valuation from stored prices: total value and
  allocation per asset class, with -v the detailed per-holding tables.
  No network call is made; use 'pt update' to refresh prices first.

`
}

func (c *showCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.detailed, "v", false, "show the detailed per-holding breakdown")
}

func (c *showCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := appConfig()
	if err != nil {
		return fatalf("Error loading configuration: %v", err)
	}
	ledger, err := appStore(cfg).Load()
	if err != nil {
		return fatalf("Error loading ledger: %v", err)
	}

	// Value from stored prices only.
	snapshot := tracker.Value(ledger, tracker.StoredQuotes(ledger))

	if c.detailed {
		printMarkdown(renderer.HoldingsMarkdown(snapshot))
	} else {
		printMarkdown(renderer.SummaryMarkdown(snapshot))
	}
	return subcommands.ExitSuccess
}

package cmd

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/etnz/tracker"
	"github.com/etnz/tracker/renderer"
	"github.com/google/subcommands"
)

// updateCmd holds the flags for the 'update' subcommand.
type updateCmd struct {
	symbols  string
	manual   bool
	detailed bool
}

func (*updateCmd) Name() string     { return "update" }
func (*updateCmd) Synopsis() string { return "refresh prices and display the new valuation" }
func (*updateCmd) Usage() string {
	return `pt update [-symbol BTC,XAU] [-manual] [-v]

  Refreshes prices for all holdings (or the given symbols) from the
  configured feeds, persists the updated ledger and prints the valuation.
  Feed failures never abort the run: affected holdings keep their last
  known price and are listed as warnings. With -manual, a price prompt is
  offered for each holding whose feeds failed.

`
}

func (c *updateCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.symbols, "symbol", "", "Comma-separated subset of symbols to refresh (default all)")
	f.BoolVar(&c.manual, "manual", false, "Prompt for a manual price when a feed fails")
	f.BoolVar(&c.detailed, "v", false, "Show the detailed per-holding breakdown")
}

func (c *updateCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := appConfig()
	if err != nil {
		return fatalf("Error loading configuration: %v", err)
	}

	refresher := &tracker.Refresher{
		Store: appStore(cfg),
		Feeds: appFeeds(cfg),
	}
	if c.manual {
		refresher.Manual = &promptResolver{currency: cfg.Currency}
	}

	var symbols []string
	if c.symbols != "" {
		symbols = strings.Split(c.symbols, ",")
	}

	snapshot, err := refresher.Refresh(ctx, symbols...)
	if err != nil {
		return fatalf("Error refreshing prices: %v", err)
	}

	if c.detailed {
		printMarkdown(renderer.HoldingsMarkdown(snapshot))
	} else {
		printMarkdown(renderer.SummaryMarkdown(snapshot))
	}
	return subcommands.ExitSuccess
}

// promptResolver asks the user for a unit price on the terminal. It is the
// CLI-side implementation of tracker.ManualResolver; the core never touches
// the terminal itself.
type promptResolver struct {
	currency string
	r        *bufio.Reader
}

func (p *promptResolver) ResolvePrice(h tracker.Holding) (tracker.Money, bool) {
	if p.r == nil {
		p.r = bufio.NewReader(os.Stdin)
	}
	fmt.Fprintf(os.Stderr, "No feed price for %s %s. Enter unit price in %s (empty to skip): ",
		h.Class, h.Symbol, p.currency)

	line, err := p.r.ReadString('\n')
	if err != nil {
		return tracker.Money{}, false
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return tracker.Money{}, false
	}
	val, err := strconv.ParseFloat(line, 64)
	if err != nil || val <= 0 {
		fmt.Fprintln(os.Stderr, "Not a valid price, skipping.")
		return tracker.Money{}, false
	}
	return tracker.M(val, p.currency), true
}

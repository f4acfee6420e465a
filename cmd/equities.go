package cmd

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/etnz/tracker"
	"github.com/etnz/tracker/robinhood"
	"github.com/google/subcommands"
)

// equitiesCmd pulls brokerage positions into the ledger.
type equitiesCmd struct {
	replace bool
}

func (*equitiesCmd) Name() string     { return "equities" }
func (*equitiesCmd) Synopsis() string { return "import brokerage stock positions into the portfolio" }
func (*equitiesCmd) Usage() string {
	return `pt equities [-replace]

  Logs into the configured brokerage account and imports its open stock
  positions as equity holdings, priced at their latest quote. By default
  existing equity holdings are replaced by the imported snapshot.

`
}

func (c *equitiesCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.replace, "replace", true, "Replace existing equity holdings with the imported snapshot")
}

func (c *equitiesCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := appConfig()
	if err != nil {
		return fatalf("Error loading configuration: %v", err)
	}
	if !cfg.Brokerage.Configured() {
		return fatalf("No brokerage credentials configured. Run 'pt config -brokerage-user ... -brokerage-pass ...' first.")
	}

	session := robinhood.NewSession(cfg.Brokerage)
	cctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := session.Login(cctx); err != nil {
		return fatalf("Error logging into brokerage: %v", err)
	}
	positions, err := session.Positions(cctx)
	if err != nil {
		return fatalf("Error fetching positions: %v", err)
	}
	if len(positions) == 0 {
		fmt.Println("No open stock positions found.")
		return subcommands.ExitSuccess
	}

	store := appStore(cfg)
	ledger, err := store.Load()
	if err != nil {
		return fatalf("Error loading ledger: %v", err)
	}

	if c.replace {
		for h := range ledger.ClassHoldings(tracker.Equity) {
			ledger.RemoveHolding(tracker.Equity, h.Symbol)
		}
	}

	now := time.Now()
	for _, p := range positions {
		h := tracker.Holding{
			Class:          tracker.Equity,
			Symbol:         p.Symbol,
			Quantity:       p.Quantity,
			LastKnownPrice: p.Price,
			LastUpdated:    now,
			Source:         tracker.SourceLive,
		}
		if err := ledger.UpsertHolding(h, true); err != nil {
			return fatalf("Error importing %s: %v", p.Symbol, err)
		}
	}
	if err := store.Save(ledger); err != nil {
		return fatalf("Error saving ledger: %v", err)
	}

	fmt.Printf("Imported %d equity positions\n", len(positions))
	return subcommands.ExitSuccess
}

package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/etnz/tracker"
	"github.com/etnz/tracker/coingecko"
	"github.com/etnz/tracker/goldapi"
	"github.com/google/subcommands"
)

// addCmd holds the flags for the 'add' subcommand.
type addCmd struct {
	class    string
	symbol   string
	quantity float64
	cost     float64
	unit     string
	replace  bool
	offline  bool
}

func (*addCmd) Name() string     { return "add" }
func (*addCmd) Synopsis() string { return "add a holding to the portfolio" }
func (*addCmd) Usage() string {
	return `pt add -class <crypto|metal|equity> -symbol <symbol> -quantity <n> [-cost <n>] [-unit oz|g] [-replace]

  Adds a holding, fetching its current price when a feed is available.
  Adding an already-held symbol accumulates the quantity (and re-averages
  the cost basis) unless -replace is given.

Usage Examples:
$ pt add -class crypto -symbol BTC -quantity 0.5 -cost 20000
$ pt add -class metal -symbol gold -quantity 100 -unit g

`
}

func (c *addCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.class, "class", "", "Asset class: crypto, metal or equity")
	f.StringVar(&c.symbol, "symbol", "", "Asset symbol (e.g. BTC, XAU, AAPL) or metal name (gold, silver)")
	f.Float64Var(&c.quantity, "quantity", 0, "Quantity to add")
	f.Float64Var(&c.cost, "cost", 0, "Average cost per unit in the display currency (optional)")
	f.StringVar(&c.unit, "unit", "", "Unit for metals: oz (default) or g")
	f.BoolVar(&c.replace, "replace", false, "Replace an existing holding instead of accumulating")
	f.BoolVar(&c.offline, "offline", false, "Do not fetch the current price")
}

func (c *addCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := appConfig()
	if err != nil {
		return fatalf("Error loading configuration: %v", err)
	}

	class, err := tracker.ParseAssetClass(c.class)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	symbol := c.symbol
	name := ""
	switch class {
	case tracker.Metal:
		// Accept metal names (gold, silver) as well as feed symbols.
		if s, ok := goldapi.SymbolFor(c.symbol); ok {
			symbol, name = s, c.symbol
		}
	case tracker.Crypto:
		if !c.offline {
			name = resolveName(ctx, cfg, c.symbol)
		}
	}

	h := tracker.Holding{
		Class:    class,
		Symbol:   tracker.NormalizeSymbol(symbol),
		Name:     name,
		Quantity: tracker.Q(c.quantity),
		Unit:     c.unit,
	}
	if c.cost > 0 {
		h.CostBasisUnit = tracker.M(c.cost, cfg.Currency)
	}

	if !c.offline {
		if quote, ok := c.fetchQuote(ctx, cfg, h); ok {
			h.LastKnownPrice = quote.UnitPrice
			h.LastUpdated = quote.AsOf
			h.Source = tracker.SourceLive
		}
	}

	store := appStore(cfg)
	ledger, err := store.Load()
	if err != nil {
		return fatalf("Error loading ledger: %v", err)
	}
	if err := ledger.UpsertHolding(h, c.replace); err != nil {
		return fatalf("Error: %v", err)
	}
	if err := store.Save(ledger); err != nil {
		return fatalf("Error saving ledger: %v", err)
	}

	fmt.Printf("Added %s %s to the portfolio\n", h.Quantity, h.Symbol)
	if !h.LastKnownPrice.IsZero() {
		fmt.Printf("Current value: %s\n", h.LastKnownPrice.Mul(h.OunceQuantity()))
	}
	return subcommands.ExitSuccess
}

// fetchQuote tries to price the new holding right away. Failure is not
// fatal: the holding is stored unpriced and a later update will price it.
func (c *addCmd) fetchQuote(ctx context.Context, cfg tracker.Config, h tracker.Holding) (tracker.PriceQuote, bool) {
	feed, ok := appFeeds(cfg)[h.Class]
	if !ok {
		return tracker.PriceQuote{}, false
	}
	cctx, cancel := context.WithTimeout(ctx, tracker.DefaultFetchTimeout)
	defer cancel()

	quote, err := feed.FetchPrice(cctx, h.Symbol)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not fetch current price: %v\n", err)
		return tracker.PriceQuote{}, false
	}
	quote.AsOf = time.Now()
	return quote, true
}

// resolveName resolves a crypto search term to its display name when the
// crypto feed supports it.
func resolveName(ctx context.Context, cfg tracker.Config, symbol string) string {
	cctx, cancel := context.WithTimeout(ctx, tracker.DefaultFetchTimeout)
	defer cancel()
	_, name, err := coingecko.New(cfg.Currency).Resolve(cctx, symbol)
	if err != nil {
		return ""
	}
	return name
}

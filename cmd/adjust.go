package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/tracker"
	"github.com/google/subcommands"
)

type adjustCmd struct {
	class  string
	symbol string
	set    float64
	add    float64
	sub    float64
}

func (*adjustCmd) Name() string     { return "adjust" }
func (*adjustCmd) Synopsis() string { return "adjust the quantity of an existing holding" }
func (*adjustCmd) Usage() string {
	return `pt adjust -class <class> -symbol <symbol> (-set <n> | -add <n> | -subtract <n>)

  Adjusts the quantity of an existing holding. Exactly one of -set, -add or
  -subtract must be given. An adjustment down to zero removes the holding.

Usage Examples:
$ pt adjust -class crypto -symbol BTC -add 0.0054
$ pt adjust -class crypto -symbol BTC -set 0.2154

`
}

func (c *adjustCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.class, "class", "", "Asset class of the holding")
	f.StringVar(&c.symbol, "symbol", "", "Symbol of the holding")
	f.Float64Var(&c.set, "set", 0, "Set quantity to an exact value")
	f.Float64Var(&c.add, "add", 0, "Amount to add to the current quantity")
	f.Float64Var(&c.sub, "subtract", 0, "Amount to subtract from the current quantity")
}

func (c *adjustCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := appConfig()
	if err != nil {
		return fatalf("Error loading configuration: %v", err)
	}
	class, err := tracker.ParseAssetClass(c.class)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	var op tracker.AdjustOp
	var amount float64
	given := 0
	if c.set != 0 {
		op, amount = tracker.AdjustSet, c.set
		given++
	}
	if c.add != 0 {
		op, amount = tracker.AdjustAdd, c.add
		given++
	}
	if c.sub != 0 {
		op, amount = tracker.AdjustSub, c.sub
		given++
	}
	if given != 1 {
		fmt.Fprintln(os.Stderr, "Use exactly one of -set, -add or -subtract")
		return subcommands.ExitUsageError
	}

	store := appStore(cfg)
	ledger, err := store.Load()
	if err != nil {
		return fatalf("Error loading ledger: %v", err)
	}
	h, err := ledger.AdjustQuantity(class, c.symbol, op, tracker.Q(amount))
	if err != nil {
		return fatalf("Error: %v", err)
	}
	if err := store.Save(ledger); err != nil {
		return fatalf("Error saving ledger: %v", err)
	}

	if h.Quantity.IsZero() {
		fmt.Printf("Removed %s (quantity reached zero)\n", h.Symbol)
	} else {
		fmt.Printf("Updated %s quantity: %s\n", h.Symbol, h.Quantity)
	}
	return subcommands.ExitSuccess
}

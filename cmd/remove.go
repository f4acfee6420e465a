package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/tracker"
	"github.com/google/subcommands"
)

type removeCmd struct {
	class  string
	symbol string
}

func (*removeCmd) Name() string     { return "remove" }
func (*removeCmd) Synopsis() string { return "remove a holding from the portfolio" }
func (*removeCmd) Usage() string {
	return `pt remove -class <crypto|metal|equity> -symbol <symbol>

  Permanently deletes the holding record for the given class and symbol.

`
}

func (c *removeCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.class, "class", "", "Asset class of the holding")
	f.StringVar(&c.symbol, "symbol", "", "Symbol of the holding")
}

func (c *removeCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := appConfig()
	if err != nil {
		return fatalf("Error loading configuration: %v", err)
	}
	class, err := tracker.ParseAssetClass(c.class)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	store := appStore(cfg)
	ledger, err := store.Load()
	if err != nil {
		return fatalf("Error loading ledger: %v", err)
	}
	if !ledger.RemoveHolding(class, c.symbol) {
		return fatalf("No %s holding %q in the portfolio", class, tracker.NormalizeSymbol(c.symbol))
	}
	if err := store.Save(ledger); err != nil {
		return fatalf("Error saving ledger: %v", err)
	}

	fmt.Printf("Removed %s from the portfolio\n", tracker.NormalizeSymbol(c.symbol))
	return subcommands.ExitSuccess
}

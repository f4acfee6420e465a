package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/tracker"
	"github.com/google/subcommands"
)

// cashCmd shows or adjusts the uninvested cash balance.
type cashCmd struct {
	set float64
	add float64
	sub float64
}

func (*cashCmd) Name() string     { return "cash" }
func (*cashCmd) Synopsis() string { return "show or adjust the uninvested cash balance" }
func (*cashCmd) Usage() string {
	return `pt cash [-set <n> | -add <n> | -subtract <n>]

  Without flags, prints the current cash balance. With one of the flags,
  adjusts the balance; it is counted in the portfolio's grand total and
  must never go negative.

Usage Examples:
$ pt cash
$ pt cash -add 1500
$ pt cash -subtract 200

`
}

func (c *cashCmd) SetFlags(f *flag.FlagSet) {
	f.Float64Var(&c.set, "set", 0, "Set the balance to an exact value")
	f.Float64Var(&c.add, "add", 0, "Amount to add to the balance")
	f.Float64Var(&c.sub, "subtract", 0, "Amount to subtract from the balance")
}

func (c *cashCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := appConfig()
	if err != nil {
		return fatalf("Error loading configuration: %v", err)
	}
	store := appStore(cfg)
	ledger, err := store.Load()
	if err != nil {
		return fatalf("Error loading ledger: %v", err)
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

	if given == 0 {
		fmt.Printf("Cash balance: %s\n", tracker.M(0, cfg.Currency).Add(ledger.Cash()))
		return subcommands.ExitSuccess
	}
	if given > 1 {
		fmt.Fprintln(os.Stderr, "Use at most one of -set, -add or -subtract")
		return subcommands.ExitUsageError
	}

	balance, err := ledger.AdjustCash(op, tracker.M(amount, cfg.Currency))
	if err != nil {
		return fatalf("Error: %v", err)
	}
	if err := store.Save(ledger); err != nil {
		return fatalf("Error saving ledger: %v", err)
	}
	fmt.Printf("Cash balance: %s\n", balance)
	return subcommands.ExitSuccess
}

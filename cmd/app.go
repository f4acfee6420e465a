// Package cmd implements the CLI application to manage an investment tracker.
package cmd

import (
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/tracker"
	"github.com/etnz/tracker/coingecko"
	"github.com/etnz/tracker/goldapi"
	"github.com/etnz/tracker/robinhood"
	"github.com/google/subcommands"
)

// Register the subcommands.
// A main package calls Register() to declare subcommands, and Execute() on
// the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&addCmd{}, "holdings")
	c.Register(&removeCmd{}, "holdings")
	c.Register(&adjustCmd{}, "holdings")
	c.Register(&equitiesCmd{}, "holdings")
	c.Register(&cashCmd{}, "holdings")

	c.Register(&showCmd{}, "reports")
	c.Register(&updateCmd{}, "reports")
	c.Register(&assistCmd{}, "reports")

	c.Register(&configCmd{}, "settings")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var dataDir = flag.String("data-dir", tracker.DefaultDir(), "Path to the tracker data directory")

// appConfig reads the configuration document once per invocation.
func appConfig() (tracker.Config, error) {
	return tracker.LoadConfig(*dataDir)
}

// appStore opens the portfolio store.
func appStore(cfg tracker.Config) tracker.Store {
	return tracker.NewStore(*dataDir, cfg.Currency)
}

// appFeeds builds one feed per asset class from the configuration. Classes
// without usable credentials get no feed; their refresh fails softly and the
// holdings fall back to their last known prices.
func appFeeds(cfg tracker.Config) map[tracker.AssetClass]tracker.Feed {
	feeds := map[tracker.AssetClass]tracker.Feed{
		tracker.Crypto: coingecko.New(cfg.Currency),
	}
	if cfg.MetalsKey != "" {
		feeds[tracker.Metal] = goldapi.New(cfg.MetalsKey, cfg.Currency)
	}
	if cfg.Brokerage.Configured() {
		feeds[tracker.Equity] = robinhood.NewSession(cfg.Brokerage)
	}
	return feeds
}

// printMarkdown renders markdown for the terminal, falling back to the raw
// text when rendering is not possible.
func printMarkdown(md string) {
	out, err := glamour.Render(md, "auto")
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}

// fatalf reports an error on stderr and returns the failure exit status.
func fatalf(format string, args ...interface{}) subcommands.ExitStatus {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	return subcommands.ExitFailure
}

package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/etnz/tracker"
	"github.com/google/subcommands"
)

// configCmd reads and writes the startup configuration document.
type configCmd struct {
	currency      string
	metalsKey     string
	brokerUser    string
	brokerPass    string
	brokerAccount string
}

func (*configCmd) Name() string     { return "config" }
func (*configCmd) Synopsis() string { return "show or change tracker settings" }
func (*configCmd) Usage() string {
	return `pt config [-currency <code>] [-metals-key <key>] [-brokerage-user <name>] [-brokerage-pass <password>] [-brokerage-account <number>]

  Without flags, prints the current configuration. With flags, updates the
  given settings and writes the configuration document back to disk.

`
}

func (c *configCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.currency, "currency", "", "Display currency code (e.g. USD, EUR)")
	f.StringVar(&c.metalsKey, "metals-key", "", "goldapi.io API key for precious metal prices")
	f.StringVar(&c.brokerUser, "brokerage-user", "", "Brokerage account username")
	f.StringVar(&c.brokerPass, "brokerage-pass", "", "Brokerage account password")
	f.StringVar(&c.brokerAccount, "brokerage-account", "", "Brokerage account number")
}

func (c *configCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := appConfig()
	if err != nil {
		return fatalf("Error loading configuration: %v", err)
	}

	changed := false
	if c.currency != "" {
		cfg.Currency = c.currency
		changed = true
	}
	if c.metalsKey != "" {
		cfg.MetalsKey = c.metalsKey
		changed = true
	}
	if c.brokerUser != "" {
		cfg.Brokerage.Username = c.brokerUser
		changed = true
	}
	if c.brokerPass != "" {
		cfg.Brokerage.Password = c.brokerPass
		changed = true
	}
	if c.brokerAccount != "" {
		cfg.Brokerage.AccountNumber = c.brokerAccount
		changed = true
	}

	if changed {
		if err := tracker.SaveConfig(*dataDir, cfg); err != nil {
			return fatalf("Error saving configuration: %v", err)
		}
		fmt.Println("Configuration saved.")
		return subcommands.ExitSuccess
	}

	fmt.Printf("Currency:          %s\n", cfg.Currency)
	fmt.Printf("Metals API key:    %s\n", maskSecret(cfg.MetalsKey))
	fmt.Printf("Brokerage user:    %s\n", orUnset(cfg.Brokerage.Username))
	fmt.Printf("Brokerage pass:    %s\n", maskSecret(cfg.Brokerage.Password))
	fmt.Printf("Brokerage account: %s\n", orUnset(cfg.Brokerage.AccountNumber))
	fmt.Printf("Data directory:    %s\n", *dataDir)
	return subcommands.ExitSuccess
}

// maskSecret hides all but the last four characters of a credential.
func maskSecret(s string) string {
	if s == "" {
		return "(not set)"
	}
	if len(s) <= 4 {
		return "****"
	}
	return "****" + s[len(s)-4:]
}

func orUnset(s string) string {
	if s == "" {
		return "(not set)"
	}
	return s
}

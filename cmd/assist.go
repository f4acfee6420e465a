package cmd

import (
	"context"
	"flag"
	"os"
	"strings"

	"github.com/etnz/tracker"
	"github.com/etnz/tracker/agent"
	"github.com/etnz/tracker/renderer"
	"github.com/google/subcommands"
	"google.golang.org/genai"
)

// assistCmd starts an interactive AI session about the current portfolio.
type assistCmd struct{}

func (*assistCmd) Name() string     { return "assist" }
func (*assistCmd) Synopsis() string { return "start an interactive session with the AI assistant" }
func (*assistCmd) Usage() string {
	return `pt assist [question...]

  Starts a chat session with an AI analyst grounded in the current
  portfolio valuation. Any arguments are sent as the first question.
  Requires a GEMINI_API_KEY in the environment.

`
}

func (*assistCmd) SetFlags(_ *flag.FlagSet) {}

func (c *assistCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := appConfig()
	if err != nil {
		return fatalf("Error loading configuration: %v", err)
	}
	ledger, err := appStore(cfg).Load()
	if err != nil {
		return fatalf("Error loading ledger: %v", err)
	}
	snapshot := tracker.Value(ledger, tracker.StoredQuotes(ledger))
	report := renderer.SummaryMarkdown(snapshot) + "\n" + renderer.HoldingsMarkdown(snapshot)

	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		return fatalf("Error initializing Gemini client: %v", err)
	}

	var prompts []string
	if f.NArg() > 0 {
		prompts = append(prompts, strings.Join(f.Args(), " "))
	}

	a := agent.New(os.Stdout, os.Stdin)
	if err := a.Run(ctx, client, report, prompts...); err != nil {
		return fatalf("Assistant failed: %v", err)
	}
	return subcommands.ExitSuccess
}

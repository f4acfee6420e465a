package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/etnz/tracker/cmd"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// completion describes the CLI for shell tab completion. Run
// `COMP_INSTALL=1 pt` once to install it in the shell profile.
var completion = &complete.Command{
	Flags: map[string]complete.Predictor{
		"data-dir": predict.Dirs("*"),
	},
	Sub: map[string]*complete.Command{
		"add": {Flags: map[string]complete.Predictor{
			"class":    predict.Set{"crypto", "metal", "equity"},
			"quantity": predict.Something,
			"cost":     predict.Something,
			"unit":     predict.Set{"grams", "oz"},
			"replace":  predict.Nothing,
			"offline":  predict.Nothing,
		}},
		"remove": {Flags: map[string]complete.Predictor{
			"class": predict.Set{"crypto", "metal", "equity"},
		}},
		"adjust": {Flags: map[string]complete.Predictor{
			"class": predict.Set{"crypto", "metal", "equity"},
			"set":   predict.Something,
			"add":   predict.Something,
			"sub":   predict.Something,
		}},
		"equities": {Flags: map[string]complete.Predictor{
			"replace": predict.Nothing,
		}},
		"cash": {Flags: map[string]complete.Predictor{
			"set":      predict.Something,
			"add":      predict.Something,
			"subtract": predict.Something,
		}},
		"show": {Flags: map[string]complete.Predictor{
			"v": predict.Nothing,
		}},
		"update": {Flags: map[string]complete.Predictor{
			"symbol": predict.Something,
			"manual": predict.Nothing,
			"v":      predict.Nothing,
		}},
		"assist": {},
		"config": {Flags: map[string]complete.Predictor{
			"currency":          predict.Set{"USD", "EUR", "GBP", "CHF", "JPY"},
			"metals-key":        predict.Something,
			"brokerage-user":    predict.Something,
			"brokerage-pass":    predict.Something,
			"brokerage-account": predict.Something,
		}},
		"help":     {},
		"flags":    {},
		"commands": {},
	},
}

func main() {
	completion.Complete("pt")

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	cmd.Register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

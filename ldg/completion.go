package main

import (
	"flag"

	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

var periods = predict.Set{"day", "week", "month", "quarter", "year"}

// flagPredictors predicts the values of flags shared by several commands.
var flagPredictors = map[string]complete.Predictor{
	"store":      predict.Files("*"),
	"categories": predict.Files("*.yaml"),
	"currency":   predict.Set{"CNY", "EUR", "USD", "GBP", "JPY"},
	"o":          predict.Files("*.json"),
	"p":          periods,
	"type":       predict.Set{"expense", "income"},
	"v":          predict.Nothing,
	"raw":        predict.Nothing,
	"daily":      predict.Nothing,
}

func predictor(name string) complete.Predictor {
	if p, ok := flagPredictors[name]; ok {
		return p
	}
	return predict.Something
}

// completion describes the commands and flags of commander for shell
// completion. Install it with: COMP_INSTALL=1 ldg
func completion(commander *subcommands.Commander) *complete.Command {
	root := &complete.Command{
		Sub:   map[string]*complete.Command{},
		Flags: map[string]complete.Predictor{},
	}
	flag.CommandLine.VisitAll(func(f *flag.Flag) {
		root.Flags[f.Name] = predictor(f.Name)
	})
	commander.VisitCommands(func(_ *subcommands.CommandGroup, c subcommands.Command) {
		fs := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
		c.SetFlags(fs)
		sub := &complete.Command{Flags: map[string]complete.Predictor{}}
		fs.VisitAll(func(f *flag.Flag) {
			sub.Flags[f.Name] = predictor(f.Name)
		})
		root.Sub[c.Name()] = sub
	})
	return root
}

// Command pat tracks an equity portfolio: FIFO gains, holdings, taxes and cash flow.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/etnz/patrimony/cmd"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// completion builds the shell completion tree from the registered flags.
func completion() *complete.Command {
	root := &complete.Command{
		Sub:   map[string]*complete.Command{},
		Flags: flags(flag.CommandLine),
	}
	root.Flags["store"] = predict.Set{"jsonl", "sqlite"}
	root.Flags["path"] = predict.Dirs("*")
	root.Flags["cache"] = predict.Dirs("*")
	root.Flags["log-level"] = predict.Set{"debug", "info", "warn", "error"}

	for _, c := range cmd.Commands {
		f := flag.NewFlagSet(c.Command.Name(), flag.ContinueOnError)
		c.Command.SetFlags(f)
		root.Sub[c.Command.Name()] = &complete.Command{Flags: flags(f)}
	}
	if topic, ok := root.Sub["topic"]; ok {
		topic.Args = predict.Set{"currency", "fifo", "ledger", "tax"}
	}
	return root
}

// flags predicts nothing for boolean flags and something for the others.
func flags(f *flag.FlagSet) map[string]complete.Predictor {
	res := map[string]complete.Predictor{}
	f.VisitAll(func(fl *flag.Flag) {
		if b, ok := fl.Value.(interface{ IsBoolFlag() bool }); ok && b.IsBoolFlag() {
			res[fl.Name] = predict.Nothing
			return
		}
		res[fl.Name] = predict.Something
	})
	return res
}

func main() {
	name := path.Base(os.Args[0])
	completion().Complete(name)

	commander := subcommands.NewCommander(flag.CommandLine, name)
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	cmd.Register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

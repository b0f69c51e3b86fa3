package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/ledger"
	"github.com/etnz/ledger/renderer"
	"github.com/google/subcommands"
)

type categoriesCmd struct {
	typ string
}

func (*categoriesCmd) Name() string     { return "categories" }
func (*categoriesCmd) Synopsis() string { return "list transaction categories" }
func (*categoriesCmd) Usage() string {
	return `ldg categories [-type expense|income]

  Lists the categories transactions can be filed under. The table can be
  replaced with a YAML or JSON file, see -categories.
`
}

func (c *categoriesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.typ, "type", "", "Only list categories of this type")
}

func (c *categoriesCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var typ ledger.TransactionType
	if c.typ != "" {
		t, err := ledger.ParseTransactionType(c.typ)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitUsageError
		}
		typ = t
	}
	cats, err := categories()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading categories: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.RenderCategories(renderer.NewCategories(cats, typ)))
	return subcommands.ExitSuccess
}

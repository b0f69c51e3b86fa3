package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/etnz/ledger"
	"github.com/google/subcommands"
)

type exportCmd struct {
	output string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "write the ledger document as JSON" }
func (*exportCmd) Usage() string {
	return `ldg export [-o <file>]

  Writes the whole ledger, deleted entries included, in its storage format.
  The output can be used as a file store: ldg -store <file> accounts.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.output, "o", "", "Output file (default stdout)")
}

func (c *exportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withLedger(ctx, func(s *Session) subcommands.ExitStatus {
		var w io.Writer = os.Stdout
		if c.output != "" {
			file, err := os.Create(c.output)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error creating %q: %v\n", c.output, err)
				return subcommands.ExitFailure
			}
			defer file.Close()
			w = file
		}
		if err := ledger.EncodeSnapshot(w, s.Snapshot()); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing ledger: %v\n", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	})
}

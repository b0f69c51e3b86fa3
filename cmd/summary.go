package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/ledger"
	"github.com/etnz/ledger/date"
	"github.com/etnz/ledger/renderer"
	"github.com/google/subcommands"
)

type summaryCmd struct {
	rangeFlags
	daily bool
}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "income, expenses and net over a period" }
func (*summaryCmd) Usage() string {
	return `ldg summary [-p <period> | -s <start_date>] [-d <end_date>] [-daily]

  Summarizes the transactions of a period, the current month by default:
  total income, total expense, net, and expenses by category.

` + rangeUsage + "\n"
}

func (c *summaryCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.period, "p", "month", "Predefined period (day, week, month, quarter, year)")
	f.StringVar(&c.start, "s", "", "The start date for a custom range. Overrides -p")
	f.StringVar(&c.end, "d", "", "The end date for the range")
	f.BoolVar(&c.daily, "daily", false, "Include the expenses of every day of the range")
}

func (c *summaryCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	r, err := c.Range(date.Monthly)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	if c.daily {
		if err := ledger.CheckDailyRange(r); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitUsageError
		}
	}
	return withLedger(ctx, func(s *Session) subcommands.ExitStatus {
		printMarkdown(renderer.RenderSummary(renderer.NewSummary(s.Ledger, r, c.daily, Currency())))
		return subcommands.ExitSuccess
	})
}

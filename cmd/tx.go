package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/etnz/ledger"
	"github.com/etnz/ledger/date"
	"github.com/etnz/ledger/renderer"
	"github.com/google/subcommands"
)

// addTxCmd records an expense or an income, depending on typ.
type addTxCmd struct {
	typ      ledger.TransactionType
	amount   string
	account  string
	category string
	date     string
	note     string
}

func newAddTxCmd(typ ledger.TransactionType) *addTxCmd { return &addTxCmd{typ: typ} }

func (c *addTxCmd) Name() string { return c.typ.String() }
func (c *addTxCmd) Synopsis() string {
	if c.typ == ledger.Income {
		return "record money received on an account"
	}
	return "record money spent from an account"
}
func (c *addTxCmd) Usage() string {
	return fmt.Sprintf(`ldg %s -amount <amount> -account <account> [-category <category>] [-d <date>] [-note <text>]

  Records an %s. The account is given by id or name, the category by id or
  name (see 'ldg categories'). The date defaults to now.
`, c.typ, c.typ)
}

func (c *addTxCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.amount, "amount", "", "Amount, a non negative decimal (required)")
	f.StringVar(&c.account, "account", "", "Account id or name (required)")
	f.StringVar(&c.category, "category", "", "Category id or name")
	f.StringVar(&c.date, "d", "", "Date of the transaction (YYYY-MM-DD)")
	f.StringVar(&c.note, "note", "", "Free text note")
}

func (c *addTxCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.amount == "" || c.account == "" {
		fmt.Fprintln(os.Stderr, "Error: -amount and -account are required.")
		return subcommands.ExitUsageError
	}
	amount, err := ledger.ParseAmount(c.amount)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	on, err := occurredAt(c.date, time.Now())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	return withLedger(ctx, func(s *Session) subcommands.ExitStatus {
		a, err := resolveAccount(s.Ledger, c.account)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return exitStatus(err)
		}
		var categoryID string
		if c.category != "" {
			cat, err := resolveCategory(s.Categories(), c.category, c.typ)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				return exitStatus(err)
			}
			categoryID = cat.ID
		}
		tx, err := s.CreateTransaction(ledger.TransactionInput{
			Amount:     amount,
			Type:       c.typ,
			CategoryID: categoryID,
			AccountID:  a.ID,
			OccurredAt: on,
			Note:       c.note,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error recording %s: %v\n", c.typ, err)
			return exitStatus(err)
		}
		fmt.Printf("✅ %s (%s)\n", renderer.Transaction(tx, s.Categories().Resolve(tx.CategoryID), Currency()), tx.ID)
		return subcommands.ExitSuccess
	})
}

type editTxCmd struct {
	typ      string
	amount   string
	account  string
	category string
	date     string
	note     string
}

func (*editTxCmd) Name() string     { return "edit-tx" }
func (*editTxCmd) Synopsis() string { return "change a transaction" }
func (*editTxCmd) Usage() string {
	return `ldg edit-tx [-type <type>] [-amount <amount>] [-account <account>] [-category <category>] [-d <date>] [-note <text>] <id>

  Updates a transaction. Only the given flags are changed. Use -note "" to keep
  the note, -note " " to clear it.
`
}

func (c *editTxCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.typ, "type", "", "New type: expense or income")
	f.StringVar(&c.amount, "amount", "", "New amount")
	f.StringVar(&c.account, "account", "", "New account id or name")
	f.StringVar(&c.category, "category", "", "New category id or name")
	f.StringVar(&c.date, "d", "", "New date (YYYY-MM-DD)")
	f.StringVar(&c.note, "note", "", "New note")
}

func (c *editTxCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: exactly one transaction id is required.")
		return subcommands.ExitUsageError
	}
	id := f.Arg(0)

	return withLedger(ctx, func(s *Session) subcommands.ExitStatus {
		tx, ok := s.Transaction(id)
		if !ok {
			fmt.Fprintf(os.Stderr, "Error: transaction %q: %v\n", id, ledger.ErrNotFound)
			return subcommands.ExitFailure
		}
		in, err := c.input(s, tx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return exitStatus(err)
		}
		tx, err = s.UpdateTransaction(id, in)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error updating transaction: %v\n", err)
			return exitStatus(err)
		}
		fmt.Printf("✅ %s (%s)\n", renderer.Transaction(tx, s.Categories().Resolve(tx.CategoryID), Currency()), tx.ID)
		return subcommands.ExitSuccess
	})
}

// input merges the flags into the current fields of tx.
func (c *editTxCmd) input(s *Session, tx ledger.Transaction) (ledger.TransactionInput, error) {
	in := ledger.TransactionInput{
		Amount:     tx.Amount,
		Type:       tx.Type,
		CategoryID: tx.CategoryID,
		AccountID:  tx.AccountID,
		OccurredAt: tx.OccurredAt,
		Note:       tx.Note,
	}
	if c.typ != "" {
		t, err := ledger.ParseTransactionType(c.typ)
		if err != nil {
			return in, err
		}
		in.Type = t
	}
	if c.amount != "" {
		a, err := ledger.ParseAmount(c.amount)
		if err != nil {
			return in, err
		}
		in.Amount = a
	}
	if c.account != "" {
		a, err := resolveAccount(s.Ledger, c.account)
		if err != nil {
			return in, err
		}
		in.AccountID = a.ID
	}
	if c.category != "" {
		cat, err := resolveCategory(s.Categories(), c.category, in.Type)
		if err != nil {
			return in, err
		}
		in.CategoryID = cat.ID
	}
	if c.date != "" {
		on, err := occurredAt(c.date, tx.OccurredAt.Local())
		if err != nil {
			return in, err
		}
		in.OccurredAt = on
	}
	if c.note != "" {
		in.Note = c.note
	}
	return in, nil
}

type rmTxCmd struct{}

func (*rmTxCmd) Name() string     { return "rm-tx" }
func (*rmTxCmd) Synopsis() string { return "delete transactions" }
func (*rmTxCmd) Usage() string {
	return `ldg rm-tx <id>...

  Deletes transactions. Account balances are updated accordingly.
`
}

func (*rmTxCmd) SetFlags(f *flag.FlagSet) {}

func (*rmTxCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: at least one transaction id is required.")
		return subcommands.ExitUsageError
	}
	return withLedger(ctx, func(s *Session) subcommands.ExitStatus {
		for _, id := range f.Args() {
			if err := s.DeleteTransaction(id); err != nil {
				fmt.Fprintf(os.Stderr, "Error deleting transaction: %v\n", err)
				return exitStatus(err)
			}
			fmt.Printf("🗑️ Deleted transaction %s\n", id)
		}
		return subcommands.ExitSuccess
	})
}

type txCmd struct {
	rangeFlags
	account string
	limit   int
}

func (*txCmd) Name() string     { return "tx" }
func (*txCmd) Synopsis() string { return "list transactions" }
func (*txCmd) Usage() string {
	return `ldg tx [-p <period> | -s <start_date>] [-d <end_date>] [-account <account>] [-n <count>]

  Lists transactions, most recent first. Without range flags, all
  transactions are listed.

` + rangeUsage + "\n"
}

func (c *txCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.period, "p", "", "Predefined period (day, week, month, quarter, year)")
	f.StringVar(&c.start, "s", "", "The start date for a custom range. Overrides -p")
	f.StringVar(&c.end, "d", "", "The end date for the range")
	f.StringVar(&c.account, "account", "", "Only list transactions of this account")
	f.IntVar(&c.limit, "n", 0, "Show only the N most recent transactions")
}

func (c *txCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var filter renderer.Filter
	if c.isSet() {
		r, err := c.Range(date.Monthly)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitUsageError
		}
		filter.Range = &r
	}
	filter.Limit = c.limit

	return withLedger(ctx, func(s *Session) subcommands.ExitStatus {
		if c.account != "" {
			a, err := resolveAccount(s.Ledger, c.account)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				return exitStatus(err)
			}
			filter.AccountID = a.ID
		}
		printMarkdown(renderer.RenderTransactions(renderer.NewTransactions(s.Ledger, filter, Currency())))
		return subcommands.ExitSuccess
	})
}

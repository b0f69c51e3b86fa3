package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/ledger"
	"github.com/etnz/ledger/renderer"
	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
)

type addAccountCmd struct {
	name    string
	initial string
}

func (*addAccountCmd) Name() string     { return "add-account" }
func (*addAccountCmd) Synopsis() string { return "create an account" }
func (*addAccountCmd) Usage() string {
	return `ldg add-account -name <name> [-initial <amount>]

  Creates an account. Its balance starts at the initial amount (default 0,
  may be negative) and then moves with every income and expense recorded on it.
`
}

func (c *addAccountCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "name", "", "Account name (required)")
	f.StringVar(&c.initial, "initial", "0", "Initial balance")
}

func (c *addAccountCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	initial, err := ledger.ParseAmount(c.initial)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	return withLedger(ctx, func(s *Session) subcommands.ExitStatus {
		a, err := s.CreateAccount(ledger.AccountInput{Name: c.name, InitialBalance: initial})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating account: %v\n", err)
			return exitStatus(err)
		}
		fmt.Printf("✅ Created account %q (%s) with %s\n", a.Name, a.ID, ledger.FormatAmount(a.InitialBalance, Currency()))
		return subcommands.ExitSuccess
	})
}

type editAccountCmd struct {
	name    string
	initial string
}

func (*editAccountCmd) Name() string     { return "edit-account" }
func (*editAccountCmd) Synopsis() string { return "rename an account or change its initial balance" }
func (*editAccountCmd) Usage() string {
	return `ldg edit-account [-name <name>] [-initial <amount>] <account>

  Updates an account, given by id or name. Only the given flags are changed.
`
}

func (c *editAccountCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "name", "", "New account name")
	f.StringVar(&c.initial, "initial", "", "New initial balance")
}

func (c *editAccountCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: exactly one account is required.")
		return subcommands.ExitUsageError
	}
	var initial *decimal.Decimal
	if c.initial != "" {
		d, err := ledger.ParseAmount(c.initial)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitUsageError
		}
		initial = &d
	}

	return withLedger(ctx, func(s *Session) subcommands.ExitStatus {
		a, err := resolveAccount(s.Ledger, f.Arg(0))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return exitStatus(err)
		}
		in := ledger.AccountInput{Name: a.Name, InitialBalance: a.InitialBalance}
		if c.name != "" {
			in.Name = c.name
		}
		if initial != nil {
			in.InitialBalance = *initial
		}
		a, err = s.UpdateAccount(a.ID, in)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error updating account: %v\n", err)
			return exitStatus(err)
		}
		fmt.Printf("✅ Updated account %q (%s)\n", a.Name, a.ID)
		return subcommands.ExitSuccess
	})
}

type rmAccountCmd struct{}

func (*rmAccountCmd) Name() string     { return "rm-account" }
func (*rmAccountCmd) Synopsis() string { return "delete accounts" }
func (*rmAccountCmd) Usage() string {
	return `ldg rm-account <account>...

  Deletes accounts, given by id or name. Their transactions are kept.
`
}

func (*rmAccountCmd) SetFlags(f *flag.FlagSet) {}

func (c *rmAccountCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: at least one account is required.")
		return subcommands.ExitUsageError
	}
	return withLedger(ctx, func(s *Session) subcommands.ExitStatus {
		for _, ref := range f.Args() {
			a, err := resolveAccount(s.Ledger, ref)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				return exitStatus(err)
			}
			if err := s.DeleteAccount(a.ID); err != nil {
				fmt.Fprintf(os.Stderr, "Error deleting account: %v\n", err)
				return exitStatus(err)
			}
			fmt.Printf("🗑️ Deleted account %q (%s)\n", a.Name, a.ID)
		}
		return subcommands.ExitSuccess
	})
}

type accountsCmd struct{}

func (*accountsCmd) Name() string     { return "accounts" }
func (*accountsCmd) Synopsis() string { return "list accounts and their balances" }
func (*accountsCmd) Usage() string {
	return `ldg accounts

  Lists the accounts in creation order with their current balance.
`
}

func (*accountsCmd) SetFlags(f *flag.FlagSet) {}

func (*accountsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withLedger(ctx, func(s *Session) subcommands.ExitStatus {
		printMarkdown(renderer.RenderAccounts(renderer.NewAccounts(s.Ledger, Currency())))
		return subcommands.ExitSuccess
	})
}

type balanceCmd struct {
	raw bool
}

func (*balanceCmd) Name() string     { return "balance" }
func (*balanceCmd) Synopsis() string { return "print the balance of an account" }
func (*balanceCmd) Usage() string {
	return `ldg balance [-raw] <account>

  Prints the balance of an account, given by id or name.
`
}

func (c *balanceCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.raw, "raw", false, "Print the plain decimal value")
}

func (c *balanceCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: exactly one account is required.")
		return subcommands.ExitUsageError
	}
	return withLedger(ctx, func(s *Session) subcommands.ExitStatus {
		a, err := resolveAccount(s.Ledger, f.Arg(0))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return exitStatus(err)
		}
		balance := s.AccountBalance(a.ID)
		if c.raw {
			fmt.Println(balance.String())
		} else {
			fmt.Printf("%s: %s\n", a.Name, ledger.FormatAmount(balance, Currency()))
		}
		return subcommands.ExitSuccess
	})
}

package agent

import (
	"context"
	"fmt"

	"github.com/etnz/ledger"
	"github.com/etnz/ledger/date"
	"github.com/etnz/ledger/docs"
	"github.com/etnz/ledger/renderer"
	"google.golang.org/genai"
)

// Bookkeeping returns the functions reading src.
func Bookkeeping(src renderer.Source, currency string) []Function {
	return []Function{
		accountsFunc(src, currency),
		transactionsFunc(src, currency),
		summaryFunc(src, currency),
		categoriesFunc(src),
	}
}

// rangeParameters are the parameters selecting a date range.
func rangeParameters() map[string]*genai.Schema {
	dates := must(docs.GetTopic("dates"))
	return map[string]*genai.Schema{
		"period": {
			Type:        genai.TypeString,
			Description: "The period containing the end date: day, week, month, quarter or year. Month is the default.",
		},
		"from": {
			Type:        genai.TypeString,
			Description: "The first day of a custom range, overrides period.\n\n" + dates,
		},
		"to": {
			Type:        genai.TypeString,
			Description: "The end date, today by default.",
		},
	}
}

func accountsFunc(src renderer.Source, currency string) *Func {
	const name = "Accounts"
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name:        name,
			Description: `Accounts lists the user's accounts (wallets, bank accounts, cards) with their initial and current balance.`,
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "A markdown table of the accounts, their balance and the total.",
			},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			return output(id, name, renderer.RenderAccounts(renderer.NewAccounts(src, currency)))
		},
	}
}

func transactionsFunc(src renderer.Source, currency string) *Func {
	const name = "Transactions"
	params := rangeParameters()
	params["account"] = &genai.Schema{
		Type:        genai.TypeString,
		Description: "Only list the transactions of this account, given by name.",
	}
	params["limit"] = &genai.Schema{
		Type:        genai.TypeInteger,
		Description: "The maximum number of transactions, most recent first.",
	}
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name:        name,
			Description: `Transactions lists the incomes and expenses recorded over a range, most recent first.`,
			Parameters:  &genai.Schema{Type: genai.TypeObject, Properties: params},
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "A markdown table of the transactions with their date, category, account, signed amount and note.",
			},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			r, err := parseRange(args)
			if err != nil {
				return failure(id, name, err)
			}
			f := renderer.Filter{Range: &r}
			if s, ok := args["account"].(string); ok && s != "" {
				a, err := findAccount(src, s)
				if err != nil {
					return failure(id, name, err)
				}
				f.AccountID = a.ID
			}
			// JSON numbers are decoded as float64.
			if n, ok := args["limit"].(float64); ok {
				f.Limit = int(n)
			}
			return output(id, name, renderer.RenderTransactions(renderer.NewTransactions(src, f, currency)))
		},
	}
}

func summaryFunc(src renderer.Source, currency string) *Func {
	const name = "Summary"
	params := rangeParameters()
	params["daily"] = &genai.Schema{
		Type:        genai.TypeBoolean,
		Description: "Also list the expenses of every day of the range.",
	}
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name:        name,
			Description: `Summary computes the total income, total expense and net over a range, and the expenses by category.`,
			Parameters:  &genai.Schema{Type: genai.TypeObject, Properties: params},
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "A markdown report of the summary.",
			},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			r, err := parseRange(args)
			if err != nil {
				return failure(id, name, err)
			}
			daily, _ := args["daily"].(bool)
			if daily {
				if err := ledger.CheckDailyRange(r); err != nil {
					return failure(id, name, err)
				}
			}
			return output(id, name, renderer.RenderSummary(renderer.NewSummary(src, r, daily, currency)))
		},
	}
}

func categoriesFunc(src renderer.Source) *Func {
	const name = "Categories"
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name:        name,
			Description: `Categories lists the categories transactions are filed under.`,
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"type": {
						Type:        genai.TypeString,
						Description: "Only list the categories of this type: expense or income.",
						Enum:        []string{"expense", "income"},
					},
				},
			},
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "A markdown table of the categories.",
			},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			var typ ledger.TransactionType
			if s, ok := args["type"].(string); ok && s != "" {
				t, err := ledger.ParseTransactionType(s)
				if err != nil {
					return failure(id, name, err)
				}
				typ = t
			}
			return output(id, name, renderer.RenderCategories(renderer.NewCategories(src.Categories(), typ)))
		},
	}
}

// parseRange reads the range parameters, the current month by default.
func parseRange(args map[string]any) (date.Range, error) {
	str := func(key string) (string, error) {
		v, ok := args[key]
		if !ok {
			return "", nil
		}
		s, ok := v.(string)
		if !ok {
			return "", fmt.Errorf("argument %q is not a string as expected but %T", key, v)
		}
		return s, nil
	}
	parse := func(key string) (date.Date, error) {
		s, err := str(key)
		if err != nil || s == "" {
			return date.Today(), err
		}
		d, err := date.Parse(s)
		if err != nil {
			return date.Date{}, fmt.Errorf("argument %q must be a valid date got %q. Below is the doc about the format date\n\n%s", key, s, must(docs.GetTopic("dates")))
		}
		return d, nil
	}

	end, err := parse("to")
	if err != nil {
		return date.Range{}, err
	}
	if s, _ := str("from"); s != "" {
		start, err := parse("from")
		if err != nil {
			return date.Range{}, err
		}
		if start.After(end) {
			return date.Range{}, fmt.Errorf("from %s is after to %s", start, end)
		}
		return date.Between(start, end), nil
	}
	p := date.Monthly
	s, err := str("period")
	if err != nil {
		return date.Range{}, err
	}
	if s != "" {
		if p, err = date.ParsePeriod(s); err != nil {
			return date.Range{}, err
		}
	}
	return p.Range(end), nil
}

// findAccount finds an account by id or name.
func findAccount(src renderer.Source, ref string) (ledger.Account, error) {
	if a, ok := src.Account(ref); ok {
		return a, nil
	}
	for _, a := range src.Accounts() {
		if a.Name == ref {
			return a, nil
		}
	}
	return ledger.Account{}, fmt.Errorf("account %q: %w", ref, ledger.ErrNotFound)
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

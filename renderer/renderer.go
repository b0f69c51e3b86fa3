// Package renderer turns ledger read-models into markdown documents.
package renderer

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"

	"github.com/etnz/ledger"
	"github.com/shopspring/decimal"
)

//go:embed *.md
var templates embed.FS

// RenderAccounts renders the account list with balances.
func RenderAccounts(v *Accounts) string {
	return renderTemplate("accounts", "accounts.md", nil, v.Currency, v)
}

// RenderTransactions renders a transaction journal.
func RenderTransactions(v *Transactions) string {
	return renderTemplate("transactions", "transactions.md", nil, v.Currency, v)
}

// RenderSummary renders a period summary, its category breakdown and, when
// computed, the daily expenses.
func RenderSummary(v *Summary) string {
	partials := map[string]string{
		"summary_categories": "summary_categories.md",
		"summary_daily":      "summary_daily.md",
	}
	return renderTemplate("summary", "summary.md", partials, v.Currency, v)
}

// RenderCategories renders the category table.
func RenderCategories(v *Categories) string {
	return renderTemplate("categories", "categories.md", nil, "", v)
}

// funcs returns the template functions formatting amounts in currency.
func funcs(currency string) template.FuncMap {
	return template.FuncMap{
		"amount": func(d decimal.Decimal) string { return ledger.FormatAmount(d, currency) },
		"signed": func(d decimal.Decimal) string { return ledger.FormatSignedAmount(d, currency) },
		"cell":   cell,
	}
}

// cell escapes s for a markdown table cell.
func cell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.Join(strings.Fields(s), " ")
}

// renderTemplate is a generic utility to render a main template that depends on several partials.
func renderTemplate(templateName, mainFile string, partials map[string]string, currency string, data any) string {
	mainContent, err := fs.ReadFile(templates, mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := template.New(templateName).Funcs(funcs(currency)).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for name, file := range partials {
		content, err := fs.ReadFile(templates, file)
		if err != nil {
			return fmt.Sprintf("error reading partial template %q: %v", file, err)
		}
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return fmt.Sprintf("error parsing partial template %q for %q: %v", file, name, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, templateName, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", templateName, err)
	}
	return b.String()
}

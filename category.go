package ledger

import (
	"errors"
	"fmt"
	"slices"
)

// Category classifies transactions. Categories are a static reference table,
// they are never created, updated or deleted by the ledger.
type Category struct {
	ID    string          `json:"id" yaml:"id"`
	Name  string          `json:"name" yaml:"name"`
	Type  TransactionType `json:"type" yaml:"type"`
	Color string          `json:"color" yaml:"color"`
	Icon  string          `json:"icon,omitempty" yaml:"icon,omitempty"`
}

// Uncategorized stands for any category id missing from the table.
var Uncategorized = Category{ID: "", Name: "Uncategorized", Color: "#9E9E9E"}

// Categories is an ordered, read-only table of categories indexed by id.
type Categories struct {
	list []Category
	byID map[string]int
}

// NewCategories builds a table from list, keeping its order. It reports every
// entry with an empty id or name, an unknown type or a duplicate id.
func NewCategories(list ...Category) (*Categories, error) {
	c := &Categories{
		list: slices.Clone(list),
		byID: make(map[string]int, len(list)),
	}
	var errs error
	for i, cat := range c.list {
		if cat.ID == "" {
			errs = errors.Join(errs, fmt.Errorf("category #%d has no id: %w", i, ErrInvalidInput))
			continue
		}
		if cat.Name == "" {
			errs = errors.Join(errs, fmt.Errorf("category %q has no name: %w", cat.ID, ErrInvalidInput))
		}
		if !cat.Type.Valid() {
			errs = errors.Join(errs, fmt.Errorf("category %q has unknown type %q: %w", cat.ID, cat.Type, ErrInvalidInput))
		}
		if _, dup := c.byID[cat.ID]; dup {
			errs = errors.Join(errs, fmt.Errorf("category %q is defined twice: %w", cat.ID, ErrInvalidInput))
			continue
		}
		c.byID[cat.ID] = i
	}
	if errs != nil {
		return nil, errs
	}
	return c, nil
}

// Get returns the category with this id.
func (c *Categories) Get(id string) (Category, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Category{}, false
	}
	return c.list[i], true
}

// Resolve is like Get but returns Uncategorized for unknown ids.
func (c *Categories) Resolve(id string) Category {
	if cat, ok := c.Get(id); ok {
		return cat
	}
	return Uncategorized
}

// All returns a copy of the table, in order.
func (c *Categories) All() []Category { return slices.Clone(c.list) }

// OfType returns the categories of type t, in table order.
func (c *Categories) OfType(t TransactionType) []Category {
	var out []Category
	for _, cat := range c.list {
		if cat.Type == t {
			out = append(out, cat)
		}
	}
	return out
}

// Len returns the number of categories.
func (c *Categories) Len() int { return len(c.list) }

var defaultCategories = []Category{
	{ID: "expense:food", Name: "Food", Type: Expense, Color: "#FF7043"},
	{ID: "expense:transport", Name: "Transport", Type: Expense, Color: "#29B6F6"},
	{ID: "expense:housing", Name: "Housing", Type: Expense, Color: "#8D6E63"},
	{ID: "expense:shopping", Name: "Shopping", Type: Expense, Color: "#AB47BC"},
	{ID: "expense:entertainment", Name: "Entertainment", Type: Expense, Color: "#FFCA28"},
	{ID: "expense:medical", Name: "Medical", Type: Expense, Color: "#66BB6A"},
	{ID: "expense:education", Name: "Education", Type: Expense, Color: "#5C6BC0"},
	{ID: "expense:others", Name: "Other expenses", Type: Expense, Color: "#78909C"},
	{ID: "income:salary", Name: "Salary", Type: Income, Color: "#26A69A"},
	{ID: "income:bonus", Name: "Bonus", Type: Income, Color: "#FFB300"},
	{ID: "income:investment", Name: "Investment", Type: Income, Color: "#7E57C2"},
	{ID: "income:others", Name: "Other income", Type: Income, Color: "#42A5F5"},
}

// DefaultCategories returns the built-in category table.
func DefaultCategories() *Categories {
	c, err := NewCategories(defaultCategories...)
	if err != nil {
		panic(err) // the built-in table is valid
	}
	return c
}

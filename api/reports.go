package api

import (
	"cmp"
	"fmt"
	"net/http"

	"github.com/etnz/ledger"
	"github.com/etnz/ledger/date"
	"github.com/shopspring/decimal"
)

// parseRange reads a range from query parameters: from and to, or the period
// containing day (today by default). It returns nil when none is set.
func parseRange(from, to, period, day string) (*date.Range, error) {
	if from == "" && to == "" && period == "" && day == "" {
		return nil, nil
	}
	end := date.Today()
	if to != "" || day != "" {
		d, err := date.Parse(cmp.Or(to, day))
		if err != nil {
			return nil, fmt.Errorf("invalid end date: %w: %w", ledger.ErrInvalidInput, err)
		}
		end = d
	}
	if from != "" {
		start, err := date.Parse(from)
		if err != nil {
			return nil, fmt.Errorf("invalid start date: %w: %w", ledger.ErrInvalidInput, err)
		}
		if start.After(end) {
			return nil, fmt.Errorf("start date %s is after end date %s: %w", start, end, ledger.ErrInvalidInput)
		}
		r := date.Between(start, end)
		return &r, nil
	}
	p := date.Monthly
	if period != "" {
		var err error
		if p, err = date.ParsePeriod(period); err != nil {
			return nil, fmt.Errorf("%w: %w", ledger.ErrInvalidInput, err)
		}
	}
	r := p.Range(end)
	return &r, nil
}

func (s *Server) listCategories(w http.ResponseWriter, r *http.Request) {
	cats := s.ledger.Categories().All()
	if t := r.URL.Query().Get("type"); t != "" {
		typ, err := ledger.ParseTransactionType(t)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		cats = s.ledger.Categories().OfType(typ)
	}
	s.writeJSON(w, http.StatusOK, cats)
}

type categoryTotal struct {
	CategoryID string          `json:"categoryId"`
	Name       string          `json:"name"`
	Total      decimal.Decimal `json:"total"`
}

type dayTotal struct {
	Day   date.Date       `json:"day"`
	Total decimal.Decimal `json:"total"`
}

type summaryResponse struct {
	From       date.Date       `json:"from"`
	To         date.Date       `json:"to"`
	Income     decimal.Decimal `json:"income"`
	Expense    decimal.Decimal `json:"expense"`
	Net        decimal.Decimal `json:"net"`
	Count      int             `json:"count"`
	Categories []categoryTotal `json:"categories"`
	Daily      []dayTotal      `json:"daily,omitempty"`
}

// summary serves the period summary, the current month by default. Set
// daily=true for the per day expenses.
func (s *Server) summary(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	rg, err := parseRange(q.Get("from"), q.Get("to"), q.Get("period"), q.Get("date"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if rg == nil {
		m := ledger.CurrentMonth()
		rg = &m
	}

	daily := q.Get("daily") == "true"
	if daily {
		if err := ledger.CheckDailyRange(*rg); err != nil {
			s.writeError(w, r, err)
			return
		}
	}

	sum := s.ledger.Summary(*rg)
	resp := summaryResponse{
		From:       rg.From,
		To:         rg.To,
		Income:     sum.Income,
		Expense:    sum.Expense,
		Net:        sum.Net(),
		Count:      sum.Count,
		Categories: []categoryTotal{},
	}
	for _, c := range s.ledger.ExpenseByCategory(*rg) {
		resp.Categories = append(resp.Categories, categoryTotal{CategoryID: c.Category.ID, Name: c.Category.Name, Total: c.Total})
	}
	if daily {
		for _, d := range s.ledger.DailyExpenses(*rg) {
			resp.Daily = append(resp.Daily, dayTotal{Day: d.Day, Total: d.Total})
		}
	}
	s.writeJSON(w, http.StatusOK, resp)
}

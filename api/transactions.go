package api

import (
	"cmp"
	"fmt"
	"net/http"
	"slices"
	"time"

	"github.com/etnz/ledger"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

// transactionRequest is the body of transaction creation and update.
type transactionRequest struct {
	Amount     decimal.Decimal        `json:"amount"`
	Type       ledger.TransactionType `json:"type"`
	CategoryID string                 `json:"categoryId"`
	AccountID  string                 `json:"accountId"`
	OccurredAt time.Time              `json:"occurredAt"`
	Note       string                 `json:"note"`
}

func (t transactionRequest) input() ledger.TransactionInput {
	return ledger.TransactionInput{
		Amount:     t.Amount,
		Type:       t.Type,
		CategoryID: t.CategoryID,
		AccountID:  t.AccountID,
		OccurredAt: t.OccurredAt,
		Note:       t.Note,
	}
}

// listTransactions serves the active transactions, most recent first. The
// query parameters account, from and to (YYYY-MM-DD, inclusive) filter them.
func (s *Server) listTransactions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	rg, err := parseRange(q.Get("from"), q.Get("to"), q.Get("period"), q.Get("date"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	account := q.Get("account")

	resp := []ledger.Transaction{}
	for _, tx := range s.ledger.Transactions() {
		if account != "" && tx.AccountID != account {
			continue
		}
		if rg != nil && !rg.ContainsTime(tx.OccurredAt.Local()) {
			continue
		}
		resp = append(resp, tx)
	}
	slices.SortStableFunc(resp, func(a, b ledger.Transaction) int {
		if c := b.OccurredAt.Compare(a.OccurredAt); c != 0 {
			return c
		}
		return cmp.Compare(b.CreatedAt, a.CreatedAt)
	})
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) createTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	tx, err := s.ledger.CreateTransaction(req.input())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Location", "/transactions/"+tx.ID)
	s.writeJSON(w, http.StatusCreated, tx)
}

func (s *Server) getTransaction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	tx, ok := s.ledger.Transaction(id)
	if !ok {
		s.writeError(w, r, fmt.Errorf("transaction %q: %w", id, ledger.ErrNotFound))
		return
	}
	s.writeJSON(w, http.StatusOK, tx)
}

func (s *Server) updateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	tx, err := s.ledger.UpdateTransaction(chi.URLParam(r, "id"), req.input())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, tx)
}

func (s *Server) deleteTransaction(w http.ResponseWriter, r *http.Request) {
	if err := s.ledger.DeleteTransaction(chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

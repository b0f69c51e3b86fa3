package api

import (
	"fmt"
	"net/http"

	"github.com/etnz/ledger"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

// accountRequest is the body of account creation and update.
type accountRequest struct {
	Name           string          `json:"name"`
	InitialBalance decimal.Decimal `json:"initialBalance"`
}

func (a accountRequest) input() ledger.AccountInput {
	return ledger.AccountInput{Name: a.Name, InitialBalance: a.InitialBalance}
}

// accountResponse is an account and its derived balance.
type accountResponse struct {
	ledger.Account
	Balance decimal.Decimal `json:"balance"`
}

func (s *Server) account(a ledger.Account) accountResponse {
	return accountResponse{Account: a, Balance: s.ledger.AccountBalance(a.ID)}
}

func (s *Server) listAccounts(w http.ResponseWriter, r *http.Request) {
	resp := []accountResponse{}
	for _, a := range s.ledger.Accounts() {
		resp = append(resp, s.account(a))
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) createAccount(w http.ResponseWriter, r *http.Request) {
	var req accountRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	a, err := s.ledger.CreateAccount(req.input())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Location", "/accounts/"+a.ID)
	s.writeJSON(w, http.StatusCreated, s.account(a))
}

func (s *Server) getAccount(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	a, ok := s.ledger.Account(id)
	if !ok {
		s.writeError(w, r, fmt.Errorf("account %q: %w", id, ledger.ErrNotFound))
		return
	}
	s.writeJSON(w, http.StatusOK, s.account(a))
}

func (s *Server) updateAccount(w http.ResponseWriter, r *http.Request) {
	var req accountRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	a, err := s.ledger.UpdateAccount(chi.URLParam(r, "id"), req.input())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, s.account(a))
}

func (s *Server) deleteAccount(w http.ResponseWriter, r *http.Request) {
	if err := s.ledger.DeleteAccount(chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

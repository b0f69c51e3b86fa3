// Package api exposes a ledger over HTTP, as JSON.
//
//	GET    /accounts                 active accounts with their balance
//	POST   /accounts                 create an account
//	GET    /accounts/{id}            one account with its balance
//	PUT    /accounts/{id}            update an account
//	DELETE /accounts/{id}            delete an account
//	GET    /transactions             active transactions, most recent first
//	POST   /transactions             record a transaction
//	GET    /transactions/{id}        one transaction
//	PUT    /transactions/{id}        update a transaction
//	DELETE /transactions/{id}        delete a transaction
//	GET    /categories               the category table
//	GET    /summary                  income, expense and net over a range
//	GET    /metrics                  Prometheus metrics
//
// Ledger errors map to status codes: not found is 404, invalid input is 400
// and a ledger not ready yet is 503.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/etnz/ledger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server serves a ledger.
type Server struct {
	ledger   *ledger.Ledger
	logger   *slog.Logger
	gatherer prometheus.Gatherer
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger of requests and failures, a discarding one by
// default.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// WithGatherer sets the metrics served on /metrics, the default Prometheus
// registry otherwise.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) { s.gatherer = g }
}

// NewHandler creates the HTTP handler serving l.
func NewHandler(l *ledger.Ledger, opts ...Option) http.Handler {
	s := &Server{
		ledger:   l,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		gatherer: prometheus.DefaultGatherer,
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/health", s.health)
	r.Route("/accounts", func(r chi.Router) {
		r.Get("/", s.listAccounts)
		r.Post("/", s.createAccount)
		r.Get("/{id}", s.getAccount)
		r.Put("/{id}", s.updateAccount)
		r.Delete("/{id}", s.deleteAccount)
	})
	r.Route("/transactions", func(r chi.Router) {
		r.Get("/", s.listTransactions)
		r.Post("/", s.createTransaction)
		r.Get("/{id}", s.getTransaction)
		r.Put("/{id}", s.updateTransaction)
		r.Delete("/{id}", s.deleteTransaction)
	})
	r.Get("/categories", s.listCategories)
	r.Get("/summary", s.summary)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request", "method", r.Method, "path", r.URL.Path, "status", ww.Status(), "elapsed", time.Since(start))
	})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	select {
	case <-s.ledger.Ready():
		s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	default:
		s.writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "hydrating"})
	}
}

// errorResponse is the body of every failed request.
type errorResponse struct {
	Error string `json:"error"`
}

// statusOf maps a ledger error to an HTTP status.
func statusOf(err error) int {
	switch {
	case errors.Is(err, ledger.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ledger.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ledger.ErrNotReady):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	} else {
		s.logger.Debug("request rejected", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	s.writeJSON(w, status, errorResponse{Error: err.Error()})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "error", err)
	}
}

// decode reads the JSON request body into v.
func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w: %w", ledger.ErrInvalidInput, err)
	}
	return nil
}

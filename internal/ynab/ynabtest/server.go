// Package ynabtest provides an in-process fake of the budgeting service for tests.
package ynabtest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/sbank-ynab/internal/ynab"
)

const (
	APIKey   = "test-api-key"
	BudgetID = "budget-1"
)

// Server serves the payee, transaction and bulk endpoints of a single budget.
// Submitted transactions are remembered, and import ids seen before are reported as duplicates.
type Server struct {
	*httptest.Server

	mu           sync.Mutex
	payees       []ynab.Payee
	transactions []ynab.Transaction
	status       map[string]int
	bulks        [][]ynab.SaveTransaction
	importIDs    map[string]struct{}
	requests     int
}

// Endpoint names accepted by FailWith.
const (
	EndpointPayees       = "payees"
	EndpointTransactions = "transactions"
	EndpointBulk         = "bulk"
)

func NewServer(t testing.TB) *Server {
	t.Helper()

	s := &Server{
		status:    make(map[string]int),
		importIDs: make(map[string]struct{}),
	}

	router := chi.NewRouter()
	router.Use(s.count, s.authorize)

	router.Route("/budgets/{budgetID}", func(r chi.Router) {
		r.Use(s.budget)
		r.Get("/payees", s.listPayees)
		r.Get("/transactions", s.listTransactions)
		r.Post("/transactions/bulk", s.bulkCreate)
	})

	s.Server = httptest.NewServer(router)
	t.Cleanup(s.Close)

	return s
}

// NewClient returns a client for the fake budget.
func (s *Server) NewClient() *ynab.Client {
	return ynab.NewClient(s.URL, APIKey, BudgetID, 0)
}

// SetHistory replaces the payee directory and transaction history.
func (s *Server) SetHistory(payees []ynab.Payee, txs []ynab.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.payees = payees
	s.transactions = txs
}

// FailWith makes the endpoint answer with status until reset with 0.
func (s *Server) FailWith(endpoint string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.status[endpoint] = status
}

// Bulks returns every accepted bulk submission in arrival order.
func (s *Server) Bulks() [][]ynab.SaveTransaction {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([][]ynab.SaveTransaction(nil), s.bulks...)
}

// Requests returns how many requests reached the server.
func (s *Server) Requests() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.requests
}

func (s *Server) count(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests++
		s.mu.Unlock()

		next.ServeHTTP(w, r)
	})
}

func (s *Server) authorize(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+APIKey {
			writeError(w, http.StatusUnauthorized, "401", "unauthorized")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) budget(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if chi.URLParam(r, "budgetID") != BudgetID {
			writeError(w, http.StatusNotFound, "404.2", "resource_not_found")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) failure(endpoint string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.status[endpoint]
}

func (s *Server) listPayees(w http.ResponseWriter, r *http.Request) {
	if status := s.failure(EndpointPayees); status != 0 {
		writeError(w, status, fmt.Sprint(status), "failure")
		return
	}

	var resp ynab.PayeesResponse

	s.mu.Lock()
	resp.Data.Payees = append([]ynab.Payee{}, s.payees...)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) listTransactions(w http.ResponseWriter, r *http.Request) {
	if status := s.failure(EndpointTransactions); status != 0 {
		writeError(w, status, fmt.Sprint(status), "failure")
		return
	}

	var resp ynab.TransactionsResponse

	s.mu.Lock()
	resp.Data.Transactions = append([]ynab.Transaction{}, s.transactions...)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) bulkCreate(w http.ResponseWriter, r *http.Request) {
	if status := s.failure(EndpointBulk); status != 0 {
		writeError(w, status, fmt.Sprint(status), "failure")
		return
	}

	var req ynab.BulkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "400", err.Error())
		return
	}

	var resp ynab.BulkResponse

	s.mu.Lock()
	s.bulks = append(s.bulks, req.Transactions)

	resp.Data.Bulk.TransactionIDs = []string{}
	resp.Data.Bulk.DuplicateImportIDs = []string{}

	for i, tx := range req.Transactions {
		if _, dup := s.importIDs[tx.ImportID]; dup {
			resp.Data.Bulk.DuplicateImportIDs = append(resp.Data.Bulk.DuplicateImportIDs, tx.ImportID)
			continue
		}

		s.importIDs[tx.ImportID] = struct{}{}
		resp.Data.Bulk.TransactionIDs = append(resp.Data.Bulk.TransactionIDs, fmt.Sprintf("tx-%d-%d", len(s.bulks), i))
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, id, name string) {
	body := map[string]map[string]string{
		"error": {"id": id, "name": name, "detail": name},
	}
	writeJSON(w, status, body)
}

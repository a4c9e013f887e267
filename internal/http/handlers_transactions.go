package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"fintrack/internal/core"
)

// transactionRequest is the JSON body for creating or updating a transaction.
type transactionRequest struct {
	Date        core.Date   `json:"date"`
	Description string      `json:"description"`
	AmountCents int64       `json:"amount_cents"`
	Category    string      `json:"category"`
	Kind        core.Kind   `json:"kind"`
	DueDate     core.Date   `json:"due_date"`
	Status      core.Status `json:"status"`
}

func (req transactionRequest) toDomain(id int64) core.Transaction {
	status := req.Status
	if status == "" {
		status = core.StatusPending
	}
	return core.Transaction{
		ID:          id,
		Date:        req.Date,
		Description: strings.TrimSpace(req.Description),
		Amount:      core.Money{Cents: req.AmountCents},
		Category:    strings.TrimSpace(req.Category),
		Kind:        req.Kind,
		DueDate:     req.DueDate,
		Status:      status,
	}
}

// handleTransactions serves GET (list with optional from/to range) and
// POST (create) on /api/transactions.
func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listTransactions(w, r)
	case http.MethodPost:
		s.createTransaction(w, r)
	default:
		methodNotAllowed(w, "GET, POST")
	}
}

func (s *Server) listTransactions(w http.ResponseWriter, r *http.Request) {
	var from, to core.Date
	if v := r.URL.Query().Get("from"); v != "" {
		d, err := core.ParseDate(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid 'from' date, want YYYY-MM-DD")
			return
		}
		from = d
	}
	if v := r.URL.Query().Get("to"); v != "" {
		d, err := core.ParseDate(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid 'to' date, want YYYY-MM-DD")
			return
		}
		to = d
	}

	transactions, err := s.store.ListTransactions(r.Context(), from, to)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	if transactions == nil {
		transactions = []core.Transaction{}
	}
	writeJSON(w, http.StatusOK, transactions)
}

func (s *Server) createTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Date.IsEmpty() {
		now := s.now()
		req.Date = core.NewDate(now.Year(), int(now.Month()), now.Day())
	}

	t := req.toDomain(0)
	if err := t.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	id, err := s.store.CreateTransaction(r.Context(), t)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	t.ID = id
	writeJSON(w, http.StatusCreated, t)
}

// handleTransactionByID serves GET, PUT and DELETE on /api/transactions/{id}
// and PUT on /api/transactions/{id}/status.
func (s *Server) handleTransactionByID(w http.ResponseWriter, r *http.Request) {
	id, tail, ok := pathID(r.URL.Path, "/api/transactions/")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid transaction id")
		return
	}

	if tail == "status" {
		if r.Method != http.MethodPut {
			methodNotAllowed(w, "PUT")
			return
		}
		s.updateTransactionStatus(w, r, id)
		return
	}
	if tail != "" {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		t, err := s.store.GetTransaction(r.Context(), id)
		if err != nil {
			writeStoreError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, t)
	case http.MethodPut:
		s.updateTransaction(w, r, id)
	case http.MethodDelete:
		if err := s.store.DeleteTransaction(r.Context(), id); err != nil {
			writeStoreError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		methodNotAllowed(w, "GET, PUT, DELETE")
	}
}

func (s *Server) updateTransaction(w http.ResponseWriter, r *http.Request, id int64) {
	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	t := req.toDomain(id)
	if err := t.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.store.UpdateTransaction(r.Context(), t); err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) updateTransactionStatus(w http.ResponseWriter, r *http.Request, id int64) {
	var req struct {
		Status core.Status `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := req.Status.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.store.UpdateTransactionStatus(r.Context(), id, req.Status); err != nil {
		writeStoreError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePendingTransactions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}
	transactions, err := s.store.ListPending(r.Context())
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	if transactions == nil {
		transactions = []core.Transaction{}
	}
	writeJSON(w, http.StatusOK, transactions)
}

func (s *Server) handleOverdueTransactions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}
	now := s.now()
	today := core.NewDate(now.Year(), int(now.Month()), now.Day())
	transactions, err := s.store.ListOverdue(r.Context(), today)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	if transactions == nil {
		transactions = []core.Transaction{}
	}
	writeJSON(w, http.StatusOK, transactions)
}

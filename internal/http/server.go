// Package http exposes the JSON API: transaction and category CRUD, the
// analytics queries and report-export enqueueing.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"fintrack/internal/amqp"
	"fintrack/internal/analytics"
	"fintrack/internal/core"
)

// Ports the server drives. The store and the engine satisfy these directly;
// tests substitute fakes.
type (
	Store interface {
		CreateTransaction(ctx context.Context, t core.Transaction) (int64, error)
		GetTransaction(ctx context.Context, id int64) (core.Transaction, error)
		UpdateTransaction(ctx context.Context, t core.Transaction) error
		UpdateTransactionStatus(ctx context.Context, id int64, status core.Status) error
		DeleteTransaction(ctx context.Context, id int64) error
		ListTransactions(ctx context.Context, from, to core.Date) ([]core.Transaction, error)
		ListPending(ctx context.Context) ([]core.Transaction, error)
		ListOverdue(ctx context.Context, today core.Date) ([]core.Transaction, error)

		CreateCategory(ctx context.Context, c core.Category) (int64, error)
		GetCategory(ctx context.Context, id int64) (core.Category, error)
		ListCategories(ctx context.Context, kind core.Kind) ([]core.Category, error)
		UpdateCategory(ctx context.Context, c core.Category) error
		DeleteCategory(ctx context.Context, id int64) error
	}

	Analytics interface {
		MonthlyTrends(ctx context.Context, months int) ([]analytics.TrendPoint, error)
		CategoryInsights(ctx context.Context, year, month int) (*analytics.MonthInsights, error)
		AnnualProjection(ctx context.Context) (map[string]analytics.CategoryProjection, error)
		DetectAnomalies(ctx context.Context, threshold float64) ([]analytics.Anomaly, error)
		FinancialScore(ctx context.Context) (analytics.Score, error)
	}

	// ExportPublisher enqueues report export jobs. Nil disables exports.
	ExportPublisher interface {
		PublishExportJob(ctx context.Context, msg *amqp.ExportJobMessage) error
	}
)

// Defaults are the configured fallbacks for optional analytics query
// parameters. Zero fields fall back to the package constants.
type Defaults struct {
	TrendMonths      int
	AnomalyThreshold float64
}

type Server struct {
	http.Server
	store     Store
	analytics Analytics
	exports   ExportPublisher
	defaults  Defaults
	now       func() time.Time
}

// NewServer configures routes, returning a ready-to-run http.Server.
func NewServer(addr string, store Store, engine Analytics, exports ExportPublisher, defaults Defaults) *Server {
	if defaults.TrendMonths <= 0 {
		defaults.TrendMonths = analytics.DefaultTrendMonths
	}
	if defaults.AnomalyThreshold <= 0 {
		defaults.AnomalyThreshold = analytics.DefaultAnomalyThreshold
	}

	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		store:     store,
		analytics: engine,
		exports:   exports,
		defaults:  defaults,
		now:       time.Now,
	}

	mux.HandleFunc("/health", s.handleHealth)

	mux.HandleFunc("/api/transactions", s.handleTransactions)
	mux.HandleFunc("/api/transactions/pending", s.handlePendingTransactions)
	mux.HandleFunc("/api/transactions/overdue", s.handleOverdueTransactions)
	mux.HandleFunc("/api/transactions/", s.handleTransactionByID)

	mux.HandleFunc("/api/categories", s.handleCategories)
	mux.HandleFunc("/api/categories/", s.handleCategoryByID)

	mux.HandleFunc("/api/analytics/trends", s.handleTrends)
	mux.HandleFunc("/api/analytics/insights", s.handleInsights)
	mux.HandleFunc("/api/analytics/projection", s.handleProjection)
	mux.HandleFunc("/api/analytics/anomalies", s.handleAnomalies)
	mux.HandleFunc("/api/analytics/score", s.handleScore)

	mux.HandleFunc("/api/reports/export", s.handleExportReport)

	return s
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeStoreError maps domain sentinel errors onto HTTP statuses.
func writeStoreError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, core.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, core.ErrCategoryInUse):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, core.ErrInvalidDate),
		errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrInvalidKind),
		errors.Is(err, core.ErrInvalidStatus),
		errors.Is(err, core.ErrEmptyDescription),
		errors.Is(err, core.ErrEmptyCategory):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		slog.ErrorContext(r.Context(), "Store operation failed",
			"path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func methodNotAllowed(w http.ResponseWriter, allowed string) {
	w.Header().Set("Allow", allowed)
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}

// Package analytics derives trends, insights, projections, anomalies and a
// financial health score from raw transaction data. Every operation is a
// synchronous pass over the store's data with no side effects; insufficient
// data is reported as an explicit empty result, never as an error.
package analytics

import (
	"context"
	"time"

	"fintrack/internal/core"
)

// Store is the read-only slice of the transaction store the engine needs.
type Store interface {
	// ListTransactions returns transactions in the inclusive date range,
	// either bound open when zero, ordered by date descending.
	ListTransactions(ctx context.Context, from, to core.Date) ([]core.Transaction, error)

	// MonthlySummary returns the per-category, per-kind sum and count for
	// a calendar month.
	MonthlySummary(ctx context.Context, year, month int) ([]core.CategorySummary, error)
}

type Engine struct {
	store Store
	now   func() time.Time
}

func NewEngine(store Store) *Engine {
	return &Engine{store: store, now: time.Now}
}

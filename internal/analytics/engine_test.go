package analytics

import (
	"context"
	"time"

	"fintrack/internal/core"
)

// fakeStore serves canned data; range filtering is the real store's job, so
// the fake returns everything and tests control the window via dates.
type fakeStore struct {
	transactions []core.Transaction
	summaries    map[int][]core.CategorySummary // keyed by month
}

func (f *fakeStore) ListTransactions(ctx context.Context, from, to core.Date) ([]core.Transaction, error) {
	return f.transactions, nil
}

func (f *fakeStore) MonthlySummary(ctx context.Context, year, month int) ([]core.CategorySummary, error) {
	return f.summaries[month], nil
}

func newTestEngine(store Store, now time.Time) *Engine {
	return &Engine{store: store, now: func() time.Time { return now }}
}

func tx(id int64, year, month, day int, category string, kind core.Kind, cents int64) core.Transaction {
	return core.Transaction{
		ID:          id,
		Date:        core.NewDate(year, month, day),
		Description: "test",
		Amount:      core.Money{Cents: cents},
		Category:    category,
		Kind:        kind,
		Status:      core.StatusPaid,
	}
}

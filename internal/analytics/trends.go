package analytics

import (
	"context"
	"fmt"
	"sort"

	"fintrack/internal/core"
)

// DefaultTrendMonths is the trailing window for monthly trends.
const DefaultTrendMonths = 12

// TrendPoint is one (month, kind) bucket of the monthly trend series.
type TrendPoint struct {
	YearMonth string     `json:"year_month"` // YYYY-MM
	Kind      core.Kind  `json:"kind"`
	Total     core.Money `json:"total"`
}

// MonthlyTrends sums transactions of the trailing months window by
// (year-month, kind), ordered by year-month ascending. An empty window
// yields an empty slice.
func (e *Engine) MonthlyTrends(ctx context.Context, months int) ([]TrendPoint, error) {
	if months <= 0 {
		months = DefaultTrendMonths
	}

	end := e.now()
	start := end.AddDate(0, -months, 0)

	transactions, err := e.store.ListTransactions(ctx,
		core.NewDate(start.Year(), int(start.Month()), start.Day()),
		core.NewDate(end.Year(), int(end.Month()), end.Day()))
	if err != nil {
		return nil, fmt.Errorf("list transactions for trends: %w", err)
	}

	type bucket struct {
		yearMonth string
		kind      core.Kind
	}
	totals := make(map[bucket]int64)
	for _, t := range transactions {
		b := bucket{yearMonth: t.Date.Format("2006-01"), kind: t.Kind}
		totals[b] += t.Amount.Cents
	}

	points := make([]TrendPoint, 0, len(totals))
	for b, cents := range totals {
		points = append(points, TrendPoint{
			YearMonth: b.yearMonth,
			Kind:      b.kind,
			Total:     core.Money{Cents: cents},
		})
	}
	sort.Slice(points, func(i, j int) bool {
		if points[i].YearMonth != points[j].YearMonth {
			return points[i].YearMonth < points[j].YearMonth
		}
		return points[i].Kind < points[j].Kind
	})

	return points, nil
}

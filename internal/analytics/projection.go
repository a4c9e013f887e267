package analytics

import (
	"context"
	"fmt"

	"fintrack/internal/core"
)

const (
	TrendIncreasing = "increasing"
	TrendDecreasing = "decreasing"

	// minProjectionTransactions is the overall floor below which no
	// projection is attempted at all.
	minProjectionTransactions = 3
	// minProjectionMonths is the per-category floor of distinct months.
	minProjectionMonths = 3
)

// CategoryProjection is a least-squares projection of one category over a
// calendar year.
type CategoryProjection struct {
	// MonthlyPredictions holds the fitted value for months 1-12, each
	// clamped to be non-negative, in currency units.
	MonthlyPredictions []float64 `json:"monthly_predictions"`
	AnnualTotal        float64   `json:"annual_total"`
	AverageMonthly     float64   `json:"average_monthly"`
	// Trend is "increasing" when the fitted slope is positive, otherwise
	// "decreasing". A slope of exactly zero classifies as decreasing.
	Trend string `json:"trend"`
	// Confidence is the fraction of the year with historical data, a
	// coverage proxy, not a statistical confidence level.
	Confidence float64 `json:"confidence"`
}

// AnnualProjection fits a per-category regression line over the trailing
// 365 days of history. Fewer than 3 transactions overall, or fewer than 3
// distinct months for a category, yield no projection: the returned map is
// empty or lacks that category. This is a valid outcome, not an error.
func (e *Engine) AnnualProjection(ctx context.Context) (map[string]CategoryProjection, error) {
	end := e.now()
	start := end.AddDate(0, 0, -365)

	transactions, err := e.store.ListTransactions(ctx,
		core.NewDate(start.Year(), int(start.Month()), start.Day()),
		core.NewDate(end.Year(), int(end.Month()), end.Day()))
	if err != nil {
		return nil, fmt.Errorf("list transactions for projection: %w", err)
	}

	projections := make(map[string]CategoryProjection)
	if len(transactions) < minProjectionTransactions {
		return projections, nil
	}

	// Per-category sums keyed by calendar month-of-year (1-12).
	monthly := make(map[string]map[int]float64)
	for _, t := range transactions {
		byMonth, ok := monthly[t.Category]
		if !ok {
			byMonth = make(map[int]float64)
			monthly[t.Category] = byMonth
		}
		byMonth[t.Date.Month()] += t.Amount.Units()
	}

	for category, byMonth := range monthly {
		if len(byMonth) < minProjectionMonths {
			continue
		}

		var xs, ys []float64
		for month, total := range byMonth {
			xs = append(xs, float64(month))
			ys = append(ys, total)
		}
		slope, intercept := fitLine(xs, ys)

		predictions := make([]float64, 12)
		var total float64
		for m := 1; m <= 12; m++ {
			p := intercept + slope*float64(m)
			if p < 0 {
				p = 0
			}
			predictions[m-1] = p
			total += p
		}

		trend := TrendDecreasing
		if slope > 0 {
			trend = TrendIncreasing
		}

		confidence := float64(len(byMonth)) / 12
		if confidence > 1 {
			confidence = 1
		}

		projections[category] = CategoryProjection{
			MonthlyPredictions: predictions,
			AnnualTotal:        total,
			AverageMonthly:     total / 12,
			Trend:              trend,
			Confidence:         confidence,
		}
	}

	return projections, nil
}

// fitLine computes the ordinary-least-squares line y = intercept + slope*x
// in closed form: slope = cov(x,y) / var(x).
func fitLine(xs, ys []float64) (slope, intercept float64) {
	n := float64(len(xs))
	var meanX, meanY float64
	for i := range xs {
		meanX += xs[i]
		meanY += ys[i]
	}
	meanX /= n
	meanY /= n

	var cov, varX float64
	for i := range xs {
		dx := xs[i] - meanX
		cov += dx * (ys[i] - meanY)
		varX += dx * dx
	}
	if varX == 0 {
		return 0, meanY
	}
	slope = cov / varX
	intercept = meanY - slope*meanX
	return slope, intercept
}

// Package reports assembles monthly reports from store data and analytics
// output and hands them to an outbound writer (spreadsheet or local file).
package reports

import (
	"context"
	"fmt"
	"sort"
	"time"

	"fintrack/internal/analytics"
	"fintrack/internal/core"

	"github.com/shopspring/decimal"
)

// Ports for outbound report destinations and inbound data.
type (
	// Writer renders a report somewhere and returns a reference to the
	// destination (sheet name, file path).
	Writer interface {
		WriteMonthly(ctx context.Context, report *MonthlyReport) (ref string, err error)
		WriteProjection(ctx context.Context, report *ProjectionReport) (ref string, err error)
	}

	Store interface {
		ListTransactions(ctx context.Context, from, to core.Date) ([]core.Transaction, error)
		MonthlySummary(ctx context.Context, year, month int) ([]core.CategorySummary, error)
	}

	InsightSource interface {
		CategoryInsights(ctx context.Context, year, month int) (*analytics.MonthInsights, error)
		AnnualProjection(ctx context.Context) (map[string]analytics.CategoryProjection, error)
	}
)

// MonthlyReport carries everything a writer needs for one month: headline
// metrics, the raw transactions and the per-category breakdown.
type MonthlyReport struct {
	Year  int
	Month int

	// Insights is nil when the month has no data; writers still render
	// the header so an empty month produces an empty report, not an error.
	Insights     *analytics.MonthInsights
	Transactions []core.Transaction
	Breakdown    []core.CategorySummary
}

type Builder struct {
	store    Store
	insights InsightSource
}

func NewBuilder(store Store, insights InsightSource) *Builder {
	return &Builder{store: store, insights: insights}
}

// BuildMonthly gathers the month's insights, transactions and category
// breakdown.
func (b *Builder) BuildMonthly(ctx context.Context, year, month int) (*MonthlyReport, error) {
	insights, err := b.insights.CategoryInsights(ctx, year, month)
	if err != nil {
		return nil, fmt.Errorf("month insights: %w", err)
	}

	first := core.NewDate(year, month, 1)
	last := core.Date{Time: first.AddDate(0, 1, -1)}
	transactions, err := b.store.ListTransactions(ctx, first, last)
	if err != nil {
		return nil, fmt.Errorf("month transactions: %w", err)
	}

	breakdown, err := b.store.MonthlySummary(ctx, year, month)
	if err != nil {
		return nil, fmt.Errorf("month breakdown: %w", err)
	}

	return &MonthlyReport{
		Year:         year,
		Month:        month,
		Insights:     insights,
		Transactions: transactions,
		Breakdown:    breakdown,
	}, nil
}

// ProjectionReport carries the per-category annual projections, one row per
// category.
type ProjectionReport struct {
	// Projections is empty when there is not enough history; writers still
	// render the header.
	Projections map[string]analytics.CategoryProjection
}

// BuildProjection gathers the engine's annual projections.
func (b *Builder) BuildProjection(ctx context.Context) (*ProjectionReport, error) {
	projections, err := b.insights.AnnualProjection(ctx)
	if err != nil {
		return nil, fmt.Errorf("annual projection: %w", err)
	}
	return &ProjectionReport{Projections: projections}, nil
}

// Title is the projection report heading.
func (r *ProjectionReport) Title() string {
	return "Annual Projection Report"
}

// SheetName names the projection report's destination tab or file stem.
func (r *ProjectionReport) SheetName() string {
	return "Annual Projection"
}

// Rows renders one row per category, alphabetical, with the headline figures
// followed by the twelve monthly predictions.
func (r *ProjectionReport) Rows() [][]any {
	header := []any{"Category", "Annual Total", "Average Monthly", "Trend", "Confidence"}
	for m := time.January; m <= time.December; m++ {
		header = append(header, m.String()[:3])
	}
	rows := [][]any{header}

	categories := make([]string, 0, len(r.Projections))
	for category := range r.Projections {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	for _, category := range categories {
		p := r.Projections[category]
		row := []any{
			category,
			FormatUnits(p.AnnualTotal),
			FormatUnits(p.AverageMonthly),
			p.Trend,
			FormatRate(p.Confidence * 100),
		}
		for _, prediction := range p.MonthlyPredictions {
			row = append(row, FormatUnits(prediction))
		}
		rows = append(rows, row)
	}
	return rows
}

// Title is the report heading, e.g. "Financial Report - 08/2025".
func (r *MonthlyReport) Title() string {
	return fmt.Sprintf("Financial Report - %02d/%04d", r.Month, r.Year)
}

// SummaryRows renders the headline metrics section.
func (r *MonthlyReport) SummaryRows() [][]any {
	rows := [][]any{{r.Title()}, nil, {"Key Metrics"}}
	if r.Insights == nil {
		rows = append(rows, []any{"No data for this month"})
		return rows
	}
	rows = append(rows,
		[]any{"Total Income", FormatAmount(r.Insights.TotalIncome)},
		[]any{"Total Expenses", FormatAmount(r.Insights.TotalExpenses)},
		[]any{"Balance", FormatAmount(r.Insights.Balance)},
		[]any{"Savings Rate", FormatRate(r.Insights.SavingsRate)},
	)
	return rows
}

// TransactionRows renders the transaction listing section.
func (r *MonthlyReport) TransactionRows() [][]any {
	rows := [][]any{{"Date", "Description", "Category", "Amount", "Kind", "Status"}}
	for _, t := range r.Transactions {
		rows = append(rows, []any{
			t.Date.String(), t.Description, t.Category,
			FormatAmount(t.Amount), string(t.Kind), string(t.Status),
		})
	}
	return rows
}

// BreakdownRows renders the per-category section.
func (r *MonthlyReport) BreakdownRows() [][]any {
	rows := [][]any{{"Category", "Kind", "Total", "Count"}}
	for _, s := range r.Breakdown {
		rows = append(rows, []any{
			s.Category, string(s.Kind), FormatAmount(s.Total), s.Count,
		})
	}
	return rows
}

// SheetName names the report's destination tab or file stem, e.g. "2025-08".
func (r *MonthlyReport) SheetName() string {
	return fmt.Sprintf("%04d-%02d", r.Year, r.Month)
}

// FormatAmount renders cents as an exact two-decimal currency string.
func FormatAmount(m core.Money) string {
	return decimal.NewFromInt(m.Cents).Div(decimal.NewFromInt(100)).StringFixed(2)
}

// FormatUnits renders a floating-point currency amount with two decimals.
func FormatUnits(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

// FormatRate renders a percentage with one decimal, e.g. "46.7%".
func FormatRate(rate float64) string {
	return decimal.NewFromFloat(rate).StringFixed(1) + "%"
}

// GeneratedAt stamps report metadata rows.
func GeneratedAt(now time.Time) string {
	return now.UTC().Format("2006-01-02 15:04:05 UTC")
}

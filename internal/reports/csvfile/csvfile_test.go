package csvfile

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"fintrack/internal/analytics"
	"fintrack/internal/core"
	"fintrack/internal/reports"
)

func TestWriteMonthly(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(dir)
	if err != nil {
		t.Fatalf("NewWriter() error = %v", err)
	}

	report := &reports.MonthlyReport{
		Year: 2025, Month: 8,
		Insights: &analytics.MonthInsights{
			TotalIncome:   core.Money{Cents: 300000},
			TotalExpenses: core.Money{Cents: 160000},
			Balance:       core.Money{Cents: 140000},
			SavingsRate:   46.7,
		},
		Transactions: []core.Transaction{
			{
				Date: core.NewDate(2025, 8, 15), Description: "Groceries",
				Category: "Food", Amount: core.Money{Cents: 4250},
				Kind: core.Expense, Status: core.StatusPaid,
			},
		},
		Breakdown: []core.CategorySummary{
			{Category: "Food", Kind: core.Expense, Total: core.Money{Cents: 4250}, Count: 1},
		},
	}

	path, err := w.WriteMonthly(context.Background(), report)
	if err != nil {
		t.Fatalf("WriteMonthly() error = %v", err)
	}
	if filepath.Base(path) != "report_2025-08.csv" {
		t.Errorf("path = %q, want report_2025-08.csv", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	content := string(data)

	for _, want := range []string{
		"Financial Report - 08/2025",
		"Total Income,3000.00",
		"2025-08-15,Groceries,Food,42.50,expense,paid",
		"Food,expense,42.50,1",
		"Generated,",
	} {
		if !strings.Contains(content, want) {
			t.Errorf("output missing %q\n%s", want, content)
		}
	}
}

func TestWriteProjection(t *testing.T) {
	w, err := NewWriter(t.TempDir())
	if err != nil {
		t.Fatalf("NewWriter() error = %v", err)
	}

	report := &reports.ProjectionReport{
		Projections: map[string]analytics.CategoryProjection{
			"Groceries": {
				MonthlyPredictions: []float64{100, 110, 120, 130, 140, 150, 160, 170, 180, 190, 200, 210},
				AnnualTotal:        1860,
				AverageMonthly:     155,
				Trend:              analytics.TrendIncreasing,
				Confidence:         1.0 / 3.0,
			},
		},
	}

	path, err := w.WriteProjection(context.Background(), report)
	if err != nil {
		t.Fatalf("WriteProjection() error = %v", err)
	}
	if filepath.Base(path) != "annual_projection.csv" {
		t.Errorf("path = %q, want annual_projection.csv", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	content := string(data)

	for _, want := range []string{
		"Annual Projection Report",
		"Category,Annual Total,Average Monthly,Trend,Confidence,Jan",
		"Groceries,1860.00,155.00,increasing,33.3%,100.00",
		"Generated,",
	} {
		if !strings.Contains(content, want) {
			t.Errorf("output missing %q\n%s", want, content)
		}
	}
}

func TestWriteMonthly_EmptyMonth(t *testing.T) {
	w, err := NewWriter(t.TempDir())
	if err != nil {
		t.Fatalf("NewWriter() error = %v", err)
	}

	path, err := w.WriteMonthly(context.Background(), &reports.MonthlyReport{Year: 2025, Month: 1})
	if err != nil {
		t.Fatalf("WriteMonthly() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !strings.Contains(string(data), "No data for this month") {
		t.Errorf("output missing no-data marker:\n%s", data)
	}
}

// Package csvfile writes monthly reports to local CSV files. It is the
// fallback destination when no spreadsheet credentials are configured.
package csvfile

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"fintrack/internal/reports"
)

type Writer struct {
	dir string
}

var _ reports.Writer = (*Writer)(nil)

func NewWriter(dir string) (*Writer, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create report directory: %w", err)
	}
	return &Writer{dir: dir}, nil
}

// WriteMonthly writes the three report sections to a single CSV file,
// sections separated by a blank row. Returns the file path.
func (w *Writer) WriteMonthly(ctx context.Context, report *reports.MonthlyReport) (string, error) {
	path := filepath.Join(w.dir, "report_"+report.SheetName()+".csv")

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create report file: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	sections := [][][]any{
		report.SummaryRows(),
		report.TransactionRows(),
		report.BreakdownRows(),
	}
	for i, section := range sections {
		if i > 0 {
			if err := cw.Write([]string{""}); err != nil {
				return "", fmt.Errorf("write separator: %w", err)
			}
		}
		for _, row := range section {
			if err := cw.Write(stringify(row)); err != nil {
				return "", fmt.Errorf("write row: %w", err)
			}
		}
	}
	if err := cw.Write([]string{"Generated", reports.GeneratedAt(time.Now())}); err != nil {
		return "", fmt.Errorf("write footer: %w", err)
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return "", fmt.Errorf("flush csv: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close report file: %w", err)
	}

	slog.InfoContext(ctx, "Monthly report written to CSV",
		"path", path,
		"year", report.Year,
		"month", report.Month,
		"transactions", len(report.Transactions))

	return path, nil
}

// WriteProjection writes the annual projection table to a CSV file. Returns
// the file path.
func (w *Writer) WriteProjection(ctx context.Context, report *reports.ProjectionReport) (string, error) {
	path := filepath.Join(w.dir, "annual_projection.csv")

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create projection file: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.Write([]string{report.Title()}); err != nil {
		return "", fmt.Errorf("write title: %w", err)
	}
	for _, row := range report.Rows() {
		if err := cw.Write(stringify(row)); err != nil {
			return "", fmt.Errorf("write row: %w", err)
		}
	}
	if err := cw.Write([]string{"Generated", reports.GeneratedAt(time.Now())}); err != nil {
		return "", fmt.Errorf("write footer: %w", err)
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return "", fmt.Errorf("flush csv: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close projection file: %w", err)
	}

	slog.InfoContext(ctx, "Projection report written to CSV",
		"path", path,
		"categories", len(report.Projections))

	return path, nil
}

func stringify(row []any) []string {
	if row == nil {
		return []string{""}
	}
	out := make([]string, len(row))
	for i, v := range row {
		out[i] = fmt.Sprint(v)
	}
	return out
}

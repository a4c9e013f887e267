// Package google writes monthly reports to a Google Sheets spreadsheet,
// one tab per month.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"fintrack/internal/reports"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

type Writer struct {
	svc           *gsheet.Service
	spreadsheetID string
}

var _ reports.Writer = (*Writer)(nil)

// NewFromEnv creates a Sheets report writer from environment variables.
// Required: GOOGLE_SPREADSHEET_ID.
// Credentials: GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or
// GOOGLE_APPLICATION_CREDENTIALS.
func NewFromEnv(ctx context.Context) (*Writer, error) {
	spreadsheetID := strings.TrimSpace(os.Getenv("GOOGLE_SPREADSHEET_ID"))
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Writer{svc: svc, spreadsheetID: spreadsheetID}, nil
}

func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	var err error
	switch {
	case serviceAccountJSON != "":
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		credentialsJSON, err = os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}

// WriteMonthly ensures a tab named after the report month exists, clears it
// and writes the three report sections. Returns the tab name.
func (w *Writer) WriteMonthly(ctx context.Context, report *reports.MonthlyReport) (string, error) {
	if w.svc == nil {
		return "", errors.New("sheets service not initialized")
	}

	sheetName := report.SheetName()
	if err := w.ensureSheet(ctx, sheetName); err != nil {
		return "", fmt.Errorf("ensure sheet %q: %w", sheetName, err)
	}

	clearRange := fmt.Sprintf("%s!A:F", sheetName)
	if _, err := w.svc.Spreadsheets.Values.Clear(w.spreadsheetID, clearRange, &gsheet.ClearValuesRequest{}).
		Context(ctx).Do(); err != nil {
		return "", fmt.Errorf("clear sheet: %w", err)
	}

	var values [][]any
	for i, section := range [][][]any{
		report.SummaryRows(),
		report.TransactionRows(),
		report.BreakdownRows(),
	} {
		if i > 0 {
			values = append(values, nil)
		}
		values = append(values, section...)
	}

	vr := &gsheet.ValueRange{Values: values}
	if _, err := w.svc.Spreadsheets.Values.Update(w.spreadsheetID, sheetName+"!A1", vr).
		ValueInputOption("RAW").Context(ctx).Do(); err != nil {
		return "", fmt.Errorf("write report values: %w", err)
	}

	slog.InfoContext(ctx, "Monthly report written to Google Sheets",
		"spreadsheet_id", w.spreadsheetID,
		"sheet", sheetName,
		"rows", len(values))

	return sheetName, nil
}

// WriteProjection ensures the projection tab exists, clears it and writes the
// per-category projection table. Returns the tab name.
func (w *Writer) WriteProjection(ctx context.Context, report *reports.ProjectionReport) (string, error) {
	if w.svc == nil {
		return "", errors.New("sheets service not initialized")
	}

	sheetName := report.SheetName()
	if err := w.ensureSheet(ctx, sheetName); err != nil {
		return "", fmt.Errorf("ensure sheet %q: %w", sheetName, err)
	}

	// 5 headline columns plus 12 months.
	clearRange := fmt.Sprintf("%s!A:Q", sheetName)
	if _, err := w.svc.Spreadsheets.Values.Clear(w.spreadsheetID, clearRange, &gsheet.ClearValuesRequest{}).
		Context(ctx).Do(); err != nil {
		return "", fmt.Errorf("clear sheet: %w", err)
	}

	values := [][]any{{report.Title()}, nil}
	values = append(values, report.Rows()...)

	vr := &gsheet.ValueRange{Values: values}
	if _, err := w.svc.Spreadsheets.Values.Update(w.spreadsheetID, sheetName+"!A1", vr).
		ValueInputOption("RAW").Context(ctx).Do(); err != nil {
		return "", fmt.Errorf("write projection values: %w", err)
	}

	slog.InfoContext(ctx, "Projection report written to Google Sheets",
		"spreadsheet_id", w.spreadsheetID,
		"sheet", sheetName,
		"categories", len(report.Projections))

	return sheetName, nil
}

// ensureSheet adds the tab if it does not exist yet.
func (w *Writer) ensureSheet(ctx context.Context, name string) error {
	spreadsheet, err := w.svc.Spreadsheets.Get(w.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("get spreadsheet: %w", err)
	}
	for _, sheet := range spreadsheet.Sheets {
		if sheet.Properties != nil && sheet.Properties.Title == name {
			return nil
		}
	}

	req := &gsheet.BatchUpdateSpreadsheetRequest{
		Requests: []*gsheet.Request{{
			AddSheet: &gsheet.AddSheetRequest{
				Properties: &gsheet.SheetProperties{Title: name},
			},
		}},
	}
	if _, err := w.svc.Spreadsheets.BatchUpdate(w.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("add sheet: %w", err)
	}

	slog.InfoContext(ctx, "Created report sheet", "sheet", name)
	return nil
}

package worker

import (
	"context"
	"fmt"
	"log/slog"

	"fintrack/internal/amqp"
	"fintrack/internal/reports"
)

// ExportWorker renders monthly reports in response to export job messages.
type ExportWorker struct {
	builder *reports.Builder
	writer  reports.Writer
}

func NewExportWorker(builder *reports.Builder, writer reports.Writer) *ExportWorker {
	return &ExportWorker{builder: builder, writer: writer}
}

// HandleExportJob processes a single export job: build the requested report
// and hand it to the configured writer. Malformed jobs can never succeed, so
// they are logged and dropped rather than requeued.
func (w *ExportWorker) HandleExportJob(ctx context.Context, msg *amqp.ExportJobMessage) error {
	slog.InfoContext(ctx, "Processing export job",
		"job_id", msg.JobID,
		"type", msg.Type,
		"year", msg.Year,
		"month", msg.Month)

	switch msg.Type {
	case amqp.ReportProjection:
		return w.exportProjection(ctx, msg)
	case amqp.ReportMonthly, "":
		// Messages published before the type field existed are monthly.
		return w.exportMonthly(ctx, msg)
	default:
		slog.WarnContext(ctx, "Dropping export job with unknown type",
			"job_id", msg.JobID, "type", msg.Type)
		return nil
	}
}

func (w *ExportWorker) exportMonthly(ctx context.Context, msg *amqp.ExportJobMessage) error {
	if msg.Month < 1 || msg.Month > 12 || msg.Year < 1 {
		slog.WarnContext(ctx, "Dropping export job with invalid month",
			"job_id", msg.JobID, "year", msg.Year, "month", msg.Month)
		return nil
	}

	report, err := w.builder.BuildMonthly(ctx, msg.Year, msg.Month)
	if err != nil {
		return fmt.Errorf("build monthly report: %w", err)
	}

	ref, err := w.writer.WriteMonthly(ctx, report)
	if err != nil {
		return fmt.Errorf("write monthly report: %w", err)
	}

	slog.InfoContext(ctx, "Export job finished",
		"job_id", msg.JobID,
		"destination", ref)

	return nil
}

func (w *ExportWorker) exportProjection(ctx context.Context, msg *amqp.ExportJobMessage) error {
	report, err := w.builder.BuildProjection(ctx)
	if err != nil {
		return fmt.Errorf("build projection report: %w", err)
	}

	ref, err := w.writer.WriteProjection(ctx, report)
	if err != nil {
		return fmt.Errorf("write projection report: %w", err)
	}

	slog.InfoContext(ctx, "Export job finished",
		"job_id", msg.JobID,
		"destination", ref)

	return nil
}

package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"fintrack/internal/amqp"
	"fintrack/internal/analytics"
	"fintrack/internal/config"
	"fintrack/internal/reports"
	"fintrack/internal/reports/csvfile"
	"fintrack/internal/reports/google"
	"fintrack/internal/storage"
	"fintrack/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	engine := analytics.NewEngine(repo)
	builder := reports.NewBuilder(repo, engine)

	writer, err := newReportWriter(ctx, cfg)
	if err != nil {
		logger.Error("Failed to initialize report writer", "error", err, "backend", cfg.ReportBackend)
		os.Exit(1)
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to connect to AMQP", "error", err, "url", cfg.AMQPURL)
		os.Exit(1)
	}
	defer amqpClient.Close()

	exportWorker := worker.NewExportWorker(builder, writer)

	logger.Info("Starting fintrack export worker",
		"backend", cfg.ReportBackend,
		"queue", cfg.AMQPQueue)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return amqpClient.ConsumeExportJobs(ctx, func(msg *amqp.ExportJobMessage) error {
			return exportWorker.HandleExportJob(ctx, msg)
		})
	})

	if err := g.Wait(); err != nil && err != context.Canceled {
		logger.Error("Worker stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("Worker stopped gracefully")
}

func newReportWriter(ctx context.Context, cfg *config.Config) (reports.Writer, error) {
	if cfg.ReportBackend == "sheets" {
		return google.NewFromEnv(ctx)
	}
	return csvfile.NewWriter(cfg.ReportCSVDir)
}

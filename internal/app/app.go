package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/AbigailEBurns/EarningsDateUpdater/internal/config"
	"github.com/AbigailEBurns/EarningsDateUpdater/internal/earnings"
	apperrors "github.com/AbigailEBurns/EarningsDateUpdater/internal/errors"
	"github.com/AbigailEBurns/EarningsDateUpdater/internal/infrastructure"
	handlers "github.com/AbigailEBurns/EarningsDateUpdater/internal/transport/http"
	"github.com/AbigailEBurns/EarningsDateUpdater/internal/workbook"
)

// shutdownTimeout bounds telemetry flushing and status server shutdown
const shutdownTimeout = 5 * time.Second

// Application represents one configured sweep
type Application struct {
	Config    *config.Config
	Logger    *slog.Logger
	Retriever earnings.Retriever
	Providers *infrastructure.Providers
	Metrics   *infrastructure.RunMetrics
	RunID     string
}

// New prepares telemetry for a run that fetches pages with retriever
func New(cfg *config.Config, retriever earnings.Retriever, logger *slog.Logger) (*Application, error) {
	if logger == nil {
		logger = slog.Default()
	}

	providers, err := infrastructure.InitializeTelemetry(cfg.Telemetry, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize telemetry: %w", err)
	}

	metrics, err := infrastructure.NewRunMetrics(providers.Meter)
	if err != nil {
		_ = providers.Shutdown(context.Background())
		return nil, fmt.Errorf("failed to create metrics: %w", err)
	}

	return &Application{
		Config:    cfg,
		Logger:    logger,
		Retriever: retriever,
		Providers: providers,
		Metrics:   metrics,
		RunID:     infrastructure.NewRunID(),
	}, nil
}

// Run performs the sweep and saves the output workbook. Only configuration,
// workbook open and workbook save failures are returned.
func (a *Application) Run(ctx context.Context) (workbook.Summary, error) {
	ctx = infrastructure.WithRunID(ctx, a.RunID)
	cfg := a.Config

	pairs, err := cfg.Workbook.Pairs()
	if err != nil {
		return workbook.Summary{}, apperrors.NewConfigError("invalid workbook columns", err)
	}

	a.Logger.InfoContext(ctx, "Run started",
		slog.String("input", cfg.Workbook.InputPath),
		slog.String("output", cfg.Workbook.OutputPath),
		slog.Int("workers", cfg.Scraper.Workers),
		slog.Int("window_days", cfg.Scraper.WindowDays))

	wb, err := workbook.Open(cfg.Workbook.InputPath, cfg.Workbook.Sheet)
	if err != nil {
		return workbook.Summary{}, err
	}
	defer wb.Close()

	pipeline := earnings.NewPipeline(
		a.Retriever,
		earnings.NewSelector(earnings.WithWindowDays(cfg.Scraper.WindowDays)),
		earnings.WithLogger(infrastructure.WithComponent(a.Logger, "pipeline")),
		earnings.WithTracer(a.Providers.Tracer),
		earnings.WithRecorder(a.Metrics),
	)

	sweeper := workbook.NewSweeper(pipeline, workbook.SweepOptions{
		StartRow:    cfg.Workbook.StartRow,
		EndRow:      cfg.Workbook.EndRow,
		Pairs:       pairs,
		Workers:     cfg.Scraper.Workers,
		MinInterval: cfg.Scraper.MinInterval,
	}, a.Logger)

	if cfg.Telemetry.ListenAddr != "" {
		router := handlers.NewRouter(sweeper.Progress(), a.Providers.PrometheusHTTP, a.RunID, a.Logger)
		server := handlers.NewServer(cfg.Telemetry.ListenAddr, router, a.Logger)
		if err := server.Start(); err != nil {
			// The sweep does not depend on the status server.
			a.Logger.WarnContext(ctx, "Status server unavailable", slog.String("error", err.Error()))
		} else {
			defer a.stopServer(server)
		}
	}

	summary, err := sweeper.Run(ctx, wb)
	if err != nil {
		return summary, err
	}

	if err := wb.SaveAs(cfg.Workbook.OutputPath); err != nil {
		return summary, err
	}

	a.Logger.InfoContext(ctx, "Workbook saved",
		slog.String("path", cfg.Workbook.OutputPath),
		slog.Int("resolved", summary.Resolved),
		slog.Int("manual", summary.Manual),
		slog.Int("failed", summary.Failed),
		slog.Int("skipped", summary.Skipped),
		slog.Int("pending", summary.Pending))

	return summary, nil
}

func (a *Application) stopServer(server *handlers.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		a.Logger.Warn("Status server shutdown failed", slog.String("error", err.Error()))
	}
}

// Shutdown flushes telemetry
func (a *Application) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return a.Providers.Shutdown(ctx)
}

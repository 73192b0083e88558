package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/AbigailEBurns/EarningsDateUpdater/internal/app"
	"github.com/AbigailEBurns/EarningsDateUpdater/internal/config"
	"github.com/AbigailEBurns/EarningsDateUpdater/internal/earnings"
	apperrors "github.com/AbigailEBurns/EarningsDateUpdater/internal/errors"
	"github.com/AbigailEBurns/EarningsDateUpdater/internal/infrastructure"
	"github.com/AbigailEBurns/EarningsDateUpdater/internal/scraper"
	"github.com/AbigailEBurns/EarningsDateUpdater/pkg/contracts"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stderr, newBrowserRetriever)
	stop()
	os.Exit(code)
}

// retrieverFactory builds the page retriever; tests substitute a fake
type retrieverFactory func(cfg config.ScraperConfig, logger *slog.Logger) (earnings.Retriever, error)

func newBrowserRetriever(cfg config.ScraperConfig, logger *slog.Logger) (earnings.Retriever, error) {
	browser, err := scraper.NewBrowser(cfg, logger)
	if err != nil {
		return nil, err
	}
	return browser, nil
}

// run executes one sweep and returns the process exit code
func run(ctx context.Context, args []string, stderr io.Writer, newRetriever retrieverFactory) (code int) {
	flags := flag.NewFlagSet("earnings", flag.ContinueOnError)
	flags.SetOutput(stderr)
	configPath := flags.String("config", "", "path to the YAML configuration file (defaults to earnings.yaml in well-known locations)")
	showVersion := flags.Bool("version", false, "print version information and exit")
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if *showVersion {
		fmt.Fprintln(stderr, contracts.GetFullVersionString())
		return 0
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", config.AppName, apperrors.NewConfigError("failed to load configuration", err))
		return 1
	}

	if err := cfg.EnsureOutputDirectories(); err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", config.AppName, err)
		return 1
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(stderr, "%s: failed to initialize logger: %v\n", config.AppName, err)
		return 1
	}
	defer infrastructure.CloseLogFile()

	defer func() {
		if r := recover(); r != nil {
			logger.Error("FATAL PANIC",
				slog.Any("panic", r),
				slog.String("stack", string(debug.Stack())))
			code = 1
		}
	}()

	logger.Info("Starting "+config.AppName,
		slog.String("version", config.AppVersion),
		slog.String("config", cfg.Source()))

	retriever, err := newRetriever(cfg.Scraper, logger)
	if err != nil {
		logger.Error("Failed to create page retriever", slog.String("error", err.Error()))
		return 1
	}

	application, err := app.New(cfg, retriever, logger)
	if err != nil {
		logger.Error("Failed to initialize application", slog.String("error", err.Error()))
		return 1
	}
	defer func() {
		if err := application.Shutdown(); err != nil {
			logger.Warn("Telemetry shutdown failed", slog.String("error", err.Error()))
		}
	}()

	summary, err := application.Run(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "Run failed",
			slog.String("code", string(apperrors.CodeOf(err))),
			slog.String("error", err.Error()))
		return 1
	}

	if ctx.Err() != nil {
		logger.Warn("Run interrupted; unprocessed cells were left blank",
			slog.Int("pending", summary.Pending))
	}
	return 0
}

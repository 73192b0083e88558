package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.28.0"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"github.com/AbigailEBurns/EarningsDateUpdater/internal/config"
	"github.com/AbigailEBurns/EarningsDateUpdater/pkg/contracts/domain"
)

const (
	ServiceName = "earnings-date-updater"
	MeterName   = "earningsdate"
	TracerName  = "earningsdate.pipeline"
)

// Providers holds the OpenTelemetry providers for one process
type Providers struct {
	TracerProvider *sdktrace.TracerProvider
	MeterProvider  *sdkmetric.MeterProvider
	Tracer         trace.Tracer
	Meter          metric.Meter
	PrometheusHTTP http.Handler

	traceFile *os.File
	logger    *slog.Logger
}

// InitializeTelemetry sets up tracing to a JSON trace file and Prometheus metrics.
// Disabled signals get no-op implementations so callers never branch on them.
func InitializeTelemetry(cfg config.TelemetryConfig, logger *slog.Logger) (*Providers, error) {
	if logger == nil {
		logger = slog.Default()
	}
	ctx := context.Background()

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(ServiceName),
		semconv.ServiceVersion(config.AppVersion),
		semconv.DeploymentEnvironmentName(cfg.Environment),
		attribute.String("service.instance.id", NewRunID()),
	)

	providers := &Providers{
		Tracer: tracenoop.NewTracerProvider().Tracer(TracerName),
		Meter:  metricnoop.NewMeterProvider().Meter(MeterName),
		logger: logger,
	}

	if cfg.EnableTracing {
		if err := providers.initTracing(cfg, res); err != nil {
			return nil, fmt.Errorf("failed to initialize tracing: %w", err)
		}
	}

	if cfg.EnableMetrics {
		if err := providers.initMetrics(res); err != nil {
			_ = providers.Shutdown(ctx)
			return nil, fmt.Errorf("failed to initialize metrics: %w", err)
		}
	}

	logger.InfoContext(ctx, "Telemetry initialized",
		slog.String("environment", cfg.Environment),
		slog.Bool("tracing_enabled", cfg.EnableTracing),
		slog.Bool("metrics_enabled", cfg.EnableMetrics))

	return providers, nil
}

func (p *Providers) initTracing(cfg config.TelemetryConfig, res *resource.Resource) error {
	if err := os.MkdirAll(filepath.Dir(cfg.TraceFile), 0o755); err != nil {
		return fmt.Errorf("failed to create trace directory: %w", err)
	}
	file, err := os.OpenFile(cfg.TraceFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open trace file %s: %w", cfg.TraceFile, err)
	}

	exporter, err := stdouttrace.New(stdouttrace.WithWriter(file))
	if err != nil {
		_ = file.Close()
		return fmt.Errorf("failed to create trace exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)

	p.traceFile = file
	p.TracerProvider = tp
	p.Tracer = tp.Tracer(TracerName, trace.WithInstrumentationVersion(config.AppVersion))
	otel.SetTracerProvider(tp)
	return nil
}

func (p *Providers) initMetrics(res *resource.Resource) error {
	// A private registry keeps repeated initialization from colliding on the default one.
	registry := prom.NewRegistry()
	exporter, err := prometheus.New(prometheus.WithRegisterer(registry))
	if err != nil {
		return fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(exporter),
	)

	p.MeterProvider = mp
	p.Meter = mp.Meter(MeterName, metric.WithInstrumentationVersion(config.AppVersion))
	p.PrometheusHTTP = promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	otel.SetMeterProvider(mp)
	return nil
}

// Shutdown flushes and stops the providers and closes the trace file
func (p *Providers) Shutdown(ctx context.Context) error {
	var errs []error

	if p.TracerProvider != nil {
		if err := p.TracerProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer provider shutdown: %w", err))
		}
	}
	if p.MeterProvider != nil {
		if err := p.MeterProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter provider shutdown: %w", err))
		}
	}
	if p.traceFile != nil {
		if err := p.traceFile.Close(); err != nil {
			errs = append(errs, fmt.Errorf("trace file close: %w", err))
		}
		p.traceFile = nil
	}

	if len(errs) > 0 {
		p.logger.ErrorContext(ctx, "Telemetry shutdown completed with errors", slog.Any("error", errors.Join(errs...)))
		return errors.Join(errs...)
	}
	return nil
}

// TraceIDFromContext returns the active trace ID, or "" when there is none
func TraceIDFromContext(ctx context.Context) string {
	spanCtx := trace.SpanContextFromContext(ctx)
	if spanCtx.HasTraceID() {
		return spanCtx.TraceID().String()
	}
	return ""
}

// RunMetrics records per-ticker fetch latency and outcome counts
type RunMetrics struct {
	outcomes      metric.Int64Counter
	fetchDuration metric.Float64Histogram
	fetchErrors   metric.Int64Counter
}

// NewRunMetrics creates the sweep instruments on meter. A nil meter uses the global one.
func NewRunMetrics(meter metric.Meter) (*RunMetrics, error) {
	if meter == nil {
		meter = otel.Meter(MeterName)
	}

	outcomes, err := meter.Int64Counter(
		"earnings_outcomes_total",
		metric.WithDescription("Total number of processed tickers by outcome"),
	)
	if err != nil {
		return nil, err
	}

	fetchDuration, err := meter.Float64Histogram(
		"earnings_fetch_duration_seconds",
		metric.WithDescription("Earnings page retrieval duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	fetchErrors, err := meter.Int64Counter(
		"earnings_fetch_errors_total",
		metric.WithDescription("Total number of failed earnings page retrievals"),
	)
	if err != nil {
		return nil, err
	}

	return &RunMetrics{
		outcomes:      outcomes,
		fetchDuration: fetchDuration,
		fetchErrors:   fetchErrors,
	}, nil
}

// RecordFetch records one retrieval attempt
func (m *RunMetrics) RecordFetch(ctx context.Context, duration time.Duration, err error) {
	success := err == nil
	m.fetchDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attribute.Bool("success", success)))
	if !success {
		m.fetchErrors.Add(ctx, 1)
	}
}

// RecordOutcome counts one classified ticker
func (m *RunMetrics) RecordOutcome(ctx context.Context, outcome domain.Outcome) {
	m.outcomes.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome.Kind.String())))
}

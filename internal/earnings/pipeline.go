package earnings

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/AbigailEBurns/EarningsDateUpdater/pkg/contracts/domain"
)

// TracerName is the instrumentation scope of pipeline spans
const TracerName = "earningsdate.pipeline"

// Retriever fetches the two raw candidate dates for a ticker.
// Any returned error is treated as a retrieval failure.
type Retriever interface {
	Fetch(ctx context.Context, ticker string) (domain.Candidates, error)
}

// RetrieverFunc adapts a plain function to the Retriever interface
type RetrieverFunc func(ctx context.Context, ticker string) (domain.Candidates, error)

// Fetch calls f(ctx, ticker)
func (f RetrieverFunc) Fetch(ctx context.Context, ticker string) (domain.Candidates, error) {
	return f(ctx, ticker)
}

// Recorder receives per-ticker measurements
type Recorder interface {
	RecordFetch(ctx context.Context, elapsed time.Duration, err error)
	RecordOutcome(ctx context.Context, outcome domain.Outcome)
}

type nopRecorder struct{}

func (nopRecorder) RecordFetch(context.Context, time.Duration, error) {}
func (nopRecorder) RecordOutcome(context.Context, domain.Outcome)     {}

// Pipeline turns a ticker into an Outcome
type Pipeline struct {
	retriever Retriever
	selector  *Selector
	logger    *slog.Logger
	tracer    trace.Tracer
	recorder  Recorder
}

// Option configures a Pipeline
type Option func(*Pipeline)

// WithLogger sets the pipeline logger
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithTracer sets the tracer used for per-ticker spans
func WithTracer(tracer trace.Tracer) Option {
	return func(p *Pipeline) {
		if tracer != nil {
			p.tracer = tracer
		}
	}
}

// WithRecorder sets the measurement sink
func WithRecorder(recorder Recorder) Option {
	return func(p *Pipeline) {
		if recorder != nil {
			p.recorder = recorder
		}
	}
}

// NewPipeline creates a pipeline. A nil selector gets the default Selector.
func NewPipeline(retriever Retriever, selector *Selector, opts ...Option) *Pipeline {
	if selector == nil {
		selector = NewSelector()
	}
	p := &Pipeline{
		retriever: retriever,
		selector:  selector,
		logger:    slog.Default(),
		tracer:    otel.Tracer(TracerName),
		recorder:  nopRecorder{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Process retrieves and resolves the earnings date for ticker.
// It never returns an error: failures are folded into the outcome.
func (p *Pipeline) Process(ctx context.Context, ticker string) domain.Outcome {
	ctx, span := p.tracer.Start(ctx, "earnings.process",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attribute.String("ticker", ticker)),
	)
	defer span.End()

	logger := p.logger.With(slog.String("ticker", ticker))

	candidates, err := p.fetch(ctx, ticker)
	if err != nil {
		outcome := domain.RetrievalFailed()
		logger.ErrorContext(ctx, "Earnings page retrieval failed",
			slog.String("stage", string(StageOf(err))),
			slog.String("error", err.Error()))
		span.RecordError(err)
		span.SetStatus(codes.Error, "retrieval failed")
		p.finish(ctx, span, outcome)
		return outcome
	}

	outcome := p.selector.Select(candidates.Top, candidates.Bottom)

	attrs := []any{
		slog.String("top", candidates.Top),
		slog.String("bottom", candidates.Bottom),
		slog.String("outcome", outcome.String()),
	}
	if outcome.NeedsReview() {
		logger.WarnContext(ctx, "Earnings date requires manual review", attrs...)
	} else {
		logger.InfoContext(ctx, "Earnings date resolved", attrs...)
	}

	p.finish(ctx, span, outcome)
	return outcome
}

func (p *Pipeline) finish(ctx context.Context, span trace.Span, outcome domain.Outcome) {
	span.SetAttributes(
		attribute.String("outcome.kind", outcome.Kind.String()),
		attribute.String("outcome.value", outcome.String()),
	)
	p.recorder.RecordOutcome(ctx, outcome)
}

// fetch calls the retriever and converts a panic into a RetrievalError.
func (p *Pipeline) fetch(ctx context.Context, ticker string) (candidates domain.Candidates, err error) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			candidates = domain.Candidates{}
			err = NewRetrievalError(ticker, StagePanic, fmt.Errorf("%v", r))
		}
		p.recorder.RecordFetch(ctx, time.Since(start), err)
	}()

	if p.retriever == nil {
		return domain.Candidates{}, NewRetrievalError(ticker, StageNavigate, fmt.Errorf("no retriever configured"))
	}
	return p.retriever.Fetch(ctx, ticker)
}

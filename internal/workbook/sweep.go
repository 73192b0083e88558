package workbook

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/AbigailEBurns/EarningsDateUpdater/internal/config"
	"github.com/AbigailEBurns/EarningsDateUpdater/pkg/contracts/domain"
)

// Processor turns a ticker into an outcome. It must not fail.
type Processor interface {
	Process(ctx context.Context, ticker string) domain.Outcome
}

// SweepOptions controls which cells are visited and how fast
type SweepOptions struct {
	StartRow    int
	EndRow      int
	Pairs       []config.ColumnPair
	Workers     int
	MinInterval time.Duration
}

// Summary counts what a sweep did
type Summary struct {
	Jobs     int
	Skipped  int
	Blank    int
	Resolved int
	Manual   int
	Failed   int
	// Pending jobs were not processed because the run was cancelled
	Pending int
}

// Sweeper visits every unfilled ticker cell of a workbook
type Sweeper struct {
	processor Processor
	opts      SweepOptions
	logger    *slog.Logger
	progress  *Progress
}

// NewSweeper creates a sweeper. Workers below 1 run sequentially.
func NewSweeper(processor Processor, opts SweepOptions, logger *slog.Logger) *Sweeper {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Sweeper{
		processor: processor,
		opts:      opts,
		logger:    logger.With(slog.String("component", "sweep")),
		progress:  NewProgress(),
	}
}

// Progress returns the live tracker of this sweeper
func (s *Sweeper) Progress() *Progress {
	return s.progress
}

// Run processes the workbook's pending cells and writes the outcomes.
// Cells are mutated only from the calling goroutine, after all fetches have
// returned. On cancellation, unstarted jobs and jobs cut short stay blank.
func (s *Sweeper) Run(ctx context.Context, wb *Workbook) (Summary, error) {
	scan, err := wb.Scan(s.opts.StartRow, s.opts.EndRow, s.opts.Pairs)
	if err != nil {
		return Summary{}, err
	}

	summary := Summary{Jobs: len(scan.Jobs), Skipped: scan.Skipped, Blank: scan.Blank}
	s.progress.start(wb.Sheet(), len(scan.Jobs), scan.Skipped)
	defer s.progress.finish()

	s.logger.InfoContext(ctx, "Sweep started",
		slog.String("sheet", wb.Sheet()),
		slog.Int("jobs", len(scan.Jobs)),
		slog.Int("skipped", scan.Skipped),
		slog.Int("blank", scan.Blank),
		slog.Int("workers", s.opts.Workers))

	outcomes := s.collect(ctx, scan.Jobs)

	for i, job := range scan.Jobs {
		outcome := outcomes[i]
		if outcome == nil {
			summary.Pending++
			continue
		}
		if err := wb.Write(job, *outcome); err != nil {
			return summary, err
		}

		switch outcome.Kind {
		case domain.OutcomeResolved:
			summary.Resolved++
		case domain.OutcomeRetrievalFailed:
			summary.Failed++
		default:
			summary.Manual++
		}

		s.logger.InfoContext(ctx, "Cell updated",
			slog.String("ticker", job.Symbol),
			slog.Int("row", job.Row),
			slog.String("cell", job.DateCell),
			slog.String("outcome", outcome.String()))
	}

	s.logger.InfoContext(ctx, "Sweep finished",
		slog.Int("resolved", summary.Resolved),
		slog.Int("manual", summary.Manual),
		slog.Int("failed", summary.Failed),
		slog.Int("pending", summary.Pending))

	return summary, nil
}

// collect runs the processor over jobs with at most Workers in flight.
// outcomes[i] stays nil for a job that was not run to completion.
func (s *Sweeper) collect(ctx context.Context, jobs []domain.TickerRecord) []*domain.Outcome {
	outcomes := make([]*domain.Outcome, len(jobs))

	var limiter *rate.Limiter
	if s.opts.MinInterval > 0 {
		limiter = rate.NewLimiter(rate.Every(s.opts.MinInterval), 1)
	}

	var g errgroup.Group
	g.SetLimit(s.opts.Workers)

	for i, job := range jobs {
		if ctx.Err() != nil {
			break
		}
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				break
			}
		}

		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			outcome := s.processor.Process(ctx, job.Symbol)
			if outcome.Kind == domain.OutcomeRetrievalFailed && ctx.Err() != nil {
				return nil
			}
			outcomes[i] = &outcome
			s.progress.record(outcome)
			return nil
		})
	}

	// Workers never return an error; Wait only joins them.
	_ = g.Wait()

	if ctx.Err() != nil {
		s.logger.WarnContext(ctx, "Sweep cancelled", slog.String("reason", ctx.Err().Error()))
	}
	return outcomes
}

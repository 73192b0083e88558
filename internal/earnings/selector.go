package earnings

import (
	"strings"
	"time"

	"github.com/AbigailEBurns/EarningsDateUpdater/pkg/contracts/domain"
)

// DefaultWindowDays is the length of the trailing recency window.
const DefaultWindowDays = 30

// Selector picks the authoritative date out of a pair of candidates.
type Selector struct {
	windowDays int
	now        func() time.Time
}

// SelectorOption configures a Selector
type SelectorOption func(*Selector)

// WithWindowDays overrides the recency window length. Negative values are ignored.
func WithWindowDays(days int) SelectorOption {
	return func(s *Selector) {
		if days >= 0 {
			s.windowDays = days
		}
	}
}

// WithClock replaces the wall clock used to determine today
func WithClock(now func() time.Time) SelectorOption {
	return func(s *Selector) {
		if now != nil {
			s.now = now
		}
	}
}

// NewSelector creates a selector with a 30 day window and the wall clock
func NewSelector(opts ...SelectorOption) *Selector {
	s := &Selector{
		windowDays: DefaultWindowDays,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// WindowDays returns the configured recency window length
func (s *Selector) WindowDays() int {
	return s.windowDays
}

// Today returns the current calendar date according to the selector's clock
func (s *Selector) Today() domain.Date {
	return domain.NewDate(s.now())
}

// IsRecent reports whether raw parses to a date inside [today-window, today].
// Unparseable input is never recent.
func (s *Selector) IsRecent(raw string) bool {
	d, ok := ParseDate(raw)
	if !ok {
		return false
	}

	today := s.Today()
	start := today.AddDays(-s.windowDays)

	return !d.Before(start) && !d.After(today)
}

// Select applies the priority policy to the top and bottom candidates.
// An empty candidate is treated as absent.
func (s *Selector) Select(top, bottom string) domain.Outcome {
	topAbsent := strings.TrimSpace(top) == ""
	bottomAbsent := strings.TrimSpace(bottom) == ""

	var chosen string
	switch {
	case topAbsent && bottomAbsent:
		return domain.ManualReview()
	case topAbsent && !s.IsRecent(bottom):
		return domain.ManualReview()
	case topAbsent:
		chosen = bottom
	case bottomAbsent:
		chosen = top
	case s.IsRecent(bottom):
		chosen = bottom
	default:
		chosen = top
	}

	d, ok := ParseDate(chosen)
	if !ok {
		return domain.ManualReview()
	}
	return domain.Resolved(d)
}

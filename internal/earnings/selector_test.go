package earnings

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/AbigailEBurns/EarningsDateUpdater/pkg/contracts/domain"
)

// fixedClock pins today to 2024-06-15, making the window [2024-05-16, 2024-06-15].
func fixedClock() time.Time {
	return time.Date(2024, time.June, 15, 14, 30, 0, 0, time.Local)
}

func date(y int, m time.Month, d int) domain.Date {
	return domain.Date{Year: y, Month: m, Day: d}
}

func TestSelector_IsRecent(t *testing.T) {
	s := NewSelector(WithClock(fixedClock))

	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{name: "today", input: "06/15/2024", want: true},
		{name: "window start", input: "05/16/2024", want: true},
		{name: "inside window", input: "06/10/2024", want: true},
		{name: "two digit year inside window", input: "6/1/24", want: true},
		{name: "day before window", input: "05/15/2024", want: false},
		{name: "tomorrow", input: "06/16/2024", want: false},
		{name: "far future", input: "08/01/2024", want: false},
		{name: "unparseable", input: "TBD", want: false},
		{name: "empty", input: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.IsRecent(tt.input))
		})
	}
}

func TestSelector_IsRecentCustomWindow(t *testing.T) {
	s := NewSelector(WithClock(fixedClock), WithWindowDays(7))

	assert.Equal(t, 7, s.WindowDays())
	assert.True(t, s.IsRecent("06/08/2024"))
	assert.False(t, s.IsRecent("06/07/2024"))
}

func TestSelector_Select(t *testing.T) {
	s := NewSelector(WithClock(fixedClock))

	tests := []struct {
		name   string
		top    string
		bottom string
		want   domain.Outcome
	}{
		{
			name: "both absent",
			want: domain.ManualReview(),
		},
		{
			name:   "top absent and bottom outside window",
			bottom: "04/01/2024",
			want:   domain.ManualReview(),
		},
		{
			name:   "top absent and bottom in the future",
			bottom: "08/01/2024",
			want:   domain.ManualReview(),
		},
		{
			name:   "top absent and bottom inside window",
			bottom: "06/10/2024",
			want:   domain.Resolved(date(2024, time.June, 10)),
		},
		{
			name:   "top absent and bottom unparseable",
			bottom: "06/10/2024x",
			want:   domain.ManualReview(),
		},
		{
			name: "bottom absent",
			top:  "03/01/2024",
			want: domain.Resolved(date(2024, time.March, 1)),
		},
		{
			name:   "bottom recent is preferred",
			top:    "03/01/2024",
			bottom: "06/10/2024",
			want:   domain.Resolved(date(2024, time.June, 10)),
		},
		{
			name:   "bottom not recent falls back to top",
			top:    "03/01/2024",
			bottom: "08/01/2024",
			want:   domain.Resolved(date(2024, time.March, 1)),
		},
		{
			name:   "bottom unparseable falls back to top",
			top:    "08/01/24",
			bottom: "soon",
			want:   domain.Resolved(date(2024, time.August, 1)),
		},
		{
			name: "bottom absent and top unparseable",
			top:  "13/45/2024",
			want: domain.ManualReview(),
		},
		{
			name:   "chosen top unparseable",
			top:    "n/a",
			bottom: "08/01/2024",
			want:   domain.ManualReview(),
		},
		{
			name:   "whitespace candidates are absent",
			top:    "  ",
			bottom: "\t",
			want:   domain.ManualReview(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.Select(tt.top, tt.bottom))
		})
	}
}

func TestSelector_Defaults(t *testing.T) {
	s := NewSelector(WithWindowDays(-1), WithClock(nil))

	assert.Equal(t, DefaultWindowDays, s.WindowDays())
	assert.Equal(t, domain.NewDate(time.Now()), s.Today())
}

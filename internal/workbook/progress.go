package workbook

import (
	"sync"
	"time"

	"github.com/AbigailEBurns/EarningsDateUpdater/pkg/contracts/domain"
)

// Sweep states reported by Progress
const (
	StateIdle     = "idle"
	StateRunning  = "running"
	StateFinished = "finished"
)

// Snapshot is a point-in-time view of a sweep
type Snapshot struct {
	State      string     `json:"state"`
	Sheet      string     `json:"sheet,omitempty"`
	Total      int        `json:"total"`
	Done       int        `json:"done"`
	Resolved   int        `json:"resolved"`
	Manual     int        `json:"manual"`
	Failed     int        `json:"failed"`
	Skipped    int        `json:"skipped"`
	StartedAt  *time.Time `json:"started_at,omitempty"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

// Progress tracks a sweep for concurrent readers
type Progress struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewProgress returns an idle tracker
func NewProgress() *Progress {
	return &Progress{snap: Snapshot{State: StateIdle}}
}

// Snapshot returns a copy of the current state
func (p *Progress) Snapshot() Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.snap
}

func (p *Progress) start(sheet string, total, skipped int) {
	now := time.Now()
	p.mu.Lock()
	p.snap = Snapshot{
		State:     StateRunning,
		Sheet:     sheet,
		Total:     total,
		Skipped:   skipped,
		StartedAt: &now,
	}
	p.mu.Unlock()
}

func (p *Progress) record(outcome domain.Outcome) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.snap.Done++
	switch outcome.Kind {
	case domain.OutcomeResolved:
		p.snap.Resolved++
	case domain.OutcomeRetrievalFailed:
		p.snap.Failed++
	default:
		p.snap.Manual++
	}
}

func (p *Progress) finish() {
	now := time.Now()
	p.mu.Lock()
	p.snap.State = StateFinished
	p.snap.FinishedAt = &now
	p.mu.Unlock()
}

package domain

import (
	"time"
)

// Markers written into a destination cell when a human has to resolve the entry.
const (
	MarkerManual    = "MANUAL"
	MarkerLoadError = "LOAD ERROR"
)

// Date is a calendar date without a time component
type Date struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
	Day   int        `json:"day"`
}

// NewDate returns the calendar date of t in t's location
func NewDate(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// Time returns midnight UTC of the date
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// IsZero reports whether d is the zero Date
func (d Date) IsZero() bool {
	return d == Date{}
}

// Before reports whether d falls on an earlier day than other
func (d Date) Before(other Date) bool {
	return d.Time().Before(other.Time())
}

// After reports whether d falls on a later day than other
func (d Date) After(other Date) bool {
	return d.Time().After(other.Time())
}

// AddDays returns the date n days after d (n may be negative)
func (d Date) AddDays(n int) Date {
	return NewDate(d.Time().AddDate(0, 0, n))
}

func (d Date) String() string {
	return d.Time().Format("2006-01-02")
}

// OutcomeKind identifies which variant an Outcome holds
type OutcomeKind int

const (
	// OutcomeManualReview is the zero value so an unset Outcome never passes as resolved
	OutcomeManualReview OutcomeKind = iota
	OutcomeResolved
	OutcomeRetrievalFailed
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeResolved:
		return "resolved"
	case OutcomeRetrievalFailed:
		return "retrieval_failed"
	default:
		return "manual_review"
	}
}

// Outcome is the single result produced for a ticker in a run
type Outcome struct {
	Kind OutcomeKind `json:"kind"`
	Date Date        `json:"date"`
}

// Resolved returns an outcome carrying a confirmed date
func Resolved(d Date) Outcome {
	return Outcome{Kind: OutcomeResolved, Date: d}
}

// ManualReview returns the outcome for ambiguous or unparseable candidates
func ManualReview() Outcome {
	return Outcome{Kind: OutcomeManualReview}
}

// RetrievalFailed returns the outcome for a page that could not be loaded
func RetrievalFailed() Outcome {
	return Outcome{Kind: OutcomeRetrievalFailed}
}

// NeedsReview reports whether the outcome has to be looked at by a human
func (o Outcome) NeedsReview() bool {
	return o.Kind != OutcomeResolved
}

// Marker returns the literal cell marker for unresolved outcomes, or "" when resolved
func (o Outcome) Marker() string {
	switch o.Kind {
	case OutcomeResolved:
		return ""
	case OutcomeRetrievalFailed:
		return MarkerLoadError
	default:
		return MarkerManual
	}
}

func (o Outcome) String() string {
	if o.Kind == OutcomeResolved {
		return o.Date.String()
	}
	return o.Marker()
}

// Candidates holds the two raw date strings scraped from an earnings page.
// An empty string means the candidate was absent.
type Candidates struct {
	// Top is the most recent past announcement
	Top string `json:"top"`
	// Bottom is the next or primary announcement row
	Bottom string `json:"bottom"`
}

package earnings

import (
	"errors"
	"fmt"
)

// Stage names the step of a retrieval that failed
type Stage string

const (
	StageNavigate Stage = "navigate"
	StageRender   Stage = "render"
	StageExtract  Stage = "extract"
	StagePanic    Stage = "panic"
)

// ErrEmptyTicker is returned when a retrieval is requested for a blank symbol
var ErrEmptyTicker = errors.New("empty ticker symbol")

// RetrievalError reports why an earnings page could not be retrieved.
// The pipeline only cares that it happened; the stage is kept for logs.
type RetrievalError struct {
	Ticker string
	Stage  Stage
	Cause  error
}

// Error implements the error interface
func (e *RetrievalError) Error() string {
	if e == nil {
		return "unknown retrieval error"
	}
	if e.Cause == nil {
		return fmt.Sprintf("retrieve %s: %s failed", e.Ticker, e.Stage)
	}
	return fmt.Sprintf("retrieve %s: %s: %v", e.Ticker, e.Stage, e.Cause)
}

// Unwrap returns the underlying error
func (e *RetrievalError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// NewRetrievalError creates a retrieval error for the given stage
func NewRetrievalError(ticker string, stage Stage, cause error) *RetrievalError {
	return &RetrievalError{
		Ticker: ticker,
		Stage:  stage,
		Cause:  cause,
	}
}

// StageOf returns the failing stage recorded in err, or "" when err is not a RetrievalError
func StageOf(err error) Stage {
	var re *RetrievalError
	if errors.As(err, &re) {
		return re.Stage
	}
	return ""
}

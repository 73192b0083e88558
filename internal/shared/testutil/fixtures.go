package testutil

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/AbigailEBurns/EarningsDateUpdater/pkg/contracts/domain"
)

// FixtureSheet is the sheet name used by NewTickerWorkbook
const FixtureSheet = "Stocks"

// TickerRow describes one data row of a fixture workbook laid out as
// A=ticker, B=ticker, C=date for A, D=date for B.
type TickerRow struct {
	Row       int
	Left      string
	Right     string
	LeftDate  any
	RightDate any
}

// NewTickerWorkbook writes a workbook with two header rows and the given data
// rows into a temp dir and returns its path.
func NewTickerWorkbook(t *testing.T, rows ...TickerRow) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), FixtureSheet); err != nil {
		t.Fatalf("rename fixture sheet: %v", err)
	}

	headers := map[string]string{
		"A1": "Earnings calendar",
		"A2": "Ticker", "B2": "Ticker", "C2": "Date", "D2": "Date",
	}
	for cell, value := range headers {
		mustSet(t, f, cell, value)
	}

	for _, r := range rows {
		if r.Left != "" {
			mustSet(t, f, fmt.Sprintf("A%d", r.Row), r.Left)
		}
		if r.Right != "" {
			mustSet(t, f, fmt.Sprintf("B%d", r.Row), r.Right)
		}
		if r.LeftDate != nil {
			mustSet(t, f, fmt.Sprintf("C%d", r.Row), r.LeftDate)
		}
		if r.RightDate != nil {
			mustSet(t, f, fmt.Sprintf("D%d", r.Row), r.RightDate)
		}
	}

	path := filepath.Join(t.TempDir(), "stocks.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save fixture workbook: %v", err)
	}
	return path
}

func mustSet(t *testing.T, f *excelize.File, cell string, value any) {
	t.Helper()
	if err := f.SetCellValue(FixtureSheet, cell, value); err != nil {
		t.Fatalf("set %s: %v", cell, err)
	}
}

// ScriptedResponse is what ScriptedRetriever returns for one ticker
type ScriptedResponse struct {
	Candidates domain.Candidates
	Err        error
	Panic      any
}

// ScriptedRetriever is an in-memory Retriever that replays canned responses
// and records how it was called.
type ScriptedRetriever struct {
	Responses map[string]ScriptedResponse
	Delay     time.Duration

	mu          sync.Mutex
	calls       []string
	inFlight    int
	maxInFlight int
}

// NewScriptedRetriever creates a retriever that answers from responses
func NewScriptedRetriever(responses map[string]ScriptedResponse) *ScriptedRetriever {
	return &ScriptedRetriever{Responses: responses}
}

// Fetch implements the Retriever contract
func (r *ScriptedRetriever) Fetch(ctx context.Context, ticker string) (domain.Candidates, error) {
	r.mu.Lock()
	r.calls = append(r.calls, ticker)
	r.inFlight++
	if r.inFlight > r.maxInFlight {
		r.maxInFlight = r.inFlight
	}
	resp, ok := r.Responses[ticker]
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		r.inFlight--
		r.mu.Unlock()
	}()

	if r.Delay > 0 {
		timer := time.NewTimer(r.Delay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return domain.Candidates{}, ctx.Err()
		}
	}

	if !ok {
		return domain.Candidates{}, fmt.Errorf("no scripted response for %q", ticker)
	}
	if resp.Panic != nil {
		panic(resp.Panic)
	}
	return resp.Candidates, resp.Err
}

// Calls returns the tickers fetched so far, in call order
func (r *ScriptedRetriever) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

// MaxConcurrent returns the highest number of overlapping Fetch calls observed
func (r *ScriptedRetriever) MaxConcurrent() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.maxInFlight
}

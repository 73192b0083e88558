package app

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/AbigailEBurns/EarningsDateUpdater/internal/config"
	"github.com/AbigailEBurns/EarningsDateUpdater/internal/earnings"
	apperrors "github.com/AbigailEBurns/EarningsDateUpdater/internal/errors"
	"github.com/AbigailEBurns/EarningsDateUpdater/internal/infrastructure"
	"github.com/AbigailEBurns/EarningsDateUpdater/internal/shared/testutil"
	"github.com/AbigailEBurns/EarningsDateUpdater/internal/workbook"
	"github.com/AbigailEBurns/EarningsDateUpdater/pkg/contracts/domain"
)

func testConfig(t *testing.T, input string) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Workbook.InputPath = input
	cfg.Workbook.OutputPath = filepath.Join(t.TempDir(), "out", "stocks.xlsx")
	cfg.Telemetry.Environment = "test"
	return cfg
}

func newApp(t *testing.T, cfg *config.Config, retriever *testutil.ScriptedRetriever) *Application {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	a, err := New(cfg, retriever, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Shutdown() })
	return a
}

func readCell(t *testing.T, path, cell string) string {
	t.Helper()
	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	v, err := f.GetCellValue(testutil.FixtureSheet, cell)
	require.NoError(t, err)
	return v
}

func readStyle(t *testing.T, path, cell string) *excelize.Style {
	t.Helper()
	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	id, err := f.GetCellStyle(testutil.FixtureSheet, cell)
	require.NoError(t, err)
	style, err := f.GetStyle(id)
	require.NoError(t, err)
	return style
}

func TestApplication_Run(t *testing.T) {
	recent := time.Now().AddDate(0, 0, -3)
	input := testutil.NewTickerWorkbook(t,
		testutil.TickerRow{Row: 3, Left: "AAPL", Right: "MSFT"},
		testutil.TickerRow{Row: 4, Left: "GOOG", RightDate: "2024-01-01"},
	)
	retriever := testutil.NewScriptedRetriever(map[string]testutil.ScriptedResponse{
		"AAPL": {Candidates: domain.Candidates{Top: "1/2/2020", Bottom: recent.Format("1/2/2006")}},
		"MSFT": {Err: errors.New("navigation failed")},
		"GOOG": {},
	})

	cfg := testConfig(t, input)
	cfg.Telemetry.EnableMetrics = true
	cfg.Telemetry.ListenAddr = "127.0.0.1:0"

	a := newApp(t, cfg, retriever)
	summary, err := a.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, workbook.Summary{Jobs: 3, Skipped: 1, Resolved: 1, Manual: 1, Failed: 1}, summary)
	assert.NotEmpty(t, a.RunID)

	out := cfg.Workbook.OutputPath
	assert.Equal(t, recent.Format("2006-01-02"), readCell(t, out, "C3"))
	assert.Equal(t, domain.MarkerLoadError, readCell(t, out, "D3"))
	assert.Equal(t, domain.MarkerManual, readCell(t, out, "C4"))
	assert.Equal(t, "2024-01-01", readCell(t, out, "D4"))

	dateStyle := readStyle(t, out, "C3")
	require.NotNil(t, dateStyle.Font)
	assert.Equal(t, "800080", dateStyle.Font.Color)
	for _, cell := range []string{"D3", "C4"} {
		alert := readStyle(t, out, cell)
		assert.Equal(t, "pattern", alert.Fill.Type, cell)
		assert.Equal(t, 1, alert.Fill.Pattern, cell)
		assert.Equal(t, []string{"FF0000"}, alert.Fill.Color, cell)
	}

	// Input stays untouched
	assert.Empty(t, readCell(t, input, "C3"))
}

func TestTracerScopeMatchesPipeline(t *testing.T) {
	assert.Equal(t, earnings.TracerName, infrastructure.TracerName)
}

func TestApplication_RunCancelledStillSaves(t *testing.T) {
	input := testutil.NewTickerWorkbook(t, testutil.TickerRow{Row: 3, Left: "AAPL"})
	cfg := testConfig(t, input)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	a := newApp(t, cfg, testutil.NewScriptedRetriever(nil))
	summary, err := a.Run(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Pending)
	assert.FileExists(t, cfg.Workbook.OutputPath)
	assert.Empty(t, readCell(t, cfg.Workbook.OutputPath, "C3"))
}

func TestApplication_RunFatalErrors(t *testing.T) {
	input := testutil.NewTickerWorkbook(t, testutil.TickerRow{Row: 3, Left: "AAPL"})

	tests := []struct {
		name   string
		mutate func(cfg *config.Config)
		code   apperrors.Code
	}{
		{
			name:   "missing input",
			mutate: func(cfg *config.Config) { cfg.Workbook.InputPath = filepath.Join(t.TempDir(), "missing.xlsx") },
			code:   apperrors.CodeWorkbookOpenFailed,
		},
		{
			name:   "missing sheet",
			mutate: func(cfg *config.Config) { cfg.Workbook.Sheet = "Other" },
			code:   apperrors.CodeWorkbookInvalid,
		},
		{
			name:   "bad columns",
			mutate: func(cfg *config.Config) { cfg.Workbook.Columns = []string{"A"} },
			code:   apperrors.CodeConfigInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(t, input)
			tt.mutate(cfg)

			retriever := testutil.NewScriptedRetriever(map[string]testutil.ScriptedResponse{"AAPL": {}})
			_, err := newApp(t, cfg, retriever).Run(context.Background())
			require.Error(t, err)
			assert.Equal(t, tt.code, apperrors.CodeOf(err))
			assert.Empty(t, retriever.Calls())
		})
	}
}

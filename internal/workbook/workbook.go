package workbook

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/AbigailEBurns/EarningsDateUpdater/internal/config"
	apperrors "github.com/AbigailEBurns/EarningsDateUpdater/internal/errors"
	"github.com/AbigailEBurns/EarningsDateUpdater/pkg/contracts/domain"
)

// Workbook is one sheet of an open spreadsheet
type Workbook struct {
	file   *excelize.File
	sheet  string
	styles styles
}

// Scan is the result of reading the ticker cells of a row range
type Scan struct {
	Jobs    []domain.TickerRecord
	Skipped int // destination already filled
	Blank   int // empty ticker cell
}

// Open opens the workbook at path. An empty sheet selects the active sheet.
func Open(path, sheet string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, apperrors.NewWorkbookOpenError(path, err)
	}
	wb, err := New(f, sheet)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return wb, nil
}

// New wraps an already open excelize file
func New(f *excelize.File, sheet string) (*Workbook, error) {
	if sheet == "" {
		sheet = f.GetSheetName(f.GetActiveSheetIndex())
	}
	idx, err := f.GetSheetIndex(sheet)
	if err != nil || idx < 0 {
		return nil, apperrors.NewWorkbookInvalidError(fmt.Sprintf("sheet %q not found", sheet), err)
	}

	st, err := newStyles(f)
	if err != nil {
		return nil, apperrors.NewWorkbookInvalidError("failed to register cell styles", err)
	}

	return &Workbook{file: f, sheet: sheet, styles: st}, nil
}

// Sheet returns the name of the sheet being processed
func (w *Workbook) Sheet() string {
	return w.sheet
}

// File returns the underlying excelize file
func (w *Workbook) File() *excelize.File {
	return w.file
}

// Scan reads rows start..end for every column pair. An end of 0 means the
// last populated row of the sheet.
func (w *Workbook) Scan(start, end int, pairs []config.ColumnPair) (Scan, error) {
	if end == 0 {
		rows, err := w.file.GetRows(w.sheet)
		if err != nil {
			return Scan{}, apperrors.NewWorkbookInvalidError("failed to read rows", err)
		}
		end = len(rows)
	}

	var scan Scan
	for row := start; row <= end; row++ {
		for _, pair := range pairs {
			tickerCell, err := excelize.JoinCellName(pair.Ticker, row)
			if err != nil {
				return Scan{}, apperrors.NewWorkbookInvalidError("invalid ticker cell", err)
			}
			dateCell, err := excelize.JoinCellName(pair.Date, row)
			if err != nil {
				return Scan{}, apperrors.NewWorkbookInvalidError("invalid destination cell", err)
			}

			existing, err := w.value(dateCell)
			if err != nil {
				return Scan{}, err
			}
			if existing != "" {
				scan.Skipped++
				continue
			}

			symbol, err := w.value(tickerCell)
			if err != nil {
				return Scan{}, err
			}
			if symbol == "" {
				scan.Blank++
				continue
			}

			scan.Jobs = append(scan.Jobs, domain.TickerRecord{
				Row:        row,
				Symbol:     symbol,
				TickerCell: tickerCell,
				DateCell:   dateCell,
			})
		}
	}
	return scan, nil
}

func (w *Workbook) value(cell string) (string, error) {
	v, err := w.file.GetCellValue(w.sheet, cell)
	if err != nil {
		return "", apperrors.NewWorkbookInvalidError(fmt.Sprintf("failed to read cell %s", cell), err)
	}
	return strings.TrimSpace(v), nil
}

// Write stores outcome in the record's destination cell: a purple
// yyyy-mm-dd date when resolved, otherwise the marker on a red fill.
func (w *Workbook) Write(rec domain.TickerRecord, outcome domain.Outcome) error {
	var (
		value any
		style int
	)
	if outcome.Kind == domain.OutcomeResolved {
		value, style = outcome.Date.Time(), w.styles.date
	} else {
		value, style = outcome.Marker(), w.styles.alert
	}

	if err := w.file.SetCellValue(w.sheet, rec.DateCell, value); err != nil {
		return fmt.Errorf("failed to write %s: %w", rec.DateCell, err)
	}
	if err := w.file.SetCellStyle(w.sheet, rec.DateCell, rec.DateCell, style); err != nil {
		return fmt.Errorf("failed to style %s: %w", rec.DateCell, err)
	}
	return nil
}

// SaveAs writes the workbook to path, creating parent directories
func (w *Workbook) SaveAs(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return apperrors.NewWorkbookSaveError(path, err)
	}
	if err := w.file.SaveAs(path); err != nil {
		return apperrors.NewWorkbookSaveError(path, err)
	}
	return nil
}

// Close releases the underlying file
func (w *Workbook) Close() error {
	return w.file.Close()
}

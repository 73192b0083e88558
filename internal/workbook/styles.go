package workbook

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const (
	dateNumFmt = "yyyy-mm-dd"
	dateFont   = "800080"
	alertFill  = "FF0000"
)

// styles holds the style IDs registered in one workbook
type styles struct {
	date  int
	alert int
}

func newStyles(f *excelize.File) (styles, error) {
	numFmt := dateNumFmt
	date, err := f.NewStyle(&excelize.Style{
		Font:         &excelize.Font{Color: dateFont},
		CustomNumFmt: &numFmt,
	})
	if err != nil {
		return styles{}, fmt.Errorf("failed to create date style: %w", err)
	}

	alert, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{alertFill}, Pattern: 1},
	})
	if err != nil {
		return styles{}, fmt.Errorf("failed to create alert style: %w", err)
	}

	return styles{date: date, alert: alert}, nil
}

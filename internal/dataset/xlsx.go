package dataset

import (
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/xuri/excelize/v2"
)

// LoadXLSX reads one sheet of a workbook from disk.
func LoadXLSX(path, sheet string) (Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return Table{}, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer file.Close()

	return ReadXLSX(file, sheet)
}

// ReadXLSX reads one sheet of a workbook from a stream (e.g. an upload body).
func ReadXLSX(r io.Reader, sheet string) (Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return Table{}, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	return readSheet(f, sheet)
}

func readSheet(f *excelize.File, sheet string) (Table, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return Table{}, fmt.Errorf("no sheets found in the workbook")
	}
	if sheet == "" {
		sheet = sheets[0]
	} else if !slices.Contains(sheets, sheet) {
		return Table{}, fmt.Errorf("sheet %q not found (available: %v)", sheet, sheets)
	}

	// Raw values keep dates as serial numbers and rates unformatted (0.95, not 95%).
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return Table{}, fmt.Errorf("failed to get rows from sheet %q: %w", sheet, err)
	}

	t, err := fromRows(rows, nil)
	if err != nil {
		return Table{}, fmt.Errorf("sheet %q: %w", sheet, err)
	}
	return t, nil
}

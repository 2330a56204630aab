package dataset

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Table is a raw, already-parsed spreadsheet: one header row plus string cells.
// Rows are padded to the header width.
type Table struct {
	Columns []string
	Rows    [][]string
	Lines   []int // 1-based source row of each entry in Rows; may be nil
}

// Line returns the source row number of data row i. Tables built without line
// information assume the header sits on row 1 and nothing was skipped.
func (t Table) Line(i int) int {
	if i < len(t.Lines) {
		return t.Lines[i]
	}
	return i + 2
}

// Len returns the number of data rows.
func (t Table) Len() int {
	return len(t.Rows)
}

// Clone returns a deep copy so callers can hand tables across goroutines.
func (t Table) Clone() Table {
	out := Table{
		Columns: append([]string(nil), t.Columns...),
		Rows:    make([][]string, len(t.Rows)),
		Lines:   append([]int(nil), t.Lines...),
	}
	for i, r := range t.Rows {
		out.Rows[i] = append([]string(nil), r...)
	}
	return out
}

// Load reads a workbook or CSV file, choosing the reader by extension.
// sheet is only meaningful for workbooks; empty means the first sheet.
func Load(path, sheet string) (Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return LoadXLSX(path, sheet)
	case ".csv":
		return LoadCSV(path)
	default:
		return Table{}, fmt.Errorf("unsupported file type %q (expected .xlsx or .csv)", filepath.Ext(path))
	}
}

// fromRows turns raw rows into a Table. The first non-blank row is the header.
// lines holds the source row number of each raw row; nil means rows are contiguous
// from row 1.
func fromRows(rows [][]string, lines []int) (Table, error) {
	lineOf := func(i int) int {
		if i < len(lines) {
			return lines[i]
		}
		return i + 1
	}

	headerIdx := -1
	for i, row := range rows {
		if !isBlank(row) {
			headerIdx = i
			break
		}
	}
	if headerIdx < 0 {
		return Table{}, fmt.Errorf("no header row found")
	}

	header := rows[headerIdx]
	// Trailing empty header cells come from formatted but unused columns.
	for len(header) > 0 && strings.TrimSpace(header[len(header)-1]) == "" {
		header = header[:len(header)-1]
	}

	t := Table{Columns: make([]string, len(header))}
	for i, h := range header {
		t.Columns[i] = strings.TrimSpace(h)
	}

	for i := headerIdx + 1; i < len(rows); i++ {
		row := rows[i]
		if isBlank(row) {
			continue
		}
		cells := make([]string, len(t.Columns))
		copy(cells, row)
		t.Rows = append(t.Rows, cells)
		t.Lines = append(t.Lines, lineOf(i))
	}

	return t, nil
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

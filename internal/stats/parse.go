package stats

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

var weekLayouts = []string{
	"2006-1-2",
	"2006/1/2",
	"2006.1.2",
	"2006年1月2日",
	"2006-1-2 15:04:05",
	"2006/1/2 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"1/2/2006",
	"01-02-06",
}

// Serial day numbers outside [2000-01-01, 9999-12-31] are not treated as dates,
// so small counts such as "3" never become 1900-01-03.
const (
	minExcelSerial = 36526
	maxExcelSerial = 2958465
)

// parseWeek coerces a cell to a calendar date (UTC midnight). Workbooks read with
// raw values carry dates as Excel serial day numbers.
func parseWeek(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}

	for _, layout := range weekLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return dateOnly(parsed), true
		}
	}

	if serial, err := strconv.ParseFloat(value, 64); err == nil && serial >= minExcelSerial && serial <= maxExcelSerial {
		if parsed, err := excelize.ExcelDateToTime(serial, false); err == nil {
			return dateOnly(parsed), true
		}
	}

	return time.Time{}, false
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

var errNotNumeric = errors.New("not a finite number")

// parseNumber coerces a numeric cell. Blank cells are zero; thousands separators
// and a trailing percent sign are accepted.
func parseNumber(value string) (float64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}

	scale := 1.0
	if strings.HasSuffix(value, "%") {
		scale = 0.01
		value = strings.TrimSpace(strings.TrimSuffix(value, "%"))
	}
	value = strings.ReplaceAll(value, ",", "")

	f, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, errNotNumeric
	}
	return f * scale, nil
}

package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// DetailHeader is the column order of the exported detail table.
var DetailHeader = []string{"name", "hours", "attendance_pct", "below_average", "assigned_minutes", "watched_minutes"}

// DetailRows renders classes_by_rank as plain string rows in DetailHeader order.
// Attendance is shown with one decimal, like the report table.
func (p *Packet) DetailRows() [][]string {
	rows := make([][]string, 0, len(p.ClassesByRank))
	for _, r := range p.ClassesByRank {
		rows = append(rows, []string{
			r.Name,
			strconv.Itoa(r.Hours),
			strconv.FormatFloat(r.AttendancePct, 'f', 1, 64),
			strconv.FormatBool(r.BelowAverage),
			strconv.Itoa(r.AssignedMinutes),
			strconv.Itoa(r.WatchedMinutes),
		})
	}
	return rows
}

// WriteDetailCSV writes the detail table with a header row.
func (p *Packet) WriteDetailCSV(w io.Writer) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(DetailHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if err := writer.WriteAll(p.DetailRows()); err != nil {
		return fmt.Errorf("failed to write rows: %w", err)
	}
	return nil
}

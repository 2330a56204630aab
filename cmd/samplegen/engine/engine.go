package engine

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/xuri/excelize/v2"

	"classpulse/internal/schema"
)

// SheetName is the worksheet the generator writes.
const SheetName = "周报"

// GeneratorConfig controls the shape of a sample workbook.
type GeneratorConfig struct {
	Scenario        string // "steady", "drift" or "messy"
	Weeks           int
	Grades          []string
	ClassesPerGrade int
	Seed            int64
	FirstWeek       time.Time
}

// Header returns the physical column names of the default mapping, one per field.
func Header() []string {
	m := schema.Default()
	header := make([]string, 0, len(schema.FieldOrder))
	for _, name := range schema.FieldOrder {
		f, _ := m.Field(name)
		header = append(header, f.Columns[0])
	}
	return header
}

// Generate returns the header followed by one row per class per week. The same
// config always yields the same rows.
func Generate(cfg GeneratorConfig) [][]any {
	if cfg.FirstWeek.IsZero() {
		cfg.FirstWeek = time.Date(2024, 9, 2, 0, 0, 0, 0, time.UTC)
	}
	if len(cfg.Grades) == 0 {
		cfg.Grades = []string{"初一", "初二", "初三"}
	}
	rng := rand.New(rand.NewSource(cfg.Seed))

	var rows [][]any
	header := make([]any, 0, len(schema.FieldOrder))
	for _, h := range Header() {
		header = append(header, h)
	}
	rows = append(rows, header)

	for w := 0; w < cfg.Weeks; w++ {
		week := cfg.FirstWeek.AddDate(0, 0, 7*w)
		progress := 0.0
		if cfg.Weeks > 1 {
			progress = float64(w) / float64(cfg.Weeks-1)
		}

		for _, grade := range cfg.Grades {
			for c := 1; c <= cfg.ClassesPerGrade; c++ {
				class := fmt.Sprintf("%s%d班", grade, c)

				hours := 4 + rng.Intn(9)
				attendance := 0.70 + rng.Float64()*0.28
				correctness := 0.55 + rng.Float64()*0.40
				completion := 0.40 + rng.Float64()*0.55

				// Drift erodes engagement over the term.
				if cfg.Scenario == "drift" {
					attendance -= 0.15 * progress
					correctness -= 0.10 * progress
					completion -= 0.25 * progress
				}

				assigned := hours * (20 + rng.Intn(11))
				watched := int(math.Round(float64(assigned) * completion))

				var attendanceCell any = round2(attendance)
				if cfg.Scenario == "messy" && rng.Intn(4) == 0 {
					attendanceCell = fmt.Sprintf("%.0f%%", attendance*100)
				}

				rows = append(rows, []any{
					week,
					class,
					hours,
					attendanceCell,
					round2(correctness),
					assigned,
					watched,
					round2(completion),
				})
			}
		}
	}

	if cfg.Scenario == "messy" {
		last := cfg.FirstWeek.AddDate(0, 0, 7*(cfg.Weeks-1))
		rows = append(rows,
			[]any{last, "", 3, 0.9, 0.8, 60, 50, 0.8},
			[]any{"合计", "全年级", 100, 0.9, 0.8, 600, 500, 0.8},
		)
	}

	return rows
}

// Save writes the rows to a new workbook at path.
func Save(path string, rows [][]any) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

package visuals

import (
	"fmt"
	"math"
	"strings"

	"classpulse/internal/report"
)

// GenerateHoursChart creates a Mermaid bar chart of reporting-week hours per class, in name order.
func GenerateHoursChart(p *report.Packet) string {
	if p == nil || len(p.ClassesByName.Names) == 0 {
		return ""
	}

	var values []string
	maxVal := 0
	for _, h := range p.ClassesByName.Hours {
		values = append(values, fmt.Sprintf("%d", h))
		if h > maxVal {
			maxVal = h
		}
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("xychart-beta\n")
	sb.WriteString(fmt.Sprintf("    title \"Hours per Class (%s)\"\n", p.TargetWeek))
	sb.WriteString(fmt.Sprintf("    x-axis [%s]\n", quoteLabels(p.ClassesByName.Names)))
	sb.WriteString(fmt.Sprintf("    y-axis \"Hours\" 0 --> %d\n", maxVal+int(math.Max(1, float64(maxVal)*0.2))))
	sb.WriteString(fmt.Sprintf("    bar [%s]\n", strings.Join(values, ", ")))
	sb.WriteString("```")
	return sb.String()
}

// GenerateRatesChart creates a Mermaid line chart of attendance and correctness per class.
// The first line is attendance, the second correctness.
func GenerateRatesChart(p *report.Packet) string {
	if p == nil || len(p.ClassesByName.Names) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("xychart-beta\n")
	sb.WriteString("    title \"Attendance and Correctness per Class (%)\"\n")
	sb.WriteString(fmt.Sprintf("    x-axis [%s]\n", quoteLabels(p.ClassesByName.Names)))
	sb.WriteString(fmt.Sprintf("    y-axis \"Percent\" 0 --> %d\n", percentCeiling(p.ClassesByName.AttendancePct, p.ClassesByName.CorrectnessPct)))
	sb.WriteString(fmt.Sprintf("    line [%s]\n", joinFloats(p.ClassesByName.AttendancePct)))
	sb.WriteString(fmt.Sprintf("    line [%s]\n", joinFloats(p.ClassesByName.CorrectnessPct)))
	sb.WriteString("```")
	return sb.String()
}

// GenerateTrendChart creates a Mermaid bar chart of total hours per week.
func GenerateTrendChart(p *report.Packet) string {
	if p == nil || len(p.Trend.Dates) == 0 {
		return ""
	}

	var values []string
	maxVal := 0
	for _, h := range p.Trend.Hours {
		values = append(values, fmt.Sprintf("%d", h))
		if h > maxVal {
			maxVal = h
		}
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("xychart-beta\n")
	sb.WriteString("    title \"Weekly Hours\"\n")
	sb.WriteString(fmt.Sprintf("    x-axis [%s]\n", quoteLabels(p.Trend.Dates)))
	sb.WriteString(fmt.Sprintf("    y-axis \"Hours\" 0 --> %d\n", maxVal+int(math.Max(1, float64(maxVal)*0.2))))
	sb.WriteString(fmt.Sprintf("    bar [%s]\n", strings.Join(values, ", ")))
	sb.WriteString("```")
	return sb.String()
}

// GenerateTrendRatesChart creates a Mermaid line chart of weekly attendance,
// correctness and completion, in that order.
func GenerateTrendRatesChart(p *report.Packet) string {
	if p == nil || len(p.Trend.Dates) == 0 {
		return ""
	}

	tr := p.Trend
	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("xychart-beta\n")
	sb.WriteString("    title \"Weekly Rates (%)\"\n")
	sb.WriteString(fmt.Sprintf("    x-axis [%s]\n", quoteLabels(tr.Dates)))
	sb.WriteString(fmt.Sprintf("    y-axis \"Percent\" 0 --> %d\n", percentCeiling(tr.AttendancePct, tr.CorrectnessPct, tr.CompletionPct)))
	sb.WriteString(fmt.Sprintf("    line [%s]\n", joinFloats(tr.AttendancePct)))
	sb.WriteString(fmt.Sprintf("    line [%s]\n", joinFloats(tr.CorrectnessPct)))
	sb.WriteString(fmt.Sprintf("    line [%s]\n", joinFloats(tr.CompletionPct)))
	sb.WriteString("```")
	return sb.String()
}

// GenerateAll returns every non-empty chart for the packet, in report order.
func GenerateAll(p *report.Packet) []string {
	var charts []string
	for _, gen := range []func(*report.Packet) string{
		GenerateHoursChart,
		GenerateRatesChart,
		GenerateTrendChart,
		GenerateTrendRatesChart,
	} {
		if c := gen(p); c != "" {
			charts = append(charts, c)
		}
	}
	return charts
}

func quoteLabels(labels []string) string {
	quoted := make([]string, 0, len(labels))
	for _, l := range labels {
		// Mermaid has no escape for quotes inside a label
		quoted = append(quoted, fmt.Sprintf("\"%s\"", strings.ReplaceAll(l, "\"", "'")))
	}
	return strings.Join(quoted, ", ")
}

func joinFloats(values []float64) string {
	parts := make([]string, 0, len(values))
	for _, v := range values {
		parts = append(parts, fmt.Sprintf("%.1f", v))
	}
	return strings.Join(parts, ", ")
}

// percentCeiling keeps the axis at 100 unless a value overshoots it.
func percentCeiling(series ...[]float64) int {
	maxY := 100.0
	for _, s := range series {
		for _, v := range s {
			if v > maxY {
				maxY = v * 1.1
			}
		}
	}
	return int(math.Ceil(maxY))
}

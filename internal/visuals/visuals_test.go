package visuals

import (
	"bytes"
	"strings"
	"testing"

	"classpulse/internal/dataset"
	"classpulse/internal/report"
	"classpulse/internal/schema"
)

func samplePacket(t *testing.T) *report.Packet {
	t.Helper()
	tbl := dataset.Table{
		Columns: []string{"week", "class", "hours", "attendance", "correctness"},
		Rows: [][]string{
			{"2024-09-02", "ClassA", "10", "0.9", "0.8"},
			{"2024-09-02", "ClassB", "5", "0.7", "0.6"},
			{"2024-09-09", "ClassA", "12", "0.95", "0.85"},
			{"2024-09-09", "ClassB", "6", "0.6", "0.7"},
		},
	}
	p, err := report.Build(tbl, schema.Default())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return p
}

func TestMermaidCharts(t *testing.T) {
	p := samplePacket(t)

	tests := []struct {
		name     string
		gen      func(*report.Packet) string
		contains []string
	}{
		{"Hours", GenerateHoursChart, []string{"xychart-beta", `x-axis ["ClassA", "ClassB"]`, "bar [12, 6]"}},
		{"Rates", GenerateRatesChart, []string{"line [95.0, 60.0]", "line [85.0, 70.0]", "0 --> 100"}},
		{"Trend", GenerateTrendChart, []string{`x-axis ["09-02", "09-09"]`, "bar [15, 18]"}},
		{"TrendRates", GenerateTrendRatesChart, []string{"line [80.0, 77.5]", "line [0.0, 0.0]"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := tt.gen(p)
			if !strings.HasPrefix(out, "```mermaid\n") || !strings.HasSuffix(out, "```") {
				t.Fatalf("chart is not a mermaid block:\n%s", out)
			}
			for _, want := range tt.contains {
				if !strings.Contains(out, want) {
					t.Errorf("chart missing %q:\n%s", want, out)
				}
			}
		})
	}

	if got := len(GenerateAll(p)); got != 4 {
		t.Errorf("Expected 4 charts, got %d", got)
	}
}

func TestMermaidCharts_Empty(t *testing.T) {
	empty := &report.Packet{}
	if GenerateHoursChart(empty) != "" || GenerateTrendChart(empty) != "" || GenerateTrendRatesChart(nil) != "" {
		t.Error("empty packet should produce no charts")
	}
	if len(GenerateAll(nil)) != 0 {
		t.Error("nil packet should produce no charts")
	}
}

func TestQuoteLabels(t *testing.T) {
	got := quoteLabels([]string{`a"b`, "c"})
	if got != `"a'b", "c"` {
		t.Errorf("quoteLabels mismatch: got %s", got)
	}
}

func TestRenderHTML(t *testing.T) {
	p := samplePacket(t)

	var buf bytes.Buffer
	if err := RenderHTML(&buf, p, RenderOptions{Title: "Week 37"}); err != nil {
		t.Fatalf("RenderHTML failed: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"<title>Week 37</title>",
		DefaultEChartsURL,
		"2024-09-09",
		`<tr class="below"><td>ClassB</td>`,
		"<tr><td>ClassA</td>",
		`id="trend-rates"`,
		"echarts.init",
		`"trend-volume"`,
		`<html lang="zh-CN">`,
		"平均出勤率",
		"<th>班级</th>",
		"维度 4：全周期历史趋势",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q", want)
		}
	}

	// The embedded script is shipped minified.
	if strings.Contains(out, "var element") {
		t.Error("script was not minified")
	}
}

func TestRenderHTML_DefaultTitle(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderHTML(&buf, samplePacket(t), RenderOptions{}); err != nil {
		t.Fatalf("RenderHTML failed: %v", err)
	}
	if !strings.Contains(buf.String(), "<title>"+DefaultTitle+"</title>") {
		t.Errorf("report should fall back to %q", DefaultTitle)
	}
}

func TestChartOptions_SeriesNames(t *testing.T) {
	opts := ChartOptions(samplePacket(t))
	series := opts["trend-rates"].(map[string]any)["series"].([]map[string]any)
	var names []string
	for _, s := range series {
		names = append(names, s["name"].(string))
	}
	if got := strings.Join(names, ","); got != "平均出勤,平均正确,完课率" {
		t.Errorf("series names mismatch: got %s", got)
	}
}

func TestRenderHTML_NilPacket(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderHTML(&buf, nil, RenderOptions{}); err == nil {
		t.Error("expected an error for a nil packet")
	}
}

func TestMinifyJS_SyntaxError(t *testing.T) {
	if _, err := minifyJS("function ("); err == nil {
		t.Error("expected esbuild to reject invalid script")
	}
}

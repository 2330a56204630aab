package visuals

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"strings"
	"sync"

	"github.com/evanw/esbuild/pkg/api"

	"classpulse/internal/report"
)

// DefaultEChartsURL is the ECharts bundle referenced by rendered reports.
const DefaultEChartsURL = "https://cdn.jsdelivr.net/npm/echarts@5/dist/echarts.min.js"

// DefaultTitle heads reports rendered without an explicit title.
const DefaultTitle = "AI课堂教学数据分析周报"

//go:embed assets/report.html.gotmpl assets/report.js
var assets embed.FS

var reportTemplate = mustParseFS(assets)

func mustParseFS(fsys embed.FS) *template.Template {
	t, err := template.ParseFS(fsys, "assets/report.html.gotmpl")
	if err != nil {
		panic(err)
	}
	return t
}

// minifiedScript is computed once; the source is embedded and never changes.
var minifiedScript = sync.OnceValues(func() (template.JS, error) {
	src, err := assets.ReadFile("assets/report.js")
	if err != nil {
		return "", err
	}
	return minifyJS(string(src))
})

// RenderOptions controls presentation only; it never changes packet values.
type RenderOptions struct {
	Title      string
	EChartsURL string
}

type htmlData struct {
	Title      string
	EChartsURL string
	Packet     *report.Packet
	Options    template.JS
	Script     template.JS
}

// RenderHTML writes a standalone HTML report for the packet.
func RenderHTML(w io.Writer, p *report.Packet, opts RenderOptions) error {
	if p == nil {
		return fmt.Errorf("no packet to render")
	}
	if opts.Title == "" {
		opts.Title = DefaultTitle
	}
	if opts.EChartsURL == "" {
		opts.EChartsURL = DefaultEChartsURL
	}

	options, err := json.Marshal(ChartOptions(p))
	if err != nil {
		return fmt.Errorf("failed to encode chart options: %w", err)
	}

	script, err := minifiedScript()
	if err != nil {
		return fmt.Errorf("failed to prepare report script: %w", err)
	}

	data := htmlData{
		Title:      opts.Title,
		EChartsURL: opts.EChartsURL,
		Packet:     p,
		Options:    template.JS(options),
		Script:     script,
	}
	if err := reportTemplate.ExecuteTemplate(w, "report.html.gotmpl", data); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	return nil
}

// ChartOptions builds the ECharts option objects keyed by the element id they render into.
func ChartOptions(p *report.Packet) map[string]any {
	c := p.ClassesByName
	tr := p.Trend

	return map[string]any{
		"classes": map[string]any{
			"title":   map[string]any{"text": "班级效能 (" + p.TargetWeek + ")"},
			"tooltip": map[string]any{"trigger": "axis"},
			"legend":  map[string]any{"top": 28},
			"grid":    map[string]any{"top": 70},
			"xAxis":   map[string]any{"type": "category", "data": c.Names},
			"yAxis": []map[string]any{
				{"type": "value", "name": "课时"},
				{"type": "value", "name": "%", "max": 100},
			},
			"series": []map[string]any{
				{"name": "课时数", "type": "bar", "data": c.Hours},
				{"name": "出勤率", "type": "line", "yAxisIndex": 1, "data": c.AttendancePct},
				{"name": "正确率", "type": "line", "yAxisIndex": 1, "data": c.CorrectnessPct},
			},
		},
		"trend-volume": map[string]any{
			"title":   map[string]any{"text": "布置时长与观看时长"},
			"tooltip": map[string]any{"trigger": "axis"},
			"legend":  map[string]any{"top": 28},
			"grid":    map[string]any{"top": 70},
			"xAxis":   map[string]any{"type": "category", "data": tr.Dates},
			"yAxis": []map[string]any{
				{"type": "value", "name": "课时"},
				{"type": "value", "name": "分钟"},
			},
			"series": []map[string]any{
				{"name": "总课时", "type": "bar", "data": tr.Hours},
				{"name": "老师布置时长", "type": "line", "yAxisIndex": 1, "data": tr.AssignedMinutesSum},
				{"name": "学生观看时长", "type": "line", "yAxisIndex": 1, "data": tr.WatchedMinutesSum},
			},
		},
		"trend-rates": map[string]any{
			"title":   map[string]any{"text": "历史趋势 (出勤/正确/完课)"},
			"tooltip": map[string]any{"trigger": "axis"},
			"legend":  map[string]any{"top": 28},
			"grid":    map[string]any{"top": 70},
			"xAxis":   map[string]any{"type": "category", "data": tr.Dates},
			"yAxis":   map[string]any{"type": "value", "name": "%", "max": 100},
			"series": []map[string]any{
				{"name": "平均出勤", "type": "line", "data": tr.AttendancePct},
				{"name": "平均正确", "type": "line", "data": tr.CorrectnessPct},
				{"name": "完课率", "type": "line", "data": tr.CompletionPct},
			},
		},
	}
}

func minifyJS(src string) (template.JS, error) {
	result := api.Transform(src, api.TransformOptions{
		Loader:            api.LoaderJS,
		MinifyWhitespace:  true,
		MinifyIdentifiers: true,
		MinifySyntax:      true,
	})
	if len(result.Errors) > 0 {
		msgs := make([]string, 0, len(result.Errors))
		for _, m := range result.Errors {
			msgs = append(msgs, m.Text)
		}
		return "", fmt.Errorf("esbuild: %s", strings.Join(msgs, "; "))
	}
	return template.JS(strings.TrimSpace(string(result.Code))), nil
}

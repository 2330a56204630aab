package mcp

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"classpulse/internal/dataset"
	"classpulse/internal/report"
	"classpulse/internal/stats"
	"classpulse/internal/visuals"
)

// BuildReportInput is the argument of build_report.
type BuildReportInput struct {
	Path  string `json:"path" jsonschema:"path to the .xlsx or .csv export; relative paths resolve against DATA_PATH"`
	Sheet string `json:"sheet,omitempty" jsonschema:"workbook sheet name; defaults to the first sheet"`
}

// RenderReportInput is the argument of render_report.
type RenderReportInput struct {
	Path   string `json:"path" jsonschema:"path to the .xlsx or .csv export; relative paths resolve against DATA_PATH"`
	Sheet  string `json:"sheet,omitempty" jsonschema:"workbook sheet name; defaults to the first sheet"`
	Output string `json:"output,omitempty" jsonschema:"HTML file to write; defaults to REPORT_DIR/<input>-<week>.html"`
	Title  string `json:"title,omitempty" jsonschema:"report heading; defaults to REPORT_TITLE"`
}

// InspectColumnsInput is the argument of inspect_columns.
type InspectColumnsInput struct {
	Path  string `json:"path" jsonschema:"path to the .xlsx or .csv export; relative paths resolve against DATA_PATH"`
	Sheet string `json:"sheet,omitempty" jsonschema:"workbook sheet name; defaults to the first sheet"`
}

// ColumnReport is the inspect_columns result.
type ColumnReport struct {
	Columns []string            `json:"columns"`
	Rows    int                 `json:"rows"`
	Matches []stats.ColumnMatch `json:"matches"`
	Missing []string            `json:"missing,omitempty"`
}

func (s *Server) handleBuildReport(in BuildReportInput) ([]string, error) {
	if in.Path == "" {
		return nil, fmt.Errorf("path is required")
	}
	path := s.resolvePath(in.Path)

	p, err := report.BuildFile(path, in.Sheet, s.mapping)
	if err != nil {
		log.Error().Err(err).Str("path", path).Msg("build_report failed")
		return nil, err
	}
	log.Info().Str("path", path).Str("week", p.TargetWeek).Int("classes", p.Meta.Classes).Msg("Built report packet")

	text, err := formatResult(p)
	if err != nil {
		return nil, err
	}
	texts := []string{text}
	if s.cfg != nil && s.cfg.EnableMermaidCharts {
		texts = append(texts, visuals.GenerateAll(p)...)
	}
	return texts, nil
}

func (s *Server) handleRenderReport(in RenderReportInput) (string, error) {
	if in.Path == "" {
		return "", fmt.Errorf("path is required")
	}
	path := s.resolvePath(in.Path)

	p, err := report.BuildFile(path, in.Sheet, s.mapping)
	if err != nil {
		log.Error().Err(err).Str("path", path).Msg("render_report failed")
		return "", err
	}

	out := in.Output
	if out == "" {
		dir := "."
		if s.cfg != nil && s.cfg.ReportDir != "" {
			dir = s.cfg.ReportDir
		}
		out = filepath.Join(dir, report.FileStem(path, p)+".html")
	} else {
		out = s.resolvePath(out)
	}

	title := in.Title
	if title == "" && s.cfg != nil {
		title = s.cfg.ReportTitle
	}

	if err := writeHTML(out, p, title); err != nil {
		return "", err
	}
	log.Info().Str("output", out).Msg("Rendered HTML report")
	return out, nil
}

func (s *Server) handleInspectColumns(in InspectColumnsInput) (string, error) {
	if in.Path == "" {
		return "", fmt.Errorf("path is required")
	}
	t, err := dataset.Load(s.resolvePath(in.Path), in.Sheet)
	if err != nil {
		return "", err
	}

	res, err := stats.ResolveColumns(t.Columns, s.mapping)
	cr := ColumnReport{Columns: t.Columns, Rows: t.Len(), Matches: res.Matches}

	var schemaErr *stats.SchemaError
	if errors.As(err, &schemaErr) {
		for _, f := range schemaErr.Missing {
			cr.Missing = append(cr.Missing, f.Field)
		}
	} else if err != nil {
		return "", err
	}

	return formatResult(cr)
}

func writeHTML(path string, p *report.Packet, title string) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return visuals.RenderHTML(f, p, visuals.RenderOptions{Title: title})
}

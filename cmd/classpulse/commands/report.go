package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/browser"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"classpulse/internal/report"
	"classpulse/internal/visuals"
)

var reportOpts struct {
	out    string
	format string
	sheet  string
	title  string
	open   bool
}

var reportCmd = &cobra.Command{
	Use:   "report <file>...",
	Short: "Build report packets for one or more weekly exports",
	Long: `Builds the report packet for each input file and writes it to the output directory.
Formats: json (packet), html (standalone report), csv (ranked detail table), both (json + html).
Files are processed concurrently (WORKERS); the first failure cancels the batch.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runReport(cmd.Context(), args)
	},
}

func init() {
	reportCmd.Flags().StringVarP(&reportOpts.out, "out", "o", "", "output directory (default REPORT_DIR)")
	reportCmd.Flags().StringVarP(&reportOpts.format, "format", "f", "both", "output format: json, html, csv or both")
	reportCmd.Flags().StringVar(&reportOpts.sheet, "sheet", "", "workbook sheet name (default first sheet)")
	reportCmd.Flags().StringVar(&reportOpts.title, "title", "", "HTML report title (default REPORT_TITLE)")
	reportCmd.Flags().BoolVar(&reportOpts.open, "open", false, "open the HTML report in the default browser")
	rootCmd.AddCommand(reportCmd)
}

type outputSet struct {
	json, html, csv bool
}

func parseFormat(format string) (outputSet, error) {
	switch strings.ToLower(format) {
	case "json":
		return outputSet{json: true}, nil
	case "html":
		return outputSet{html: true}, nil
	case "csv":
		return outputSet{csv: true}, nil
	case "both", "":
		return outputSet{json: true, html: true}, nil
	default:
		return outputSet{}, fmt.Errorf("unknown format %q (expected json, html, csv or both)", format)
	}
}

func runReport(ctx context.Context, files []string) error {
	outputs, err := parseFormat(reportOpts.format)
	if err != nil {
		return err
	}

	outDir := reportOpts.out
	if outDir == "" {
		outDir = cfg.ReportDir
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	title := reportOpts.title
	if title == "" {
		title = cfg.ReportTitle
	}

	runLog := log.With().Str("run", uuid.NewString()).Logger()
	runLog.Info().Int("files", len(files)).Int("workers", cfg.Workers).Str("out", outDir).Msg("Report run started")

	htmlPaths := make([]string, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)

	for i, path := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			written, err := buildOne(path, outDir, title, outputs, runLog)
			if err != nil {
				return err
			}
			htmlPaths[i] = written
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		runLog.Error().Err(err).Msg("Report run failed")
		return err
	}
	runLog.Info().Msg("Report run finished")

	if reportOpts.open {
		openReports(htmlPaths, runLog)
	}
	return nil
}

var openBrowser = browser.OpenFile

// openReports opens each written HTML report. Entries are empty for files
// that produced no HTML output.
func openReports(paths []string, logger zerolog.Logger) {
	for _, p := range paths {
		if p == "" {
			continue
		}
		if err := openBrowser(p); err != nil {
			logger.Warn().Err(err).Str("path", p).Msg("Failed to open report in browser")
		}
	}
}

// buildOne builds one packet and writes the requested outputs. It returns the
// HTML path when one was written.
func buildOne(path, outDir, title string, outputs outputSet, logger zerolog.Logger) (string, error) {
	p, err := report.BuildFile(path, reportOpts.sheet, mapping)
	if err != nil {
		return "", err
	}
	stem := filepath.Join(outDir, report.FileStem(path, p))

	logger.Info().
		Str("input", path).
		Str("week", p.TargetWeek).
		Int("rows", p.Meta.Rows).
		Int("dropped", p.Meta.DroppedRows).
		Int("classes", p.Meta.Classes).
		Msg("Built packet")
	if p.Meta.DroppedRows > 0 {
		logger.Warn().Str("input", path).Int("dropped", p.Meta.DroppedRows).Msg("Rows without a week or class were skipped")
	}

	if outputs.json {
		if err := writeAtomic(stem+".json", func(w io.Writer) error {
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			return enc.Encode(p)
		}); err != nil {
			return "", err
		}
		if cfg.EnableMermaidCharts {
			if err := writeAtomic(stem+".charts.md", func(w io.Writer) error {
				_, err := io.WriteString(w, strings.Join(visuals.GenerateAll(p), "\n\n")+"\n")
				return err
			}); err != nil {
				return "", err
			}
		}
	}

	if outputs.csv {
		if err := writeAtomic(stem+".csv", p.WriteDetailCSV); err != nil {
			return "", err
		}
	}

	htmlPath := ""
	if outputs.html {
		htmlPath = stem + ".html"
		if err := writeAtomic(htmlPath, func(w io.Writer) error {
			return visuals.RenderHTML(w, p, visuals.RenderOptions{Title: title})
		}); err != nil {
			return "", err
		}
	}
	return htmlPath, nil
}

// writeAtomic writes through a temp file so a failed write never leaves a partial output.
func writeAtomic(path string, write func(io.Writer) error) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := write(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

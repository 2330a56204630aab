package commands

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"classpulse/internal/dataset"
	"classpulse/internal/stats"
)

var columnsSheet string

var columnsCmd = &cobra.Command{
	Use:   "columns <file>",
	Short: "Show which column each logical field resolves to",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := dataset.Load(args[0], columnsSheet)
		if err != nil {
			return err
		}

		res, resolveErr := stats.ResolveColumns(t.Columns, mapping)

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "FIELD\tMATCH\tCOLUMN")
		for _, m := range res.Matches {
			column := m.Column
			if m.Index < 0 {
				column = "-"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", m.Field, m.Via, column)
		}
		if err := w.Flush(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "\n%d data rows, %d columns\n", t.Len(), len(t.Columns))

		var schemaErr *stats.SchemaError
		if errors.As(resolveErr, &schemaErr) {
			fmt.Fprintf(os.Stderr, "\nHeaders found: %q\n", t.Columns)
		}
		return resolveErr
	},
}

func init() {
	columnsCmd.Flags().StringVar(&columnsSheet, "sheet", "", "workbook sheet name (default first sheet)")
	rootCmd.AddCommand(columnsCmd)
}

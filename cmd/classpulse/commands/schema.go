package commands

import (
	"github.com/spf13/cobra"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the effective schema mapping as YAML",
	Long: `Prints the schema mapping in use (the --schema file, SCHEMA_FILE, or the built-in default).
Redirect it to a file to start a custom mapping.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out, err := mapping.Marshal()
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(out)
		return err
	},
}

func init() {
	rootCmd.AddCommand(schemaCmd)
}

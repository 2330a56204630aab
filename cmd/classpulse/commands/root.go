package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"classpulse/internal/config"
	"classpulse/internal/logging"
	"classpulse/internal/schema"
)

var (
	// Version, Commit, and BuildDate are set at build time via ldflags.
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"

	verbose    bool
	schemaFile string

	cfg     *config.AppConfig
	mapping schema.Mapping
)

var rootCmd = &cobra.Command{
	Use:   "classpulse",
	Short: "Weekly class activity reports from spreadsheet exports",
	Long: `classpulse turns a weekly class activity export (.xlsx or .csv) into a report data packet:
reporting-week KPIs, per-class comparisons in natural class order, a ranking by hours with
below-average attendance flagged, and the week-by-week trend.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logging.Init(verbose)

		var err error
		cfg, err = config.Load()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load configuration")
		}

		mapping, err = cfg.Mapping(schemaFile)
		if err != nil {
			return err
		}

		log.Debug().
			Str("version", Version).
			Str("commit", Commit).
			Str("buildDate", BuildDate).
			Msg("classpulse starting")
		return nil
	},
}

// Execute runs the root command; SIGINT and SIGTERM cancel the command context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&schemaFile, "schema", "", "YAML schema mapping file (overrides SCHEMA_FILE)")
	rootCmd.Version = Version
}

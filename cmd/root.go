package cmd

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/lehigh-university-libraries/bookmerge/internal/config"
	"github.com/lehigh-university-libraries/bookmerge/internal/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// app carries what PersistentPreRunE prepares for the subcommands.
type app struct {
	cfg *config.Config
	log *zap.Logger
}

func NewRootCmd() *cobra.Command {
	a := &app{}
	var verbose bool

	cmd := &cobra.Command{
		Use:   "bookmerge",
		Short: "Merge Goodreads and Google Books records into one canonical book set",
		Long: `Bookmerge reconciles scraped Goodreads records with Google Books enrichment data.

It matches records by id, ISBN-13 or title and first author, merges conflicting
fields with survivorship rules, assigns a stable canonical id to every book and
keeps the most complete record per id.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			if verbose {
				cfg.Log.Level = "debug"
			}

			log, err := logger.New(cfg.Log)
			if err != nil {
				return fmt.Errorf("failed to build logger: %w", err)
			}
			a.cfg = cfg
			a.log = log
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
	}

	cmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Verbose logging")

	cmd.AddCommand(newMergeCmd(a))
	cmd.AddCommand(newInspectCmd(a))

	return cmd
}

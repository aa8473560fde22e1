package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/lehigh-university-libraries/bookmerge/internal/normalize"
	"github.com/lehigh-university-libraries/bookmerge/internal/pipeline"
	"github.com/spf13/cobra"
)

func newInspectCmd(a *app) *cobra.Command {
	var in inputFlags
	var limit int

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Show how each Goodreads record would match, without writing anything",
		Example: `  # Show the first 20 match decisions
  bookmerge inspect --limit 20`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.baseConfig()
			in.resolve(cfg)

			primary, secondary, err := loadInputs(a.log, cfg)
			if err != nil {
				return err
			}
			res := pipeline.New(cfg.rules, a.log).Run(primary, secondary)

			out := cmd.OutOrStdout()
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tMETHOD\tCANONICAL_ID\tTITLE")
			for i, d := range res.Details {
				if limit > 0 && i >= limit {
					break
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", d.GBID, d.MergeMethod, d.CanonicalID, normalize.String(primary[i].Title))
			}
			if err := tw.Flush(); err != nil {
				return fmt.Errorf("failed to write table: %w", err)
			}

			fmt.Fprintf(out, "\n%d records, %d canonical books, %d matched\n",
				res.Metrics.RowsInputGoodreads, res.Metrics.RowsOutput, res.Metrics.MatchedWithGoogle)
			return nil
		},
	}

	in.register(cmd)
	cmd.Flags().IntVar(&limit, "limit", 0, "Show at most this many records (0 for all)")

	return cmd
}

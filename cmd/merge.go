package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/lehigh-university-libraries/bookmerge/internal/catalogdb"
	"github.com/lehigh-university-libraries/bookmerge/internal/dataset"
	"github.com/lehigh-university-libraries/bookmerge/internal/merge"
	"github.com/lehigh-university-libraries/bookmerge/internal/metrics"
	"github.com/lehigh-university-libraries/bookmerge/internal/pipeline"
	"github.com/lehigh-university-libraries/bookmerge/internal/records"
	"github.com/lehigh-university-libraries/bookmerge/internal/results"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	booksFile   = "dim_book.parquet"
	detailFile  = "book_source_detail.parquet"
	metricsFile = "quality_metrics.json"
)

// inputFlags are shared by merge and inspect.
type inputFlags struct {
	goodreads     string
	googleParquet string
	googleCSV     string
	googleVolumes string
	prefer        string
}

func (f *inputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.goodreads, "goodreads", "", "Goodreads JSONL file (default from BOOKMERGE_PATHS_GOODREADS)")
	cmd.Flags().StringVar(&f.googleParquet, "google-parquet", "", "Google Books parquet file, preferred over the CSV")
	cmd.Flags().StringVar(&f.googleCSV, "google-csv", "", "Google Books ';'-separated CSV file")
	cmd.Flags().StringVar(&f.googleVolumes, "google-volumes", "", "Saved Google Books API volumes (JSON response or JSONL)")
	cmd.Flags().StringVar(&f.prefer, "prefer", "", "Source that wins field conflicts (goodreads or google)")
}

func (f *inputFlags) resolve(cfg *runConfig) {
	cfg.goodreads = firstNonEmpty(f.goodreads, cfg.goodreads)
	cfg.googleParquet = firstNonEmpty(f.googleParquet, cfg.googleParquet)
	cfg.googleCSV = firstNonEmpty(f.googleCSV, cfg.googleCSV)
	cfg.googleVolumes = firstNonEmpty(f.googleVolumes, cfg.googleVolumes)
	if f.prefer != "" {
		cfg.rules.Prefer = f.prefer
	}
}

// runConfig is the resolved view of flags over environment settings.
type runConfig struct {
	goodreads     string
	googleParquet string
	googleCSV     string
	googleVolumes string
	standardDir   string
	docsDir       string
	reportsDir    string
	sqlite        string
	noReport      bool
	rules         merge.Rules
}

func (a *app) baseConfig() *runConfig {
	p := a.cfg.Paths
	return &runConfig{
		goodreads:     p.Goodreads,
		googleParquet: p.GoogleParquet,
		googleCSV:     p.GoogleCSV,
		googleVolumes: p.GoogleVolumes,
		standardDir:   p.StandardDir,
		docsDir:       p.DocsDir,
		reportsDir:    p.ReportsDir,
		sqlite:        p.SQLite,
		rules:         a.cfg.Merge.Rules(),
	}
}

func newMergeCmd(a *app) *cobra.Command {
	var in inputFlags
	var standardDir, docsDir, reportsDir, sqlitePath string
	var noReport bool

	cmd := &cobra.Command{
		Use:   "merge",
		Short: "Build the canonical book set and provenance ledger",
		Long: `Reads the Goodreads landing file and the Google Books enrichment data, merges them
and writes:

  <standard-dir>/dim_book.parquet (+ .csv)            canonical books
  <standard-dir>/book_source_detail.parquet (+ .csv)  one match entry per Goodreads record
  <docs-dir>/quality_metrics.json                      summary metrics
  <reports-dir>/merge-<timestamp>.yaml                 run report

Every run recomputes the full set, so re-running over the same inputs yields the
same canonical ids.`,
		Example: `  # Merge with the default landing paths
  bookmerge merge

  # Merge explicit files and mirror the result into SQLite
  bookmerge merge --goodreads landing/goodreads_books.json --google-csv landing/googlebooks_books.csv --sqlite books.db`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.baseConfig()
			in.resolve(cfg)
			cfg.standardDir = firstNonEmpty(standardDir, cfg.standardDir)
			cfg.docsDir = firstNonEmpty(docsDir, cfg.docsDir)
			cfg.reportsDir = firstNonEmpty(reportsDir, cfg.reportsDir)
			cfg.sqlite = firstNonEmpty(sqlitePath, cfg.sqlite)
			cfg.noReport = noReport

			return executeMerge(cmd.Context(), a.log, cfg)
		},
	}

	in.register(cmd)
	cmd.Flags().StringVar(&standardDir, "standard-dir", "", "Directory for dim_book and book_source_detail")
	cmd.Flags().StringVar(&docsDir, "docs-dir", "", "Directory for quality_metrics.json")
	cmd.Flags().StringVar(&reportsDir, "reports-dir", "", "Directory for YAML run reports")
	cmd.Flags().StringVar(&sqlitePath, "sqlite", "", "Also replace the contents of this SQLite database")
	cmd.Flags().BoolVar(&noReport, "no-report", false, "Skip the YAML run report")

	return cmd
}

func executeMerge(ctx context.Context, log *zap.Logger, cfg *runConfig) error {
	primary, secondary, err := loadInputs(log, cfg)
	if err != nil {
		return err
	}

	engine := pipeline.New(cfg.rules, log)
	res := engine.Run(primary, secondary)

	writer := results.NewWriter(log)
	if err := writer.SaveBooks(filepath.Join(cfg.standardDir, booksFile), res.Books); err != nil {
		return fmt.Errorf("failed to save canonical books: %w", err)
	}
	if err := writer.SaveDetails(filepath.Join(cfg.standardDir, detailFile), res.Details); err != nil {
		return fmt.Errorf("failed to save match details: %w", err)
	}

	metricsPath := filepath.Join(cfg.docsDir, metricsFile)
	if err := results.SaveMetrics(metricsPath, res.Metrics); err != nil {
		return err
	}
	log.Info("Metrics saved", zap.String("path", metricsPath))

	if !cfg.noReport {
		report := results.NewRunReport(res, cfg.rules, cfg.goodreads, secondaryLabel(cfg))
		path, err := results.SaveToYAML(cfg.reportsDir, report, engine.Now())
		if err != nil {
			return err
		}
		log.Info("Run report saved", zap.String("path", path))
	}

	if cfg.sqlite != "" {
		store, err := catalogdb.Open(cfg.sqlite)
		if err != nil {
			return err
		}
		defer store.Close()
		if err := store.Replace(ctx, res.RunID, res.Books, res.Details); err != nil {
			return err
		}
		log.Info("SQLite catalog replaced", zap.String("path", cfg.sqlite), zap.Int("books", len(res.Books)))
	}

	printSummary(res.Metrics, metrics.MethodCounts(res.Details))
	return nil
}

// loadInputs reads both collections. Only an unreadable primary file is fatal.
func loadInputs(log *zap.Logger, cfg *runConfig) ([]records.PrimaryRecord, []records.SecondaryRecord, error) {
	loader := dataset.NewLoader(log)

	primary, err := loader.LoadPrimary(cfg.goodreads)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load goodreads records: %w", err)
	}

	secondary := loader.LoadSecondarySources(cfg.googleParquet, cfg.googleCSV)
	if cfg.googleVolumes != "" {
		vols, err := loader.LoadVolumes(cfg.googleVolumes)
		if err != nil {
			log.Warn("Failed to read volumes, ignoring them", zap.String("path", cfg.googleVolumes), zap.Error(err))
		} else {
			secondary = append(secondary, vols...)
		}
	}

	log.Info("Inputs loaded", zap.Int("goodreads", len(primary)), zap.Int("google", len(secondary)))
	return primary, secondary, nil
}

func secondaryLabel(cfg *runConfig) string {
	for _, p := range []string{cfg.googleParquet, cfg.googleCSV, cfg.googleVolumes} {
		if p != "" {
			return p
		}
	}
	return ""
}

func printSummary(s metrics.Summary, methods map[string]int) {
	fmt.Println("\n========================================")
	fmt.Println("Merge Summary")
	fmt.Println("========================================")
	fmt.Printf("Goodreads rows:        %d\n", s.RowsInputGoodreads)
	fmt.Printf("Canonical books:       %d\n", s.RowsOutput)
	fmt.Printf("Matched with Google:   %d\n", s.MatchedWithGoogle)
	fmt.Printf("Duplicates removed:    %d\n", s.DuplicatesRemoved)
	fmt.Printf("With ISBN-13:          %.2f%%\n", s.PercentWithISBN13)
	fmt.Printf("With ISBN-10:          %.2f%%\n", s.PercentWithISBN10)
	fmt.Printf("With categories:       %.2f%%\n", s.PercentWithCategories)
	fmt.Printf("With publication date: %.2f%%\n", s.PercentWithPubDate)
	fmt.Println("\nMerge methods:")
	for _, m := range []records.MergeMethod{records.MethodID, records.MethodISBN, records.MethodHeuristic, records.MethodNone} {
		fmt.Printf("  %-10s %d\n", m, methods[string(m)])
	}
	fmt.Println("\nSource preference:")
	for label, n := range s.SourcePreferenceCounts {
		fmt.Printf("  %-10s %d\n", label, n)
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

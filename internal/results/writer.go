// Package results persists the outputs of a merge run.
package results

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/lehigh-university-libraries/bookmerge/internal/metrics"
	"github.com/lehigh-university-libraries/bookmerge/internal/records"
	"github.com/parquet-go/parquet-go"
	"go.uber.org/zap"
)

// CSVSeparator separates fields in the CSV copies.
const CSVSeparator = ';'

// Writer saves each output as parquet plus a CSV copy next to it.
type Writer struct {
	log *zap.Logger
}

// NewWriter creates a writer. A nil logger disables logging.
func NewWriter(log *zap.Logger) *Writer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Writer{log: log}
}

// SaveBooks writes the canonical set to path and its .csv sibling.
func (w *Writer) SaveBooks(path string, books []records.CanonicalBookRecord) error {
	return saveRobust(w, path, books, records.BookColumns, bookRow)
}

// SaveDetails writes the match ledger to path and its .csv sibling.
func (w *Writer) SaveDetails(path string, details []records.MatchDetail) error {
	return saveRobust(w, path, details, records.DetailColumns, detailRow)
}

// saveRobust skips empty outputs, tolerates a parquet failure and always
// attempts the CSV copy.
func saveRobust[T any](w *Writer, path string, rows []T, header []string, toRow func(*T) []string) error {
	if len(rows) == 0 {
		w.log.Warn("Nothing to save", zap.String("path", path))
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := writeParquet(path, rows); err != nil {
		w.log.Warn("Could not write parquet, keeping CSV only", zap.String("path", path), zap.Error(err))
	} else {
		w.log.Info("Saved parquet", zap.String("path", path), zap.Int("rows", len(rows)))
	}

	csvPath := strings.TrimSuffix(path, filepath.Ext(path)) + ".csv"
	if err := writeCSV(csvPath, rows, header, toRow); err != nil {
		return fmt.Errorf("failed to write csv %s: %w", csvPath, err)
	}
	w.log.Info("Saved csv", zap.String("path", csvPath), zap.Int("rows", len(rows)))
	return nil
}

func writeParquet[T any](path string, rows []T) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	pw := parquet.NewGenericWriter[T](file)
	if _, err := pw.Write(rows); err != nil {
		return err
	}
	if err := pw.Close(); err != nil {
		return err
	}
	return file.Close()
}

func writeCSV[T any](path string, rows []T, header []string, toRow func(*T) []string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	cw := csv.NewWriter(file)
	cw.Comma = CSVSeparator
	if err := cw.Write(header); err != nil {
		return err
	}
	for i := range rows {
		if err := cw.Write(toRow(&rows[i])); err != nil {
			return err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}
	return file.Close()
}

func bookRow(b *records.CanonicalBookRecord) []string {
	return []string{
		b.CanonicalID,
		str(b.ISBN13),
		str(b.ISBN10),
		str(b.Title),
		str(b.TitleNormalized),
		str(b.Authors),
		str(b.FirstAuthor),
		str(b.Publisher),
		str(b.PubDate),
		integer(b.PubYear),
		str(b.Language),
		str(b.Categories),
		integer(b.NumPages),
		str(b.Format),
		str(b.Description),
		float(b.RatingValue),
		integer(b.RatingCount),
		float(b.PriceAmount),
		str(b.PriceCurrency),
		b.SourcePreference,
		str(b.MostCompleteURL),
		str(b.IngestionDateGoodreads),
		str(b.IngestionDateGoogle),
	}
}

func detailRow(d *records.MatchDetail) []string {
	return []string{d.CanonicalID, d.GBID, strconv.FormatBool(d.FromGoogle), string(d.MergeMethod), d.Timestamp}
}

// SaveMetrics writes the summary as indented JSON.
func SaveMetrics(path string, summary metrics.Summary) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create metrics directory: %w", err)
	}
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal metrics: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write metrics: %w", err)
	}
	return nil
}

func str(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func integer(n *int64) string {
	if n == nil {
		return ""
	}
	return strconv.FormatInt(*n, 10)
}

func float(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}

package results

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/lehigh-university-libraries/bookmerge/internal/metrics"
	"github.com/lehigh-university-libraries/bookmerge/internal/records"
	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = CSVSeparator
	rows, err := r.ReadAll()
	require.NoError(t, err)
	return rows
}

func TestSaveBooks(t *testing.T) {
	title := "Dune"
	year := int64(1965)
	price := 9.5
	books := []records.CanonicalBookRecord{
		{CanonicalID: "abc", Title: &title, PubYear: &year, PriceAmount: &price, SourcePreference: "goodreads"},
		{CanonicalID: "def", SourcePreference: "google"},
	}
	path := filepath.Join(t.TempDir(), "standard", "dim_book.parquet")

	require.NoError(t, NewWriter(zap.NewNop()).SaveBooks(path, books))

	rows := readCSV(t, filepath.Join(filepath.Dir(path), "dim_book.csv"))
	require.Len(t, rows, 3)
	assert.Equal(t, records.BookColumns, rows[0])
	assert.Equal(t, "abc", rows[1][0])
	assert.Equal(t, "Dune", rows[1][3])
	assert.Equal(t, "1965", rows[1][9])
	assert.Equal(t, "9.5", rows[1][17])
	assert.Equal(t, "", rows[2][3])

	stored, err := parquet.ReadFile[records.CanonicalBookRecord](path)
	require.NoError(t, err)
	require.Len(t, stored, 2)
	assert.Equal(t, "abc", stored[0].CanonicalID)
	require.NotNil(t, stored[0].Title)
	assert.Equal(t, "Dune", *stored[0].Title)
	assert.Nil(t, stored[1].Title)
}

func TestSaveDetails(t *testing.T) {
	details := []records.MatchDetail{
		{CanonicalID: "abc", GBID: "1", FromGoogle: true, MergeMethod: records.MethodID, Timestamp: "2024-01-01T00:00:00.000000Z"},
		{CanonicalID: "def", GBID: "2", FromGoogle: false, MergeMethod: records.MethodNone, Timestamp: "2024-01-01T00:00:00.000000Z"},
	}
	dir := t.TempDir()

	require.NoError(t, NewWriter(nil).SaveDetails(filepath.Join(dir, "book_source_detail.parquet"), details))

	rows := readCSV(t, filepath.Join(dir, "book_source_detail.csv"))
	require.Len(t, rows, 3)
	assert.Equal(t, records.DetailColumns, rows[0])
	assert.Equal(t, []string{"abc", "1", "true", "id", "2024-01-01T00:00:00.000000Z"}, rows[1])
	assert.Equal(t, "none", rows[2][3])
	assert.FileExists(t, filepath.Join(dir, "book_source_detail.parquet"))
}

func TestSaveSkipsEmpty(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(zap.NewNop())

	require.NoError(t, w.SaveBooks(filepath.Join(dir, "dim_book.parquet"), nil))
	require.NoError(t, w.SaveDetails(filepath.Join(dir, "book_source_detail.parquet"), nil))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSaveMetrics(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docs", "quality_metrics.json")
	summary := metrics.Summary{
		GeneratedAt:            "2024-01-01T00:00:00.000000Z",
		RowsInputGoodreads:     3,
		RowsOutput:             2,
		PercentWithISBN13:      50,
		SourcePreferenceCounts: map[string]int{"goodreads": 2},
	}

	require.NoError(t, SaveMetrics(path, summary))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var decoded metrics.Summary
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, summary, decoded)
}

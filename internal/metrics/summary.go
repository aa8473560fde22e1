// Package metrics summarizes the quality of a merge run.
package metrics

import (
	"math"

	"github.com/lehigh-university-libraries/bookmerge/internal/records"
)

// Summary is written to quality_metrics.json.
type Summary struct {
	GeneratedAt            string         `json:"generated_at" yaml:"generated_at"`
	RowsInputGoodreads     int            `json:"rows_input_goodreads" yaml:"rows_input_goodreads"`
	RowsOutput             int            `json:"rows_output" yaml:"rows_output"`
	MatchedWithGoogle      int            `json:"matched_with_google" yaml:"matched_with_google"`
	PercentWithISBN13      float64        `json:"percent_with_isbn13" yaml:"percent_with_isbn13"`
	PercentWithISBN10      float64        `json:"percent_with_isbn10" yaml:"percent_with_isbn10"`
	PercentWithCategories  float64        `json:"percent_with_categories" yaml:"percent_with_categories"`
	PercentWithPubDate     float64        `json:"percent_with_pub_date" yaml:"percent_with_pub_date"`
	DuplicatesRemoved      int            `json:"duplicates_removed" yaml:"duplicates_removed"`
	SourcePreferenceCounts map[string]int `json:"source_preference_counts" yaml:"source_preference_counts"`
}

// Collect computes a Summary over the deduplicated books. inputRows is the
// number of primary records read and merged the number of canonical records
// before deduplication.
func Collect(generatedAt string, inputRows, merged int, books []records.CanonicalBookRecord, details []records.MatchDetail) Summary {
	s := Summary{
		GeneratedAt:            generatedAt,
		RowsInputGoodreads:     inputRows,
		RowsOutput:             len(books),
		DuplicatesRemoved:      merged - len(books),
		SourcePreferenceCounts: make(map[string]int),
	}

	for _, d := range details {
		if d.FromGoogle {
			s.MatchedWithGoogle++
		}
	}

	var isbn13, isbn10, categories, pubDate int
	for i := range books {
		b := &books[i]
		if b.ISBN13 != nil {
			isbn13++
		}
		if b.ISBN10 != nil {
			isbn10++
		}
		if b.Categories != nil {
			categories++
		}
		if b.PubDate != nil {
			pubDate++
		}
		if b.SourcePreference != "" {
			s.SourcePreferenceCounts[b.SourcePreference]++
		}
	}

	s.PercentWithISBN13 = percent(isbn13, len(books))
	s.PercentWithISBN10 = percent(isbn10, len(books))
	s.PercentWithCategories = percent(categories, len(books))
	s.PercentWithPubDate = percent(pubDate, len(books))

	return s
}

// percent is 100*n/total rounded to two decimals, or 0 for an empty total.
func percent(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(10000*float64(n)/float64(total)) / 100
}

// MethodCounts histograms the merge methods in the detail ledger.
func MethodCounts(details []records.MatchDetail) map[string]int {
	counts := make(map[string]int)
	for _, d := range details {
		counts[string(d.MergeMethod)]++
	}
	return counts
}

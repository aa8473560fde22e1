// Package matching pairs primary records with at most one secondary record.
package matching

import (
	"github.com/lehigh-university-libraries/bookmerge/internal/normalize"
	"github.com/lehigh-university-libraries/bookmerge/internal/records"
)

// KeySeparator joins the title and author parts of a heuristic key.
const KeySeparator = "||"

// Index holds O(1) lookups over the secondary collection. On key collisions
// the earliest record wins.
type Index struct {
	byID     map[string]*records.SecondaryRecord
	byISBN13 map[string]*records.SecondaryRecord
	byKey    map[string]*records.SecondaryRecord
	lists    normalize.Lists
}

// Stats reports index sizes.
type Stats struct {
	Records  int `json:"records" yaml:"records"`
	Skipped  int `json:"skipped" yaml:"skipped"`
	ByID     int `json:"by_id" yaml:"by_id"`
	ByISBN13 int `json:"by_isbn13" yaml:"by_isbn13"`
	ByKey    int `json:"by_title_author" yaml:"by_title_author"`
}

// BuildIndex indexes secondary by identifier, normalized ISBN-13 and heuristic
// key. Rows marked NOT_FOUND carry no enrichment data and are skipped.
// The index keeps pointers into secondary, which must not be modified afterwards.
func BuildIndex(secondary []records.SecondaryRecord, lists normalize.Lists) (*Index, Stats) {
	ix := &Index{
		byID:     make(map[string]*records.SecondaryRecord, len(secondary)),
		byISBN13: make(map[string]*records.SecondaryRecord, len(secondary)),
		byKey:    make(map[string]*records.SecondaryRecord, len(secondary)),
		lists:    lists,
	}
	stats := Stats{Records: len(secondary)}

	for i := range secondary {
		rec := &secondary[i]
		if rec.IsNotFound() {
			stats.Skipped++
			continue
		}
		if id := normalize.String(rec.GBID); id != "" {
			putFirst(ix.byID, id, rec)
		}
		if isbn := normalize.String(rec.ISBN13); isbn != "" {
			putFirst(ix.byISBN13, isbn, rec)
		}
		if key := HeuristicKey(rec.Title, rec.Authors, lists); key != "" {
			putFirst(ix.byKey, key, rec)
		}
	}

	stats.ByID = len(ix.byID)
	stats.ByISBN13 = len(ix.byISBN13)
	stats.ByKey = len(ix.byKey)
	return ix, stats
}

// HeuristicKey is normalizedTitle||firstAuthor, or "" when either part is missing.
func HeuristicKey(title, authors records.Value, lists normalize.Lists) string {
	t := normalize.Title(title)
	a := lists.FirstAuthor(authors)
	if t == "" || a == "" {
		return ""
	}
	return t + KeySeparator + a
}

func putFirst(m map[string]*records.SecondaryRecord, key string, rec *records.SecondaryRecord) {
	if _, exists := m[key]; !exists {
		m[key] = rec
	}
}

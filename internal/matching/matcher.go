package matching

import (
	"github.com/lehigh-university-libraries/bookmerge/internal/normalize"
	"github.com/lehigh-university-libraries/bookmerge/internal/records"
)

// Match is the outcome of looking up one primary record. Record is nil when
// Method is MethodNone.
type Match struct {
	Record *records.SecondaryRecord
	Method records.MergeMethod
}

// Found reports whether a secondary record was matched.
func (m Match) Found() bool { return m.Record != nil }

// Match tries identifier, then ISBN-13, then title/first-author key, and stops
// at the first hit.
func (ix *Index) Match(p *records.PrimaryRecord) Match {
	if id := normalize.String(p.ID); id != "" {
		if rec, ok := ix.byID[id]; ok {
			return Match{Record: rec, Method: records.MethodID}
		}
	}

	isbn := normalize.String(p.ISBN13)
	if isbn == "" {
		isbn = normalize.String(p.ISBN)
	}
	if isbn != "" {
		if rec, ok := ix.byISBN13[isbn]; ok {
			return Match{Record: rec, Method: records.MethodISBN}
		}
	}

	if key := HeuristicKey(p.Title, p.Authors, ix.lists); key != "" {
		if rec, ok := ix.byKey[key]; ok {
			return Match{Record: rec, Method: records.MethodHeuristic}
		}
	}

	return Match{Method: records.MethodNone}
}

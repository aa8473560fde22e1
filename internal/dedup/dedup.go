// Package dedup collapses canonical records that resolved to the same id.
package dedup

import (
	"sort"

	"github.com/lehigh-university-libraries/bookmerge/internal/records"
)

// Score is the completeness of a canonical record: its number of non-null attributes.
func Score(r *records.CanonicalBookRecord) int {
	return r.NonNullCount()
}

// Deduplicate keeps, for each canonical_id, the record with the highest Score.
// Ties go to the earlier record. Losers are dropped whole, never field-merged.
// The result is ordered by descending score, then input order.
func Deduplicate(recs []records.CanonicalBookRecord) []records.CanonicalBookRecord {
	if len(recs) == 0 {
		return nil
	}

	type scored struct {
		idx   int
		score int
	}
	order := make([]scored, len(recs))
	for i := range recs {
		order[i] = scored{idx: i, score: Score(&recs[i])}
	}
	sort.SliceStable(order, func(i, j int) bool {
		return order[i].score > order[j].score
	})

	seen := make(map[string]struct{}, len(recs))
	out := make([]records.CanonicalBookRecord, 0, len(recs))
	for _, o := range order {
		id := recs[o.idx].CanonicalID
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, recs[o.idx])
	}
	return out
}

package merge

import (
	"strconv"

	"github.com/lehigh-university-libraries/bookmerge/internal/normalize"
	"github.com/lehigh-university-libraries/bookmerge/internal/records"
)

// CanonicalID is the ISBN-13 when known, otherwise a stable hash of
// normalized title, first author, publisher and publication year. Identical
// inputs always give the same id. Distinct books sharing all four hash fields
// collapse into one id; that collision is accepted.
func CanonicalID(r *records.CanonicalBookRecord) string {
	if isbn := deref(r.ISBN13); isbn != "" {
		return isbn
	}
	year := ""
	if r.PubYear != nil {
		year = strconv.FormatInt(*r.PubYear, 10)
	}
	return normalize.StableHash(deref(r.TitleNormalized), deref(r.FirstAuthor), deref(r.Publisher), year)
}

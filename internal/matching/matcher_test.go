package matching

import (
	"testing"

	"github.com/lehigh-university-libraries/bookmerge/internal/normalize"
	"github.com/lehigh-university-libraries/bookmerge/internal/records"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func secondary(gbID, isbn13, title string, authors ...string) records.SecondaryRecord {
	rec := records.SecondaryRecord{GoogleID: records.String("vol-" + gbID + isbn13)}
	if gbID != "" {
		rec.GBID = records.String(gbID)
	}
	if isbn13 != "" {
		rec.ISBN13 = records.String(isbn13)
	}
	if title != "" {
		rec.Title = records.String(title)
	}
	if len(authors) > 0 {
		rec.Authors = records.List(authors...)
	}
	return rec
}

func TestMatchPriority(t *testing.T) {
	byID := secondary("42", "", "Unrelated")
	byISBN := secondary("7", "9780000000001", "Other")
	byKey := secondary("8", "", "X", "A")

	ix, stats := BuildIndex([]records.SecondaryRecord{byKey, byISBN, byID}, normalize.DefaultLists)
	require.Equal(t, 3, stats.ByID)

	primary := records.PrimaryRecord{
		ID:      records.String("42"),
		ISBN13:  records.String("9780000000001"),
		Title:   records.String("X"),
		Authors: records.List("A"),
	}

	tests := []struct {
		name   string
		mutate func(p *records.PrimaryRecord)
		method records.MergeMethod
		title  string
	}{
		{name: "id wins", mutate: func(*records.PrimaryRecord) {}, method: records.MethodID, title: "Unrelated"},
		{name: "isbn when id misses", mutate: func(p *records.PrimaryRecord) { p.ID = records.String("999") }, method: records.MethodISBN, title: "Other"},
		{name: "heuristic when id and isbn miss", mutate: func(p *records.PrimaryRecord) {
			p.ID = records.Absent()
			p.ISBN13 = records.String("9789999999999")
		}, method: records.MethodHeuristic, title: "X"},
		{name: "none", mutate: func(p *records.PrimaryRecord) {
			p.ID = records.Absent()
			p.ISBN13 = records.Absent()
			p.Title = records.String("Y")
		}, method: records.MethodNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := primary
			tt.mutate(&p)

			m := ix.Match(&p)
			assert.Equal(t, tt.method, m.Method)
			if tt.method == records.MethodNone {
				assert.False(t, m.Found())
				assert.Nil(t, m.Record)
				return
			}
			require.True(t, m.Found())
			assert.Equal(t, tt.title, normalize.String(m.Record.Title))
		})
	}
}

func TestMatchNormalizesIdentifiers(t *testing.T) {
	ix, _ := BuildIndex([]records.SecondaryRecord{secondary("42", " 9780000000001 ", "T")}, normalize.DefaultLists)

	m := ix.Match(&records.PrimaryRecord{ID: records.Number(42)})
	assert.Equal(t, records.MethodID, m.Method)

	m = ix.Match(&records.PrimaryRecord{ID: records.String("42.0")})
	assert.Equal(t, records.MethodID, m.Method)

	m = ix.Match(&records.PrimaryRecord{ISBN13: records.String("9780000000001")})
	assert.Equal(t, records.MethodISBN, m.Method)
}

func TestMatchLegacyISBNField(t *testing.T) {
	ix, _ := BuildIndex([]records.SecondaryRecord{secondary("", "9780000000001", "T")}, normalize.DefaultLists)

	m := ix.Match(&records.PrimaryRecord{ISBN: records.String("9780000000001")})
	assert.Equal(t, records.MethodISBN, m.Method)
}

func TestBuildIndexFirstWriteWins(t *testing.T) {
	first := secondary("1", "9780000000001", "Dune", "Frank Herbert")
	first.Publisher = records.String("first")
	second := secondary("1", "9780000000001", "Dune", "Frank Herbert")
	second.Publisher = records.String("second")

	ix, stats := BuildIndex([]records.SecondaryRecord{first, second}, normalize.DefaultLists)
	assert.Equal(t, 1, stats.ByID)
	assert.Equal(t, 1, stats.ByISBN13)
	assert.Equal(t, 1, stats.ByKey)

	for _, p := range []records.PrimaryRecord{
		{ID: records.String("1")},
		{ISBN13: records.String("9780000000001")},
		{Title: records.String("DUNE!"), Authors: records.String("Frank Herbert")},
	} {
		m := ix.Match(&p)
		require.True(t, m.Found())
		assert.Equal(t, "first", normalize.String(m.Record.Publisher))
	}
}

func TestBuildIndexSkipsNotFound(t *testing.T) {
	marker := secondary("5", "", "")
	marker.GoogleID = records.String(records.NotFound)

	ix, stats := BuildIndex([]records.SecondaryRecord{marker}, normalize.DefaultLists)
	assert.Equal(t, 1, stats.Skipped)
	assert.Equal(t, 0, stats.ByID)

	m := ix.Match(&records.PrimaryRecord{ID: records.String("5")})
	assert.Equal(t, records.MethodNone, m.Method)
}

func TestBuildIndexEmpty(t *testing.T) {
	ix, stats := BuildIndex(nil, normalize.DefaultLists)
	assert.Equal(t, Stats{}, stats)
	assert.Equal(t, records.MethodNone, ix.Match(&records.PrimaryRecord{ID: records.String("1")}).Method)
}

func TestHeuristicKey(t *testing.T) {
	assert.Equal(t, "the hobbit||J.R.R. Tolkien",
		HeuristicKey(records.String("The Hobbit"), records.String("J.R.R. Tolkien, Christopher Tolkien"), normalize.DefaultLists))
	assert.Equal(t, "", HeuristicKey(records.String("The Hobbit"), records.Absent(), normalize.DefaultLists))
	assert.Equal(t, "", HeuristicKey(records.String("?!"), records.String("A"), normalize.DefaultLists))
}

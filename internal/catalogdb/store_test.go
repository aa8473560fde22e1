package catalogdb

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/lehigh-university-libraries/bookmerge/internal/records"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "books.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestReplace(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	title := "Dune"
	pages := int64(412)
	books := []records.CanonicalBookRecord{
		{CanonicalID: "b", Title: &title, NumPages: &pages, SourcePreference: "goodreads"},
		{CanonicalID: "a", SourcePreference: "google"},
	}
	details := []records.MatchDetail{
		{CanonicalID: "b", GBID: "1", FromGoogle: true, MergeMethod: records.MethodID},
		{CanonicalID: "a", GBID: "2", MergeMethod: records.MethodNone},
		{CanonicalID: "a", GBID: "3", MergeMethod: records.MethodNone},
	}

	require.NoError(t, store.Replace(ctx, "run-1", books, details))

	stored, err := store.Books(ctx)
	require.NoError(t, err)
	require.Len(t, stored, 2)
	assert.Equal(t, "a", stored[0].CanonicalID)
	assert.Equal(t, "b", stored[1].CanonicalID)
	require.NotNil(t, stored[1].Title)
	assert.Equal(t, "Dune", *stored[1].Title)
	require.NotNil(t, stored[1].NumPages)
	assert.Equal(t, int64(412), *stored[1].NumPages)
	assert.Nil(t, stored[0].Title)
	assert.Equal(t, "run-1", stored[0].RunID)

	n, err := store.CountDetails(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

func TestReplaceIsIdempotent(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	books := []records.CanonicalBookRecord{{CanonicalID: "a"}}
	details := []records.MatchDetail{{CanonicalID: "a", GBID: "1", MergeMethod: records.MethodNone}}

	require.NoError(t, store.Replace(ctx, "run-1", books, details))
	require.NoError(t, store.Replace(ctx, "run-2", books, details))

	stored, err := store.Books(ctx)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "run-2", stored[0].RunID)

	n, err := store.CountDetails(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestReplaceWithEmptyRun(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Replace(ctx, "run-1", []records.CanonicalBookRecord{{CanonicalID: "a"}}, nil))
	require.NoError(t, store.Replace(ctx, "run-2", nil, nil))

	stored, err := store.Books(ctx)
	require.NoError(t, err)
	assert.Empty(t, stored)
}

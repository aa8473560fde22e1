package dataset

import (
	"testing"

	"github.com/lehigh-university-libraries/bookmerge/internal/normalize"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	books "google.golang.org/api/books/v1"
)

func TestFromVolume(t *testing.T) {
	v := &books.Volume{
		Id: "zyTCAlFPjgYC",
		VolumeInfo: &books.VolumeVolumeInfo{
			Title:         "The Google Story",
			Authors:       []string{"David A. Vise", "Mark Malseed"},
			Publisher:     "Random House Digital, Inc.",
			PublishedDate: "2005-11-15",
			Categories:    []string{"Browsers (Computer programs)"},
			IndustryIdentifiers: []*books.VolumeVolumeInfoIndustryIdentifiers{
				{Type: "ISBN_10", Identifier: "055380457X"},
				{Type: "ISBN_13", Identifier: "9780553804577"},
			},
			PageCount: 207,
			Language:  "en",
			InfoLink:  "https://books.google.com/books?id=zyTCAlFPjgYC",
		},
		SaleInfo: &books.VolumeSaleInfo{
			RetailPrice: &books.VolumeSaleInfoRetailPrice{Amount: 11.99, CurrencyCode: "USD"},
		},
	}

	rec := FromVolume("42", v)

	assert.Equal(t, "42", normalize.String(rec.GBID))
	assert.Equal(t, "zyTCAlFPjgYC", normalize.String(rec.GoogleID))
	assert.Equal(t, []string{"David A. Vise", "Mark Malseed"}, rec.Authors.Items())
	assert.Equal(t, "9780553804577", normalize.String(rec.ISBN13))
	assert.Equal(t, "055380457X", normalize.String(rec.ISBN10))
	assert.Equal(t, "207", normalize.String(rec.PageCount))
	assert.Equal(t, "USD", normalize.String(rec.PriceCurrency))
	price, ok := rec.PriceAmount.Float()
	require.True(t, ok)
	assert.Equal(t, 11.99, price)
	assert.Equal(t, "https://books.google.com/books?id=zyTCAlFPjgYC", normalize.String(rec.URL))
	assert.True(t, rec.Description.IsAbsent())
}

func TestFromVolumeNil(t *testing.T) {
	rec := FromVolume("9", nil)
	assert.True(t, rec.IsNotFound())
	assert.Equal(t, "9", normalize.String(rec.GBID))
}

func TestLoadVolumesResponse(t *testing.T) {
	path := writeFile(t, "volumes.json", `{"kind": "books#volumes", "totalItems": 2, "items": [
		{"id": "a", "volumeInfo": {"title": "First"}},
		{"id": "b", "volumeInfo": {"title": "Second", "pageCount": 100}}
	]}`)

	recs, err := NewLoader(zap.NewNop()).LoadVolumes(path)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "First", normalize.String(recs[0].Title))
	assert.True(t, recs[0].GBID.IsAbsent())
	assert.Equal(t, "100", normalize.String(recs[1].PageCount))
}

func TestLoadVolumesLines(t *testing.T) {
	path := writeFile(t, "volumes.jsonl", `{"gb_id": "1", "volume": {"id": "a", "volumeInfo": {"title": "Wrapped"}}}
{"gb_id": "2", "volume": null}
{"id": "c", "volumeInfo": {"title": "Bare"}}
not json
`)

	recs, err := NewLoader(zap.NewNop()).LoadSecondary(path)
	require.NoError(t, err)
	require.Len(t, recs, 3)

	assert.Equal(t, "1", normalize.String(recs[0].GBID))
	assert.Equal(t, "Wrapped", normalize.String(recs[0].Title))
	assert.True(t, recs[1].IsNotFound())
	assert.Equal(t, "2", normalize.String(recs[1].GBID))
	assert.Equal(t, "Bare", normalize.String(recs[2].Title))
	assert.Equal(t, "c", normalize.String(recs[2].GoogleID))
}

package dataset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	books "google.golang.org/api/books/v1"

	"github.com/lehigh-university-libraries/bookmerge/internal/records"
	"go.uber.org/zap"
)

// volumeLine is one line of a volumes JSONL dump. The enrichment collector
// wraps each volume with the Goodreads id it was searched for; bare volume
// lines are accepted too.
type volumeLine struct {
	GBID   string        `json:"gb_id"`
	Volume *books.Volume `json:"volume"`
}

// LoadVolumes reads saved Google Books API output: either a volumes list
// response ({"items": [...]}) or one volume per line.
func (l *Loader) LoadVolumes(path string) ([]records.SecondaryRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read volumes file: %w", err)
	}

	var list books.Volumes
	if err := json.Unmarshal(data, &list); err == nil && len(list.Items) > 0 {
		out := make([]records.SecondaryRecord, 0, len(list.Items))
		for _, v := range list.Items {
			out = append(out, FromVolume("", v))
		}
		l.log.Info("Loaded volumes response", zap.String("path", path), zap.Int("records", len(out)))
		return out, nil
	}

	var out []records.SecondaryRecord
	skipped := 0
	for i, line := range bytes.Split(data, []byte("\n")) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}

		var wrapped volumeLine
		if err := json.Unmarshal(line, &wrapped); err != nil {
			skipped++
			l.log.Warn("Skipping malformed volume line", zap.Int("line", i+1), zap.Error(err))
			continue
		}
		if wrapped.Volume == nil && wrapped.GBID != "" {
			out = append(out, FromVolume(wrapped.GBID, nil))
			continue
		}
		if wrapped.Volume == nil {
			var bare books.Volume
			if err := json.Unmarshal(line, &bare); err != nil {
				skipped++
				continue
			}
			wrapped.Volume = &bare
		}
		out = append(out, FromVolume(wrapped.GBID, wrapped.Volume))
	}

	l.log.Info("Loaded volumes", zap.String("path", path), zap.Int("records", len(out)), zap.Int("skipped", skipped))
	return out, nil
}

// FromVolume converts an API volume into a secondary record. A nil volume is
// the NOT_FOUND marker for gbID.
func FromVolume(gbID string, v *books.Volume) records.SecondaryRecord {
	rec := records.SecondaryRecord{}
	if gbID != "" {
		rec.GBID = records.String(gbID)
	}
	if v == nil {
		rec.GoogleID = records.String(records.NotFound)
		return rec
	}

	rec.GoogleID = nonEmpty(v.Id)
	if info := v.VolumeInfo; info != nil {
		rec.Title = nonEmpty(info.Title)
		if len(info.Authors) > 0 {
			rec.Authors = records.List(info.Authors...)
		}
		rec.Publisher = nonEmpty(info.Publisher)
		rec.PubDate = nonEmpty(info.PublishedDate)
		if len(info.Categories) > 0 {
			rec.Categories = records.List(info.Categories...)
		}
		for _, id := range info.IndustryIdentifiers {
			if id == nil {
				continue
			}
			switch id.Type {
			case "ISBN_13":
				rec.ISBN13 = nonEmpty(id.Identifier)
			case "ISBN_10":
				rec.ISBN10 = nonEmpty(id.Identifier)
			}
		}
		if info.PageCount > 0 {
			rec.PageCount = records.Number(float64(info.PageCount))
		}
		rec.Description = nonEmpty(info.Description)
		rec.Language = nonEmpty(info.Language)
		rec.URL = nonEmpty(info.InfoLink)
	}

	if sale := v.SaleInfo; sale != nil {
		switch {
		case sale.ListPrice != nil:
			rec.PriceAmount = records.Number(sale.ListPrice.Amount)
			rec.PriceCurrency = nonEmpty(sale.ListPrice.CurrencyCode)
		case sale.RetailPrice != nil:
			rec.PriceAmount = records.Number(sale.RetailPrice.Amount)
			rec.PriceCurrency = nonEmpty(sale.RetailPrice.CurrencyCode)
		}
	}
	return rec
}

func nonEmpty(s string) records.Value {
	if s == "" {
		return records.Absent()
	}
	return records.String(s)
}

package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/lehigh-university-libraries/bookmerge/internal/records"
	"github.com/parquet-go/parquet-go"
	"go.uber.org/zap"
)

// CSVSeparator is the field separator of the Google landing CSV.
const CSVSeparator = ';'

// secondaryRow is the parquet layout written by the enrichment collector.
type secondaryRow struct {
	GBID          *string  `parquet:"gb_id,optional"`
	GoogleID      *string  `parquet:"google_id,optional"`
	Title         *string  `parquet:"title,optional"`
	Authors       *string  `parquet:"authors,optional"`
	Publisher     *string  `parquet:"publisher,optional"`
	PubDate       *string  `parquet:"pub_date,optional"`
	Categories    *string  `parquet:"categories,optional"`
	ISBN13        *string  `parquet:"isbn13,optional"`
	PriceAmount   *float64 `parquet:"price_amount,optional"`
	PriceCurrency *string  `parquet:"price_currency,optional"`
}

func (r secondaryRow) record() records.SecondaryRecord {
	return records.SecondaryRecord{
		GBID:          records.OptionalString(r.GBID),
		GoogleID:      records.OptionalString(r.GoogleID),
		Title:         records.OptionalString(r.Title),
		Authors:       records.OptionalString(r.Authors),
		Publisher:     records.OptionalString(r.Publisher),
		PubDate:       records.OptionalString(r.PubDate),
		Categories:    records.OptionalString(r.Categories),
		ISBN13:        records.OptionalString(r.ISBN13),
		PriceAmount:   records.OptionalNumber(r.PriceAmount),
		PriceCurrency: records.OptionalString(r.PriceCurrency),
	}
}

// loadParquet loads records from a Parquet file
func (l *Loader) loadParquet(path string) ([]records.SecondaryRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	pf, err := parquet.OpenFile(file, info.Size())
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet: %w", err)
	}

	l.log.Debug("Parquet file opened", zap.String("path", path), zap.Int64("num_rows", pf.NumRows()), zap.Int("num_row_groups", len(pf.RowGroups())))

	reader := parquet.NewGenericReader[secondaryRow](pf)
	defer reader.Close()

	var out []records.SecondaryRecord
	rows := make([]secondaryRow, 128) // Read in batches
	for {
		n, err := reader.Read(rows)
		for _, row := range rows[:n] {
			out = append(out, row.record())
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read parquet rows: %w", err)
		}
	}

	l.log.Info("Loaded secondary records", zap.String("path", path), zap.Int("records", len(out)))
	return out, nil
}

var csvSetters = map[string]func(*records.SecondaryRecord, records.Value){
	"gb_id":          func(r *records.SecondaryRecord, v records.Value) { r.GBID = v },
	"google_id":      func(r *records.SecondaryRecord, v records.Value) { r.GoogleID = v },
	"title":          func(r *records.SecondaryRecord, v records.Value) { r.Title = v },
	"authors":        func(r *records.SecondaryRecord, v records.Value) { r.Authors = v },
	"publisher":      func(r *records.SecondaryRecord, v records.Value) { r.Publisher = v },
	"pub_date":       func(r *records.SecondaryRecord, v records.Value) { r.PubDate = v },
	"categories":     func(r *records.SecondaryRecord, v records.Value) { r.Categories = v },
	"isbn13":         func(r *records.SecondaryRecord, v records.Value) { r.ISBN13 = v },
	"isbn10":         func(r *records.SecondaryRecord, v records.Value) { r.ISBN10 = v },
	"price_amount":   func(r *records.SecondaryRecord, v records.Value) { r.PriceAmount = v },
	"price_currency": func(r *records.SecondaryRecord, v records.Value) { r.PriceCurrency = v },
	"pagecount":      func(r *records.SecondaryRecord, v records.Value) { r.PageCount = v },
	"format":         func(r *records.SecondaryRecord, v records.Value) { r.Format = v },
	"description":    func(r *records.SecondaryRecord, v records.Value) { r.Description = v },
	"language":       func(r *records.SecondaryRecord, v records.Value) { r.Language = v },
	"url":            func(r *records.SecondaryRecord, v records.Value) { r.URL = v },
	"ingestion_date": func(r *records.SecondaryRecord, v records.Value) { r.IngestionDate = v },
}

// loadCSV reads the ";"-separated landing CSV. Unknown columns are ignored and
// empty cells are absent values.
func (l *Loader) loadCSV(path string) ([]records.SecondaryRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open csv file: %w", err)
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.Comma = CSVSeparator
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}

	setters := make([]func(*records.SecondaryRecord, records.Value), len(header))
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		setters[i] = csvSetters[name]
	}

	var out []records.SecondaryRecord
	skipped := 0
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			skipped++
			l.log.Warn("Skipping malformed csv row", zap.Int("line", parseErr.Line), zap.Error(err))
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("error reading csv: %w", err)
		}

		var rec records.SecondaryRecord
		for i, cell := range row {
			if i >= len(setters) || setters[i] == nil || strings.TrimSpace(cell) == "" {
				continue
			}
			setters[i](&rec, records.String(cell))
		}
		out = append(out, rec)
	}

	l.log.Info("Loaded secondary records", zap.String("path", path), zap.Int("records", len(out)), zap.Int("skipped", skipped))
	return out, nil
}

package merge

import (
	"strings"

	"github.com/lehigh-university-libraries/bookmerge/internal/normalize"
	"github.com/lehigh-university-libraries/bookmerge/internal/records"
)

// Merger applies Rules to primary/secondary pairs.
type Merger struct {
	rules Rules
}

// NewMerger creates a merger for the given rules.
func NewMerger(rules Rules) *Merger {
	return &Merger{rules: rules}
}

// Rules returns the rules the merger was built with.
func (m *Merger) Rules() Rules { return m.rules }

// Merge builds the canonical record for p and its match s. s may be nil.
func (m *Merger) Merge(p *records.PrimaryRecord, s *records.SecondaryRecord) records.CanonicalBookRecord {
	if s == nil {
		s = &records.SecondaryRecord{}
	}
	lists := m.rules.Lists
	preferSecondary := m.rules.prefersSecondary()

	titleP := normalize.String(p.Title)
	titleS := normalize.String(s.Title)

	authorsP := lists.Authors(p.Authors)
	authorsS := lists.Authors(s.Authors)
	authors := unionNormalized(authorsP, authorsS)

	categories := unionNormalized(
		normalizeAll(lists.Categories(p.Categories)),
		normalizeAll(lists.Categories(s.Categories)),
	)

	pubP := normalize.ISODate(p.PubDate)
	pubS := normalize.ISODate(s.PubDate)
	pubDate := chooseSurvivor(optional(pubP), optional(pubS), preferSecondary)

	priceS := decimal(s.PriceAmount)
	price := firstPresent(priceS, decimal(p.PriceAmount))
	currency := firstPresent(optional(normalize.Currency(s.PriceCurrency)), optional(normalize.Currency(p.PriceCurrency)))

	isbn13S := normalize.String(s.ISBN13)
	isbn13 := firstPresent(optional(normalize.String(p.ISBN13)), optional(isbn13S))
	isbn10 := firstPresent(
		optional(normalize.String(p.ISBN10)),
		optional(normalize.String(p.ISBN)),
		optional(normalize.String(s.ISBN10)),
	)

	pagesP := integer(p.NumPages)

	rec := records.CanonicalBookRecord{
		ISBN13:        isbn13,
		ISBN10:        isbn10,
		Title:         chooseSurvivor(optional(titleP), optional(titleS), preferSecondary),
		Publisher:     chooseSurvivor(optional(normalize.String(p.Publisher)), optional(normalize.String(s.Publisher)), preferSecondary),
		PubDate:       pubDate,
		Language:      firstPresent(optional(normalize.String(p.Language)), optional(normalize.String(s.Language))),
		NumPages:      firstPresent(pagesP, integer(s.PageCount)),
		Format:        firstPresent(optional(normalize.String(p.Format)), optional(normalize.String(s.Format))),
		Description:   firstPresent(optional(freeText(p.DescriptionValue())), optional(freeText(s.Description))),
		RatingValue:   decimal(p.RatingValue),
		RatingCount:   integer(p.RatingCount),
		PriceAmount:   price,
		PriceCurrency: currency,

		IngestionDateGoodreads: optional(freeText(p.IngestionDate)),
		IngestionDateGoogle:    optional(freeText(s.IngestionDate)),
	}

	if len(authors) > 0 {
		rec.Authors = optional(strings.Join(authors, m.rules.ListSeparator))
		rec.FirstAuthor = optional(authors[0])
	}
	if len(categories) > 0 {
		rec.Categories = optional(strings.Join(categories, m.rules.ListSeparator))
	}
	if pubDate != nil {
		if y, ok := normalize.Year(*pubDate); ok {
			rec.PubYear = &y
		}
	}
	if rec.Title != nil {
		rec.TitleNormalized = optional(normalize.Title(records.String(*rec.Title)))
	}

	// The two sides are scored over different field sets; ties go to the primary.
	scoreP := countPresent(titleP != "", len(authorsP) > 0, pubP != "", pagesP != nil && *pagesP != 0)
	scoreS := countPresent(titleS != "", len(authorsS) > 0, pubS != "", priceS != nil, isbn13S != "")

	if scoreP >= scoreS {
		rec.SourcePreference = m.rules.PrimaryLabel
		rec.MostCompleteURL = optional(normalize.String(p.URL))
	} else {
		rec.SourcePreference = m.rules.SecondaryLabel
		rec.MostCompleteURL = optional(normalize.String(s.URL))
	}

	rec.CanonicalID = CanonicalID(&rec)
	return rec
}

func normalizeAll(items []string) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		if n := normalize.Text(it); n != "" {
			out = append(out, n)
		}
	}
	return out
}

func decimal(v records.Value) *float64 {
	f, ok := normalize.Decimal(v)
	if !ok {
		return nil
	}
	return &f
}

func integer(v records.Value) *int64 {
	n, ok := normalize.Integer(v)
	if !ok {
		return nil
	}
	return &n
}

// freeText trims long-form text without collapsing its line breaks.
func freeText(v records.Value) string {
	s, ok := v.Text()
	if !ok {
		return ""
	}
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "nan") {
		return ""
	}
	return s
}

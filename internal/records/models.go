package records

import "strings"

// NotFound is the google_id the enrichment collector writes when no volume matched.
const NotFound = "NOT_FOUND"

// PrimaryRecord is one scraped Goodreads book as written to goodreads_books.json.
type PrimaryRecord struct {
	ID            Value `json:"id"`
	Title         Value `json:"title"`
	Authors       Value `json:"authors"`
	ISBN10        Value `json:"isbn10"`
	ISBN13        Value `json:"isbn13"`
	ISBN          Value `json:"isbn"` // legacy combined isbn
	Publisher     Value `json:"publisher"`
	PubDate       Value `json:"pub_date"`
	Language      Value `json:"language"`
	Categories    Value `json:"categories"`
	Description   Value `json:"description"`
	Desc          Value `json:"desc"` // legacy description key
	NumPages      Value `json:"num_pages"`
	Format        Value `json:"format"`
	RatingValue   Value `json:"rating_value"`
	RatingCount   Value `json:"rating_count"`
	PriceAmount   Value `json:"price_amount"`
	PriceCurrency Value `json:"price_currency"`
	URL           Value `json:"url"`
	IngestionDate Value `json:"ingestion_date"`
}

// DescriptionValue prefers the description key and falls back to the legacy desc key.
func (p *PrimaryRecord) DescriptionValue() Value {
	if !p.Description.IsAbsent() {
		return p.Description
	}
	return p.Desc
}

// SecondaryRecord is one Google Books enrichment row.
type SecondaryRecord struct {
	GBID          Value `json:"gb_id"`
	GoogleID      Value `json:"google_id"`
	Title         Value `json:"title"`
	Authors       Value `json:"authors"`
	Publisher     Value `json:"publisher"`
	PubDate       Value `json:"pub_date"`
	Categories    Value `json:"categories"`
	ISBN13        Value `json:"isbn13"`
	ISBN10        Value `json:"isbn10"`
	PriceAmount   Value `json:"price_amount"`
	PriceCurrency Value `json:"price_currency"`
	PageCount     Value `json:"pageCount"`
	Format        Value `json:"format"`
	Description   Value `json:"description"`
	Language      Value `json:"language"`
	URL           Value `json:"url"`
	IngestionDate Value `json:"ingestion_date"`
}

// IsNotFound reports whether the row is the enrichment collector's no-match marker.
func (s *SecondaryRecord) IsNotFound() bool {
	id, ok := s.GoogleID.Text()
	return ok && strings.TrimSpace(id) == NotFound
}

// MergeMethod names the matching strategy that paired a primary record with a secondary one.
type MergeMethod string

const (
	MethodID        MergeMethod = "id"
	MethodISBN      MergeMethod = "isbn"
	MethodHeuristic MergeMethod = "heuristic"
	MethodNone      MergeMethod = "none"
)

// CanonicalBookRecord is the merged, deduplicated representation of one book.
// Nil pointers are nulls and do not count toward completeness.
type CanonicalBookRecord struct {
	CanonicalID            string   `json:"canonical_id" parquet:"canonical_id"`
	ISBN13                 *string  `json:"isbn13" parquet:"isbn13,optional"`
	ISBN10                 *string  `json:"isbn10" parquet:"isbn10,optional"`
	Title                  *string  `json:"title" parquet:"title,optional"`
	TitleNormalized        *string  `json:"title_normalized" parquet:"title_normalized,optional"`
	Authors                *string  `json:"authors" parquet:"authors,optional"`
	FirstAuthor            *string  `json:"first_author" parquet:"first_author,optional"`
	Publisher              *string  `json:"publisher" parquet:"publisher,optional"`
	PubDate                *string  `json:"pub_date" parquet:"pub_date,optional"`
	PubYear                *int64   `json:"pub_year" parquet:"pub_year,optional"`
	Language               *string  `json:"language" parquet:"language,optional"`
	Categories             *string  `json:"categories" parquet:"categories,optional"`
	NumPages               *int64   `json:"num_pages" parquet:"num_pages,optional"`
	Format                 *string  `json:"format" parquet:"format,optional"`
	Description            *string  `json:"description" parquet:"description,optional"`
	RatingValue            *float64 `json:"rating_value" parquet:"rating_value,optional"`
	RatingCount            *int64   `json:"rating_count" parquet:"rating_count,optional"`
	PriceAmount            *float64 `json:"price_amount" parquet:"price_amount,optional"`
	PriceCurrency          *string  `json:"price_currency" parquet:"price_currency,optional"`
	SourcePreference       string   `json:"source_preference" parquet:"source_preference"`
	MostCompleteURL        *string  `json:"most_complete_url" parquet:"most_complete_url,optional"`
	IngestionDateGoodreads *string  `json:"ingestion_date_goodreads" parquet:"ingestion_date_goodreads,optional"`
	IngestionDateGoogle    *string  `json:"ingestion_date_google" parquet:"ingestion_date_google,optional"`
}

// BookColumns is the output column order of CanonicalBookRecord.
var BookColumns = []string{
	"canonical_id", "isbn13", "isbn10", "title", "title_normalized", "authors",
	"first_author", "publisher", "pub_date", "pub_year", "language", "categories",
	"num_pages", "format", "description", "rating_value", "rating_count",
	"price_amount", "price_currency", "source_preference", "most_complete_url",
	"ingestion_date_goodreads", "ingestion_date_google",
}

// NonNullCount returns how many attributes of r carry a value.
func (r *CanonicalBookRecord) NonNullCount() int {
	n := 0
	if r.CanonicalID != "" {
		n++
	}
	if r.SourcePreference != "" {
		n++
	}
	for _, s := range []*string{
		r.ISBN13, r.ISBN10, r.Title, r.TitleNormalized, r.Authors, r.FirstAuthor,
		r.Publisher, r.PubDate, r.Language, r.Categories, r.Format, r.Description,
		r.PriceCurrency, r.MostCompleteURL, r.IngestionDateGoodreads, r.IngestionDateGoogle,
	} {
		if s != nil {
			n++
		}
	}
	for _, i := range []*int64{r.PubYear, r.NumPages, r.RatingCount} {
		if i != nil {
			n++
		}
	}
	for _, f := range []*float64{r.RatingValue, r.PriceAmount} {
		if f != nil {
			n++
		}
	}
	return n
}

// MatchDetail is the provenance entry written for every primary record.
type MatchDetail struct {
	CanonicalID string      `json:"canonical_id" parquet:"canonical_id"`
	GBID        string      `json:"gb_id" parquet:"gb_id"`
	FromGoogle  bool        `json:"from_google" parquet:"from_google"`
	MergeMethod MergeMethod `json:"merge_method" parquet:"merge_method"`
	Timestamp   string      `json:"timestamp" parquet:"timestamp"`
}

// DetailColumns is the output column order of MatchDetail.
var DetailColumns = []string{"canonical_id", "gb_id", "from_google", "merge_method", "timestamp"}

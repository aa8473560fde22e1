package normalize

import (
	"strings"

	"github.com/lehigh-university-libraries/bookmerge/internal/records"
)

// Lists holds the delimiters used to split delimited author and category strings.
type Lists struct {
	AuthorDelimiters  string `yaml:"author_delimiters"`
	CategoryDelimiter string `yaml:"category_delimiter"`
}

// DefaultLists matches what the collectors emit: "A | B", "A, B" or "A; B" for
// authors and "A | B" for categories.
var DefaultLists = Lists{
	AuthorDelimiters:  "|,;",
	CategoryDelimiter: "|",
}

// Authors splits v into an ordered list of normalized names. Order is first
// occurrence; duplicates are kept.
func (l Lists) Authors(v records.Value) []string {
	var parts []string
	switch v.Kind() {
	case records.KindList:
		parts = v.Items()
	case records.KindString:
		s, _ := v.Text()
		parts = splitAny(s, l.AuthorDelimiters)
	default:
		return nil
	}

	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if n := Text(p); n != "" {
			out = append(out, n)
		}
	}
	return out
}

// Categories splits a delimited category string, or trims each element of a list.
func (l Lists) Categories(v records.Value) []string {
	var parts []string
	switch v.Kind() {
	case records.KindList:
		parts = v.Items()
	case records.KindString:
		s, _ := v.Text()
		parts = splitAny(s, l.CategoryDelimiter)
	default:
		return nil
	}

	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// FirstAuthor returns the first normalized author or "".
func (l Lists) FirstAuthor(v records.Value) string {
	if a := l.Authors(v); len(a) > 0 {
		return a[0]
	}
	return ""
}

// Authors splits with DefaultLists.
func Authors(v records.Value) []string { return DefaultLists.Authors(v) }

// Categories splits with DefaultLists.
func Categories(v records.Value) []string { return DefaultLists.Categories(v) }

func splitAny(s, delimiters string) []string {
	if delimiters == "" {
		return []string{s}
	}
	return strings.FieldsFunc(s, func(r rune) bool {
		return strings.ContainsRune(delimiters, r)
	})
}

// Package normalize turns heterogeneous source fields into canonical scalars and lists.
//
// Every function is total: malformed input degrades to the empty string (null)
// or an empty list, never to an error. An empty string is never a valid
// normalized value, so callers treat "" as null.
package normalize

import (
	"crypto/sha1"
	"encoding/hex"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/lehigh-university-libraries/bookmerge/internal/records"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// HashSeparator joins the fields fed to StableHash.
const HashSeparator = "||"

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	leadingYear  = regexp.MustCompile(`^(\d{4})`)
	lower        = cases.Lower(language.Und)
)

// String trims v, collapses internal whitespace and strips the ".0" left
// behind when a numeric id was serialized as a float. It returns "" for
// absent, empty and "nan" values.
func String(v records.Value) string {
	s, ok := v.Text()
	if !ok {
		return ""
	}
	return Text(s)
}

// Text applies String's rules to a plain string.
func Text(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "nan") {
		return ""
	}
	if digits, found := strings.CutSuffix(s, ".0"); found && isDigits(digits) {
		s = digits
	}
	return whitespaceRe.ReplaceAllString(s, " ")
}

// Title builds the matching/identity form of a title: lower-cased, punctuation
// removed, whitespace collapsed.
func Title(v records.Value) string {
	t := String(v)
	if t == "" {
		return ""
	}
	t = lower.String(t)
	t = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsNumber(r) || r == '_' || unicode.IsSpace(r) {
			return r
		}
		return -1
	}, t)
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(t, " "))
}

// Currency maps currency symbols to ISO codes, otherwise upper-cases and keeps
// the first three characters.
func Currency(v records.Value) string {
	s, ok := v.Text()
	if !ok {
		return ""
	}
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return ""
	}
	switch s {
	case "€":
		return "EUR"
	case "$":
		return "USD"
	case "£":
		return "GBP"
	}
	r := []rune(s)
	if len(r) > 3 {
		r = r[:3]
	}
	return string(r)
}

// Decimal parses numbers and numeric strings, accepting a comma decimal separator.
func Decimal(v records.Value) (float64, bool) {
	if f, ok := v.Float(); ok {
		if math.IsNaN(f) {
			return 0, false
		}
		return f, true
	}
	s, ok := v.Text()
	if !ok {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(s), ",", "."), 64)
	if err != nil || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

// Integer parses v as a decimal and truncates it. Infinite values are rejected.
func Integer(v records.Value) (int64, bool) {
	f, ok := Decimal(v)
	if !ok || math.IsInf(f, 0) {
		return 0, false
	}
	return int64(f), true
}

// Year extracts the leading four-digit year of a normalized date.
func Year(date string) (int64, bool) {
	m := leadingYear.FindStringSubmatch(date)
	if m == nil {
		return 0, false
	}
	y, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, false
	}
	return y, true
}

// StableHash is an order-sensitive content hash over already-normalized fields.
// Null fields must be passed as "".
func StableHash(fields ...string) string {
	sum := sha1.Sum([]byte(strings.Join(fields, HashSeparator)))
	return hex.EncodeToString(sum[:])
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

package normalize

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/lehigh-university-libraries/bookmerge/internal/records"
)

type precision int

const (
	precisionYear precision = iota
	precisionMonth
	precisionDay
)

type dateLayout struct {
	layout    string
	precision precision
}

// Layouts are tried in order. A layout's precision is the finest component it
// actually reads, so a missing day or month never surfaces as a placeholder 01.
var dateLayouts = []dateLayout{
	{time.RFC3339, precisionDay},
	{"2006-1-2T15:04:05", precisionDay},
	{"2006-1-2 15:04:05", precisionDay},
	{"2006-1-2", precisionDay},
	{"2006/1/2", precisionDay},
	{"2006.1.2", precisionDay},
	{"January 2, 2006", precisionDay},
	{"January 2 2006", precisionDay},
	{"Jan 2, 2006", precisionDay},
	{"Jan 2 2006", precisionDay},
	{"Monday, January 2, 2006", precisionDay},
	{"2 January 2006", precisionDay},
	{"2 Jan 2006", precisionDay},
	{"1/2/2006", precisionDay},
	{"January 2006", precisionMonth},
	{"January, 2006", precisionMonth},
	{"Jan 2006", precisionMonth},
	{"2006-1", precisionMonth},
	{"2006/1", precisionMonth},
	{"1/2006", precisionMonth},
	{"2006", precisionYear},
}

var (
	ordinalRe      = regexp.MustCompile(`(\d)(st|nd|rd|th)\b`)
	fallbackDayRe  = regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})`)
	fallbackMonth  = regexp.MustCompile(`^(\d{4})-(\d{1,2})`)
	fallbackYearRe = regexp.MustCompile(`^(\d{4})`)
)

// ISODate renders a free-text publication date as YYYY-MM-DD, YYYY-MM or YYYY,
// keeping only the precision present in the source text. When no layout parses
// the whole string, a leading YYYY-MM-DD, YYYY-MM or YYYY is extracted instead.
func ISODate(v records.Value) string {
	s, ok := v.Text()
	if !ok {
		return ""
	}
	s = whitespaceRe.ReplaceAllString(strings.TrimSpace(s), " ")
	if s == "" || strings.EqualFold(s, "nan") {
		return ""
	}

	cleaned := ordinalRe.ReplaceAllString(s, "$1")
	for _, dl := range dateLayouts {
		t, err := time.Parse(dl.layout, cleaned)
		if err != nil {
			continue
		}
		switch dl.precision {
		case precisionDay:
			return t.Format("2006-01-02")
		case precisionMonth:
			return t.Format("2006-01")
		default:
			return t.Format("2006")
		}
	}

	if m := fallbackDayRe.FindStringSubmatch(s); m != nil && validMonth(m[2]) && atoi(m[3]) >= 1 && atoi(m[3]) <= 31 {
		return fmt.Sprintf("%s-%02d-%02d", m[1], atoi(m[2]), atoi(m[3]))
	}
	if m := fallbackMonth.FindStringSubmatch(s); m != nil && validMonth(m[2]) {
		return fmt.Sprintf("%s-%02d", m[1], atoi(m[2]))
	}
	if m := fallbackYearRe.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	return ""
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

func validMonth(s string) bool {
	n := atoi(s)
	return n >= 1 && n <= 12
}

// Package merge combines a primary record and its optional secondary match
// into one canonical book using per-field survivorship rules.
package merge

import "github.com/lehigh-university-libraries/bookmerge/internal/normalize"

// Rules configures splitting, joining and conflict preference for a merge run.
type Rules struct {
	normalize.Lists `yaml:",inline"`

	// ListSeparator joins merged authors and categories into one output column.
	ListSeparator string `yaml:"list_separator"`

	PrimaryLabel   string `yaml:"primary_label"`
	SecondaryLabel string `yaml:"secondary_label"`

	// Prefer is the label whose value wins when both sources disagree.
	Prefer string `yaml:"prefer"`
}

// DefaultRules prefers Goodreads on conflicts and joins lists with " | ".
func DefaultRules() Rules {
	return Rules{
		Lists:          normalize.DefaultLists,
		ListSeparator:  " | ",
		PrimaryLabel:   "goodreads",
		SecondaryLabel: "google",
		Prefer:         "goodreads",
	}
}

func (r Rules) prefersSecondary() bool {
	return r.Prefer != "" && r.Prefer == r.SecondaryLabel
}

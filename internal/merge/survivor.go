package merge

import (
	"fmt"
	"strings"
)

// chooseSurvivor returns the non-nil side, or the preferred side when both are
// present and differ after trimming.
func chooseSurvivor[T any](primary, secondary *T, preferSecondary bool) *T {
	if primary == nil {
		return secondary
	}
	if secondary == nil {
		return primary
	}
	if strings.TrimSpace(fmt.Sprint(*primary)) == strings.TrimSpace(fmt.Sprint(*secondary)) {
		return primary
	}
	if preferSecondary {
		return secondary
	}
	return primary
}

// firstPresent returns the first non-nil pointer.
func firstPresent[T any](vals ...*T) *T {
	for _, v := range vals {
		if v != nil {
			return v
		}
	}
	return nil
}

// unionNormalized concatenates lists, dropping entries whose case-folded form
// was already seen. The first spelling wins.
func unionNormalized(lists ...[]string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, list := range lists {
		for _, item := range list {
			key := strings.ToLower(item)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, item)
		}
	}
	return out
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func countPresent(flags ...bool) int {
	n := 0
	for _, f := range flags {
		if f {
			n++
		}
	}
	return n
}

package relay

import (
	"fmt"
	"strings"
)

// Filter selects keys by exact match or prefix. The zero Filter accepts
// every key.
type Filter struct {
	matches    map[string]struct{}
	startsWith []string
}

// NewFilter builds a filter from exact keys and prefixes. Every value must
// be a valid key; nil or empty slices leave that criterion unset.
func NewFilter(matches, startsWith []string) (Filter, error) {
	var f Filter

	if len(matches) > 0 {
		f.matches = make(map[string]struct{}, len(matches))
		for _, key := range matches {
			if !ValidKey(key) {
				return Filter{}, fmt.Errorf("%w: matches %q", ErrBadFilters, key)
			}
			f.matches[key] = struct{}{}
		}
	}

	for _, prefix := range startsWith {
		if !ValidKey(prefix) {
			return Filter{}, fmt.Errorf("%w: starts-with %q", ErrBadFilters, prefix)
		}
		f.startsWith = append(f.startsWith, prefix)
	}

	return f, nil
}

// IsZero reports whether the filter accepts every key.
func (f Filter) IsZero() bool {
	return f.matches == nil && len(f.startsWith) == 0
}

// Accept reports whether key is of interest.
func (f Filter) Accept(key string) bool {
	if f.IsZero() {
		return true
	}
	if _, ok := f.matches[key]; ok {
		return true
	}
	for _, prefix := range f.startsWith {
		if strings.HasPrefix(key, prefix) {
			return true
		}
	}
	return false
}

package depgraph

import "strings"

// Filter excludes packages whose name contains a substring,
// case-insensitively. The zero Filter matches nothing.
type Filter struct {
	substring string
}

// NewFilter creates a filter for the given substring. An empty substring
// disables filtering.
func NewFilter(substring string) Filter {
	return Filter{substring: strings.ToLower(substring)}
}

// Matches reports whether pkg should be excluded from the graph.
func (f Filter) Matches(pkg string) bool {
	if f.substring == "" {
		return false
	}
	return strings.Contains(strings.ToLower(pkg), f.substring)
}

// Enabled reports whether the filter has a substring configured.
func (f Filter) Enabled() bool {
	return f.substring != ""
}

package discovery

import (
	"path/filepath"
	"strings"

	"qcr/internal/domain"
)

// Filter selects test cases by title pattern
type Filter struct {
	pattern string
}

// NewFilter creates a Filter for pattern. An empty pattern keeps everything.
func NewFilter(pattern string) *Filter {
	return &Filter{pattern: strings.ToLower(strings.TrimSpace(pattern))}
}

// Empty reports whether the filter keeps every case
func (f *Filter) Empty() bool {
	return f.pattern == ""
}

// Keep reports whether tc matches the pattern; it plugs into the driver
func (f *Filter) Keep(tc *domain.TestCase) bool {
	return f.Match(tc.Title)
}

// FilterByTitle returns the cases whose title matches the pattern
func (f *Filter) FilterByTitle(cases []domain.TestCase) []domain.TestCase {
	if f.Empty() {
		return cases
	}
	var filtered []domain.TestCase
	for i := range cases {
		if f.Keep(&cases[i]) {
			filtered = append(filtered, cases[i])
		}
	}
	return filtered
}

// Match matches a title using wildcards, case-insensitively.
// Supports patterns like "Login*" or "*payment*"; a pattern without
// wildcards matches as a substring.
func (f *Filter) Match(title string) bool {
	if f.Empty() {
		return true
	}
	title = strings.ToLower(title)

	// filepath.Match supports * and ? wildcards
	if matched, err := filepath.Match(f.pattern, title); err == nil && matched {
		return true
	}

	if !strings.ContainsAny(f.pattern, "*?") {
		return strings.Contains(title, f.pattern)
	}

	// Titles can contain "/", which filepath.Match never crosses, so fall back
	// to matching the literal parts in order
	if !strings.Contains(f.pattern, "*") {
		return false
	}
	rest := title
	hasPart := false
	for _, part := range strings.Split(f.pattern, "*") {
		if part == "" {
			continue
		}
		if strings.Contains(part, "?") {
			return false
		}
		idx := strings.Index(rest, part)
		if idx < 0 {
			return false
		}
		rest = rest[idx+len(part):]
		hasPart = true
	}
	return hasPart
}

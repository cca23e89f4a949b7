// Package search evaluates user keywords against cached experience sections.
package search

import "strings"

// ParseQuery turns a comma-separated input into lowercase trimmed keywords.
// Empty entries are dropped and duplicates collapsed, first occurrence wins.
func ParseQuery(raw string) []string {
	keywords := []string{}
	seen := make(map[string]struct{})
	for _, part := range strings.Split(raw, ",") {
		kw := strings.ToLower(strings.TrimSpace(part))
		if kw == "" {
			continue
		}
		if _, ok := seen[kw]; ok {
			continue
		}
		seen[kw] = struct{}{}
		keywords = append(keywords, kw)
	}
	return keywords
}

// Match returns the subset of keywords occurring as case-insensitive
// substrings of sectionText, preserving input order. No match yields an
// empty slice, not an error.
func Match(sectionText string, keywords []string) []string {
	matched := []string{}
	haystack := strings.ToLower(sectionText)
	for _, kw := range keywords {
		if strings.Contains(haystack, strings.ToLower(kw)) {
			matched = append(matched, kw)
		}
	}
	return matched
}

// utils/tags.go
package utils

import "strings"

// ParseTags splits a comma-separated tag string into a lower-cased, trimmed,
// de-duplicated set. Empty segments are dropped.
func ParseTags(s string) []string {
	seen := make(map[string]bool)
	var tags []string
	for _, part := range strings.Split(s, ",") {
		tag := strings.ToLower(strings.TrimSpace(part))
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		tags = append(tags, tag)
	}
	return tags
}

// TagsOverlap reports whether the two tag sets share at least one tag
func TagsOverlap(a, b []string) bool {
	set := make(map[string]bool, len(a))
	for _, tag := range a {
		set[tag] = true
	}
	for _, tag := range b {
		if set[tag] {
			return true
		}
	}
	return false
}

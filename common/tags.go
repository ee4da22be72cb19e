package common

import "strings"

// NormalizeTag trims surrounding whitespace. Case and punctuation are kept,
// so "C++" and "C#" stay distinct and non-Latin tags survive.
func NormalizeTag(input string) string {
	return strings.TrimSpace(input)
}

// NormalizeTags trims each tag, dropping empties and exact duplicates while
// keeping first-seen order. Never returns nil.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		tag := NormalizeTag(t)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}

package validation

import (
	"regexp"
	"strings"
)

var (
	hashtagRegex   = regexp.MustCompile(`#([\p{L}\p{N}_]+)`)
	separatorRegex = regexp.MustCompile(`[^\p{L}\p{N}_]+`)
)

// ExtractHashtags returns the distinct lowercased tags in text, without the
// leading '#', in order of first appearance.
func ExtractHashtags(text string) []string {
	matches := hashtagRegex.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(matches))
	tags := make([]string, 0, len(matches))
	for _, m := range matches {
		tag := strings.ToLower(m[1])
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}
	return tags
}

// TokenizeQuery splits a search query on non-word runs into distinct lowercased
// terms. '#' is a separator, so "#Kazakh" and "kazakh" are the same term.
func TokenizeQuery(query string) []string {
	fields := separatorRegex.Split(strings.ToLower(query), -1)
	seen := make(map[string]struct{}, len(fields))
	terms := make([]string, 0, len(fields))
	for _, f := range fields {
		if f == "" {
			continue
		}
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		terms = append(terms, f)
	}
	return terms
}

// Package keywords reports which job description words appear in a resume.
//
// Matching is plain case-insensitive substring containment: no stemming, no
// punctuation stripping and no stop words. A short keyword can therefore match
// inside a longer unrelated word ("cat" in "catalog").
package keywords

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// MinLength is the shortest keyword kept, in runes.
const MinLength = 3

// Keywords returns the whitespace-delimited tokens of text longer than two
// characters, lower-cased, deduplicated and sorted.
func Keywords(text string) []string {
	seen := make(map[string]struct{})
	result := make([]string, 0)

	for _, field := range strings.Fields(text) {
		if utf8.RuneCountInString(field) < MinLength {
			continue
		}
		word := strings.ToLower(field)
		if _, ok := seen[word]; ok {
			continue
		}
		seen[word] = struct{}{}
		result = append(result, word)
	}

	sort.Strings(result)
	return result
}

// Match splits the job description keywords into those found in the resume
// text and those that are not. Both lists are sorted and never nil.
func Match(resumeText, jobDescription string) (matched, missing []string) {
	haystack := strings.ToLower(resumeText)
	matched = make([]string, 0)
	missing = make([]string, 0)

	for _, keyword := range Keywords(jobDescription) {
		if strings.Contains(haystack, keyword) {
			matched = append(matched, keyword)
			continue
		}
		missing = append(missing, keyword)
	}

	return matched, missing
}

package similarity

import (
	"strings"
	"unicode"
)

// Tokenize lower-cases text and returns every run of two or more word
// characters (letters, numbers, underscore). Single-character runs are dropped.
func Tokenize(text string) []string {
	var (
		tokens  []string
		current strings.Builder
		runes   int
	)

	flush := func() {
		if runes >= 2 {
			tokens = append(tokens, current.String())
		}
		current.Reset()
		runes = 0
	}

	for _, r := range strings.ToLower(text) {
		if isWordRune(r) {
			current.WriteRune(r)
			runes++
			continue
		}
		flush()
	}
	flush()

	return tokens
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}

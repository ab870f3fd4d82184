package similarity

import (
	_ "embed"
	"strings"
)

//go:embed stop_words_en.txt
var englishStopWordsRaw string

// EnglishStopWords returns the built-in English stop-word list.
func EnglishStopWords() []string {
	return strings.Fields(englishStopWordsRaw)
}

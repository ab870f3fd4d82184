// Package similarity scores texts against a query with TF-IDF vectors and
// cosine similarity.
package similarity

import (
	"math"
)

// Scorer builds a fresh vocabulary for every call; it holds no state between calls.
type Scorer struct {
	stopWords map[string]struct{}
}

type Option func(*Scorer)

// WithStopWords replaces the stop-word list. An empty list disables stop-word removal.
func WithStopWords(words []string) Option {
	return func(s *Scorer) {
		s.stopWords = make(map[string]struct{}, len(words))
		for _, w := range words {
			s.stopWords[w] = struct{}{}
		}
	}
}

// NewScorer returns a scorer using the English stop-word list unless overridden.
func NewScorer(opts ...Option) *Scorer {
	s := &Scorer{}
	WithStopWords(EnglishStopWords())(s)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scores returns one cosine similarity per candidate, in candidate order, each
// in [0, 1]. When the combined documents have no vocabulary at all every score
// is 0.
func (s *Scorer) Scores(query string, candidates []string) []float64 {
	scores := make([]float64, len(candidates))
	if len(candidates) == 0 {
		return scores
	}

	docs := make([]map[string]float64, 0, len(candidates)+1)
	docs = append(docs, s.termCounts(query))
	for _, c := range candidates {
		docs = append(docs, s.termCounts(c))
	}

	df := make(map[string]int)
	for _, counts := range docs {
		for term := range counts {
			df[term]++
		}
	}
	if len(df) == 0 {
		return scores
	}

	n := float64(len(docs))
	idf := make(map[string]float64, len(df))
	for term, freq := range df {
		idf[term] = math.Log((1+n)/(1+float64(freq))) + 1
	}

	vectors := make([]map[string]float64, len(docs))
	for i, counts := range docs {
		vectors[i] = weigh(counts, idf)
	}

	for i := range candidates {
		scores[i] = cosine(vectors[0], vectors[i+1])
	}

	return scores
}

// Score is a convenience wrapper for a single candidate.
func (s *Scorer) Score(query, candidate string) float64 {
	return s.Scores(query, []string{candidate})[0]
}

func (s *Scorer) termCounts(text string) map[string]float64 {
	counts := make(map[string]float64)
	for _, token := range Tokenize(text) {
		if _, stop := s.stopWords[token]; stop {
			continue
		}
		counts[token]++
	}
	return counts
}

// weigh multiplies term counts by idf and normalises the vector to unit length.
func weigh(counts map[string]float64, idf map[string]float64) map[string]float64 {
	vector := make(map[string]float64, len(counts))
	var norm float64
	for term, count := range counts {
		w := count * idf[term]
		vector[term] = w
		norm += w * w
	}
	if norm == 0 {
		return vector
	}

	norm = math.Sqrt(norm)
	for term := range vector {
		vector[term] /= norm
	}
	return vector
}

func cosine(a, b map[string]float64) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	if len(b) < len(a) {
		a, b = b, a
	}

	var dot float64
	for term, w := range a {
		dot += w * b[term]
	}

	switch {
	case dot < 0:
		return 0
	case dot > 1:
		return 1
	default:
		return dot
	}
}

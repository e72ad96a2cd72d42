// Package similarity scores lexical similarity between two strings with
// TF-IDF vectors fitted on the two-document corpus and cosine similarity.
package similarity

import (
	"math"
	"strings"
	"unicode"
)

const (
	// SyntacticThreshold marks two category values as near-duplicates.
	SyntacticThreshold = 0.85
	// SemanticThreshold marks a column description as unrelated to its content.
	SemanticThreshold = 0.30
)

// Terms holds the raw term counts of one document.
type Terms map[string]int

// Tokenize lower-cases s and keeps runs of two or more letters, digits or
// underscores.
func Tokenize(s string) Terms {
	terms := make(Terms)
	var cur []rune
	flush := func() {
		if len(cur) >= 2 {
			terms[string(cur)]++
		}
		cur = cur[:0]
	}
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			cur = append(cur, r)
			continue
		}
		flush()
	}
	flush()
	return terms
}

// Cosine returns the similarity in [0,1]. Empty input or a corpus without
// any usable term yields 0.
func Cosine(a, b string) float64 {
	if strings.TrimSpace(a) == "" || strings.TrimSpace(b) == "" {
		return 0
	}
	return CosineTerms(Tokenize(a), Tokenize(b))
}

// CosineTerms is Cosine over pre-tokenized documents, for callers comparing
// one value against many.
func CosineTerms(a, b Terms) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	// Smooth idf over a corpus of two documents: ln(3/(1+df)) + 1.
	shared := math.Log(3.0/3.0) + 1
	single := math.Log(3.0/2.0) + 1
	weight := func(term string) float64 {
		_, inA := a[term]
		_, inB := b[term]
		if inA && inB {
			return shared
		}
		return single
	}

	var dot, normA, normB float64
	for term, n := range a {
		w := float64(n) * weight(term)
		normA += w * w
		if m, ok := b[term]; ok {
			dot += w * float64(m) * weight(term)
		}
	}
	for term, n := range b {
		w := float64(n) * weight(term)
		normB += w * w
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	if sim > 1 {
		return 1
	}
	return sim
}

// Unrelated reports whether a and b fall below threshold.
func Unrelated(a, b string, threshold float64) bool {
	return Cosine(a, b) < threshold
}

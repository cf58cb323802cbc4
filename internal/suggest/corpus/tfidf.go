// NLP Article Suggestion System - Corpus-Backed Content Ranking
// Copyright 2026 Eliot (Eliot6001)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Eliot6001/nlp-article-suggestion-system

package corpus

import (
	"math"
	"sort"
	"strings"
	"unicode"
)

// VectorEntry is one non-zero component of a sparse vector.
type VectorEntry struct {
	Index  int
	Weight float64
}

// Vector is a sparse, L2-normalized term-weight vector. Entries are sorted
// by term index so that dot products accumulate in a fixed order, which keeps
// repeated scoring bit-for-bit deterministic.
type Vector []VectorEntry

// Vectorizer is a fitted TF-IDF vector space. It is immutable after fitting
// and safe for concurrent use.
type Vectorizer struct {
	terms []string       // sorted vocabulary
	index map[string]int // term -> position in terms
	idf   []float64      // parallel to terms
	docs  int            // number of documents fitted on
}

// FitVectorizer builds a TF-IDF vector space over the given document texts.
// Tokenization is case-insensitive; tokens shorter than two runes are
// dropped. IDF uses the smoothed form ln((1+n)/(1+df)) + 1 so that terms
// appearing in every document still carry weight. The result is purely a
// function of documents.
func FitVectorizer(documents []string) *Vectorizer {
	df := make(map[string]int)
	for _, doc := range documents {
		seen := make(map[string]struct{})
		for _, tok := range tokenize(doc) {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}

	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	index := make(map[string]int, len(terms))
	idf := make([]float64, len(terms))
	n := float64(len(documents))
	for i, term := range terms {
		index[term] = i
		idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1
	}

	return &Vectorizer{
		terms: terms,
		index: index,
		idf:   idf,
		docs:  len(documents),
	}
}

// Terms returns the sorted vocabulary.
func (v *Vectorizer) Terms() []string {
	return v.terms
}

// DocumentCount returns the number of documents the space was fitted on.
func (v *Vectorizer) DocumentCount() int {
	return v.docs
}

// Transform projects a text into the fitted vector space. Out-of-vocabulary
// tokens are ignored; an empty or fully out-of-vocabulary text yields an
// empty vector.
func (v *Vectorizer) Transform(text string) Vector {
	counts := make(map[int]int)
	for _, tok := range tokenize(text) {
		if idx, ok := v.index[tok]; ok {
			counts[idx]++
		}
	}

	if len(counts) == 0 {
		return nil
	}

	indices := make([]int, 0, len(counts))
	for idx := range counts {
		indices = append(indices, idx)
	}
	sort.Ints(indices)

	vec := make(Vector, 0, len(indices))
	var norm float64
	for _, idx := range indices {
		w := float64(counts[idx]) * v.idf[idx]
		vec = append(vec, VectorEntry{Index: idx, Weight: w})
		norm += w * w
	}

	norm = math.Sqrt(norm)
	if norm > 0 {
		for i := range vec {
			vec[i].Weight /= norm
		}
	}

	return vec
}

// Cosine computes the cosine similarity of two normalized sparse vectors.
// The result is clamped to [0,1]; term weights are non-negative so the raw
// dot product is never negative, and clamping guards the upper bound against
// float rounding.
func Cosine(a, b Vector) float64 {
	var dot float64
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i].Index == b[j].Index:
			dot += a[i].Weight * b[j].Weight
			i++
			j++
		case a[i].Index < b[j].Index:
			i++
		default:
			j++
		}
	}

	if dot > 1 {
		return 1
	}
	if dot < 0 {
		return 0
	}
	return dot
}

// tokenize lowercases the text and splits it into alphanumeric runs of at
// least two runes.
func tokenize(text string) []string {
	var tokens []string
	var b strings.Builder

	flush := func() {
		if b.Len() > 0 {
			tok := b.String()
			if len([]rune(tok)) >= 2 {
				tokens = append(tokens, tok)
			}
			b.Reset()
		}
	}

	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		} else {
			flush()
		}
	}
	flush()

	return tokens
}

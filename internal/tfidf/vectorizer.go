// Package tfidf implements a character n-gram TF-IDF vectorizer with cosine
// similarity over sparse vectors. Character n-grams are used instead of word
// tokens because Thai has no whitespace-delimited word boundaries; overlapping
// n-grams also give partial credit for morphological overlap between a question
// and the ruling texts.
package tfidf

import (
	"math"
	"sort"
	"strings"
)

// Vector is a sparse L2-normalized TF-IDF vector keyed by vocabulary index.
type Vector map[int]float64

// Dot returns the dot product of two vectors. For normalized vectors this is
// the cosine similarity.
func (v Vector) Dot(o Vector) float64 {
	// Iterate the smaller map.
	if len(o) < len(v) {
		v, o = o, v
	}
	var dot float64
	for i, a := range v {
		if b, ok := o[i]; ok {
			dot += a * b
		}
	}
	return dot
}

// Vectorizer holds a fitted vocabulary and IDF weights. Fields are exported so
// the fitted state can be persisted with encoding/gob.
type Vectorizer struct {
	// MinN and MaxN bound the character n-gram lengths (inclusive).
	MinN int
	MaxN int
	// Vocab maps an n-gram to its index; indices are assigned in sorted
	// n-gram order so fitting the same corpus twice yields the same layout.
	Vocab map[string]int
	// IDF holds the smoothed inverse document frequency per vocabulary index.
	IDF []float64
}

// NewVectorizer returns an unfitted vectorizer over n-grams of length minN..maxN.
func NewVectorizer(minN, maxN int) *Vectorizer {
	if minN < 1 {
		minN = 1
	}
	if maxN < minN {
		maxN = minN
	}
	return &Vectorizer{MinN: minN, MaxN: maxN}
}

// Fit builds the vocabulary and IDF weights from the corpus and returns one
// normalized vector per input text, in input order.
func (v *Vectorizer) Fit(corpus []string) []Vector {
	df := make(map[string]int)
	grams := make([]map[string]int, len(corpus))
	for i, text := range corpus {
		counts := v.ngrams(text)
		grams[i] = counts
		for g := range counts {
			df[g]++
		}
	}

	terms := make([]string, 0, len(df))
	for g := range df {
		terms = append(terms, g)
	}
	sort.Strings(terms)

	v.Vocab = make(map[string]int, len(terms))
	v.IDF = make([]float64, len(terms))
	n := float64(len(corpus))
	for i, g := range terms {
		v.Vocab[g] = i
		v.IDF[i] = math.Log((1+n)/(1+float64(df[g]))) + 1
	}

	rows := make([]Vector, len(corpus))
	for i, counts := range grams {
		rows[i] = v.vectorize(counts)
	}
	return rows
}

// Transform vectorizes a single text against the fitted vocabulary. N-grams
// unseen during Fit are ignored.
func (v *Vectorizer) Transform(text string) Vector {
	return v.vectorize(v.ngrams(text))
}

func (v *Vectorizer) vectorize(counts map[string]int) Vector {
	vec := make(Vector)
	for g, c := range counts {
		if i, ok := v.Vocab[g]; ok {
			vec[i] = float64(c) * v.IDF[i]
		}
	}
	normalize(vec)
	return vec
}

// ngrams counts the character n-grams of the normalized text. Normalization
// lowercases and collapses runs of whitespace to a single space so that
// formatting differences between corpus and question do not alter the grams.
func (v *Vectorizer) ngrams(text string) map[string]int {
	runes := []rune(normalizeText(text))
	counts := make(map[string]int)
	for n := v.MinN; n <= v.MaxN; n++ {
		for i := 0; i+n <= len(runes); i++ {
			counts[string(runes[i:i+n])]++
		}
	}
	return counts
}

func normalizeText(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}

func normalize(vec Vector) {
	var sum float64
	for _, x := range vec {
		sum += x * x
	}
	if sum == 0 {
		return
	}
	norm := math.Sqrt(sum)
	for i := range vec {
		vec[i] /= norm
	}
}

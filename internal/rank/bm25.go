// Package rank scores chunks against a query with BM25 lexical
// relevance. A ranker is built fresh from the chunk corpus of a single
// pipeline run; there is no persistent index.
package rank

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/esap-ai/quotescout/internal/model"
)

// BM25 free parameters. k1 tunes term-frequency saturation, b tunes
// document-length normalization.
const (
	k1 = 1.5
	b  = 0.75
)

var tokenPattern = regexp.MustCompile(`\p{L}[\p{L}\p{N}]*|\p{N}+`)

// Ranker holds the inverted statistics for one chunk corpus.
type Ranker struct {
	chunks    []model.Chunk
	termFreqs []map[string]int
	docLens   []int
	avgLen    float64
	df        map[string]int
	stopwords map[string]struct{}
}

// New indexes the given chunks. The chunk order is preserved and used
// as the tie-break for equal scores, keeping ranking deterministic.
func New(chunks []model.Chunk) *Ranker {
	r := &Ranker{
		chunks:    chunks,
		termFreqs: make([]map[string]int, len(chunks)),
		docLens:   make([]int, len(chunks)),
		df:        make(map[string]int),
		stopwords: defaultStopwords(),
	}

	total := 0
	for i, c := range chunks {
		tokens := r.tokenize(c.Content)
		tf := make(map[string]int, len(tokens))
		for _, tok := range tokens {
			tf[tok]++
		}
		r.termFreqs[i] = tf
		r.docLens[i] = len(tokens)
		total += len(tokens)
		for term := range tf {
			r.df[term]++
		}
	}
	if len(chunks) > 0 {
		r.avgLen = float64(total) / float64(len(chunks))
	}
	return r
}

// TopK returns the k most relevant chunks for the query, score
// descending, ties broken by insertion order. When the corpus holds
// fewer than k chunks all of them are returned, ranked.
func (r *Ranker) TopK(query string, k int) []model.RankedChunk {
	if len(r.chunks) == 0 || k <= 0 {
		return nil
	}

	queryTerms := r.tokenize(query)
	scores := make([]float64, len(r.chunks))
	for i := range r.chunks {
		scores[i] = r.score(queryTerms, i)
	}

	order := make([]int, len(r.chunks))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, c int) bool {
		return scores[order[a]] > scores[order[c]]
	})

	if k > len(order) {
		k = len(order)
	}
	ranked := make([]model.RankedChunk, 0, k)
	for _, idx := range order[:k] {
		ranked = append(ranked, model.RankedChunk{Chunk: r.chunks[idx], Score: scores[idx]})
	}
	return ranked
}

func (r *Ranker) score(queryTerms []string, doc int) float64 {
	if r.docLens[doc] == 0 || r.avgLen == 0 {
		return 0
	}

	norm := k1 * (1 - b + b*float64(r.docLens[doc])/r.avgLen)
	n := float64(len(r.chunks))

	var s float64
	for _, term := range queryTerms {
		tf := float64(r.termFreqs[doc][term])
		if tf == 0 {
			continue
		}
		df := float64(r.df[term])
		idf := math.Log(1 + (n-df+0.5)/(df+0.5))
		s += idf * tf * (k1 + 1) / (tf + norm)
	}
	return s
}

func (r *Ranker) tokenize(text string) []string {
	raw := tokenPattern.FindAllString(strings.ToLower(text), -1)
	out := raw[:0]
	for _, tok := range raw {
		if _, stop := r.stopwords[tok]; stop {
			continue
		}
		out = append(out, tok)
	}
	return out
}

func defaultStopwords() map[string]struct{} {
	words := []string{
		"a", "an", "the", "and", "or", "but", "if", "then", "else", "for",
		"to", "of", "in", "on", "at", "by", "with", "as", "is", "are",
		"was", "were", "be", "been", "it", "this", "that", "these",
		"those", "from", "so", "such", "into", "about", "than", "too",
		"very", "can", "will", "just", "not", "no",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}

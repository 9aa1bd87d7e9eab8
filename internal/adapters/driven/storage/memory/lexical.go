package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"unicode"

	"github.com/custodia-labs/semlink/internal/core/domain"
	"github.com/custodia-labs/semlink/internal/core/ports/driven"
)

// Ensure LexicalIndex implements the interface.
var _ driven.LexicalIndex = (*LexicalIndex)(nil)

// Field weights for term frequency scoring.
const (
	titleWeight   = 3.0
	tagWeight     = 2.0
	contentWeight = 1.0
)

// LexicalIndex is an in-memory inverted index with prefix matching.
type LexicalIndex struct {
	mu sync.RWMutex

	// postings maps a term to per-slug weighted frequencies.
	postings map[string]map[string]float64

	// terms is the sorted vocabulary, used for prefix range scans.
	terms []string
}

// NewLexicalIndex creates an empty index.
func NewLexicalIndex() *LexicalIndex {
	return &LexicalIndex{postings: make(map[string]map[string]float64)}
}

// Index replaces the index contents.
func (x *LexicalIndex) Index(_ context.Context, entries domain.ContentIndex) error {
	postings := make(map[string]map[string]float64)
	add := func(slug, text string, weight float64) {
		for _, term := range Tokenize(text) {
			p, ok := postings[term]
			if !ok {
				p = make(map[string]float64)
				postings[term] = p
			}
			p[slug] += weight
		}
	}

	for slug, entry := range entries {
		add(slug, entry.Title, titleWeight)
		add(slug, strings.Join(entry.Tags, " "), tagWeight)
		add(slug, entry.Content, contentWeight)
	}

	terms := make([]string, 0, len(postings))
	for term := range postings {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	x.mu.Lock()
	defer x.mu.Unlock()
	x.postings = postings
	x.terms = terms
	return nil
}

// Search returns slugs in which every query token prefixes some indexed term.
func (x *LexicalIndex) Search(_ context.Context, query string, limit int) ([]driven.SearchHit, error) {
	tokens := Tokenize(query)
	if len(tokens) == 0 || limit <= 0 {
		return nil, nil
	}

	x.mu.RLock()
	defer x.mu.RUnlock()

	var scores map[string]float64
	for _, token := range tokens {
		matched := x.prefixScores(token)
		if scores == nil {
			scores = matched
			continue
		}
		for slug, score := range scores {
			if m, ok := matched[slug]; ok {
				scores[slug] = score + m
			} else {
				delete(scores, slug)
			}
		}
	}

	hits := make([]driven.SearchHit, 0, len(scores))
	for slug, score := range scores {
		hits = append(hits, driven.SearchHit{Slug: slug, Score: score})
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].Slug < hits[j].Slug
	})

	if len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}

// prefixScores sums postings for every term starting with prefix.
func (x *LexicalIndex) prefixScores(prefix string) map[string]float64 {
	out := make(map[string]float64)
	start := sort.SearchStrings(x.terms, prefix)
	for i := start; i < len(x.terms) && strings.HasPrefix(x.terms[i], prefix); i++ {
		for slug, w := range x.postings[x.terms[i]] {
			out[slug] += w
		}
	}
	return out
}

// Close releases resources.
func (x *LexicalIndex) Close() error {
	return nil
}

// Tokenize lowercases text and splits it on anything that is not a letter or digit.
func Tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}

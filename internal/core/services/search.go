package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/custodia-labs/semlink/internal/core/domain"
	"github.com/custodia-labs/semlink/internal/core/ports/driven"
	"github.com/custodia-labs/semlink/internal/core/ports/driving"
	"github.com/custodia-labs/semlink/internal/logger"
)

// Ensure SearchService implements the interface.
var _ driving.SearchService = (*SearchService)(nil)

// Query vector cache lifetime.
const (
	queryVectorTTL     = 10 * time.Minute
	queryVectorCleanup = 20 * time.Minute
	defaultSearchLimit = 10
)

// Explanations attached to results.
const (
	explainKeyword = "Keyword match"
	explainBoth    = "keyword + semantic match"
)

// scoredDoc holds intermediate search results before hydration.
type scoredDoc struct {
	slug        string
	score       float64
	explanation string
}

// SearchService provides keyword, semantic and hybrid retrieval over a built corpus.
type SearchService struct {
	view     *corpusView
	lexical  driven.LexicalIndex
	provider driven.EmbeddingProvider
	weights  domain.ScoringWeights

	queryVectors *gocache.Cache

	indexMu sync.Mutex
	indexed bool

	// providerMu guards the provider lifecycle. A failed Initialize is not
	// retried until Reload.
	providerMu    sync.Mutex
	providerReady bool
	providerErr   error
}

// NewSearchService creates a new search service.
// provider is optional; without it semantic queries use corpus-averaged vectors.
func NewSearchService(
	artifacts driven.ArtifactStore,
	lexical driven.LexicalIndex,
	provider driven.EmbeddingProvider,
	weights domain.ScoringWeights,
) *SearchService {
	return &SearchService{
		view:         newCorpusView(artifacts),
		lexical:      lexical,
		provider:     provider,
		weights:      weights,
		queryVectors: gocache.New(queryVectorTTL, queryVectorCleanup),
	}
}

// Reload discards the loaded corpus and index so the next query reads fresh artifacts.
func (s *SearchService) Reload() {
	s.view.reload()
	s.indexMu.Lock()
	s.indexed = false
	s.indexMu.Unlock()
	s.queryVectors.Flush()

	s.providerMu.Lock()
	s.providerErr = nil
	s.providerMu.Unlock()
}

// Close disposes the query embedding provider if it was started.
func (s *SearchService) Close() error {
	s.providerMu.Lock()
	defer s.providerMu.Unlock()
	if !s.providerReady {
		return nil
	}
	s.providerReady = false
	return s.provider.Dispose()
}

// modelReady initialises the provider on first use.
func (s *SearchService) modelReady(ctx context.Context) bool {
	s.providerMu.Lock()
	defer s.providerMu.Unlock()

	if s.providerReady {
		return true
	}
	if s.providerErr != nil {
		return false
	}
	if err := s.provider.Initialize(ctx); err != nil {
		logger.Warn("Query embedding model unavailable: %v (averaging corpus vectors)", err)
		s.providerErr = err
		return false
	}
	logger.Debug("Query embeddings from %s", s.provider.ModelName())
	s.providerReady = true
	return true
}

// Search runs the requested retrieval mode.
func (s *SearchService) Search(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.SearchResult, error) {
	logger.Section("Search Execution")
	logger.Debug("Query: %q", query)

	query = strings.TrimSpace(query)
	if query == "" {
		return []domain.SearchResult{}, nil
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	mode := opts.Mode
	if mode == "" {
		mode = domain.SearchModeHybrid
	}
	if !mode.IsValid() {
		return nil, fmt.Errorf("%w: search mode %q", domain.ErrInvalidInput, mode)
	}
	logger.Info("Search mode: %s", mode.Description())

	corpus, err := s.view.get(ctx)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	var docs []scoredDoc
	switch mode {
	case domain.SearchModeKeyword:
		docs, err = s.keywordSearch(ctx, corpus, query, limit)
	case domain.SearchModeSemantic:
		docs, err = s.semanticSearch(ctx, corpus, query, limit)
	default:
		docs, err = s.hybridSearch(ctx, corpus, query, limit)
	}
	if err != nil {
		logger.Warn("Search failed: %v", err)
		return nil, fmt.Errorf("search: %w", err)
	}

	results := s.hydrate(corpus, docs, query)
	logger.Info("Final results: %d", len(results))
	return results, nil
}

// keywordSearch scores lexical hits by rank: 1.0 for the first down towards 0.5.
func (s *SearchService) keywordSearch(ctx context.Context, corpus *domain.Corpus, query string, limit int) ([]scoredDoc, error) {
	if s.lexical == nil {
		return nil, domain.ErrSearchUnavailable
	}
	if err := s.ensureIndexed(ctx, corpus); err != nil {
		return nil, err
	}

	hits, err := s.lexical.Search(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("keyword search: %w", err)
	}
	logger.Debug("Keyword search: %d hits", len(hits))

	out := make([]scoredDoc, len(hits))
	for i, hit := range hits {
		out[i] = scoredDoc{
			slug:        hit.Slug,
			score:       1 - (float64(i)/float64(len(hits)))*s.weights.KeywordRankDecay,
			explanation: explainKeyword,
		}
	}
	return out, nil
}

func (s *SearchService) ensureIndexed(ctx context.Context, corpus *domain.Corpus) error {
	s.indexMu.Lock()
	defer s.indexMu.Unlock()
	if s.indexed {
		return nil
	}
	if err := s.lexical.Index(ctx, corpus.Index); err != nil {
		return fmt.Errorf("index corpus: %w", err)
	}
	s.indexed = true
	return nil
}

// semanticSearch ranks every document by cosine similarity to the query vector.
func (s *SearchService) semanticSearch(ctx context.Context, corpus *domain.Corpus, query string, limit int) ([]scoredDoc, error) {
	qvec := s.queryVector(ctx, corpus, query)
	if qvec == nil {
		logger.Debug("Semantic search: no query vector")
		return nil, nil
	}

	var out []scoredDoc
	for slug, vec := range corpus.Embeddings.Embeddings {
		sim, err := CosineSimilarity(qvec, vec)
		if err != nil {
			logger.Debug("Semantic search: skip %s: %v", slug, err)
			continue
		}
		sim = clamp(sim, 0, 1)
		if sim == 0 {
			continue
		}
		out = append(out, scoredDoc{
			slug:        slug,
			score:       sim,
			explanation: fmt.Sprintf("Semantic similarity: %.1f%%", sim*100),
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].score != out[j].score {
			return out[i].score > out[j].score
		}
		return out[i].slug < out[j].slug
	})
	if len(out) > limit {
		out = out[:limit]
	}
	logger.Debug("Semantic search: %d hits", len(out))
	return out, nil
}

// queryVector embeds the query with the model when the corpus was built by one,
// otherwise averages the vectors of documents mentioning any query word.
func (s *SearchService) queryVector(ctx context.Context, corpus *domain.Corpus, query string) []float32 {
	if corpus.Embeddings == nil || len(corpus.Embeddings.Embeddings) == 0 {
		return nil
	}
	if cached, ok := s.queryVectors.Get(query); ok {
		return cached.([]float32)
	}

	var vec []float32
	if s.provider != nil && s.provider.Mode() == domain.EmbeddingModeModel &&
		corpus.Embeddings.Mode == domain.EmbeddingModeModel && s.modelReady(ctx) {
		v, err := s.provider.Embed(ctx, query)
		if err == nil && len(v) == corpus.Embeddings.Dimensions {
			vec = v
		} else if err != nil {
			logger.Warn("Query embedding failed: %v (averaging corpus vectors)", err)
		}
	}
	if vec == nil {
		vec = averageMatching(corpus, query)
	}
	if vec != nil {
		s.queryVectors.Set(query, vec, gocache.DefaultExpiration)
	}
	return vec
}

// averageMatching is the mean of embeddings whose document text contains any query word.
func averageMatching(corpus *domain.Corpus, query string) []float32 {
	words := strings.Fields(strings.ToLower(query))
	dims := corpus.Embeddings.Dimensions

	sum := make([]float64, dims)
	var n int
	for slug, vec := range corpus.Embeddings.Embeddings {
		if len(vec) != dims {
			continue
		}
		entry, ok := corpus.Index[slug]
		if !ok {
			continue
		}
		content := strings.ToLower(entry.Content)
		matched := false
		for _, w := range words {
			if strings.Contains(content, w) {
				matched = true
				break
			}
		}
		if !matched {
			continue
		}
		for i, v := range vec {
			sum[i] += float64(v)
		}
		n++
	}
	if n == 0 {
		return nil
	}

	avg := make([]float32, dims)
	for i := range sum {
		avg[i] = float32(sum[i] / float64(n))
	}
	return avg
}

// hybridSearch runs keyword and semantic retrieval in parallel and merges by slug.
func (s *SearchService) hybridSearch(ctx context.Context, corpus *domain.Corpus, query string, limit int) ([]scoredDoc, error) {
	logger.Debug("Hybrid search: running keyword and semantic searches in parallel")

	var keywordResults, semanticResults []scoredDoc
	var keywordErr, semanticErr error

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		keywordResults, keywordErr = s.keywordSearch(ctx, corpus, query, limit*2)
	}()

	go func() {
		defer wg.Done()
		semanticResults, semanticErr = s.semanticSearch(ctx, corpus, query, limit)
	}()

	wg.Wait()

	// Degrade if one side fails.
	if keywordErr != nil && semanticErr != nil {
		return nil, fmt.Errorf("hybrid search: %w", errors.Join(keywordErr, semanticErr))
	}
	if keywordErr != nil {
		logger.Warn("Hybrid search: keyword search failed, using semantic results only: %v", keywordErr)
	}
	if semanticErr != nil {
		logger.Warn("Hybrid search: semantic search failed, using keyword results only: %v", semanticErr)
	}

	merged := mergeHybrid(keywordResults, semanticResults, s.weights)
	if len(merged) > limit {
		merged = merged[:limit]
	}
	logger.Debug("Hybrid search: merged %d keyword + %d semantic into %d",
		len(keywordResults), len(semanticResults), len(merged))
	return merged, nil
}

// mergeHybrid keeps keyword order first, blends documents found by both,
// discounts semantic-only hits and stably sorts by score.
func mergeHybrid(keyword, semantic []scoredDoc, w domain.ScoringWeights) []scoredDoc {
	merged := make([]scoredDoc, 0, len(keyword)+len(semantic))
	pos := make(map[string]int, len(keyword)+len(semantic))

	for _, k := range keyword {
		if _, dup := pos[k.slug]; dup {
			continue
		}
		pos[k.slug] = len(merged)
		merged = append(merged, k)
	}

	for _, sem := range semantic {
		if i, ok := pos[sem.slug]; ok {
			merged[i].score = w.KeywordWeight*merged[i].score + (1-w.KeywordWeight)*sem.score
			merged[i].explanation = explainBoth
			continue
		}
		sem.score *= w.SemanticOnlyDiscount
		pos[sem.slug] = len(merged)
		merged = append(merged, sem)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].score > merged[j].score
	})
	return merged
}

// hydrate attaches titles, tags and snippets. Slugs missing from the index are dropped.
func (s *SearchService) hydrate(corpus *domain.Corpus, docs []scoredDoc, query string) []domain.SearchResult {
	results := make([]domain.SearchResult, 0, len(docs))
	for _, d := range docs {
		entry, ok := corpus.Index[d.slug]
		if !ok {
			continue
		}
		results = append(results, domain.SearchResult{
			Slug:        d.slug,
			Title:       entry.Title,
			Score:       d.score,
			Explanation: d.explanation,
			Snippet:     Snippet(query, entry.Content),
			Tags:        entry.Tags,
		})
	}
	return results
}

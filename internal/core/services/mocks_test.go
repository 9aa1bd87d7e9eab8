package services

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/custodia-labs/semlink/internal/core/domain"
	"github.com/custodia-labs/semlink/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockProvider implements driven.EmbeddingProvider with a fixed vector table.
type mockProvider struct {
	mode     domain.EmbeddingMode
	dims     int
	vectors  map[string][]float32 // keyed by substring of the embedded text
	initErr  error
	embedErr error

	mu          sync.Mutex
	calls       int
	inits       int
	initialized bool
	disposed    bool
}

// ready marks the provider initialised for tests that skip the lifecycle.
func (m *mockProvider) ready() *mockProvider {
	m.initialized = true
	return m
}

func (m *mockProvider) Initialize(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.initErr != nil {
		return m.initErr
	}
	m.inits++
	m.initialized = true
	m.disposed = false
	return nil
}

func (m *mockProvider) Embed(_ context.Context, text string) ([]float32, error) {
	m.mu.Lock()
	m.calls++
	ready := m.initialized
	m.mu.Unlock()
	if !ready {
		return nil, domain.ErrEmbeddingUnavailable
	}
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	keys := make([]string, 0, len(m.vectors))
	for k := range m.vectors {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if containsFold(text, k) {
			return m.vectors[k], nil
		}
	}
	v := make([]float32, m.dims)
	if m.dims > 0 {
		v[m.dims-1] = 1
	}
	return v, nil
}

func (m *mockProvider) Mode() domain.EmbeddingMode {
	if m.mode == "" {
		return domain.EmbeddingModeModel
	}
	return m.mode
}

func (m *mockProvider) Dimensions() int {
	return m.dims
}

func (m *mockProvider) ModelName() string {
	return "mock-model"
}

func (m *mockProvider) Dispose() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.disposed = true
	m.initialized = false
	return nil
}

func (m *mockProvider) embedCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// fakeEmbedder implements driven.Embedder for tests that drive the real
// model-backed provider.
type fakeEmbedder struct {
	dims    int
	vectors map[string][]float32
	pingErr error

	mu     sync.Mutex
	pings  int
	closes int
	embeds int
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	f.mu.Lock()
	f.embeds++
	f.mu.Unlock()
	for k, v := range f.vectors {
		if containsFold(text, k) {
			return v, nil
		}
	}
	v := make([]float32, f.dims)
	if f.dims > 0 {
		v[f.dims-1] = 1
	}
	return v, nil
}

func (f *fakeEmbedder) Dimensions() int   { return f.dims }
func (f *fakeEmbedder) ModelName() string { return "fake-model" }

func (f *fakeEmbedder) Ping(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pings++
	return f.pingErr
}

func (f *fakeEmbedder) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closes++
	return nil
}

func (f *fakeEmbedder) counts() (pings, embeds, closes int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pings, f.embeds, f.closes
}

func containsFold(text, sub string) bool {
	return sub != "" && strings.Contains(strings.ToLower(text), strings.ToLower(sub))
}

// mockCorpusSource implements driven.CorpusSource.
type mockCorpusSource struct {
	docs []domain.Document
	err  error
}

func (m *mockCorpusSource) Load(_ context.Context) ([]domain.Document, error) {
	return m.docs, m.err
}

// mockArtifactStore implements driven.ArtifactStore in memory.
type mockArtifactStore struct {
	mu         sync.Mutex
	embeddings *domain.EmbeddingsArtifact
	index      domain.ContentIndex
	writeErr   error
	reads      int
}

func (m *mockArtifactStore) Write(_ context.Context, e *domain.EmbeddingsArtifact, idx domain.ContentIndex) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.writeErr != nil {
		return m.writeErr
	}
	m.embeddings = e
	m.index = idx
	return nil
}

func (m *mockArtifactStore) Read(_ context.Context) (*domain.Corpus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reads++
	if m.index == nil {
		return nil, domain.ErrCorpusNotBuilt
	}
	return &domain.Corpus{Index: m.index, Embeddings: m.embeddings}, nil
}

// mockCache implements driven.SemanticCache with fingerprint validation only.
type mockCache struct {
	mu      sync.Mutex
	entries map[string]domain.CacheEntry
	puts    int
	pruned  int
}

func newMockCache() *mockCache {
	return &mockCache{entries: make(map[string]domain.CacheEntry)}
}

func (m *mockCache) Get(slug, content, title string, tags []string) (*domain.CacheEntry, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[slug]
	if !ok || e.ContentFingerprint != domain.Fingerprint(title, content, tags) {
		return nil, false
	}
	return &e, true
}

func (m *mockCache) Put(slug string, emb domain.Embedding, links []domain.SemanticLink) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.puts++
	m.entries[slug] = domain.CacheEntry{
		Embedding:          emb,
		SemanticLinks:      links,
		ContentFingerprint: emb.Fingerprint,
	}
	return nil
}

func (m *mockCache) Prune() (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pruned++
	return 0, nil
}

func (m *mockCache) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[string]domain.CacheEntry)
	return nil
}

func (m *mockCache) Stats() domain.CacheStats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return domain.CacheStats{TotalEntries: len(m.entries)}
}

// mockInteractionStore implements driven.InteractionStore.
type mockInteractionStore struct {
	items   []domain.Interaction
	readErr error
}

func (m *mockInteractionStore) Append(_ context.Context, in domain.Interaction) error {
	m.items = append(m.items, in)
	if len(m.items) > domain.MaxInteractionHistory {
		m.items = m.items[len(m.items)-domain.MaxInteractionHistory:]
	}
	return nil
}

func (m *mockInteractionStore) Recent(_ context.Context, n int) ([]domain.Interaction, error) {
	if m.readErr != nil {
		return nil, m.readErr
	}
	if n <= 0 || n >= len(m.items) {
		return append([]domain.Interaction(nil), m.items...), nil
	}
	return append([]domain.Interaction(nil), m.items[len(m.items)-n:]...), nil
}

func (m *mockInteractionStore) Clear(_ context.Context) error {
	m.items = nil
	return nil
}

// mockLexicalIndex implements driven.LexicalIndex with canned hits.
type mockLexicalIndex struct {
	hits      []driven.SearchHit
	searchErr error
	indexed   int
}

func (m *mockLexicalIndex) Index(_ context.Context, _ domain.ContentIndex) error {
	m.indexed++
	return nil
}

func (m *mockLexicalIndex) Search(_ context.Context, _ string, limit int) ([]driven.SearchHit, error) {
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	if limit < len(m.hits) {
		return m.hits[:limit], nil
	}
	return m.hits, nil
}

func (m *mockLexicalIndex) Close() error {
	return nil
}

var errMock = errors.New("mock failure")

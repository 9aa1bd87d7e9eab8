package services

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/semlink/internal/core/domain"
	"github.com/custodia-labs/semlink/internal/core/ports/driven"
)

// corpusView lazily loads build artifacts and caches them until Reload.
type corpusView struct {
	store driven.ArtifactStore

	mu     sync.Mutex
	corpus *domain.Corpus
}

func newCorpusView(store driven.ArtifactStore) *corpusView {
	return &corpusView{store: store}
}

// get returns the loaded corpus, reading artifacts on first use.
func (v *corpusView) get(ctx context.Context) (*domain.Corpus, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.corpus != nil {
		return v.corpus, nil
	}
	c, err := v.store.Read(ctx)
	if err != nil {
		return nil, err
	}
	v.corpus = c
	return c, nil
}

// reload drops the cached corpus.
func (v *corpusView) reload() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.corpus = nil
}

// embeddings rebuilds query-time embeddings from the artifacts, ordered by slug.
func embeddingsOf(c *domain.Corpus) []domain.Embedding {
	slugs := make([]string, 0, len(c.Index))
	for slug := range c.Index {
		slugs = append(slugs, slug)
	}
	sort.Strings(slugs)

	mode := domain.EmbeddingModePlaceholder
	if c.Embeddings != nil {
		mode = c.Embeddings.Mode
	}

	out := make([]domain.Embedding, 0, len(slugs))
	for _, slug := range slugs {
		entry := c.Index[slug]
		vec, _ := c.Vector(slug)
		emb := domain.Embedding{
			Slug:       slug,
			Vector:     vec,
			SourceText: PrepareText(entry.Title, entry.Content, entry.Tags),
			Title:      entry.Title,
			Tags:       entry.Tags,
			Mode:       mode,
		}
		if entry.Date != nil {
			emb.ModifiedAt = *entry.Date
		}
		out = append(out, emb)
	}
	return out
}

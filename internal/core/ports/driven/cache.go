package driven

import "github.com/custodia-labs/semlink/internal/core/domain"

// SemanticCache persists embeddings and link suggestions across builds,
// keyed by document slug and validated by content fingerprint.
type SemanticCache interface {
	// Get returns the entry for slug when its fingerprint matches and it has not expired.
	Get(slug, content, title string, tags []string) (*domain.CacheEntry, bool)

	// Put stores an embedding and optional links for slug.
	Put(slug string, embedding domain.Embedding, links []domain.SemanticLink) error

	// Prune removes expired entries and returns how many were removed.
	Prune() (int, error)

	// Clear removes every entry.
	Clear() error

	// Stats summarises the cache contents.
	Stats() domain.CacheStats
}

package driving

import "github.com/custodia-labs/semlink/internal/core/domain"

// CacheService manages the semantic cache.
type CacheService interface {
	// Stats summarises the cache.
	Stats() domain.CacheStats

	// Prune removes expired entries.
	Prune() (int, error)

	// Clear removes every entry.
	Clear() error
}

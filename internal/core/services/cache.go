package services

import (
	"github.com/custodia-labs/semlink/internal/core/domain"
	"github.com/custodia-labs/semlink/internal/core/ports/driven"
	"github.com/custodia-labs/semlink/internal/core/ports/driving"
	"github.com/custodia-labs/semlink/internal/logger"
)

// Ensure CacheService implements the interface.
var _ driving.CacheService = (*CacheService)(nil)

// CacheService exposes maintenance of the semantic cache.
// A nil cache means caching is disabled; every operation is then a no-op.
type CacheService struct {
	cache driven.SemanticCache
}

// NewCacheService creates a cache service.
func NewCacheService(cache driven.SemanticCache) *CacheService {
	return &CacheService{cache: cache}
}

// Stats summarises the cache.
func (s *CacheService) Stats() domain.CacheStats {
	if s.cache == nil {
		return domain.CacheStats{}
	}
	return s.cache.Stats()
}

// Prune removes expired entries.
func (s *CacheService) Prune() (int, error) {
	if s.cache == nil {
		return 0, nil
	}
	removed, err := s.cache.Prune()
	if err != nil {
		return removed, err
	}
	logger.Info("Pruned %d cache entries", removed)
	return removed, nil
}

// Clear removes every entry.
func (s *CacheService) Clear() error {
	if s.cache == nil {
		return nil
	}
	logger.Info("Clearing semantic cache")
	return s.cache.Clear()
}

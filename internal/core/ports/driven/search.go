package driven

import (
	"context"

	"github.com/custodia-labs/semlink/internal/core/domain"
)

// LexicalIndex provides keyword search over title, content and tags.
type LexicalIndex interface {
	// Index replaces the index contents with the given entries.
	Index(ctx context.Context, entries domain.ContentIndex) error

	// Search returns slugs matching every query token by prefix, best first.
	Search(ctx context.Context, query string, limit int) ([]SearchHit, error)

	// Close releases resources.
	Close() error
}

// SearchHit represents a search result from the index.
type SearchHit struct {
	// Slug is the matched document.
	Slug string

	// Score is the engine-specific relevance score. Callers rank by position.
	Score float64
}

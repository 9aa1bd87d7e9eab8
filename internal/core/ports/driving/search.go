package driving

import (
	"context"

	"github.com/custodia-labs/semlink/internal/core/domain"
)

// SearchService provides search capabilities to external actors.
type SearchService interface {
	// Search runs keyword, semantic or hybrid retrieval over the built corpus.
	Search(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.SearchResult, error)
}

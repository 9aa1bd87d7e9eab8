package mcp

import (
	"github.com/custodia-labs/semlink/internal/core/domain"
	"github.com/custodia-labs/semlink/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Search provides search capabilities.
	Search driving.SearchService

	// Recommend ranks documents and exposes reading history.
	Recommend driving.RecommendationService

	// Links exposes suggested links and cross-references.
	Links driving.LinkService

	// DefaultSearchMode is used when a search call names no mode.
	// Empty lets the search service choose.
	DefaultSearchMode domain.SearchMode
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Search == nil {
		return ErrMissingSearchService
	}
	// Recommend and Links are optional; their tools report an error when unset.
	return nil
}

package driving

import (
	"context"

	"github.com/custodia-labs/semlink/internal/core/domain"
)

// BuildService computes embeddings, links and cross-references for the corpus.
type BuildService interface {
	// Build runs both passes and writes the artifacts.
	Build(ctx context.Context) (*domain.BuildReport, error)
}

// LinkService exposes the link suggestions of a built corpus.
type LinkService interface {
	// Links returns the suggested links for slug.
	Links(ctx context.Context, slug string) ([]domain.SemanticLink, error)

	// CrossReferences returns the strongest cross-references for slug.
	CrossReferences(ctx context.Context, slug string) ([]domain.CrossReferenceStrength, error)
}

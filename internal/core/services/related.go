package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/semlink/internal/core/domain"
	"github.com/custodia-labs/semlink/internal/core/ports/driven"
	"github.com/custodia-labs/semlink/internal/core/ports/driving"
)

// Ensure LinkService implements the interface.
var _ driving.LinkService = (*LinkService)(nil)

// LinkService reads link suggestions and cross-references from build artifacts.
type LinkService struct {
	view *corpusView
}

// NewLinkService creates a link service over the artifact store.
func NewLinkService(artifacts driven.ArtifactStore) *LinkService {
	return &LinkService{view: newCorpusView(artifacts)}
}

// Reload drops the loaded corpus so the next call reads fresh artifacts.
func (s *LinkService) Reload() {
	s.view.reload()
}

// Links returns the suggested links for slug.
func (s *LinkService) Links(ctx context.Context, slug string) ([]domain.SemanticLink, error) {
	entry, err := s.entry(ctx, slug)
	if err != nil {
		return nil, err
	}
	return entry.SemanticLinks, nil
}

// CrossReferences returns the strongest cross-references for slug.
func (s *LinkService) CrossReferences(ctx context.Context, slug string) ([]domain.CrossReferenceStrength, error) {
	entry, err := s.entry(ctx, slug)
	if err != nil {
		return nil, err
	}
	return entry.CrossReferences, nil
}

func (s *LinkService) entry(ctx context.Context, slug string) (domain.ContentEntry, error) {
	corpus, err := s.view.get(ctx)
	if err != nil {
		return domain.ContentEntry{}, err
	}
	entry, ok := corpus.Index[slug]
	if !ok {
		return domain.ContentEntry{}, fmt.Errorf("document %q: %w", slug, domain.ErrNotFound)
	}
	return entry, nil
}

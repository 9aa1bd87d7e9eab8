package mcp

import (
	"context"

	"github.com/custodia-labs/semlink/internal/core/domain"
)

// mockSearchService is a mock implementation of driving.SearchService.
type mockSearchService struct {
	results  []domain.SearchResult
	err      error
	lastOpts domain.SearchOptions
}

func (m *mockSearchService) Search(
	_ context.Context,
	_ string,
	opts domain.SearchOptions,
) ([]domain.SearchResult, error) {
	m.lastOpts = opts
	return m.results, m.err
}

// mockRecommendationService is a mock implementation of driving.RecommendationService.
type mockRecommendationService struct {
	recs        []domain.Recommendation
	history     []domain.Interaction
	err         error
	lastRequest domain.RecommendRequest
}

func (m *mockRecommendationService) Recommend(
	_ context.Context,
	req domain.RecommendRequest,
) ([]domain.Recommendation, error) {
	m.lastRequest = req
	return m.recs, m.err
}

func (m *mockRecommendationService) Track(_ context.Context, _ domain.Interaction) error {
	return m.err
}

func (m *mockRecommendationService) History(_ context.Context) ([]domain.Interaction, error) {
	return m.history, m.err
}

func (m *mockRecommendationService) ClearHistory(_ context.Context) error {
	return m.err
}

// mockLinkService is a mock implementation of driving.LinkService.
type mockLinkService struct {
	links   []domain.SemanticLink
	refs    []domain.CrossReferenceStrength
	err     error
	refsErr error
}

func (m *mockLinkService) Links(_ context.Context, _ string) ([]domain.SemanticLink, error) {
	return m.links, m.err
}

func (m *mockLinkService) CrossReferences(_ context.Context, _ string) ([]domain.CrossReferenceStrength, error) {
	return m.refs, m.refsErr
}

package mcp

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/semlink/internal/core/domain"
)

func TestExtractSlug(t *testing.T) {
	tests := []struct {
		name     string
		uri      string
		expected string
	}{
		{
			name:     "simple slug",
			uri:      "semlink://links/intro",
			expected: "intro",
		},
		{
			name:     "nested slug",
			uri:      "semlink://links/go/channels",
			expected: "go/channels",
		},
		{
			name:     "invalid prefix",
			uri:      "file://links/intro",
			expected: "",
		},
		{
			name:     "empty URI",
			uri:      "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := extractSlug(tt.uri)
			assert.Equal(t, tt.expected, result)
		})
	}
}

// Helper to create a ReadResourceRequest with the given URI.
func makeReadResourceRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{
			URI: uri,
		},
	}
}

func TestServer_handleHistoryResource(t *testing.T) {
	ctx := context.Background()

	t.Run("nil recommendation service returns empty list", func(t *testing.T) {
		server, err := NewServer(&Ports{Search: &mockSearchService{}})
		require.NoError(t, err)

		result, err := server.handleHistoryResource(ctx, makeReadResourceRequest("semlink://history"))

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "[]", result.Contents[0].Text)
	})

	t.Run("returns history", func(t *testing.T) {
		mockRec := &mockRecommendationService{
			history: []domain.Interaction{
				{Slug: "go/maps", Timestamp: time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC), DurationMs: 4000, ScrollDepth: 0.5},
			},
		}
		server, err := NewServer(&Ports{Search: &mockSearchService{}, Recommend: mockRec})
		require.NoError(t, err)

		result, err := server.handleHistoryResource(ctx, makeReadResourceRequest("semlink://history"))

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "application/json", result.Contents[0].MIMEType)
		assert.Contains(t, result.Contents[0].Text, `"slug": "go/maps"`)
		assert.Contains(t, result.Contents[0].Text, `"scrollDepth": 0.5`)
	})

	t.Run("empty history is an empty list", func(t *testing.T) {
		server, err := NewServer(&Ports{Search: &mockSearchService{}, Recommend: &mockRecommendationService{}})
		require.NoError(t, err)

		result, err := server.handleHistoryResource(ctx, makeReadResourceRequest("semlink://history"))

		require.NoError(t, err)
		assert.Equal(t, "[]", result.Contents[0].Text)
	})

	t.Run("returns error on read failure", func(t *testing.T) {
		mockRec := &mockRecommendationService{err: errors.New("disk error")}
		server, err := NewServer(&Ports{Search: &mockSearchService{}, Recommend: mockRec})
		require.NoError(t, err)

		_, err = server.handleHistoryResource(ctx, makeReadResourceRequest("semlink://history"))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "reading history")
	})
}

func TestServer_handleLinksResource(t *testing.T) {
	ctx := context.Background()

	t.Run("nil link service returns not found", func(t *testing.T) {
		server, err := NewServer(&Ports{Search: &mockSearchService{}})
		require.NoError(t, err)

		_, err = server.handleLinksResource(ctx, makeReadResourceRequest("semlink://links/a"))
		require.Error(t, err)
	})

	t.Run("invalid URI returns not found", func(t *testing.T) {
		server, err := NewServer(&Ports{Search: &mockSearchService{}, Links: &mockLinkService{}})
		require.NoError(t, err)

		_, err = server.handleLinksResource(ctx, makeReadResourceRequest("semlink://invalid/uri"))
		require.Error(t, err)
	})

	t.Run("returns links for nested slug", func(t *testing.T) {
		mockLinks := &mockLinkService{
			links: []domain.SemanticLink{{Source: "go/channels", Target: "go/maps", Strength: 0.82, Kind: domain.LinkKindTagBased}},
		}
		server, err := NewServer(&Ports{Search: &mockSearchService{}, Links: mockLinks})
		require.NoError(t, err)

		result, err := server.handleLinksResource(ctx, makeReadResourceRequest("semlink://links/go/channels"))

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		text := result.Contents[0].Text
		assert.Contains(t, text, `"slug": "go/channels"`)
		assert.Contains(t, text, `"target": "go/maps"`)
		assert.Contains(t, text, `"type": "tag-based"`)
		assert.Contains(t, text, `"crossReferences": []`)
	})

	t.Run("returns error on link failure", func(t *testing.T) {
		mockLinks := &mockLinkService{err: domain.ErrCorpusNotBuilt}
		server, err := NewServer(&Ports{Search: &mockSearchService{}, Links: mockLinks})
		require.NoError(t, err)

		_, err = server.handleLinksResource(ctx, makeReadResourceRequest("semlink://links/a"))
		assert.ErrorIs(t, err, domain.ErrCorpusNotBuilt)
	})
}

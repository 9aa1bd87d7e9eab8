package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/semlink/internal/core/domain"
)

const (
	defaultSearchLimit    = 10
	defaultRecommendLimit = 5
)

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Query string `json:"query" jsonschema:"the search query to find documents"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of results to return (default 10)"`
	Mode  string `json:"mode,omitempty" jsonschema:"retrieval mode: keyword, semantic or hybrid (default from settings)"`
}

// SearchOutput is the output schema for the search tool.
type SearchOutput struct {
	Results []SearchResultOutput `json:"results"`
	Count   int                  `json:"count"`
}

// SearchResultOutput represents a single search result.
type SearchResultOutput struct {
	Slug        string   `json:"slug"`
	Title       string   `json:"title"`
	Score       float64  `json:"score"`
	Explanation string   `json:"explanation"`
	Snippet     string   `json:"snippet,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// RecommendInput is the input schema for the recommend tool.
type RecommendInput struct {
	Mode    string `json:"mode,omitempty" jsonschema:"related, personalized or trending (default related)"`
	Current string `json:"current,omitempty" jsonschema:"slug of the page being read; required for related mode"`
	Limit   int    `json:"limit,omitempty" jsonschema:"maximum number of recommendations (default 5)"`
}

// RecommendOutput is the output schema for the recommend tool.
type RecommendOutput struct {
	Recommendations []domain.Recommendation `json:"recommendations"`
	Count           int                     `json:"count"`
}

// LinksInput is the input schema for the related_links tool.
type LinksInput struct {
	Slug string `json:"slug" jsonschema:"slug of the document to inspect"`
}

// LinksOutput is the output schema for the related_links tool.
type LinksOutput struct {
	Slug            string                          `json:"slug"`
	Links           []domain.SemanticLink           `json:"links"`
	CrossReferences []domain.CrossReferenceStrength `json:"crossReferences"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search",
		Description: "Search the built corpus by keyword, meaning or both",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "recommend",
		Description: "Recommend documents related to a page, to the reading history, or trending overall",
	}, s.handleRecommend)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "related_links",
		Description: "Suggested links and cross-references for a document",
	}, s.handleRelatedLinks)
}

// handleSearch handles the search tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	mode := s.ports.DefaultSearchMode
	if input.Mode != "" {
		mode = domain.SearchMode(input.Mode)
	}

	opts := domain.SearchOptions{Mode: mode, Limit: limit}
	results, err := s.ports.Search.Search(ctx, input.Query, opts)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Results: make([]SearchResultOutput, len(results)),
		Count:   len(results),
	}

	for i := range results {
		output.Results[i] = SearchResultOutput{
			Slug:        results[i].Slug,
			Title:       results[i].Title,
			Score:       results[i].Score,
			Explanation: results[i].Explanation,
			Snippet:     results[i].Snippet,
			Tags:        results[i].Tags,
		}
	}

	return nil, output, nil
}

// handleRecommend handles the recommend tool invocation.
func (s *Server) handleRecommend(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RecommendInput,
) (*mcp.CallToolResult, RecommendOutput, error) {
	if s.ports.Recommend == nil {
		return nil, RecommendOutput{}, errors.New("recommendation service not configured")
	}

	mode := domain.RecommendRelated
	if input.Mode != "" {
		mode = domain.RecommendationMode(input.Mode)
	}
	limit := input.Limit
	if limit <= 0 {
		limit = defaultRecommendLimit
	}

	recs, err := s.ports.Recommend.Recommend(ctx, domain.RecommendRequest{
		Mode:        mode,
		CurrentSlug: input.Current,
		Limit:       limit,
	})
	if err != nil {
		return nil, RecommendOutput{}, err
	}
	if recs == nil {
		recs = []domain.Recommendation{}
	}

	return nil, RecommendOutput{Recommendations: recs, Count: len(recs)}, nil
}

// handleRelatedLinks handles the related_links tool invocation.
func (s *Server) handleRelatedLinks(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input LinksInput,
) (*mcp.CallToolResult, LinksOutput, error) {
	if s.ports.Links == nil {
		return nil, LinksOutput{}, errors.New("link service not configured")
	}
	if input.Slug == "" {
		return nil, LinksOutput{}, fmt.Errorf("slug is required: %w", domain.ErrInvalidInput)
	}

	out, err := s.relatedLinks(ctx, input.Slug)
	if err != nil {
		return nil, LinksOutput{}, err
	}
	return nil, out, nil
}

func (s *Server) relatedLinks(ctx context.Context, slug string) (LinksOutput, error) {
	links, err := s.ports.Links.Links(ctx, slug)
	if err != nil {
		return LinksOutput{}, fmt.Errorf("loading links: %w", err)
	}
	refs, err := s.ports.Links.CrossReferences(ctx, slug)
	if err != nil {
		return LinksOutput{}, fmt.Errorf("loading cross-references: %w", err)
	}

	out := LinksOutput{Slug: slug, Links: links, CrossReferences: refs}
	if out.Links == nil {
		out.Links = []domain.SemanticLink{}
	}
	if out.CrossReferences == nil {
		out.CrossReferences = []domain.CrossReferenceStrength{}
	}
	return out, nil
}

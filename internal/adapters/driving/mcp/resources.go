package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// uriScheme is the custom URI scheme for semlink resources.
	uriScheme = "semlink://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource for the reading history.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "history",
		Name:        "history",
		Description: "Recorded page visits, oldest first",
		MIMEType:    "application/json",
	}, s.handleHistoryResource)

	// Template for a document's suggested links. Slugs may contain slashes.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "links/{+slug}",
		Name:        "document-links",
		Description: "Suggested links and cross-references for a document",
		MIMEType:    "application/json",
	}, s.handleLinksResource)
}

// handleHistoryResource returns the interaction history.
func (s *Server) handleHistoryResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Recommend == nil {
		return jsonResult(req.Params.URI, []byte("[]")), nil
	}

	history, err := s.ports.Recommend.History(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading history: %w", err)
	}

	data, err := json.MarshalIndent(history, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling history: %w", err)
	}
	if len(history) == 0 {
		data = []byte("[]")
	}

	return jsonResult(req.Params.URI, data), nil
}

// handleLinksResource returns links and cross-references for one document.
func (s *Server) handleLinksResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Links == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	// Extract slug from URI: semlink://links/{slug}
	slug := extractSlug(req.Params.URI)
	if slug == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	out, err := s.relatedLinks(ctx, slug)
	if err != nil {
		return nil, err
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling links: %w", err)
	}

	return jsonResult(req.Params.URI, data), nil
}

func jsonResult(uri string, data []byte) *mcp.ReadResourceResult {
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}
}

// extractSlug extracts the slug from a URI like semlink://links/{slug}.
func extractSlug(uri string) string {
	const prefix = uriScheme + "links/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	return strings.Trim(strings.TrimPrefix(uri, prefix), "/")
}

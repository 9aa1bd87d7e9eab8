// Package mcp provides an MCP (Model Context Protocol) server adapter for semlink.
// It lets AI assistants search a built corpus, ask for recommendations and
// inspect suggested links.
package mcp

import "errors"

// ErrMissingSearchService is returned when the search service is not provided.
var ErrMissingSearchService = errors.New("mcp: search service is required")

// Package driven provides interfaces for infrastructure adapters (secondary/outbound ports).
package driven

import (
	"context"

	"github.com/custodia-labs/semlink/internal/core/domain"
)

// Embedder is the remote embed(text) capability of a language model service.
//
// Implementations include:
//   - Ollama (nomic-embed-text, all-minilm)
//   - OpenAI-compatible APIs (text-embedding-3-small)
type Embedder interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// Dimensions returns the embedding vector size (e.g., 384, 1536, 3072).
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight test request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// EmbeddingProvider produces document vectors for a whole build pass.
// It is initialised once, reused for every document and disposed at the end.
type EmbeddingProvider interface {
	// Initialize prepares the provider. An error means the provider cannot serve the pass.
	Initialize(ctx context.Context) error

	// Embed returns a vector of Dimensions() length.
	Embed(ctx context.Context, text string) ([]float32, error)

	// Mode reports the fidelity of the vectors this provider returns.
	Mode() domain.EmbeddingMode

	// Dimensions returns the vector length.
	Dimensions() int

	// ModelName identifies the model, or the fallback scheme.
	ModelName() string

	// Dispose releases resources. Safe to call more than once.
	Dispose() error
}

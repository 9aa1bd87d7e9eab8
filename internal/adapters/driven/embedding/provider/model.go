// Package provider implements driven.EmbeddingProvider on top of a remote
// Embedder, or deterministic placeholder vectors when no model is available.
package provider

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/semlink/internal/core/domain"
	"github.com/custodia-labs/semlink/internal/core/ports/driven"
)

// Ensure ModelBacked implements the interface.
var _ driven.EmbeddingProvider = (*ModelBacked)(nil)

// ModelBacked serves full-fidelity vectors from a remote Embedder.
// Each Initialize/Dispose pair brackets one pass; the provider can be
// initialised again after Dispose.
type ModelBacked struct {
	embedder driven.Embedder

	mu          sync.Mutex
	initialized bool
}

// NewModelBacked wraps embedder.
func NewModelBacked(embedder driven.Embedder) *ModelBacked {
	return &ModelBacked{embedder: embedder}
}

// Initialize pings the backend. Calls before the next Dispose are no-ops.
func (p *ModelBacked) Initialize(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return nil
	}
	if err := p.embedder.Ping(ctx); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrEmbeddingUnavailable, err)
	}
	p.initialized = true
	return nil
}

// Embed returns the model vector for text.
func (p *ModelBacked) Embed(ctx context.Context, text string) ([]float32, error) {
	p.mu.Lock()
	ready := p.initialized
	p.mu.Unlock()
	if !ready {
		return nil, fmt.Errorf("%w: provider not initialised", domain.ErrEmbeddingUnavailable)
	}
	return p.embedder.Embed(ctx, text)
}

// Mode reports full fidelity.
func (p *ModelBacked) Mode() domain.EmbeddingMode {
	return domain.EmbeddingModeModel
}

// Dimensions returns the model vector length.
func (p *ModelBacked) Dimensions() int {
	return p.embedder.Dimensions()
}

// ModelName returns the model identifier.
func (p *ModelBacked) ModelName() string {
	return p.embedder.ModelName()
}

// Dispose releases the embedder's connections and returns the provider to
// its uninitialised state. Disposing an uninitialised provider is a no-op.
func (p *ModelBacked) Dispose() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.initialized {
		return nil
	}
	p.initialized = false
	return p.embedder.Close()
}

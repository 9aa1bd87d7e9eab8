package services

import (
	"context"
	"time"

	"github.com/custodia-labs/semlink/internal/core/domain"
	"github.com/custodia-labs/semlink/internal/core/ports/driven"
	"github.com/custodia-labs/semlink/internal/logger"
)

// Generator turns documents into embeddings using a single provider for a pass.
type Generator struct {
	provider driven.EmbeddingProvider
	now      func() time.Time
}

// NewGenerator creates a generator over an initialised provider.
func NewGenerator(provider driven.EmbeddingProvider) *Generator {
	return &Generator{provider: provider, now: time.Now}
}

// Generate embeds doc. It never fails: when the provider errors the result is a
// zero vector of the provider's dimensionality in placeholder mode.
func (g *Generator) Generate(ctx context.Context, doc domain.Document) domain.Embedding {
	text := PrepareText(doc.Title, doc.Content, doc.Tags)
	sentiment := AnalyzeSentiment(text)

	emb := domain.Embedding{
		Slug:        doc.Slug,
		SourceText:  text,
		Title:       doc.Title,
		Tags:        doc.Tags,
		Fingerprint: doc.Fingerprint(),
		Mode:        g.provider.Mode(),
		Model:       g.provider.ModelName(),
		Sentiment:   &sentiment,
		ModifiedAt:  doc.ModifiedAt,
		GeneratedAt: g.now(),
	}

	vec, err := g.provider.Embed(ctx, text)
	if err == nil && len(vec) != g.provider.Dimensions() {
		err = domain.ErrDimensionMismatch
	}
	if err != nil {
		logger.Warn("embed %s: %v, using placeholder vector", doc.Slug, err)
		vec = make([]float32, g.provider.Dimensions())
		emb.Mode = domain.EmbeddingModePlaceholder
	}
	emb.Vector = vec
	return emb
}

// Mode reports the provider's nominal fidelity.
func (g *Generator) Mode() domain.EmbeddingMode {
	return g.provider.Mode()
}

// Dimensions reports the provider's vector length.
func (g *Generator) Dimensions() int {
	return g.provider.Dimensions()
}

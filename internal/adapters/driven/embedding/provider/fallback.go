package provider

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
	"unicode"

	"github.com/custodia-labs/semlink/internal/core/domain"
	"github.com/custodia-labs/semlink/internal/core/ports/driven"
)

// Ensure TagFallback implements the interface.
var _ driven.EmbeddingProvider = (*TagFallback)(nil)

// FallbackModelName identifies placeholder vectors in artifacts.
const FallbackModelName = "hashed-bag-of-words"

// TagFallback produces deterministic placeholder vectors by feature hashing
// the words of the text into a fixed number of buckets.
type TagFallback struct {
	dimensions int
}

// NewTagFallback creates a fallback provider emitting vectors of length dimensions.
func NewTagFallback(dimensions int) *TagFallback {
	if dimensions <= 0 {
		dimensions = domain.DefaultAppSettings().Embedding.Dimensions
	}
	return &TagFallback{dimensions: dimensions}
}

// Initialize always succeeds.
func (p *TagFallback) Initialize(context.Context) error {
	return nil
}

// Embed hashes each word into a signed bucket and L2-normalises the result.
// Text without words yields the zero vector.
func (p *TagFallback) Embed(_ context.Context, text string) ([]float32, error) {
	vec := make([]float32, p.dimensions)
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})

	for _, w := range words {
		h := fnv.New64a()
		_, _ = h.Write([]byte(w))
		sum := h.Sum64()
		idx := int(sum % uint64(p.dimensions))
		if sum&(1<<63) != 0 {
			vec[idx]--
		} else {
			vec[idx]++
		}
	}

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if norm == 0 {
		return vec, nil
	}
	norm = math.Sqrt(norm)
	for i := range vec {
		vec[i] = float32(float64(vec[i]) / norm)
	}
	return vec, nil
}

// Mode reports placeholder fidelity.
func (p *TagFallback) Mode() domain.EmbeddingMode {
	return domain.EmbeddingModePlaceholder
}

// Dimensions returns the vector length.
func (p *TagFallback) Dimensions() int {
	return p.dimensions
}

// ModelName returns FallbackModelName.
func (p *TagFallback) ModelName() string {
	return FallbackModelName
}

// Dispose is a no-op.
func (p *TagFallback) Dispose() error {
	return nil
}

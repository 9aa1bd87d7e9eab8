package provider

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/semlink/internal/core/domain"
)

type mockEmbedder struct {
	pingErr  error
	pings    int
	closes   int
	embedded []string
}

func (m *mockEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	m.embedded = append(m.embedded, text)
	return []float32{1, 2, 3}, nil
}
func (m *mockEmbedder) Dimensions() int   { return 3 }
func (m *mockEmbedder) ModelName() string { return "mock" }
func (m *mockEmbedder) Ping(context.Context) error {
	m.pings++
	return m.pingErr
}
func (m *mockEmbedder) Close() error {
	m.closes++
	return nil
}

func TestModelBacked_Lifecycle(t *testing.T) {
	ctx := context.Background()
	emb := &mockEmbedder{}
	p := NewModelBacked(emb)

	_, err := p.Embed(ctx, "before init")
	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)

	require.NoError(t, p.Initialize(ctx))
	require.NoError(t, p.Initialize(ctx))
	assert.Equal(t, 1, emb.pings)

	vec, err := p.Embed(ctx, "hello")
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 2, 3}, vec)
	assert.Equal(t, domain.EmbeddingModeModel, p.Mode())
	assert.Equal(t, 3, p.Dimensions())
	assert.Equal(t, "mock", p.ModelName())

	require.NoError(t, p.Dispose())
	require.NoError(t, p.Dispose())
	assert.Equal(t, 1, emb.closes)

	_, err = p.Embed(ctx, "after dispose")
	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
}

func TestModelBacked_ReinitializeAfterDispose(t *testing.T) {
	ctx := context.Background()
	emb := &mockEmbedder{}
	p := NewModelBacked(emb)

	for pass := 0; pass < 2; pass++ {
		require.NoError(t, p.Initialize(ctx))
		_, err := p.Embed(ctx, "text")
		require.NoError(t, err)
		require.NoError(t, p.Dispose())
	}

	assert.Equal(t, 2, emb.pings)
	assert.Equal(t, 2, emb.closes)
	assert.Len(t, emb.embedded, 2)
}

func TestModelBacked_DisposeBeforeInitialize(t *testing.T) {
	emb := &mockEmbedder{}
	p := NewModelBacked(emb)

	require.NoError(t, p.Dispose())
	assert.Zero(t, emb.closes)
}

func TestModelBacked_InitializeFailure(t *testing.T) {
	p := NewModelBacked(&mockEmbedder{pingErr: errors.New("connection refused")})

	err := p.Initialize(context.Background())
	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
}

func TestTagFallback_Deterministic(t *testing.T) {
	ctx := context.Background()
	p := NewTagFallback(64)

	a, err := p.Embed(ctx, "Go channels and goroutines")
	require.NoError(t, err)
	b, err := p.Embed(ctx, "go CHANNELS, and goroutines!")
	require.NoError(t, err)

	assert.Len(t, a, 64)
	assert.Equal(t, a, b)
	assert.Equal(t, domain.EmbeddingModePlaceholder, p.Mode())
	assert.Equal(t, FallbackModelName, p.ModelName())
}

func TestTagFallback_Normalised(t *testing.T) {
	vec, err := NewTagFallback(32).Embed(context.Background(), "alpha beta gamma delta")
	require.NoError(t, err)

	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	assert.InDelta(t, 1.0, sum, 1e-5)
}

func TestTagFallback_EmptyText(t *testing.T) {
	vec, err := NewTagFallback(8).Embed(context.Background(), "  ...  ")
	require.NoError(t, err)

	assert.Equal(t, make([]float32, 8), vec)
}

func TestTagFallback_DefaultDimensions(t *testing.T) {
	p := NewTagFallback(0)
	assert.Equal(t, domain.DefaultAppSettings().Embedding.Dimensions, p.Dimensions())
	assert.NoError(t, p.Initialize(context.Background()))
	assert.NoError(t, p.Dispose())
}

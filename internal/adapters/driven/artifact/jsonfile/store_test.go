package jsonfile

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/semlink/internal/core/domain"
)

func testArtifacts() (*domain.EmbeddingsArtifact, domain.ContentIndex) {
	generated := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	emb := &domain.EmbeddingsArtifact{
		Embeddings: map[string][]float32{"go/maps": {0.5, 0.5}},
		Model:      "nomic-embed-text",
		Dimensions: 2,
		Generated:  generated,
		Mode:       domain.EmbeddingModeModel,
		BuildID:    "build-1",
	}
	index := domain.ContentIndex{
		"go/maps": {
			Title:   "Maps",
			Content: "A hash table.",
			Tags:    []string{"golang"},
			Links:   []string{},
			Date:    &generated,
		},
	}
	return emb, index
}

func TestStore_WriteRead(t *testing.T) {
	ctx := context.Background()
	store := NewStore(filepath.Join(t.TempDir(), "static"))
	emb, index := testArtifacts()

	require.NoError(t, store.Write(ctx, emb, index))

	corpus, err := store.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, index["go/maps"].Title, corpus.Index["go/maps"].Title)
	assert.True(t, corpus.Index["go/maps"].Date.Equal(*index["go/maps"].Date))
	assert.Equal(t, emb.Embeddings, corpus.Embeddings.Embeddings)
	assert.Equal(t, "build-1", corpus.Embeddings.BuildID)
	assert.Equal(t, domain.EmbeddingModeModel, corpus.Embeddings.Mode)

	v, ok := corpus.Vector("go/maps")
	assert.True(t, ok)
	assert.Equal(t, []float32{0.5, 0.5}, v)
}

func TestStore_WireFormat(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)
	emb, index := testArtifacts()
	require.NoError(t, store.Write(context.Background(), emb, index))

	data, err := os.ReadFile(filepath.Join(dir, domain.EmbeddingsArtifactName))
	require.NoError(t, err)
	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.ElementsMatch(t, []string{"embeddings", "model", "dimensions", "generated", "mode", "buildId"}, keys(raw))

	data, err = os.ReadFile(filepath.Join(dir, domain.ContentIndexArtifactName))
	require.NoError(t, err)
	var rawIndex map[string]map[string]any
	require.NoError(t, json.Unmarshal(data, &rawIndex))
	assert.ElementsMatch(t, []string{"title", "content", "tags", "links", "date"}, keys(rawIndex["go/maps"]))
}

func keys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

func TestStore_Read_NotBuilt(t *testing.T) {
	_, err := NewStore(t.TempDir()).Read(context.Background())
	assert.ErrorIs(t, err, domain.ErrCorpusNotBuilt)
}

func TestStore_Read_Corrupt(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, domain.ContentIndexArtifactName), []byte("{"), 0644))

	_, err := NewStore(dir).Read(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrCorpusNotBuilt)
}

func TestStore_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	emb, index := testArtifacts()

	assert.ErrorIs(t, NewStore(t.TempDir()).Write(ctx, emb, index), context.Canceled)
}

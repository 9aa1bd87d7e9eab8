package driven

import (
	"context"

	"github.com/custodia-labs/semlink/internal/core/domain"
)

// KeyValueStore is a small persistent string store.
type KeyValueStore interface {
	// Get returns the value for key, or domain.ErrNotFound.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value under key.
	Set(ctx context.Context, key, value string) error

	// Delete removes key. Missing keys are not an error.
	Delete(ctx context.Context, key string) error
}

// InteractionStore holds the visitor's reading history, newest last.
type InteractionStore interface {
	// Append records an interaction, trimming the history to its cap.
	Append(ctx context.Context, interaction domain.Interaction) error

	// Recent returns up to n most recent interactions, oldest first.
	// n <= 0 returns the whole history.
	Recent(ctx context.Context, n int) ([]domain.Interaction, error)

	// Clear removes the history.
	Clear(ctx context.Context) error
}

// CorpusSource loads the documents for a build.
type CorpusSource interface {
	// Load returns every document in the corpus, ordered by slug.
	Load(ctx context.Context) ([]domain.Document, error)
}

// ArtifactStore persists build output for query-time use.
type ArtifactStore interface {
	// Write stores both artifacts.
	Write(ctx context.Context, embeddings *domain.EmbeddingsArtifact, index domain.ContentIndex) error

	// Read loads the corpus, or domain.ErrCorpusNotBuilt.
	Read(ctx context.Context) (*domain.Corpus, error)
}

// Package ai provides factory functions for creating embedding adapters from settings.
package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/semlink/internal/adapters/driven/embedding/ollama"
	"github.com/custodia-labs/semlink/internal/adapters/driven/embedding/openai"
	"github.com/custodia-labs/semlink/internal/adapters/driven/embedding/provider"
	"github.com/custodia-labs/semlink/internal/core/domain"
	"github.com/custodia-labs/semlink/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// CreateEmbedder creates the remote embedder named by settings.
// Returns nil if no model provider is configured.
func CreateEmbedder(settings *domain.EmbeddingSettings) (driven.Embedder, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return ollama.New(ollama.Config{
			BaseURL:           settings.BaseURL,
			Model:             settings.Model,
			Dimensions:        dimensionsFor(settings, ollama.DefaultDimensions),
			RequestsPerSecond: settings.RequestsPerSecond,
		}), nil

	case domain.AIProviderOpenAI:
		return openai.New(openai.Config{
			APIKey:            settings.APIKey,
			BaseURL:           settings.BaseURL,
			Model:             settings.Model,
			Dimensions:        dimensionsFor(settings, openai.DefaultDimensions),
			RequestsPerSecond: settings.RequestsPerSecond,
		})

	default:
		return nil, fmt.Errorf("%w: embedding provider %s", domain.ErrUnsupportedType, settings.Provider)
	}
}

// CreateProvider returns a model-backed provider when a model is configured,
// otherwise the tag fallback provider.
func CreateProvider(settings *domain.EmbeddingSettings) (driven.EmbeddingProvider, error) {
	embedder, err := CreateEmbedder(settings)
	if err != nil {
		return nil, err
	}
	if embedder == nil {
		dims := 0
		if settings != nil {
			dims = settings.Dimensions
		}
		return provider.NewTagFallback(dims), nil
	}
	return provider.NewModelBacked(embedder), nil
}

// ValidateEmbeddingConfig creates the configured embedder and pings it.
// Unconfigured settings are valid.
func ValidateEmbeddingConfig(settings *domain.EmbeddingSettings) error {
	embedder, err := CreateEmbedder(settings)
	if err != nil {
		return err
	}
	if embedder == nil {
		return nil
	}
	defer embedder.Close()

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := embedder.Ping(ctx); err != nil {
		return fmt.Errorf("%w: service unreachable (%w). Run 'semlink settings set embedding.provider none' to use tag fallback",
			domain.ErrEmbeddingUnavailable, err)
	}
	return nil
}

// dimensionsFor picks the model's known size, then configured, then fallback.
func dimensionsFor(settings *domain.EmbeddingSettings, fallback int) int {
	if d, ok := domain.EmbeddingDimensions()[settings.Model]; ok {
		return d
	}
	if settings.Dimensions > 0 {
		return settings.Dimensions
	}
	return fallback
}

package main

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/custodia-labs/semlink/internal/adapters/driven/ai"
	"github.com/custodia-labs/semlink/internal/adapters/driven/artifact/jsonfile"
	filecache "github.com/custodia-labs/semlink/internal/adapters/driven/cache/file"
	"github.com/custodia-labs/semlink/internal/adapters/driven/config/file"
	"github.com/custodia-labs/semlink/internal/adapters/driven/corpus/markdown"
	"github.com/custodia-labs/semlink/internal/adapters/driven/embedding/provider"
	"github.com/custodia-labs/semlink/internal/adapters/driven/interactions"
	"github.com/custodia-labs/semlink/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/semlink/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/semlink/internal/adapters/driving/cli"
	"github.com/custodia-labs/semlink/internal/core/domain"
	"github.com/custodia-labs/semlink/internal/core/ports/driven"
	"github.com/custodia-labs/semlink/internal/core/ports/driving"
	"github.com/custodia-labs/semlink/internal/core/services"
	"github.com/custodia-labs/semlink/internal/logger"
)

// wire builds every service from the settings stored in configDir.
func wire(configDir string) (*cli.Services, error) {
	configStore, err := file.NewConfigStore(configDir)
	if err != nil {
		return nil, fmt.Errorf("opening config: %w", err)
	}

	settingsService := services.NewSettingsService(configStore, ai.NewConfigValidator())
	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}
	logger.Debug("Config: %s", configStore.Path())

	dataDir := ""
	if configDir != "" {
		dataDir = filepath.Join(configDir, "data")
	}
	store, err := sqlite.NewStore(dataDir)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}
	logger.Debug("Store: %s", store.Path())

	var lexical driven.LexicalIndex = memory.NewLexicalIndex()
	if settings.Search.LexicalBackend == domain.LexicalBackendSQLite {
		lexical = store.LexicalIndex()
	}

	// Build disposes its provider after every pass; queries keep their own.
	embeddings, err := ai.CreateProvider(&settings.Embedding)
	if err != nil {
		logger.Warn("Embedding provider unavailable, using tag fallback: %v", err)
		embeddings = provider.NewTagFallback(settings.Embedding.Dimensions)
	}
	queryEmbeddings, err := ai.CreateProvider(&settings.Embedding)
	if err != nil {
		queryEmbeddings = nil
	}
	fallback := provider.NewTagFallback(settings.Embedding.Dimensions)

	var semanticCache driven.SemanticCache
	var cacheService driving.CacheService
	if settings.Cache.Enabled {
		c, err := filecache.New(settings.Cache.Dir, filecache.WithMaxAge(settings.Cache.MaxAge()))
		if err != nil {
			logger.Warn("Semantic cache disabled: %v", err)
		} else {
			semanticCache = c
			cacheService = services.NewCacheService(c)
		}
	}

	artifacts := jsonfile.NewStore(settings.Build.OutputDir)
	source := markdown.NewSource(settings.Build.ContentDir)
	weights := domain.DefaultScoringWeights().WithSettings(*settings)

	searchService := services.NewSearchService(artifacts, lexical, queryEmbeddings, weights)
	linkService := services.NewLinkService(artifacts)
	recommendationService := services.NewRecommendationService(artifacts, interactions.NewLog(store.KeyValueStore()), weights)
	buildService := services.NewBuildService(source, semanticCache, embeddings, fallback, artifacts, *settings)

	svc := &cli.Services{
		Search:         searchService,
		Build:          buildService,
		Links:          linkService,
		Recommendation: recommendationService,
		Cache:          cacheService,
		Settings:       settingsService,
		Watcher:        source,
		Reload: func() {
			searchService.Reload()
			linkService.Reload()
			recommendationService.Reload()
		},
		Close: func() error {
			return errors.Join(searchService.Close(), embeddings.Dispose(), lexical.Close(), store.Close())
		},
	}
	return svc, nil
}

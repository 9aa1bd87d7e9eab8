package services

import (
	"fmt"
	"strconv"

	"github.com/custodia-labs/semlink/internal/core/domain"
	"github.com/custodia-labs/semlink/internal/core/ports/driven"
	"github.com/custodia-labs/semlink/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keySearchMode         = "search.mode"
	keySearchKeywordW     = "search.keyword_weight"
	keySearchSemDiscount  = "search.semantic_only_discount"
	keySearchLexical      = "search.lexical_backend"
	keyEmbedProvider      = "embedding.provider"
	keyEmbedModel         = "embedding.model"
	keyEmbedBaseURL       = "embedding.base_url"
	keyEmbedAPIKey        = "embedding.api_key"
	keyEmbedDims          = "embedding.dimensions"
	keyEmbedRPS           = "embedding.requests_per_second"
	keyCacheEnabled       = "cache.enabled"
	keyCacheDir           = "cache.dir"
	keyCacheMaxAgeDays    = "cache.max_age_days"
	keyBuildParallelism   = "build.parallelism"
	keyBuildContentDir    = "build.content_dir"
	keyBuildOutputDir     = "build.output_dir"
	keyLinksMinSimilarity = "links.min_similarity"
	keyLinksMaxSuggest    = "links.max_suggestions"
	keyLinksDisplay       = "links.display_threshold"
	keyLinksSentiment     = "links.use_sentiment"
	keyLinksSentimentW    = "links.sentiment_weight"
	keyLinksPolarityTol   = "links.polarity_tolerance"
	keyLinksCrossRef      = "links.cross_reference"
)

type keyKind int

const (
	kindString keyKind = iota
	kindInt
	kindFloat
	kindBool
)

// settingKinds lists every recognised key and its value type.
var settingKinds = map[string]keyKind{
	keySearchMode:         kindString,
	keySearchKeywordW:     kindFloat,
	keySearchSemDiscount:  kindFloat,
	keySearchLexical:      kindString,
	keyEmbedProvider:      kindString,
	keyEmbedModel:         kindString,
	keyEmbedBaseURL:       kindString,
	keyEmbedAPIKey:        kindString,
	keyEmbedDims:          kindInt,
	keyEmbedRPS:           kindFloat,
	keyCacheEnabled:       kindBool,
	keyCacheDir:           kindString,
	keyCacheMaxAgeDays:    kindInt,
	keyBuildParallelism:   kindInt,
	keyBuildContentDir:    kindString,
	keyBuildOutputDir:     kindString,
	keyLinksMinSimilarity: kindFloat,
	keyLinksMaxSuggest:    kindInt,
	keyLinksDisplay:       kindFloat,
	keyLinksSentiment:     kindBool,
	keyLinksSentimentW:    kindFloat,
	keyLinksPolarityTol:   kindFloat,
	keyLinksCrossRef:      kindBool,
}

// SettingKeys returns every recognised configuration key.
func SettingKeys() []string {
	keys := make([]string, 0, len(settingKinds))
	for k := range settingKinds {
		keys = append(keys, k)
	}
	return keys
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
	}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Search: domain.SearchSettings{
			Mode:                 s.getSearchMode(defaults.Search.Mode),
			KeywordWeight:        s.getUnitFloat(keySearchKeywordW, defaults.Search.KeywordWeight),
			SemanticOnlyDiscount: s.getUnitFloat(keySearchSemDiscount, defaults.Search.SemanticOnlyDiscount),
			LexicalBackend:       s.getLexicalBackend(defaults.Search.LexicalBackend),
		},
		Embedding: domain.EmbeddingSettings{
			Provider:          s.getProvider(keyEmbedProvider, defaults.Embedding.Provider),
			Model:             s.getString(keyEmbedModel, defaults.Embedding.Model),
			BaseURL:           s.configStore.GetString(keyEmbedBaseURL), // No default - adapters pick their own
			APIKey:            s.configStore.GetString(keyEmbedAPIKey),
			Dimensions:        s.getInt(keyEmbedDims, defaults.Embedding.Dimensions),
			RequestsPerSecond: s.getFloat(keyEmbedRPS, defaults.Embedding.RequestsPerSecond),
		},
		Cache: domain.CacheSettings{
			Enabled:    s.getBool(keyCacheEnabled, defaults.Cache.Enabled),
			Dir:        s.getString(keyCacheDir, defaults.Cache.Dir),
			MaxAgeDays: s.getInt(keyCacheMaxAgeDays, defaults.Cache.MaxAgeDays),
		},
		Build: domain.BuildSettings{
			Parallelism: s.getInt(keyBuildParallelism, defaults.Build.Parallelism),
			ContentDir:  s.getString(keyBuildContentDir, defaults.Build.ContentDir),
			OutputDir:   s.getString(keyBuildOutputDir, defaults.Build.OutputDir),
		},
		Links: domain.LinkSettings{
			MinSimilarity:     s.getUnitFloat(keyLinksMinSimilarity, defaults.Links.MinSimilarity),
			MaxSuggestions:    s.getInt(keyLinksMaxSuggest, defaults.Links.MaxSuggestions),
			DisplayThreshold:  s.getUnitFloat(keyLinksDisplay, defaults.Links.DisplayThreshold),
			UseSentiment:      s.getBool(keyLinksSentiment, defaults.Links.UseSentiment),
			SentimentWeight:   s.getUnitFloat(keyLinksSentimentW, defaults.Links.SentimentWeight),
			PolarityTolerance: s.getFloat(keyLinksPolarityTol, defaults.Links.PolarityTolerance),
			CrossReference:    s.getBool(keyLinksCrossRef, defaults.Links.CrossReference),
		},
	}

	// Known models imply their dimensionality unless overridden.
	if _, set := s.configStore.Get(keyEmbedDims); !set {
		if d, ok := domain.EmbeddingDimensions()[settings.Embedding.Model]; ok {
			settings.Embedding.Dimensions = d
		}
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	values := []struct {
		key   string
		value any
	}{
		{keySearchMode, settings.Search.Mode.String()},
		{keySearchKeywordW, settings.Search.KeywordWeight},
		{keySearchSemDiscount, settings.Search.SemanticOnlyDiscount},
		{keySearchLexical, string(settings.Search.LexicalBackend)},
		{keyEmbedProvider, settings.Embedding.Provider.String()},
		{keyEmbedModel, settings.Embedding.Model},
		{keyEmbedBaseURL, settings.Embedding.BaseURL},
		{keyEmbedDims, settings.Embedding.Dimensions},
		{keyEmbedRPS, settings.Embedding.RequestsPerSecond},
		{keyCacheEnabled, settings.Cache.Enabled},
		{keyCacheDir, settings.Cache.Dir},
		{keyCacheMaxAgeDays, settings.Cache.MaxAgeDays},
		{keyBuildParallelism, settings.Build.Parallelism},
		{keyBuildContentDir, settings.Build.ContentDir},
		{keyBuildOutputDir, settings.Build.OutputDir},
		{keyLinksMinSimilarity, settings.Links.MinSimilarity},
		{keyLinksMaxSuggest, settings.Links.MaxSuggestions},
		{keyLinksDisplay, settings.Links.DisplayThreshold},
		{keyLinksSentiment, settings.Links.UseSentiment},
		{keyLinksSentimentW, settings.Links.SentimentWeight},
		{keyLinksPolarityTol, settings.Links.PolarityTolerance},
		{keyLinksCrossRef, settings.Links.CrossReference},
	}

	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}

	if settings.Embedding.APIKey != "" {
		if err := s.configStore.Set(keyEmbedAPIKey, settings.Embedding.APIKey); err != nil {
			return fmt.Errorf("save embedding api_key: %w", err)
		}
	}

	return nil
}

// Set updates one dot-notation key, validating the value.
func (s *SettingsService) Set(key, value string) error {
	kind, ok := settingKinds[key]
	if !ok {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	var typed any
	switch kind {
	case kindInt:
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("%w: %s expects a non-negative integer", domain.ErrInvalidInput, key)
		}
		typed = n
	case kindFloat:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f < 0 {
			return fmt.Errorf("%w: %s expects a non-negative number", domain.ErrInvalidInput, key)
		}
		typed = f
	case kindBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: %s expects true or false", domain.ErrInvalidInput, key)
		}
		typed = b
	default:
		typed = value
	}

	switch key {
	case keySearchMode:
		if !domain.SearchMode(value).IsValid() {
			return fmt.Errorf("%w: invalid search mode: %s", domain.ErrInvalidInput, value)
		}
	case keyEmbedProvider:
		if !domain.AIProvider(value).IsValid() {
			return fmt.Errorf("%w: invalid embedding provider: %s", domain.ErrInvalidInput, value)
		}
	case keySearchLexical:
		if !domain.LexicalBackend(value).IsValid() {
			return fmt.Errorf("%w: invalid lexical backend: %s", domain.ErrInvalidInput, value)
		}
	}

	return s.configStore.Set(key, typed)
}

// SetSearchMode updates the search mode.
func (s *SettingsService) SetSearchMode(mode domain.SearchMode) error {
	if !mode.IsValid() {
		return fmt.Errorf("%w: invalid search mode: %s", domain.ErrInvalidInput, mode)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Search.Mode = mode
	return s.Save(settings)
}

// SetEmbeddingProvider configures the embedding provider.
func (s *SettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("%w: invalid embedding provider: %s", domain.ErrInvalidInput, provider)
	}

	// Validate API key if required
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("%w: API key required for %s", domain.ErrInvalidInput, provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Embedding.Provider = provider

	// Set model - use provided or default
	if model != "" {
		settings.Embedding.Model = model
	} else if defaultModel, ok := domain.DefaultEmbeddingModels()[provider]; ok {
		settings.Embedding.Model = defaultModel
	}

	settings.Embedding.APIKey = apiKey

	// Update dimensions based on model
	if d, ok := domain.EmbeddingDimensions()[settings.Embedding.Model]; ok {
		settings.Embedding.Dimensions = d
	}

	return s.Save(settings)
}

// Validate checks if current settings are consistent.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	if !settings.Search.Mode.IsValid() {
		return fmt.Errorf("%w: invalid search mode: %s", domain.ErrInvalidInput, settings.Search.Mode)
	}
	if settings.Embedding.Provider.RequiresAPIKey() && settings.Embedding.APIKey == "" {
		return fmt.Errorf("%w: embedding provider %q requires an API key", domain.ErrInvalidInput, settings.Embedding.Provider.Description())
	}
	if settings.Embedding.Dimensions <= 0 {
		return fmt.Errorf("%w: embedding dimensions must be positive", domain.ErrInvalidInput)
	}
	if settings.Build.Parallelism <= 0 {
		return fmt.Errorf("%w: build parallelism must be positive", domain.ErrInvalidInput)
	}

	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ValidateEmbeddingConfig validates the current embedding configuration by pinging the provider.
func (s *SettingsService) ValidateEmbeddingConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateEmbedding(&settings.Embedding)
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val <= 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	val := s.configStore.GetFloat(key)
	if val < 0 {
		return defaultVal
	}
	return val
}

// getUnitFloat reads a value that must lie in [0,1].
func (s *SettingsService) getUnitFloat(key string, defaultVal float64) float64 {
	val := s.getFloat(key, defaultVal)
	if val > 1 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getSearchMode(defaultVal domain.SearchMode) domain.SearchMode {
	val := s.configStore.GetString(keySearchMode)
	if val == "" {
		return defaultVal
	}
	mode := domain.SearchMode(val)
	if !mode.IsValid() {
		return defaultVal
	}
	return mode
}

func (s *SettingsService) getProvider(key string, defaultVal domain.AIProvider) domain.AIProvider {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	provider := domain.AIProvider(val)
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}

func (s *SettingsService) getLexicalBackend(defaultVal domain.LexicalBackend) domain.LexicalBackend {
	backend := domain.LexicalBackend(s.configStore.GetString(keySearchLexical))
	if !backend.IsValid() {
		return defaultVal
	}
	return backend
}

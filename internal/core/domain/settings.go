package domain

import "time"

const unknownDescription = "Unknown"

// SearchMode defines how search operations combine different retrieval methods.
type SearchMode string

// Available search modes.
const (
	// SearchModeKeyword uses only the lexical index.
	SearchModeKeyword SearchMode = "keyword"

	// SearchModeSemantic uses only vector similarity.
	SearchModeSemantic SearchMode = "semantic"

	// SearchModeHybrid merges keyword and semantic results.
	SearchModeHybrid SearchMode = "hybrid"
)

// IsValid returns true if the search mode is recognised.
func (m SearchMode) IsValid() bool {
	switch m {
	case SearchModeKeyword, SearchModeSemantic, SearchModeHybrid:
		return true
	default:
		return false
	}
}

// RequiresEmbedding returns true if this mode reads vectors.
func (m SearchMode) RequiresEmbedding() bool {
	return m == SearchModeSemantic || m == SearchModeHybrid
}

// String returns the string representation.
func (m SearchMode) String() string {
	return string(m)
}

// Description returns a human-readable description of the mode.
func (m SearchMode) Description() string {
	switch m {
	case SearchModeKeyword:
		return "Keyword (full-text search)"
	case SearchModeSemantic:
		return "Semantic (vector similarity)"
	case SearchModeHybrid:
		return "Hybrid (keyword + semantic)"
	default:
		return unknownDescription
	}
}

// AIProvider identifies an embedding service provider.
type AIProvider string

// Available AI providers.
const (
	// AIProviderNone disables model embeddings; tag fallback vectors are used.
	AIProviderNone AIProvider = "none"

	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is OpenAI or any compatible API.
	AIProviderOpenAI AIProvider = "openai"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderNone, AIProviderOllama, AIProviderOpenAI:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderNone:
		return "None (tag fallback vectors)"
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	default:
		return unknownDescription
	}
}

// LexicalBackend selects the keyword index implementation.
type LexicalBackend string

// Available lexical backends.
const (
	LexicalBackendMemory LexicalBackend = "memory"
	LexicalBackendSQLite LexicalBackend = "sqlite"
)

// IsValid returns true if the backend is recognised.
func (b LexicalBackend) IsValid() bool {
	return b == LexicalBackendMemory || b == LexicalBackendSQLite
}

// SearchSettings holds search behaviour configuration.
type SearchSettings struct {
	Mode                 SearchMode
	KeywordWeight        float64
	SemanticOnlyDiscount float64
	LexicalBackend       LexicalBackend
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint.
	BaseURL string

	// APIKey is the API key (for OpenAI).
	APIKey string

	// Dimensions is the vector length used for placeholders and validation.
	Dimensions int

	// RequestsPerSecond limits calls to the remote service. Zero means unlimited.
	RequestsPerSecond float64
}

// IsConfigured returns true if a model-backed provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() || e.Provider == AIProviderNone {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// CacheSettings configures the semantic cache.
type CacheSettings struct {
	Enabled    bool
	Dir        string
	MaxAgeDays int
}

// MaxAge returns the configured maximum entry age.
func (c CacheSettings) MaxAge() time.Duration {
	return time.Duration(c.MaxAgeDays) * 24 * time.Hour
}

// BuildSettings configures a corpus build.
type BuildSettings struct {
	Parallelism int
	ContentDir  string
	OutputDir   string
}

// LinkSettings configures link suggestion.
type LinkSettings struct {
	MinSimilarity     float64
	MaxSuggestions    int
	DisplayThreshold  float64
	UseSentiment      bool
	SentimentWeight   float64
	PolarityTolerance float64
	CrossReference    bool
}

// AppSettings holds all application configuration.
type AppSettings struct {
	Search    SearchSettings
	Embedding EmbeddingSettings
	Cache     CacheSettings
	Build     BuildSettings
	Links     LinkSettings
}

// DefaultAppSettings returns the default application settings.
// No model provider is configured; builds use tag fallback vectors until one is set.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Search: SearchSettings{
			Mode:                 SearchModeHybrid,
			KeywordWeight:        0.5,
			SemanticOnlyDiscount: 0.8,
			LexicalBackend:       LexicalBackendMemory,
		},
		Embedding: EmbeddingSettings{
			Provider:   AIProviderNone,
			Dimensions: 384,
		},
		Cache: CacheSettings{
			Enabled:    true,
			Dir:        ".semantic-cache",
			MaxAgeDays: 30,
		},
		Build: BuildSettings{
			Parallelism: 4,
			ContentDir:  "content",
			OutputDir:   "static",
		},
		Links: LinkSettings{
			MinSimilarity:     0.3,
			MaxSuggestions:    8,
			DisplayThreshold:  0.1,
			UseSentiment:      true,
			SentimentWeight:   0.3,
			PolarityTolerance: 1.0,
			CrossReference:    true,
		},
	}
}

// AllSearchModes returns all available search modes.
func AllSearchModes() []SearchMode {
	return []SearchMode{SearchModeKeyword, SearchModeSemantic, SearchModeHybrid}
}

// AllEmbeddingProviders returns providers that support embeddings.
func AllEmbeddingProviders() []AIProvider {
	return []AIProvider{AIProviderNone, AIProviderOllama, AIProviderOpenAI}
}

// DefaultEmbeddingModels returns default models for each embedding provider.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama: "nomic-embed-text",
		AIProviderOpenAI: "text-embedding-3-small",
	}
}

// EmbeddingDimensions returns the vector dimensions for known models.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		// Ollama models
		"nomic-embed-text":  768,
		"mxbai-embed-large": 1024,
		"all-minilm":        384,
		// OpenAI models
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
	}
}

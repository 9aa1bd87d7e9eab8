package domain

import "time"

// CacheEntry is a persisted embedding with optional link suggestions.
type CacheEntry struct {
	Embedding          Embedding      `json:"embedding"`
	SemanticLinks      []SemanticLink `json:"semanticLinks,omitempty"`
	ContentFingerprint string         `json:"contentHash"`
	Timestamp          int64          `json:"timestamp"`
}

// ManifestEntry indexes a single cache file.
type ManifestEntry struct {
	ContentFingerprint string `json:"contentHash"`
	Timestamp          int64  `json:"timestamp"`
}

// CacheManifest indexes every cache file under a schema version.
type CacheManifest struct {
	Version string                   `json:"version"`
	Entries map[string]ManifestEntry `json:"entries"`
}

// CacheStats summarises the contents of a cache.
type CacheStats struct {
	TotalEntries int
	OldestEntry  *time.Time
	NewestEntry  *time.Time
}

// Package file provides a file-backed semantic cache: one JSON file per document
// plus a manifest indexing them by content fingerprint.
package file

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/semlink/internal/core/domain"
	"github.com/custodia-labs/semlink/internal/core/ports/driven"
	"github.com/custodia-labs/semlink/internal/logger"
)

const (
	// ManifestVersion is the cache schema version. A different version on disk clears the cache.
	ManifestVersion = "1.1.0"

	// ManifestName is the manifest file name inside the cache directory.
	ManifestName = "manifest.json"

	// DefaultMaxAge is the age beyond which entries are stale.
	DefaultMaxAge = 30 * 24 * time.Hour
)

// Ensure Cache implements the interface.
var _ driven.SemanticCache = (*Cache)(nil)

// Cache is a driven.SemanticCache stored under a directory.
type Cache struct {
	mu       sync.Mutex
	dir      string
	maxAge   time.Duration
	now      func() time.Time
	manifest domain.CacheManifest
}

// Option configures a Cache.
type Option func(*Cache)

// WithMaxAge sets the entry lifetime.
func WithMaxAge(d time.Duration) Option {
	return func(c *Cache) {
		if d > 0 {
			c.maxAge = d
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// New opens or creates the cache in dir. An unreadable manifest or a schema
// version mismatch clears the directory first.
func New(dir string, opts ...Option) (*Cache, error) {
	c := &Cache{
		dir:    dir,
		maxAge: DefaultMaxAge,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	manifest, err := c.readManifest()
	switch {
	case errors.Is(err, fs.ErrNotExist):
		c.manifest = emptyManifest()
	case err != nil:
		logger.Warn("Semantic cache manifest unreadable, clearing: %v", err)
		if err := c.Clear(); err != nil {
			return nil, err
		}
	case manifest.Version != ManifestVersion:
		logger.Info("Semantic cache version %q differs from %q, clearing", manifest.Version, ManifestVersion)
		if err := c.Clear(); err != nil {
			return nil, err
		}
	default:
		if manifest.Entries == nil {
			manifest.Entries = make(map[string]domain.ManifestEntry)
		}
		c.manifest = *manifest
	}

	return c, nil
}

// Dir returns the cache directory.
func (c *Cache) Dir() string {
	return c.dir
}

// Get returns the cached entry for slug when the content is unchanged and the
// entry is younger than the maximum age.
func (c *Cache) Get(slug, content, title string, tags []string) (*domain.CacheEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	meta, ok := c.manifest.Entries[slug]
	if !ok {
		return nil, false
	}

	fingerprint := domain.Fingerprint(title, content, tags)
	if meta.ContentFingerprint != fingerprint {
		logger.Debug("Cache miss for %s: content changed", slug)
		return nil, false
	}
	if c.age(meta.Timestamp) >= c.maxAge {
		logger.Debug("Cache miss for %s: expired", slug)
		return nil, false
	}

	data, err := os.ReadFile(c.entryPath(slug))
	if err != nil {
		logger.Debug("Cache miss for %s: %v", slug, err)
		return nil, false
	}

	var entry domain.CacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		logger.Warn("Cache entry for %s unreadable: %v", slug, err)
		return nil, false
	}
	if entry.ContentFingerprint != fingerprint {
		return nil, false
	}

	return &entry, true
}

// Put writes the entry file, then records it in the manifest.
func (c *Cache) Put(slug string, embedding domain.Embedding, links []domain.SemanticLink) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry := domain.CacheEntry{
		Embedding:          embedding,
		SemanticLinks:      links,
		ContentFingerprint: embedding.Fingerprint,
		Timestamp:          c.now().UnixMilli(),
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshalling cache entry %s: %w", slug, err)
	}
	if err := writeAtomic(c.entryPath(slug), data); err != nil {
		return fmt.Errorf("writing cache entry %s: %w", slug, err)
	}

	c.manifest.Entries[slug] = domain.ManifestEntry{
		ContentFingerprint: entry.ContentFingerprint,
		Timestamp:          entry.Timestamp,
	}
	return c.saveManifest()
}

// Prune removes entries older than the maximum age and returns how many were removed.
func (c *Cache) Prune() (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for slug, meta := range c.manifest.Entries {
		if c.age(meta.Timestamp) <= c.maxAge {
			continue
		}
		if err := os.Remove(c.entryPath(slug)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return removed, fmt.Errorf("removing cache entry %s: %w", slug, err)
		}
		delete(c.manifest.Entries, slug)
		removed++
	}

	if removed == 0 {
		return 0, nil
	}
	return removed, c.saveManifest()
}

// Clear deletes every entry file and resets the manifest.
func (c *Cache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	files, err := os.ReadDir(c.dir)
	if err != nil {
		return fmt.Errorf("reading cache directory: %w", err)
	}
	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), ".json") {
			continue
		}
		if err := os.Remove(filepath.Join(c.dir, f.Name())); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("removing %s: %w", f.Name(), err)
		}
	}

	c.manifest = emptyManifest()
	return c.saveManifest()
}

// Stats summarises the manifest.
func (c *Cache) Stats() domain.CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats := domain.CacheStats{TotalEntries: len(c.manifest.Entries)}
	for _, meta := range c.manifest.Entries {
		ts := time.UnixMilli(meta.Timestamp)
		if stats.OldestEntry == nil || ts.Before(*stats.OldestEntry) {
			oldest := ts
			stats.OldestEntry = &oldest
		}
		if stats.NewestEntry == nil || ts.After(*stats.NewestEntry) {
			newest := ts
			stats.NewestEntry = &newest
		}
	}
	return stats
}

func (c *Cache) age(timestamp int64) time.Duration {
	return c.now().Sub(time.UnixMilli(timestamp))
}

func (c *Cache) entryPath(slug string) string {
	return filepath.Join(c.dir, EntryFileName(slug))
}

func (c *Cache) readManifest() (*domain.CacheManifest, error) {
	data, err := os.ReadFile(filepath.Join(c.dir, ManifestName))
	if err != nil {
		return nil, err
	}
	var manifest domain.CacheManifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}
	return &manifest, nil
}

// saveManifest must be called with mu held.
func (c *Cache) saveManifest() error {
	data, err := json.MarshalIndent(c.manifest, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling manifest: %w", err)
	}
	if err := writeAtomic(filepath.Join(c.dir, ManifestName), data); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}
	return nil
}

// EntryFileName maps a slug to its entry file name: path separators become
// underscores and a short hash of the slug keeps "a/b" and "a_b" apart.
func EntryFileName(slug string) string {
	sum := sha256.Sum256([]byte(slug))
	name := strings.NewReplacer("/", "_", `\`, "_").Replace(slug)
	return name + "-" + hex.EncodeToString(sum[:4]) + ".json"
}

func emptyManifest() domain.CacheManifest {
	return domain.CacheManifest{
		Version: ManifestVersion,
		Entries: make(map[string]domain.ManifestEntry),
	}
}

// writeAtomic writes to a temp file in the same directory and renames it over path.
func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

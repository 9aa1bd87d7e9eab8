package cli

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/semlink/internal/core/domain"
)

func TestCacheStatsCmd(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	oldest := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	newest := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	ts.cache.stats = domain.CacheStats{TotalEntries: 12, OldestEntry: &oldest, NewestEntry: &newest}

	out, err := execute(t, "cache", "stats")

	require.NoError(t, err)
	assert.Contains(t, out, "Entries: 12")
	assert.Contains(t, out, "Oldest:")
	assert.Contains(t, out, "Newest:")
}

func TestCacheStatsCmd_Empty(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "cache", "stats")

	require.NoError(t, err)
	assert.Contains(t, out, "Entries: 0")
	assert.NotContains(t, out, "Oldest:")
}

func TestCachePruneCmd(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.cache.pruned = 3

	out, err := execute(t, "cache", "prune")

	require.NoError(t, err)
	assert.Contains(t, out, "Removed 3 expired entries.")
}

func TestCacheClearCmd(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "cache", "clear")

	require.NoError(t, err)
	assert.True(t, ts.cache.cleared)
	assert.Contains(t, out, "Cache cleared.")
}

func TestCacheClearCmd_Error(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.cache.err = errors.New("permission denied")

	_, err := execute(t, "cache", "clear")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "permission denied")
}

func TestCacheCmd_Disabled(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()
	cacheService = nil

	for _, sub := range []string{"stats", "prune", "clear"} {
		_, err := execute(t, "cache", sub)
		assert.ErrorIs(t, err, errCacheDisabled, sub)
	}
}

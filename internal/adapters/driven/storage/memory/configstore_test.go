package memory

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigStore_SetAndGet(t *testing.T) {
	store := NewConfigStore()

	require.NoError(t, store.Set("search.mode", "hybrid"))

	val, ok := store.Get("search.mode")
	assert.True(t, ok)
	assert.Equal(t, "hybrid", val)

	_, ok = store.Get("embedding.model")
	assert.False(t, ok)
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store := NewConfigStore()
	_ = store.Set("search.mode", "keyword")
	_ = store.Set("build.parallelism", 4)
	_ = store.Set("cache.max_age_days", int64(7))
	_ = store.Set("links.min_similarity", 0.25)
	_ = store.Set("cache.enabled", true)

	assert.Equal(t, "keyword", store.GetString("search.mode"))
	assert.Empty(t, store.GetString("build.parallelism"))

	assert.Equal(t, 4, store.GetInt("build.parallelism"))
	assert.Equal(t, 7, store.GetInt("cache.max_age_days"))
	assert.Equal(t, 0, store.GetInt("search.mode"))

	assert.InDelta(t, 0.25, store.GetFloat("links.min_similarity"), 1e-9)
	assert.InDelta(t, 4.0, store.GetFloat("build.parallelism"), 1e-9)
	assert.Zero(t, store.GetFloat("search.mode"))
	assert.Zero(t, store.GetFloat("links.sentiment_weight"))

	assert.True(t, store.GetBool("cache.enabled"))
	assert.False(t, store.GetBool("search.mode"))
}

func TestConfigStore_NoOps(t *testing.T) {
	store := NewConfigStore()

	assert.NoError(t, store.Save())
	assert.NoError(t, store.Load())
	assert.Equal(t, ":memory:", store.Path())
}

func TestConfigStore_Concurrency(t *testing.T) {
	store := NewConfigStore()
	keys := []string{"build.parallelism", "cache.max_age_days", "links.max_suggestions", "embedding.dimensions"}
	var wg sync.WaitGroup

	for i, key := range keys {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = store.Set(key, i+1)
		}()
		go func() {
			defer wg.Done()
			_ = store.GetInt(key)
		}()
	}
	wg.Wait()

	for i, key := range keys {
		assert.Equal(t, i+1, store.GetInt(key))
	}
}

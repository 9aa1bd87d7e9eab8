package cli

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/semlink/internal/core/domain"
)

func TestBuildCmd_Use(t *testing.T) {
	assert.Equal(t, "build", buildCmd.Use)
	flag := buildCmd.Flags().Lookup("watch")
	require.NotNil(t, flag)
	assert.Equal(t, "w", flag.Shorthand)
}

func TestBuildCmd_PrintsReport(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "build")

	require.NoError(t, err)
	assert.Equal(t, 1, ts.build.calls)
	assert.Equal(t, 1, ts.reloads)
	assert.Contains(t, out, "3 documents")
	assert.Contains(t, out, "build-1")
	assert.Contains(t, out, "cache hits: 2")
	assert.Contains(t, out, "static")
	assert.NotContains(t, out, "placeholder")
}

func TestBuildCmd_PlaceholderWarningAndSkipped(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.build.report.Mode = domain.EmbeddingModePlaceholder
	ts.build.report.Skipped = []string{"broken"}

	out, err := execute(t, "build")

	require.NoError(t, err)
	assert.Contains(t, out, "placeholder vectors")
	assert.Contains(t, out, "broken")
}

func TestBuildCmd_Error(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.build.err = errors.New("content dir missing")

	_, err := execute(t, "build")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "build failed")
	assert.Equal(t, 0, ts.reloads)
}

func TestBuildCmd_Watch(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.watcher.changes = 2

	out, err := execute(t, "build", "--watch", "--debounce", "50ms")

	require.NoError(t, err)
	assert.Equal(t, 3, ts.build.calls)
	assert.Equal(t, 3, ts.reloads)
	assert.Equal(t, 50*time.Millisecond, ts.watcher.debounce)
	assert.Contains(t, out, "Watching for changes")
}

func TestBuildCmd_WatchRebuildErrorKeepsWatching(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.watcher.changes = 1
	watcher := ts.watcher
	contentWatcher = watcherFunc(func() {
		ts.build.err = errors.New("transient")
	}, watcher)

	_, err := execute(t, "build", "--watch")

	require.NoError(t, err)
	assert.Equal(t, 2, ts.build.calls)
	assert.Equal(t, 1, ts.reloads)
}

func TestBuildCmd_WatchUnavailable(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()
	contentWatcher = nil

	_, err := execute(t, "build", "--watch")
	assert.Error(t, err)
}

func TestBuildCmd_NoService(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()
	buildService = nil

	_, err := execute(t, "build")
	assert.Error(t, err)
}

// watcherFunc runs before each change reported by w.
func watcherFunc(before func(), w *mockWatcher) Watcher {
	return &hookWatcher{before: before, inner: w}
}

type hookWatcher struct {
	before func()
	inner  *mockWatcher
}

func (h *hookWatcher) Watch(ctx context.Context, d time.Duration, onChange func()) error {
	return h.inner.Watch(ctx, d, func() {
		h.before()
		onChange()
	})
}

package interactions

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/semlink/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/semlink/internal/core/domain"
)

func visit(slug string, minute int) domain.Interaction {
	return domain.Interaction{
		Slug:        slug,
		Timestamp:   time.Date(2026, 3, 1, 12, minute, 0, 0, time.UTC),
		DurationMs:  60000,
		ScrollDepth: 0.5,
	}
}

func TestLog_AppendAndRecent(t *testing.T) {
	ctx := context.Background()
	log := NewLog(memory.NewKeyValueStore())

	history, err := log.Recent(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, history)
	assert.NotNil(t, history)

	require.NoError(t, log.Append(ctx, visit("a", 1)))
	require.NoError(t, log.Append(ctx, visit("b", 2)))
	require.NoError(t, log.Append(ctx, visit("c", 3)))

	history, err = log.Recent(ctx, 0)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, visit("a", 1), history[0])

	last, err := log.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, last, 2)
	assert.Equal(t, "b", last[0].Slug)
	assert.Equal(t, "c", last[1].Slug)
}

func TestLog_CapsHistory(t *testing.T) {
	ctx := context.Background()
	log := NewLog(memory.NewKeyValueStore())

	for i := 0; i < domain.MaxInteractionHistory+5; i++ {
		require.NoError(t, log.Append(ctx, visit("doc", i%60)))
	}

	history, err := log.Recent(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, history, domain.MaxInteractionHistory)
	// The five oldest were dropped.
	assert.Equal(t, 5, history[0].Timestamp.Minute())
}

func TestLog_MalformedValueIsEmpty(t *testing.T) {
	ctx := context.Background()
	kv := memory.NewKeyValueStore()
	require.NoError(t, kv.Set(ctx, HistoryKey, "{not json"))
	log := NewLog(kv)

	history, err := log.Recent(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, history)

	require.NoError(t, log.Append(ctx, visit("a", 1)))
	history, err = log.Recent(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestLog_Clear(t *testing.T) {
	ctx := context.Background()
	log := NewLog(memory.NewKeyValueStore())

	require.NoError(t, log.Append(ctx, visit("a", 1)))
	require.NoError(t, log.Clear(ctx))

	history, err := log.Recent(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, history)
}

type failingKV struct{ *memory.KeyValueStore }

func (failingKV) Get(context.Context, string) (string, error) {
	return "", errors.New("disk error")
}

func TestLog_StoreError(t *testing.T) {
	log := NewLog(failingKV{memory.NewKeyValueStore()})

	_, err := log.Recent(context.Background(), 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading history")

	assert.Error(t, log.Append(context.Background(), visit("a", 1)))
}

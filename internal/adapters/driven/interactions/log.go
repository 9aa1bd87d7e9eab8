// Package interactions stores the visitor's reading history in a key-value store.
package interactions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/custodia-labs/semlink/internal/core/domain"
	"github.com/custodia-labs/semlink/internal/core/ports/driven"
	"github.com/custodia-labs/semlink/internal/logger"
)

// HistoryKey is the key under which the history is stored.
const HistoryKey = "semlink.interactions"

// Ensure Log implements the interface.
var _ driven.InteractionStore = (*Log)(nil)

// Log is an InteractionStore holding the whole history as one JSON array.
// An unreadable value is discarded and treated as an empty history.
type Log struct {
	mu    sync.Mutex
	store driven.KeyValueStore
	limit int
}

// NewLog creates a history capped at domain.MaxInteractionHistory entries.
func NewLog(store driven.KeyValueStore) *Log {
	return &Log{store: store, limit: domain.MaxInteractionHistory}
}

// Append records an interaction and trims the oldest beyond the cap.
func (l *Log) Append(ctx context.Context, interaction domain.Interaction) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	history, err := l.load(ctx)
	if err != nil {
		return err
	}

	history = append(history, interaction)
	if len(history) > l.limit {
		history = history[len(history)-l.limit:]
	}

	data, err := json.Marshal(history)
	if err != nil {
		return fmt.Errorf("marshalling history: %w", err)
	}
	return l.store.Set(ctx, HistoryKey, string(data))
}

// Recent returns up to n most recent interactions, oldest first.
func (l *Log) Recent(ctx context.Context, n int) ([]domain.Interaction, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	history, err := l.load(ctx)
	if err != nil {
		return nil, err
	}
	if n > 0 && len(history) > n {
		history = history[len(history)-n:]
	}
	return history, nil
}

// Clear removes the history.
func (l *Log) Clear(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.store.Delete(ctx, HistoryKey)
}

func (l *Log) load(ctx context.Context) ([]domain.Interaction, error) {
	raw, err := l.store.Get(ctx, HistoryKey)
	if errors.Is(err, domain.ErrNotFound) {
		return []domain.Interaction{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading history: %w", err)
	}

	var history []domain.Interaction
	if err := json.Unmarshal([]byte(raw), &history); err != nil {
		logger.Warn("Discarding unreadable interaction history: %v", err)
		return []domain.Interaction{}, nil
	}
	if history == nil {
		history = []domain.Interaction{}
	}
	return history, nil
}

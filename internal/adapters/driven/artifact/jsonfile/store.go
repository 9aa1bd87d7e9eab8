// Package jsonfile writes and reads the build artifacts as JSON files in an output directory.
package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/custodia-labs/semlink/internal/core/domain"
	"github.com/custodia-labs/semlink/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.ArtifactStore = (*Store)(nil)

// Store persists embeddings.json and contentIndex.json under a directory.
type Store struct {
	dir string
}

// NewStore creates a store rooted at dir. The directory is created on first write.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the output directory.
func (s *Store) Dir() string {
	return s.dir
}

// Write stores both artifacts.
func (s *Store) Write(ctx context.Context, embeddings *domain.EmbeddingsArtifact, index domain.ContentIndex) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	if err := writeJSON(filepath.Join(s.dir, domain.EmbeddingsArtifactName), embeddings); err != nil {
		return err
	}
	return writeJSON(filepath.Join(s.dir, domain.ContentIndexArtifactName), index)
}

// Read loads both artifacts. A missing file returns domain.ErrCorpusNotBuilt.
func (s *Store) Read(ctx context.Context) (*domain.Corpus, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var index domain.ContentIndex
	if err := readJSON(filepath.Join(s.dir, domain.ContentIndexArtifactName), &index); err != nil {
		return nil, err
	}

	var embeddings domain.EmbeddingsArtifact
	if err := readJSON(filepath.Join(s.dir, domain.EmbeddingsArtifactName), &embeddings); err != nil {
		return nil, err
	}
	if index == nil {
		index = domain.ContentIndex{}
	}

	return &domain.Corpus{Index: index, Embeddings: &embeddings}, nil
}

func writeJSON(path string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshalling %s: %w", filepath.Base(path), err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	return nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s missing", domain.ErrCorpusNotBuilt, filepath.Base(path))
	}
	if err != nil {
		return fmt.Errorf("reading %s: %w", filepath.Base(path), err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	return nil
}

package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrDimensionMismatch indicates two embeddings of different dimensionality were compared.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrEmbeddingUnavailable indicates the embedding model could not be reached or loaded.
	// Callers fall back to placeholder vectors and tag-based suggestions.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrSearchUnavailable indicates the lexical index is not configured.
	// Keyword search is disabled.
	ErrSearchUnavailable = errors.New("search engine unavailable")

	// ErrCorpusNotBuilt indicates the build artifacts have not been produced yet.
	ErrCorpusNotBuilt = errors.New("corpus not built")

	// ErrUnsupportedType indicates an unknown provider, mode or backend name.
	ErrUnsupportedType = errors.New("unsupported type")
)

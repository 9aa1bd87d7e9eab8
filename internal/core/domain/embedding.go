package domain

import "time"

// EmbeddingMode records which provider fidelity produced an embedding.
type EmbeddingMode string

// Available embedding modes.
const (
	// EmbeddingModeModel is full-fidelity inference by a real model.
	EmbeddingModeModel EmbeddingMode = "model"

	// EmbeddingModePlaceholder is a degraded, deterministic stand-in vector.
	EmbeddingModePlaceholder EmbeddingMode = "placeholder"
)

// IsValid returns true if the mode is recognised.
func (m EmbeddingMode) IsValid() bool {
	return m == EmbeddingModeModel || m == EmbeddingModePlaceholder
}

// String returns the string representation.
func (m EmbeddingMode) String() string {
	return string(m)
}

// Sentiment summarises the emotional tone of a text.
type Sentiment struct {
	// Polarity ranges from -1 (very negative) to 1 (very positive).
	Polarity float64 `json:"polarity"`

	// Subjectivity ranges from 0 (objective) to 1 (subjective).
	Subjectivity float64 `json:"subjectivity"`

	// Emotion is the dominant tone: positive, negative or neutral.
	Emotion string `json:"emotion"`

	// Confidence ranges from 0 to 1.
	Confidence float64 `json:"confidence"`
}

// Embedding is the vector representation of one document.
type Embedding struct {
	Slug        string        `json:"slug"`
	Vector      []float32     `json:"vector"`
	SourceText  string        `json:"sourceText"`
	Title       string        `json:"title"`
	Tags        []string      `json:"tags"`
	Fingerprint string        `json:"fingerprint"`
	Mode        EmbeddingMode `json:"mode"`
	Model       string        `json:"model,omitempty"`
	Sentiment   *Sentiment    `json:"sentiment,omitempty"`
	ModifiedAt  time.Time     `json:"modifiedAt"`
	GeneratedAt time.Time     `json:"generatedAt"`
}

// Dimensions returns the vector length.
func (e Embedding) Dimensions() int {
	return len(e.Vector)
}

// IsFullFidelity reports whether the vector came from real model inference.
func (e Embedding) IsFullFidelity() bool {
	return e.Mode == EmbeddingModeModel
}

package domain

import "time"

// Artifact file names written under the output directory.
const (
	EmbeddingsArtifactName   = "embeddings.json"
	ContentIndexArtifactName = "contentIndex.json"
)

// EmbeddingsArtifact is the serialised vector set for a corpus.
type EmbeddingsArtifact struct {
	Embeddings map[string][]float32 `json:"embeddings"`
	Model      string               `json:"model"`
	Dimensions int                  `json:"dimensions"`
	Generated  time.Time            `json:"generated"`
	Mode       EmbeddingMode        `json:"mode"`
	BuildID    string               `json:"buildId"`
}

// ContentEntry is the per-document record of the content index.
type ContentEntry struct {
	Title           string                   `json:"title"`
	Content         string                   `json:"content"`
	Tags            []string                 `json:"tags"`
	Links           []string                 `json:"links"`
	SemanticLinks   []SemanticLink           `json:"semanticLinks,omitempty"`
	CrossReferences []CrossReferenceStrength `json:"crossReferences,omitempty"`
	Date            *time.Time               `json:"date,omitempty"`
	Description     string                   `json:"description,omitempty"`
}

// ContentIndex maps slug to content entry.
type ContentIndex map[string]ContentEntry

// Corpus is the query-time view of a completed build.
type Corpus struct {
	Index      ContentIndex
	Embeddings *EmbeddingsArtifact
}

// Vector returns the stored embedding for slug, if any.
func (c *Corpus) Vector(slug string) ([]float32, bool) {
	if c == nil || c.Embeddings == nil {
		return nil, false
	}
	v, ok := c.Embeddings.Embeddings[slug]
	return v, ok
}

// Links builds the explicit link table from the content index.
func (c *Corpus) Links() LinkTable {
	table := make(LinkTable, len(c.Index))
	for slug, entry := range c.Index {
		table[slug] = entry.Links
	}
	return table
}

// BuildReport summarises a build run.
type BuildReport struct {
	BuildID     string
	Documents   int
	Embedded    int
	CacheHits   int
	Links       int
	Skipped     []string
	Mode        EmbeddingMode
	Duration    time.Duration
	ArtifactDir string
}

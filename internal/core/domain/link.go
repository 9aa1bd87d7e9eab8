package domain

// LinkKind classifies how a semantic link was derived.
type LinkKind string

// Available link kinds.
const (
	LinkKindSemantic LinkKind = "semantic"
	LinkKindTagBased LinkKind = "tag-based"
	LinkKindExplicit LinkKind = "explicit"
)

// SentimentAlignment describes how well two documents' tones agree.
type SentimentAlignment struct {
	// PolarityDiff is source polarity minus target polarity (-2 to 2).
	PolarityDiff float64 `json:"polarityDiff"`

	// EmotionMatch is true when both share a dominant emotion.
	EmotionMatch bool `json:"emotionMatch"`

	// Compatibility ranges from 0 to 1.
	Compatibility float64 `json:"compatibility"`
}

// SemanticLink is a directed suggestion from one document to another.
// A reciprocal link may exist independently with a different strength.
type SemanticLink struct {
	Source      string              `json:"source"`
	Target      string              `json:"target"`
	Strength    float64             `json:"strength"`
	Confidence  float64             `json:"confidence"`
	Kind        LinkKind            `json:"type"`
	Explanation string              `json:"explanation,omitempty"`
	Alignment   *SentimentAlignment `json:"sentimentAlignment,omitempty"`
}

// CrossReferenceFactors are the independently computed inputs to a strength.
type CrossReferenceFactors struct {
	Semantic       float64 `json:"semanticSimilarity"`
	SharedTags     float64 `json:"sharedTags"`
	ContentOverlap float64 `json:"contentOverlap"`
	LinkFrequency  float64 `json:"linkFrequency"`
}

// CrossReferenceStrength is a blended relatedness score for an ordered pair.
type CrossReferenceStrength struct {
	Source        string                `json:"source"`
	Target        string                `json:"target"`
	Strength      float64               `json:"strength"`
	Bidirectional bool                  `json:"bidirectional"`
	Factors       CrossReferenceFactors `json:"factors"`
}

// LinkTable maps a slug to its explicit outbound link targets.
type LinkTable map[string][]string

// Has reports whether source explicitly links to target.
func (t LinkTable) Has(source, target string) bool {
	for _, l := range t[source] {
		if l == target {
			return true
		}
	}
	return false
}

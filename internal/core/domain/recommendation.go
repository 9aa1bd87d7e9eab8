package domain

import "time"

// RecommendationMode selects the scoring strategy.
type RecommendationMode string

// Available recommendation modes.
const (
	RecommendRelated      RecommendationMode = "related"
	RecommendPersonalized RecommendationMode = "personalized"
	RecommendTrending     RecommendationMode = "trending"
)

// IsValid returns true if the mode is recognised.
func (m RecommendationMode) IsValid() bool {
	switch m {
	case RecommendRelated, RecommendPersonalized, RecommendTrending:
		return true
	default:
		return false
	}
}

// DefaultExplanation is used when a score is below the display thresholds.
func (m RecommendationMode) DefaultExplanation() string {
	switch m {
	case RecommendRelated:
		return "Similar content"
	case RecommendPersonalized:
		return "Based on your reading history"
	case RecommendTrending:
		return "Trending now"
	default:
		return ""
	}
}

// RecommendRequest describes a single recommendation query.
type RecommendRequest struct {
	Mode        RecommendationMode
	CurrentSlug string
	Limit       int
}

// Recommendation is a ranked suggestion. It is recomputed per request.
type Recommendation struct {
	Slug        string     `json:"slug"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Score       float64    `json:"score"`
	Explanation string     `json:"explanation"`
	Tags        []string   `json:"tags,omitempty"`
	Date        *time.Time `json:"date,omitempty"`
}

package domain

import "time"

// ScoringWeights collects every tunable constant used by link suggestion,
// retrieval and recommendation.
type ScoringWeights struct {
	// Cross-reference blend; the four weights sum to 1.
	CrossRefSemantic      float64
	CrossRefTags          float64
	CrossRefContent       float64
	CrossRefLinkFrequency float64
	LinkFrequencyPerSide  float64

	// Link confidence boosts.
	SharedTagBoost float64
	RecentBoost    float64
	RecentWindow   time.Duration

	// Sentiment-aware similarity.
	SentimentWeight    float64
	EmotionMatchBoost  float64
	PolarityPenalty    float64
	PolarityTolerance  float64
	SentimentPreferred bool

	// Hybrid retrieval.
	KeywordWeight        float64
	SemanticOnlyDiscount float64
	KeywordRankDecay     float64

	// Recommendation scoring.
	HistoryWindow       int
	RecencyWindow       time.Duration
	EngagementCap       time.Duration
	HistoryWeight       float64
	CurrentWeight       float64
	UnvisitedBoost      float64
	TagPreferenceWeight float64
	RelatedFloor        float64
	PersonalizedFloor   float64
	TrendingFloor       float64
	HighlyRelevant      float64
	GoodMatch           float64

	// Trending.
	TrendingWindow       time.Duration
	TrendingRecency      float64
	TrendingTagWeight    float64
	TrendingLengthScale  float64
	TrendingLengthWeight float64
	TrendingJitter       float64

	// Cross-references kept per document.
	CrossRefFloor float64
}

// DefaultScoringWeights returns the stock weights.
func DefaultScoringWeights() ScoringWeights {
	return ScoringWeights{
		CrossRefSemantic:      0.5,
		CrossRefTags:          0.2,
		CrossRefContent:       0.2,
		CrossRefLinkFrequency: 0.1,
		LinkFrequencyPerSide:  0.5,

		SharedTagBoost: 1.2,
		RecentBoost:    1.1,
		RecentWindow:   30 * 24 * time.Hour,

		SentimentWeight:    0.3,
		EmotionMatchBoost:  1.2,
		PolarityPenalty:    0.7,
		PolarityTolerance:  1.0,
		SentimentPreferred: true,

		KeywordWeight:        0.5,
		SemanticOnlyDiscount: 0.8,
		KeywordRankDecay:     0.5,

		HistoryWindow:       10,
		RecencyWindow:       7 * 24 * time.Hour,
		EngagementCap:       5 * time.Minute,
		HistoryWeight:       0.3,
		CurrentWeight:       0.2,
		UnvisitedBoost:      1.2,
		TagPreferenceWeight: 0.1,
		RelatedFloor:        0.1,
		PersonalizedFloor:   0.05,
		TrendingFloor:       0.1,
		HighlyRelevant:      0.7,
		GoodMatch:           0.4,

		TrendingWindow:       30 * 24 * time.Hour,
		TrendingRecency:      0.5,
		TrendingTagWeight:    0.1,
		TrendingLengthScale:  10000,
		TrendingLengthWeight: 0.2,
		TrendingJitter:       0.2,

		CrossRefFloor: 0.1,
	}
}

// WithSettings overlays user-configurable values from settings.
func (w ScoringWeights) WithSettings(s AppSettings) ScoringWeights {
	w.SentimentWeight = s.Links.SentimentWeight
	w.PolarityTolerance = s.Links.PolarityTolerance
	w.KeywordWeight = s.Search.KeywordWeight
	w.SemanticOnlyDiscount = s.Search.SemanticOnlyDiscount
	return w
}

package services

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sort"
	"time"

	"github.com/custodia-labs/semlink/internal/core/domain"
	"github.com/custodia-labs/semlink/internal/core/ports/driven"
	"github.com/custodia-labs/semlink/internal/core/ports/driving"
	"github.com/custodia-labs/semlink/internal/logger"
)

// Ensure RecommendationService implements the interface.
var _ driving.RecommendationService = (*RecommendationService)(nil)

const (
	defaultRecommendLimit = 5
	descriptionLength     = 150
)

// RecommendationService scores documents from artifacts and reading history.
type RecommendationService struct {
	view         *corpusView
	interactions driven.InteractionStore
	weights      domain.ScoringWeights
	now          func() time.Time
	jitter       func() float64
}

// RecommendOption configures a RecommendationService.
type RecommendOption func(*RecommendationService)

// WithRecommendClock overrides the time source.
func WithRecommendClock(now func() time.Time) RecommendOption {
	return func(s *RecommendationService) { s.now = now }
}

// WithJitter overrides the random source used by trending scores. f returns values in [0,1).
func WithJitter(f func() float64) RecommendOption {
	return func(s *RecommendationService) { s.jitter = f }
}

// NewRecommendationService creates a recommendation service.
func NewRecommendationService(
	artifacts driven.ArtifactStore,
	interactions driven.InteractionStore,
	weights domain.ScoringWeights,
	opts ...RecommendOption,
) *RecommendationService {
	s := &RecommendationService{
		view:         newCorpusView(artifacts),
		interactions: interactions,
		weights:      weights,
		now:          time.Now,
		jitter:       rand.Float64,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Reload discards the loaded corpus.
func (s *RecommendationService) Reload() {
	s.view.reload()
}

// Recommend ranks documents for the requested mode.
func (s *RecommendationService) Recommend(ctx context.Context, req domain.RecommendRequest) ([]domain.Recommendation, error) {
	if !req.Mode.IsValid() {
		return nil, fmt.Errorf("%w: recommendation mode %q", domain.ErrInvalidInput, req.Mode)
	}
	limit := req.Limit
	if limit <= 0 {
		limit = defaultRecommendLimit
	}

	corpus, err := s.view.get(ctx)
	if err != nil {
		return nil, fmt.Errorf("recommend: %w", err)
	}
	if req.CurrentSlug != "" {
		if _, ok := corpus.Index[req.CurrentSlug]; !ok {
			return nil, fmt.Errorf("document %q: %w", req.CurrentSlug, domain.ErrNotFound)
		}
	}

	var scores map[string]float64
	switch req.Mode {
	case domain.RecommendRelated:
		if req.CurrentSlug == "" {
			return nil, fmt.Errorf("%w: related mode needs a current document", domain.ErrInvalidInput)
		}
		scores = s.related(corpus, req.CurrentSlug)
	case domain.RecommendPersonalized:
		scores, err = s.personalized(ctx, corpus, req.CurrentSlug)
		if err != nil {
			return nil, err
		}
	case domain.RecommendTrending:
		scores = s.trending(corpus, req.CurrentSlug)
	}

	logger.Debug("Recommend %s: %d candidates", req.Mode, len(scores))
	return s.format(corpus, scores, limit, req.Mode), nil
}

// related scores candidates by cross-reference strength to the current document.
func (s *RecommendationService) related(corpus *domain.Corpus, current string) map[string]float64 {
	sim := newSimilarity(corpus, s.weights)
	scores := make(map[string]float64)
	for slug := range corpus.Index {
		if slug == current {
			continue
		}
		if v := sim.between(current, slug); v > s.weights.RelatedFloor {
			scores[slug] = v
		}
	}
	return scores
}

// personalized blends similarity to recent reads, the current document and preferred tags.
func (s *RecommendationService) personalized(ctx context.Context, corpus *domain.Corpus, current string) (map[string]float64, error) {
	history, err := s.history(ctx)
	if err != nil {
		return nil, err
	}

	recent := history
	if len(recent) > s.weights.HistoryWindow {
		recent = recent[len(recent)-s.weights.HistoryWindow:]
	}
	visited := make(map[string]bool, len(history))
	for _, in := range history {
		visited[in.Slug] = true
	}
	prefs := s.tagPreferences(corpus, history)

	sim := newSimilarity(corpus, s.weights)
	now := s.now()
	scores := make(map[string]float64)
	for slug, entry := range corpus.Index {
		if slug == current {
			continue
		}

		var score float64
		for _, in := range recent {
			recency := 1 - float64(now.Sub(in.Timestamp))/float64(s.weights.RecencyWindow)
			if recency <= 0 {
				continue
			}
			score += sim.between(slug, in.Slug) * recency * s.engagement(in) * s.weights.HistoryWeight
		}
		if current != "" {
			score += sim.between(current, slug) * s.weights.CurrentWeight
		}
		if !visited[slug] {
			score *= s.weights.UnvisitedBoost
		}
		for _, tag := range entry.Tags {
			score += prefs[tag] * s.weights.TagPreferenceWeight
		}

		if score > s.weights.PersonalizedFloor {
			scores[slug] = score
		}
	}
	return scores, nil
}

// history reads the interaction log. A failing store yields an empty history.
func (s *RecommendationService) history(ctx context.Context) ([]domain.Interaction, error) {
	if s.interactions == nil {
		return nil, nil
	}
	history, err := s.interactions.Recent(ctx, 0)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		logger.Warn("Read interaction history: %v (treating as empty)", err)
		return nil, nil
	}
	return history, nil
}

// engagement is scroll depth times capped dwell time, in [0,1].
func (s *RecommendationService) engagement(in domain.Interaction) float64 {
	capMs := float64(s.weights.EngagementCap.Milliseconds())
	if capMs <= 0 {
		return in.ScrollDepth
	}
	return in.ScrollDepth * min(float64(in.DurationMs), capMs) / capMs
}

// tagPreferences weights each tag by the engagement of the visits that read it.
func (s *RecommendationService) tagPreferences(corpus *domain.Corpus, history []domain.Interaction) map[string]float64 {
	prefs := make(map[string]float64)
	for _, in := range history {
		entry, ok := corpus.Index[in.Slug]
		if !ok {
			continue
		}
		w := s.engagement(in)
		for _, tag := range entry.Tags {
			prefs[tag] += w
		}
	}
	return prefs
}

// trending approximates popularity from recency, tag count, length and jitter.
func (s *RecommendationService) trending(corpus *domain.Corpus, current string) map[string]float64 {
	now := s.now()
	scores := make(map[string]float64)
	for slug, entry := range corpus.Index {
		if slug == current {
			continue
		}

		var score float64
		if entry.Date != nil {
			age := now.Sub(*entry.Date)
			score += max(0, 1-float64(age)/float64(s.weights.TrendingWindow)) * s.weights.TrendingRecency
		}
		score += float64(len(entry.Tags)) * s.weights.TrendingTagWeight
		score += min(float64(len(entry.Content))/s.weights.TrendingLengthScale, 1) * s.weights.TrendingLengthWeight
		score += s.jitter() * s.weights.TrendingJitter

		if score > s.weights.TrendingFloor {
			scores[slug] = score
		}
	}
	return scores
}

// format sorts by score, truncates and hydrates.
func (s *RecommendationService) format(corpus *domain.Corpus, scores map[string]float64, limit int, mode domain.RecommendationMode) []domain.Recommendation {
	slugs := make([]string, 0, len(scores))
	for slug := range scores {
		slugs = append(slugs, slug)
	}
	sort.Slice(slugs, func(i, j int) bool {
		if scores[slugs[i]] != scores[slugs[j]] {
			return scores[slugs[i]] > scores[slugs[j]]
		}
		return slugs[i] < slugs[j]
	})
	if len(slugs) > limit {
		slugs = slugs[:limit]
	}

	recs := make([]domain.Recommendation, 0, len(slugs))
	for _, slug := range slugs {
		entry := corpus.Index[slug]
		score := scores[slug]
		recs = append(recs, domain.Recommendation{
			Slug:        slug,
			Title:       entry.Title,
			Description: describe(entry),
			Score:       score,
			Explanation: s.explain(score, mode),
			Tags:        entry.Tags,
			Date:        entry.Date,
		})
	}
	return recs
}

func (s *RecommendationService) explain(score float64, mode domain.RecommendationMode) string {
	switch {
	case score > s.weights.HighlyRelevant:
		return "Highly relevant"
	case score > s.weights.GoodMatch:
		return "Good match"
	default:
		return mode.DefaultExplanation()
	}
}

// describe returns the first descriptionLength characters of the content.
func describe(entry domain.ContentEntry) string {
	runes := []rune(entry.Content)
	if len(runes) <= descriptionLength {
		return entry.Content
	}
	return string(runes[:descriptionLength]) + "..."
}

// Track records a page visit.
func (s *RecommendationService) Track(ctx context.Context, interaction domain.Interaction) error {
	if interaction.Timestamp.IsZero() {
		interaction.Timestamp = s.now()
	}
	if err := interaction.Validate(); err != nil {
		return fmt.Errorf("track %q: %w", interaction.Slug, err)
	}
	if s.interactions == nil {
		return nil
	}
	return s.interactions.Append(ctx, interaction)
}

// History returns the recorded interactions, oldest first.
func (s *RecommendationService) History(ctx context.Context) ([]domain.Interaction, error) {
	if s.interactions == nil {
		return []domain.Interaction{}, nil
	}
	return s.interactions.Recent(ctx, 0)
}

// ClearHistory removes every recorded interaction.
func (s *RecommendationService) ClearHistory(ctx context.Context) error {
	if s.interactions == nil {
		return nil
	}
	return s.interactions.Clear(ctx)
}

// similarity memoises cross-reference strengths for one request.
type similarity struct {
	embeddings map[string]domain.Embedding
	links      domain.LinkTable
	weights    domain.ScoringWeights
	memo       map[[2]string]float64
}

func newSimilarity(corpus *domain.Corpus, w domain.ScoringWeights) *similarity {
	embs := embeddingsOf(corpus)
	byslug := make(map[string]domain.Embedding, len(embs))
	for _, e := range embs {
		byslug[e.Slug] = e
	}
	return &similarity{
		embeddings: byslug,
		links:      corpus.Links(),
		weights:    w,
		memo:       make(map[[2]string]float64),
	}
}

// between returns the cross-reference strength from a to b, or 0 if either is unknown.
func (s *similarity) between(a, b string) float64 {
	key := [2]string{a, b}
	if v, ok := s.memo[key]; ok {
		return v
	}
	ea, okA := s.embeddings[a]
	eb, okB := s.embeddings[b]
	var v float64
	if okA && okB {
		v = CrossReference(ea, eb, s.links, s.weights).Strength
	}
	s.memo[key] = v
	return v
}

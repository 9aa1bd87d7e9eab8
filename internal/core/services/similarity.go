package services

import (
	"fmt"
	"math"
	"strings"

	"github.com/custodia-labs/semlink/internal/core/domain"
)

// CosineSimilarity returns the cosine of the angle between a and b.
// A zero-norm vector yields 0. Vectors of different length are an error.
func CosineSimilarity(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d vs %d", domain.ErrDimensionMismatch, len(a), len(b))
	}

	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 0, nil
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}

// SentimentAwareSimilarity blends cosine similarity with sentiment compatibility.
// Without sentiment on both sides it is plain cosine similarity.
func SentimentAwareSimilarity(source, target domain.Embedding, w domain.ScoringWeights) (float64, error) {
	cos, err := CosineSimilarity(source.Vector, target.Vector)
	if err != nil {
		return 0, err
	}
	if source.Sentiment == nil || target.Sentiment == nil {
		return cos, nil
	}

	alignment := SentimentAlignment(*source.Sentiment, *target.Sentiment, w)
	if math.Abs(alignment.PolarityDiff) > w.PolarityTolerance {
		return cos * w.PolarityPenalty, nil
	}

	boost := 1.0
	if w.SentimentPreferred && alignment.EmotionMatch {
		boost = w.EmotionMatchBoost
	}

	combined := (cos*(1-w.SentimentWeight) + alignment.Compatibility*w.SentimentWeight) * boost
	return math.Min(combined, 1), nil
}

// CrossReference computes the blended relatedness of source to target.
func CrossReference(source, target domain.Embedding, links domain.LinkTable, w domain.ScoringWeights) domain.CrossReferenceStrength {
	semantic, err := CosineSimilarity(source.Vector, target.Vector)
	if err != nil {
		semantic = 0
	}

	factors := domain.CrossReferenceFactors{
		Semantic:       clamp(semantic, 0, 1),
		SharedTags:     jaccard(source.Tags, target.Tags),
		ContentOverlap: jaccard(strings.Fields(strings.ToLower(source.SourceText)), strings.Fields(strings.ToLower(target.SourceText))),
		LinkFrequency:  linkFrequency(source.Slug, target.Slug, links, w),
	}

	strength := factors.Semantic*w.CrossRefSemantic +
		factors.SharedTags*w.CrossRefTags +
		factors.ContentOverlap*w.CrossRefContent +
		factors.LinkFrequency*w.CrossRefLinkFrequency

	return domain.CrossReferenceStrength{
		Source:        source.Slug,
		Target:        target.Slug,
		Strength:      clamp(strength, 0, 1),
		Bidirectional: links.Has(source.Slug, target.Slug) && links.Has(target.Slug, source.Slug),
		Factors:       factors,
	}
}

// jaccard is |a ∩ b| / |a ∪ b| over the distinct elements; empty inputs score 0.
func jaccard(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	setA := make(map[string]struct{}, len(a))
	for _, x := range a {
		setA[x] = struct{}{}
	}
	setB := make(map[string]struct{}, len(b))
	for _, x := range b {
		setB[x] = struct{}{}
	}

	var inter int
	for x := range setA {
		if _, ok := setB[x]; ok {
			inter++
		}
	}
	union := len(setA) + len(setB) - inter
	return float64(inter) / float64(union)
}

func linkFrequency(source, target string, links domain.LinkTable, w domain.ScoringWeights) float64 {
	var freq float64
	if links.Has(source, target) {
		freq += w.LinkFrequencyPerSide
	}
	if links.Has(target, source) {
		freq += w.LinkFrequencyPerSide
	}
	return freq
}

// sharedTags returns tags of source also present on target, in source order.
func sharedTags(source, target []string) []string {
	set := make(map[string]struct{}, len(target))
	for _, t := range target {
		set[t] = struct{}{}
	}
	var shared []string
	for _, t := range source {
		if _, ok := set[t]; ok {
			shared = append(shared, t)
		}
	}
	return shared
}

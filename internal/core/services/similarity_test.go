package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/semlink/internal/core/domain"
)

func TestCosineSimilarity(t *testing.T) {
	a := []float32{0.3, -0.2, 0.9, 0.1}
	b := []float32{-0.5, 0.4, 0.2, 0.7}

	t.Run("self similarity is one", func(t *testing.T) {
		sim, err := CosineSimilarity(a, a)
		require.NoError(t, err)
		assert.InDelta(t, 1.0, sim, 1e-9)
	})

	t.Run("symmetric", func(t *testing.T) {
		ab, err := CosineSimilarity(a, b)
		require.NoError(t, err)
		ba, err := CosineSimilarity(b, a)
		require.NoError(t, err)
		assert.Equal(t, ab, ba)
	})

	t.Run("orthogonal", func(t *testing.T) {
		sim, err := CosineSimilarity([]float32{1, 0}, []float32{0, 1})
		require.NoError(t, err)
		assert.Zero(t, sim)
	})

	t.Run("zero vector", func(t *testing.T) {
		sim, err := CosineSimilarity([]float32{0, 0}, []float32{1, 1})
		require.NoError(t, err)
		assert.Zero(t, sim)
	})

	t.Run("dimension mismatch", func(t *testing.T) {
		_, err := CosineSimilarity([]float32{1, 0, 0}, []float32{1, 0})
		assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
	})
}

func TestSentimentAwareSimilarity(t *testing.T) {
	w := domain.DefaultScoringWeights()
	pos := &domain.Sentiment{Polarity: 0.8, Emotion: EmotionPositive, Confidence: 1}
	neg := &domain.Sentiment{Polarity: -0.8, Emotion: EmotionNegative, Confidence: 1}

	source := domain.Embedding{Vector: []float32{1, 0}}
	target := domain.Embedding{Vector: []float32{0.5, 0.8660254}}

	t.Run("plain cosine without sentiment", func(t *testing.T) {
		sim, err := SentimentAwareSimilarity(source, target, w)
		require.NoError(t, err)
		assert.InDelta(t, 0.5, sim, 1e-6)
	})

	t.Run("matching tone is boosted", func(t *testing.T) {
		s, tg := source, target
		s.Sentiment, tg.Sentiment = pos, pos
		sim, err := SentimentAwareSimilarity(s, tg, w)
		require.NoError(t, err)
		assert.InDelta(t, (0.5*0.7+1*0.3)*1.2, sim, 1e-6)
	})

	t.Run("divergent tone is penalised", func(t *testing.T) {
		s, tg := source, target
		s.Sentiment, tg.Sentiment = pos, neg
		sim, err := SentimentAwareSimilarity(s, tg, w)
		require.NoError(t, err)
		assert.InDelta(t, 0.5*0.7, sim, 1e-6)
	})

	t.Run("capped at one", func(t *testing.T) {
		s, tg := source, source
		s.Sentiment, tg.Sentiment = pos, pos
		sim, err := SentimentAwareSimilarity(s, tg, w)
		require.NoError(t, err)
		assert.InDelta(t, 1.0, sim, 1e-9)
	})

	t.Run("dimension mismatch", func(t *testing.T) {
		_, err := SentimentAwareSimilarity(source, domain.Embedding{Vector: []float32{1}}, w)
		assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
	})
}

func TestCrossReference(t *testing.T) {
	w := domain.DefaultScoringWeights()
	source := domain.Embedding{
		Slug:       "a",
		Vector:     []float32{1, 0},
		Tags:       []string{"ai", "ml"},
		SourceText: "Alpha beta",
	}
	target := domain.Embedding{
		Slug:       "b",
		Vector:     []float32{1, 0},
		Tags:       []string{"ml"},
		SourceText: "beta gamma",
	}

	t.Run("all factors", func(t *testing.T) {
		links := domain.LinkTable{"a": {"b"}, "b": {"a"}}
		ref := CrossReference(source, target, links, w)

		assert.Equal(t, "a", ref.Source)
		assert.Equal(t, "b", ref.Target)
		assert.InDelta(t, 1.0, ref.Factors.Semantic, 1e-9)
		assert.InDelta(t, 0.5, ref.Factors.SharedTags, 1e-9)
		assert.InDelta(t, 1.0/3.0, ref.Factors.ContentOverlap, 1e-9)
		assert.InDelta(t, 1.0, ref.Factors.LinkFrequency, 1e-9)
		assert.InDelta(t, 0.5+0.1+0.2/3.0+0.1, ref.Strength, 1e-9)
		assert.True(t, ref.Bidirectional)
	})

	t.Run("one direction only", func(t *testing.T) {
		ref := CrossReference(source, target, domain.LinkTable{"a": {"b"}}, w)
		assert.InDelta(t, 0.5, ref.Factors.LinkFrequency, 1e-9)
		assert.False(t, ref.Bidirectional)
	})

	t.Run("negative cosine clipped", func(t *testing.T) {
		opposite := target
		opposite.Vector = []float32{-1, 0}
		ref := CrossReference(source, opposite, nil, w)
		assert.Zero(t, ref.Factors.Semantic)
		assert.GreaterOrEqual(t, ref.Strength, 0.0)
		assert.LessOrEqual(t, ref.Strength, 1.0)
	})

	t.Run("missing vector contributes nothing", func(t *testing.T) {
		bare := target
		bare.Vector = nil
		ref := CrossReference(source, bare, nil, w)
		assert.Zero(t, ref.Factors.Semantic)
		assert.InDelta(t, 0.5*0.2+0.2/3.0, ref.Strength, 1e-9)
	})
}

package services

import (
	"math"
	"strings"
	"unicode"

	"github.com/custodia-labs/semlink/internal/core/domain"
)

// Emotion labels.
const (
	EmotionPositive = "positive"
	EmotionNegative = "negative"
	EmotionNeutral  = "neutral"
)

// emotionThreshold separates neutral from positive or negative polarity.
const emotionThreshold = 0.2

// sentimentLexicon scores words from -1 (negative) to 1 (positive).
// Zero-weight entries are objective vocabulary.
var sentimentLexicon = map[string]float64{
	"amazing": 1.0, "awesome": 1.0, "excellent": 1.0, "fantastic": 1.0, "great": 0.8, "good": 0.6,
	"wonderful": 1.0, "beautiful": 0.8, "brilliant": 1.0, "perfect": 1.0, "outstanding": 1.0,
	"impressive": 0.8, "inspiring": 0.8, "innovative": 0.8, "creative": 0.6, "fascinating": 0.8,
	"interesting": 0.6, "promising": 0.6, "successful": 0.8, "effective": 0.6, "powerful": 0.8,
	"valuable": 0.6, "useful": 0.6, "helpful": 0.6, "clear": 0.4, "elegant": 0.8, "sophisticated": 0.6,
	"love": 0.8, "like": 0.4, "enjoy": 0.6, "excited": 0.8, "happy": 0.8, "pleased": 0.6,

	"terrible": -1.0, "awful": -1.0, "horrible": -1.0, "bad": -0.6, "poor": -0.6, "worst": -1.0,
	"disappointing": -0.8, "frustrating": -0.8, "annoying": -0.6, "confusing": -0.4, "difficult": -0.4,
	"challenging": -0.2, "problematic": -0.6, "complicated": -0.4, "unclear": -0.4, "messy": -0.6,
	"broken": -0.8, "failed": -0.8, "wrong": -0.6, "missing": -0.4, "incomplete": -0.4,
	"hate": -0.8, "dislike": -0.4, "boring": -0.6, "slow": -0.4, "weak": -0.4, "limited": -0.4,

	"research": 0.0, "study": 0.0, "analysis": 0.0, "method": 0.0, "approach": 0.0, "system": 0.0,
	"process": 0.0, "technique": 0.0, "algorithm": 0.0, "framework": 0.0, "model": 0.0, "data": 0.0,
}

// AnalyzeSentiment scores the tone of text against the lexicon.
func AnalyzeSentiment(text string) domain.Sentiment {
	words := strings.Fields(strings.ToLower(text))

	var sum, absSum float64
	var matched int
	for _, word := range words {
		clean := strings.Map(func(r rune) rune {
			if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
				return r
			}
			return -1
		}, word)
		score, ok := sentimentLexicon[clean]
		if !ok {
			continue
		}
		sum += score
		absSum += math.Abs(score)
		matched++
	}

	var polarity, subjectivity float64
	if matched > 0 {
		polarity = sum / float64(matched)
		subjectivity = math.Min(absSum/float64(len(words)), 1)
	}

	emotion := EmotionNeutral
	switch {
	case polarity > emotionThreshold:
		emotion = EmotionPositive
	case polarity < -emotionThreshold:
		emotion = EmotionNegative
	}

	confidence := math.Min(float64(matched)/math.Max(float64(len(words))*0.1, 1), 1)

	return domain.Sentiment{
		Polarity:     clamp(polarity, -1, 1),
		Subjectivity: clamp(subjectivity, 0, 1),
		Emotion:      emotion,
		Confidence:   confidence,
	}
}

// SentimentAlignment compares two sentiments.
func SentimentAlignment(a, b domain.Sentiment, w domain.ScoringWeights) domain.SentimentAlignment {
	diff := a.Polarity - b.Polarity
	match := a.Emotion == b.Emotion

	compat := 1 - math.Abs(diff)/2
	if match {
		compat *= w.EmotionMatchBoost
	}
	compat *= (a.Confidence + b.Confidence) / 2

	return domain.SentimentAlignment{
		PolarityDiff:  diff,
		EmotionMatch:  match,
		Compatibility: clamp(compat, 0, 1),
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

package services

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/custodia-labs/semlink/internal/core/domain"
	"github.com/custodia-labs/semlink/internal/logger"
)

// LinkOptions controls link suggestion.
type LinkOptions struct {
	MinSimilarity  float64
	MaxSuggestions int
	UseSentiment   bool
	Weights        domain.ScoringWeights
	Now            time.Time
}

// DefaultLinkOptions returns options derived from settings.
func DefaultLinkOptions(settings domain.AppSettings) LinkOptions {
	return LinkOptions{
		MinSimilarity:  settings.Links.MinSimilarity,
		MaxSuggestions: settings.Links.MaxSuggestions,
		UseSentiment:   settings.Links.UseSentiment,
		Weights:        domain.DefaultScoringWeights().WithSettings(settings),
	}
}

func (o LinkOptions) now() time.Time {
	if o.Now.IsZero() {
		return time.Now()
	}
	return o.Now
}

// SuggestLinks ranks targets by similarity to source using full-fidelity vectors.
// Targets with a different dimensionality are skipped.
func SuggestLinks(source domain.Embedding, all []domain.Embedding, opts LinkOptions) []domain.SemanticLink {
	var links []domain.SemanticLink
	for _, target := range all {
		if target.Slug == source.Slug {
			continue
		}

		var sim float64
		var err error
		if opts.UseSentiment {
			sim, err = SentimentAwareSimilarity(source, target, opts.Weights)
		} else {
			sim, err = CosineSimilarity(source.Vector, target.Vector)
		}
		if err != nil {
			logger.Debug("skip link %s -> %s: %v", source.Slug, target.Slug, err)
			continue
		}
		if sim < opts.MinSimilarity {
			continue
		}

		link := domain.SemanticLink{
			Source:      source.Slug,
			Target:      target.Slug,
			Strength:    clamp(sim, 0, 1),
			Confidence:  linkConfidence(sim, source, target, opts),
			Kind:        domain.LinkKindSemantic,
			Explanation: linkExplanation(source, target, sim, opts.Weights),
		}
		if len(sharedTags(source.Tags, target.Tags)) > 0 {
			link.Kind = domain.LinkKindTagBased
		}
		if source.Sentiment != nil && target.Sentiment != nil {
			alignment := SentimentAlignment(*source.Sentiment, *target.Sentiment, opts.Weights)
			link.Alignment = &alignment
		}
		links = append(links, link)
	}

	sortLinks(links)
	return truncateLinks(links, opts.MaxSuggestions)
}

// SuggestTagLinks is the degraded path when no full-fidelity vectors exist.
// Only targets sharing at least one tag are suggested.
func SuggestTagLinks(source domain.Embedding, all []domain.Embedding, opts LinkOptions) []domain.SemanticLink {
	if len(source.Tags) == 0 {
		return nil
	}

	var links []domain.SemanticLink
	for _, target := range all {
		if target.Slug == source.Slug {
			continue
		}
		shared := sharedTags(source.Tags, target.Tags)
		if len(shared) == 0 {
			continue
		}
		strength := math.Min(float64(len(shared))/float64(len(source.Tags)), 1)
		links = append(links, domain.SemanticLink{
			Source:      source.Slug,
			Target:      target.Slug,
			Strength:    strength,
			Confidence:  strength,
			Kind:        domain.LinkKindTagBased,
			Explanation: "Shares tags: " + strings.Join(shared, ", "),
		})
	}

	sortLinks(links)
	return truncateLinks(links, opts.MaxSuggestions)
}

// FilterLinks drops links below threshold strength.
func FilterLinks(links []domain.SemanticLink, threshold float64) []domain.SemanticLink {
	out := links[:0:0]
	for _, l := range links {
		if l.Strength >= threshold {
			out = append(out, l)
		}
	}
	return out
}

func linkConfidence(sim float64, source, target domain.Embedding, opts LinkOptions) float64 {
	confidence := sim
	if len(sharedTags(source.Tags, target.Tags)) > 0 {
		confidence *= opts.Weights.SharedTagBoost
	}
	if !source.ModifiedAt.IsZero() && opts.now().Sub(source.ModifiedAt) < opts.Weights.RecentWindow {
		confidence *= opts.Weights.RecentBoost
	}
	return clamp(confidence, 0, 1)
}

func linkExplanation(source, target domain.Embedding, sim float64, w domain.ScoringWeights) string {
	var b strings.Builder
	if shared := sharedTags(source.Tags, target.Tags); len(shared) > 0 {
		fmt.Fprintf(&b, "Shares tags: %s (%.1f%% similarity)", strings.Join(shared, ", "), sim*100)
	} else {
		fmt.Fprintf(&b, "Semantically similar content (%.1f%% similarity)", sim*100)
	}

	if source.Sentiment != nil && target.Sentiment != nil {
		if SentimentAlignment(*source.Sentiment, *target.Sentiment, w).EmotionMatch {
			fmt.Fprintf(&b, " • Similar %s sentiment", source.Sentiment.Emotion)
		} else {
			fmt.Fprintf(&b, " • Contrasting sentiments (%s vs %s)", source.Sentiment.Emotion, target.Sentiment.Emotion)
		}
	}
	return b.String()
}

// sortLinks orders by strength descending, then target slug.
func sortLinks(links []domain.SemanticLink) {
	sort.SliceStable(links, func(i, j int) bool {
		if links[i].Strength != links[j].Strength {
			return links[i].Strength > links[j].Strength
		}
		return links[i].Target < links[j].Target
	})
}

func truncateLinks(links []domain.SemanticLink, limit int) []domain.SemanticLink {
	if limit > 0 && len(links) > limit {
		return links[:limit]
	}
	return links
}

// TopCrossReferences returns the strongest cross-references from source, above the floor.
func TopCrossReferences(source domain.Embedding, all []domain.Embedding, links domain.LinkTable, w domain.ScoringWeights, limit int) []domain.CrossReferenceStrength {
	var refs []domain.CrossReferenceStrength
	for _, target := range all {
		if target.Slug == source.Slug {
			continue
		}
		ref := CrossReference(source, target, links, w)
		if ref.Strength > w.CrossRefFloor {
			refs = append(refs, ref)
		}
	}

	sort.SliceStable(refs, func(i, j int) bool {
		if refs[i].Strength != refs[j].Strength {
			return refs[i].Strength > refs[j].Strength
		}
		return refs[i].Target < refs[j].Target
	})
	if limit > 0 && len(refs) > limit {
		refs = refs[:limit]
	}
	return refs
}

package driving

import (
	"context"

	"github.com/custodia-labs/semlink/internal/core/domain"
)

// RecommendationService ranks documents for a visitor.
type RecommendationService interface {
	// Recommend returns up to req.Limit recommendations.
	Recommend(ctx context.Context, req domain.RecommendRequest) ([]domain.Recommendation, error)

	// Track records a page visit.
	Track(ctx context.Context, interaction domain.Interaction) error

	// History returns the recorded interactions, oldest first.
	History(ctx context.Context) ([]domain.Interaction, error)

	// ClearHistory removes every recorded interaction.
	ClearHistory(ctx context.Context) error
}

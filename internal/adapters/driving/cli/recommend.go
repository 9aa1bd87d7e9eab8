package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/semlink/internal/core/domain"
)

var (
	recommendMode  string
	recommendLimit int
	recommendJSON  bool
)

var recommendCmd = &cobra.Command{
	Use:   "recommend [current-slug]",
	Short: "Recommend documents to read next",
	Long: `Ranks documents for a reader.

Modes:
  related       - documents most similar to the current page (requires a slug)
  personalized  - blends reading history, tag preferences and similarity
  trending      - recently visited and recently updated documents

The current page, when given, is never recommended.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRecommend,
}

func init() {
	recommendCmd.Flags().StringVarP(&recommendMode, "mode", "m", string(domain.RecommendRelated), "related, personalized or trending")
	recommendCmd.Flags().IntVarP(&recommendLimit, "limit", "n", 5, "maximum number of recommendations")
	recommendCmd.Flags().BoolVar(&recommendJSON, "json", false, "output recommendations as JSON")
	rootCmd.AddCommand(recommendCmd)
}

func runRecommend(cmd *cobra.Command, args []string) error {
	if recommendationService == nil {
		return errors.New("recommendation service not configured")
	}

	req := domain.RecommendRequest{
		Mode:  domain.RecommendationMode(recommendMode),
		Limit: recommendLimit,
	}
	if len(args) > 0 {
		req.CurrentSlug = args[0]
	}

	recs, err := recommendationService.Recommend(cmd.Context(), req)
	if err != nil {
		return fmt.Errorf("recommend failed: %w", err)
	}

	if recommendJSON {
		if recs == nil {
			recs = []domain.Recommendation{}
		}
		return outputJSON(cmd, recs)
	}

	if len(recs) == 0 {
		cmd.Println("No recommendations.")
		return nil
	}

	cmd.Printf("Recommendations (%s):\n\n", req.Mode)
	for i, r := range recs {
		cmd.Printf("  [%d] %s %s\n", i+1, styles.Title.Render(r.Title),
			styles.Score.Render(fmt.Sprintf("(%.2f)", r.Score)))
		cmd.Printf("      %s\n", styles.Muted.Render(r.Slug))
		cmd.Printf("      %s\n", r.Explanation)
		if r.Date != nil {
			cmd.Printf("      Updated: %s\n", r.Date.Format(time.DateOnly))
		}
		cmd.Println()
	}
	return nil
}

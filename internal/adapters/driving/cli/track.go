package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/semlink/internal/core/domain"
)

var (
	trackDuration time.Duration
	trackScroll   float64
)

var trackCmd = &cobra.Command{
	Use:   "track [slug]",
	Short: "Record a page visit",
	Long: `Records a visit to a document in the reading history used by
personalized and trending recommendations. Only the most recent 100 visits
are kept.`,
	Args: cobra.ExactArgs(1),
	RunE: runTrack,
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage the reading history",
}

var historyJSON bool

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded visits, oldest first",
	Args:  cobra.NoArgs,
	RunE:  runHistoryList,
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every recorded visit",
	Args:  cobra.NoArgs,
	RunE:  runHistoryClear,
}

func init() {
	trackCmd.Flags().DurationVarP(&trackDuration, "duration", "d", 0, "time spent on the page")
	trackCmd.Flags().Float64VarP(&trackScroll, "scroll", "s", 0, "scroll depth reached, from 0 to 1")
	rootCmd.AddCommand(trackCmd)

	historyListCmd.Flags().BoolVar(&historyJSON, "json", false, "output history as JSON")
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyClearCmd)
	rootCmd.AddCommand(historyCmd)
}

func runTrack(cmd *cobra.Command, args []string) error {
	if recommendationService == nil {
		return errors.New("recommendation service not configured")
	}

	interaction := domain.Interaction{
		Slug:        args[0],
		Timestamp:   time.Now(),
		DurationMs:  trackDuration.Milliseconds(),
		ScrollDepth: trackScroll,
	}
	if err := recommendationService.Track(cmd.Context(), interaction); err != nil {
		return fmt.Errorf("failed to record visit: %w", err)
	}

	cmd.Printf("Recorded visit to %s\n", interaction.Slug)
	return nil
}

func runHistoryList(cmd *cobra.Command, _ []string) error {
	if recommendationService == nil {
		return errors.New("recommendation service not configured")
	}

	history, err := recommendationService.History(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to read history: %w", err)
	}

	if historyJSON {
		if history == nil {
			history = []domain.Interaction{}
		}
		return outputJSON(cmd, history)
	}

	if len(history) == 0 {
		cmd.Println("No visits recorded.")
		return nil
	}

	for _, in := range history {
		cmd.Printf("  %s  %s %s\n",
			styles.Muted.Render(in.Timestamp.Local().Format(time.DateTime)),
			in.Slug,
			styles.Muted.Render(fmt.Sprintf("(%s, %.0f%% scrolled)",
				time.Duration(in.DurationMs)*time.Millisecond, in.ScrollDepth*100)))
	}
	cmd.Printf("\n%d visits\n", len(history))
	return nil
}

func runHistoryClear(cmd *cobra.Command, _ []string) error {
	if recommendationService == nil {
		return errors.New("recommendation service not configured")
	}

	if err := recommendationService.ClearHistory(cmd.Context()); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	cmd.Println("Reading history cleared.")
	return nil
}

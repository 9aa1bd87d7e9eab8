package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/semlink/internal/core/domain"
	"github.com/custodia-labs/semlink/internal/core/services"
)

var (
	searchLimit int
	searchMode  string
	searchJSON  bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the built corpus",
	Long: `Searches the built corpus by keyword, by meaning, or both.

Modes:
  keyword   - full-text BM25 ranking over title, tags and content
  semantic  - cosine similarity between the query and document embeddings
  hybrid    - weighted merge of keyword and semantic results (default)`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 10, "maximum number of results")
	searchCmd.Flags().StringVarP(&searchMode, "mode", "m", "", "keyword, semantic or hybrid (default from settings)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")

	if searchService == nil {
		return errors.New("search service not configured")
	}

	mode := domain.SearchMode(searchMode)
	if mode == "" && settingsService != nil {
		if settings, err := settingsService.Get(); err == nil {
			mode = settings.Search.Mode
		}
	}

	opts := domain.SearchOptions{
		Mode:  mode,
		Limit: searchLimit,
	}

	results, err := searchService.Search(cmd.Context(), query, opts)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputJSON(cmd, results)
	}

	return outputSearchTable(cmd, query, results)
}

func outputJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, query string, results []domain.SearchResult) error {
	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i := range results {
		// Format: [N] Title (Score)
		title := results[i].Title
		if title == "" {
			title = results[i].Slug
		}

		cmd.Printf("  [%d] %s %s\n", i+1, styles.Title.Render(title),
			styles.Score.Render(fmt.Sprintf("(%.2f)", results[i].Score)))
		cmd.Printf("      %s\n", styles.Muted.Render(results[i].Slug+" · "+results[i].Explanation))
		if len(results[i].Tags) > 0 {
			cmd.Printf("      Tags: %s\n", strings.Join(results[i].Tags, ", "))
		}
		if results[i].Snippet != "" {
			cmd.Printf("      %s\n", services.Highlight(query, results[i].Snippet, mark))
		}
		cmd.Println()
	}

	return nil
}

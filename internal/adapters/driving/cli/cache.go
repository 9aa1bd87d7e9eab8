package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var errCacheDisabled = errors.New("semantic cache is disabled (set cache.enabled = true)")

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the semantic cache",
	Long: `The semantic cache stores one embedding per document, keyed by a
fingerprint of its title, content and tags, so unchanged documents are not
re-embedded on the next build.`,
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache statistics",
	Args:  cobra.NoArgs,
	RunE:  runCacheStats,
}

var cachePruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove expired entries",
	Args:  cobra.NoArgs,
	RunE:  runCachePrune,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every entry",
	Args:  cobra.NoArgs,
	RunE:  runCacheClear,
}

func init() {
	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cachePruneCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}

func runCacheStats(cmd *cobra.Command, _ []string) error {
	if cacheService == nil {
		return errCacheDisabled
	}

	stats := cacheService.Stats()
	cmd.Println(styles.Heading.Render("Semantic cache"))
	cmd.Printf("  Entries: %d\n", stats.TotalEntries)
	if stats.OldestEntry != nil {
		cmd.Printf("  Oldest:  %s\n", stats.OldestEntry.Local().Format(time.DateTime))
	}
	if stats.NewestEntry != nil {
		cmd.Printf("  Newest:  %s\n", stats.NewestEntry.Local().Format(time.DateTime))
	}
	return nil
}

func runCachePrune(cmd *cobra.Command, _ []string) error {
	if cacheService == nil {
		return errCacheDisabled
	}

	removed, err := cacheService.Prune()
	if err != nil {
		return fmt.Errorf("failed to prune cache: %w", err)
	}
	cmd.Printf("Removed %d expired entries.\n", removed)
	return nil
}

func runCacheClear(cmd *cobra.Command, _ []string) error {
	if cacheService == nil {
		return errCacheDisabled
	}

	if err := cacheService.Clear(); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	cmd.Println("Cache cleared.")
	return nil
}

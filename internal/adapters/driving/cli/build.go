package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/semlink/internal/core/domain"
	"github.com/custodia-labs/semlink/internal/logger"
)

var (
	buildWatch    bool
	buildDebounce time.Duration
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Embed the corpus and write link artifacts",
	Long: `Reads every Markdown file in the content directory, computes embeddings
(reusing the semantic cache where content is unchanged), suggests links and
cross-references, and writes embeddings.json and contentIndex.json.

With --watch the corpus is rebuilt whenever a Markdown file changes.`,
	Args: cobra.NoArgs,
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().BoolVarP(&buildWatch, "watch", "w", false, "rebuild when content changes")
	buildCmd.Flags().DurationVar(&buildDebounce, "debounce", 500*time.Millisecond, "quiet period before a rebuild")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, _ []string) error {
	if buildService == nil {
		return errors.New("build service not configured")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, err := buildService.Build(ctx)
	if err != nil {
		return fmt.Errorf("build failed: %w", err)
	}
	printBuildReport(cmd, report)
	reload()

	if !buildWatch {
		return nil
	}
	if contentWatcher == nil {
		return errors.New("watching is not available for this content source")
	}

	cmd.Println(styles.Muted.Render("Watching for changes. Press Ctrl+C to stop."))
	return contentWatcher.Watch(ctx, buildDebounce, func() { rebuild(ctx, cmd) })
}

func rebuild(ctx context.Context, cmd *cobra.Command) {
	report, err := buildService.Build(ctx)
	if err != nil {
		logger.Error("Rebuild failed: %v", err)
		return
	}
	printBuildReport(cmd, report)
	reload()
}

func printBuildReport(cmd *cobra.Command, report *domain.BuildReport) {
	cmd.Printf("%s %d documents in %s\n",
		styles.Success.Render("Built"), report.Documents, report.Duration.Round(time.Millisecond))
	cmd.Printf("  Build ID:   %s\n", report.BuildID)
	cmd.Printf("  Embeddings: %s\n", report.Mode)
	cmd.Printf("  Embedded:   %d (cache hits: %d)\n", report.Embedded, report.CacheHits)
	cmd.Printf("  Links:      %d\n", report.Links)
	if report.ArtifactDir != "" {
		cmd.Printf("  Artifacts:  %s\n", report.ArtifactDir)
	}
	if report.Mode == domain.EmbeddingModePlaceholder {
		cmd.Println(styles.Warning.Render("  No embedding model available; placeholder vectors were used."))
	}
	if len(report.Skipped) > 0 {
		cmd.Printf("  Skipped:    %d\n", len(report.Skipped))
		cmd.Println(styles.Muted.Render("    " + strings.Join(report.Skipped, ", ")))
	}
}

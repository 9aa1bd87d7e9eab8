// Package cli provides the semlink command line interface.
package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/semlink/internal/core/ports/driving"
	"github.com/custodia-labs/semlink/internal/logger"
)

// version is set at build time via Execute.
var version = "dev"

// skipWiring marks commands that run without services.
const skipWiring = "skip-wiring"

// Watcher reports bursts of content changes until ctx is done.
type Watcher interface {
	Watch(ctx context.Context, debounce time.Duration, onChange func()) error
}

// Services holds everything the commands drive.
// Cache and Watcher may be nil when the feature is unavailable.
type Services struct {
	Search         driving.SearchService
	Build          driving.BuildService
	Links          driving.LinkService
	Recommendation driving.RecommendationService
	Cache          driving.CacheService
	Settings       driving.SettingsService
	Watcher        Watcher

	// Reload makes query services pick up freshly written artifacts.
	Reload func()

	// Close releases stores opened for the services.
	Close func() error
}

// Wiring builds the services from the configuration directory.
type Wiring func(configDir string) (*Services, error)

var (
	searchService         driving.SearchService
	buildService          driving.BuildService
	linkService           driving.LinkService
	recommendationService driving.RecommendationService
	cacheService          driving.CacheService
	settingsService       driving.SettingsService
	contentWatcher        Watcher
	reloadServices        func()
	closeServices         func() error
)

var (
	verbose   bool
	configDir string
	wiring    Wiring
)

var rootCmd = &cobra.Command{
	Use:   "semlink",
	Short: "Semantic links, search and recommendations for a Markdown corpus",
	Long: `semlink embeds a folder of Markdown notes, suggests links between them,
and serves keyword, semantic and hybrid search plus recommendations over the
built corpus.

Run 'semlink build' first, then query with 'semlink search', 'semlink links'
or 'semlink recommend'.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print debug logging to stderr")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "configuration directory (default ~/.semlink)")
}

func setup(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)

	if wiring == nil || cmd.Annotations[skipWiring] == "true" || settingsService != nil {
		return nil
	}

	svc, err := wiring(configDir)
	if err != nil {
		return fmt.Errorf("initialising services: %w", err)
	}
	Inject(svc)
	return nil
}

// Inject sets the services used by the commands.
func Inject(svc *Services) {
	searchService = svc.Search
	buildService = svc.Build
	linkService = svc.Links
	recommendationService = svc.Recommendation
	cacheService = svc.Cache
	settingsService = svc.Settings
	contentWatcher = svc.Watcher
	reloadServices = svc.Reload
	closeServices = svc.Close
}

// Execute runs the root command. Services are built lazily by w so that
// commands like version never touch the filesystem.
func Execute(v string, w Wiring) error {
	if v != "" {
		version = v
	}
	wiring = w

	err := rootCmd.Execute()

	if closeServices != nil {
		if cerr := closeServices(); cerr != nil {
			logger.Warn("Closing services: %v", cerr)
		}
	}
	return err
}

func reload() {
	if reloadServices != nil {
		reloadServices()
	}
}

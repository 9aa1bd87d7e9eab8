package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/semlink/internal/core/domain"
	"github.com/custodia-labs/semlink/internal/core/services"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure search, embedding, cache, build and link settings.

Settings are stored in config.toml in the configuration directory.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a single setting",
	Long: `Set a single setting using its dot-notation key, for example:

  semlink settings set links.min_similarity 0.4
  semlink settings set cache.enabled false

Run 'semlink settings keys' to list every key.`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

var settingsKeysCmd = &cobra.Command{
	Use:         "keys",
	Short:       "List every setting key",
	Args:        cobra.NoArgs,
	Annotations: map[string]string{skipWiring: "true"},
	RunE:        runSettingsKeys,
}

var settingsModeCmd = &cobra.Command{
	Use:   "mode [mode]",
	Short: "Set the default search mode",
	Long: `Set the search mode used when a query names none.

Available modes:
  keyword   - full-text search only (no embedding provider required)
  semantic  - vector similarity only
  hybrid    - keyword and semantic results merged`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSettingsMode,
}

var settingsEmbeddingCmd = &cobra.Command{
	Use:   "embedding",
	Short: "Configure embedding provider",
	Long:  `Interactively configure the embedding provider used by builds and semantic search.`,
	Args:  cobra.NoArgs,
	RunE:  runSettingsEmbedding,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsKeysCmd)
	settingsCmd.AddCommand(settingsModeCmd)
	settingsCmd.AddCommand(settingsEmbeddingCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println(styles.Title.Render("Current Settings"))
	cmd.Println()

	// Search settings
	cmd.Println(styles.Heading.Render("[Search]"))
	cmd.Printf("  Mode: %s\n", settings.Search.Mode.Description())
	cmd.Printf("  Keyword weight: %.2f\n", settings.Search.KeywordWeight)
	cmd.Printf("  Semantic-only discount: %.2f\n", settings.Search.SemanticOnlyDiscount)
	cmd.Printf("  Lexical backend: %s\n", settings.Search.LexicalBackend)
	cmd.Println()

	// Embedding settings
	cmd.Println(styles.Heading.Render("[Embedding]"))
	cmd.Printf("  Provider: %s\n", settings.Embedding.Provider.Description())
	if settings.Embedding.Model != "" {
		cmd.Printf("  Model: %s\n", settings.Embedding.Model)
	}
	if settings.Embedding.BaseURL != "" {
		cmd.Printf("  Base URL: %s\n", settings.Embedding.BaseURL)
	}
	if settings.Embedding.Provider.RequiresAPIKey() {
		if settings.Embedding.APIKey != "" {
			cmd.Printf("  API Key: %s\n", maskAPIKey(settings.Embedding.APIKey))
		} else {
			cmd.Printf("  API Key: (not set)\n")
		}
	}
	cmd.Printf("  Dimensions: %d\n", settings.Embedding.Dimensions)
	if settings.Embedding.RequestsPerSecond > 0 {
		cmd.Printf("  Rate limit: %.1f req/s\n", settings.Embedding.RequestsPerSecond)
	}
	status := "configured"
	if !settings.Embedding.IsConfigured() {
		status = "not configured (placeholder vectors)"
	}
	cmd.Printf("  Status: %s\n", status)
	cmd.Println()

	// Cache settings
	cmd.Println(styles.Heading.Render("[Cache]"))
	cmd.Printf("  Enabled: %s\n", yesNo(settings.Cache.Enabled))
	cmd.Printf("  Directory: %s\n", settings.Cache.Dir)
	cmd.Printf("  Max age: %d days\n", settings.Cache.MaxAgeDays)
	cmd.Println()

	// Build settings
	cmd.Println(styles.Heading.Render("[Build]"))
	cmd.Printf("  Content: %s\n", settings.Build.ContentDir)
	cmd.Printf("  Output: %s\n", settings.Build.OutputDir)
	cmd.Printf("  Parallelism: %d\n", settings.Build.Parallelism)
	cmd.Println()

	// Link settings
	cmd.Println(styles.Heading.Render("[Links]"))
	cmd.Printf("  Min similarity: %.2f\n", settings.Links.MinSimilarity)
	cmd.Printf("  Max suggestions: %d\n", settings.Links.MaxSuggestions)
	cmd.Printf("  Display threshold: %.2f\n", settings.Links.DisplayThreshold)
	cmd.Printf("  Sentiment: %s (weight %.2f, tolerance %.2f)\n",
		yesNo(settings.Links.UseSentiment), settings.Links.SentimentWeight, settings.Links.PolarityTolerance)
	cmd.Printf("  Cross-references: %s\n", yesNo(settings.Links.CrossReference))
	cmd.Println()

	// Validation
	if err := settingsService.Validate(); err != nil {
		cmd.Println(styles.Warning.Render(fmt.Sprintf("Warning: %v", err)))
		cmd.Println("Run 'semlink settings embedding' to fix configuration issues.")
	} else {
		cmd.Println(styles.Success.Render("Configuration is valid."))
	}

	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	key, value := args[0], args[1]
	if err := settingsService.Set(key, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}

	if strings.HasSuffix(key, "api_key") {
		value = maskAPIKey(value)
	}
	cmd.Printf("Set %s = %s\n", key, value)
	return nil
}

func runSettingsKeys(cmd *cobra.Command, _ []string) error {
	keys := services.SettingKeys()
	sort.Strings(keys)
	for _, k := range keys {
		cmd.Println(k)
	}
	return nil
}

func runSettingsMode(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	var selectedMode domain.SearchMode
	if len(args) == 1 {
		selectedMode = domain.SearchMode(args[0])
	} else {
		reader := bufio.NewReader(cmd.InOrStdin())

		cmd.Println("Select Search Mode")
		cmd.Println("------------------")
		modes := domain.AllSearchModes()
		for i, mode := range modes {
			cmd.Printf("  %d. %s\n", i+1, mode.Description())
		}
		cmd.Print("\nEnter choice: ")
		input := readLine(reader)
		idx := parseChoice(input, len(modes), 0)
		if idx == 0 {
			return errors.New("invalid selection")
		}
		selectedMode = modes[idx-1]
	}

	if err := settingsService.SetSearchMode(selectedMode); err != nil {
		return fmt.Errorf("failed to set search mode: %w", err)
	}

	cmd.Printf("Search mode set to: %s\n", selectedMode.Description())

	// Check if additional configuration is needed
	if selectedMode.RequiresEmbedding() {
		settings, _ := settingsService.Get() //nolint:errcheck // Best-effort check
		if settings != nil && !settings.Embedding.IsConfigured() {
			cmd.Println("\nNote: without an embedding provider, semantic scores use placeholder vectors.")
			cmd.Println("Run 'semlink settings embedding' to configure one.")
		}
	}

	return nil
}

func runSettingsEmbedding(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	reader := bufio.NewReader(cmd.InOrStdin())
	return configureEmbeddingProvider(cmd, reader)
}

func configureEmbeddingProvider(cmd *cobra.Command, reader *bufio.Reader) error {
	cmd.Println("Select Embedding Provider")
	providers := domain.AllEmbeddingProviders()
	for i, p := range providers {
		cmd.Printf("  %d. %s\n", i+1, p.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	input := readLine(reader)
	idx := parseChoice(input, len(providers), 1)
	selectedProvider := providers[idx-1]

	// Get model
	var model string
	if defaultModel, ok := domain.DefaultEmbeddingModels()[selectedProvider]; ok {
		cmd.Printf("Enter model name [%s]: ", defaultModel)
		model = readLine(reader)
		if model == "" {
			model = defaultModel
		}
	}

	// Get API key if needed
	var apiKey string
	if selectedProvider.RequiresAPIKey() {
		cmd.Print("Enter API key: ")
		apiKey = readPassword(cmd.InOrStdin(), reader)
		cmd.Println()
		if apiKey == "" {
			return errors.New("API key is required for this provider")
		}
	}

	if err := settingsService.SetEmbeddingProvider(selectedProvider, model, apiKey); err != nil {
		return fmt.Errorf("failed to configure embedding provider: %w", err)
	}

	if selectedProvider == domain.AIProviderNone {
		cmd.Println("Embedding provider disabled; builds will use placeholder vectors.")
		return nil
	}

	// Validate the configuration by pinging the service
	cmd.Print("Validating configuration... ")
	if err := settingsService.ValidateEmbeddingConfig(); err != nil {
		cmd.Printf("FAILED: %v\n", err)
		return fmt.Errorf("embedding configuration validation failed: %w", err)
	}
	cmd.Println("OK")

	cmd.Printf("Embedding provider configured: %s (%s)\n\n", selectedProvider.Description(), model)
	return nil
}

// Helper functions.

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	input = strings.TrimSpace(input)
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

// readPassword reads without echo when in is an interactive terminal.
func readPassword(in io.Reader, reader *bufio.Reader) string {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		password, err := term.ReadPassword(int(f.Fd()))
		if err == nil {
			return strings.TrimSpace(string(password))
		}
	}
	// Fallback to regular input
	return readLine(reader)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

package cli

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/semlink/internal/core/domain"
)

// mockSearchService is a mock implementation of driving.SearchService.
type mockSearchService struct {
	results  []domain.SearchResult
	err      error
	lastOpts domain.SearchOptions
	lastQ    string
}

func (m *mockSearchService) Search(_ context.Context, query string, opts domain.SearchOptions) ([]domain.SearchResult, error) {
	m.lastQ = query
	m.lastOpts = opts
	return m.results, m.err
}

// mockBuildService is a mock implementation of driving.BuildService.
type mockBuildService struct {
	report *domain.BuildReport
	err    error
	calls  int
}

func (m *mockBuildService) Build(_ context.Context) (*domain.BuildReport, error) {
	m.calls++
	return m.report, m.err
}

// mockLinkService is a mock implementation of driving.LinkService.
type mockLinkService struct {
	links []domain.SemanticLink
	refs  []domain.CrossReferenceStrength
	err   error
}

func (m *mockLinkService) Links(_ context.Context, _ string) ([]domain.SemanticLink, error) {
	return m.links, m.err
}

func (m *mockLinkService) CrossReferences(_ context.Context, _ string) ([]domain.CrossReferenceStrength, error) {
	return m.refs, m.err
}

// mockRecommendationService is a mock implementation of driving.RecommendationService.
type mockRecommendationService struct {
	recs        []domain.Recommendation
	history     []domain.Interaction
	tracked     []domain.Interaction
	cleared     bool
	err         error
	lastRequest domain.RecommendRequest
}

func (m *mockRecommendationService) Recommend(_ context.Context, req domain.RecommendRequest) ([]domain.Recommendation, error) {
	m.lastRequest = req
	return m.recs, m.err
}

func (m *mockRecommendationService) Track(_ context.Context, in domain.Interaction) error {
	if m.err != nil {
		return m.err
	}
	m.tracked = append(m.tracked, in)
	return nil
}

func (m *mockRecommendationService) History(_ context.Context) ([]domain.Interaction, error) {
	return m.history, m.err
}

func (m *mockRecommendationService) ClearHistory(_ context.Context) error {
	m.cleared = true
	return m.err
}

// mockCacheService is a mock implementation of driving.CacheService.
type mockCacheService struct {
	stats   domain.CacheStats
	pruned  int
	cleared bool
	err     error
}

func (m *mockCacheService) Stats() domain.CacheStats { return m.stats }

func (m *mockCacheService) Prune() (int, error) { return m.pruned, m.err }

func (m *mockCacheService) Clear() error {
	m.cleared = true
	return m.err
}

// mockSettingsService is a mock implementation of driving.SettingsService.
type mockSettingsService struct {
	settings    domain.AppSettings
	setCalls    map[string]string
	validateErr error
	pingErr     error
	err         error
}

func newMockSettingsService() *mockSettingsService {
	return &mockSettingsService{settings: domain.DefaultAppSettings(), setCalls: map[string]string{}}
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	if m.err != nil {
		return nil, m.err
	}
	s := m.settings
	return &s, nil
}

func (m *mockSettingsService) Save(s *domain.AppSettings) error {
	m.settings = *s
	return m.err
}

func (m *mockSettingsService) Set(key, value string) error {
	if m.err != nil {
		return m.err
	}
	m.setCalls[key] = value
	return nil
}

func (m *mockSettingsService) SetSearchMode(mode domain.SearchMode) error {
	if !mode.IsValid() {
		return domain.ErrInvalidInput
	}
	m.settings.Search.Mode = mode
	return m.err
}

func (m *mockSettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	m.settings.Embedding.Provider = provider
	m.settings.Embedding.Model = model
	m.settings.Embedding.APIKey = apiKey
	return m.err
}

func (m *mockSettingsService) Validate() error { return m.validateErr }

func (m *mockSettingsService) GetDefaults() domain.AppSettings { return domain.DefaultAppSettings() }

func (m *mockSettingsService) ValidateEmbeddingConfig() error { return m.pingErr }

// mockWatcher reports a fixed number of changes and returns.
type mockWatcher struct {
	changes  int
	debounce time.Duration
}

func (m *mockWatcher) Watch(_ context.Context, debounce time.Duration, onChange func()) error {
	m.debounce = debounce
	for i := 0; i < m.changes; i++ {
		onChange()
	}
	return nil
}

type testServices struct {
	search    *mockSearchService
	build     *mockBuildService
	links     *mockLinkService
	recommend *mockRecommendationService
	cache     *mockCacheService
	settings  *mockSettingsService
	watcher   *mockWatcher
	reloads   int
}

// setupTestServices injects mocks and returns a cleanup that restores globals and flags.
func setupTestServices() (*testServices, func()) {
	ts := &testServices{
		search: &mockSearchService{
			results: []domain.SearchResult{{
				Slug:        "go/channels",
				Title:       "Go Channels",
				Score:       0.91,
				Explanation: "Keyword and semantic match",
				Snippet:     "buffered channels block when full",
				Tags:        []string{"golang"},
			}},
		},
		build: &mockBuildService{report: &domain.BuildReport{
			BuildID:     "build-1",
			Documents:   3,
			Embedded:    3,
			CacheHits:   2,
			Links:       4,
			Mode:        domain.EmbeddingModeModel,
			Duration:    1500 * time.Millisecond,
			ArtifactDir: "static",
		}},
		links:     &mockLinkService{},
		recommend: &mockRecommendationService{},
		cache:     &mockCacheService{},
		settings:  newMockSettingsService(),
		watcher:   &mockWatcher{},
	}

	Inject(&Services{
		Search:         ts.search,
		Build:          ts.build,
		Links:          ts.links,
		Recommendation: ts.recommend,
		Cache:          ts.cache,
		Settings:       ts.settings,
		Watcher:        ts.watcher,
		Reload:         func() { ts.reloads++ },
	})

	return ts, func() {
		Inject(&Services{})
		resetFlags()
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
	}
}

func resetFlags() {
	searchLimit, searchMode, searchJSON = 10, "", false
	recommendMode, recommendLimit, recommendJSON = string(domain.RecommendRelated), 5, false
	linksJSON, historyJSON = false, false
	buildWatch, buildDebounce = false, 500*time.Millisecond
	trackDuration, trackScroll = 0, 0
}

// execute runs the root command with args and returns its output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestRootCmd_Use(t *testing.T) {
	assert.Equal(t, "semlink", rootCmd.Use)
}

func TestRootCmd_PersistentFlags(t *testing.T) {
	require.NotNil(t, rootCmd.PersistentFlags().Lookup("verbose"))
	require.NotNil(t, rootCmd.PersistentFlags().Lookup("config-dir"))
}

func TestSetup_UsesWiring(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()
	Inject(&Services{})

	var gotDir string
	wiring = func(dir string) (*Services, error) {
		gotDir = dir
		return &Services{Settings: newMockSettingsService(), Search: &mockSearchService{}}, nil
	}
	defer func() { wiring = nil; configDir = "" }()

	_, err := execute(t, "--config-dir", "/tmp/semlink-test", "search", "x")

	require.NoError(t, err)
	assert.Equal(t, "/tmp/semlink-test", gotDir)
	assert.NotNil(t, searchService)
}

func TestSetup_WiringError(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()
	Inject(&Services{})

	wiring = func(string) (*Services, error) { return nil, errors.New("boom") }
	defer func() { wiring = nil }()

	_, err := execute(t, "search", "x")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "initialising services")
}

func TestSetup_SkipsWiringForVersion(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()
	Inject(&Services{})

	wiring = func(string) (*Services, error) { return nil, errors.New("should not run") }
	defer func() { wiring = nil }()

	out, err := execute(t, "version")

	require.NoError(t, err)
	assert.Contains(t, out, "semlink version")
}

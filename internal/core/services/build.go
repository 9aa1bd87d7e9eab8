package services

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/semlink/internal/core/domain"
	"github.com/custodia-labs/semlink/internal/core/ports/driven"
	"github.com/custodia-labs/semlink/internal/core/ports/driving"
	"github.com/custodia-labs/semlink/internal/logger"
)

// Ensure BuildService implements the interface.
var _ driving.BuildService = (*BuildService)(nil)

// BuildService runs the two-pass corpus build.
type BuildService struct {
	corpus    driven.CorpusSource
	cache     driven.SemanticCache
	provider  driven.EmbeddingProvider
	fallback  driven.EmbeddingProvider
	artifacts driven.ArtifactStore
	settings  domain.AppSettings
	now       func() time.Time
}

// BuildOption configures a BuildService.
type BuildOption func(*BuildService)

// WithBuildClock overrides the time source.
func WithBuildClock(now func() time.Time) BuildOption {
	return func(s *BuildService) { s.now = now }
}

// NewBuildService creates a build service. cache may be nil to disable caching.
// fallback serves the pass when provider fails to initialise.
func NewBuildService(
	corpus driven.CorpusSource,
	cache driven.SemanticCache,
	provider driven.EmbeddingProvider,
	fallback driven.EmbeddingProvider,
	artifacts driven.ArtifactStore,
	settings domain.AppSettings,
	opts ...BuildOption,
) *BuildService {
	s := &BuildService{
		corpus:    corpus,
		cache:     cache,
		provider:  provider,
		fallback:  fallback,
		artifacts: artifacts,
		settings:  settings,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// docState carries one document through both passes.
type docState struct {
	doc         domain.Document
	embedding   *domain.Embedding
	cachedLinks []domain.SemanticLink
	links       []domain.SemanticLink
	refs        []domain.CrossReferenceStrength
}

// Build runs both passes and writes the artifacts.
func (s *BuildService) Build(ctx context.Context) (*domain.BuildReport, error) {
	start := s.now()
	buildID := uuid.NewString()
	logger.Section("Build " + buildID)

	docs, err := s.corpus.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load corpus: %w", err)
	}
	logger.Info("loaded %d documents", len(docs))

	if s.cache != nil {
		if removed, err := s.cache.Prune(); err != nil {
			logger.Warn("prune cache: %v", err)
		} else if removed > 0 {
			logger.Info("pruned %d expired cache entries", removed)
		}
	}

	provider := s.initProvider(ctx)
	defer func() {
		if err := provider.Dispose(); err != nil {
			logger.Warn("dispose provider: %v", err)
		}
	}()
	gen := NewGenerator(provider)
	gen.now = s.now

	states := make([]*docState, len(docs))
	for i, doc := range docs {
		states[i] = &docState{doc: doc}
	}

	hits, err := s.embedPass(ctx, gen, states)
	if err != nil {
		return nil, err
	}

	report := &domain.BuildReport{
		BuildID:   buildID,
		Documents: len(docs),
		CacheHits: hits,
		Mode:      provider.Mode(),
	}

	var embedded []domain.Embedding
	for _, st := range states {
		if st.embedding == nil {
			report.Skipped = append(report.Skipped, st.doc.Slug)
			continue
		}
		embedded = append(embedded, *st.embedding)
	}
	report.Embedded = len(embedded)

	if err := s.linkPass(ctx, provider.Mode(), states, embedded, hits == len(docs)); err != nil {
		return nil, err
	}

	embArtifact, index := s.assemble(buildID, provider, states, embedded)
	for _, st := range states {
		report.Links += len(st.links)
	}
	report.Mode = embArtifact.Mode

	if err := s.artifacts.Write(ctx, embArtifact, index); err != nil {
		return nil, fmt.Errorf("write artifacts: %w", err)
	}

	report.Duration = s.now().Sub(start)
	logger.Info("build %s: %d embedded, %d cache hits, %d links, %d skipped",
		buildID, report.Embedded, report.CacheHits, report.Links, len(report.Skipped))
	return report, nil
}

// initProvider returns the configured provider or, if it cannot start, the fallback.
func (s *BuildService) initProvider(ctx context.Context) driven.EmbeddingProvider {
	if err := s.provider.Initialize(ctx); err != nil {
		logger.Error("embedding model unavailable, using %s: %v", s.fallback.ModelName(), err)
		if err := s.fallback.Initialize(ctx); err != nil {
			logger.Warn("initialise fallback provider: %v", err)
		}
		return s.fallback
	}
	logger.Info("embedding with %s (%d dimensions)", s.provider.ModelName(), s.provider.Dimensions())
	return s.provider
}

// embedPass fills each state's embedding from the cache or the generator.
func (s *BuildService) embedPass(ctx context.Context, gen *Generator, states []*docState) (int, error) {
	defer logger.Timed("embedding pass")()

	var hits atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.parallelism())

	for _, st := range states {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			if entry, ok := s.cachedEntry(st.doc, gen); ok {
				emb := entry.Embedding
				st.embedding = &emb
				st.cachedLinks = entry.SemanticLinks
				hits.Add(1)
				logger.Debug("cache hit %s", st.doc.Slug)
				return nil
			}

			emb := gen.Generate(gctx, st.doc)
			if emb.Dimensions() != gen.Dimensions() {
				logger.Error("skip %s: %v", st.doc.Slug, domain.ErrDimensionMismatch)
				return nil
			}
			st.embedding = &emb
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return 0, fmt.Errorf("embedding pass: %w", err)
	}
	return int(hits.Load()), nil
}

// cachedEntry returns a usable cache entry produced by an equivalent provider.
func (s *BuildService) cachedEntry(doc domain.Document, gen *Generator) (*domain.CacheEntry, bool) {
	if s.cache == nil {
		return nil, false
	}
	entry, ok := s.cache.Get(doc.Slug, doc.Content, doc.Title, doc.Tags)
	if !ok {
		return nil, false
	}
	if entry.Embedding.Mode != gen.Mode() || entry.Embedding.Dimensions() != gen.Dimensions() {
		return nil, false
	}
	return entry, true
}

// linkPass computes link suggestions and cross-references for every embedded document.
// Cached links are reused only when nothing in the corpus was re-embedded.
func (s *BuildService) linkPass(ctx context.Context, mode domain.EmbeddingMode, states []*docState, embedded []domain.Embedding, allCached bool) error {
	defer logger.Timed("link pass")()

	opts := DefaultLinkOptions(s.settings)
	opts.Now = s.now()

	slugs := make(map[string]bool, len(embedded))
	var full []domain.Embedding
	for _, e := range embedded {
		slugs[e.Slug] = true
		if e.IsFullFidelity() {
			full = append(full, e)
		}
	}

	linkTable := make(domain.LinkTable, len(states))
	for _, st := range states {
		linkTable[st.doc.Slug] = st.doc.Links
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.parallelism())

	for _, st := range states {
		if st.embedding == nil {
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			emb := *st.embedding

			var links []domain.SemanticLink
			reused := allCached && targetsExist(st.cachedLinks, slugs)
			switch {
			case reused:
				links = st.cachedLinks
			case mode == domain.EmbeddingModeModel && emb.IsFullFidelity():
				links = SuggestLinks(emb, full, opts)
			default:
				links = SuggestTagLinks(emb, embedded, opts)
			}

			if s.cache != nil && !reused && emb.Mode == mode {
				if err := s.cache.Put(emb.Slug, emb, links); err != nil {
					logger.Warn("cache %s: %v", emb.Slug, err)
				}
			}

			st.links = FilterLinks(links, s.settings.Links.DisplayThreshold)
			if s.settings.Links.CrossReference {
				st.refs = TopCrossReferences(emb, embedded, linkTable, opts.Weights, s.settings.Links.MaxSuggestions)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("link pass: %w", err)
	}
	return nil
}

func targetsExist(links []domain.SemanticLink, slugs map[string]bool) bool {
	for _, l := range links {
		if !slugs[l.Target] {
			return false
		}
	}
	return true
}

// assemble builds the artifact payloads.
func (s *BuildService) assemble(buildID string, provider driven.EmbeddingProvider, states []*docState, embedded []domain.Embedding) (*domain.EmbeddingsArtifact, domain.ContentIndex) {
	mode := domain.EmbeddingModePlaceholder
	vectors := make(map[string][]float32, len(embedded))
	for _, e := range embedded {
		vectors[e.Slug] = e.Vector
		if e.IsFullFidelity() && provider.Mode() == domain.EmbeddingModeModel {
			mode = domain.EmbeddingModeModel
		}
	}

	artifact := &domain.EmbeddingsArtifact{
		Embeddings: vectors,
		Model:      provider.ModelName(),
		Dimensions: provider.Dimensions(),
		Generated:  s.now().UTC(),
		Mode:       mode,
		BuildID:    buildID,
	}

	index := make(domain.ContentIndex, len(states))
	for _, st := range states {
		entry := domain.ContentEntry{
			Title:           st.doc.Title,
			Content:         CleanMarkdown(st.doc.Content),
			Tags:            st.doc.Tags,
			Links:           st.doc.Links,
			SemanticLinks:   st.links,
			CrossReferences: st.refs,
			Description:     st.doc.Description,
		}
		if entry.Tags == nil {
			entry.Tags = []string{}
		}
		if entry.Links == nil {
			entry.Links = []string{}
		}
		if !st.doc.ModifiedAt.IsZero() {
			date := st.doc.ModifiedAt
			entry.Date = &date
		}
		index[st.doc.Slug] = entry
	}
	return artifact, index
}

func (s *BuildService) parallelism() int {
	if s.settings.Build.Parallelism > 0 {
		return s.settings.Build.Parallelism
	}
	return domain.DefaultAppSettings().Build.Parallelism
}

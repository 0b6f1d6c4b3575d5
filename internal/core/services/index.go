package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/custodia-labs/busrag/internal/core/domain"
	"github.com/custodia-labs/busrag/internal/core/ports/driven"
	"github.com/custodia-labs/busrag/internal/core/ports/driving"
	"github.com/custodia-labs/busrag/internal/logger"
)

// Ensure IndexService implements the interface.
var _ driving.IndexService = (*IndexService)(nil)

// loadedIndex is an immutable snapshot together with its stored metadata.
type loadedIndex struct {
	snapshot *domain.Snapshot
	meta     driven.IndexMeta
}

// IndexService owns the vector index: it builds it from the corpus, persists
// it through the index store and serves the live snapshot to readers.
//
// Builds are serialised by mu. Readers take the live snapshot from an atomic
// pointer and keep the one they hold until they ask again.
type IndexService struct {
	corpus   driven.CorpusSource
	embedder driven.EmbeddingService
	store    driven.IndexStore

	mu   sync.Mutex
	live atomic.Pointer[loadedIndex]
}

// NewIndexService creates a new index service.
func NewIndexService(
	corpus driven.CorpusSource,
	embedder driven.EmbeddingService,
	store driven.IndexStore,
) *IndexService {
	return &IndexService{
		corpus:   corpus,
		embedder: embedder,
		store:    store,
	}
}

// State reports whether a usable persisted index exists.
func (s *IndexService) State(ctx context.Context) (domain.IndexState, error) {
	state, err := s.store.State(ctx)
	if err != nil {
		return domain.IndexStateAbsent, fmt.Errorf("index state: %w", err)
	}
	return state, nil
}

// Status reports the persisted state and the loaded snapshot.
func (s *IndexService) Status(ctx context.Context) (*domain.IndexStatus, error) {
	state, err := s.State(ctx)
	if err != nil {
		return nil, err
	}

	status := &domain.IndexStatus{State: state}
	if li := s.live.Load(); li != nil {
		status.Loaded = true
		status.Documents = li.snapshot.Len()
		status.Dimension = li.snapshot.Dimension()
		status.Model = li.meta.Model
	}
	return status, nil
}

// EnsureBuilt builds the index only when no usable one is persisted.
// A present index is left on disk for Snapshot to load on first use.
// An inconsistent pair, or one built by another model, is rebuilt.
func (s *IndexService) EnsureBuilt(ctx context.Context) (*domain.BuildReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	meta, err := s.store.Meta(ctx)
	if err == nil {
		err = s.checkModel(meta)
	}
	switch {
	case err == nil:
		logger.Debug("Index already present: %d documents", meta.Documents)
		return &domain.BuildReport{
			Outcome:   domain.BuildOutcomeAlreadyPresent,
			Documents: meta.Documents,
			Dimension: meta.Dimension,
			Duration:  time.Since(start),
		}, nil
	case errors.Is(err, domain.ErrInconsistentArtifacts):
		logger.Warn("Persisted index is unusable, rebuilding: %v", err)
	case errors.Is(err, domain.ErrIndexAbsent):
		logger.Debug("No persisted index, building")
	default:
		return nil, fmt.Errorf("read index metadata: %w", err)
	}

	return s.build(ctx)
}

// Rebuild builds the index from the current corpus regardless of what is stored.
func (s *IndexService) Rebuild(ctx context.Context) (*domain.BuildReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.build(ctx)
}

// build runs the pipeline. Callers hold mu.
func (s *IndexService) build(ctx context.Context) (*domain.BuildReport, error) {
	logger.Section("Index Build")
	start := time.Now()

	if s.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}

	desc, err := s.corpus.LoadDescription(ctx)
	if err != nil {
		return nil, fmt.Errorf("load corpus description: %w", err)
	}
	files, err := s.corpus.ProviderFiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("read provider files: %w", err)
	}

	units := Canonicalize(desc, files)
	logger.Debug("Corpus: %d providers, %d provider files, %d units",
		len(desc.ProviderNames()), len(files), len(units))

	if len(units) == 0 {
		logger.Info("%v: place data.json and provider_texts/ in the data directory", domain.ErrNoDataToIndex)
		return &domain.BuildReport{
			Outcome:  domain.BuildOutcomeNoData,
			Duration: time.Since(start),
		}, nil
	}

	ids := make([]string, len(units))
	texts := make([]string, len(units))
	for i, u := range units {
		ids[i] = u.ID
		texts[i] = u.Text
	}

	embedStart := time.Now()
	vectors, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrEmbeddingFailure, err)
	}
	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("%w: got %d vectors for %d texts",
			domain.ErrEmbeddingFailure, len(vectors), len(texts))
	}
	logger.Debug("Embedded %d units with %s in %v", len(texts), s.embedder.ModelName(), time.Since(embedStart))

	snapshot, err := domain.NewSnapshot(vectors, ids, texts)
	if err != nil {
		return nil, fmt.Errorf("build snapshot: %w", err)
	}

	if err := s.store.Save(ctx, snapshot, driven.IndexMeta{Model: s.embedder.ModelName()}); err != nil {
		return nil, fmt.Errorf("persist index: %w", err)
	}

	// Serve the stored vectors, not the built ones, so a reduced storage
	// precision ranks the same before and after a restart.
	stored, meta, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("reload index: %w", err)
	}
	s.live.Store(&loadedIndex{snapshot: stored, meta: meta})

	report := &domain.BuildReport{
		Outcome:   domain.BuildOutcomeBuilt,
		Documents: stored.Len(),
		Dimension: stored.Dimension(),
		Duration:  time.Since(start),
	}
	logger.Info("Index built: %d documents, dimension %d, %v", report.Documents, report.Dimension, report.Duration)
	return report, nil
}

// Load reads the persisted index and makes it live.
// Returns nil without error when no usable index exists, and drops the live one.
func (s *IndexService) Load(ctx context.Context) (*domain.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	li, err := s.read(ctx)
	if err != nil {
		return nil, err
	}
	s.live.Store(li)
	if li == nil {
		return nil, nil
	}
	return li.snapshot, nil
}

// Snapshot returns the live snapshot, loading the persisted one on first use.
// Returns nil without error when no usable index exists.
func (s *IndexService) Snapshot(ctx context.Context) (*domain.Snapshot, error) {
	if li := s.live.Load(); li != nil {
		return li.snapshot, nil
	}

	li, err := s.read(ctx)
	if li == nil {
		return nil, err
	}

	// A build that finished while we were reading wins.
	if !s.live.CompareAndSwap(nil, li) {
		return s.live.Load().snapshot, nil
	}
	return li.snapshot, nil
}

// read loads the persisted pair. A missing or inconsistent pair, or one
// built by another model, reads as nil without error.
func (s *IndexService) read(ctx context.Context) (*loadedIndex, error) {
	snapshot, meta, err := s.store.Load(ctx)
	if err == nil {
		err = s.checkModel(meta)
	}
	switch {
	case err == nil:
		return &loadedIndex{snapshot: snapshot, meta: meta}, nil
	case errors.Is(err, domain.ErrIndexAbsent) || errors.Is(err, domain.ErrInconsistentArtifacts):
		logger.Debug("No usable index: %v", err)
		return nil, nil
	default:
		return nil, fmt.Errorf("load index: %w", err)
	}
}

// checkModel rejects an index whose vectors came from a different model
// than the one that will embed queries.
func (s *IndexService) checkModel(meta driven.IndexMeta) error {
	if s.embedder == nil || meta.Model == "" {
		return nil
	}
	if want := s.embedder.ModelName(); meta.Model != want {
		return fmt.Errorf("%w: index built with %s, embedder is %s",
			domain.ErrInconsistentArtifacts, meta.Model, want)
	}
	return nil
}

// Clear removes the persisted index and drops the live snapshot.
func (s *IndexService) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear index: %w", err)
	}
	s.live.Store(nil)
	logger.Info("Index cleared")
	return nil
}

package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/busrag/internal/core/domain"
	"github.com/custodia-labs/busrag/internal/core/ports/driven"
)

// Ensure IndexStore implements the interface.
var _ driven.IndexStore = (*IndexStore)(nil)

// IndexStore is an in-memory implementation of driven.IndexStore for testing.
// The pair is held as one value so it can never be half-written.
type IndexStore struct {
	mu       sync.RWMutex
	snapshot *domain.Snapshot
	meta     driven.IndexMeta
	saves    int

	// SaveErr, when set, is returned by Save without touching the stored pair.
	SaveErr error
}

// NewIndexStore creates a new in-memory index store.
func NewIndexStore() *IndexStore {
	return &IndexStore{}
}

// State reports Present once a snapshot has been saved.
func (s *IndexStore) State(_ context.Context) (domain.IndexState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snapshot == nil {
		return domain.IndexStateAbsent, nil
	}
	return domain.IndexStatePresent, nil
}

// Meta returns the stored metadata.
func (s *IndexStore) Meta(_ context.Context) (driven.IndexMeta, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snapshot == nil {
		return driven.IndexMeta{}, domain.ErrIndexAbsent
	}
	return s.describe(), nil
}

// Load returns the stored snapshot.
func (s *IndexStore) Load(_ context.Context) (*domain.Snapshot, driven.IndexMeta, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snapshot == nil {
		return nil, driven.IndexMeta{}, domain.ErrIndexAbsent
	}
	return s.snapshot, s.describe(), nil
}

func (s *IndexStore) describe() driven.IndexMeta {
	m := s.meta
	m.Documents = s.snapshot.Len()
	m.Dimension = s.snapshot.Dimension()
	return m
}

// Save replaces the stored snapshot.
func (s *IndexStore) Save(_ context.Context, snapshot *domain.Snapshot, meta driven.IndexMeta) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.SaveErr != nil {
		return s.SaveErr
	}
	if snapshot.Len() == 0 {
		return domain.ErrEmptyCorpus
	}
	s.snapshot = snapshot
	s.meta = meta
	s.saves++
	return nil
}

// Clear removes the stored snapshot.
func (s *IndexStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = nil
	s.meta = driven.IndexMeta{}
	return nil
}

// Saves returns how many times Save succeeded.
func (s *IndexStore) Saves() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saves
}

package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/busrag/internal/core/domain"
	"github.com/custodia-labs/busrag/internal/core/ports/driven"
	"github.com/custodia-labs/busrag/internal/core/ports/driving"
	"github.com/custodia-labs/busrag/internal/logger"
)

// Ensure RetrievalService implements the interface.
var _ driving.RetrievalService = (*RetrievalService)(nil)

// RetrievalService embeds a query and searches the live snapshot.
type RetrievalService struct {
	index    driving.IndexService
	embedder driven.EmbeddingService
}

// NewRetrievalService creates a new retrieval service.
func NewRetrievalService(index driving.IndexService, embedder driven.EmbeddingService) *RetrievalService {
	return &RetrievalService{
		index:    index,
		embedder: embedder,
	}
}

// Retrieve returns up to k passages nearest to the query.
func (s *RetrievalService) Retrieve(ctx context.Context, query string, k int) ([]domain.RetrievalResult, error) {
	logger.Section("Retrieval")
	logger.Debug("Query: %q, k=%d", query, k)

	if strings.TrimSpace(query) == "" || k <= 0 {
		return []domain.RetrievalResult{}, nil
	}

	snapshot, err := s.index.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	if snapshot == nil {
		logger.Debug("No index loaded, returning no results")
		return []domain.RetrievalResult{}, nil
	}

	if s.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}
	vector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrEmbeddingFailure, err)
	}

	results, err := snapshot.Search(vector, k)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	logger.Debug("Retrieved %d of %d documents", len(results), snapshot.Len())
	return results, nil
}

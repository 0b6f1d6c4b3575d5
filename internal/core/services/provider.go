package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/custodia-labs/busrag/internal/core/domain"
	"github.com/custodia-labs/busrag/internal/core/ports/driven"
	"github.com/custodia-labs/busrag/internal/core/ports/driving"
	"github.com/custodia-labs/busrag/internal/logger"
)

// Ensure ProviderService implements the interface.
var _ driving.ProviderService = (*ProviderService)(nil)

// ProviderService looks up provider details.
type ProviderService struct {
	retrieval driving.RetrievalService
	corpus    driven.CorpusSource
}

// NewProviderService creates a new provider service.
func NewProviderService(retrieval driving.RetrievalService, corpus driven.CorpusSource) *ProviderService {
	return &ProviderService{
		retrieval: retrieval,
		corpus:    corpus,
	}
}

// Lookup tries retrieval for "provider <name>" first and falls back to
// reading <name>.txt from the provider files.
func (s *ProviderService) Lookup(ctx context.Context, name string, k int) (*domain.ProviderInfo, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: provider name is required", domain.ErrInvalidInput)
	}

	results, err := s.retrieval.Retrieve(ctx, "provider "+name, k)
	if err != nil {
		return nil, err
	}
	if len(results) > 0 {
		logger.Debug("Provider %q answered by retrieval (%d results)", name, len(results))
		return &domain.ProviderInfo{
			Provider: name,
			Tier:     domain.LookupTierSemantic,
			Results:  results,
		}, nil
	}

	text, err := s.corpus.ReadProviderFile(ctx, name+".txt")
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("%w: no details for provider %q", domain.ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("read provider file: %w", err)
	}

	logger.Debug("Provider %q answered from its file", name)
	return &domain.ProviderInfo{
		Provider: name,
		Tier:     domain.LookupTierFile,
		Text:     text,
	}, nil
}

// Providers lists provider names from the corpus description.
func (s *ProviderService) Providers(ctx context.Context) ([]string, error) {
	desc, err := s.corpus.LoadDescription(ctx)
	if err != nil {
		return nil, fmt.Errorf("load corpus description: %w", err)
	}
	names := desc.ProviderNames()
	if names == nil {
		names = []string{}
	}
	return names, nil
}

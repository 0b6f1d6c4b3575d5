package driving

import (
	"context"

	"github.com/custodia-labs/busrag/internal/core/domain"
)

// RetrievalService finds passages relevant to a query.
type RetrievalService interface {
	// Retrieve returns up to k passages ordered by ascending distance.
	// Returns an empty result when no index exists.
	Retrieve(ctx context.Context, query string, k int) ([]domain.RetrievalResult, error)
}

// AnswerService produces answers grounded in retrieved passages.
type AnswerService interface {
	// Synthesize generates an answer from the given passages.
	// Returns domain.ErrNoGroundingData when passages is empty.
	Synthesize(ctx context.Context, question string, passages []domain.RetrievalResult) (*domain.Answer, error)

	// Ask retrieves k passages for the question and synthesizes an answer.
	Ask(ctx context.Context, question string, k int) (*domain.Answer, error)
}

// ProviderService answers questions about a single provider.
type ProviderService interface {
	// Lookup finds information about a provider, trying retrieval first and
	// the provider's text file second.
	Lookup(ctx context.Context, name string, k int) (*domain.ProviderInfo, error)

	// Providers lists provider names from the corpus description.
	Providers(ctx context.Context) ([]string, error)
}

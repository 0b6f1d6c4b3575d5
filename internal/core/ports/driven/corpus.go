package driven

import (
	"context"

	"github.com/custodia-labs/busrag/internal/core/domain"
)

// CorpusSource reads the raw corpus: a structured description of providers
// and routes plus a directory of free-text provider files.
type CorpusSource interface {
	// LoadDescription reads the structured description.
	// A missing description yields an empty description, not an error.
	LoadDescription(ctx context.Context) (*domain.CorpusDescription, error)

	// ProviderFiles returns every provider file sorted by filename.
	// A missing directory yields no files, not an error.
	ProviderFiles(ctx context.Context) ([]domain.ProviderFile, error)

	// ReadProviderFile reads one provider file by filename.
	// Returns domain.ErrNotFound if it does not exist.
	ReadProviderFile(ctx context.Context, filename string) (string, error)

	// Paths returns the filesystem locations the source reads from.
	// Used by watchers to observe changes.
	Paths() []string
}

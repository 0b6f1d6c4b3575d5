package driving

import (
	"context"

	"github.com/custodia-labs/busrag/internal/core/domain"
)

// IndexService owns the vector index lifecycle.
type IndexService interface {
	// State reports whether a usable persisted index exists.
	State(ctx context.Context) (domain.IndexState, error)

	// Status reports persisted state plus details of the loaded snapshot.
	Status(ctx context.Context) (*domain.IndexStatus, error)

	// EnsureBuilt builds and persists an index only when none is usable.
	EnsureBuilt(ctx context.Context) (*domain.BuildReport, error)

	// Rebuild unconditionally rebuilds from the current corpus.
	Rebuild(ctx context.Context) (*domain.BuildReport, error)

	// Load reads the persisted index into memory.
	// Returns nil without error when no usable index exists.
	Load(ctx context.Context) (*domain.Snapshot, error)

	// Snapshot returns the current snapshot, loading it on first use.
	// Returns nil without error when no index exists.
	Snapshot(ctx context.Context) (*domain.Snapshot, error)

	// Clear removes the persisted and in-memory index.
	Clear(ctx context.Context) error
}

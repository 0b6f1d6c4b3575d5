package driven

import (
	"context"

	"github.com/custodia-labs/busrag/internal/core/domain"
)

// IndexMeta is stored alongside a persisted snapshot.
type IndexMeta struct {
	// Model is the embedding model that produced the vectors.
	Model string

	// Documents and Dimension describe the stored pair. Stores fill them on read.
	Documents int
	Dimension int
}

// IndexStore persists a vector index and its metadata as a single pair.
// Implementations must never expose a pair where one half comes from an
// earlier save than the other.
type IndexStore interface {
	// State reports whether a consistent pair exists.
	// A lone artifact or a disagreeing pair is reported as Absent.
	State(ctx context.Context) (domain.IndexState, error)

	// Meta reads the metadata of a consistent pair without decoding vectors.
	// Errors as Load.
	Meta(ctx context.Context) (IndexMeta, error)

	// Load reads the pair and rebuilds the snapshot.
	// Returns domain.ErrIndexAbsent when nothing is stored and
	// domain.ErrInconsistentArtifacts when the pair disagrees.
	Load(ctx context.Context) (*domain.Snapshot, IndexMeta, error)

	// Save atomically replaces the stored pair.
	// On failure the previous pair remains readable.
	Save(ctx context.Context, snapshot *domain.Snapshot, meta IndexMeta) error

	// Clear removes any stored pair.
	Clear(ctx context.Context) error
}

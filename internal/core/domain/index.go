package domain

import "time"

// IndexState describes whether a usable persisted index exists.
type IndexState string

// Available index states.
const (
	// IndexStateAbsent means no index, a lone artifact, or an inconsistent pair.
	IndexStateAbsent IndexState = "absent"

	// IndexStatePresent means a consistent index and metadata pair exists.
	IndexStatePresent IndexState = "present"
)

// String returns the string representation.
func (s IndexState) String() string {
	return string(s)
}

// BuildOutcome is the result kind of an index build request.
type BuildOutcome string

// Available build outcomes.
const (
	// BuildOutcomeBuilt means a new index was built and persisted.
	BuildOutcomeBuilt BuildOutcome = "built"

	// BuildOutcomeAlreadyPresent means a usable index already existed.
	BuildOutcomeAlreadyPresent BuildOutcome = "already_present"

	// BuildOutcomeNoData means the corpus was empty and nothing was written.
	BuildOutcomeNoData BuildOutcome = "no_data"
)

// String returns the string representation.
func (o BuildOutcome) String() string {
	return string(o)
}

// BuildReport summarises an index build request.
type BuildReport struct {
	// Outcome is what happened.
	Outcome BuildOutcome

	// Documents is the number of indexed units.
	Documents int

	// Dimension is the vector length of the index.
	Dimension int

	// Duration is how long the request took.
	Duration time.Duration
}

// IndexStatus describes the persisted and in-memory index.
type IndexStatus struct {
	// State is the persisted state.
	State IndexState

	// Loaded reports whether a snapshot is held in memory.
	Loaded bool

	// Documents is the number of documents in the loaded snapshot.
	Documents int

	// Dimension is the vector length of the loaded snapshot.
	Dimension int

	// Model is the embedding model recorded with the persisted index.
	Model string
}

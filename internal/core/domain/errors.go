package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	// Answer synthesis is disabled without it.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// Vector Index Errors.

	// ErrDimensionMismatch indicates vectors (or a query) of differing lengths.
	// Returned wrapped in a *DimensionError.
	ErrDimensionMismatch = errors.New("dimension mismatch")

	// ErrEmptyCorpus indicates an index build was attempted with no documents.
	ErrEmptyCorpus = errors.New("empty corpus")

	// ErrNoDataToIndex indicates the canonicalised corpus produced no units.
	// Callers treat it as an outcome, not a failure.
	ErrNoDataToIndex = errors.New("no data to index")

	// ErrInconsistentArtifacts indicates the persisted index and metadata disagree
	// or only one of them exists.
	ErrInconsistentArtifacts = errors.New("inconsistent index artifacts")

	// ErrIndexAbsent indicates no usable persisted index exists.
	ErrIndexAbsent = errors.New("index absent")

	// Pipeline Errors.

	// ErrEmbeddingFailure indicates the embedding provider failed to produce vectors.
	ErrEmbeddingFailure = errors.New("embedding failure")

	// ErrGenerationFailure indicates the text generator failed.
	ErrGenerationFailure = errors.New("generation failure")

	// ErrNoGroundingData indicates synthesis was requested with no passages.
	ErrNoGroundingData = errors.New("no grounding data")
)

// DimensionError describes a vector whose length disagrees with the index.
// Position is the ordinal of the offending vector, or -1 for a query.
type DimensionError struct {
	Expected int
	Got      int
	Position int
}

// Error implements the error interface.
func (e *DimensionError) Error() string {
	if e.Position < 0 {
		return fmt.Sprintf("dimension mismatch: query has %d, index has %d", e.Got, e.Expected)
	}
	return fmt.Sprintf("dimension mismatch: vector %d has %d, expected %d", e.Position, e.Got, e.Expected)
}

// Unwrap allows errors.Is(err, ErrDimensionMismatch).
func (e *DimensionError) Unwrap() error {
	return ErrDimensionMismatch
}

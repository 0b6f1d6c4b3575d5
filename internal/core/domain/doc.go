// Package domain defines the core business entities for busrag.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - DocumentUnit: A retrievable passage (one route or one provider file)
//   - Snapshot: An immutable, exactly searchable vector index
//   - RetrievalResult: A ranked passage with its squared L2 distance
//   - Answer: A generated answer grounded in retrieved passages
//   - Booking: A seat reservation request
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain

// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The index service owns the vector index lifecycle. Retrieval, answer
// synthesis and provider lookup read the live snapshot it serves.
// Bookings are independent of the index.
//
// Services are pure Go with no CGO or external dependencies.
package services

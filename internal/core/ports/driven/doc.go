// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - CorpusSource: Reads the corpus description and provider files
//   - EmbeddingService: Turns passages and queries into vectors
//   - IndexStore: Persists the vector index and its metadata as one pair
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - LLMService: Text generation. Without it, answer synthesis is disabled.
//   - BookingStore: Reservation persistence. Without it, booking commands are disabled.
//   - PromptStore: User-editable answer template. Without it, the built-in template is used.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven

package domain

// RetrievalResult represents a single ranked passage.
type RetrievalResult struct {
	// ID is the document unit identifier.
	ID string `json:"id"`

	// Text is the passage text.
	Text string `json:"text"`

	// Distance is the squared Euclidean distance to the query. Lower is closer.
	Distance float64 `json:"distance"`
}

// Answer is a generated answer with the passages it was grounded in.
type Answer struct {
	// Question is the question as asked.
	Question string `json:"question"`

	// Text is the raw generator output.
	Text string `json:"answer"`

	// Sources are the passages supplied to the generator, in order.
	Sources []RetrievalResult `json:"sources"`
}

// LookupTier records how a provider lookup was satisfied.
type LookupTier string

// Available lookup tiers.
const (
	// LookupTierSemantic means the answer came from vector retrieval.
	LookupTierSemantic LookupTier = "semantic"

	// LookupTierFile means the answer came from reading the provider file directly.
	LookupTierFile LookupTier = "file"
)

// ProviderInfo is the result of a provider lookup.
type ProviderInfo struct {
	// Provider is the name that was looked up.
	Provider string `json:"provider"`

	// Tier is the lookup path that produced the result.
	Tier LookupTier `json:"tier"`

	// Results holds the retrieved passages when Tier is semantic.
	Results []RetrievalResult `json:"results,omitempty"`

	// Text holds the provider file content when Tier is file.
	Text string `json:"text,omitempty"`
}

package domain

const unknownDescription = "Unknown"

// AIProvider identifies an AI service provider for embeddings or LLM.
type AIProvider string

// Available AI providers.
const (
	// AIProviderLocal is the built-in offline hashing embedder.
	AIProviderLocal AIProvider = "local"

	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderLocal, AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderAnthropic
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama || p == AIProviderLocal
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderLocal:
		return "Local (built-in hashing embedder)"
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	default:
		return unknownDescription
	}
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint (for Ollama).
	BaseURL string

	// APIKey is the API key (for OpenAI).
	APIKey string

	// Dimensions is the vector size of the local embedder.
	Dimensions int

	// RequestsPerSecond bounds calls to a remote provider. Zero means unlimited.
	RequestsPerSecond float64
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() || e.Provider == AIProviderAnthropic {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// LLMSettings holds LLM provider configuration.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the LLM model name.
	Model string

	// BaseURL is the API endpoint (for Ollama).
	BaseURL string

	// APIKey is the API key (for OpenAI/Anthropic).
	APIKey string

	// MaxTokens bounds the generated answer length.
	MaxTokens int
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() || l.Provider == AIProviderLocal {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// VectorPrecision defines the storage precision for persisted vectors.
type VectorPrecision string

// Available vector precision options.
const (
	// VectorPrecisionFloat32 stores vectors at full 32-bit precision.
	VectorPrecisionFloat32 VectorPrecision = "float32"

	// VectorPrecisionFloat16 stores vectors at 16-bit half precision (50% storage savings).
	VectorPrecisionFloat16 VectorPrecision = "float16"
)

// IsValid returns true if the precision is recognised.
func (p VectorPrecision) IsValid() bool {
	switch p {
	case VectorPrecisionFloat32, VectorPrecisionFloat16:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (p VectorPrecision) String() string {
	return string(p)
}

// Description returns a human-readable description of the precision.
func (p VectorPrecision) Description() string {
	switch p {
	case VectorPrecisionFloat32:
		return "Float32 (full precision, exact round-trip)"
	case VectorPrecisionFloat16:
		return "Float16 (half precision, 50% savings)"
	default:
		return unknownDescription
	}
}

// VectorIndexSettings holds vector index configuration.
type VectorIndexSettings struct {
	// Precision is the storage precision for persisted vectors.
	Precision VectorPrecision
}

// RetrievalSettings holds the default result counts per use.
type RetrievalSettings struct {
	// SearchK is the result count for plain search.
	SearchK int

	// AskK is the passage count supplied to answer synthesis.
	AskK int

	// ProviderK is the result count for provider lookups.
	ProviderK int
}

// PathSettings holds filesystem locations.
type PathSettings struct {
	// DataDir holds the corpus description, provider_texts/ and the bookings database.
	DataDir string

	// IndexDir holds the persisted vector index.
	IndexDir string
}

// AppSettings holds all application settings.
type AppSettings struct {
	// Embedding holds embedding provider settings.
	Embedding EmbeddingSettings

	// LLM holds LLM provider settings.
	LLM LLMSettings

	// VectorIndex holds vector index settings.
	VectorIndex VectorIndexSettings

	// Retrieval holds result-count defaults.
	Retrieval RetrievalSettings

	// Paths holds filesystem locations. Empty IndexDir resolves under the config dir.
	Paths PathSettings
}

// Default values.
const (
	DefaultSearchK         = 5
	DefaultAskK            = 4
	DefaultProviderK       = 3
	DefaultMaxTokens       = 200
	DefaultLocalDimensions = 384
	DefaultDataDir         = "data"
)

// DefaultAppSettings returns settings with sensible defaults.
// Embeddings use the built-in local embedder so indexing works offline.
// The LLM is left unconfigured; answer synthesis needs one to be set.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Embedding: EmbeddingSettings{
			Provider:   AIProviderLocal,
			Model:      DefaultEmbeddingModels()[AIProviderLocal],
			Dimensions: DefaultLocalDimensions,
		},
		// LLM is left unconfigured - user must set it via settings set
		LLM: LLMSettings{
			MaxTokens: DefaultMaxTokens,
		},
		VectorIndex: VectorIndexSettings{
			Precision: VectorPrecisionFloat32,
		},
		Retrieval: RetrievalSettings{
			SearchK:   DefaultSearchK,
			AskK:      DefaultAskK,
			ProviderK: DefaultProviderK,
		},
		Paths: PathSettings{
			DataDir: DefaultDataDir,
		},
	}
}

// AllEmbeddingProviders returns providers that support embeddings.
func AllEmbeddingProviders() []AIProvider {
	return []AIProvider{
		AIProviderLocal,
		AIProviderOllama,
		AIProviderOpenAI,
	}
}

// AllLLMProviders returns providers that support LLM operations.
func AllLLMProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
		AIProviderAnthropic,
	}
}

// DefaultEmbeddingModels returns default models for each embedding provider.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderLocal:  "hashing-v1",
		AIProviderOllama: "nomic-embed-text",
		AIProviderOpenAI: "text-embedding-3-small",
	}
}

// DefaultLLMModels returns default models for each LLM provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama:    "llama3.2",
		AIProviderOpenAI:    "gpt-4o-mini",
		AIProviderAnthropic: "claude-3-5-sonnet-latest",
	}
}

// EmbeddingDimensions returns the vector dimensions for known models.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		// Ollama models
		"nomic-embed-text":  768,
		"mxbai-embed-large": 1024,
		"all-minilm":        384,
		// OpenAI models
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
	}
}

// AllVectorPrecisions returns all available vector precision options.
func AllVectorPrecisions() []VectorPrecision {
	return []VectorPrecision{
		VectorPrecisionFloat32,
		VectorPrecisionFloat16,
	}
}

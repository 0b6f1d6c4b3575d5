package driven

import "github.com/custodia-labs/busrag/internal/core/domain"

// AIConfigValidator checks provider settings by contacting the provider.
// Unconfigured settings validate as nil.
type AIConfigValidator interface {
	ValidateEmbedding(config *domain.EmbeddingSettings) error
	ValidateLLM(config *domain.LLMSettings) error
}

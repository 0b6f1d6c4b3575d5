package ai

import (
	"github.com/custodia-labs/busrag/internal/core/domain"
	"github.com/custodia-labs/busrag/internal/core/ports/driven"
)

var _ driven.AIConfigValidator = ConfigValidator{}

// ConfigValidator lets "busrag settings validate" reach the providers
// without the settings service importing any adapter.
type ConfigValidator struct{}

// NewConfigValidator returns a validator backed by ValidateEmbeddingConfig
// and ValidateLLMConfig.
func NewConfigValidator() ConfigValidator {
	return ConfigValidator{}
}

func (ConfigValidator) ValidateEmbedding(config *domain.EmbeddingSettings) error {
	return ValidateEmbeddingConfig(config)
}

func (ConfigValidator) ValidateLLM(config *domain.LLMSettings) error {
	return ValidateLLMConfig(config)
}

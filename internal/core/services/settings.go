package services

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/custodia-labs/busrag/internal/core/domain"
	"github.com/custodia-labs/busrag/internal/core/ports/driven"
	"github.com/custodia-labs/busrag/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyDataDir         = "paths.data_dir"
	keyIndexDir        = "paths.index_dir"
	keyEmbedProvider   = "embedding.provider"
	keyEmbedModel      = "embedding.model"
	keyEmbedBaseURL    = "embedding.base_url"
	keyEmbedAPIKey     = "embedding.api_key"
	keyEmbedDims       = "embedding.dimensions"
	keyEmbedRPS        = "embedding.requests_per_second"
	keyLLMProvider     = "llm.provider"
	keyLLMModel        = "llm.model"
	keyLLMBaseURL      = "llm.base_url"
	keyLLMAPIKey       = "llm.api_key"
	keyLLMMaxTokens    = "llm.max_tokens"
	keyVectorPrecision = "vector_index.precision"
	keySearchK         = "retrieval.search_k"
	keyAskK            = "retrieval.ask_k"
	keyProviderK       = "retrieval.provider_k"
)

// Environment variables consulted when no API key is configured.
//
//nolint:gosec // G101: These are variable names, not credentials.
const (
	EnvOpenAIAPIKey    = "OPENAI_API_KEY"
	EnvAnthropicAPIKey = "ANTHROPIC_API_KEY"
)

type valueKind int

const (
	kindString valueKind = iota
	kindInt
	kindFloat
	kindEmbeddingProvider
	kindLLMProvider
	kindPrecision
)

// settingKeys lists every settable key in display order.
var settingKeys = []struct {
	name string
	kind valueKind
}{
	{keyDataDir, kindString},
	{keyIndexDir, kindString},
	{keyEmbedProvider, kindEmbeddingProvider},
	{keyEmbedModel, kindString},
	{keyEmbedBaseURL, kindString},
	{keyEmbedAPIKey, kindString},
	{keyEmbedDims, kindInt},
	{keyEmbedRPS, kindFloat},
	{keyLLMProvider, kindLLMProvider},
	{keyLLMModel, kindString},
	{keyLLMBaseURL, kindString},
	{keyLLMAPIKey, kindString},
	{keyLLMMaxTokens, kindInt},
	{keyVectorPrecision, kindPrecision},
	{keySearchK, kindInt},
	{keyAskK, kindInt},
	{keyProviderK, kindInt},
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
	getenv      func(string) string
}

// NewSettingsService creates a new settings service.
// aiValidator is optional; when nil, Validate skips connectivity checks.
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
		getenv:      os.Getenv,
	}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	embedProvider := s.getProvider(keyEmbedProvider, defaults.Embedding.Provider)
	llmProvider := s.getProvider(keyLLMProvider, defaults.LLM.Provider)

	settings := &domain.AppSettings{
		Embedding: domain.EmbeddingSettings{
			Provider:          embedProvider,
			Model:             s.getString(keyEmbedModel, domain.DefaultEmbeddingModels()[embedProvider]),
			BaseURL:           s.configStore.GetString(keyEmbedBaseURL), // No default - adapters pick their own
			APIKey:            s.apiKey(keyEmbedAPIKey, embedProvider),
			Dimensions:        s.getInt(keyEmbedDims, defaults.Embedding.Dimensions),
			RequestsPerSecond: s.configStore.GetFloat(keyEmbedRPS),
		},
		LLM: domain.LLMSettings{
			Provider:  llmProvider,
			Model:     s.getString(keyLLMModel, domain.DefaultLLMModels()[llmProvider]),
			BaseURL:   s.configStore.GetString(keyLLMBaseURL),
			APIKey:    s.apiKey(keyLLMAPIKey, llmProvider),
			MaxTokens: s.getInt(keyLLMMaxTokens, defaults.LLM.MaxTokens),
		},
		VectorIndex: domain.VectorIndexSettings{
			Precision: s.getVectorPrecision(defaults.VectorIndex.Precision),
		},
		Retrieval: domain.RetrievalSettings{
			SearchK:   s.getInt(keySearchK, defaults.Retrieval.SearchK),
			AskK:      s.getInt(keyAskK, defaults.Retrieval.AskK),
			ProviderK: s.getInt(keyProviderK, defaults.Retrieval.ProviderK),
		},
		Paths: domain.PathSettings{
			DataDir:  s.getString(keyDataDir, defaults.Paths.DataDir),
			IndexDir: s.configStore.GetString(keyIndexDir),
		},
	}

	return settings, nil
}

// Save persists application settings.
// API keys are only written when set, so environment-provided keys never reach disk.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	values := []struct {
		key   string
		value any
	}{
		{keyDataDir, settings.Paths.DataDir},
		{keyIndexDir, settings.Paths.IndexDir},
		{keyEmbedProvider, settings.Embedding.Provider.String()},
		{keyEmbedModel, settings.Embedding.Model},
		{keyEmbedBaseURL, settings.Embedding.BaseURL},
		{keyEmbedDims, settings.Embedding.Dimensions},
		{keyEmbedRPS, settings.Embedding.RequestsPerSecond},
		{keyLLMProvider, settings.LLM.Provider.String()},
		{keyLLMModel, settings.LLM.Model},
		{keyLLMBaseURL, settings.LLM.BaseURL},
		{keyLLMMaxTokens, settings.LLM.MaxTokens},
		{keyVectorPrecision, settings.VectorIndex.Precision.String()},
		{keySearchK, settings.Retrieval.SearchK},
		{keyAskK, settings.Retrieval.AskK},
		{keyProviderK, settings.Retrieval.ProviderK},
	}
	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}

	if settings.Embedding.APIKey != "" && settings.Embedding.APIKey != s.envKey(settings.Embedding.Provider) {
		if err := s.configStore.Set(keyEmbedAPIKey, settings.Embedding.APIKey); err != nil {
			return fmt.Errorf("save %s: %w", keyEmbedAPIKey, err)
		}
	}
	if settings.LLM.APIKey != "" && settings.LLM.APIKey != s.envKey(settings.LLM.Provider) {
		if err := s.configStore.Set(keyLLMAPIKey, settings.LLM.APIKey); err != nil {
			return fmt.Errorf("save %s: %w", keyLLMAPIKey, err)
		}
	}

	return nil
}

// Set parses value for key and stores it.
// Changing a provider also resets its model to that provider's default.
func (s *SettingsService) Set(key, value string) error {
	value = strings.TrimSpace(value)

	for _, k := range settingKeys {
		if k.name != key {
			continue
		}

		switch k.kind {
		case kindString:
			return s.configStore.Set(key, value)

		case kindInt:
			n, err := strconv.Atoi(value)
			if err != nil || n < 0 {
				return fmt.Errorf("%w: %s must be a non-negative integer", domain.ErrInvalidInput, key)
			}
			return s.configStore.Set(key, n)

		case kindFloat:
			f, err := strconv.ParseFloat(value, 64)
			if err != nil || f < 0 {
				return fmt.Errorf("%w: %s must be a non-negative number", domain.ErrInvalidInput, key)
			}
			return s.configStore.Set(key, f)

		case kindEmbeddingProvider:
			return s.setProvider(key, keyEmbedModel, value, domain.AllEmbeddingProviders(), domain.DefaultEmbeddingModels())

		case kindLLMProvider:
			return s.setProvider(key, keyLLMModel, value, domain.AllLLMProviders(), domain.DefaultLLMModels())

		case kindPrecision:
			p := domain.VectorPrecision(value)
			if !p.IsValid() {
				return fmt.Errorf("%w: %s must be one of %v", domain.ErrInvalidInput, key, domain.AllVectorPrecisions())
			}
			return s.configStore.Set(key, p.String())
		}
	}

	return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
}

func (s *SettingsService) setProvider(
	key, modelKey, value string, allowed []domain.AIProvider, models map[domain.AIProvider]string,
) error {
	provider := domain.AIProvider(value)
	supported := false
	for _, p := range allowed {
		if p == provider {
			supported = true
			break
		}
	}
	if !supported {
		return fmt.Errorf("%w: %s must be one of %v", domain.ErrInvalidInput, key, allowed)
	}

	if err := s.configStore.Set(key, provider.String()); err != nil {
		return err
	}
	return s.configStore.Set(modelKey, models[provider])
}

// Keys returns every settable key in display order.
func (s *SettingsService) Keys() []string {
	keys := make([]string, len(settingKeys))
	for i, k := range settingKeys {
		keys[i] = k.name
	}
	return keys
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// Validate checks that the current settings are usable.
// Embedding must be configured; an LLM is checked only when one is set.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	if !settings.Embedding.IsConfigured() {
		return fmt.Errorf("%w: embedding provider %q is not configured",
			domain.ErrEmbeddingUnavailable, settings.Embedding.Provider)
	}
	if settings.Retrieval.SearchK <= 0 || settings.Retrieval.AskK <= 0 || settings.Retrieval.ProviderK <= 0 {
		return fmt.Errorf("%w: retrieval counts must be positive", domain.ErrInvalidInput)
	}
	if !settings.VectorIndex.Precision.IsValid() {
		return fmt.Errorf("%w: invalid vector precision %q", domain.ErrInvalidInput, settings.VectorIndex.Precision)
	}

	if s.aiValidator == nil {
		return nil
	}
	if err := s.aiValidator.ValidateEmbedding(&settings.Embedding); err != nil {
		return err
	}
	if settings.LLM.IsConfigured() {
		return s.aiValidator.ValidateLLM(&settings.LLM)
	}
	return nil
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getProvider(key string, defaultVal domain.AIProvider) domain.AIProvider {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	provider := domain.AIProvider(val)
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}

func (s *SettingsService) getVectorPrecision(defaultVal domain.VectorPrecision) domain.VectorPrecision {
	val := s.configStore.GetString(keyVectorPrecision)
	if val == "" {
		return defaultVal
	}
	precision := domain.VectorPrecision(val)
	if !precision.IsValid() {
		return defaultVal
	}
	return precision
}

// apiKey returns the configured key, falling back to the provider's environment variable.
func (s *SettingsService) apiKey(key string, provider domain.AIProvider) string {
	if val := s.configStore.GetString(key); val != "" {
		return val
	}
	return s.envKey(provider)
}

func (s *SettingsService) envKey(provider domain.AIProvider) string {
	switch provider {
	case domain.AIProviderOpenAI:
		return s.getenv(EnvOpenAIAPIKey)
	case domain.AIProviderAnthropic:
		return s.getenv(EnvAnthropicAPIKey)
	default:
		return ""
	}
}

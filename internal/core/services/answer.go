package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/busrag/internal/core/domain"
	"github.com/custodia-labs/busrag/internal/core/ports/driven"
	"github.com/custodia-labs/busrag/internal/core/ports/driving"
	"github.com/custodia-labs/busrag/internal/logger"
)

// Ensure AnswerService implements the interface.
var (
	_ driving.AnswerService   = (*AnswerService)(nil)
	_ driven.PromptStoreAware = (*AnswerService)(nil)
)

// AnswerService generates answers grounded in retrieved passages.
type AnswerService struct {
	retrieval driving.RetrievalService
	llm       driven.LLMService
	prompts   driven.PromptStore
	maxTokens int
}

// NewAnswerService creates a new answer service.
// llm may be nil, in which case every answer fails with domain.ErrLLMUnavailable.
func NewAnswerService(retrieval driving.RetrievalService, llm driven.LLMService, maxTokens int) *AnswerService {
	if maxTokens <= 0 {
		maxTokens = domain.DefaultMaxTokens
	}
	return &AnswerService{
		retrieval: retrieval,
		llm:       llm,
		maxTokens: maxTokens,
	}
}

// SetPromptStore lets the answer template be overridden from disk.
func (s *AnswerService) SetPromptStore(store driven.PromptStore) {
	s.prompts = store
}

// BuildPrompt renders the default generation prompt for a question and its passages.
func BuildPrompt(question string, passages []domain.RetrievalResult) string {
	return renderPrompt(driven.DefaultAnswerPrompt, question, passages)
}

// renderPrompt fills template with the question and the passages, each
// followed by a separator line.
func renderPrompt(template, question string, passages []domain.RetrievalResult) string {
	var b strings.Builder
	for _, p := range passages {
		b.WriteString(p.Text)
		b.WriteString("\n---\n")
	}
	return fmt.Sprintf(template, question, b.String())
}

func (s *AnswerService) template() string {
	if s.prompts == nil {
		return driven.DefaultAnswerPrompt
	}
	tmpl, err := s.prompts.Load(driven.PromptAnswer)
	if err != nil {
		logger.Warn("Answer prompt unavailable, using default: %v", err)
		return driven.DefaultAnswerPrompt
	}
	return tmpl
}

// Synthesize makes one generation call over the given passages.
func (s *AnswerService) Synthesize(
	ctx context.Context, question string, passages []domain.RetrievalResult,
) (*domain.Answer, error) {
	logger.Section("Answer Synthesis")

	if len(passages) == 0 {
		return nil, domain.ErrNoGroundingData
	}
	if s.llm == nil {
		return nil, domain.ErrLLMUnavailable
	}

	prompt := renderPrompt(s.template(), question, passages)
	logger.Debug("Prompt: %d passages, %d bytes, model %s", len(passages), len(prompt), s.llm.ModelName())

	text, err := s.llm.Generate(ctx, prompt, driven.GenerateOptions{MaxTokens: s.maxTokens})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrGenerationFailure, err)
	}

	return &domain.Answer{
		Question: question,
		Text:     text,
		Sources:  passages,
	}, nil
}

// Ask retrieves k passages and synthesizes an answer from them.
func (s *AnswerService) Ask(ctx context.Context, question string, k int) (*domain.Answer, error) {
	passages, err := s.retrieval.Retrieve(ctx, question, k)
	if err != nil {
		return nil, fmt.Errorf("retrieve: %w", err)
	}
	return s.Synthesize(ctx, question, passages)
}

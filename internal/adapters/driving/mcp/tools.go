package mcp

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/busrag/internal/core/domain"
)

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Query string `json:"query" jsonschema:"free-text query, e.g. Dhaka to Rajshahi"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of passages to return (default 5)"`
}

// SearchOutput is the output schema for the search tool.
type SearchOutput struct {
	Results []PassageOutput `json:"results"`
	Count   int             `json:"count"`
}

// PassageOutput is a single retrieved passage.
type PassageOutput struct {
	ID       string  `json:"id"`
	Text     string  `json:"text"`
	Distance float64 `json:"distance"`
}

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Question string `json:"question" jsonschema:"question about bus routes, fares or providers"`
	Limit    int    `json:"limit,omitempty" jsonschema:"number of passages to ground the answer in (default 4)"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Answer   string          `json:"answer"`
	Grounded bool            `json:"grounded"`
	Sources  []PassageOutput `json:"sources"`
}

// ProviderInput is the input schema for the provider_info tool.
type ProviderInput struct {
	Name  string `json:"name" jsonschema:"bus provider name, e.g. Greenline"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of passages (default 3)"`
}

// ProviderOutput is the output schema for the provider_info tool.
type ProviderOutput struct {
	Provider string          `json:"provider"`
	Found    bool            `json:"found"`
	Tier     string          `json:"tier,omitempty"`
	Results  []PassageOutput `json:"results,omitempty"`
	Text     string          `json:"text,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search",
		Description: "Find bus routes and provider details closest to a query",
	}, s.handleSearch)

	if s.ports.Answer != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "ask",
			Description: "Answer a question about bus routes using retrieved passages",
		}, s.handleAsk)
	}

	if s.ports.Provider != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "provider_info",
			Description: "Look up details about a bus provider",
		}, s.handleProviderInfo)
	}
}

// handleSearch handles the search tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	if err := s.ensureIndex(ctx); err != nil {
		return nil, SearchOutput{}, err
	}

	limit := input.Limit
	if limit <= 0 {
		limit = s.resultCounts().SearchK
	}

	results, err := s.ports.Retrieval.Retrieve(ctx, input.Query, limit)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	return nil, SearchOutput{
		Results: toPassages(results),
		Count:   len(results),
	}, nil
}

// handleAsk handles the ask tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	if err := s.ensureIndex(ctx); err != nil {
		return nil, AskOutput{}, err
	}

	limit := input.Limit
	if limit <= 0 {
		limit = s.resultCounts().AskK
	}

	answer, err := s.ports.Answer.Ask(ctx, input.Question, limit)
	if errors.Is(err, domain.ErrNoGroundingData) {
		return nil, AskOutput{
			Answer:  "No data indexed to answer this question.",
			Sources: []PassageOutput{},
		}, nil
	}
	if err != nil {
		return nil, AskOutput{}, err
	}

	return nil, AskOutput{
		Answer:   answer.Text,
		Grounded: true,
		Sources:  toPassages(answer.Sources),
	}, nil
}

// handleProviderInfo handles the provider_info tool invocation.
func (s *Server) handleProviderInfo(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ProviderInput,
) (*mcp.CallToolResult, ProviderOutput, error) {
	if err := s.ensureIndex(ctx); err != nil {
		return nil, ProviderOutput{}, err
	}

	limit := input.Limit
	if limit <= 0 {
		limit = s.resultCounts().ProviderK
	}

	info, err := s.ports.Provider.Lookup(ctx, input.Name, limit)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, ProviderOutput{Provider: input.Name}, nil
	}
	if err != nil {
		return nil, ProviderOutput{}, err
	}

	out := ProviderOutput{
		Provider: info.Provider,
		Found:    true,
		Tier:     string(info.Tier),
		Text:     info.Text,
	}
	if len(info.Results) > 0 {
		out.Results = toPassages(info.Results)
	}
	return nil, out, nil
}

func toPassages(results []domain.RetrievalResult) []PassageOutput {
	out := make([]PassageOutput, len(results))
	for i, r := range results {
		out[i] = PassageOutput{ID: r.ID, Text: r.Text, Distance: r.Distance}
	}
	return out
}

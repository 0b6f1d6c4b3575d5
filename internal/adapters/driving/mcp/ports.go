package mcp

import (
	"github.com/custodia-labs/busrag/internal/core/ports/driving"
)

// Ports aggregates the driving ports used by the MCP server.
type Ports struct {
	// Retrieval backs the search tool. Required.
	Retrieval driving.RetrievalService

	// Answer backs the ask tool.
	Answer driving.AnswerService

	// Provider backs the provider_info tool and the providers resource.
	Provider driving.ProviderService

	// Index is used to build the index before the first query.
	Index driving.IndexService

	// Settings supplies per-tool result counts.
	Settings driving.SettingsService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Retrieval == nil {
		return ErrMissingRetrievalService
	}
	// Tools backed by a nil port are not registered.
	return nil
}

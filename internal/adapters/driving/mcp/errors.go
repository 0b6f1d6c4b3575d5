// Package mcp provides an MCP (Model Context Protocol) server adapter for busrag.
// It exposes route search, grounded answers and provider lookup as tools.
package mcp

import "errors"

// ErrMissingRetrievalService is returned when the retrieval service is not provided.
var ErrMissingRetrievalService = errors.New("mcp: retrieval service is required")

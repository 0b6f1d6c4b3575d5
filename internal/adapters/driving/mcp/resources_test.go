package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServer_handleProvidersResource(t *testing.T) {
	ctx := context.Background()
	req := &mcp.ReadResourceRequest{Params: &mcp.ReadResourceParams{URI: uriScheme + "providers"}}

	t.Run("returns provider names", func(t *testing.T) {
		provider := &mockProviderService{names: []string{"Greenline", "Hanif"}}
		server, err := NewServer(&Ports{Retrieval: &mockRetrievalService{}, Provider: provider})
		require.NoError(t, err)

		result, err := server.handleProvidersResource(ctx, req)

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "application/json", result.Contents[0].MIMEType)

		var names []string
		require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &names))
		assert.Equal(t, []string{"Greenline", "Hanif"}, names)
	})

	t.Run("returns error on failure", func(t *testing.T) {
		provider := &mockProviderService{err: errors.New("read failed")}
		server, err := NewServer(&Ports{Retrieval: &mockRetrievalService{}, Provider: provider})
		require.NoError(t, err)

		_, err = server.handleProvidersResource(ctx, req)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "listing providers")
	})
}

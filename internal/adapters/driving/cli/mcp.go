package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/busrag/internal/adapters/driving/mcp"
)

// Port range scanned by "mcp serve --http" when no port is given.
const (
	mcpPortRangeStart = 8765
	mcpPortRangeEnd   = 8799
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server for AI assistant integration.

Tools:
  search         passages closest to a query
  ask            grounded answer with sources (needs an LLM provider)
  provider_info  details about a bus provider

By default, the server communicates over stdio using JSON-RPC.
Use --port, or --http to pick a free port, to serve over HTTP instead.

Examples:
  # Stdio mode (default)
  busrag mcp serve

  # HTTP mode (for MCP Inspector, remote access)
  busrag mcp serve --port 8080
  busrag mcp serve --http

Client configuration:
  {
    "mcpServers": {
      "busrag": {
        "command": "/path/to/busrag",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	Args: cobra.NoArgs,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpServeCmd.Flags().Bool("http", false, "serve over HTTP on the first free port")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}
	useHTTP, err := cmd.Flags().GetBool("http")
	if err != nil {
		return fmt.Errorf("getting http flag: %w", err)
	}
	if useHTTP && port == 0 {
		port, err = mcp.FreePort(mcpPortRangeStart, mcpPortRangeEnd)
		if err != nil {
			return err
		}
	}

	ports := &mcp.Ports{
		Retrieval: retrievalService,
		Answer:    answerService,
		Provider:  providerService,
		Index:     indexService,
		Settings:  settingsService,
	}

	server, err := mcp.NewServer(ports)
	if err != nil {
		return err
	}

	ctx := commandContext(cmd)
	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		cmd.PrintErrf("MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(ctx, addr)
	}

	return server.Run(ctx)
}

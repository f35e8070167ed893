package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/odiscan/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server so AI assistants can classify
announcements and extract outbound investment fields.

Tools:
  classify_document  - decide whether an announcement is an outbound investment
  extract_document   - classify and extract the deal fields

By default, the server communicates over stdio using JSON-RPC.
Use --port to start an HTTP server instead.

Examples:
  # Stdio mode (default)
  odiscan mcp serve

  # HTTP mode (for MCP Inspector, remote access)
  odiscan mcp serve --port 8080`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}

	ctx := commandContext(cmd)
	app, err := newApp(ctx, appOptions{})
	if err != nil {
		return err
	}
	defer app.Close()

	server, err := mcp.NewServer(&mcp.Ports{
		Classifier: app.Classifier,
		Pipeline:   app.Pipeline,
	}, version)
	if err != nil {
		return err
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.OutOrStdout(), "MCP endpoint: http://localhost%s%s\n", addr, mcp.MCPPath)
		return server.RunHTTP(ctx, addr)
	}

	return server.Run(ctx)
}

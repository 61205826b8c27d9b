package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/finder/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server so AI assistants can search the
corpus and read its documents.

Tools:
  search      - fuzzy search corpus lines
  read_lines  - read the lines around path:line

Resources:
  finder://documents         - every document with its line count
  finder://documents/{path}  - a document's content

By default, the server communicates over stdio using JSON-RPC. Use --port
to serve over HTTP instead, e.g. for the MCP Inspector.

Examples:
  # Stdio mode (default)
  finder mcp serve --dir ~/notes

  # HTTP mode
  finder mcp serve --port 8080

Claude Desktop configuration (claude_desktop_config.json):
  {
    "mcpServers": {
      "finder": {
        "command": "/path/to/finder",
        "args": ["mcp", "serve", "--dir", "/path/to/notes"]
      }
    }
  }`,
	Args: cobra.NoArgs,
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

	svc, err := loadServices(cmd.Context())
	if err != nil {
		return err
	}

	ports := &mcp.Ports{
		Search: svc.Search,
		Corpus: svc.Corpus,
	}

	server, err := mcp.NewServer(ports)
	if err != nil {
		return err
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.ErrOrStderr(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}

	return server.Run(cmd.Context())
}

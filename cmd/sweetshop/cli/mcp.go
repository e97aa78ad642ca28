package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	smcp "github.com/sweetshop/sweetshop/internal/mcp"
	"github.com/sweetshop/sweetshop/internal/service"
)

func newMCPCmd() *cobra.Command {
	var (
		transport string
		port      int
	)

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start the MCP server for AI agents",
		Long: `Start a Model Context Protocol (MCP) server that exposes the sweet catalog as
read-only tools. Supports stdio (default) and HTTP transports.

In stdio mode the server speaks JSON-RPC over stdin/stdout, suitable for MCP
clients that launch it as a subprocess. In HTTP mode it listens on the given
port using the Streamable HTTP transport.`,
		Example: `  sweetshop mcp                              # stdio mode
  sweetshop mcp --transport http --port 3001  # HTTP mode`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMCP(cmd, transport, port)
		},
	}

	cmd.Flags().StringVar(&transport, "transport", "stdio", "Transport mode: stdio or http")
	cmd.Flags().IntVar(&port, "port", 3001, "HTTP port (only used with --transport http)")

	return cmd
}

func runMCP(cmd *cobra.Command, transport string, port int) error {
	if transport != "stdio" && transport != "http" {
		return fmt.Errorf("unsupported transport %q; use 'stdio' or 'http'", transport)
	}

	settings, err := loadSettings()
	if err != nil {
		return err
	}
	// stdout carries the protocol in stdio mode, so logs go to stderr only.
	logger := newLogger(settings.Logging, false)

	st, err := openStore(cmd.Context(), settings)
	if err != nil {
		return err
	}
	defer st.Close()

	mcpSrv := smcp.NewMCPServer(service.NewCatalogService(st, nil, logger), versionString(), logger)

	if transport == "http" {
		return mcpSrv.ServeHTTP(fmt.Sprintf(":%d", port))
	}
	return mcpSrv.ServeStdio()
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/xvierd/focusguard/internal/adapters/mcp"
	"github.com/xvierd/focusguard/internal/logfields"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol (MCP) server for integration with AI assistants.
The server exposes the timer actions, the blocklist and the statistics as tools
and communicates via stdio.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !app.config.MCP.Enabled {
			return fmt.Errorf("MCP server is disabled (set mcp.enabled = true)")
		}

		ctx, stop := setupSignalHandler(cmd.Context())
		defer stop()

		opts := []mcp.Option{}
		if err := openStore(ctx); err != nil {
			app.log.Warn("Blocklist and stats tools disabled", logfields.Error(err))
		} else {
			opts = append(opts, mcp.WithSites(app.settings), mcp.WithStats(app.stats))
		}

		server := mcp.NewServer(app.client, opts...)
		if err := server.Start(ctx); err != nil {
			return fmt.Errorf("MCP server error: %w", err)
		}
		return nil
	},
}

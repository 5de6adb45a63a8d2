package main

import (
	"github.com/spf13/cobra"
)

var serveAddr string

// serveCmd runs the browser editor
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the browser editor",
	Long: `Starts the editor HTTP server. Open /pages/<page-id>/edit in a browser.
Stale local drafts are pruned on the configured schedule while it runs.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return application.Serve(cmd.Context(), serveAddr)
	},
}

// mcpCmd serves the MCP tools on stdio
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve page composition tools to an AI agent over stdio",
	RunE: func(cmd *cobra.Command, args []string) error {
		return application.ServeMCP(version)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from server.addr)")
}

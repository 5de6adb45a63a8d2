package app

import (
	mcpserver "pagebuilder/internal/mcp"
)

// ServeMCP runs the page builder as an MCP server on stdin/stdout until the
// client disconnects. Saves still in flight are awaited by Shutdown.
func (a *App) ServeMCP(version string) error {
	srv := mcpserver.New(mcpserver.Deps{
		Editor:       a.Editor,
		Products:     a.Client,
		RemoteThemes: a.Client,
		Emitter:      a.Emitter,
		Currency:     a.Config.Server.Currency,
		Log:          a.Log,
		Version:      version,
	})
	return srv.ServeStdio()
}

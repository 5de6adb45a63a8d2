package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"pagebuilder/internal/api"
	"pagebuilder/internal/domain"
	"pagebuilder/internal/logger"
	"pagebuilder/internal/service"
)

// ProductSource supplies product cards for rendered previews.
type ProductSource interface {
	ListProducts(ctx context.Context, pageID string) ([]domain.Product, error)
}

// ThemeApplier applies a theme on the backend.
type ThemeApplier interface {
	ApplyTheme(ctx context.Context, themeID string) error
}

// Server exposes the page builder to AI agents: tools that compose a page
// block by block, a composition resource and a guiding prompt.
type Server struct {
	mcp      *server.MCPServer
	editor   *service.EditorService
	products ProductSource
	remote   ThemeApplier
	emitter  service.EventEmitter
	currency string
	log      *logger.Logger

	mu           sync.Mutex
	activePageID string
}

// Deps holds everything the MCP server needs from the command layer.
// Products and RemoteThemes are optional.
type Deps struct {
	Editor       *service.EditorService
	Products     ProductSource
	RemoteThemes ThemeApplier
	Emitter      service.EventEmitter
	Currency     string
	Log          *logger.Logger
	Version      string
}

// New creates and configures a new MCP server with all tools and resources.
func New(deps Deps) *Server {
	if deps.Log == nil {
		deps.Log = logger.Nop()
	}
	if deps.Emitter == nil {
		deps.Emitter = service.LogEmitter{Log: deps.Log}
	}
	if deps.Version == "" {
		deps.Version = "dev"
	}
	s := &Server{
		editor:   deps.Editor,
		products: deps.Products,
		remote:   deps.RemoteThemes,
		emitter:  deps.Emitter,
		currency: deps.Currency,
		log:      deps.Log,
	}

	s.mcp = server.NewMCPServer(
		"pagebuilder-mcp",
		deps.Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
		server.WithPromptCapabilities(true),
	)

	s.registerBlockTools()
	s.registerPageTools()
	s.registerThemeTools()
	s.registerResources()
	s.registerPrompts()

	return s
}

// MCPServer returns the underlying server, e.g. for in-process clients.
func (s *Server) MCPServer() *server.MCPServer { return s.mcp }

// ServeStdio serves on stdin/stdout until the client disconnects.
func (s *Server) ServeStdio() error {
	s.log.Info("mcp: starting stdio server")
	return server.ServeStdio(s.mcp)
}

// ── Helpers ────────────────────────────────────────────────

func (s *Server) emitBlocksChanged(ctx context.Context, pageID string) {
	s.emitter.Emit(ctx, "mcp:blocks-changed", map[string]string{"pageId": pageID})
}

// textResult creates a simple text tool result.
func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

// jsonResult serializes v to JSON and wraps it in a text tool result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return textResult(string(data)), nil
}

// errorResult reports a failure the agent can act on, using the same
// message a person would see.
func errorResult(err error) *mcp.CallToolResult {
	return mcp.NewToolResultError(api.Message(err))
}

func (s *Server) setActivePage(pageID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activePageID = pageID
}

// resolvePageID returns the pageId argument or falls back to the active page.
func (s *Server) resolvePageID(req mcp.CallToolRequest) (string, error) {
	if pid := req.GetString("pageId", ""); pid != "" {
		return pid, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.activePageID != "" {
		return s.activePageID, nil
	}
	return "", fmt.Errorf("no pageId provided and no page open (use open_page first)")
}

// session returns the editing session for the tool's page, loading it if
// needed.
func (s *Server) session(ctx context.Context, req mcp.CallToolRequest) (*service.EditorSession, error) {
	pageID, err := s.resolvePageID(req)
	if err != nil {
		return nil, err
	}
	return s.editor.Open(ctx, pageID)
}

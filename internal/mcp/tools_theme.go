package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerThemeTools() {
	// ── list_themes ────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("list_themes",
		mcp.WithDescription("List the community themes, optionally filtered by tag or page type"),
		mcp.WithString("tag", mcp.Description("Tag or page type, e.g. landing, ecommerce (optional)")),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{ReadOnlyHint: boolPtr(true)}),
	), s.handleListThemes)

	// ── apply_theme ────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("apply_theme",
		mcp.WithDescription("Replace all sections of the page with a theme's starter sections"),
		mcp.WithString("themeId", mcp.Description("Theme ID"), mcp.Required()),
		mcp.WithBoolean("remote", mcp.Description("Also set the theme on the site (backend call)")),
		mcp.WithString("pageId", mcp.Description("Page ID (optional, defaults to the open page)")),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{DestructiveHint: boolPtr(true)}),
	), s.handleApplyTheme)
}

type themeSummary struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	PageType    string   `json:"pageType"`
	Tags        []string `json:"tags"`
	Sections    int      `json:"sections"`
}

func (s *Server) handleListThemes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	list := s.editor.Themes().Search(req.GetString("tag", ""))
	out := make([]themeSummary, len(list))
	for i, t := range list {
		out[i] = themeSummary{
			ID:          t.ID,
			Name:        t.Name,
			Description: t.Description,
			PageType:    string(t.PageType),
			Tags:        t.Tags,
			Sections:    len(t.Components),
		}
	}
	return jsonResult(out)
}

func (s *Server) handleApplyTheme(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	themeID := req.GetString("themeId", "")
	if themeID == "" {
		return nil, fmt.Errorf("themeId is required")
	}
	sess, err := s.session(ctx, req)
	if err != nil {
		return errorResult(err), nil
	}
	comp, err := sess.ApplyTheme(ctx, themeID)
	if err != nil {
		return errorResult(err), nil
	}
	if req.GetBool("remote", false) {
		if s.remote == nil {
			return errorResult(fmt.Errorf("remote theme apply is not available")), nil
		}
		if err := s.remote.ApplyTheme(ctx, themeID); err != nil {
			return errorResult(err), nil
		}
	}
	s.emitBlocksChanged(ctx, sess.PageID())
	return jsonResult(summarizeBlocks(s.editor.Registry(), comp, ""))
}

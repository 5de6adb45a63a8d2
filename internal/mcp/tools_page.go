package mcpserver

import (
	"bytes"
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"pagebuilder/internal/blocks"
	"pagebuilder/internal/domain"
)

func (s *Server) registerPageTools() {
	// ── open_page ──────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("open_page",
		mcp.WithDescription("Load a page for editing and make it the default for other tools"),
		mcp.WithString("pageId", mcp.Description("Page ID (slug)"), mcp.Required()),
		mcp.WithBoolean("restoreDraft", mcp.Description("Replace the loaded sections with the local unsaved draft, if one exists")),
	), s.handleOpenPage)

	// ── set_viewport ───────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("set_viewport",
		mcp.WithDescription("Set the preview width used by render_page. Does not change the page."),
		mcp.WithString("viewport",
			mcp.Description("desktop (1200px), tablet (768px) or mobile (375px)"),
			mcp.Required(),
			mcp.Enum(string(domain.ViewportDesktop), string(domain.ViewportTablet), string(domain.ViewportMobile)),
		),
		mcp.WithString("pageId", mcp.Description("Page ID (optional, defaults to the open page)")),
	), s.handleSetViewport)

	// ── render_page ────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("render_page",
		mcp.WithDescription("Render the current sections as a standalone HTML document"),
		mcp.WithString("pageId", mcp.Description("Page ID (optional, defaults to the open page)")),
		mcp.WithString("viewport", mcp.Description("Override the session viewport (optional)")),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{ReadOnlyHint: boolPtr(true)}),
	), s.handleRenderPage)

	// ── save_page ──────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("save_page",
		mcp.WithDescription("Save the page. Replaces the stored sections wholesale; the last save wins."),
		mcp.WithString("pageId", mcp.Description("Page ID (optional, defaults to the open page)")),
	), s.handleSavePage)
}

func (s *Server) handleOpenPage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pageID := req.GetString("pageId", "")
	if pageID == "" {
		return nil, fmt.Errorf("pageId is required")
	}
	sess, err := s.editor.Open(ctx, pageID)
	if err != nil {
		return errorResult(err), nil
	}
	s.setActivePage(pageID)

	restored := false
	if req.GetBool("restoreDraft", false) {
		if restored, err = sess.RestoreDraft(ctx); err != nil {
			return errorResult(err), nil
		}
	}

	st := sess.State()
	return jsonResult(map[string]any{
		"pageId":        st.PageID,
		"blocks":        summarizeBlocks(s.editor.Registry(), st.Blocks, st.Selected),
		"viewport":      st.Viewport,
		"draftRestored": restored,
		"hasMarkup":     st.HasMarkup,
	})
}

func (s *Server) handleSetViewport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess, err := s.session(ctx, req)
	if err != nil {
		return errorResult(err), nil
	}
	vp := domain.Viewport(req.GetString("viewport", ""))
	if err := sess.SetViewport(ctx, vp); err != nil {
		return errorResult(err), nil
	}
	return textResult(fmt.Sprintf("Viewport set to %s (%dpx)", vp, vp.Width())), nil
}

func (s *Server) handleRenderPage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess, err := s.session(ctx, req)
	if err != nil {
		return errorResult(err), nil
	}
	st := sess.State()
	vp := st.Viewport
	if v := req.GetString("viewport", ""); v != "" {
		if vp, err = domain.ParseViewport(v); err != nil {
			return errorResult(err), nil
		}
	}

	rc := blocks.RenderContext{Currency: s.currency}
	if s.products != nil {
		if products, err := s.products.ListProducts(ctx, st.PageID); err == nil {
			rc.Products = products
		} else {
			s.log.Debug("mcp: products unavailable for render", "page_id", st.PageID, "error", err)
		}
	}

	var buf bytes.Buffer
	if err := s.editor.Registry().RenderPage(&buf, st.PageID, st.Blocks, vp, rc); err != nil {
		return nil, fmt.Errorf("render page: %w", err)
	}
	return textResult(buf.String()), nil
}

func (s *Server) handleSavePage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess, err := s.session(ctx, req)
	if err != nil {
		return errorResult(err), nil
	}
	if err := sess.Save(ctx); err != nil {
		return errorResult(err), nil
	}
	return textResult(fmt.Sprintf("Saved %d section(s) to page %s", len(sess.Blocks()), sess.PageID())), nil
}

package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"pagebuilder/internal/domain"
)

func (s *Server) registerBlockTools() {
	// ── list_block_types ───────────────────────────────
	s.mcp.AddTool(mcp.NewTool("list_block_types",
		mcp.WithDescription("List the section types that can be added to a page, with their editable fields"),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{ReadOnlyHint: boolPtr(true)}),
	), s.handleListBlockTypes)

	// ── list_blocks ────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("list_blocks",
		mcp.WithDescription("List the sections of a page in top-to-bottom order"),
		mcp.WithString("pageId", mcp.Description("Page ID (optional, defaults to the open page)")),
		mcp.WithString("type", mcp.Description("Filter by section type (optional)")),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{ReadOnlyHint: boolPtr(true)}),
	), s.handleListBlocks)

	// ── add_block ──────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("add_block",
		mcp.WithDescription("Append a new empty section at the bottom of the page. Sections cannot be reordered."),
		mcp.WithString("type",
			mcp.Description("Section type: hero, products or cta"),
			mcp.Required(),
		),
		mcp.WithString("pageId", mcp.Description("Page ID (optional, defaults to the open page)")),
	), s.handleAddBlock)

	// ── set_block_field ────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("set_block_field",
		mcp.WithDescription("Set one field of a section. Other fields are kept."),
		mcp.WithString("blockId", mcp.Description("Section ID"), mcp.Required()),
		mcp.WithString("key", mcp.Description("Field key, e.g. title, subtitle, buttonText, columns"), mcp.Required()),
		mcp.WithString("value", mcp.Description("New value. Number fields accept digits.")),
		mcp.WithBoolean("clear", mcp.Description("Remove the field instead of setting it")),
		mcp.WithString("pageId", mcp.Description("Page ID (optional, defaults to the open page)")),
	), s.handleSetBlockField)

	// ── remove_block ───────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("remove_block",
		mcp.WithDescription("Remove a section from the page. Nothing is saved until save_page."),
		mcp.WithString("blockId", mcp.Description("Section ID"), mcp.Required()),
		mcp.WithString("pageId", mcp.Description("Page ID (optional, defaults to the open page)")),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{DestructiveHint: boolPtr(true)}),
	), s.handleRemoveBlock)

	// ── select_block ───────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("select_block",
		mcp.WithDescription("Select a section, or clear the selection with an empty blockId"),
		mcp.WithString("blockId", mcp.Description("Section ID (empty clears)")),
		mcp.WithString("pageId", mcp.Description("Page ID (optional, defaults to the open page)")),
	), s.handleSelectBlock)
}

// ── Handlers ───────────────────────────────────────────────

func (s *Server) handleListBlockTypes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.editor.Registry().Descriptors())
}

func (s *Server) handleListBlocks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess, err := s.session(ctx, req)
	if err != nil {
		return errorResult(err), nil
	}
	st := sess.State()
	summaries := summarizeBlocks(s.editor.Registry(), st.Blocks, st.Selected)

	if filterType := req.GetString("type", ""); filterType != "" {
		filtered := []blockSummary{}
		for _, b := range summaries {
			if b.Type == filterType {
				filtered = append(filtered, b)
			}
		}
		return jsonResult(filtered)
	}
	return jsonResult(summaries)
}

func (s *Server) handleAddBlock(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	blockType := req.GetString("type", "")
	if blockType == "" {
		return nil, fmt.Errorf("type is required")
	}
	sess, err := s.session(ctx, req)
	if err != nil {
		return errorResult(err), nil
	}

	b, err := sess.AddBlock(ctx, domain.BlockType(blockType))
	if err != nil {
		return errorResult(err), nil
	}
	s.emitBlocksChanged(ctx, sess.PageID())
	return jsonResult(summarizeBlocks(s.editor.Registry(), domain.Composition{b}, "")[0])
}

func (s *Server) handleSetBlockField(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	blockID := req.GetString("blockId", "")
	key := req.GetString("key", "")
	if blockID == "" || key == "" {
		return nil, fmt.Errorf("blockId and key are required")
	}
	sess, err := s.session(ctx, req)
	if err != nil {
		return errorResult(err), nil
	}

	var value any = req.GetString("value", "")
	if req.GetBool("clear", false) {
		value = nil
	}
	b, err := sess.SetField(ctx, blockID, key, value)
	if err != nil {
		return errorResult(err), nil
	}
	s.emitBlocksChanged(ctx, sess.PageID())
	return jsonResult(summarizeBlocks(s.editor.Registry(), domain.Composition{b}, "")[0])
}

func (s *Server) handleRemoveBlock(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	blockID := req.GetString("blockId", "")
	if blockID == "" {
		return nil, fmt.Errorf("blockId is required")
	}
	sess, err := s.session(ctx, req)
	if err != nil {
		return errorResult(err), nil
	}

	removed, err := sess.RemoveBlock(ctx, blockID)
	if err != nil {
		return errorResult(err), nil
	}
	if !removed {
		return textResult(fmt.Sprintf("No section %s on page %s, nothing removed", blockID, sess.PageID())), nil
	}
	s.emitBlocksChanged(ctx, sess.PageID())
	return textResult(fmt.Sprintf("Removed section %s", blockID)), nil
}

func (s *Server) handleSelectBlock(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess, err := s.session(ctx, req)
	if err != nil {
		return errorResult(err), nil
	}
	selected, err := sess.Select(ctx, req.GetString("blockId", ""))
	if err != nil {
		return errorResult(err), nil
	}
	if selected == "" {
		return textResult("Selection cleared"), nil
	}
	return textResult(fmt.Sprintf("Selected section %s", selected)), nil
}

package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerPrompts() {
	s.mcp.AddPrompt(mcp.NewPrompt("compose_page",
		mcp.WithPromptDescription("Guide through composing a page from sections and saving it"),
		mcp.WithArgument("pageId",
			mcp.ArgumentDescription("Page to compose"),
			mcp.RequiredArgument(),
		),
		mcp.WithArgument("goal",
			mcp.ArgumentDescription("What the page should achieve, e.g. sell a course"),
			mcp.RequiredArgument(),
		),
	), s.handleComposePagePrompt)
}

func (s *Server) handleComposePagePrompt(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	pageID := req.Params.Arguments["pageId"]
	goal := req.Params.Arguments["goal"]
	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Compose page %s", pageID),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.TextContent{
					Type: "text",
					Text: fmt.Sprintf(`Compose the page %q so that it helps to: %s

Steps:
1. Call open_page with pageId %q and look at the existing sections.
2. If the page is empty, consider list_themes and apply_theme for a starting point.
3. Use add_block to append sections (they always go at the bottom and cannot be reordered, so add them in reading order).
4. Use set_block_field to write the copy. Keep titles short.
5. Call render_page with viewport mobile to check the result.
6. Call save_page once. The save replaces the stored page.`, pageID, goal, pageID),
				},
			},
		},
	}, nil
}

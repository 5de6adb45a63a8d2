package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

const compositionURIPrefix = "pagebuilder://page/"

func (s *Server) registerResources() {
	// ── pagebuilder://block-types ──────────────────────
	s.mcp.AddResource(mcp.NewResource(
		"pagebuilder://block-types",
		"Section types",
		mcp.WithMIMEType("application/json"),
	), s.handleBlockTypesResource)

	// ── pagebuilder://page/{pageId}/composition ────────
	s.mcp.AddResourceTemplate(
		mcp.NewResourceTemplate(
			"pagebuilder://page/{pageId}/composition",
			"Sections of a page",
		),
		s.handleCompositionResource,
	)
}

func (s *Server) handleBlockTypesResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	data, err := json.MarshalIndent(s.editor.Registry().Descriptors(), "", "  ")
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func (s *Server) handleCompositionResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uri := req.Params.URI
	pageID := extractPageIDFromURI(uri)
	if pageID == "" {
		return nil, fmt.Errorf("could not extract pageId from URI: %s", uri)
	}

	sess, err := s.editor.Open(ctx, pageID)
	if err != nil {
		return nil, err
	}
	data, err := json.MarshalIndent(sess.Blocks(), "", "  ")
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

// extractPageIDFromURI extracts the page id from
// "pagebuilder://page/{id}/composition".
func extractPageIDFromURI(uri string) string {
	rest, ok := strings.CutPrefix(uri, compositionURIPrefix)
	if !ok {
		return ""
	}
	id, ok := strings.CutSuffix(rest, "/composition")
	if !ok || id == "" || strings.Contains(id, "/") {
		return ""
	}
	return id
}

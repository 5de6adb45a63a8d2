package mcpserver

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"pagebuilder/internal/domain"
	"pagebuilder/internal/service"
)

type memPages struct {
	mu    sync.Mutex
	pages map[string]domain.Composition
}

func (m *memPages) Load(_ context.Context, pageID string) (domain.PageContent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.pages[pageID]
	if !ok {
		return domain.PageContent{}, domain.ErrBlockNotFound
	}
	return domain.PageContent{PageID: pageID, Components: c.Clone()}, nil
}

func (m *memPages) Save(_ context.Context, pageID string, c domain.Composition) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pages[pageID] = c.Clone()
	return nil
}

type fakeProducts []domain.Product

func (f fakeProducts) ListProducts(context.Context, string) ([]domain.Product, error) {
	return f, nil
}

func newTestServer(t *testing.T) (*Server, *memPages, *service.MockEmitter) {
	t.Helper()
	pages := &memPages{pages: map[string]domain.Composition{"home": {}}}
	em := &service.MockEmitter{}
	editor := service.NewEditorService(service.EditorConfig{Pages: pages, Emitter: em})
	s := New(Deps{
		Editor:   editor,
		Products: fakeProducts{{Name: "Mug", PriceCents: 1200, Visible: true}},
		Emitter:  em,
		Currency: "$",
	})
	return s, pages, em
}

func callReq(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if res == nil || len(res.Content) == 0 {
		t.Fatal("empty result")
	}
	tc, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content is %T", res.Content[0])
	}
	return tc.Text
}

func TestTools_ComposeAndSave(t *testing.T) {
	s, pages, _ := newTestServer(t)
	ctx := context.Background()

	res, err := s.handleOpenPage(ctx, callReq(map[string]any{"pageId": "home"}))
	if err != nil || res.IsError {
		t.Fatalf("open_page: %v %s", err, resultText(t, res))
	}

	res, err = s.handleAddBlock(ctx, callReq(map[string]any{"type": "hero"}))
	if err != nil || res.IsError {
		t.Fatalf("add_block: %v %s", err, resultText(t, res))
	}
	var added blockSummary
	if err := json.Unmarshal([]byte(resultText(t, res)), &added); err != nil {
		t.Fatal(err)
	}
	if added.Type != "hero" || added.Label == "" {
		t.Errorf("added = %+v", added)
	}

	res, _ = s.handleSetBlockField(ctx, callReq(map[string]any{"blockId": added.ID, "key": "title", "value": "Welcome"}))
	if res.IsError {
		t.Fatalf("set_block_field: %s", resultText(t, res))
	}

	res, _ = s.handleSavePage(ctx, callReq(nil))
	if res.IsError {
		t.Fatalf("save_page: %s", resultText(t, res))
	}
	saved := pages.pages["home"]
	if len(saved) != 1 || saved[0].Props.Values()["title"] != "Welcome" {
		t.Errorf("saved = %+v", saved)
	}
}

func TestTools_SetFieldClear(t *testing.T) {
	s, _, _ := newTestServer(t)
	ctx := context.Background()
	s.handleOpenPage(ctx, callReq(map[string]any{"pageId": "home"}))
	res, _ := s.handleAddBlock(ctx, callReq(map[string]any{"type": "cta"}))
	var added blockSummary
	json.Unmarshal([]byte(resultText(t, res)), &added)

	s.handleSetBlockField(ctx, callReq(map[string]any{"blockId": added.ID, "key": "buttonText", "value": "Go"}))
	res, _ = s.handleSetBlockField(ctx, callReq(map[string]any{"blockId": added.ID, "key": "buttonText", "clear": true}))
	var got blockSummary
	json.Unmarshal([]byte(resultText(t, res)), &got)
	if _, ok := got.Props["buttonText"]; ok {
		t.Errorf("buttonText not cleared: %+v", got.Props)
	}
}

func TestTools_Errors(t *testing.T) {
	s, _, _ := newTestServer(t)
	ctx := context.Background()

	res, err := s.handleListBlocks(ctx, callReq(nil))
	if err != nil || !res.IsError {
		t.Error("list_blocks without an open page should fail")
	}

	s.handleOpenPage(ctx, callReq(map[string]any{"pageId": "home"}))
	res, _ = s.handleAddBlock(ctx, callReq(map[string]any{"type": "carousel"}))
	if !res.IsError {
		t.Error("unknown type accepted")
	}

	res, _ = s.handleOpenPage(ctx, callReq(map[string]any{"pageId": "ghost"}))
	if !res.IsError {
		t.Error("missing page opened")
	}

	res, _ = s.handleRemoveBlock(ctx, callReq(map[string]any{"blockId": "nope"}))
	if res.IsError || !strings.Contains(resultText(t, res), "nothing removed") {
		t.Errorf("remove missing: %s", resultText(t, res))
	}
}

func TestTools_RenderAndViewport(t *testing.T) {
	s, _, _ := newTestServer(t)
	ctx := context.Background()
	s.handleOpenPage(ctx, callReq(map[string]any{"pageId": "home"}))
	s.handleAddBlock(ctx, callReq(map[string]any{"type": "products"}))

	res, _ := s.handleSetViewport(ctx, callReq(map[string]any{"viewport": "mobile"}))
	if res.IsError {
		t.Fatal(resultText(t, res))
	}
	res, err := s.handleRenderPage(ctx, callReq(nil))
	if err != nil {
		t.Fatal(err)
	}
	html := resultText(t, res)
	if !strings.Contains(html, "max-width:375px") || !strings.Contains(html, "Mug") {
		t.Errorf("render output missing viewport or product:\n%s", html)
	}

	res, _ = s.handleSetViewport(ctx, callReq(map[string]any{"viewport": "watch"}))
	if !res.IsError {
		t.Error("invalid viewport accepted")
	}
}

func TestTools_Themes(t *testing.T) {
	s, _, em := newTestServer(t)
	ctx := context.Background()

	res, _ := s.handleListThemes(ctx, callReq(map[string]any{"tag": "landing"}))
	var list []themeSummary
	if err := json.Unmarshal([]byte(resultText(t, res)), &list); err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 {
		t.Errorf("landing themes = %d", len(list))
	}

	s.handleOpenPage(ctx, callReq(map[string]any{"pageId": "home"}))
	res, _ = s.handleApplyTheme(ctx, callReq(map[string]any{"themeId": "bold"}))
	var blocks []blockSummary
	json.Unmarshal([]byte(resultText(t, res)), &blocks)
	if len(blocks) != 3 {
		t.Errorf("apply_theme blocks = %d", len(blocks))
	}
	found := false
	for _, n := range em.Names() {
		if n == "mcp:blocks-changed" {
			found = true
		}
	}
	if !found {
		t.Error("blocks-changed not emitted")
	}

	res, _ = s.handleApplyTheme(ctx, callReq(map[string]any{"themeId": "bold", "remote": true}))
	if !res.IsError {
		t.Error("remote apply without a backend should fail")
	}
}

func TestCompositionResource(t *testing.T) {
	s, pages, _ := newTestServer(t)
	pages.pages["about"] = domain.Composition{domain.NewBlock("a1", domain.BlockTypeHero)}

	var req mcp.ReadResourceRequest
	req.Params.URI = "pagebuilder://page/about/composition"
	contents, err := s.handleCompositionResource(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	text := contents[0].(mcp.TextResourceContents).Text
	if !strings.Contains(text, `"a1"`) {
		t.Errorf("composition resource = %s", text)
	}
}

func TestExtractPageIDFromURI(t *testing.T) {
	cases := map[string]string{
		"pagebuilder://page/home/composition": "home",
		"pagebuilder://page//composition":     "",
		"pagebuilder://page/a/b/composition":  "",
		"notes://page/home/blocks":            "",
		"pagebuilder://page/home/other":       "",
	}
	for uri, want := range cases {
		if got := extractPageIDFromURI(uri); got != want {
			t.Errorf("extractPageIDFromURI(%q) = %q, want %q", uri, got, want)
		}
	}
}

func TestComposePagePrompt(t *testing.T) {
	s, _, _ := newTestServer(t)
	var req mcp.GetPromptRequest
	req.Params.Arguments = map[string]string{"pageId": "home", "goal": "sell a course"}
	res, err := s.handleComposePagePrompt(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	text := res.Messages[0].Content.(mcp.TextContent).Text
	if !strings.Contains(text, "sell a course") || !strings.Contains(text, `"home"`) {
		t.Errorf("prompt = %s", text)
	}
}

package web_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pagebuilder/internal/domain"
	"pagebuilder/internal/service"
	"pagebuilder/internal/web"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// memPages is an in-memory PageStore.
type memPages struct {
	mu    sync.Mutex
	pages map[string]domain.Composition
	saves int
	fail  error
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
	if m.fail != nil {
		return m.fail
	}
	m.saves++
	m.pages[pageID] = c.Clone()
	return nil
}

type fakeProducts []domain.Product

func (f fakeProducts) ListProducts(context.Context, string) ([]domain.Product, error) {
	return f, nil
}

func newRouter(pages *memPages) *gin.Engine {
	editor := service.NewEditorService(service.EditorConfig{Pages: pages})
	return web.NewRouter(web.RouterConfig{
		Editor:   editor,
		Products: fakeProducts{{Name: "Mug", PriceCents: 1200, Visible: true}},
		Currency: "$",
	})
}

func do(r http.Handler, method, target string, body string, jsonBody bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if jsonBody {
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")
	} else if body != "" {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeState(t *testing.T, w *httptest.ResponseRecorder) service.EditorState {
	t.Helper()
	var st service.EditorState
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &st), w.Body.String())
	return st
}

func TestHealthz(t *testing.T) {
	w := do(newRouter(&memPages{pages: map[string]domain.Composition{}}), http.MethodGet, "/healthz", "", false)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String())
}

func TestEditor_JSONFlow(t *testing.T) {
	pages := &memPages{pages: map[string]domain.Composition{"home": {}}}
	r := newRouter(pages)

	w := do(r, http.MethodPost, "/pages/home/blocks", `{"type":"hero"}`, true)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	st := decodeState(t, w)
	require.Len(t, st.Blocks, 1)
	require.Equal(t, st.Blocks[0].ID, st.Selected, "new block should be selected")
	id := st.Blocks[0].ID

	w = do(r, http.MethodPost, "/pages/home/blocks/"+id+"/fields", `{"title":"Welcome"}`, true)
	st = decodeState(t, w)
	assert.Equal(t, "Welcome", st.Blocks[0].Props.Values()["title"])

	w = do(r, http.MethodPost, "/pages/home/save", "", true)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, 1, pages.saves)
	require.Len(t, pages.pages["home"], 1)
	assert.Equal(t, "Welcome", pages.pages["home"][0].Props.Values()["title"])

	w = do(r, http.MethodPost, "/pages/home/blocks/"+id+"/delete", "", true)
	st = decodeState(t, w)
	assert.Empty(t, st.Blocks)
	assert.Empty(t, st.Selected)
}

func TestEditor_FormFlowRedirects(t *testing.T) {
	pages := &memPages{pages: map[string]domain.Composition{"home": {}}}
	r := newRouter(pages)

	w := do(r, http.MethodPost, "/pages/home/blocks", url.Values{"type": {"products"}}.Encode(), false)
	require.Equal(t, http.StatusSeeOther, w.Code)
	require.Equal(t, "/pages/home/edit", w.Header().Get("Location"))

	w = do(r, http.MethodGet, "/pages/home/edit", "", false)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	for _, want := range []string{"Hero banner", "Product grid", "Lead capture", "Mug", `name="columns"`} {
		assert.Contains(t, body, want)
	}
}

func TestEditor_InspectorEmptyState(t *testing.T) {
	r := newRouter(&memPages{pages: map[string]domain.Composition{"home": {domain.NewBlock("a", domain.BlockTypeHero)}}})
	w := do(r, http.MethodGet, "/pages/home/edit", "", false)
	assert.Contains(t, w.Body.String(), "Select a section")
}

func TestEditor_Errors(t *testing.T) {
	pages := &memPages{pages: map[string]domain.Composition{"home": {domain.NewBlock("a", domain.BlockTypeHero)}}}
	r := newRouter(pages)

	cases := []struct {
		name   string
		method string
		target string
		body   string
		status int
	}{
		{"unknown type", http.MethodPost, "/pages/home/blocks", `{"type":"carousel"}`, http.StatusBadRequest},
		{"missing type", http.MethodPost, "/pages/home/blocks", `{}`, http.StatusBadRequest},
		{"unknown block", http.MethodPost, "/pages/home/blocks/zzz/fields", `{"title":"x"}`, http.StatusNotFound},
		{"bad field value", http.MethodPost, "/pages/home/blocks/a/fields", `{"title":{"nested":true}}`, http.StatusBadRequest},
		{"unknown theme", http.MethodPost, "/pages/home/themes/retro/apply", "", http.StatusNotFound},
		{"bad viewport", http.MethodPost, "/pages/home/viewport", `{"viewport":"watch"}`, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := do(r, tc.method, tc.target, tc.body, true)
			assert.Equal(t, tc.status, w.Code, w.Body.String())
		})
	}
}

func TestEditor_SaveFailureMessage(t *testing.T) {
	pages := &memPages{pages: map[string]domain.Composition{"home": {}}, fail: errors.New("disk full")}
	r := newRouter(pages)

	w := do(r, http.MethodPost, "/pages/home/save", "", false)
	require.Equal(t, http.StatusSeeOther, w.Code)
	w = do(r, http.MethodGet, "/pages/home/edit", "", false)
	assert.Contains(t, w.Body.String(), "disk full", "failed save message not shown")
}

func TestEditor_FormFieldsAllOrNothing(t *testing.T) {
	pages := &memPages{pages: map[string]domain.Composition{"home": {domain.NewBlock("p", domain.BlockTypeProducts)}}}
	r := newRouter(pages)

	form := url.Values{"title": {"Shop"}, "columns": {"abc"}}.Encode()
	w := do(r, http.MethodPost, "/pages/home/blocks/p/fields", form, false)
	require.Equal(t, http.StatusSeeOther, w.Code)

	w = do(r, http.MethodGet, "/pages/home/composition", "", true)
	st := decodeState(t, w)
	require.Len(t, st.Blocks, 1)
	assert.Empty(t, st.Blocks[0].Props.Values(), "rejected form applied some fields")
	assert.False(t, st.Dirty)
	assert.Contains(t, st.Message, "columns")

	w = do(r, http.MethodGet, "/pages/home/edit", "", false)
	assert.Contains(t, w.Body.String(), "whole number")
}

func TestEditor_PreviewViewport(t *testing.T) {
	r := newRouter(&memPages{pages: map[string]domain.Composition{"home": {domain.NewBlock("a", domain.BlockTypeCTA)}}})

	do(r, http.MethodPost, "/pages/home/viewport", `{"viewport":"tablet"}`, true)
	w := do(r, http.MethodGet, "/pages/home/preview", "", false)
	assert.Contains(t, w.Body.String(), "max-width:768px")
	w = do(r, http.MethodGet, "/pages/home/preview?viewport=mobile", "", false)
	assert.Contains(t, w.Body.String(), "max-width:375px", "viewport query ignored")
}

func TestEditor_ApplyTheme(t *testing.T) {
	r := newRouter(&memPages{pages: map[string]domain.Composition{"home": {}}})
	w := do(r, http.MethodPost, "/pages/home/themes/elegant/apply", "", true)
	st := decodeState(t, w)
	require.Len(t, st.Blocks, 3)
	assert.Equal(t, domain.BlockTypeHero, st.Blocks[0].Type)
}

func TestThemes(t *testing.T) {
	r := newRouter(&memPages{pages: map[string]domain.Composition{}})
	w := do(r, http.MethodGet, "/themes?format=json", "", false)
	var list []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Len(t, list, 4)
	w = do(r, http.MethodGet, "/themes", "", false)
	assert.Contains(t, w.Body.String(), "Minimal Studio")
}

func TestEditor_MissingPage(t *testing.T) {
	r := newRouter(&memPages{pages: map[string]domain.Composition{}})
	w := do(r, http.MethodGet, "/pages/ghost/composition", "", true)
	assert.GreaterOrEqual(t, w.Code, 400)
}

func TestTraceHeaders(t *testing.T) {
	r := newRouter(&memPages{pages: map[string]domain.Composition{}})

	w := do(r, http.MethodGet, "/healthz", "", false)
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))
	assert.NotEmpty(t, w.Header().Get("X-Trace-Id"))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-Id", "req-42")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, "req-42", rec.Header().Get("X-Request-Id"))
}

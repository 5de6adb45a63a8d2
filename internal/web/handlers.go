package web

import (
	"bytes"
	"html/template"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"pagebuilder/internal/blocks"
	"pagebuilder/internal/domain"
	"pagebuilder/internal/service"
	"pagebuilder/internal/themes"
)

// EditorHandler serves one editor session per page id.
type EditorHandler struct {
	cfg RouterConfig
}

type canvasBlock struct {
	ID       string
	Selected bool
	HTML     template.HTML
}

type fieldView struct {
	blocks.Field
	Value string
}

type inspectorView struct {
	ID     string
	Label  string
	Fields []fieldView
}

type editorView struct {
	Base      string
	State     service.EditorState
	Palette   []*blocks.Descriptor
	Themes    []themes.Theme
	Viewports []domain.Viewport
	Width     int
	Canvas    []canvasBlock
	Inspector *inspectorView
}

// session opens the page named in the route, writing the error response
// itself when that fails.
func (h *EditorHandler) session(c *gin.Context) (*service.EditorSession, bool) {
	sess, err := h.cfg.Editor.Open(c.Request.Context(), c.Param("page_id"))
	if err != nil {
		status, code := classify(err)
		RespondError(c, status, code, err)
		return nil, false
	}
	return sess, true
}

func (h *EditorHandler) renderContext(c *gin.Context, pageID string) blocks.RenderContext {
	rc := blocks.RenderContext{Currency: h.cfg.Currency}
	if h.cfg.Products == nil {
		return rc
	}
	products, err := h.cfg.Products.ListProducts(c.Request.Context(), pageID)
	if err != nil {
		// Product grids fall back to sample cards.
		h.cfg.Log.Debug("products unavailable for preview", "page_id", pageID, "error", err)
		return rc
	}
	rc.Products = products
	return rc
}

// done answers a mutation: JSON state for scripts, a redirect back to the
// editor for the HTML form.
func (h *EditorHandler) done(c *gin.Context, sess *service.EditorSession, err error) {
	if err != nil {
		status, code := classify(err)
		if wantsJSON(c) {
			RespondError(c, status, code, err)
			return
		}
		h.cfg.Log.Debug("editor action failed", "page_id", sess.PageID(), "error", err)
	}
	if wantsJSON(c) {
		RespondOK(c, sess.State())
		return
	}
	c.Redirect(http.StatusSeeOther, "/pages/"+sess.PageID()+"/edit")
}

func (h *EditorHandler) Edit(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	st := sess.State()
	rc := h.renderContext(c, st.PageID)
	reg := h.registry()

	view := editorView{
		Base:      "/pages/" + st.PageID,
		State:     st,
		Palette:   reg.Descriptors(),
		Themes:    h.cfg.Editor.Themes().List(),
		Viewports: []domain.Viewport{domain.ViewportDesktop, domain.ViewportTablet, domain.ViewportMobile},
		Width:     st.Viewport.Width(),
	}
	for _, b := range st.Blocks {
		html, err := reg.RenderHTML(b, rc)
		if err != nil {
			RespondError(c, http.StatusInternalServerError, "render_failed", err)
			return
		}
		view.Canvas = append(view.Canvas, canvasBlock{ID: b.ID, Selected: b.ID == st.Selected, HTML: html})

		if b.ID != st.Selected {
			continue
		}
		// Unknown types have no descriptor and get the empty inspector.
		if d, err := reg.Lookup(b.Type); err == nil {
			iv := &inspectorView{ID: b.ID, Label: d.Label}
			for _, f := range d.Fields {
				iv.Fields = append(iv.Fields, fieldView{Field: f, Value: blocks.FieldValue(b.Props, f.Key)})
			}
			view.Inspector = iv
		}
	}
	c.HTML(http.StatusOK, "editor", view)
}

func (h *EditorHandler) Preview(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	st := sess.State()
	vp := st.Viewport
	if q := c.Query("viewport"); q != "" {
		parsed, err := domain.ParseViewport(q)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "invalid_viewport", err)
			return
		}
		vp = parsed
	}

	var buf bytes.Buffer
	if err := h.registry().RenderPage(&buf, st.PageID, st.Blocks, vp, h.renderContext(c, st.PageID)); err != nil {
		RespondError(c, http.StatusInternalServerError, "render_failed", err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

func (h *EditorHandler) Composition(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	RespondOK(c, sess.State())
}

type addBlockRequest struct {
	Type string `json:"type" form:"type" binding:"required"`
}

func (h *EditorHandler) AddBlock(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	var req addBlockRequest
	if err := c.ShouldBind(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	b, err := sess.AddBlock(c.Request.Context(), domain.BlockType(req.Type))
	if err == nil {
		// A new section is selected so the inspector opens on it.
		_, err = sess.Select(c.Request.Context(), b.ID)
	}
	h.done(c, sess, err)
}

func (h *EditorHandler) SelectBlock(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	_, err := sess.Select(c.Request.Context(), c.Param("block_id"))
	h.done(c, sess, err)
}

// SetFields applies the submitted fields as one shallow merge, all or
// nothing. JSON bodies are an object of key to value; form bodies are
// key=value pairs. Empty form values clear the field.
func (h *EditorHandler) SetFields(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	id := c.Param("block_id")
	fields := map[string]any{}
	if strings.HasPrefix(c.ContentType(), "application/json") {
		if err := c.ShouldBindJSON(&fields); err != nil {
			RespondError(c, http.StatusBadRequest, "invalid_request", err)
			return
		}
	} else {
		if err := c.Request.ParseForm(); err != nil {
			RespondError(c, http.StatusBadRequest, "invalid_request", err)
			return
		}
		for key, values := range c.Request.PostForm {
			if len(values) == 0 || values[0] == "" {
				fields[key] = nil
				continue
			}
			fields[key] = values[0]
		}
	}

	_, err := sess.SetFields(c.Request.Context(), id, fields)
	h.done(c, sess, err)
}

func (h *EditorHandler) RemoveBlock(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	_, err := sess.RemoveBlock(c.Request.Context(), c.Param("block_id"))
	h.done(c, sess, err)
}

type viewportRequest struct {
	Viewport string `json:"viewport" form:"viewport" binding:"required"`
}

func (h *EditorHandler) SetViewport(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	var req viewportRequest
	if err := c.ShouldBind(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	err := sess.SetViewport(c.Request.Context(), domain.Viewport(req.Viewport))
	h.done(c, sess, err)
}

func (h *EditorHandler) Save(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	h.done(c, sess, sess.Save(c.Request.Context()))
}

func (h *EditorHandler) ApplyTheme(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	themeID := c.Param("theme_id")
	_, err := sess.ApplyTheme(c.Request.Context(), themeID)
	if err == nil && h.cfg.RemoteThemes != nil && c.Query("remote") == "true" {
		err = h.cfg.RemoteThemes.ApplyTheme(c.Request.Context(), themeID)
	}
	h.done(c, sess, err)
}

func (h *EditorHandler) ListThemes(c *gin.Context) {
	list := h.cfg.Editor.Themes().List()
	if wantsJSON(c) {
		RespondOK(c, list)
		return
	}
	c.HTML(http.StatusOK, "themes", list)
}

package blocks

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"

	"pagebuilder/internal/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// RenderContext carries page-level data some renderers use.
type RenderContext struct {
	Products []domain.Product
	Currency string
}

type unknownData struct {
	Type   domain.BlockType
	Fields int
}

// Render writes the HTML for one block. Types without a descriptor render
// as an "unsupported section" notice instead of failing.
func (r *Registry) Render(w io.Writer, b domain.Block, rc RenderContext) error {
	d, err := r.Lookup(b.Type)
	if err != nil {
		n := 0
		if b.Props != nil {
			n = len(b.Props.Values())
		}
		return templates.ExecuteTemplate(w, "unknown", unknownData{Type: b.Type, Fields: n})
	}
	props := b.Props
	if props == nil {
		props = d.Empty()
	}
	if err := templates.ExecuteTemplate(w, string(d.Type), d.view(props, rc)); err != nil {
		return fmt.Errorf("render %s block %s: %w", b.Type, b.ID, err)
	}
	return nil
}

// RenderHTML renders one block to a trusted HTML fragment.
func (r *Registry) RenderHTML(b domain.Block, rc RenderContext) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.Render(&buf, b, rc); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

type pageData struct {
	Title    string
	Width    int
	Sections []template.HTML
}

// RenderPage writes a standalone HTML document for the composition at the
// given viewport width.
func (r *Registry) RenderPage(w io.Writer, title string, c domain.Composition, vp domain.Viewport, rc RenderContext) error {
	data := pageData{Title: title, Width: vp.Width()}
	for _, b := range c {
		html, err := r.RenderHTML(b, rc)
		if err != nil {
			return err
		}
		data.Sections = append(data.Sections, html)
	}
	return templates.ExecuteTemplate(w, "page", data)
}

// FieldValue returns the current value of key formatted for a form input.
func FieldValue(p domain.Props, key string) string {
	if p == nil {
		return ""
	}
	v, ok := p.Values()[key]
	if !ok || v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

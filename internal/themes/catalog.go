// Package themes holds the community theme catalog: ready-made block
// compositions with a static preview.
package themes

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"sort"
	"strings"
	"sync"

	"pagebuilder/internal/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

var previewTmpl = template.Must(template.ParseFS(templateFS, "templates/*.html"))

var ErrThemeNotFound = errors.New("theme not found")

type PageType string

const (
	PageTypeLanding   PageType = "landing"
	PageTypeEcommerce PageType = "ecommerce"
	PageTypeSoftware  PageType = "software"
	PageTypeVideo     PageType = "video"
)

// Theme is one catalog entry. Components is the composition a page gets
// when the theme is applied; ids in it are placeholders and are replaced
// on every apply.
type Theme struct {
	ID          string             `json:"id" yaml:"id"`
	Name        string             `json:"name" yaml:"name"`
	Description string             `json:"description" yaml:"description"`
	Accent      string             `json:"accent" yaml:"accent"`
	Author      string             `json:"author" yaml:"author"`
	Tags        []string           `json:"tags" yaml:"tags"`
	PageType    PageType           `json:"pageType" yaml:"page_type"`
	Headline    string             `json:"headline" yaml:"headline"`
	Lead        string             `json:"lead" yaml:"lead"`
	CTA         string             `json:"cta" yaml:"cta"`
	Extra       string             `json:"extra,omitempty" yaml:"extra,omitempty"`
	Components  domain.Composition `json:"components" yaml:"-"`
}

// Instantiate returns a copy of the theme composition with fresh ids.
func (t Theme) Instantiate(newID func() string) domain.Composition {
	out := t.Components.Clone()
	for i := range out {
		out[i].ID = newID()
	}
	return out
}

// Preview writes the theme's static preview HTML.
func (t Theme) Preview(w io.Writer) error {
	data := t
	if data.Extra == "" {
		data.Extra = "Flexible layout for pages and stores"
	}
	if err := previewTmpl.ExecuteTemplate(w, "preview", data); err != nil {
		return fmt.Errorf("render preview %s: %w", t.ID, err)
	}
	return nil
}

func (t Theme) PreviewHTML() (template.HTML, error) {
	var buf bytes.Buffer
	if err := t.Preview(&buf); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

// Catalog is an ordered, concurrency-safe set of themes.
type Catalog struct {
	mu     sync.RWMutex
	order  []string
	themes map[string]Theme
}

func NewCatalog(themes ...Theme) *Catalog {
	c := &Catalog{themes: make(map[string]Theme)}
	for _, t := range themes {
		c.Add(t)
	}
	return c
}

// Add registers t, replacing a theme with the same id in place.
func (c *Catalog) Add(t Theme) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.themes[t.ID]; !ok {
		c.order = append(c.order, t.ID)
	}
	c.themes[t.ID] = t
}

func (c *Catalog) Get(id string) (Theme, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.themes[id]
	if !ok {
		return Theme{}, fmt.Errorf("%w: %s", ErrThemeNotFound, id)
	}
	return t, nil
}

// List returns themes in catalog order.
func (c *Catalog) List() []Theme {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Theme, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.themes[id])
	}
	return out
}

// Search returns themes whose tags or page type contain tag.
func (c *Catalog) Search(tag string) []Theme {
	tag = strings.ToLower(strings.TrimSpace(tag))
	var out []Theme
	for _, t := range c.List() {
		if tag == "" || string(t.PageType) == tag {
			out = append(out, t)
			continue
		}
		for _, tg := range t.Tags {
			if strings.ToLower(tg) == tag {
				out = append(out, t)
				break
			}
		}
	}
	return out
}

// Tags returns every distinct tag, sorted.
func (c *Catalog) Tags() []string {
	seen := map[string]struct{}{}
	for _, t := range c.List() {
		for _, tg := range t.Tags {
			seen[tg] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for tg := range seen {
		out = append(out, tg)
	}
	sort.Strings(out)
	return out
}

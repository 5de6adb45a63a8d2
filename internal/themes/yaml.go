package themes

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"pagebuilder/internal/domain"
)

type yamlBlock struct {
	ID    string         `yaml:"id"`
	Type  string         `yaml:"type"`
	Props map[string]any `yaml:"props,omitempty"`
}

type yamlTheme struct {
	Theme      `yaml:",inline"`
	Components []yamlBlock `yaml:"components"`
}

// ExportYAML writes t as a YAML document that ParseYAML reads back.
func ExportYAML(w io.Writer, t Theme) error {
	doc := yamlTheme{Theme: t}
	for _, b := range t.Components {
		yb := yamlBlock{ID: b.ID, Type: string(b.Type)}
		if b.Props != nil {
			yb.Props = b.Props.Values()
		}
		doc.Components = append(doc.Components, yb)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode theme %s: %w", t.ID, err)
	}
	return enc.Close()
}

// ParseYAML reads one theme document.
func ParseYAML(data []byte) (Theme, error) {
	var doc yamlTheme
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return Theme{}, fmt.Errorf("decode theme: %w", err)
	}
	if doc.ID == "" {
		return Theme{}, fmt.Errorf("decode theme: missing id")
	}

	t := doc.Theme
	t.Components = domain.Composition{}
	for _, yb := range doc.Components {
		typ := domain.BlockType(yb.Type)
		t.Components = append(t.Components, domain.Block{ID: yb.ID, Type: typ, Props: domain.DecodeProps(typ, yb.Props)})
	}
	if err := t.Components.Validate(); err != nil {
		return Theme{}, fmt.Errorf("theme %s: %w", t.ID, err)
	}
	return t, nil
}

// LoadDir adds every *.yaml theme in dir to the catalog. A missing dir is
// not an error. It returns the number of themes loaded.
func (c *Catalog) LoadDir(dir string) (int, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return 0, err
	}
	n := 0
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return n, fmt.Errorf("read %s: %w", p, err)
		}
		t, err := ParseYAML(data)
		if err != nil {
			return n, fmt.Errorf("%s: %w", filepath.Base(p), err)
		}
		c.Add(t)
		n++
	}
	return n, nil
}

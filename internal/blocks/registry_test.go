package blocks

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"pagebuilder/internal/domain"
)

func TestDefault_PaletteOrder(t *testing.T) {
	got := Default().Types()
	want := []domain.BlockType{domain.BlockTypeHero, domain.BlockTypeProducts, domain.BlockTypeCTA}
	if len(got) != len(want) {
		t.Fatalf("expected %d types, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("type %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestLookup_Unknown(t *testing.T) {
	_, err := Default().Lookup("carousel")
	if !errors.Is(err, domain.ErrUnknownBlockType) {
		t.Fatalf("expected ErrUnknownBlockType, got %v", err)
	}
}

func TestRegister_DuplicatePanics(t *testing.T) {
	r := NewRegistry()
	r.Register(&Descriptor{Type: "x", Label: "X"})
	defer func() {
		if recover() == nil {
			t.Error("expected panic on duplicate registration")
		}
	}()
	r.Register(&Descriptor{Type: "x", Label: "X again"})
}

func TestDescriptors_EmptyPropsAndFields(t *testing.T) {
	for _, d := range Default().Descriptors() {
		if d.Label == "" {
			t.Errorf("%s: empty label", d.Type)
		}
		if len(d.Empty().Values()) != 0 {
			t.Errorf("%s: empty props template is not empty", d.Type)
		}
		if d.Empty().BlockType() != d.Type {
			t.Errorf("%s: empty props report type %s", d.Type, d.Empty().BlockType())
		}
		for _, f := range d.Fields {
			if _, err := d.Empty().With(f.Key, sampleValue(f)); err != nil {
				t.Errorf("%s.%s: schema field rejected by props: %v", d.Type, f.Key, err)
			}
		}
	}
}

func sampleValue(f Field) any {
	if f.Kind == FieldNumber {
		return "3"
	}
	return "value"
}

func TestRender_Placeholders(t *testing.T) {
	var buf bytes.Buffer
	err := Default().Render(&buf, domain.NewBlock("b1", domain.BlockTypeHero), RenderContext{})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "Main headline") {
		t.Errorf("expected placeholder title, got:\n%s", buf.String())
	}
}

func TestRender_EscapesProps(t *testing.T) {
	props, _ := domain.EmptyProps(domain.BlockTypeCTA).With("title", "<script>alert(1)</script>")
	b := domain.Block{ID: "c", Type: domain.BlockTypeCTA, Props: props}

	html, err := Default().RenderHTML(b, RenderContext{})
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(html), "<script>") {
		t.Errorf("prop value was not escaped:\n%s", html)
	}
}

func TestRender_ProductsUsesVisibleProducts(t *testing.T) {
	rc := RenderContext{
		Currency: "R$",
		Products: []domain.Product{
			{Name: "Mug", PriceCents: 2550, Visible: true},
			{Name: "Hidden", PriceCents: 100, Visible: false},
		},
	}
	html, err := Default().RenderHTML(domain.NewBlock("p", domain.BlockTypeProducts), rc)
	if err != nil {
		t.Fatal(err)
	}
	s := string(html)
	if !strings.Contains(s, "Mug") || !strings.Contains(s, "R$ 25.50") {
		t.Errorf("expected visible product card, got:\n%s", s)
	}
	if strings.Contains(s, "Hidden") || strings.Contains(s, "Sample product") {
		t.Errorf("unexpected card in output:\n%s", s)
	}
}

func TestRender_UnknownType(t *testing.T) {
	b := domain.Block{ID: "f", Type: "footer", Props: domain.DecodeProps("footer", map[string]any{"brand": "Acme"})}
	html, err := Default().RenderHTML(b, RenderContext{})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(html), "Unsupported section") {
		t.Errorf("expected unsupported notice, got:\n%s", html)
	}
}

func TestRenderPage_ViewportWidth(t *testing.T) {
	comp := domain.Composition{
		domain.NewBlock("a", domain.BlockTypeHero),
		domain.NewBlock("b", domain.BlockTypeCTA),
	}
	var buf bytes.Buffer
	if err := Default().RenderPage(&buf, "Home", comp, domain.ViewportMobile, RenderContext{}); err != nil {
		t.Fatal(err)
	}
	s := buf.String()
	if !strings.Contains(s, "max-width:375px") {
		t.Errorf("expected mobile width in wrapper, got:\n%s", s)
	}
	if strings.Index(s, "pb-hero") > strings.Index(s, "pb-cta") {
		t.Error("sections rendered out of composition order")
	}
}

func TestFieldValue(t *testing.T) {
	p, _ := domain.EmptyProps(domain.BlockTypeProducts).With("columns", 3)
	if got := FieldValue(p, "columns"); got != "3" {
		t.Errorf("FieldValue(columns) = %q, want 3", got)
	}
	if got := FieldValue(p, "title"); got != "" {
		t.Errorf("FieldValue(title) = %q, want empty", got)
	}
}

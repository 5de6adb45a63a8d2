package domain

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNewBlock_EmptyProps(t *testing.T) {
	b := NewBlock("b1", BlockTypeHero)
	data, err := json.Marshal(b)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"id":"b1","type":"hero","props":{}}`
	if string(data) != want {
		t.Errorf("got %s, want %s", data, want)
	}
}

func TestBlock_RoundTripKeepsUnknownFields(t *testing.T) {
	in := `[
		{"id":"a","type":"hero","props":{"title":"Welcome","subtitle":"","accent":"#fff","count":3}},
		{"id":"b","type":"products","props":{"columns":3,"linkText":"All"}},
		{"id":"c","type":"products","props":{"columns":2.5}},
		{"id":"d","type":"cta","props":{"buttonText":"Go","title":7}},
		{"id":"e","type":"footer","props":{"brand":"Acme","dark":true}}
	]`
	comp, err := DecodeComposition([]byte(in))
	if err != nil {
		t.Fatal(err)
	}
	out, err := json.Marshal(comp)
	if err != nil {
		t.Fatal(err)
	}

	var want, got any
	_ = json.Unmarshal([]byte(in), &want)
	_ = json.Unmarshal(out, &got)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeProps_TypedFields(t *testing.T) {
	p := DecodeProps(BlockTypeHero, map[string]any{"title": "Hi", "subtitle": "There"})
	hero, ok := p.(HeroProps)
	if !ok {
		t.Fatalf("expected HeroProps, got %T", p)
	}
	if StringOr(hero.Title, "") != "Hi" || StringOr(hero.Subtitle, "") != "There" {
		t.Errorf("unexpected hero props: %+v", hero)
	}
	if hero.Extra != nil {
		t.Errorf("expected no extra fields, got %v", hero.Extra)
	}

	p = DecodeProps(BlockTypeProducts, map[string]any{"columns": float64(3)})
	if got := IntOr(p.(ProductsProps).Columns, 4); got != 3 {
		t.Errorf("columns = %d, want 3", got)
	}

	p = DecodeProps("footer", map[string]any{"brand": "Acme"})
	if _, ok := p.(RawProps); !ok {
		t.Errorf("expected RawProps for unknown type, got %T", p)
	}
}

func TestProps_WithIsShallowMerge(t *testing.T) {
	base, err := EmptyProps(BlockTypeCTA).With("title", "One")
	if err != nil {
		t.Fatal(err)
	}
	next, err := base.With("buttonText", "Join")
	if err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff(map[string]any{"title": "One"}, base.Values()); diff != "" {
		t.Errorf("base props changed (-want +got):\n%s", diff)
	}
	want := map[string]any{"title": "One", "buttonText": "Join"}
	if diff := cmp.Diff(want, next.Values()); diff != "" {
		t.Errorf("merged props (-want +got):\n%s", diff)
	}

	cleared, err := next.With("title", nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := cleared.Values()["title"]; ok {
		t.Error("expected nil value to remove the field")
	}
}

func TestProps_WithValidation(t *testing.T) {
	tests := []struct {
		name  string
		typ   BlockType
		key   string
		value any
		ok    bool
	}{
		{"hero title text", BlockTypeHero, "title", "x", true},
		{"hero title number", BlockTypeHero, "title", 4.0, false},
		{"columns from form", BlockTypeProducts, "columns", "3", true},
		{"columns fraction", BlockTypeProducts, "columns", 2.5, false},
		{"columns garbage", BlockTypeProducts, "columns", "three", false},
		{"extra bool", BlockTypeCTA, "dark", true, true},
		{"extra slice", BlockTypeCTA, "list", []string{"a"}, false},
		{"empty key", BlockTypeHero, "", "x", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := EmptyProps(tt.typ).With(tt.key, tt.value)
			if tt.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tt.ok && !errors.Is(err, ErrInvalidFieldValue) {
				t.Fatalf("expected ErrInvalidFieldValue, got %v", err)
			}
		})
	}
}

func TestBlock_CloneIsIndependent(t *testing.T) {
	props, _ := EmptyProps(BlockTypeHero).With("title", "A")
	props, _ = props.With("extra", "x")
	b := Block{ID: "1", Type: BlockTypeHero, Props: props}

	c := b.Clone()
	c.Props, _ = c.Props.With("title", "B")

	if got := StringOr(b.Props.(HeroProps).Title, ""); got != "A" {
		t.Errorf("original title changed to %q", got)
	}
}

func TestComposition_DuplicateIDs(t *testing.T) {
	_, err := DecodeComposition([]byte(`[{"id":"x","type":"hero","props":{}},{"id":"x","type":"cta","props":{}}]`))
	if !errors.Is(err, ErrDuplicateBlockID) {
		t.Fatalf("expected ErrDuplicateBlockID, got %v", err)
	}

	_, err = DecodeComposition([]byte(`[{"type":"hero","props":{}}]`))
	if !errors.Is(err, ErrMissingBlockID) {
		t.Fatalf("expected ErrMissingBlockID, got %v", err)
	}
}

func TestComposition_NilEncodesAsArray(t *testing.T) {
	var c Composition
	data, err := json.Marshal(c)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "[]" {
		t.Errorf("got %s, want []", data)
	}

	got, err := DecodeComposition([]byte("null"))
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty composition, got %#v", got)
	}
}

func TestParseViewport(t *testing.T) {
	for _, s := range []string{"desktop", "tablet", "mobile"} {
		v, err := ParseViewport(s)
		if err != nil {
			t.Fatalf("ParseViewport(%q): %v", s, err)
		}
		if v.Width() <= 0 {
			t.Errorf("%s width = %d", s, v.Width())
		}
	}
	if _, err := ParseViewport("watch"); err == nil {
		t.Error("expected error for unknown viewport")
	}
	if ViewportMobile.Width() >= ViewportTablet.Width() || ViewportTablet.Width() >= ViewportDesktop.Width() {
		t.Error("viewport widths should grow mobile < tablet < desktop")
	}
}

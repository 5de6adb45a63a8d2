package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Props is the typed payload of a block, one implementation per block type.
// Values returns the loose wire form; With returns a copy with a single key
// shallow-merged in. A nil value removes the key.
type Props interface {
	BlockType() BlockType
	Values() map[string]any
	With(key string, value any) (Props, error)
}

// EmptyProps returns the empty payload for t.
func EmptyProps(t BlockType) Props {
	switch t {
	case BlockTypeHero:
		return HeroProps{}
	case BlockTypeProducts:
		return ProductsProps{}
	case BlockTypeCTA:
		return CTAProps{}
	}
	return RawProps{Kind: t}
}

// DecodeProps builds the typed payload for t from wire values. Keys that are
// not part of the type's schema, or that carry an unexpected JSON type, are
// kept in Extra so that encoding the result reproduces the input.
func DecodeProps(t BlockType, values map[string]any) Props {
	rest := copyValues(values)
	switch t {
	case BlockTypeHero:
		return HeroProps{
			Title:    takeString(rest, "title"),
			Subtitle: takeString(rest, "subtitle"),
			Extra:    nilIfEmpty(rest),
		}
	case BlockTypeProducts:
		return ProductsProps{
			Title:    takeString(rest, "title"),
			LinkText: takeString(rest, "linkText"),
			Columns:  takeInt(rest, "columns"),
			Extra:    nilIfEmpty(rest),
		}
	case BlockTypeCTA:
		return CTAProps{
			Title:      takeString(rest, "title"),
			Subtitle:   takeString(rest, "subtitle"),
			ButtonText: takeString(rest, "buttonText"),
			Extra:      nilIfEmpty(rest),
		}
	}
	return RawProps{Kind: t, Fields: nilIfEmpty(rest)}
}

// ── hero ───────────────────────────────────────────────────

type HeroProps struct {
	Title    *string
	Subtitle *string
	Extra    map[string]any
}

func (HeroProps) BlockType() BlockType { return BlockTypeHero }

func (p HeroProps) Values() map[string]any {
	out := copyValues(p.Extra)
	putString(out, "title", p.Title)
	putString(out, "subtitle", p.Subtitle)
	return out
}

func (p HeroProps) With(key string, value any) (Props, error) {
	var err error
	switch key {
	case "title":
		p.Title, err = asString(key, value)
	case "subtitle":
		p.Subtitle, err = asString(key, value)
	default:
		p.Extra, err = withExtra(p.Extra, key, value)
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// ── products ───────────────────────────────────────────────

type ProductsProps struct {
	Title    *string
	LinkText *string
	Columns  *int
	Extra    map[string]any
}

func (ProductsProps) BlockType() BlockType { return BlockTypeProducts }

func (p ProductsProps) Values() map[string]any {
	out := copyValues(p.Extra)
	putString(out, "title", p.Title)
	putString(out, "linkText", p.LinkText)
	if p.Columns != nil {
		out["columns"] = *p.Columns
	}
	return out
}

func (p ProductsProps) With(key string, value any) (Props, error) {
	var err error
	switch key {
	case "title":
		p.Title, err = asString(key, value)
	case "linkText":
		p.LinkText, err = asString(key, value)
	case "columns":
		p.Columns, err = asInt(key, value)
	default:
		p.Extra, err = withExtra(p.Extra, key, value)
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// ── cta ────────────────────────────────────────────────────

type CTAProps struct {
	Title      *string
	Subtitle   *string
	ButtonText *string
	Extra      map[string]any
}

func (CTAProps) BlockType() BlockType { return BlockTypeCTA }

func (p CTAProps) Values() map[string]any {
	out := copyValues(p.Extra)
	putString(out, "title", p.Title)
	putString(out, "subtitle", p.Subtitle)
	putString(out, "buttonText", p.ButtonText)
	return out
}

func (p CTAProps) With(key string, value any) (Props, error) {
	var err error
	switch key {
	case "title":
		p.Title, err = asString(key, value)
	case "subtitle":
		p.Subtitle, err = asString(key, value)
	case "buttonText":
		p.ButtonText, err = asString(key, value)
	default:
		p.Extra, err = withExtra(p.Extra, key, value)
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// ── unknown types ──────────────────────────────────────────

// RawProps carries the props of a block type this build does not know
// (e.g. a footer section written by a newer client). It round-trips untouched.
type RawProps struct {
	Kind   BlockType
	Fields map[string]any
}

func (p RawProps) BlockType() BlockType { return p.Kind }

func (p RawProps) Values() map[string]any { return copyValues(p.Fields) }

func (p RawProps) With(key string, value any) (Props, error) {
	fields, err := withExtra(p.Fields, key, value)
	if err != nil {
		return nil, err
	}
	p.Fields = fields
	return p, nil
}

// StringOr dereferences s, falling back to def when s is nil or blank.
func StringOr(s *string, def string) string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return def
	}
	return *s
}

// IntOr dereferences n, falling back to def when n is nil or not positive.
func IntOr(n *int, def int) int {
	if n == nil || *n <= 0 {
		return def
	}
	return *n
}

// ── helpers ────────────────────────────────────────────────

func copyValues(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func nilIfEmpty(m map[string]any) map[string]any {
	if len(m) == 0 {
		return nil
	}
	return m
}

func putString(m map[string]any, key string, v *string) {
	if v != nil {
		m[key] = *v
	}
}

func takeString(m map[string]any, key string) *string {
	s, ok := m[key].(string)
	if !ok {
		return nil
	}
	delete(m, key)
	return &s
}

func takeInt(m map[string]any, key string) *int {
	var n int
	switch v := m[key].(type) {
	case int:
		n = v
	case float64:
		if v != math.Trunc(v) || math.Abs(v) > math.MaxInt32 {
			return nil
		}
		n = int(v)
	default:
		return nil
	}
	delete(m, key)
	return &n
}

func asString(key string, v any) (*string, error) {
	switch s := v.(type) {
	case nil:
		return nil, nil
	case string:
		return &s, nil
	}
	return nil, fmt.Errorf("%w: %s must be text, got %T", ErrInvalidFieldValue, key, v)
}

func asInt(key string, v any) (*int, error) {
	switch n := v.(type) {
	case nil:
		return nil, nil
	case int:
		return &n, nil
	case int64:
		i := int(n)
		return &i, nil
	case float64:
		if n == math.Trunc(n) {
			i := int(n)
			return &i, nil
		}
	case string:
		if strings.TrimSpace(n) == "" {
			return nil, nil
		}
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err == nil {
			return &i, nil
		}
	}
	return nil, fmt.Errorf("%w: %s must be a whole number, got %v", ErrInvalidFieldValue, key, v)
}

func withExtra(extra map[string]any, key string, v any) (map[string]any, error) {
	if key == "" {
		return nil, fmt.Errorf("%w: empty field name", ErrInvalidFieldValue)
	}
	out := copyValues(extra)
	switch n := v.(type) {
	case nil:
		delete(out, key)
	case string, bool, float64:
		out[key] = n
	case int:
		out[key] = float64(n)
	default:
		return nil, fmt.Errorf("%w: %s must be text, number or boolean, got %T", ErrInvalidFieldValue, key, v)
	}
	return nilIfEmpty(out), nil
}

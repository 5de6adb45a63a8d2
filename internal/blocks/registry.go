package blocks

import (
	"fmt"
	"sync"

	"pagebuilder/internal/domain"
)

// ─────────────────────────────────────────────────────────────
// Block Registry: one descriptor per block type
// ─────────────────────────────────────────────────────────────

type FieldKind string

const (
	FieldText   FieldKind = "text"
	FieldNumber FieldKind = "number"
)

// Field is one editable prop shown by the inspector.
type Field struct {
	Key         string    `json:"key"`
	Label       string    `json:"label"`
	Kind        FieldKind `json:"kind"`
	Placeholder string    `json:"placeholder"`
}

// Descriptor is everything the palette, canvas and inspector need to know
// about a block type.
type Descriptor struct {
	Type   domain.BlockType `json:"type"`
	Label  string           `json:"label"`
	Fields []Field          `json:"fields"`

	// view maps typed props to the template's data, filling placeholders.
	view func(p domain.Props, rc RenderContext) any
}

// Empty returns the empty props template for this type.
func (d *Descriptor) Empty() domain.Props {
	return domain.EmptyProps(d.Type)
}

// Field looks up a field by key.
func (d *Descriptor) Field(key string) (Field, bool) {
	for _, f := range d.Fields {
		if f.Key == key {
			return f, true
		}
	}
	return Field{}, false
}

// Registry holds descriptors in registration order (the palette order).
type Registry struct {
	mu    sync.RWMutex
	order []domain.BlockType
	byTyp map[domain.BlockType]*Descriptor
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byTyp: make(map[domain.BlockType]*Descriptor)}
}

// Register adds a descriptor. Panics on duplicate registration.
func (r *Registry) Register(d *Descriptor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byTyp[d.Type]; exists {
		panic(fmt.Sprintf("block registry: duplicate registration for block type %q", d.Type))
	}
	r.byTyp[d.Type] = d
	r.order = append(r.order, d.Type)
}

// Lookup returns the descriptor for t.
func (r *Registry) Lookup(t domain.BlockType) (*Descriptor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.byTyp[t]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownBlockType, t)
	}
	return d, nil
}

// Descriptors returns all descriptors in palette order.
func (r *Registry) Descriptors() []*Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Descriptor, 0, len(r.order))
	for _, t := range r.order {
		out = append(out, r.byTyp[t])
	}
	return out
}

// Types returns the registered type tags in palette order.
func (r *Registry) Types() []domain.BlockType {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]domain.BlockType(nil), r.order...)
}

var (
	defaultOnce sync.Once
	defaultReg  *Registry
)

// Default returns the registry with the built-in block types.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultReg = NewRegistry()
		for _, d := range builtins() {
			defaultReg.Register(d)
		}
	})
	return defaultReg
}

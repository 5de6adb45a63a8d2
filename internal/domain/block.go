package domain

import (
	"encoding/json"
	"fmt"
)

type BlockType string

const (
	BlockTypeHero     BlockType = "hero"
	BlockTypeProducts BlockType = "products"
	BlockTypeCTA      BlockType = "cta"
)

// Known reports whether t is one of the block types the builder can edit.
func (t BlockType) Known() bool {
	switch t {
	case BlockTypeHero, BlockTypeProducts, BlockTypeCTA:
		return true
	}
	return false
}

// Block is one section of a page. Props always matches Type; for block types
// the builder does not know, Props is a RawProps carrying the wire values.
type Block struct {
	ID    string
	Type  BlockType
	Props Props
}

// wireBlock is the JSON shape exchanged with the backend.
type wireBlock struct {
	ID    string         `json:"id"`
	Type  BlockType      `json:"type"`
	Props map[string]any `json:"props"`
}

// NewBlock returns a block of type t with empty props.
func NewBlock(id string, t BlockType) Block {
	return Block{ID: id, Type: t, Props: EmptyProps(t)}
}

// Clone returns a copy that shares no mutable state with b.
func (b Block) Clone() Block {
	out := b
	if b.Props != nil {
		out.Props = DecodeProps(b.Type, b.Props.Values())
	}
	return out
}

func (b Block) MarshalJSON() ([]byte, error) {
	props := map[string]any{}
	if b.Props != nil {
		props = b.Props.Values()
	}
	return json.Marshal(wireBlock{ID: b.ID, Type: b.Type, Props: props})
}

func (b *Block) UnmarshalJSON(data []byte) error {
	var w wireBlock
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	if w.ID == "" {
		return fmt.Errorf("block: %w", ErrMissingBlockID)
	}
	b.ID = w.ID
	b.Type = w.Type
	b.Props = DecodeProps(w.Type, w.Props)
	return nil
}

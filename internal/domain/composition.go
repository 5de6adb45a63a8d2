package domain

import (
	"encoding/json"
	"fmt"
)

// Composition is the ordered list of blocks forming one page's content.
// Slice order is the visual top-to-bottom order.
type Composition []Block

// Validate checks that every block has an id and that ids are unique.
func (c Composition) Validate() error {
	seen := make(map[string]struct{}, len(c))
	for i, b := range c {
		if b.ID == "" {
			return fmt.Errorf("block %d: %w", i, ErrMissingBlockID)
		}
		if _, dup := seen[b.ID]; dup {
			return fmt.Errorf("block %d: %w: %s", i, ErrDuplicateBlockID, b.ID)
		}
		seen[b.ID] = struct{}{}
	}
	return nil
}

// IndexOf returns the position of the block with id, or -1.
func (c Composition) IndexOf(id string) int {
	for i := range c {
		if c[i].ID == id {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy.
func (c Composition) Clone() Composition {
	if c == nil {
		return Composition{}
	}
	out := make(Composition, len(c))
	for i := range c {
		out[i] = c[i].Clone()
	}
	return out
}

// MarshalJSON always encodes an array, never null.
func (c Composition) MarshalJSON() ([]byte, error) {
	if c == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]Block(c))
}

func (c *Composition) UnmarshalJSON(data []byte) error {
	var blocks []Block
	if err := json.Unmarshal(data, &blocks); err != nil {
		return err
	}
	out := Composition(blocks)
	if out == nil {
		out = Composition{}
	}
	if err := out.Validate(); err != nil {
		return err
	}
	*c = out
	return nil
}

// DecodeComposition parses a JSON array of blocks.
func DecodeComposition(data []byte) (Composition, error) {
	var c Composition
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decode composition: %w", err)
	}
	return c, nil
}

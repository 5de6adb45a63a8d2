package editor

import (
	"fmt"
	"maps"
	"slices"

	"github.com/google/uuid"

	"pagebuilder/internal/blocks"
	"pagebuilder/internal/domain"
)

// Store is the in-memory composition of one page plus the current
// selection. It is not safe for concurrent use; the editor session
// serializes access.
type Store struct {
	registry *blocks.Registry
	newID    func() string
	blocks   domain.Composition
	selected string
}

// NewStore creates an empty store backed by reg.
func NewStore(reg *blocks.Registry) *Store {
	return &Store{
		registry: reg,
		newID:    func() string { return uuid.New().String() },
		blocks:   domain.Composition{},
	}
}

// Add appends a block of type t with a fresh id and empty props.
func (s *Store) Add(t domain.BlockType) (domain.Block, error) {
	d, err := s.registry.Lookup(t)
	if err != nil {
		return domain.Block{}, err
	}
	b := domain.Block{ID: s.newID(), Type: d.Type, Props: d.Empty()}
	s.blocks = append(s.blocks, b)
	return b.Clone(), nil
}

// Update replaces the block whose id matches b.ID. It reports false and
// leaves the composition untouched when no such block exists.
func (s *Store) Update(b domain.Block) bool {
	i := s.blocks.IndexOf(b.ID)
	if i < 0 {
		return false
	}
	s.blocks[i] = b.Clone()
	return true
}

// SetField shallow-merges one prop into the block with id.
func (s *Store) SetField(id, key string, value any) (domain.Block, error) {
	i := s.blocks.IndexOf(id)
	if i < 0 {
		return domain.Block{}, fmt.Errorf("%w: %s", domain.ErrBlockNotFound, id)
	}
	b := s.blocks[i]
	props := b.Props
	if props == nil {
		props = domain.EmptyProps(b.Type)
	}
	next, err := props.With(key, value)
	if err != nil {
		return domain.Block{}, err
	}
	b.Props = next
	s.Update(b)
	return b.Clone(), nil
}

// SetFields merges several props into block id as one change, in key
// order. If any value is rejected the block is left untouched.
func (s *Store) SetFields(id string, fields map[string]any) (domain.Block, error) {
	i := s.blocks.IndexOf(id)
	if i < 0 {
		return domain.Block{}, fmt.Errorf("%w: %s", domain.ErrBlockNotFound, id)
	}
	b := s.blocks[i]
	props := b.Props
	if props == nil {
		props = domain.EmptyProps(b.Type)
	}
	for _, key := range slices.Sorted(maps.Keys(fields)) {
		next, err := props.With(key, fields[key])
		if err != nil {
			return domain.Block{}, err
		}
		props = next
	}
	b.Props = props
	s.Update(b)
	return b.Clone(), nil
}

// Remove drops the block with id and clears the selection if it pointed at
// it. It reports whether a block was removed.
func (s *Store) Remove(id string) bool {
	i := s.blocks.IndexOf(id)
	if i < 0 {
		return false
	}
	s.blocks = append(s.blocks[:i:i], s.blocks[i+1:]...)
	if s.selected == id {
		s.selected = ""
	}
	return true
}

// Select sets the active block. An empty or unknown id clears the selection.
func (s *Store) Select(id string) {
	if s.blocks.IndexOf(id) < 0 {
		s.selected = ""
		return
	}
	s.selected = id
}

// SelectedID returns the selected block id or "".
func (s *Store) SelectedID() string { return s.selected }

// Selected returns a copy of the selected block.
func (s *Store) Selected() (domain.Block, bool) {
	i := s.blocks.IndexOf(s.selected)
	if i < 0 {
		return domain.Block{}, false
	}
	return s.blocks[i].Clone(), true
}

// Replace swaps in a whole composition and clears the selection.
func (s *Store) Replace(c domain.Composition) error {
	if err := c.Validate(); err != nil {
		return err
	}
	s.blocks = c.Clone()
	s.selected = ""
	return nil
}

// Blocks returns a deep copy of the composition.
func (s *Store) Blocks() domain.Composition { return s.blocks.Clone() }

// Len returns the number of blocks.
func (s *Store) Len() int { return len(s.blocks) }

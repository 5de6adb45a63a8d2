package editor

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"

	"pagebuilder/internal/blocks"
	"pagebuilder/internal/domain"
)

func newTestStore() *Store {
	return NewStore(blocks.Default())
}

func TestStore_HeroScenario(t *testing.T) {
	s := newTestStore()

	b, err := s.Add(domain.BlockTypeHero)
	if err != nil {
		t.Fatal(err)
	}
	if s.Len() != 1 || b.Type != domain.BlockTypeHero || len(b.Props.Values()) != 0 {
		t.Fatalf("unexpected state after add: len=%d block=%+v", s.Len(), b)
	}

	s.Select(b.ID)
	updated, err := s.SetField(b.ID, "title", "Welcome")
	if err != nil {
		t.Fatal(err)
	}
	if updated.ID != b.ID {
		t.Errorf("id changed from %s to %s", b.ID, updated.ID)
	}
	if got := s.Blocks()[0].Props.Values()["title"]; got != "Welcome" {
		t.Errorf("title = %v, want Welcome", got)
	}

	if !s.Remove(b.ID) {
		t.Fatal("expected remove to succeed")
	}
	if s.Len() != 0 {
		t.Errorf("len = %d, want 0", s.Len())
	}
	if s.SelectedID() != "" {
		t.Errorf("selection = %q, want none", s.SelectedID())
	}
}

func TestStore_AddUnknownType(t *testing.T) {
	s := newTestStore()
	if _, err := s.Add("carousel"); !errors.Is(err, domain.ErrUnknownBlockType) {
		t.Fatalf("expected ErrUnknownBlockType, got %v", err)
	}
	if s.Len() != 0 {
		t.Errorf("store changed on failed add: len=%d", s.Len())
	}
}

func TestStore_AddAppendsAtEnd(t *testing.T) {
	s := newTestStore()
	for _, typ := range []domain.BlockType{domain.BlockTypeCTA, domain.BlockTypeHero, domain.BlockTypeProducts} {
		if _, err := s.Add(typ); err != nil {
			t.Fatal(err)
		}
	}
	got := s.Blocks()
	want := []domain.BlockType{domain.BlockTypeCTA, domain.BlockTypeHero, domain.BlockTypeProducts}
	for i := range want {
		if got[i].Type != want[i] {
			t.Errorf("block %d type = %s, want %s", i, got[i].Type, want[i])
		}
	}
}

func TestStore_UpdateMissingIsNoop(t *testing.T) {
	s := newTestStore()
	if _, err := s.Add(domain.BlockTypeHero); err != nil {
		t.Fatal(err)
	}
	before := s.Blocks()

	props, _ := domain.EmptyProps(domain.BlockTypeHero).With("title", "ghost")
	if s.Update(domain.Block{ID: "missing", Type: domain.BlockTypeHero, Props: props}) {
		t.Fatal("expected update of missing block to report false")
	}
	if diff := cmp.Diff(before, s.Blocks()); diff != "" {
		t.Errorf("composition changed (-before +after):\n%s", diff)
	}

	if _, err := s.SetField("missing", "title", "x"); !errors.Is(err, domain.ErrBlockNotFound) {
		t.Errorf("expected ErrBlockNotFound, got %v", err)
	}
}

func TestStore_RemoveKeepsSelectionOfOtherBlock(t *testing.T) {
	s := newTestStore()
	a, _ := s.Add(domain.BlockTypeHero)
	b, _ := s.Add(domain.BlockTypeCTA)

	s.Select(a.ID)
	s.Remove(b.ID)
	if s.SelectedID() != a.ID {
		t.Errorf("selection = %q, want %q", s.SelectedID(), a.ID)
	}
}

func TestStore_SelectUnknownClears(t *testing.T) {
	s := newTestStore()
	a, _ := s.Add(domain.BlockTypeHero)
	s.Select(a.ID)
	s.Select("nope")
	if _, ok := s.Selected(); ok {
		t.Error("expected no selection after selecting an unknown id")
	}
}

func TestStore_BlocksIsACopy(t *testing.T) {
	s := newTestStore()
	a, _ := s.Add(domain.BlockTypeHero)

	c := s.Blocks()
	c[0].Props, _ = c[0].Props.With("title", "mutated")
	c[0].ID = "other"

	got := s.Blocks()[0]
	if got.ID != a.ID || len(got.Props.Values()) != 0 {
		t.Errorf("store mutated through Blocks(): %+v", got)
	}
}

func TestStore_ReplaceRejectsDuplicates(t *testing.T) {
	s := newTestStore()
	a, _ := s.Add(domain.BlockTypeHero)
	s.Select(a.ID)

	dup := domain.Composition{domain.NewBlock("x", domain.BlockTypeHero), domain.NewBlock("x", domain.BlockTypeCTA)}
	if err := s.Replace(dup); !errors.Is(err, domain.ErrDuplicateBlockID) {
		t.Fatalf("expected ErrDuplicateBlockID, got %v", err)
	}
	if s.Len() != 1 || s.SelectedID() != a.ID {
		t.Error("failed replace must not touch the store")
	}

	if err := s.Replace(domain.Composition{domain.NewBlock("y", domain.BlockTypeCTA)}); err != nil {
		t.Fatal(err)
	}
	if s.SelectedID() != "" {
		t.Error("replace should clear the selection")
	}
}

// Random add/remove sequences keep len = adds - removes with unique ids.
func TestStore_RandomAddRemove(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	types := blocks.Default().Types()

	for run := 0; run < 50; run++ {
		s := newTestStore()
		adds, removes := 0, 0
		for step := 0; step < 100; step++ {
			if s.Len() == 0 || rng.Intn(3) > 0 {
				if _, err := s.Add(types[rng.Intn(len(types))]); err != nil {
					t.Fatal(err)
				}
				adds++
				continue
			}
			victim := s.Blocks()[rng.Intn(s.Len())].ID
			if rng.Intn(2) == 0 {
				s.Select(victim)
			}
			if !s.Remove(victim) {
				t.Fatalf("remove of existing block %s failed", victim)
			}
			if s.SelectedID() == victim {
				t.Fatalf("selection still points at removed block %s", victim)
			}
			removes++
		}
		if s.Len() != adds-removes {
			t.Fatalf("run %d: len = %d, want %d", run, s.Len(), adds-removes)
		}
		if err := s.Blocks().Validate(); err != nil {
			t.Fatalf("run %d: %v", run, err)
		}
	}
}

func TestStore_SetFieldsAllOrNothing(t *testing.T) {
	s := newTestStore()
	b, _ := s.Add(domain.BlockTypeProducts)
	before := s.Blocks()

	_, err := s.SetFields(b.ID, map[string]any{"title": "Shop", "linkText": "All", "columns": "abc"})
	if !errors.Is(err, domain.ErrInvalidFieldValue) {
		t.Fatalf("expected ErrInvalidFieldValue, got %v", err)
	}
	if diff := cmp.Diff(before, s.Blocks()); diff != "" {
		t.Errorf("rejected merge changed the block (-before +after):\n%s", diff)
	}

	updated, err := s.SetFields(b.ID, map[string]any{"title": "Shop", "columns": "3"})
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]any{"title": "Shop", "columns": 3}
	if diff := cmp.Diff(want, updated.Props.Values()); diff != "" {
		t.Errorf("props mismatch (-want +got):\n%s", diff)
	}
}

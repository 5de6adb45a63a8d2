package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"pagebuilder/internal/api"
	"pagebuilder/internal/blocks"
	"pagebuilder/internal/domain"
	"pagebuilder/internal/editor"
	"pagebuilder/internal/logger"
	"pagebuilder/internal/themes"
)

var (
	ErrSaveInFlight = errors.New("a save is already in progress for this page")
	ErrNotLoaded    = errors.New("page is not loaded")
)

const savedMessage = "Page saved."

// ─────────────────────────────────────────────────────────────
// Editor Service: one editing session per open page
// ─────────────────────────────────────────────────────────────

// EditorConfig wires an EditorService. Drafts and Tenant are optional.
type EditorConfig struct {
	Registry *blocks.Registry
	Themes   *themes.Catalog
	Pages    PageStore
	Drafts   domain.DraftStore
	Emitter  EventEmitter
	Log      *logger.Logger
	Tenant   func() string
}

// EditorService owns the open editing sessions and the per-page save guard.
type EditorService struct {
	cfg   EditorConfig
	saves inFlightGuard
	loads singleflight.Group

	mu       sync.Mutex
	sessions map[string]*EditorSession
}

func NewEditorService(cfg EditorConfig) *EditorService {
	if cfg.Registry == nil {
		cfg.Registry = blocks.Default()
	}
	if cfg.Themes == nil {
		cfg.Themes = themes.Default()
	}
	if cfg.Log == nil {
		cfg.Log = logger.Nop()
	}
	if cfg.Emitter == nil {
		cfg.Emitter = LogEmitter{Log: cfg.Log}
	}
	if cfg.Tenant == nil {
		cfg.Tenant = func() string { return "" }
	}
	return &EditorService{cfg: cfg, sessions: make(map[string]*EditorSession)}
}

func (s *EditorService) Registry() *blocks.Registry { return s.cfg.Registry }
func (s *EditorService) Themes() *themes.Catalog    { return s.cfg.Themes }

// Open returns the session for pageID, loading the page on first use.
// Concurrent first opens share one load; a load never runs over a session
// that another open already loaded.
func (s *EditorService) Open(ctx context.Context, pageID string) (*EditorSession, error) {
	if pageID == "" {
		return nil, errors.New("page id is required")
	}
	s.mu.Lock()
	sess, ok := s.sessions[pageID]
	if !ok {
		sess = &EditorSession{
			svc:      s,
			pageID:   pageID,
			tenant:   s.cfg.Tenant(),
			store:    editor.NewStore(s.cfg.Registry),
			viewport: domain.ViewportDesktop,
		}
		s.sessions[pageID] = sess
	}
	s.mu.Unlock()

	if sess.Loaded() {
		return sess, nil
	}
	_, err, _ := s.loads.Do(pageID, func() (any, error) {
		if sess.Loaded() {
			return nil, nil
		}
		return nil, sess.Load(ctx)
	})
	return sess, err
}

// Session returns an already opened session.
func (s *EditorService) Session(pageID string) (*EditorSession, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[pageID]
	return sess, ok
}

// Close forgets the session for pageID. Unsaved changes survive only as a
// draft.
func (s *EditorService) Close(pageID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, pageID)
}

// OpenPages lists the page ids with a session, in no particular order.
func (s *EditorService) OpenPages() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		out = append(out, id)
	}
	return out
}

// WaitSaves blocks until in-flight saves finish or ctx is done.
// Used for graceful shutdown.
func (s *EditorService) WaitSaves(ctx context.Context) {
	s.saves.WaitAll(ctx)
}

// EditorState is a snapshot of a session for display.
type EditorState struct {
	PageID    string             `json:"pageId"`
	Tenant    string             `json:"tenant,omitempty"`
	Blocks    domain.Composition `json:"blocks"`
	Selected  string             `json:"selected,omitempty"`
	Viewport  domain.Viewport    `json:"viewport"`
	Loaded    bool               `json:"loaded"`
	Saving    bool               `json:"saving"`
	Dirty     bool               `json:"dirty"`
	Message   string             `json:"message,omitempty"`
	HasMarkup bool               `json:"hasMarkup"`
	SavedAt   time.Time          `json:"savedAt,omitempty"`
}

// EditorSession is one page being edited. Mutations are serialized by mu;
// network calls run outside it.
type EditorSession struct {
	svc    *EditorService
	pageID string
	tenant string

	mu       sync.Mutex
	store    *editor.Store
	content  domain.PageContent
	viewport domain.Viewport
	loaded   bool
	saving   bool
	message  string
	rev      int
	savedRev int
	savedAt  time.Time
}

func (e *EditorSession) PageID() string { return e.pageID }

func (e *EditorSession) Loaded() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.loaded
}

// Load fetches the page and replaces the local composition with it.
func (e *EditorSession) Load(ctx context.Context) error {
	content, err := e.svc.cfg.Pages.Load(ctx, e.pageID)
	if err != nil {
		e.mu.Lock()
		e.message = api.Message(err)
		e.mu.Unlock()
		return err
	}

	e.mu.Lock()
	if err := e.store.Replace(content.Components); err != nil {
		e.message = err.Error()
		e.mu.Unlock()
		return fmt.Errorf("load page %s: %w", e.pageID, err)
	}
	e.content = content
	e.content.Components = nil
	e.loaded = true
	e.message = ""
	e.rev, e.savedRev = 0, 0
	n := e.store.Len()
	e.mu.Unlock()

	e.svc.cfg.Emitter.Emit(ctx, EventPageLoaded, map[string]any{"pageId": e.pageID, "blocks": n})
	return nil
}

// RestoreDraft replaces the composition with the local draft, if any. It
// reports whether a draft was found.
func (e *EditorSession) RestoreDraft(ctx context.Context) (bool, error) {
	if e.svc.cfg.Drafts == nil {
		return false, nil
	}
	d, err := e.svc.cfg.Drafts.GetDraft(e.tenant, e.pageID)
	if err != nil {
		return false, err
	}
	if d == nil {
		return false, nil
	}
	if err := e.ReplaceComposition(ctx, d.Components); err != nil {
		return false, err
	}
	return true, nil
}

// mutate runs fn under the lock on a loaded session, then records a draft
// and emits event with the value fn returned.
func (e *EditorSession) mutate(ctx context.Context, event string, fn func() (any, bool, error)) (any, error) {
	e.mu.Lock()
	if !e.loaded {
		e.mu.Unlock()
		return nil, ErrNotLoaded
	}
	data, changed, err := fn()
	if err != nil || !changed {
		e.mu.Unlock()
		return data, err
	}
	e.rev++
	snapshot := e.store.Blocks()
	e.mu.Unlock()

	e.recordDraft(snapshot)
	e.svc.cfg.Emitter.Emit(ctx, event, data)
	return data, nil
}

func (e *EditorSession) recordDraft(c domain.Composition) {
	if e.svc.cfg.Drafts == nil {
		return
	}
	err := e.svc.cfg.Drafts.ReplaceDraft(&domain.Draft{
		PageID:     e.pageID,
		Tenant:     e.tenant,
		Components: c,
		UpdatedAt:  time.Now(),
	})
	if err != nil {
		e.svc.cfg.Log.Warn("failed to record draft", "page_id", e.pageID, "error", err)
	}
}

// AddBlock appends a new empty block of type t.
func (e *EditorSession) AddBlock(ctx context.Context, t domain.BlockType) (domain.Block, error) {
	out, err := e.mutate(ctx, EventBlockAdded, func() (any, bool, error) {
		b, err := e.store.Add(t)
		return b, err == nil, err
	})
	if err != nil {
		return domain.Block{}, err
	}
	return out.(domain.Block), nil
}

// SetField shallow-merges one prop into block id.
func (e *EditorSession) SetField(ctx context.Context, id, key string, value any) (domain.Block, error) {
	out, err := e.mutate(ctx, EventBlockUpdated, func() (any, bool, error) {
		b, err := e.store.SetField(id, key, value)
		return b, err == nil, err
	})
	if err != nil {
		return domain.Block{}, err
	}
	return out.(domain.Block), nil
}

// SetFields merges several props into block id as one change. A rejected
// value leaves the block untouched and becomes the session message.
func (e *EditorSession) SetFields(ctx context.Context, id string, fields map[string]any) (domain.Block, error) {
	out, err := e.mutate(ctx, EventBlockUpdated, func() (any, bool, error) {
		b, err := e.store.SetFields(id, fields)
		if err != nil {
			e.message = err.Error()
		}
		return b, err == nil, err
	})
	if err != nil {
		return domain.Block{}, err
	}
	return out.(domain.Block), nil
}

// UpdateBlock replaces the whole block matching b.ID. It reports false when
// there is no such block.
func (e *EditorSession) UpdateBlock(ctx context.Context, b domain.Block) (bool, error) {
	out, err := e.mutate(ctx, EventBlockUpdated, func() (any, bool, error) {
		ok := e.store.Update(b)
		if !ok {
			return false, false, nil
		}
		return b, true, nil
	})
	if err != nil {
		return false, err
	}
	_, ok := out.(domain.Block)
	return ok, nil
}

// RemoveBlock deletes block id. Unknown ids are a no-op.
func (e *EditorSession) RemoveBlock(ctx context.Context, id string) (bool, error) {
	out, err := e.mutate(ctx, EventBlockRemoved, func() (any, bool, error) {
		if !e.store.Remove(id) {
			return nil, false, nil
		}
		return id, true, nil
	})
	if err != nil {
		return false, err
	}
	return out != nil, nil
}

// Select sets the active block. An empty or unknown id clears it.
func (e *EditorSession) Select(ctx context.Context, id string) (string, error) {
	e.mu.Lock()
	if !e.loaded {
		e.mu.Unlock()
		return "", ErrNotLoaded
	}
	e.store.Select(id)
	selected := e.store.SelectedID()
	e.mu.Unlock()

	e.svc.cfg.Emitter.Emit(ctx, EventSelection, selected)
	return selected, nil
}

// SetViewport changes the preview width only.
func (e *EditorSession) SetViewport(ctx context.Context, vp domain.Viewport) error {
	vp, err := domain.ParseViewport(string(vp))
	if err != nil {
		return err
	}
	e.mu.Lock()
	e.viewport = vp
	e.mu.Unlock()
	e.svc.cfg.Emitter.Emit(ctx, EventViewport, vp)
	return nil
}

// ReplaceComposition swaps the whole composition, e.g. after an external
// file edit.
func (e *EditorSession) ReplaceComposition(ctx context.Context, c domain.Composition) error {
	_, err := e.mutate(ctx, EventCompositionSwap, func() (any, bool, error) {
		if err := e.store.Replace(c); err != nil {
			return nil, false, err
		}
		return len(c), true, nil
	})
	return err
}

// ApplyTheme replaces the composition with a fresh copy of the theme's.
func (e *EditorSession) ApplyTheme(ctx context.Context, themeID string) (domain.Composition, error) {
	th, err := e.svc.cfg.Themes.Get(themeID)
	if err != nil {
		return nil, err
	}
	comp := th.Instantiate(func() string { return uuid.New().String() })
	_, err = e.mutate(ctx, EventThemeApplied, func() (any, bool, error) {
		if err := e.store.Replace(comp); err != nil {
			return nil, false, err
		}
		return themeID, true, nil
	})
	if err != nil {
		return nil, err
	}
	return comp.Clone(), nil
}

// Save sends the current composition to the backend. A second Save while
// one is in flight for the same page returns ErrSaveInFlight without a
// request and without touching local state.
func (e *EditorSession) Save(ctx context.Context) error {
	if !e.svc.saves.TryLock(e.pageID) {
		return ErrSaveInFlight
	}
	defer e.svc.saves.Unlock(e.pageID)

	e.mu.Lock()
	if !e.loaded {
		e.mu.Unlock()
		return ErrNotLoaded
	}
	snapshot := e.store.Blocks()
	rev := e.rev
	e.saving = true
	e.mu.Unlock()

	err := e.svc.cfg.Pages.Save(ctx, e.pageID, snapshot)

	e.mu.Lock()
	e.saving = false
	if err != nil {
		e.message = api.Message(err)
	} else {
		e.message = savedMessage
		e.savedRev = rev
		e.savedAt = time.Now()
	}
	clean := e.rev == e.savedRev
	e.mu.Unlock()

	if err != nil {
		e.svc.cfg.Log.Warn("save failed", "page_id", e.pageID, "error", err)
		e.svc.cfg.Emitter.Emit(ctx, EventSaveFailed, api.Message(err))
		return err
	}
	if clean && e.svc.cfg.Drafts != nil {
		if err := e.svc.cfg.Drafts.DeleteDraft(e.tenant, e.pageID); err != nil {
			e.svc.cfg.Log.Warn("failed to drop draft after save", "page_id", e.pageID, "error", err)
		}
	}
	e.svc.cfg.Emitter.Emit(ctx, EventPageSaved, e.pageID)
	return nil
}

// Blocks returns a copy of the current composition.
func (e *EditorSession) Blocks() domain.Composition {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.Blocks()
}

// Content returns the page document with the current composition.
func (e *EditorSession) Content() domain.PageContent {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := e.content
	out.Components = e.store.Blocks()
	return out
}

func (e *EditorSession) State() EditorState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return EditorState{
		PageID:    e.pageID,
		Tenant:    e.tenant,
		Blocks:    e.store.Blocks(),
		Selected:  e.store.SelectedID(),
		Viewport:  e.viewport,
		Loaded:    e.loaded,
		Saving:    e.saving,
		Dirty:     e.rev != e.savedRev,
		Message:   e.message,
		HasMarkup: e.content.Svelte != "" || e.content.Header != "" || e.content.Footer != "",
		SavedAt:   e.savedAt,
	}
}

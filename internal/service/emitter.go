package service

import (
	"context"
	"sync"

	"pagebuilder/internal/logger"
)

// Events emitted by the editor services.
const (
	EventBlockAdded      = "editor:block-added"
	EventBlockUpdated    = "editor:block-updated"
	EventBlockRemoved    = "editor:block-removed"
	EventSelection       = "editor:selection"
	EventViewport        = "editor:viewport"
	EventPageLoaded      = "editor:page-loaded"
	EventPageSaved       = "editor:page-saved"
	EventSaveFailed      = "editor:save-failed"
	EventThemeApplied    = "editor:theme-applied"
	EventFileSynced      = "filesync:applied"
	EventDraftsPruned    = "drafts:pruned"
	EventCompositionSwap = "editor:composition-replaced"
)

// EventEmitter decouples services from whatever surface displays them.
// Services receive this interface, which keeps them testable with
// MockEmitter.
type EventEmitter interface {
	Emit(ctx context.Context, event string, data any)
}

// LogEmitter writes every event to the logger at debug level.
type LogEmitter struct {
	Log *logger.Logger
}

func (e LogEmitter) Emit(_ context.Context, event string, data any) {
	if e.Log == nil {
		return
	}
	e.Log.Debug("event", "name", event, "data", data)
}

// MockEmitter is a test-friendly EventEmitter that records all calls.
type MockEmitter struct {
	mu     sync.Mutex
	Events []EmittedEvent
}

// EmittedEvent holds a single recorded emission for test assertions.
type EmittedEvent struct {
	Event string
	Data  any
}

func (m *MockEmitter) Emit(_ context.Context, event string, data any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, EmittedEvent{Event: event, Data: data})
}

// Names returns the recorded event names in order.
func (m *MockEmitter) Names() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.Events))
	for i, e := range m.Events {
		out[i] = e.Event
	}
	return out
}

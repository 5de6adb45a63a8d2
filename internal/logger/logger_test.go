package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestSanitizeKVs(t *testing.T) {
	got := sanitizeKVs([]any{"page_id", "home", "session_cookie", "abc", "Password", "x", "dangling"})
	want := []any{"page_id", "home", "session_cookie", "[REDACTED]", "Password", "[REDACTED]", "dangling"}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("kv[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestLogger_RedactsFields(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := &Logger{SugaredLogger: zap.New(core).Sugar()}

	l.With("tenant", "acme").Info("login", "auth_token", "secret-value", "email", "a@b.c")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["auth_token"] != "[REDACTED]" {
		t.Errorf("auth_token = %v, want redacted", fields["auth_token"])
	}
	if fields["tenant"] != "acme" || fields["email"] != "a@b.c" {
		t.Errorf("unexpected fields: %v", fields)
	}
}

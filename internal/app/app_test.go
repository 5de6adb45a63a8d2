package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"pagebuilder/internal/config"
	"pagebuilder/internal/domain"
	"pagebuilder/internal/themes"
)

func testConfig(t *testing.T, baseURL string) config.Config {
	t.Helper()
	return config.Config{
		API:     config.APIConfig{BaseURL: baseURL, Timeout: 5 * time.Second},
		Data:    config.DataConfig{Dir: t.TempDir()},
		Drafts:  config.DraftsConfig{Retention: time.Hour, PruneSchedule: "@hourly"},
		Session: config.SessionConfig{SecretBackend: "db"},
	}
}

func authBackend() *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/auth/login", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "access_token", Value: "abc", Path: "/"})
		w.Write([]byte(`{"success":true,"data":{"id":"u1","email":"a@b.c"}}`))
	})
	mux.HandleFunc("/v1/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "access_token", Value: "", MaxAge: -1})
		w.Write([]byte(`{"success":true}`))
	})
	return httptest.NewServer(mux)
}

func TestApp_SessionSurvivesRestart(t *testing.T) {
	srv := authBackend()
	defer srv.Close()
	cfg := testConfig(t, srv.URL)
	ctx := context.Background()

	a, err := New(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := a.UseTenant("acme"); err != nil {
		t.Fatal(err)
	}
	if _, err := a.Login(ctx, "a@b.c", "pw"); err != nil {
		t.Fatal(err)
	}
	a.Shutdown(ctx)

	b, err := New(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer b.Shutdown(ctx)
	s := b.Client.Session()
	if !s.LoggedIn() || s.Tenant != "acme" || s.Cookies["access_token"] != "abc" {
		t.Fatalf("restored session = %+v", s)
	}

	if err := b.Logout(ctx); err != nil {
		t.Fatal(err)
	}
	if b.Client.Session() != nil {
		t.Error("client still holds a session")
	}
	stored, err := b.sessions.LoadSession()
	if err != nil || stored != nil {
		t.Errorf("stored session after logout = %+v, %v", stored, err)
	}
}

func TestApp_LoadsLocalThemes(t *testing.T) {
	cfg := testConfig(t, "http://127.0.0.1:1")
	dir := filepath.Join(cfg.Data.Dir, "themes")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	f, err := os.Create(filepath.Join(dir, "retro.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	retro := themes.Theme{ID: "retro", Name: "Retro", PageType: themes.PageTypeLanding,
		Components: domain.Composition{domain.NewBlock("h", domain.BlockTypeHero)}}
	if err := themes.ExportYAML(f, retro); err != nil {
		t.Fatal(err)
	}
	f.Close()

	a, err := New(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer a.Shutdown(context.Background())
	if _, err := a.Themes.Get("retro"); err != nil {
		t.Errorf("local theme not loaded: %v", err)
	}
	if _, err := themes.Default().Get("retro"); err == nil {
		t.Error("local theme leaked into the built-in catalog")
	}
	if got := len(a.Editor.Themes().List()); got != 5 {
		t.Errorf("editor sees %d themes, want 5", got)
	}
}

func TestApp_UnknownSecretBackend(t *testing.T) {
	cfg := testConfig(t, "http://127.0.0.1:1")
	cfg.Session.SecretBackend = "vault"
	if _, err := New(cfg, nil); err == nil {
		t.Fatal("expected an error for an unknown secret backend")
	}
}

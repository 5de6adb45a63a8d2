package app

import (
	"context"
	"fmt"
	"path/filepath"

	"pagebuilder/internal/api"
	"pagebuilder/internal/config"
	"pagebuilder/internal/domain"
	"pagebuilder/internal/logger"
	"pagebuilder/internal/secret"
	"pagebuilder/internal/service"
	"pagebuilder/internal/storage"
	"pagebuilder/internal/themes"
)

// App wires the local workspace, the backend client and the editor for one
// process. Every command builds one App and calls Shutdown when done.
type App struct {
	Config config.Config
	Log    *logger.Logger

	db       *storage.DB
	secrets  secret.SecretStore
	sessions *storage.SessionStore
	drafts   *storage.DraftStore

	Client  *api.Client
	Pages   *service.PageService
	Editor  *service.EditorService
	Themes  *themes.Catalog
	Emitter service.EventEmitter
}

// New opens the workspace under cfg.Data.Dir and restores the saved
// session, if any.
func New(cfg config.Config, log *logger.Logger) (*App, error) {
	if log == nil {
		log = logger.Nop()
	}
	a := &App{Config: cfg, Log: log, Emitter: service.LogEmitter{Log: log}}

	db, err := storage.New(cfg.Data.DBPath(), cfg.Data.Dir)
	if err != nil {
		return nil, fmt.Errorf("open workspace: %w", err)
	}
	a.db = db

	a.secrets, err = secret.Open(cfg.Session.SecretBackend, db.Conn())
	if err != nil {
		db.Close()
		return nil, err
	}
	a.sessions = storage.NewSessionStore(db, a.secrets)
	a.drafts = storage.NewDraftStore(db)

	a.Client = api.New(cfg.API.BaseURL, cfg.API.Timeout, log)
	sess, err := a.sessions.LoadSession()
	if err != nil {
		// A broken stored session only means logging in again.
		log.Warn("could not restore session", "error", err)
	}
	a.Client.SetSession(sess)

	// Themes dropped into <data>/themes extend the built-in catalog.
	a.Themes = themes.NewCatalog(themes.Default().List()...)
	if n, err := a.Themes.LoadDir(filepath.Join(cfg.Data.Dir, "themes")); err != nil {
		log.Warn("could not load local themes", "error", err)
	} else if n > 0 {
		log.Debug("local themes loaded", "count", n)
	}

	a.Pages = service.NewPageService(a.Client, log)
	a.Editor = service.NewEditorService(service.EditorConfig{
		Themes:  a.Themes,
		Pages:   a.Pages,
		Drafts:  a.drafts,
		Emitter: a.Emitter,
		Log:     log,
		Tenant:  a.Client.Tenant,
	})
	return a, nil
}

// Shutdown waits for in-flight saves, bounded by ctx, and closes the
// workspace.
func (a *App) Shutdown(ctx context.Context) {
	if a.Editor != nil {
		a.Editor.WaitSaves(ctx)
	}
	if a.db != nil {
		a.db.Close()
	}
}

// Drafts exposes the local draft store.
func (a *App) Drafts() domain.DraftStore { return a.drafts }

// Janitor builds a draft janitor with the configured retention.
func (a *App) Janitor() *service.DraftJanitor {
	return service.NewDraftJanitor(a.drafts, a.Config.Drafts.Retention, a.Emitter, a.Log)
}

// ============================================================
// Session
// ============================================================

// Login authenticates against the backend and persists the new session.
func (a *App) Login(ctx context.Context, email, password string) (*domain.Session, error) {
	sess, err := a.Client.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if err := a.sessions.SaveSession(sess); err != nil {
		return nil, fmt.Errorf("persist session: %w", err)
	}
	a.Log.Info("logged in", "email", sess.Email, "tenant", sess.Tenant)
	return sess, nil
}

// Logout ends the backend session and forgets the local one even when the
// backend call fails.
func (a *App) Logout(ctx context.Context) error {
	remoteErr := a.Client.Logout(ctx)
	if err := a.sessions.ClearSession(); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return remoteErr
}

// UseTenant switches the current tenant and persists it with the session.
func (a *App) UseTenant(tenant string) error {
	a.Client.SetTenant(tenant)
	if err := a.sessions.SaveSession(a.Client.Session()); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	return nil
}

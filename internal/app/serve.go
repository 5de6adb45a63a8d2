package app

import (
	"context"

	"golang.org/x/sync/errgroup"

	"pagebuilder/internal/web"
)

// Serve runs the editor HTTP server and the draft janitor until ctx is
// cancelled or either fails.
func (a *App) Serve(ctx context.Context, addr string) error {
	if addr == "" {
		addr = a.Config.Server.Addr
	}
	janitor := a.Janitor()
	if err := janitor.Start(ctx, a.Config.Drafts.PruneSchedule); err != nil {
		return err
	}
	defer janitor.Stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return web.Serve(gctx, addr, web.RouterConfig{
			Editor:         a.Editor,
			Products:       a.Client,
			RemoteThemes:   a.Client,
			Currency:       a.Config.Server.Currency,
			AllowedOrigins: a.Config.Server.AllowedOrigins,
			Log:            a.Log,
		})
	})
	g.Go(func() error {
		// An initial sweep so a long-idle workspace is cleaned up at start.
		if _, err := janitor.PruneNow(gctx); err != nil {
			a.Log.Warn("initial draft prune failed", "error", err)
		}
		return nil
	})
	return g.Wait()
}

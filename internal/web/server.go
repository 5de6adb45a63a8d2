// Package web serves the block editor over HTTP: palette, canvas and
// inspector as server-rendered HTML, plus JSON for scripts.
package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"pagebuilder/internal/blocks"
	"pagebuilder/internal/domain"
	"pagebuilder/internal/logger"
	"pagebuilder/internal/service"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// ProductSource supplies the product cards shown by product grid blocks.
type ProductSource interface {
	ListProducts(ctx context.Context, pageID string) ([]domain.Product, error)
}

// ThemeApplier applies a theme on the backend as well as locally.
type ThemeApplier interface {
	ApplyTheme(ctx context.Context, themeID string) error
}

type RouterConfig struct {
	Editor         *service.EditorService
	Products       ProductSource
	RemoteThemes   ThemeApplier
	Currency       string
	AllowedOrigins []string
	Log            *logger.Logger
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Log == nil {
		cfg.Log = logger.Nop()
	}
	router := gin.New()
	router.Use(
		gin.Recovery(),
		otelgin.Middleware("pagebuilder"),
		attachTraceContext(),
		requestLogger(cfg.Log),
	)
	router.SetHTMLTemplate(pageTemplates)

	if len(cfg.AllowedOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     []string{"Content-Type", "Accept"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	h := &EditorHandler{cfg: cfg}

	router.GET("/healthz", HealthCheck)
	router.GET("/themes", h.ListThemes)

	page := router.Group("/pages/:page_id")
	{
		page.GET("/edit", h.Edit)
		page.GET("/preview", h.Preview)
		page.GET("/composition", h.Composition)
		page.POST("/blocks", h.AddBlock)
		page.POST("/blocks/:block_id/select", h.SelectBlock)
		page.POST("/blocks/:block_id/fields", h.SetFields)
		page.POST("/blocks/:block_id/delete", h.RemoveBlock)
		page.POST("/viewport", h.SetViewport)
		page.POST("/save", h.Save)
		page.POST("/themes/:theme_id/apply", h.ApplyTheme)
	}

	return router
}

func HealthCheck(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

// Serve runs the router on addr until ctx is cancelled, then shuts down
// gracefully and waits for in-flight saves.
func Serve(ctx context.Context, addr string, cfg RouterConfig) error {
	if cfg.Log == nil {
		cfg.Log = logger.Nop()
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           NewRouter(cfg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		cfg.Log.Info("editor listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("listen %s: %w", addr, err)
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	cfg.Editor.WaitSaves(shutdownCtx)
	return nil
}

// registry is a small helper so handlers read well.
func (h *EditorHandler) registry() *blocks.Registry {
	return h.cfg.Editor.Registry()
}

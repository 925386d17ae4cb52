// Package siteconf models the settings record of a static-site generator.
// It loads the record from YAML or from the generator's own Python settings
// module, validates it, keeps an append-only revision history in SQLite, and
// serves the history through a small inspection and admin server.
//
// Views are supplied by the caller through ViewFuncs; the views subpackage
// provides a default set.
package siteconf

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// ViewFuncs holds the templ components the server renders. This is the
// inversion-of-control point that lets callers own all markup.
type ViewFuncs struct {
	Preview        func(rev Revision) templ.Component
	Empty          func() templ.Component
	Revisions      func(revs []Revision) templ.Component
	RevisionDetail func(rev Revision, changes []Change, hasPrevious bool) templ.Component
	AdminLogin     func(showError bool, csrfToken string) templ.Component
	AdminDashboard func(latest *Revision, msg string, problems []*FieldError, csrfToken string) templ.Component
	AdminIcons     func(icons []Icon, csrfToken string) templ.Component
	NotFound       func() templ.Component
	ServerError    func() templ.Component
}

// App is the inspection/admin server. It wires together the store, cache,
// handlers, middleware, and caller-provided views.
type App struct {
	Config ServerConfig
	Echo   *echo.Echo
	Store  *Store
	Cache  *RevisionCache
	Views  ViewFuncs
	Log    zerolog.Logger

	loginLimiter *LoginLimiter
	customRoutes []func(*App)
	ownsStore    bool
	ready        bool
}

// New creates an App with the given configuration and view functions.
func New(cfg ServerConfig, views ViewFuncs, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config: cfg,
		Echo:   echo.New(),
		Views:  views,
		Log:    DefaultLogger(),
	}
	a.Echo.HideBanner = true
	a.Echo.HidePort = true

	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Setup validates the configuration, opens the store and registers
// middleware and routes. Start calls it; tests call it directly and drive
// a.Echo with httptest.
func (a *App) Setup() error {
	if a.ready {
		return nil
	}
	if a.Config.AdminPassword == "" {
		return fmt.Errorf("siteconf: AdminPassword is required")
	}
	if a.Config.SessionSecret == "" {
		return fmt.Errorf("siteconf: SessionSecret is required")
	}

	if a.Store == nil {
		store, err := NewStore(a.Config.DatabasePath)
		if err != nil {
			return fmt.Errorf("siteconf: init store: %w", err)
		}
		a.Store = store
		a.ownsStore = true
	}

	a.Cache = NewRevisionCache(a.Store, a.Config.CacheTTL)
	a.loginLimiter = NewLoginLimiter(5, time.Minute)

	a.setupMiddleware()
	a.setupRoutes()
	for _, fn := range a.customRoutes {
		fn(a)
	}
	a.ready = true
	return nil
}

// Start sets up the app and serves until the server is closed.
func (a *App) Start() error {
	if err := a.Setup(); err != nil {
		return err
	}
	a.Log.Info().Str("addr", a.Config.Addr).Msg("listening")
	if err := a.Echo.Start(a.Config.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Run starts the server and shuts it down gracefully when ctx is done.
func (a *App) Run(ctx context.Context) error {
	errc := make(chan error, 1)
	go func() { errc <- a.Start() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.Echo.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("siteconf: shutdown: %w", err)
	}
	return <-errc
}

func (a *App) setupRoutes() {
	e := a.Echo

	// Embedded stylesheet, then user assets and uploaded icons.
	e.GET("/public/siteconf.css", a.handleStylesheet)
	e.Static("/public", a.Config.StaticDir)
	e.GET("/healthz", handleHealth)

	e.GET("/", a.handlePreview)
	e.GET("/config.json", a.handleConfigJSON)
	e.GET("/config.yaml", a.handleConfigYAML)
	e.GET("/pelicanconf.py", a.handleConfigPython)
	e.GET("/revisions/", a.handleRevisions)
	e.GET("/revisions/:id/", a.handleRevision)
	e.GET("/revisions/:id/pelicanconf.py", a.handleConfigPython)

	e.GET("/admin/", a.handleAdmin)
	e.POST("/admin/login/", a.handleAdminLogin)
	e.POST("/admin/logout/", handleAdminLogout)
	e.POST("/admin/revisions/", a.handleAdminSaveRevision)
	e.GET("/admin/icons/", a.handleIconList)
	e.POST("/admin/icons/upload/", a.handleIconUpload)
	e.DELETE("/admin/icons/:filename/", a.handleIconDelete)
}

// Close releases resources. Call it when the app is shutting down.
func (a *App) Close() error {
	if a.loginLimiter != nil {
		a.loginLimiter.Stop()
	}
	if a.Store != nil && a.ownsStore {
		return a.Store.Close()
	}
	return nil
}

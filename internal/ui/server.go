// Package ui provides the web workbench for Quarry.
package ui

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/sessions"
	"golang.org/x/sync/errgroup"

	"github.com/quarry-labs/quarry/internal/engine"
	"github.com/quarry-labs/quarry/internal/imports"
	"github.com/quarry-labs/quarry/internal/tabs"
	"github.com/quarry-labs/quarry/internal/ui/notifier"
	"github.com/quarry-labs/quarry/internal/ui/router"
	"github.com/quarry-labs/quarry/pkg/core"
)

// Server is the main UI server.
type Server struct {
	engine       *engine.Engine
	state        core.Store
	tabStore     *tabs.Store
	importStore  *imports.Store
	sessionStore *sessions.CookieStore
	port         int
	importsDir   string
	isDev        bool
	logger       *slog.Logger
	notifier     *notifier.Notifier
}

// Config holds configuration for the UI server.
type Config struct {
	Engine        *engine.Engine
	State         core.Store
	ImportStore   *imports.Store
	Port          int
	ImportsDir    string
	SessionSecret string
	Dev           bool
	Logger        *slog.Logger
}

// NewServer creates a new UI server instance.
func NewServer(cfg Config) *Server {
	sessionStore := sessions.NewCookieStore([]byte(cfg.SessionSecret))
	sessionStore.MaxAge(86400 * 30) // 30 days
	sessionStore.Options.Path = "/"
	sessionStore.Options.HttpOnly = true
	sessionStore.Options.SameSite = http.SameSiteLaxMode

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	s := &Server{
		engine:       cfg.Engine,
		state:        cfg.State,
		tabStore:     tabs.NewStore(logger),
		importStore:  cfg.ImportStore,
		sessionStore: sessionStore,
		port:         cfg.Port,
		importsDir:   cfg.ImportsDir,
		isDev:        cfg.Dev,
		logger:       logger,
		notifier:     notifier.New(),
	}

	// Any tab or import change re-renders all connected clients.
	s.tabStore.OnChange(s.notifier.Broadcast)
	s.importStore.OnChange(s.notifier.Broadcast)

	return s
}

// Serve starts the UI server and blocks until the context is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Info("starting UI server", "addr", fmt.Sprintf("http://localhost:%d", s.port))

	eg, egctx := errgroup.WithContext(ctx)

	r := chi.NewMux()
	r.Use(
		middleware.Logger,
		middleware.Recoverer,
		middleware.Compress(5),
	)

	if err := router.SetupRoutes(r, s.engine, s.tabStore, s.importStore, s.sessionStore, s.notifier, s.logger, s.isDev); err != nil {
		return fmt.Errorf("failed to setup routes: %w", err)
	}

	srv := &http.Server{
		Addr:    addr,
		Handler: r,
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Watch the imports directory for manifest drops
	if s.importsDir != "" {
		watcher := imports.NewWatcher(s.importsDir, s.importStore, s.state, s.logger)
		eg.Go(func() error {
			return watcher.Watch(egctx)
		})
	}

	// Start HTTP server
	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down UI server...")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

// Tabs returns the server's tab store.
func (s *Server) Tabs() *tabs.Store {
	return s.tabStore
}

// Notifier returns the server's notifier for SSE updates.
func (s *Server) Notifier() *notifier.Notifier {
	return s.notifier
}

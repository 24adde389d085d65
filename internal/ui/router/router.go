// Package router sets up HTTP routes for the UI server.
package router

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/quarry-labs/quarry/internal/engine"
	"github.com/quarry-labs/quarry/internal/imports"
	"github.com/quarry-labs/quarry/internal/tabs"
	schematreeFeature "github.com/quarry-labs/quarry/internal/ui/features/schematree"
	stagingFeature "github.com/quarry-labs/quarry/internal/ui/features/staging"
	tabstripFeature "github.com/quarry-labs/quarry/internal/ui/features/tabstrip"
	workbenchFeature "github.com/quarry-labs/quarry/internal/ui/features/workbench"
	"github.com/quarry-labs/quarry/internal/ui/notifier"
	"github.com/quarry-labs/quarry/internal/ui/resources"
)

// SetupRoutes configures all routes for the UI server.
func SetupRoutes(
	router chi.Router,
	eng *engine.Engine,
	tabStore *tabs.Store,
	importStore *imports.Store,
	sessionStore *sessions.CookieStore,
	notify *notifier.Notifier,
	logger *slog.Logger,
	isDev bool,
) error {
	// Hot reload endpoint for dev mode
	if isDev {
		setupReload(router)
	}

	// Static assets
	router.Handle("/static/*", resources.Handler())

	// Feature routes
	if err := workbenchFeature.SetupRoutes(router, eng, sessionStore, logger); err != nil {
		return err
	}

	if err := schematreeFeature.SetupRoutes(router, eng, tabStore, importStore, notify, logger); err != nil {
		return err
	}

	if err := tabstripFeature.SetupRoutes(router, eng.Database(), tabStore, notify, logger); err != nil {
		return err
	}

	if err := stagingFeature.SetupRoutes(router, eng.Database(), importStore, logger); err != nil {
		return err
	}

	return nil
}

func setupReload(router chi.Router) {
	reloadChan := make(chan struct{}, 1)
	var hotReloadOnce sync.Once

	router.Get("/reload", func(w http.ResponseWriter, r *http.Request) {
		sse := datastar.NewSSE(w, r)
		reload := func() { _ = sse.ExecuteScript("window.location.reload()") }
		hotReloadOnce.Do(reload)
		select {
		case <-reloadChan:
			reload()
		case <-r.Context().Done():
		}
	})

	router.Get("/hotreload", func(w http.ResponseWriter, _ *http.Request) {
		select {
		case reloadChan <- struct{}{}:
		default:
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
}

// Package tabstrip provides the workbench tab strip feature.
package tabstrip

import (
	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/quarry-labs/quarry/internal/tabs"
	"github.com/quarry-labs/quarry/internal/ui/notifier"
)

// SetupRoutes registers the tab strip feature routes.
func SetupRoutes(router chi.Router, database string, tabStore *tabs.Store, notify *notifier.Notifier, logger *slog.Logger) error {
	handlers := NewHandlers(database, tabStore, notify, logger)

	router.Route("/api/tabs", func(r chi.Router) {
		r.Get("/", handlers.StripSSE)             // Current strip
		r.Get("/updates", handlers.StripUpdates)  // Live re-renders
		r.Post("/{schema}/{id}/focus", handlers.Focus)
		r.Post("/{schema}/{id}/close", handlers.Close)
	})

	return nil
}

// Package schematree provides the schema navigation tree feature.
package schematree

import (
	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/quarry-labs/quarry/internal/engine"
	"github.com/quarry-labs/quarry/internal/imports"
	"github.com/quarry-labs/quarry/internal/tabs"
	"github.com/quarry-labs/quarry/internal/ui/notifier"
)

// SetupRoutes registers the schema tree feature routes.
func SetupRoutes(
	router chi.Router,
	eng *engine.Engine,
	tabStore *tabs.Store,
	importStore *imports.Store,
	notify *notifier.Notifier,
	logger *slog.Logger,
) error {
	handlers := NewHandlers(eng, tabStore, importStore, notify, logger)

	router.Route("/api/tree", func(r chi.Router) {
		r.Get("/{schema}", handlers.TreeSSE)              // Current tree
		r.Get("/{schema}/updates", handlers.TreeUpdates)  // Live re-renders
		r.Post("/{schema}/activate/{node}", handlers.Activate)
		r.Post("/{schema}/expand/{node}", handlers.Expand)
		r.Post("/{schema}/collapse/{node}", handlers.Collapse)
	})

	return nil
}

// Package workbench provides the top-level workbench page of the UI.
package workbench

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"

	"github.com/quarry-labs/quarry/internal/engine"
)

// SetupRoutes configures routes for the workbench feature.
func SetupRoutes(
	router chi.Router,
	eng *engine.Engine,
	sessionStore sessions.Store,
	logger *slog.Logger,
) error {
	handlers := NewHandlers(eng, sessionStore, logger)

	router.Get("/", handlers.WorkbenchPage)

	return nil
}

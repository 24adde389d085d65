// Package staging provides the import-workflow feature.
package staging

import (
	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/quarry-labs/quarry/internal/imports"
)

// SetupRoutes registers the import workflow routes.
func SetupRoutes(router chi.Router, database string, importStore *imports.Store, logger *slog.Logger) error {
	handlers := NewHandlers(database, importStore, logger)

	router.Route("/api/imports", func(r chi.Router) {
		r.Get("/{schema}", handlers.PendingSSE)      // Pending imports
		r.Post("/{token}/resolve", handlers.Resolve) // Assign real identity
		r.Post("/{token}/verify", handlers.Verify)   // Confirm structure
	})

	return nil
}

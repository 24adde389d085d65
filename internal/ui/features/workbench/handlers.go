package workbench

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/sessions"

	"github.com/quarry-labs/quarry/internal/engine"
	"github.com/quarry-labs/quarry/pkg/core"
)

const (
	sessionName = "quarry"
	schemaKey   = "schema"
)

// Handlers provides HTTP handlers for the workbench shell.
type Handlers struct {
	engine       *engine.Engine
	sessionStore sessions.Store
	logger       *slog.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(eng *engine.Engine, sessionStore sessions.Store, logger *slog.Logger) *Handlers {
	return &Handlers{
		engine:       eng,
		sessionStore: sessionStore,
		logger:       logger,
	}
}

// WorkbenchPage renders the full workbench page. The current schema is
// taken from the ?schema query parameter when present, otherwise from
// the session, otherwise the first schema of the database.
func (h *Handlers) WorkbenchPage(w http.ResponseWriter, r *http.Request) {
	schemas, err := h.engine.Schemas(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if len(schemas) == 0 {
		http.Error(w, "no schemas available", http.StatusInternalServerError)
		return
	}

	current := h.currentSchema(w, r, schemas)

	if err := Page(h.engine.Database(), schemas, current).Render(r.Context(), w); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// currentSchema resolves the schema to show and persists the choice in
// the session so a page reload lands on the same schema.
func (h *Handlers) currentSchema(w http.ResponseWriter, r *http.Request, schemas []core.Schema) int64 {
	session, _ := h.sessionStore.Get(r, sessionName)

	current := int64(0)
	if raw := r.URL.Query().Get(schemaKey); raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			current = id
		}
	} else if saved, ok := session.Values[schemaKey].(int64); ok {
		current = saved
	}

	valid := false
	for _, sc := range schemas {
		if sc.ID == current {
			valid = true
			break
		}
	}
	if !valid {
		current = schemas[0].ID
	}

	if session.Values[schemaKey] != current {
		session.Values[schemaKey] = current
		if err := session.Save(r, w); err != nil {
			h.logger.Warn("failed to save session", "error", err)
		}
	}
	return current
}

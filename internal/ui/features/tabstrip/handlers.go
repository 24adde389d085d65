// Package tabstrip provides the workbench tab strip feature.
package tabstrip

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/quarry-labs/quarry/internal/tabs"
	"github.com/quarry-labs/quarry/internal/ui/notifier"
)

// Handlers provides HTTP handlers for the tab strip feature.
type Handlers struct {
	database string
	tabs     *tabs.Store
	notifier *notifier.Notifier
	logger   *slog.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(database string, tabStore *tabs.Store, notify *notifier.Notifier, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handlers{database: database, tabs: tabStore, notifier: notify, logger: logger}
}

// StripSSE sends the current tab strip via SSE.
func (h *Handlers) StripSSE(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)
	if err := sse.PatchElementTempl(Strip(h.tabs.Tabs(), h.tabs.Active().Get())); err != nil {
		_ = sse.ConsoleError(err)
	}
}

// StripUpdates is the long-lived SSE endpoint for the tab strip. It
// re-renders whenever the focused tab moves or the tab set changes;
// closing a background tab reaches it through the notifier, since the
// active-tab reference does not move in that case.
func (h *Handlers) StripUpdates(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	active := h.tabs.Active()
	activeCh := active.Subscribe()
	defer active.Unsubscribe(activeCh)

	updates := h.notifier.Subscribe()
	defer h.notifier.Unsubscribe(updates)

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-activeCh:
		case <-updates:
		}

		if err := sse.PatchElementTempl(Strip(h.tabs.Tabs(), active.Get())); err != nil {
			_ = sse.ConsoleError(err)
		}
	}
}

// Focus activates an open tab.
func (h *Handlers) Focus(w http.ResponseWriter, r *http.Request) {
	schemaID, id, isNew, err := tabParams(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	h.tabs.Activate(h.database, schemaID, id, isNew)
	w.WriteHeader(http.StatusNoContent)
}

// Close closes an open tab.
func (h *Handlers) Close(w http.ResponseWriter, r *http.Request) {
	schemaID, id, isNew, err := tabParams(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	h.tabs.Close(h.database, schemaID, id, isNew)
	w.WriteHeader(http.StatusNoContent)
}

// tabParams extracts a tab identity from the route. The new-table
// flag rides as a query parameter because a placeholder tab can share
// its numeric id with a real table tab.
func tabParams(r *http.Request) (schemaID, id int64, isNew bool, err error) {
	schemaID, err = strconv.ParseInt(chi.URLParam(r, "schema"), 10, 64)
	if err != nil {
		return 0, 0, false, err
	}
	id, err = strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, 0, false, err
	}
	isNew = r.URL.Query().Get("new") == "1"
	return schemaID, id, isNew, nil
}

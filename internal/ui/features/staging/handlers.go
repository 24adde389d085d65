// Package staging provides the import-workflow feature: listing a
// schema's pending imports and resolving or verifying them.
package staging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/quarry-labs/quarry/internal/imports"
	"github.com/quarry-labs/quarry/pkg/core"
)

// Handlers provides HTTP handlers for the import workflow.
type Handlers struct {
	database string
	imports  *imports.Store
	logger   *slog.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(database string, importStore *imports.Store, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handlers{database: database, imports: importStore, logger: logger}
}

// PendingSSE sends a schema's pending imports via SSE.
func (h *Handlers) PendingSSE(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	schemaID, err := strconv.ParseInt(chi.URLParam(r, "schema"), 10, 64)
	if err != nil {
		_ = sse.ConsoleError(err)
		return
	}

	pending, err := h.imports.Pending(schemaID)
	if err != nil {
		_ = sse.ConsoleError(fmt.Errorf("failed to list pending imports: %w", err))
		return
	}

	if err := sse.PatchElementTempl(PendingList(pending)); err != nil {
		_ = sse.ConsoleError(err)
	}
}

// Resolve assigns a real table identity to a pending import.
func (h *Handlers) Resolve(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	tableID, err := strconv.ParseInt(r.URL.Query().Get("table"), 10, 64)
	if err != nil {
		http.Error(w, "missing or malformed table id", http.StatusBadRequest)
		return
	}

	if err := h.imports.Resolve(h.database, token, tableID); err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Verify confirms a pending import's table structure.
func (h *Handlers) Verify(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	if err := h.imports.Verify(h.database, token); err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PendingList renders a schema's pending imports.
func PendingList(pending []core.ImportRecord) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<div id="pending-imports"><ul class="imports">`); err != nil {
			return err
		}
		for _, rec := range pending {
			status := string(rec.Status)
			if _, err := fmt.Fprintf(w,
				`<li class="import import--%s" data-token="%s">`+
					`<span class="import-table">%s</span>`+
					`<span class="import-status">%s</span>`+
					`<button data-on-click="@post('/api/imports/%s/verify')">Verify</button>`+
					`</li>`,
				status, templ.EscapeString(rec.Token),
				templ.EscapeString(rec.TableName), status,
				templ.EscapeString(rec.Token)); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</ul></div>`)
		return err
	})
}

// Package schematree provides the schema navigation tree feature: the
// rendered tree, its expand/collapse state, and node activation.
package schematree

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/quarry-labs/quarry/internal/engine"
	"github.com/quarry-labs/quarry/internal/imports"
	"github.com/quarry-labs/quarry/internal/navigator"
	"github.com/quarry-labs/quarry/internal/tabs"
	"github.com/quarry-labs/quarry/internal/ui/notifier"
)

// Handlers provides HTTP handlers for the schema tree feature.
type Handlers struct {
	engine   *engine.Engine
	tabs     *tabs.Store
	notifier *notifier.Notifier
	logger   *slog.Logger

	expanded *navigator.ExpandedSet
	activate *navigator.Handler
}

// NewHandlers creates a new Handlers instance. The group header starts
// expanded; everything else starts collapsed.
func NewHandlers(eng *engine.Engine, tabStore *tabs.Store, importStore *imports.Store, notify *notifier.Notifier, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handlers{
		engine:   eng,
		tabs:     tabStore,
		notifier: notify,
		logger:   logger,
		expanded: navigator.NewExpandedSet(navigator.GroupHeaderID),
		activate: navigator.NewHandler(eng.Database(), tabStore, importStore, logger),
	}
}

// TreeSSE sends the current tree for a schema via SSE, refreshing the
// table source first.
func (h *Handlers) TreeSSE(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	schemaID, err := schemaParam(r)
	if err != nil {
		_ = sse.ConsoleError(err)
		return
	}

	if err := h.engine.Refresh(r.Context(), schemaID); err != nil {
		_ = sse.ConsoleError(err)
		return
	}

	if err := sse.PatchElementTempl(h.renderTree(schemaID)); err != nil {
		_ = sse.ConsoleError(err)
	}
}

// TreeUpdates is the long-lived SSE endpoint for a schema's tree. It
// re-renders whenever the table source changes, the active tab moves,
// or the store broadcasts. No initial send; TreeSSE renders first.
func (h *Handlers) TreeUpdates(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	schemaID, err := schemaParam(r)
	if err != nil {
		_ = sse.ConsoleError(err)
		return
	}

	source := h.engine.TableSource(schemaID)
	tablesCh := source.Subscribe()
	defer source.Unsubscribe(tablesCh)

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
		case <-updates:
			// The import set changed; rebuild the table list too.
			if err := h.engine.Refresh(ctx, schemaID); err != nil {
				_ = sse.ConsoleError(err)
				continue
			}
		case <-tablesCh:
		case <-activeCh:
		}

		if err := sse.PatchElementTempl(h.renderTree(schemaID)); err != nil {
			_ = sse.ConsoleError(err)
		}
	}
}

// Activate handles a tree-node activation.
func (h *Handlers) Activate(w http.ResponseWriter, r *http.Request) {
	schemaID, err := schemaParam(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	nodeID, err := navigator.ParseNodeID(chi.URLParam(r, "node"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	leaf, ok := h.findLeaf(schemaID, nodeID)
	if !ok {
		http.Error(w, "unknown tree node", http.StatusNotFound)
		return
	}

	ev := &navigator.ActivationEvent{Link: r.Referer()}

	// The activation may spawn an identity resolution that outlives
	// this request; detach it from the request's cancellation.
	h.activate.Activate(context.WithoutCancel(r.Context()), leaf, ev)

	w.WriteHeader(http.StatusNoContent)
}

// Expand marks a node expanded.
func (h *Handlers) Expand(w http.ResponseWriter, r *http.Request) {
	h.expanded.Expand(chi.URLParam(r, "node"))
	h.notifier.Broadcast()
	w.WriteHeader(http.StatusNoContent)
}

// Collapse marks a node collapsed.
func (h *Handlers) Collapse(w http.ResponseWriter, r *http.Request) {
	h.expanded.Collapse(chi.URLParam(r, "node"))
	h.notifier.Broadcast()
	w.WriteHeader(http.StatusNoContent)
}

// renderTree projects the current table source and selection into the
// tree component.
func (h *Handlers) renderTree(schemaID int64) templ.Component {
	groups := navigator.ProjectTree(h.engine.TableSource(schemaID).Get())
	sel := navigator.ReconcileSelection(h.tabs.Active().Get())
	return Tree(schemaID, groups, h.expanded, sel)
}

// findLeaf locates a leaf in the current projection by tree identity.
func (h *Handlers) findLeaf(schemaID int64, nodeID navigator.NodeID) (navigator.Leaf, bool) {
	for _, g := range navigator.ProjectTree(h.engine.TableSource(schemaID).Get()) {
		for _, leaf := range g.Tables {
			if leaf.TreeID == nodeID {
				return leaf, true
			}
		}
	}
	return navigator.Leaf{}, false
}

func schemaParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "schema"), 10, 64)
}

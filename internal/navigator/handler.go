package navigator

import (
	"context"
	"log/slog"

	"github.com/quarry-labs/quarry/internal/reactive"
	"github.com/quarry-labs/quarry/pkg/core"
)

// TabOpener is the slice of the tab store the handler dispatches into.
type TabOpener interface {
	// AddTab opens (or focuses) a tab for the given request.
	AddTab(database string, schemaID int64, req core.TabOpenRequest)

	// ResolveTab corrects a tab's identity once an import resolves.
	ResolveTab(database string, schemaID int64, placeholderID, tableID int64)
}

// ImportResolver hands out the reactive record backing an in-progress
// import. The returned reference may not be populated yet.
type ImportResolver interface {
	LoadIncompleteImport(database string, schemaID int64, tableID int64) *reactive.Value[core.ImportRecord]
}

// Handler converts tree-node activations into tab-open requests.
type Handler struct {
	database string
	tabs     TabOpener
	imports  ImportResolver
	logger   *slog.Logger
}

// NewHandler creates a Handler for one database's navigation tree.
func NewHandler(database string, tabs TabOpener, imports ImportResolver, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		database: database,
		tabs:     tabs,
		imports:  imports,
		logger:   logger,
	}
}

// Activate handles a user activating a tree leaf. Every activation
// dispatches exactly one tab-open request; the handler trusts that the
// leaf was projected from a genuine TableRecord and performs no
// validation of its own.
//
// For a verified table the request carries the table's real identity
// and name. For an unverified import the handler snapshots the import
// record as it stands right now and dispatches a placeholder request
// immediately; if the snapshot was not yet resolved, a single identity
// correction follows once resolution completes. The correction is a
// separate message, not a second open request.
func (h *Handler) Activate(ctx context.Context, node Leaf, ev *ActivationEvent) {
	if ev != nil {
		ev.PreventDefault()
	}

	req := core.TabOpenRequest{
		ID:    node.Source.ID,
		Label: node.Source.Name,
	}

	if node.Source.ImportVerified {
		h.tabs.AddTab(h.database, node.Source.SchemaID, req)
		return
	}

	rec := h.imports.LoadIncompleteImport(h.database, node.Source.SchemaID, node.Source.ID)
	snap := rec.Get()

	// An unresolved snapshot carries its provisional identity so two
	// in-flight imports never collapse into one tab.
	req.Label = NewTableLabel
	req.IsNew = true
	if snap.Resolved() {
		req.ID = snap.ID
	} else {
		req.ID = snap.ProvisionalID
	}
	h.tabs.AddTab(h.database, node.Source.SchemaID, req)

	if !snap.Resolved() {
		// Each activation owns an independent resolution; a later
		// activation of another node does not abandon this one.
		go h.awaitResolution(ctx, node.Source.SchemaID, node.Source.ID, rec)
	}
}

// awaitResolution waits for the import record to carry a real identity
// and sends one correction to the tab store.
func (h *Handler) awaitResolution(ctx context.Context, schemaID, placeholderID int64, rec *reactive.Value[core.ImportRecord]) {
	ch := rec.Subscribe()
	defer rec.Unsubscribe(ch)

	for {
		// Re-check before waiting: resolution may have landed between
		// the snapshot and the subscription.
		snap := rec.Get()
		if snap.Resolved() {
			h.logger.Debug("import resolved, correcting tab identity",
				"schema", schemaID, "placeholder", placeholderID, "table", snap.ID)
			h.tabs.ResolveTab(h.database, schemaID, placeholderID, snap.ID)
			return
		}
		if snap.Status == core.ImportFailed {
			h.logger.Warn("import resolution failed, tab keeps placeholder",
				"schema", schemaID, "placeholder", placeholderID)
			return
		}

		select {
		case <-ctx.Done():
			return
		case _, ok := <-ch:
			if !ok {
				return
			}
		}
	}
}

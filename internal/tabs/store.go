// Package tabs holds the workbench's open tabs and the reactive
// reference to whichever tab is focused. The navigator dispatches
// tab-open requests into this store and never reads it back except
// through the active-tab reference.
package tabs

import (
	"log/slog"
	"sync"
	"time"

	"github.com/quarry-labs/quarry/internal/reactive"
	"github.com/quarry-labs/quarry/pkg/core"
)

// Store is the in-memory tab store. Tabs live for the server's
// lifetime; nothing survives a restart.
type Store struct {
	logger *slog.Logger

	mu   sync.Mutex
	open []*core.Tab

	active *reactive.Value[*core.Tab]

	onChange func()
}

// NewStore creates an empty tab store with no active tab.
func NewStore(logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		logger: logger,
		active: reactive.NewValue[*core.Tab](nil),
	}
}

// Active returns the reactive reference to the focused tab. It holds
// nil when nothing is focused.
func (s *Store) Active() *reactive.Value[*core.Tab] {
	return s.active
}

// OnChange registers a hook invoked whenever the tab set changes.
func (s *Store) OnChange(fn func()) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

func (s *Store) changed() {
	s.mu.Lock()
	fn := s.onChange
	s.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// AddTab opens a tab for the request and focuses it. A request whose
// identity matches an already-open tab focuses that tab instead of
// opening a duplicate.
func (s *Store) AddTab(database string, schemaID int64, req core.TabOpenRequest) {
	s.mu.Lock()
	var tab *core.Tab
	for _, t := range s.open {
		if t.Database == database && t.SchemaID == schemaID && t.ID == req.ID && t.IsNew == req.IsNew {
			tab = t
			break
		}
	}
	if tab == nil {
		tab = &core.Tab{
			ID:       req.ID,
			Database: database,
			SchemaID: schemaID,
			Label:    req.Label,
			IsNew:    req.IsNew,
			OpenedAt: time.Now().UTC(),
		}
		s.open = append(s.open, tab)
	}
	s.mu.Unlock()

	s.logger.Debug("tab opened", "database", database, "schema", schemaID,
		"id", req.ID, "label", req.Label, "new", req.IsNew)

	s.active.Set(tab)
	s.changed()
}

// ResolveTab corrects the identity of a new-table tab once its import
// resolves. At most one tab matches; a miss is a no-op (the tab may
// have been closed before resolution landed).
//
// Published tabs are never mutated: readers hold snapshots from
// Active() on their own goroutines, so the correction allocates a
// fresh tab and swaps it in.
func (s *Store) ResolveTab(database string, schemaID int64, placeholderID, tableID int64) {
	s.mu.Lock()
	var stale, resolved *core.Tab
	for i, t := range s.open {
		if t.Database == database && t.SchemaID == schemaID && t.IsNew && t.ID == placeholderID {
			corrected := *t
			corrected.ID = tableID
			s.open[i] = &corrected
			stale, resolved = t, &corrected
			break
		}
	}
	s.mu.Unlock()

	if resolved == nil {
		return
	}

	s.logger.Debug("tab identity resolved",
		"database", database, "schema", schemaID, "placeholder", placeholderID, "table", tableID)

	// Re-publish so the selection reconciler sees the new identity.
	if s.active.Get() == stale {
		s.active.Set(resolved)
	}
	s.changed()
}

// Activate focuses an open tab by identity. Unknown identities leave
// the focus unchanged. A new-table tab and a real table tab can share
// a numeric id, so the new-table flag is part of the identity.
func (s *Store) Activate(database string, schemaID, id int64, isNew bool) {
	s.mu.Lock()
	var tab *core.Tab
	for _, t := range s.open {
		if t.Database == database && t.SchemaID == schemaID && t.ID == id && t.IsNew == isNew {
			tab = t
			break
		}
	}
	s.mu.Unlock()

	if tab != nil {
		s.active.Set(tab)
		s.changed()
	}
}

// Close removes a tab. Closing the focused tab focuses the most
// recently opened remaining tab, or clears the focus entirely.
func (s *Store) Close(database string, schemaID, id int64, isNew bool) {
	s.mu.Lock()
	idx := -1
	for i, t := range s.open {
		if t.Database == database && t.SchemaID == schemaID && t.ID == id && t.IsNew == isNew {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return
	}

	closed := s.open[idx]
	s.open = append(s.open[:idx], s.open[idx+1:]...)

	var next *core.Tab
	if len(s.open) > 0 {
		next = s.open[len(s.open)-1]
	}
	wasActive := s.active.Get() == closed
	s.mu.Unlock()

	if wasActive {
		s.active.Set(next)
	}
	s.changed()
}

// Tabs returns a snapshot of the open tabs in open order.
func (s *Store) Tabs() []core.Tab {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]core.Tab, 0, len(s.open))
	for _, t := range s.open {
		out = append(out, *t)
	}
	return out
}

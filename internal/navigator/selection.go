package navigator

import (
	"strconv"
	"sync"

	"github.com/quarry-labs/quarry/pkg/core"
)

// Selection is the set of highlighted tree identities, keyed in the
// widget's key space. It always has cardinality 0 or 1.
type Selection map[string]struct{}

// Has reports whether the given tree identity is selected.
func (s Selection) Has(treeID string) bool {
	_, ok := s[treeID]
	return ok
}

// ReconcileSelection derives the highlighted node set from the active
// tab. The set is rebuilt from scratch on every call, never patched,
// so it cannot accumulate stale entries from a previous active tab.
// A nil tab (nothing focused) yields the empty set.
func ReconcileSelection(active *core.Tab) Selection {
	sel := make(Selection, 1)
	if active == nil {
		return sel
	}
	sel[strconv.FormatInt(active.ID, 10)] = struct{}{}
	return sel
}

// ExpandedSet tracks which tree nodes are expanded. It is owned by the
// navigator and mutated only by the widget's expand/collapse events;
// data changes never clear it, so a reloaded table list keeps the
// user's expansion state.
type ExpandedSet struct {
	mu    sync.RWMutex
	items map[string]struct{}
}

// NewExpandedSet returns a set with the given identities expanded.
func NewExpandedSet(ids ...string) *ExpandedSet {
	items := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		items[id] = struct{}{}
	}
	return &ExpandedSet{items: items}
}

// Expand marks a tree identity expanded.
func (e *ExpandedSet) Expand(treeID string) {
	e.mu.Lock()
	e.items[treeID] = struct{}{}
	e.mu.Unlock()
}

// Collapse marks a tree identity collapsed.
func (e *ExpandedSet) Collapse(treeID string) {
	e.mu.Lock()
	delete(e.items, treeID)
	e.mu.Unlock()
}

// Has reports whether a tree identity is expanded.
func (e *ExpandedSet) Has(treeID string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	_, ok := e.items[treeID]
	return ok
}

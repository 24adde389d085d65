// Package navigator keeps the schema navigation tree, the active tab
// and the tree's selection state mutually consistent. It projects the
// table list into a display tree, derives the highlighted node from
// the active tab, and turns node activations into tab-open requests,
// resolving the real identity of unverified-import tables on the way.
package navigator

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/quarry-labs/quarry/pkg/core"
)

// GroupHeaderID is the fixed tree identity of the single group node
// that holds all table leaves.
const GroupHeaderID = "table_header"

// NewTableLabel is the placeholder label shown on a tab opened from an
// unverified import, until the import resolves.
const NewTableLabel = "New table"

// NodeKind distinguishes real table nodes from pending-import nodes.
type NodeKind int

const (
	// NodeTable is a verified table; the tree identity is the table's
	// real identity.
	NodeTable NodeKind = iota

	// NodePending is an unverified import; the tree identity is
	// namespaced so it can never collide with a real table's.
	NodePending
)

// NodeID is a tree node's identity. The tree widget keys selection and
// expansion state on the string form; the rest of the system keys on
// the underlying table identity.
type NodeID struct {
	Kind  NodeKind
	Table int64
}

// TableNodeID returns the identity of a verified table's leaf.
func TableNodeID(tableID int64) NodeID {
	return NodeID{Kind: NodeTable, Table: tableID}
}

// PendingNodeID returns the identity of an unverified import's leaf.
func PendingNodeID(tableID int64) NodeID {
	return NodeID{Kind: NodePending, Table: tableID}
}

// pendingPrefix namespaces unverified-import identities in the
// widget's key space.
const pendingPrefix = "_existing_"

// String renders the identity in the widget's key space. Pending nodes
// carry a namespace prefix so a placeholder and a real table sharing a
// numeric identity stay distinct.
func (id NodeID) String() string {
	if id.Kind == NodePending {
		return pendingPrefix + strconv.FormatInt(id.Table, 10)
	}
	return strconv.FormatInt(id.Table, 10)
}

// ParseNodeID parses a widget-key-space identity back into its tagged
// form. It is the inverse of String.
func ParseNodeID(s string) (NodeID, error) {
	kind := NodeTable
	if rest, ok := strings.CutPrefix(s, pendingPrefix); ok {
		kind = NodePending
		s = rest
	}
	table, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return NodeID{}, fmt.Errorf("malformed tree identity %q: %w", s, err)
	}
	return NodeID{Kind: kind, Table: table}, nil
}

// Leaf is a tree node derived 1:1 from a TableRecord.
type Leaf struct {
	TreeID NodeID
	Label  string
	Source core.TableRecord
}

// Group is the single container node holding all table leaves.
// Tables is the child key the tree widget walks.
type Group struct {
	TreeID string
	Label  string
	Tables []Leaf
}

// ActivationEvent accompanies a node activation from the tree widget.
// The widget offers link-like semantics for bookmarking and
// middle-click; activation intercepts the default navigation.
type ActivationEvent struct {
	Link string

	defaultPrevented bool
}

// PreventDefault suppresses the event's default navigation.
func (e *ActivationEvent) PreventDefault() {
	e.defaultPrevented = true
}

// DefaultPrevented reports whether PreventDefault was called.
func (e *ActivationEvent) DefaultPrevented() bool {
	return e.defaultPrevented
}

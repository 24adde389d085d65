package navigator

import "github.com/quarry-labs/quarry/pkg/core"

// ProjectTree derives the display tree from the current table list.
// Pure: the same input sequence always yields a structurally identical
// tree, and the projection holds no state between calls. A nil or
// empty table list (schema still loading, or genuinely empty) yields a
// group with zero leaves.
func ProjectTree(tables []core.TableRecord) []Group {
	group := Group{
		TreeID: GroupHeaderID,
		Label:  "Tables",
		Tables: make([]Leaf, 0, len(tables)),
	}

	for _, t := range tables {
		group.Tables = append(group.Tables, projectLeaf(t))
	}

	return []Group{group}
}

// projectLeaf applies the identity and label rule for one record.
// Unverified imports get a namespaced tree identity and a trailing
// marker on the label; the widget's bookkeeping must not collide with
// the real identity the table will have once the import is confirmed.
func projectLeaf(t core.TableRecord) Leaf {
	if !t.ImportVerified {
		return Leaf{
			TreeID: PendingNodeID(t.ID),
			Label:  t.Name + "*",
			Source: t,
		}
	}
	return Leaf{
		TreeID: TableNodeID(t.ID),
		Label:  t.Name,
		Source: t,
	}
}

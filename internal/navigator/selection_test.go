package navigator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/quarry-labs/quarry/pkg/core"
)

func TestReconcileSelection_ActiveTab(t *testing.T) {
	sel := ReconcileSelection(&core.Tab{ID: 5})

	assert.Len(t, sel, 1)
	assert.True(t, sel.Has("5"))
}

func TestReconcileSelection_NoActiveTab(t *testing.T) {
	sel := ReconcileSelection(nil)
	assert.Empty(t, sel)
}

func TestReconcileSelection_ReplacesPriorState(t *testing.T) {
	// The set is rebuilt on every change; clearing the active tab must
	// not leave the previous entry behind.
	steps := []*core.Tab{{ID: 5}, {ID: 9}, nil, {ID: 5}}
	want := []Selection{
		{"5": {}},
		{"9": {}},
		{},
		{"5": {}},
	}

	for i, tab := range steps {
		got := ReconcileSelection(tab)
		assert.Equal(t, want[i], got, "step %d", i)
		assert.LessOrEqual(t, len(got), 1)
	}
}

func TestExpandedSet(t *testing.T) {
	e := NewExpandedSet(GroupHeaderID)

	assert.True(t, e.Has(GroupHeaderID))
	assert.False(t, e.Has("_existing_3"))

	e.Expand("_existing_3")
	assert.True(t, e.Has("_existing_3"))

	e.Collapse(GroupHeaderID)
	assert.False(t, e.Has(GroupHeaderID))
	assert.True(t, e.Has("_existing_3"))
}

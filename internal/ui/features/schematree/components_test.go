package schematree

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/quarry-labs/quarry/internal/navigator"
	"github.com/quarry-labs/quarry/internal/ui/features"
	"github.com/quarry-labs/quarry/pkg/core"
)

func projectedTree() []navigator.Group {
	return navigator.ProjectTree([]core.TableRecord{
		{ID: 1, SchemaID: 10, Name: "orders", ImportVerified: true},
		{ID: 2, SchemaID: 10, Name: "drafts", ImportVerified: false},
	})
}

func TestTree_RendersGroupAndLeaves(t *testing.T) {
	expanded := navigator.NewExpandedSet(navigator.GroupHeaderID)
	body := features.RenderComponent(t, Tree(10, projectedTree(), expanded, navigator.Selection{}))

	assert.Contains(t, body, `id="schema-tree"`)
	assert.Contains(t, body, ">Tables<")
	assert.Contains(t, body, ">orders<")
	assert.Contains(t, body, ">drafts*<")

	// The unverified import carries a namespaced identity; the real
	// table uses its id directly.
	assert.Contains(t, body, `data-id="1"`)
	assert.Contains(t, body, `data-id="_existing_2"`)
	assert.Contains(t, body, "@post('/api/tree/10/activate/_existing_2')")

	// An open group offers collapse.
	assert.Contains(t, body, "@post('/api/tree/10/collapse/table_header')")
}

func TestTree_CollapsedGroupHidesLeaves(t *testing.T) {
	expanded := navigator.NewExpandedSet()
	body := features.RenderComponent(t, Tree(10, projectedTree(), expanded, navigator.Selection{}))

	assert.NotContains(t, body, "orders")
	assert.Contains(t, body, "@post('/api/tree/10/expand/table_header')")
}

func TestTree_HighlightsSelection(t *testing.T) {
	expanded := navigator.NewExpandedSet(navigator.GroupHeaderID)
	sel := navigator.ReconcileSelection(&core.Tab{ID: 1, Database: "analytics", SchemaID: 10})

	body := features.RenderComponent(t, Tree(10, projectedTree(), expanded, sel))

	assert.Contains(t, body, `class="tree-leaf tree-leaf--selected" data-id="1"`)
	assert.Contains(t, body, `class="tree-leaf tree-leaf--pending" data-id="_existing_2"`)
}

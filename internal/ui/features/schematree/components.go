package schematree

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"github.com/quarry-labs/quarry/internal/navigator"
)

// Tree renders the schema navigation tree. Selection and expansion are
// keyed by tree identity, so an unverified import and a real table can
// never share a highlight.
func Tree(schemaID int64, groups []navigator.Group, expanded *navigator.ExpandedSet, sel navigator.Selection) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<nav id="schema-tree" data-schema="%d"><ul class="tree">`, schemaID); err != nil {
			return err
		}
		for _, g := range groups {
			if err := writeGroup(w, schemaID, g, expanded, sel); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</ul></nav>`)
		return err
	})
}

func writeGroup(w io.Writer, schemaID int64, g navigator.Group, expanded *navigator.ExpandedSet, sel navigator.Selection) error {
	open := expanded.Has(g.TreeID)

	toggle := "expand"
	arrow := "&#9656;"
	if open {
		toggle = "collapse"
		arrow = "&#9662;"
	}

	_, err := fmt.Fprintf(w,
		`<li class="tree-group" data-id="%s">`+
			`<button class="tree-toggle" data-on-click="@post('/api/tree/%d/%s/%s')">%s</button>`+
			`<span class="tree-group-label">%s</span>`,
		templ.EscapeString(g.TreeID), schemaID, toggle, templ.EscapeString(g.TreeID), arrow,
		templ.EscapeString(g.Label))
	if err != nil {
		return err
	}

	if open {
		if _, err := io.WriteString(w, `<ul class="tree-children">`); err != nil {
			return err
		}
		for _, leaf := range g.Tables {
			if err := writeLeaf(w, schemaID, leaf, sel); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, `</ul>`); err != nil {
			return err
		}
	}

	_, err = io.WriteString(w, `</li>`)
	return err
}

func writeLeaf(w io.Writer, schemaID int64, leaf navigator.Leaf, sel navigator.Selection) error {
	class := "tree-leaf"
	if sel.Has(leaf.TreeID.String()) {
		class += " tree-leaf--selected"
	}
	if !leaf.Source.ImportVerified {
		class += " tree-leaf--pending"
	}

	// A real href keeps bookmarking and middle-click working; the
	// __prevent modifier suppresses the navigation so activation runs
	// the reconciliation path instead.
	_, err := fmt.Fprintf(w,
		`<li class="%s" data-id="%s">`+
			`<a href="/schemas/%d/tables/%d" data-on-click__prevent="@post('/api/tree/%d/activate/%s')">%s</a>`+
			`</li>`,
		class, templ.EscapeString(leaf.TreeID.String()),
		schemaID, leaf.Source.ID,
		schemaID, templ.EscapeString(leaf.TreeID.String()),
		templ.EscapeString(leaf.Label))
	return err
}

package tabstrip

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"github.com/quarry-labs/quarry/pkg/core"
)

// Strip renders the workbench tab strip.
func Strip(open []core.Tab, active *core.Tab) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<div id="tab-strip" class="tabs">`); err != nil {
			return err
		}
		for _, t := range open {
			if err := writeTab(w, t, active); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</div>`)
		return err
	})
}

func writeTab(w io.Writer, t core.Tab, active *core.Tab) error {
	class := "tab"
	if active != nil && t.Database == active.Database && t.SchemaID == active.SchemaID &&
		t.ID == active.ID && t.IsNew == active.IsNew {
		class += " tab--active"
	}

	// A new-table tab can share its numeric id with a real table tab,
	// so the flag travels with every action URL.
	suffix := ""
	if t.IsNew {
		class += " tab--new"
		suffix = "?new=1"
	}

	_, err := fmt.Fprintf(w,
		`<div class="%s" data-tab="%d">`+
			`<button class="tab-label" data-on-click="@post('/api/tabs/%d/%d/focus%s')">%s</button>`+
			`<button class="tab-close" data-on-click="@post('/api/tabs/%d/%d/close%s')">&times;</button>`+
			`</div>`,
		class, t.ID,
		t.SchemaID, t.ID, suffix, templ.EscapeString(t.Label),
		t.SchemaID, t.ID, suffix)
	return err
}

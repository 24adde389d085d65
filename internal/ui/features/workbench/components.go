package workbench

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"github.com/quarry-labs/quarry/internal/ui/resources"
	"github.com/quarry-labs/quarry/pkg/core"
)

// Page renders the workbench shell. The tree, tab strip and pending
// imports are empty containers that load and keep themselves current
// over SSE.
func Page(database string, schemas []core.Schema, current int64) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>%s &middot; Quarry</title>
<link rel="stylesheet" href="%s">
<script type="module" src="https://cdn.jsdelivr.net/gh/starfederation/datastar@v1.0.0/bundles/datastar.js"></script>
<script type="module" src="%s"></script>
</head>
<body>
<header class="topbar"><h1>Quarry</h1><span class="topbar-db">%s</span></header>
<main class="workbench">`,
			templ.EscapeString(database),
			resources.StaticPath("style.css"), resources.StaticPath("app.js"),
			templ.EscapeString(database)); err != nil {
			return err
		}

		if err := writeSchemaPicker(w, schemas, current); err != nil {
			return err
		}

		_, err := fmt.Fprintf(w, `
<aside class="sidebar">
<nav id="schema-tree" data-on-load="@get('/api/tree/%d'); @get('/api/tree/%d/updates')"></nav>
<div id="pending-imports" data-on-load="@get('/api/imports/%d')"></div>
</aside>
<section class="content">
<div id="tab-strip" data-on-load="@get('/api/tabs'); @get('/api/tabs/updates')"></div>
<div id="tab-body"></div>
</section>
</main>
</body>
</html>`, current, current, current)
		return err
	})
}

func writeSchemaPicker(w io.Writer, schemas []core.Schema, current int64) error {
	if _, err := io.WriteString(w, `<nav class="schema-picker"><ul>`); err != nil {
		return err
	}
	for _, sc := range schemas {
		class := "schema"
		if sc.ID == current {
			class += " schema--current"
		}
		if _, err := fmt.Fprintf(w, `<li class="%s"><a href="/?schema=%d">%s</a></li>`,
			class, sc.ID, templ.EscapeString(sc.Name)); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, `</ul></nav>`)
	return err
}

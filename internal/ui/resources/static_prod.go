//go:build !dev

package resources

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed static/*
var embedded embed.FS

// Handler serves the embedded assets. Asset names are not
// content-hashed, so they can change between releases under the same
// URL; cache for an hour and let clients revalidate after that.
func Handler() http.Handler {
	fsys, _ := fs.Sub(embedded, "static")
	files := http.StripPrefix("/static/", http.FileServer(http.FS(fsys)))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=3600")
		files.ServeHTTP(w, r)
	})
}

// Package resources serves the workbench's static assets: the
// stylesheet and the bundled client script. Production builds embed
// them; dev builds serve from the source tree and rebundle on request.
package resources

// StaticDirectoryPath locates the asset sources relative to the
// repository root, for tooling that runs outside a build tag.
const StaticDirectoryPath = "internal/ui/resources/static"

// StaticPath returns the URL path a page should reference an asset by.
func StaticPath(name string) string {
	return "/static/" + name
}

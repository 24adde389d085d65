package resources

import (
	"fmt"
	"path/filepath"

	"github.com/evanw/esbuild/pkg/api"
)

// BundleApp compiles the client entry point into a single bundled script.
func BundleApp(srcDir string, minify bool) (string, error) {
	buildOpts := api.BuildOptions{
		EntryPoints: []string{filepath.Join(srcDir, "app.js")},
		Bundle:      true,
		Write:       false,
		Outdir:      "out",

		Platform: api.PlatformBrowser,
		Format:   api.FormatIIFE,
		Target:   api.ES2020,

		TreeShaking: api.TreeShakingTrue,
		Sourcemap:   api.SourceMapNone,
		LogLevel:    api.LogLevelWarning,
	}

	if minify {
		buildOpts.MinifyWhitespace = true
		buildOpts.MinifyIdentifiers = true
		buildOpts.MinifySyntax = true
	}

	result := api.Build(buildOpts)

	if len(result.Errors) > 0 {
		var errMsg string
		for _, err := range result.Errors {
			errMsg += fmt.Sprintf("%s:%d:%d: %s\n",
				err.Location.File,
				err.Location.Line,
				err.Location.Column,
				err.Text)
		}
		return "", fmt.Errorf("esbuild errors:\n%s", errMsg)
	}

	for _, file := range result.OutputFiles {
		if filepath.Ext(file.Path) == ".js" {
			return string(file.Contents), nil
		}
	}
	return "", fmt.Errorf("no JavaScript output generated")
}

// Package features provides shared test utilities for UI feature tests.
package features

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

// RequestWithPathParam wraps a request with chi URL params.
func RequestWithPathParam(r *http.Request, keyvals ...string) *http.Request {
	rctx := chi.NewRouteContext()
	for i := 0; i+1 < len(keyvals); i += 2 {
		rctx.URLParams.Add(keyvals[i], keyvals[i+1])
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// RenderComponent renders a templ component to a string for assertions.
func RenderComponent(t *testing.T, c templ.Component) string {
	t.Helper()

	var sb strings.Builder
	require.NoError(t, c.Render(context.Background(), &sb))
	return sb.String()
}

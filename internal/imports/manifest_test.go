package imports

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadManifest(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "orders.import.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
database: analytics
schema: staging
table: orders
source: orders.csv
format: csv
`), 0o644))

	m, err := LoadManifest(path)
	require.NoError(t, err)
	assert.Equal(t, "analytics", m.Database)
	assert.Equal(t, "staging", m.Schema)
	assert.Equal(t, "orders", m.Table)
	assert.Equal(t, "csv", m.Format)
}

func TestLoadManifest_Invalid(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
	}{
		{"missing table", "database: analytics\nschema: staging\n"},
		{"missing schema", "database: analytics\ntable: orders\n"},
		{"missing database", "schema: staging\ntable: orders\n"},
		{"bad yaml", "::: not yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, "bad.import.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			_, err := LoadManifest(path)
			assert.Error(t, err)
		})
	}
}

func TestIsManifest(t *testing.T) {
	assert.True(t, isManifest("/staging/orders.import.yaml"))
	assert.True(t, isManifest("/staging/orders.import.yml"))
	assert.False(t, isManifest("/staging/orders.csv"))
	assert.False(t, isManifest("/staging/notes.yaml"))
}

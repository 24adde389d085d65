package imports

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Manifest is the sidecar file dropped next to an uploaded data file
// in the staging directory. It names the schema and table the import
// targets.
type Manifest struct {
	Database string `yaml:"database"`
	Schema   string `yaml:"schema"`
	Table    string `yaml:"table"`
	Source   string `yaml:"source"`
	Format   string `yaml:"format,omitempty"`
}

// Validate checks the manifest names its target.
func (m *Manifest) Validate() error {
	if m.Database == "" {
		return fmt.Errorf("manifest missing database")
	}
	if m.Schema == "" {
		return fmt.Errorf("manifest missing schema")
	}
	if m.Table == "" {
		return fmt.Errorf("manifest missing table")
	}
	return nil
}

// LoadManifest reads and validates a manifest file.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", path, err)
	}

	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("invalid manifest %s: %w", path, err)
	}
	return &m, nil
}

// isManifest reports whether a staging file is an import manifest.
func isManifest(path string) bool {
	return strings.HasSuffix(path, ".import.yaml") || strings.HasSuffix(path, ".import.yml")
}

// Package config provides shared configuration types for Quarry.
// This package is decoupled from CLI concerns so the UI server and other
// tools can load project configuration directly.
package config

import (
	"fmt"
	"strings"

	"github.com/quarry-labs/quarry/internal/adapter"
	"github.com/quarry-labs/quarry/pkg/core"
)

// ConnectionConfig holds live-database connection configuration.
type ConnectionConfig struct {
	Type string `koanf:"type"` // duckdb, postgres

	// Name is the display name shown in the workbench. Defaults to the
	// database name.
	Name string `koanf:"name"`

	// File-based databases (DuckDB)
	Path string `koanf:"path"`

	// Network databases
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	Database string `koanf:"database"`
	User     string `koanf:"user"`
	Password string `koanf:"password"`

	// Additional driver-specific options
	Options map[string]string `koanf:"options"`
}

// Validate checks if the connection configuration is valid.
// It uses the adapter registry to determine which adapter types are available.
func (c *ConnectionConfig) Validate() error {
	if c.Type == "" {
		return fmt.Errorf("connection type is required")
	}
	available := adapter.Available()
	for _, name := range available {
		if name == strings.ToLower(c.Type) {
			return nil
		}
	}
	return fmt.Errorf("unknown connection type %q (available: %s)", c.Type, strings.Join(available, ", "))
}

// DisplayName returns the workbench display name for the connection.
func (c *ConnectionConfig) DisplayName() string {
	if c.Name != "" {
		return c.Name
	}
	if c.Database != "" {
		return c.Database
	}
	if c.Path != "" {
		return c.Path
	}
	return c.Type
}

// ToAdapterConfig converts the connection settings to the adapter form.
func (c *ConnectionConfig) ToAdapterConfig() core.AdapterConfig {
	return core.AdapterConfig{
		Type:     c.Type,
		Path:     c.Path,
		Host:     c.Host,
		Port:     c.Port,
		Database: c.Database,
		Username: c.User,
		Password: c.Password,
		Options:  c.Options,
	}
}

// ServerConfig holds UI server configuration.
type ServerConfig struct {
	Port          int    `koanf:"port"`
	SessionSecret string `koanf:"session_secret"`
	Dev           bool   `koanf:"dev"`
}

// Config is the full project configuration.
type Config struct {
	// ProjectRoot is the directory the config file was found in.
	// Set during loading, never read from the file.
	ProjectRoot string `koanf:"-"`

	StatePath  string `koanf:"state_path"`
	ImportsDir string `koanf:"imports_dir"`

	Connection *ConnectionConfig `koanf:"connection"`
	Server     *ServerConfig     `koanf:"server"`

	Verbose bool   `koanf:"verbose"`
	Output  string `koanf:"output"` // text or json
}

package config

// Default configuration values.
const (
	DefaultStateFile     = "quarry.db"
	DefaultImportsDir    = "imports"
	DefaultPort          = 8137
	DefaultSessionSecret = "quarry-dev-session-secret-change-me"
	DefaultOutput        = "text"
)

// ApplyDefaults applies default values to a Config.
func ApplyDefaults(c *Config) {
	if c == nil {
		return
	}
	if c.StatePath == "" {
		c.StatePath = DefaultStateFile
	}
	if c.ImportsDir == "" {
		c.ImportsDir = DefaultImportsDir
	}
	if c.Output == "" {
		c.Output = DefaultOutput
	}
	if c.Server == nil {
		c.Server = &ServerConfig{}
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Server.SessionSecret == "" {
		c.Server.SessionSecret = DefaultSessionSecret
	}
	ApplyConnectionDefaults(c.Connection)
}

// ApplyConnectionDefaults applies default values based on the connection type.
func ApplyConnectionDefaults(c *ConnectionConfig) {
	if c == nil {
		return
	}
	if c.Type == "postgres" && c.Port == 0 {
		c.Port = 5432
	}
}

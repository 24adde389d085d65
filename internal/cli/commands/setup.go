package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/quarry-labs/quarry/internal/config"
	"github.com/quarry-labs/quarry/internal/engine"
	"github.com/quarry-labs/quarry/internal/imports"
	"github.com/quarry-labs/quarry/internal/state"
	"github.com/quarry-labs/quarry/pkg/core"
)

type configKey struct{}
type loggerKey struct{}

// ContextWithConfig stores the loaded configuration in the context.
func ContextWithConfig(ctx context.Context, cfg *config.Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// ContextWithLogger stores the logger in the context.
func ContextWithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// getConfig retrieves the configuration from the command context,
// falling back to defaults if none was loaded.
func getConfig(cmd *cobra.Command) *config.Config {
	if cfg, ok := cmd.Context().Value(configKey{}).(*config.Config); ok {
		return cfg
	}
	cfg := &config.Config{}
	config.ApplyDefaults(cfg)
	return cfg
}

// getLogger retrieves the logger from the command context.
func getLogger(cmd *cobra.Command) *slog.Logger {
	if l, ok := cmd.Context().Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	return slog.New(slog.DiscardHandler)
}

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg     *config.Config
	Logger  *slog.Logger
	State   core.Store
	Imports *imports.Store
	Engine  *engine.Engine
}

// NewCommandContext opens the state store and wires the import store
// and engine. Returns the context and a cleanup function that must be
// called (typically via defer).
func NewCommandContext(cmd *cobra.Command) (*CommandContext, func(), error) {
	cfg := getConfig(cmd)
	logger := getLogger(cmd)

	if cfg.Connection == nil {
		return nil, nil, fmt.Errorf("no connection configured (add a connection section to %s)", config.ConfigFileName)
	}

	st, err := openState(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	importStore := imports.NewStore(st, logger)

	eng := engine.New(engine.Config{
		Database:      cfg.Connection.DisplayName(),
		AdapterConfig: cfg.Connection.ToAdapterConfig(),
		Store:         st,
		Imports:       importStore,
		Logger:        logger,
	})

	cleanup := func() {
		_ = eng.Close()
		_ = st.Close()
	}

	return &CommandContext{
		Cfg:     cfg,
		Logger:  logger,
		State:   st,
		Imports: importStore,
		Engine:  eng,
	}, cleanup, nil
}

// openState opens the workbench state database, creating its directory
// and running migrations as needed.
func openState(cfg *config.Config, logger *slog.Logger) (core.Store, error) {
	stateDir := filepath.Dir(cfg.StatePath)
	if stateDir != "." && stateDir != "" {
		if err := os.MkdirAll(stateDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create state directory: %w", err)
		}
	}

	st := state.NewSQLiteStore(logger)
	if err := st.Open(cfg.StatePath); err != nil {
		return nil, err
	}
	if err := st.Migrate(); err != nil {
		_ = st.Close()
		return nil, err
	}
	return st, nil
}

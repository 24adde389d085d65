package adapter

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/marcboeker/go-duckdb" // duckdb driver

	"github.com/quarry-labs/quarry/pkg/core"
)

func init() {
	Register("duckdb", func() core.Adapter { return NewDuckDBAdapter(nil) })
}

// DuckDBAdapter implements core.Adapter for DuckDB.
type DuckDBAdapter struct {
	baseSQLAdapter
	config core.AdapterConfig
}

// NewDuckDBAdapter creates a new DuckDB adapter instance.
// If logger is nil, a discard logger is used.
func NewDuckDBAdapter(logger *slog.Logger) *DuckDBAdapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &DuckDBAdapter{baseSQLAdapter: baseSQLAdapter{logger: logger}}
}

// Name returns the adapter's dialect name.
func (a *DuckDBAdapter) Name() string { return "duckdb" }

// Connect establishes a connection to DuckDB.
// Use ":memory:" as the path for an in-memory database.
func (a *DuckDBAdapter) Connect(ctx context.Context, cfg core.AdapterConfig) error {
	path := cfg.Path
	if path == "" {
		path = ":memory:"
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return fmt.Errorf("failed to open duckdb connection: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping duckdb: %w", err)
	}

	a.db = db
	a.config = cfg
	return nil
}

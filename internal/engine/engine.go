// Package engine connects Quarry to the target database and publishes
// each schema's table list as a reactive source. The list merges the
// live catalog with the schema's unverified imports, so the navigation
// tree sees both in one pass.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/quarry-labs/quarry/internal/adapter"
	"github.com/quarry-labs/quarry/internal/imports"
	"github.com/quarry-labs/quarry/internal/reactive"
	"github.com/quarry-labs/quarry/pkg/core"
)

// Engine owns the live-database connection and the per-schema table
// sources.
type Engine struct {
	database string
	dbConfig core.AdapterConfig
	store    core.Store
	imports  *imports.Store
	logger   *slog.Logger

	dbMu        sync.Mutex
	db          core.Adapter
	dbConnected bool

	sourcesMu sync.Mutex
	sources   map[int64]*reactive.Value[[]core.TableRecord]
}

// Config holds engine configuration.
type Config struct {
	// Database is the display name of the target database.
	Database string
	// AdapterConfig selects and configures the live-database adapter.
	AdapterConfig core.AdapterConfig
	// Store is the schema/import bookkeeping store.
	Store core.Store
	// Imports is the import store for unverified tables.
	Imports *imports.Store
	// Logger is the structured logger (optional, uses discard if nil).
	Logger *slog.Logger
}

// New creates an engine with a lazy database connection. The adapter
// connects on the first call that needs the live catalog.
func New(cfg Config) *Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Engine{
		database: cfg.Database,
		dbConfig: cfg.AdapterConfig,
		store:    cfg.Store,
		imports:  cfg.Imports,
		logger:   logger,
		sources:  make(map[int64]*reactive.Value[[]core.TableRecord]),
	}
}

// Database returns the display name of the target database.
func (e *Engine) Database() string { return e.database }

// GetAdapter returns the connected adapter, or nil before connection.
func (e *Engine) GetAdapter() core.Adapter {
	e.dbMu.Lock()
	defer e.dbMu.Unlock()
	if !e.dbConnected {
		return nil
	}
	return e.db
}

// EnsureConnected connects the adapter if it is not connected yet.
func (e *Engine) EnsureConnected(ctx context.Context) error {
	e.dbMu.Lock()
	defer e.dbMu.Unlock()

	if e.dbConnected {
		return nil
	}

	db, err := adapter.New(e.dbConfig.Type)
	if err != nil {
		return err
	}

	e.logger.Debug("connecting to target database", "type", e.dbConfig.Type)
	if err := db.Connect(ctx, e.dbConfig); err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}

	e.db = db
	e.dbConnected = true
	return nil
}

// Close closes the live-database connection.
func (e *Engine) Close() error {
	e.dbMu.Lock()
	defer e.dbMu.Unlock()

	if !e.dbConnected {
		return nil
	}
	e.dbConnected = false
	return e.db.Close()
}

// Schemas lists the target database's schemas, registering each name
// in the state store so it has a stable identity.
func (e *Engine) Schemas(ctx context.Context) ([]core.Schema, error) {
	if err := e.EnsureConnected(ctx); err != nil {
		return nil, err
	}

	names, err := e.db.ListSchemas(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list schemas: %w", err)
	}
	if len(names) == 0 {
		names = []string{"main"}
	}

	schemas := make([]core.Schema, 0, len(names))
	for _, name := range names {
		sc, err := e.store.EnsureSchema(name)
		if err != nil {
			return nil, err
		}
		schemas = append(schemas, *sc)
	}
	return schemas, nil
}

// TableSource returns the reactive table list for a schema. The source
// starts empty; call Refresh to populate it and again whenever the
// catalog or the import set may have changed.
func (e *Engine) TableSource(schemaID int64) *reactive.Value[[]core.TableRecord] {
	e.sourcesMu.Lock()
	defer e.sourcesMu.Unlock()

	src, ok := e.sources[schemaID]
	if !ok {
		src = reactive.NewValue[[]core.TableRecord](nil)
		e.sources[schemaID] = src
	}
	return src
}

// Refresh recomputes a schema's table list and publishes it. The list
// is rebuilt from scratch on every call: live tables first in catalog
// order, then unverified imports in arrival order.
func (e *Engine) Refresh(ctx context.Context, schemaID int64) error {
	if err := e.EnsureConnected(ctx); err != nil {
		return err
	}

	schema, err := e.store.GetSchema(schemaID)
	if err != nil {
		return err
	}

	names, err := e.db.ListTables(ctx, schema.Name)
	if err != nil {
		return fmt.Errorf("failed to list tables: %w", err)
	}

	records := make([]core.TableRecord, 0, len(names))
	for _, name := range names {
		id, err := e.store.EnsureTable(schemaID, name)
		if err != nil {
			return err
		}
		records = append(records, core.TableRecord{
			ID:             id,
			SchemaID:       schemaID,
			Name:           name,
			ImportVerified: true,
		})
	}

	pending, err := e.imports.Pending(schemaID)
	if err != nil {
		return err
	}
	for _, rec := range pending {
		records = append(records, core.TableRecord{
			ID:             rec.ProvisionalID,
			SchemaID:       schemaID,
			Name:           rec.TableName,
			ImportVerified: false,
		})
	}

	e.TableSource(schemaID).Set(records)
	e.logger.Debug("refreshed table source",
		"schema", schema.Name, "tables", len(names), "pending", len(pending))
	return nil
}

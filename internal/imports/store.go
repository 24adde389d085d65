// Package imports tracks in-progress data imports and hands out the
// reactive records the navigator resolves unverified table identities
// against. Records are backed by the state store; resolution arrives
// asynchronously and is pushed into the reactive reference, so readers
// that snapshotted too early are corrected by a later ping.
package imports

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/quarry-labs/quarry/internal/reactive"
	"github.com/quarry-labs/quarry/internal/state"
	"github.com/quarry-labs/quarry/pkg/core"
)

type recordKey struct {
	database      string
	schemaID      int64
	provisionalID int64
}

// Store is the import store. It caches one reactive record per
// (database, schema, provisional table) and keeps every cached record
// in sync with the state store.
type Store struct {
	state  core.Store
	logger *slog.Logger

	mu      sync.Mutex
	records map[recordKey]*reactive.Value[core.ImportRecord]

	onChange func()
}

// NewStore creates an import store backed by the given state store.
func NewStore(st core.Store, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		state:   st,
		logger:  logger,
		records: make(map[recordKey]*reactive.Value[core.ImportRecord]),
	}
}

// OnChange registers a hook invoked whenever the set of imports
// changes (registration, resolution, verification). The UI uses it to
// ping SSE clients.
func (s *Store) OnChange(fn func()) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

func (s *Store) changed() {
	s.mu.Lock()
	fn := s.onChange
	s.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// LoadIncompleteImport returns the reactive record behind an
// unverified table's provisional identity. The returned reference may
// hold a zero record if the backing fetch has not completed; callers
// snapshot it and subscribe for a later correction. Each distinct
// identity gets one shared record; repeated loads return the same
// reference.
func (s *Store) LoadIncompleteImport(database string, schemaID, provisionalID int64) *reactive.Value[core.ImportRecord] {
	key := recordKey{database, schemaID, provisionalID}

	s.mu.Lock()
	rec, ok := s.records[key]
	if !ok {
		rec = reactive.NewValue(core.ImportRecord{
			ProvisionalID: provisionalID,
			SchemaID:      schemaID,
			Status:        core.ImportPending,
		})
		s.records[key] = rec
		// Fetch outside the lock; the reference is already usable.
		go s.fetch(key, rec)
	}
	s.mu.Unlock()

	return rec
}

// fetch populates a freshly-created record from the state store. A
// missing row (deleted between projection and activation) is published
// as failed so anyone waiting on a resolution gives up.
func (s *Store) fetch(key recordKey, rec *reactive.Value[core.ImportRecord]) {
	stored, err := s.state.GetImportByProvisional(key.schemaID, key.provisionalID)
	if err != nil {
		if errors.Is(err, state.ErrImportNotFound) {
			failed := rec.Get()
			failed.Status = core.ImportFailed
			rec.Set(failed)
			return
		}
		s.logger.Error("import fetch failed",
			"schema", key.schemaID, "provisional", key.provisionalID, "error", err)
		return
	}
	rec.Set(*stored)
}

// Register records a newly-arrived import and returns its record.
func (s *Store) Register(database string, schemaID int64, tableName string) (*core.ImportRecord, error) {
	stored, err := s.state.CreateImport(schemaID, tableName)
	if err != nil {
		return nil, fmt.Errorf("failed to register import: %w", err)
	}

	s.publish(database, *stored)
	s.changed()

	s.logger.Info("import registered",
		"database", database, "schema", schemaID, "table", tableName, "provisional", stored.ProvisionalID)
	return stored, nil
}

// Resolve assigns the real table identity to an import and pushes the
// update into its reactive record.
func (s *Store) Resolve(database, token string, tableID int64) error {
	if err := s.state.ResolveImport(token, tableID); err != nil {
		return err
	}

	stored, err := s.state.GetImport(token)
	if err != nil {
		return err
	}

	s.publish(database, *stored)
	s.changed()

	s.logger.Info("import resolved", "token", token, "table", tableID)
	return nil
}

// Verify marks an import's table structure as user-confirmed. The
// table leaves the unverified branch of the tree on the next
// projection.
func (s *Store) Verify(database, token string) error {
	if err := s.state.VerifyImport(token); err != nil {
		return err
	}

	stored, err := s.state.GetImport(token)
	if err != nil {
		return err
	}

	s.publish(database, *stored)
	s.changed()
	return nil
}

// Pending returns a schema's not-yet-verified imports.
func (s *Store) Pending(schemaID int64) ([]core.ImportRecord, error) {
	all, err := s.state.ListImports(schemaID)
	if err != nil {
		return nil, err
	}

	pending := all[:0:0]
	for _, rec := range all {
		if rec.Status != core.ImportVerified {
			pending = append(pending, rec)
		}
	}
	return pending, nil
}

// publish pushes a stored record into its cached reactive reference,
// creating the reference if no reader has asked for it yet.
func (s *Store) publish(database string, stored core.ImportRecord) {
	key := recordKey{database, stored.SchemaID, stored.ProvisionalID}

	s.mu.Lock()
	rec, ok := s.records[key]
	if !ok {
		rec = reactive.NewValue(stored)
		s.records[key] = rec
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	rec.Set(stored)
}

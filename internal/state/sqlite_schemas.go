package state

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/quarry-labs/quarry/pkg/core"
)

// ListSchemas returns all registered schemas ordered by name.
func (s *SQLiteStore) ListSchemas() ([]core.Schema, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	rows, err := s.db.Query(`SELECT id, name FROM schemas ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list schemas: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var schemas []core.Schema
	for rows.Next() {
		var sc core.Schema
		if err := rows.Scan(&sc.ID, &sc.Name); err != nil {
			return nil, fmt.Errorf("failed to scan schema: %w", err)
		}
		schemas = append(schemas, sc)
	}
	return schemas, rows.Err()
}

// GetSchema retrieves a schema by id.
func (s *SQLiteStore) GetSchema(id int64) (*core.Schema, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	sc := &core.Schema{}
	err := s.db.QueryRow(`SELECT id, name FROM schemas WHERE id = ?`, id).
		Scan(&sc.ID, &sc.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("schema not found: %d", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get schema: %w", err)
	}
	return sc, nil
}

// EnsureSchema registers a schema name if it is not known yet and
// returns its record either way.
func (s *SQLiteStore) EnsureSchema(name string) (*core.Schema, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	sc := &core.Schema{Name: name}
	err := s.db.QueryRow(`SELECT id FROM schemas WHERE name = ?`, name).Scan(&sc.ID)
	if err == nil {
		return sc, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to look up schema: %w", err)
	}

	res, err := s.db.Exec(`INSERT INTO schemas (name) VALUES (?)`, name)
	if err != nil {
		return nil, fmt.Errorf("failed to register schema: %w", err)
	}
	sc.ID, err = res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read schema id: %w", err)
	}

	s.logger.Debug("registered schema", "name", name, "id", sc.ID)
	return sc, nil
}

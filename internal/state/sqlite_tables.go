package state

import (
	"database/sql"
	"errors"
	"fmt"
)

// EnsureTable assigns a stable identity to a live table name, creating
// one on first sight and reusing it afterwards. The live database has
// no notion of these identities; the rest of the system keys tabs and
// tree selection on them.
func (s *SQLiteStore) EnsureTable(schemaID int64, name string) (int64, error) {
	if s.db == nil {
		return 0, fmt.Errorf("database not opened")
	}

	var id int64
	err := s.db.QueryRow(
		`SELECT id FROM tables WHERE schema_id = ? AND name = ?`,
		schemaID, name,
	).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("failed to look up table: %w", err)
	}

	res, err := s.db.Exec(`INSERT INTO tables (schema_id, name) VALUES (?, ?)`, schemaID, name)
	if err != nil {
		return 0, fmt.Errorf("failed to register table: %w", err)
	}
	id, err = res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read table id: %w", err)
	}
	return id, nil
}

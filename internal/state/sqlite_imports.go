package state

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/quarry-labs/quarry/pkg/core"
)

// ErrImportNotFound is returned when no import matches the lookup.
var ErrImportNotFound = errors.New("import not found")

const importColumns = `provisional_id, token, schema_id, table_id, table_name, status, created_at`

// CreateImport records a new pending import in a schema. The returned
// record carries a fresh provisional identity; the real table identity
// stays zero until ResolveImport.
func (s *SQLiteStore) CreateImport(schemaID int64, tableName string) (*core.ImportRecord, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	rec := &core.ImportRecord{
		Token:     generateToken(),
		SchemaID:  schemaID,
		TableName: tableName,
		Status:    core.ImportPending,
		CreatedAt: time.Now().UTC(),
	}

	res, err := s.db.Exec(
		`INSERT INTO imports (token, schema_id, table_name, status, created_at) VALUES (?, ?, ?, ?, ?)`,
		rec.Token, rec.SchemaID, rec.TableName, string(rec.Status), rec.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create import: %w", err)
	}
	rec.ProvisionalID, err = res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read provisional id: %w", err)
	}

	s.logger.Debug("created import",
		"token", rec.Token, "schema", schemaID, "table", tableName, "provisional", rec.ProvisionalID)
	return rec, nil
}

// GetImport retrieves an import record by token.
func (s *SQLiteStore) GetImport(token string) (*core.ImportRecord, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	row := s.db.QueryRow(`SELECT `+importColumns+` FROM imports WHERE token = ?`, token)
	return scanImport(row)
}

// GetImportByProvisional retrieves the import record behind a
// provisional table identity.
func (s *SQLiteStore) GetImportByProvisional(schemaID, provisionalID int64) (*core.ImportRecord, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	row := s.db.QueryRow(
		`SELECT `+importColumns+` FROM imports WHERE schema_id = ? AND provisional_id = ?`,
		schemaID, provisionalID,
	)
	return scanImport(row)
}

// ListImports returns a schema's import records, oldest first.
func (s *SQLiteStore) ListImports(schemaID int64) ([]core.ImportRecord, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	rows, err := s.db.Query(
		`SELECT `+importColumns+` FROM imports WHERE schema_id = ? ORDER BY created_at, provisional_id`,
		schemaID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list imports: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var recs []core.ImportRecord
	for rows.Next() {
		rec, err := scanImport(rows)
		if err != nil {
			return nil, err
		}
		recs = append(recs, *rec)
	}
	return recs, rows.Err()
}

// ResolveImport assigns the real table identity to a pending import.
func (s *SQLiteStore) ResolveImport(token string, tableID int64) error {
	return s.updateImport(token,
		`UPDATE imports SET table_id = ?, status = ? WHERE token = ?`,
		tableID, string(core.ImportResolved), token)
}

// VerifyImport marks an import's table structure as user-confirmed.
func (s *SQLiteStore) VerifyImport(token string) error {
	return s.updateImport(token,
		`UPDATE imports SET status = ? WHERE token = ?`,
		string(core.ImportVerified), token)
}

// DeleteImport removes an import record.
func (s *SQLiteStore) DeleteImport(token string) error {
	return s.updateImport(token, `DELETE FROM imports WHERE token = ?`, token)
}

func (s *SQLiteStore) updateImport(token, query string, args ...any) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}

	res, err := s.db.Exec(query, args...)
	if err != nil {
		return fmt.Errorf("failed to update import: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update import: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrImportNotFound, token)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanImport(row rowScanner) (*core.ImportRecord, error) {
	rec := &core.ImportRecord{}
	var status string
	err := row.Scan(&rec.ProvisionalID, &rec.Token, &rec.SchemaID, &rec.ID, &rec.TableName, &status, &rec.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrImportNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan import: %w", err)
	}
	rec.Status = core.ImportStatus(status)
	return rec, nil
}

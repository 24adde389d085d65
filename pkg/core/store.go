package core

// Store is the persistence interface for schema and import bookkeeping.
// The SQLite implementation lives in internal/state.
type Store interface {
	// Schemas
	ListSchemas() ([]Schema, error)
	GetSchema(id int64) (*Schema, error)
	EnsureSchema(name string) (*Schema, error)

	// Tables: stable numeric identities for live tables, assigned on
	// first sight and reused afterwards.
	EnsureTable(schemaID int64, name string) (int64, error)

	// Imports
	CreateImport(schemaID int64, tableName string) (*ImportRecord, error)
	GetImport(token string) (*ImportRecord, error)
	GetImportByProvisional(schemaID int64, provisionalID int64) (*ImportRecord, error)
	ListImports(schemaID int64) ([]ImportRecord, error)
	ResolveImport(token string, tableID int64) error
	VerifyImport(token string) error
	DeleteImport(token string) error

	Close() error
}

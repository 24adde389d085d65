package core

import "time"

// TableRecord is one table in a schema's table list, as shown to the
// navigation tree. Unverified records come from in-progress imports
// whose structure the user has not confirmed yet.
type TableRecord struct {
	ID             int64
	SchemaID       int64
	Name           string
	ImportVerified bool
}

// Schema is a named grouping of tables within a database.
type Schema struct {
	ID   int64
	Name string
}

// Tab is one open view in the workbench. ID is the table's real
// identity; for a tab opened from an unverified import it may hold a
// placeholder until the import resolves.
type Tab struct {
	ID       int64
	Database string
	SchemaID int64
	Label    string
	IsNew    bool
	OpenedAt time.Time
}

// TabOpenRequest is the payload handed to the tab store when a tree
// node is activated.
type TabOpenRequest struct {
	ID    int64
	Label string
	IsNew bool
}

// ImportStatus tracks an import record's lifecycle.
type ImportStatus string

const (
	// ImportPending means the file arrived but no table identity has
	// been assigned yet.
	ImportPending ImportStatus = "pending"

	// ImportResolved means the backing table exists and the record
	// carries its real identity, but the user has not verified it.
	ImportResolved ImportStatus = "resolved"

	// ImportVerified means the user confirmed the table structure.
	ImportVerified ImportStatus = "verified"

	// ImportFailed means resolution failed permanently.
	ImportFailed ImportStatus = "failed"
)

// ImportRecord tracks one in-progress data import. ProvisionalID is
// the identity the table list shows while the import is unverified;
// ID is the real table identity assigned post-import, zero until
// resolution. The two may differ.
type ImportRecord struct {
	ID            int64
	ProvisionalID int64
	Token         string
	SchemaID      int64
	TableName     string
	Status        ImportStatus
	CreatedAt     time.Time
}

// Resolved reports whether the record carries a real table identity.
func (r ImportRecord) Resolved() bool {
	return r.ID != 0 && r.Status != ImportPending
}

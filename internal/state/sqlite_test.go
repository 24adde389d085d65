package state

import (
	"errors"
	"testing"

	"github.com/quarry-labs/quarry/internal/testutil"
	"github.com/quarry-labs/quarry/pkg/core"
)

func setupTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store := NewSQLiteStore(testutil.NewTestLogger(t))
	if err := store.Open(":memory:"); err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	if err := store.Migrate(); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSQLiteStore_OpenClose(t *testing.T) {
	store := NewSQLiteStore(testutil.NewTestLogger(t))

	if err := store.Open(":memory:"); err != nil {
		t.Fatalf("failed to open in-memory store: %v", err)
	}

	if err := store.Close(); err != nil {
		t.Fatalf("failed to close store: %v", err)
	}
}

func TestSQLiteStore_Migrate(t *testing.T) {
	store := setupTestStore(t)

	// Verify tables exist by querying them
	for _, table := range []string{"schemas", "tables", "imports"} {
		rows, err := store.db.Query("SELECT 1 FROM " + table + " LIMIT 1")
		if err != nil {
			t.Errorf("table %s does not exist: %v", table, err)
		} else {
			_ = rows.Close()
		}
	}
}

func TestSQLiteStore_EnsureSchema(t *testing.T) {
	store := setupTestStore(t)

	first, err := store.EnsureSchema("public")
	if err != nil {
		t.Fatalf("failed to ensure schema: %v", err)
	}
	if first.ID == 0 {
		t.Fatal("expected non-zero schema id")
	}

	// Ensuring again returns the same identity
	second, err := store.EnsureSchema("public")
	if err != nil {
		t.Fatalf("failed to re-ensure schema: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("expected id %d, got %d", first.ID, second.ID)
	}

	got, err := store.GetSchema(first.ID)
	if err != nil {
		t.Fatalf("failed to get schema: %v", err)
	}
	if got.Name != "public" {
		t.Errorf("expected name public, got %s", got.Name)
	}
}

func TestSQLiteStore_EnsureTable(t *testing.T) {
	store := setupTestStore(t)

	sc, err := store.EnsureSchema("public")
	if err != nil {
		t.Fatalf("failed to ensure schema: %v", err)
	}

	first, err := store.EnsureTable(sc.ID, "orders")
	if err != nil {
		t.Fatalf("failed to ensure table: %v", err)
	}
	if first == 0 {
		t.Fatal("expected non-zero table id")
	}

	// Same name, same identity
	second, err := store.EnsureTable(sc.ID, "orders")
	if err != nil {
		t.Fatalf("failed to re-ensure table: %v", err)
	}
	if second != first {
		t.Errorf("expected id %d, got %d", first, second)
	}

	// Different name, different identity
	other, err := store.EnsureTable(sc.ID, "users")
	if err != nil {
		t.Fatalf("failed to ensure second table: %v", err)
	}
	if other == first {
		t.Error("expected distinct ids for distinct tables")
	}
}

func TestSQLiteStore_ImportLifecycle(t *testing.T) {
	store := setupTestStore(t)

	sc, err := store.EnsureSchema("staging")
	if err != nil {
		t.Fatalf("failed to ensure schema: %v", err)
	}

	rec, err := store.CreateImport(sc.ID, "drafts")
	if err != nil {
		t.Fatalf("failed to create import: %v", err)
	}
	if rec.Status != core.ImportPending {
		t.Errorf("expected pending status, got %s", rec.Status)
	}
	if rec.ID != 0 {
		t.Errorf("expected zero table id before resolution, got %d", rec.ID)
	}
	if rec.ProvisionalID == 0 {
		t.Error("expected a provisional id on creation")
	}

	// Resolve assigns the real table identity
	if err := store.ResolveImport(rec.Token, 42); err != nil {
		t.Fatalf("failed to resolve import: %v", err)
	}

	got, err := store.GetImport(rec.Token)
	if err != nil {
		t.Fatalf("failed to get import: %v", err)
	}
	if got.ID != 42 || got.Status != core.ImportResolved {
		t.Errorf("unexpected record after resolve: %+v", got)
	}
	if !got.Resolved() {
		t.Error("expected record to report resolved")
	}

	byProv, err := store.GetImportByProvisional(sc.ID, rec.ProvisionalID)
	if err != nil {
		t.Fatalf("failed to get import by provisional id: %v", err)
	}
	if byProv.Token != rec.Token {
		t.Errorf("expected token %s, got %s", rec.Token, byProv.Token)
	}
	if byProv.ID != 42 {
		t.Errorf("expected real table id 42, got %d", byProv.ID)
	}

	// Verify, then delete
	if err := store.VerifyImport(rec.Token); err != nil {
		t.Fatalf("failed to verify import: %v", err)
	}
	if err := store.DeleteImport(rec.Token); err != nil {
		t.Fatalf("failed to delete import: %v", err)
	}

	if _, err := store.GetImport(rec.Token); !errors.Is(err, ErrImportNotFound) {
		t.Errorf("expected ErrImportNotFound, got %v", err)
	}
}

func TestSQLiteStore_ListImports(t *testing.T) {
	store := setupTestStore(t)

	sc, err := store.EnsureSchema("staging")
	if err != nil {
		t.Fatalf("failed to ensure schema: %v", err)
	}

	for _, name := range []string{"one", "two", "three"} {
		if _, err := store.CreateImport(sc.ID, name); err != nil {
			t.Fatalf("failed to create import %s: %v", name, err)
		}
	}

	recs, err := store.ListImports(sc.ID)
	if err != nil {
		t.Fatalf("failed to list imports: %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("expected 3 imports, got %d", len(recs))
	}
}

func TestSQLiteStore_NotOpened(t *testing.T) {
	store := NewSQLiteStore(testutil.NewTestLogger(t))

	if _, err := store.ListSchemas(); err == nil {
		t.Error("expected error on unopened store")
	}
	if err := store.ResolveImport("x", 1); err == nil {
		t.Error("expected error on unopened store")
	}
}

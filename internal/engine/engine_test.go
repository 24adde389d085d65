package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quarry-labs/quarry/internal/adapter"
	"github.com/quarry-labs/quarry/internal/imports"
	"github.com/quarry-labs/quarry/internal/state"
	"github.com/quarry-labs/quarry/internal/testutil"
	"github.com/quarry-labs/quarry/pkg/core"
)

// fakeAdapter serves a canned catalog.
type fakeAdapter struct {
	schemas []string
	tables  map[string][]string
}

func (f *fakeAdapter) Connect(ctx context.Context, cfg core.AdapterConfig) error { return nil }
func (f *fakeAdapter) Close() error                                              { return nil }
func (f *fakeAdapter) Name() string                                              { return "fake" }

func (f *fakeAdapter) Query(ctx context.Context, sql string) (*core.Rows, error) {
	return nil, nil
}

func (f *fakeAdapter) ListSchemas(ctx context.Context) ([]string, error) {
	return f.schemas, nil
}

func (f *fakeAdapter) ListTables(ctx context.Context, schema string) ([]string, error) {
	return f.tables[schema], nil
}

func (f *fakeAdapter) GetTableMetadata(ctx context.Context, table string) (*core.TableMetadata, error) {
	return &core.TableMetadata{Name: table}, nil
}

var testCatalog = &fakeAdapter{
	schemas: []string{"staging"},
	tables:  map[string][]string{"staging": {"orders", "users"}},
}

func init() {
	adapter.Register("fake", func() core.Adapter { return testCatalog })
}

func setupEngine(t *testing.T) (*Engine, *imports.Store, int64) {
	t.Helper()

	st := state.NewSQLiteStore(testutil.NewTestLogger(t))
	require.NoError(t, st.Open(":memory:"))
	require.NoError(t, st.Migrate())
	t.Cleanup(func() { _ = st.Close() })

	imp := imports.NewStore(st, testutil.NewTestLogger(t))

	e := New(Config{
		Database:      "analytics",
		AdapterConfig: core.AdapterConfig{Type: "fake"},
		Store:         st,
		Imports:       imp,
		Logger:        testutil.NewTestLogger(t),
	})

	schemas, err := e.Schemas(context.Background())
	require.NoError(t, err)
	require.Len(t, schemas, 1)

	return e, imp, schemas[0].ID
}

func TestEngine_Schemas(t *testing.T) {
	e, _, _ := setupEngine(t)

	schemas, err := e.Schemas(context.Background())
	require.NoError(t, err)
	require.Len(t, schemas, 1)
	assert.Equal(t, "staging", schemas[0].Name)
	assert.NotZero(t, schemas[0].ID)
}

func TestEngine_Refresh_MergesLiveAndPending(t *testing.T) {
	e, imp, schemaID := setupEngine(t)
	ctx := context.Background()

	_, err := imp.Register("analytics", schemaID, "drafts")
	require.NoError(t, err)

	require.NoError(t, e.Refresh(ctx, schemaID))

	records := e.TableSource(schemaID).Get()
	require.Len(t, records, 3)

	// Live tables first, verified, with stable identities
	assert.Equal(t, "orders", records[0].Name)
	assert.True(t, records[0].ImportVerified)
	assert.Equal(t, "users", records[1].Name)
	assert.True(t, records[1].ImportVerified)

	// Unverified import last
	assert.Equal(t, "drafts", records[2].Name)
	assert.False(t, records[2].ImportVerified)
	assert.NotZero(t, records[2].ID)
}

func TestEngine_Refresh_StableTableIdentity(t *testing.T) {
	e, _, schemaID := setupEngine(t)
	ctx := context.Background()

	require.NoError(t, e.Refresh(ctx, schemaID))
	first := e.TableSource(schemaID).Get()

	require.NoError(t, e.Refresh(ctx, schemaID))
	second := e.TableSource(schemaID).Get()

	assert.Equal(t, first, second)
}

func TestEngine_Refresh_PingsSource(t *testing.T) {
	e, _, schemaID := setupEngine(t)

	src := e.TableSource(schemaID)
	ch := src.Subscribe()
	defer src.Unsubscribe(ch)

	require.NoError(t, e.Refresh(context.Background(), schemaID))

	select {
	case <-ch:
	default:
		t.Fatal("refresh did not ping the table source")
	}
}

func TestEngine_VerifiedImportLeavesTree(t *testing.T) {
	e, imp, schemaID := setupEngine(t)
	ctx := context.Background()

	rec, err := imp.Register("analytics", schemaID, "drafts")
	require.NoError(t, err)
	require.NoError(t, e.Refresh(ctx, schemaID))
	require.Len(t, e.TableSource(schemaID).Get(), 3)

	require.NoError(t, imp.Resolve("analytics", rec.Token, 42))
	require.NoError(t, imp.Verify("analytics", rec.Token))
	require.NoError(t, e.Refresh(ctx, schemaID))

	records := e.TableSource(schemaID).Get()
	require.Len(t, records, 2)
	for _, r := range records {
		assert.True(t, r.ImportVerified)
	}
}

func TestEngine_UnknownAdapterType(t *testing.T) {
	e := New(Config{AdapterConfig: core.AdapterConfig{Type: "nope"}})
	err := e.EnsureConnected(context.Background())
	assert.Error(t, err)
}

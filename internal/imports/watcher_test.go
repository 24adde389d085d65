package imports

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/quarry-labs/quarry/internal/state"
	"github.com/quarry-labs/quarry/internal/testutil"
)

func TestWatcher_RegistersArrivingManifest(t *testing.T) {
	st := state.NewSQLiteStore(testutil.NewTestLogger(t))
	require.NoError(t, st.Open(":memory:"))
	require.NoError(t, st.Migrate())
	t.Cleanup(func() { _ = st.Close() })

	store := NewStore(st, testutil.NewTestLogger(t))
	changes := make(chan struct{}, 1)
	store.OnChange(func() {
		select {
		case changes <- struct{}{}:
		default:
		}
	})

	dir := t.TempDir()
	w := NewWatcher(dir, store, st, testutil.NewTestLogger(t))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.Watch(ctx) }()

	// Give the watcher a moment to start before dropping the file.
	time.Sleep(50 * time.Millisecond)

	manifest := []byte("database: analytics\nschema: staging\ntable: drafts\nsource: drafts.csv\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "drafts.import.yaml"), manifest, 0o644))

	select {
	case <-changes:
	case <-time.After(3 * time.Second):
		t.Fatal("watcher did not register the manifest")
	}

	schema, err := st.EnsureSchema("staging")
	require.NoError(t, err)

	recs, err := st.ListImports(schema.ID)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	require.Equal(t, "drafts", recs[0].TableName)
}

func TestWatcher_IgnoresNonManifests(t *testing.T) {
	st := state.NewSQLiteStore(testutil.NewTestLogger(t))
	require.NoError(t, st.Open(":memory:"))
	require.NoError(t, st.Migrate())
	t.Cleanup(func() { _ = st.Close() })

	store := NewStore(st, testutil.NewTestLogger(t))
	registered := make(chan struct{}, 1)
	store.OnChange(func() { registered <- struct{}{} })

	dir := t.TempDir()
	w := NewWatcher(dir, store, st, testutil.NewTestLogger(t))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.Watch(ctx) }()
	time.Sleep(50 * time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "data.csv"), []byte("a,b\n1,2\n"), 0o644))

	select {
	case <-registered:
		t.Fatal("non-manifest file should not register an import")
	case <-time.After(500 * time.Millisecond):
	}
}

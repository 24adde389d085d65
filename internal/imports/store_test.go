package imports

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quarry-labs/quarry/internal/state"
	"github.com/quarry-labs/quarry/internal/testutil"
	"github.com/quarry-labs/quarry/pkg/core"
)

func setupStore(t *testing.T) (*Store, core.Store, int64) {
	t.Helper()

	st := state.NewSQLiteStore(testutil.NewTestLogger(t))
	require.NoError(t, st.Open(":memory:"))
	require.NoError(t, st.Migrate())
	t.Cleanup(func() { _ = st.Close() })

	schema, err := st.EnsureSchema("staging")
	require.NoError(t, err)

	return NewStore(st, testutil.NewTestLogger(t)), st, schema.ID
}

func TestLoadIncompleteImport_SharedReference(t *testing.T) {
	s, _, schemaID := setupStore(t)

	first := s.LoadIncompleteImport("analytics", schemaID, 7)
	second := s.LoadIncompleteImport("analytics", schemaID, 7)

	assert.Same(t, first, second)

	// A different identity gets its own reference.
	other := s.LoadIncompleteImport("analytics", schemaID, 8)
	assert.NotSame(t, first, other)
}

func TestLoadIncompleteImport_FetchPopulates(t *testing.T) {
	s, _, schemaID := setupStore(t)

	stored, err := s.Register("analytics", schemaID, "drafts")
	require.NoError(t, err)
	require.NoError(t, s.Resolve("analytics", stored.Token, 42))

	rec := s.LoadIncompleteImport("analytics", schemaID, stored.ProvisionalID)

	// The background fetch lands shortly after the first load.
	require.Eventually(t, func() bool {
		return rec.Get().ID == 42
	}, time.Second, 5*time.Millisecond)

	got := rec.Get()
	assert.Equal(t, core.ImportResolved, got.Status)
	assert.True(t, got.Resolved())
}

func TestLoadIncompleteImport_UnknownFails(t *testing.T) {
	s, _, schemaID := setupStore(t)

	rec := s.LoadIncompleteImport("analytics", schemaID, 999)

	// No row backs the identity (deleted between projection and
	// activation); the record must go failed so a resolution waiter
	// exits instead of blocking forever.
	require.Eventually(t, func() bool {
		return rec.Get().Status == core.ImportFailed
	}, time.Second, 5*time.Millisecond)

	got := rec.Get()
	assert.Equal(t, int64(0), got.ID)
	assert.False(t, got.Resolved())
}

func TestResolve_PushesIntoLoadedRecord(t *testing.T) {
	s, _, schemaID := setupStore(t)

	stored, err := s.Register("analytics", schemaID, "drafts")
	require.NoError(t, err)

	rec := s.LoadIncompleteImport("analytics", schemaID, stored.ProvisionalID)
	ch := rec.Subscribe()
	defer rec.Unsubscribe(ch)

	require.NoError(t, s.Resolve("analytics", stored.Token, 42))

	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("no ping after resolve")
	}

	got := rec.Get()
	assert.Equal(t, int64(42), got.ID)
	assert.NotEqual(t, got.ID, got.ProvisionalID, "real id differs from provisional")
}

func TestVerify_LeavesPending(t *testing.T) {
	s, _, schemaID := setupStore(t)

	a, err := s.Register("analytics", schemaID, "a")
	require.NoError(t, err)
	_, err = s.Register("analytics", schemaID, "b")
	require.NoError(t, err)

	require.NoError(t, s.Resolve("analytics", a.Token, 42))
	require.NoError(t, s.Verify("analytics", a.Token))

	pending, err := s.Pending(schemaID)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "b", pending[0].TableName)
}

func TestOnChange(t *testing.T) {
	s, _, schemaID := setupStore(t)

	changes := make(chan struct{}, 8)
	s.OnChange(func() { changes <- struct{}{} })

	stored, err := s.Register("analytics", schemaID, "drafts")
	require.NoError(t, err)
	require.NoError(t, s.Resolve("analytics", stored.Token, 42))

	for i := 0; i < 2; i++ {
		select {
		case <-changes:
		case <-time.After(time.Second):
			t.Fatalf("missing change notification %d", i)
		}
	}
}

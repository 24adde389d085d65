package tabs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quarry-labs/quarry/internal/testutil"
	"github.com/quarry-labs/quarry/pkg/core"
)

func TestAddTab_FocusesNewTab(t *testing.T) {
	s := NewStore(testutil.NewTestLogger(t))
	assert.Nil(t, s.Active().Get())

	s.AddTab("analytics", 10, core.TabOpenRequest{ID: 1, Label: "orders"})

	active := s.Active().Get()
	require.NotNil(t, active)
	assert.Equal(t, int64(1), active.ID)
	assert.Equal(t, "orders", active.Label)
	assert.Len(t, s.Tabs(), 1)
}

func TestAddTab_DeduplicatesByIdentity(t *testing.T) {
	s := NewStore(testutil.NewTestLogger(t))

	s.AddTab("analytics", 10, core.TabOpenRequest{ID: 1, Label: "orders"})
	s.AddTab("analytics", 10, core.TabOpenRequest{ID: 2, Label: "users"})
	s.AddTab("analytics", 10, core.TabOpenRequest{ID: 1, Label: "orders"})

	tabs := s.Tabs()
	require.Len(t, tabs, 2)
	assert.Equal(t, int64(1), s.Active().Get().ID)
}

func TestAddTab_NewTableTabIsDistinctFromRealTab(t *testing.T) {
	s := NewStore(testutil.NewTestLogger(t))

	// A placeholder new-table tab and a real tab may momentarily share
	// a numeric id; they must stay separate tabs.
	s.AddTab("analytics", 10, core.TabOpenRequest{ID: 5, Label: "orders"})
	s.AddTab("analytics", 10, core.TabOpenRequest{ID: 5, Label: "New table", IsNew: true})

	assert.Len(t, s.Tabs(), 2)
}

func TestActivateAndClose_MatchOnNewTableFlag(t *testing.T) {
	s := NewStore(testutil.NewTestLogger(t))

	s.AddTab("analytics", 10, core.TabOpenRequest{ID: 5, Label: "orders"})
	s.AddTab("analytics", 10, core.TabOpenRequest{ID: 5, Label: "New table", IsNew: true})

	s.Activate("analytics", 10, 5, false)
	assert.False(t, s.Active().Get().IsNew)

	s.Close("analytics", 10, 5, true)
	tabs := s.Tabs()
	require.Len(t, tabs, 1)
	assert.False(t, tabs[0].IsNew)
}

func TestResolveTab(t *testing.T) {
	s := NewStore(testutil.NewTestLogger(t))

	s.AddTab("analytics", 10, core.TabOpenRequest{ID: 0, Label: "New table", IsNew: true})

	pings := s.Active().Subscribe()
	defer s.Active().Unsubscribe(pings)

	s.ResolveTab("analytics", 10, 0, 42)

	active := s.Active().Get()
	require.NotNil(t, active)
	assert.Equal(t, int64(42), active.ID)

	// The active reference re-published so reconcilers re-derive.
	select {
	case <-pings:
	default:
		t.Fatal("resolve did not ping the active-tab reference")
	}
}

func TestResolveTab_SnapshotsAreImmutable(t *testing.T) {
	s := NewStore(testutil.NewTestLogger(t))

	s.AddTab("analytics", 10, core.TabOpenRequest{ID: 7, Label: "New table", IsNew: true})
	before := s.Active().Get()

	s.ResolveTab("analytics", 10, 7, 42)

	after := s.Active().Get()
	require.NotNil(t, after)
	assert.Equal(t, int64(42), after.ID)

	// Readers hold published snapshots on their own goroutines; the
	// correction must swap in a fresh tab, never write through the
	// pointer they already have.
	assert.NotSame(t, before, after)
	assert.Equal(t, int64(7), before.ID)
}

func TestResolveTab_ConcurrentSnapshotReads(t *testing.T) {
	s := NewStore(testutil.NewTestLogger(t))
	for i := int64(0); i < 64; i++ {
		s.AddTab("analytics", 10, core.TabOpenRequest{ID: i, Label: "New table", IsNew: true})
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := int64(0); i < 64; i++ {
			s.ResolveTab("analytics", 10, i, 1000+i)
		}
	}()

	// Reads race the corrections only if a published tab is written in
	// place; the race detector keeps this honest.
	for alive := true; alive; {
		select {
		case <-done:
			alive = false
		default:
		}
		if tab := s.Active().Get(); tab != nil {
			_ = tab.ID
		}
	}
}

func TestResolveTab_ClosedTabIsNoOp(t *testing.T) {
	s := NewStore(testutil.NewTestLogger(t))

	s.AddTab("analytics", 10, core.TabOpenRequest{ID: 0, Label: "New table", IsNew: true})
	s.Close("analytics", 10, 0, true)

	s.ResolveTab("analytics", 10, 0, 42)
	assert.Empty(t, s.Tabs())
}

func TestActivateAndClose(t *testing.T) {
	s := NewStore(testutil.NewTestLogger(t))

	s.AddTab("analytics", 10, core.TabOpenRequest{ID: 1, Label: "orders"})
	s.AddTab("analytics", 10, core.TabOpenRequest{ID: 2, Label: "users"})

	s.Activate("analytics", 10, 1, false)
	assert.Equal(t, int64(1), s.Active().Get().ID)

	// Closing an unfocused tab keeps the focus.
	s.Close("analytics", 10, 2, false)
	assert.Equal(t, int64(1), s.Active().Get().ID)

	// Closing the focused, last tab clears the focus.
	s.Close("analytics", 10, 1, false)
	assert.Nil(t, s.Active().Get())
	assert.Empty(t, s.Tabs())
}

func TestClose_FocusFallsBackToMostRecent(t *testing.T) {
	s := NewStore(testutil.NewTestLogger(t))

	s.AddTab("analytics", 10, core.TabOpenRequest{ID: 1, Label: "orders"})
	s.AddTab("analytics", 10, core.TabOpenRequest{ID: 2, Label: "users"})
	s.AddTab("analytics", 10, core.TabOpenRequest{ID: 3, Label: "events"})

	s.Close("analytics", 10, 3, false)

	active := s.Active().Get()
	require.NotNil(t, active)
	assert.Equal(t, int64(2), active.ID)
}

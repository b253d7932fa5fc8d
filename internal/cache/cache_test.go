package cache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/claimdesk/workplace/internal/logging"
	"github.com/claimdesk/workplace/internal/metrics"
	"github.com/claimdesk/workplace/types"
)

const clerkID = "bpc-1"

// countingFetch is a scriptable FetchFunc recording every call.
type countingFetch struct {
	mu      sync.Mutex
	calls   int
	value   *types.Assignment
	err     error
	blockCh chan struct{} // when set, Fetch blocks until closed
}

func (f *countingFetch) fetch(_ context.Context, _ string) (*types.Assignment, error) {
	f.mu.Lock()
	f.calls++
	block := f.blockCh
	value, err := f.value, f.err
	f.mu.Unlock()

	if block != nil {
		<-block
	}

	return value.Clone(), err
}

func (f *countingFetch) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.calls
}

func newTestCache(t *testing.T, f *countingFetch, clock clockwork.Clock) *AssignmentCache {
	t.Helper()

	return New(f.fetch, 5*time.Minute, clock, logging.NewNop(), metrics.NewNop())
}

func testAssignment() *types.Assignment {
	return &types.Assignment{
		ID:             101,
		ClaimReference: "CLM-2041",
		SupplierName:   "Garage Lemaire",
		Amount:         412.50,
		Currency:       "EUR",
		Comments:       []types.Comment{{ID: 1, AssignmentID: 101, Text: "checked"}},
	}
}

func TestFetch_PopulatesAndServesFromCache(t *testing.T) {
	clock := clockwork.NewFakeClock()
	f := &countingFetch{value: testAssignment()}
	c := newTestCache(t, f, clock)

	got, err := c.Fetch(context.Background(), clerkID)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, int64(101), got.ID)
	require.Equal(t, 1, f.callCount())

	// Second fetch within the staleness window is served from cache.
	got, err = c.Fetch(context.Background(), clerkID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 1, f.callCount())
}

func TestFetch_EmptyResultIsNotAnError(t *testing.T) {
	clock := clockwork.NewFakeClock()
	f := &countingFetch{value: nil}
	c := newTestCache(t, f, clock)

	got, err := c.Fetch(context.Background(), clerkID)
	require.NoError(t, err)
	assert.Nil(t, got)

	// Absence is cached like any other value.
	cached, ok := c.Get(clerkID)
	assert.True(t, ok)
	assert.Nil(t, cached)
	assert.Equal(t, 1, f.callCount())
}

func TestFetch_ErrorDoesNotPopulate(t *testing.T) {
	clock := clockwork.NewFakeClock()
	f := &countingFetch{err: errors.New("gateway timeout")}
	c := newTestCache(t, f, clock)

	_, err := c.Fetch(context.Background(), clerkID)
	require.Error(t, err)

	_, ok := c.Get(clerkID)
	assert.False(t, ok)
}

func TestFetch_StalenessWindowExpires(t *testing.T) {
	clock := clockwork.NewFakeClock()
	f := &countingFetch{value: testAssignment()}
	c := newTestCache(t, f, clock)

	_, err := c.Fetch(context.Background(), clerkID)
	require.NoError(t, err)
	require.Equal(t, 1, f.callCount())

	clock.Advance(6 * time.Minute)

	_, err = c.Fetch(context.Background(), clerkID)
	require.NoError(t, err)
	assert.Equal(t, 2, f.callCount())
}

func TestInvalidate_ForcesNextFetch(t *testing.T) {
	clock := clockwork.NewFakeClock()
	f := &countingFetch{value: testAssignment()}
	c := newTestCache(t, f, clock)

	_, err := c.Fetch(context.Background(), clerkID)
	require.NoError(t, err)

	c.Invalidate(clerkID)

	_, ok := c.Get(clerkID)
	assert.False(t, ok)

	_, err = c.Fetch(context.Background(), clerkID)
	require.NoError(t, err)
	assert.Equal(t, 2, f.callCount())
}

func TestClear_RecordsAbsenceSynchronously(t *testing.T) {
	clock := clockwork.NewFakeClock()
	f := &countingFetch{value: testAssignment()}
	c := newTestCache(t, f, clock)

	_, err := c.Fetch(context.Background(), clerkID)
	require.NoError(t, err)

	c.Clear(clerkID)

	got, ok := c.Get(clerkID)
	assert.True(t, ok, "cleared entry is a valid cached absence")
	assert.Nil(t, got)
	assert.Equal(t, 1, f.callCount(), "Clear must not touch the network")
}

func TestTryFetch_SkipsWhileInFlight(t *testing.T) {
	clock := clockwork.NewFakeClock()
	block := make(chan struct{})
	f := &countingFetch{value: testAssignment(), blockCh: block}
	c := newTestCache(t, f, clock)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, issued, err := c.TryFetch(context.Background(), clerkID)
		assert.True(t, issued)
		assert.NoError(t, err)
	}()

	// Wait until the first fetch is on the wire.
	require.Eventually(t, func() bool {
		return c.InFlight(clerkID) == 1
	}, time.Second, time.Millisecond)

	_, issued, err := c.TryFetch(context.Background(), clerkID)
	require.NoError(t, err)
	assert.False(t, issued, "overlapping fetch for the same key must be suppressed")
	assert.Equal(t, 1, f.callCount())

	close(block)
	<-done
}

func TestTryFetch_AlwaysGoesToService(t *testing.T) {
	clock := clockwork.NewFakeClock()
	f := &countingFetch{value: nil}
	c := newTestCache(t, f, clock)

	// Even with a fresh cached absence, the poll path re-requests so the
	// client converges with server-side queue allocation.
	_, err := c.Fetch(context.Background(), clerkID)
	require.NoError(t, err)

	_, issued, err := c.TryFetch(context.Background(), clerkID)
	require.NoError(t, err)
	assert.True(t, issued)
	assert.Equal(t, 2, f.callCount())
}

func TestGet_ReturnsDeepCopy(t *testing.T) {
	clock := clockwork.NewFakeClock()
	f := &countingFetch{value: testAssignment()}
	c := newTestCache(t, f, clock)

	_, err := c.Fetch(context.Background(), clerkID)
	require.NoError(t, err)

	first, ok := c.Get(clerkID)
	require.True(t, ok)
	first.Comments[0].Text = "tampered"

	second, ok := c.Get(clerkID)
	require.True(t, ok)
	assert.Equal(t, "checked", second.Comments[0].Text)
}

func TestReplace_StoresAuthoritativeValue(t *testing.T) {
	clock := clockwork.NewFakeClock()
	f := &countingFetch{}
	c := newTestCache(t, f, clock)

	c.Replace(clerkID, testAssignment())

	got, ok := c.Get(clerkID)
	require.True(t, ok)
	require.NotNil(t, got)
	assert.Equal(t, int64(101), got.ID)
	assert.Equal(t, 0, f.callCount())
}

package cooldown

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/claimdesk/workplace/internal/logging"
	"github.com/claimdesk/workplace/internal/metrics"
)

func newTestScheduler(clock clockwork.Clock, ticks int, finished *atomic.Int32) *Scheduler {
	onFinished := func() {
		if finished != nil {
			finished.Add(1)
		}
	}

	return New(ticks, time.Second, clock, onFinished, logging.NewNop(), metrics.NewNop())
}

// advanceTick moves the fake clock one tick and waits for the scheduler
// goroutine to consume it.
func advanceTick(t *testing.T, clock *clockwork.FakeClock, s *Scheduler, wantRemaining int) {
	t.Helper()

	clock.BlockUntil(1)
	clock.Advance(time.Second)
	require.Eventually(t, func() bool {
		return s.Remaining() == wantRemaining
	}, time.Second, time.Millisecond, "remaining should reach %d", wantRemaining)
}

func TestScheduler_IdleByDefault(t *testing.T) {
	s := newTestScheduler(clockwork.NewFakeClock(), 10, nil)

	assert.False(t, s.Running())
	assert.Equal(t, 0, s.Remaining())
	assert.Empty(t, s.Label())
}

func TestScheduler_CountsDownToIdle(t *testing.T) {
	clock := clockwork.NewFakeClock()
	var finished atomic.Int32
	s := newTestScheduler(clock, 10, &finished)

	s.Start("Paid in full")
	require.True(t, s.Running())
	require.Equal(t, 10, s.Remaining())
	require.Equal(t, "Paid in full", s.Label())

	for remaining := 9; remaining >= 1; remaining-- {
		advanceTick(t, clock, s, remaining)
		assert.True(t, s.Running(), "still running at remaining=%d", remaining)
		assert.Equal(t, int32(0), finished.Load(), "must not finish before zero")
	}

	// The tenth tick reaches zero: label cleared, Idle, callback fired.
	advanceTick(t, clock, s, 0)
	require.Eventually(t, func() bool {
		return finished.Load() == 1
	}, time.Second, time.Millisecond)
	assert.False(t, s.Running())
	assert.Empty(t, s.Label())
}

func TestScheduler_StartRestartsAtFullDuration(t *testing.T) {
	clock := clockwork.NewFakeClock()
	var finished atomic.Int32
	s := newTestScheduler(clock, 10, &finished)

	s.Start("first outcome")
	advanceTick(t, clock, s, 9)
	advanceTick(t, clock, s, 8)

	// Restart: no stacking, remaining resets to the full duration.
	s.Start("second outcome")
	assert.Equal(t, 10, s.Remaining())
	assert.Equal(t, "second outcome", s.Label())

	advanceTick(t, clock, s, 9)
	assert.Equal(t, int32(0), finished.Load())
}

func TestScheduler_StopDeliversNoFurtherTicks(t *testing.T) {
	clock := clockwork.NewFakeClock()
	var finished atomic.Int32
	s := newTestScheduler(clock, 3, &finished)

	s.Start("torn down")
	advanceTick(t, clock, s, 2)

	s.Stop()
	assert.False(t, s.Running())
	assert.Equal(t, 0, s.Remaining())
	assert.Empty(t, s.Label())

	// Advancing past the rest of the countdown must not fire the callback.
	clock.Advance(10 * time.Second)
	assert.Never(t, func() bool {
		return finished.Load() != 0
	}, 50*time.Millisecond, 5*time.Millisecond)
}

func TestScheduler_FinishedCallbackFiresOncePerCountdown(t *testing.T) {
	clock := clockwork.NewFakeClock()
	var finished atomic.Int32
	s := newTestScheduler(clock, 1, &finished)

	s.Start("quick")
	advanceTick(t, clock, s, 0)
	require.Eventually(t, func() bool {
		return finished.Load() == 1
	}, time.Second, time.Millisecond)

	s.Start("again")
	advanceTick(t, clock, s, 0)
	require.Eventually(t, func() bool {
		return finished.Load() == 2
	}, time.Second, time.Millisecond)
}

package bridge_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/claimdesk/workplace/bridge"
	wptest "github.com/claimdesk/workplace/testing"
	"github.com/claimdesk/workplace/types"
)

// eventRecorder collects events delivered to a subscription.
type eventRecorder struct {
	mu     sync.Mutex
	events []types.Event
}

func (r *eventRecorder) handle(event types.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = append(r.events, event)
}

func (r *eventRecorder) snapshot() []types.Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	events := make([]types.Event, len(r.events))
	copy(events, r.events)

	return events
}

func TestNATS_DeliversStatusEvent(t *testing.T) {
	_, nc := wptest.StartEmbeddedNATS(t)
	br := bridge.NewNATS(nc, "workplace", bridge.WithLogger(wptest.NewTestLogger(t)))

	rec := &eventRecorder{}
	unsubscribe, err := br.Subscribe(t.Context(), "clerk-1", rec.handle)
	require.NoError(t, err)
	defer unsubscribe() //nolint:errcheck

	require.NoError(t, br.PublishStatusChanged("clerk-1", 5))

	require.Eventually(t, func() bool {
		return len(rec.snapshot()) == 1
	}, 2*time.Second, 10*time.Millisecond)

	event := rec.snapshot()[0]
	assert.Equal(t, types.EventStatusChanged, event.Type)
	assert.Equal(t, "clerk-1", event.ClerkID)
	assert.Equal(t, 5, event.StatusID)
}

func TestNATS_AssignmentEventCarriesNoPayload(t *testing.T) {
	_, nc := wptest.StartEmbeddedNATS(t)
	br := bridge.NewNATS(nc, "workplace")

	rec := &eventRecorder{}
	unsubscribe, err := br.Subscribe(t.Context(), "clerk-1", rec.handle)
	require.NoError(t, err)
	defer unsubscribe() //nolint:errcheck

	require.NoError(t, br.PublishAssignmentChanged("clerk-1"))

	require.Eventually(t, func() bool {
		return len(rec.snapshot()) == 1
	}, 2*time.Second, 10*time.Millisecond)

	event := rec.snapshot()[0]
	assert.Equal(t, types.EventAssignmentChanged, event.Type)
	assert.Zero(t, event.StatusID)
}

func TestNATS_ScopedToClerk(t *testing.T) {
	_, nc := wptest.StartEmbeddedNATS(t)
	br := bridge.NewNATS(nc, "workplace")

	rec := &eventRecorder{}
	unsubscribe, err := br.Subscribe(t.Context(), "clerk-1", rec.handle)
	require.NoError(t, err)
	defer unsubscribe() //nolint:errcheck

	require.NoError(t, br.PublishStatusChanged("clerk-2", 5))
	require.NoError(t, br.PublishStatusChanged("clerk-1", 5))

	require.Eventually(t, func() bool {
		return len(rec.snapshot()) == 1
	}, 2*time.Second, 10*time.Millisecond)

	// Only the clerk-1 event arrived; clerk-2 travelled on another subject.
	assert.Equal(t, "clerk-1", rec.snapshot()[0].ClerkID)
}

func TestNATS_MalformedPayloadDropped(t *testing.T) {
	_, nc := wptest.StartEmbeddedNATS(t)
	br := bridge.NewNATS(nc, "workplace", bridge.WithLogger(wptest.NewTestLogger(t)))

	rec := &eventRecorder{}
	unsubscribe, err := br.Subscribe(t.Context(), "clerk-1", rec.handle)
	require.NoError(t, err)
	defer unsubscribe() //nolint:errcheck

	require.NoError(t, nc.Publish("workplace.clerk-1.events", []byte("not json")))
	require.NoError(t, br.PublishStatusChanged("clerk-1", 5))

	require.Eventually(t, func() bool {
		return len(rec.snapshot()) == 1
	}, 2*time.Second, 10*time.Millisecond)

	assert.Equal(t, types.EventStatusChanged, rec.snapshot()[0].Type)
}

func TestNATS_UnsubscribeStopsDelivery(t *testing.T) {
	_, nc := wptest.StartEmbeddedNATS(t)
	br := bridge.NewNATS(nc, "workplace")

	rec := &eventRecorder{}
	unsubscribe, err := br.Subscribe(t.Context(), "clerk-1", rec.handle)
	require.NoError(t, err)

	require.NoError(t, unsubscribe())
	// Safe to call more than once.
	require.NoError(t, unsubscribe())

	require.NoError(t, br.PublishStatusChanged("clerk-1", 5))
	require.NoError(t, nc.Flush())

	assert.Never(t, func() bool {
		return len(rec.snapshot()) > 0
	}, 300*time.Millisecond, 50*time.Millisecond)
}

func TestNATS_ContextCancellationUnsubscribes(t *testing.T) {
	_, nc := wptest.StartEmbeddedNATS(t)
	br := bridge.NewNATS(nc, "workplace")

	ctx, cancel := context.WithCancel(t.Context())

	rec := &eventRecorder{}
	_, err := br.Subscribe(ctx, "clerk-1", rec.handle)
	require.NoError(t, err)

	cancel()

	// The watcher goroutine tears the subscription down asynchronously.
	require.Eventually(t, func() bool {
		return nc.NumSubscriptions() == 0
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, br.PublishStatusChanged("clerk-1", 5))
	require.NoError(t, nc.Flush())

	assert.Never(t, func() bool {
		return len(rec.snapshot()) > 0
	}, 300*time.Millisecond, 50*time.Millisecond)
}

// Package bridge provides NotificationBridge implementations.
//
// The NATS bridge maps clerk-scoped change events onto core NATS subjects,
// one subject per clerk, with JSON payloads. The coordinator subscribes
// through it on session start; server-side components (or tests) publish
// through the same type.
package bridge

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/nats-io/nats.go"

	"github.com/claimdesk/workplace/internal/logging"
	"github.com/claimdesk/workplace/types"
)

// NATS is a NotificationBridge backed by core NATS publish/subscribe.
//
// Events for a clerk travel on the subject "<prefix>.<clerkID>.events".
// Delivery is at-most-once and per-subscription ordered, which is all the
// coordinator needs: events only trigger refetches of authoritative state,
// so a lost event is corrected by the reconciliation poller.
type NATS struct {
	nc     *nats.Conn
	prefix string
	logger types.Logger
}

var _ types.NotificationBridge = (*NATS)(nil)

// Option configures the NATS bridge.
type Option func(*NATS)

// WithLogger sets the bridge logger.
func WithLogger(logger types.Logger) Option {
	return func(b *NATS) {
		b.logger = logger
	}
}

// NewNATS creates a NATS-backed notification bridge.
//
// Parameters:
//   - nc: Established NATS connection; the bridge does not own it
//   - prefix: Subject prefix, e.g. "workplace"
//   - opts: Optional configuration
//
// Returns:
//   - *NATS: New bridge instance
func NewNATS(nc *nats.Conn, prefix string, opts ...Option) *NATS {
	b := &NATS{
		nc:     nc,
		prefix: prefix,
		logger: logging.NewNop(),
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// subject returns the per-clerk event subject.
func (b *NATS) subject(clerkID string) string {
	return fmt.Sprintf("%s.%s.events", b.prefix, clerkID)
}

// Subscribe registers a handler for events scoped to the given clerk.
//
// The subscription ends when the returned unsubscribe function is called or
// when ctx is cancelled, whichever comes first. The unsubscribe function is
// safe to call more than once.
func (b *NATS) Subscribe(ctx context.Context, clerkID string, handler types.EventHandler) (func() error, error) {
	subject := b.subject(clerkID)

	sub, err := b.nc.Subscribe(subject, func(msg *nats.Msg) {
		var event types.Event
		if err := json.Unmarshal(msg.Data, &event); err != nil {
			b.logger.Warn("dropping malformed bridge event",
				"subject", msg.Subject,
				"error", err,
			)

			return
		}

		if event.ClerkID != clerkID {
			b.logger.Warn("dropping bridge event for wrong clerk",
				"subject", msg.Subject,
				"clerk_id", event.ClerkID,
			)

			return
		}

		handler(event)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to %s: %w", subject, err)
	}

	var once sync.Once
	var unsubErr error
	unsubscribe := func() error {
		once.Do(func() {
			unsubErr = sub.Unsubscribe()
		})

		return unsubErr
	}

	// Tie the subscription lifetime to the caller's context.
	go func() {
		<-ctx.Done()
		if err := unsubscribe(); err != nil {
			b.logger.Warn("unsubscribe on context cancellation failed", "subject", subject, "error", err)
		}
	}()

	b.logger.Debug("bridge subscription established", "subject", subject)

	return unsubscribe, nil
}

// PublishStatusChanged publishes a status-changed event for the clerk.
// Intended for server-side emitters and tests.
func (b *NATS) PublishStatusChanged(clerkID string, statusID int) error {
	return b.publish(types.Event{
		Type:     types.EventStatusChanged,
		ClerkID:  clerkID,
		StatusID: statusID,
	})
}

// PublishAssignmentChanged publishes an assignment-changed event for the
// clerk. The event carries no assignment payload; subscribers refetch.
func (b *NATS) PublishAssignmentChanged(clerkID string) error {
	return b.publish(types.Event{
		Type:    types.EventAssignmentChanged,
		ClerkID: clerkID,
	})
}

// publish marshals and publishes one event on the clerk's subject.
func (b *NATS) publish(event types.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal bridge event: %w", err)
	}

	if err := b.nc.Publish(b.subject(event.ClerkID), data); err != nil {
		return fmt.Errorf("failed to publish bridge event: %w", err)
	}

	return nil
}

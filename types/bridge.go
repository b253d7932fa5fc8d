package types

import "context"

// EventType identifies the kind of push notification delivered by the
// notification bridge.
type EventType int

const (
	// EventStatusChanged signals that the clerk's status changed server-side.
	EventStatusChanged EventType = iota + 1

	// EventAssignmentChanged signals that the clerk's current assignment
	// changed server-side (allocated, reassigned or released).
	EventAssignmentChanged
)

// String returns the string representation of the event type.
func (t EventType) String() string {
	switch t {
	case EventStatusChanged:
		return "StatusChanged"
	case EventAssignmentChanged:
		return "AssignmentChanged"
	default:
		return "Unknown"
	}
}

// Event is a push notification scoped to a single clerk.
//
// StatusID is only meaningful for EventStatusChanged. Assignment-changed
// events deliberately carry no payload: the coordinator refetches the
// authoritative assignment instead of trusting pushed data.
type Event struct {
	Type     EventType `json:"type"`
	ClerkID  string    `json:"clerkId"`
	StatusID int       `json:"statusId,omitempty"`
}

// EventHandler consumes bridge events. Handlers are invoked sequentially per
// subscription; a slow handler delays subsequent events for the same clerk.
type EventHandler func(Event)

// NotificationBridge delivers asynchronous change events pushed by the
// server. The coordinator subscribes on session start and unsubscribes on
// teardown; it does not own the bridge's transport or reconnection policy.
type NotificationBridge interface {
	// Subscribe registers a handler for events scoped to the given clerk and
	// returns an unsubscribe function. The unsubscribe function is safe to
	// call more than once.
	Subscribe(ctx context.Context, clerkID string, handler EventHandler) (func() error, error)
}

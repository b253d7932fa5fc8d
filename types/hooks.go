package types

import "context"

// Hooks defines callbacks for coordinator lifecycle events.
//
// All hooks are optional and called asynchronously in background goroutines
// so they never block the session state machine. Hooks receive the
// coordinator's lifecycle context, which is cancelled during shutdown.
//
// Hook errors are logged (and reported via OnError when set) but never fail
// coordinator operations. Implementations should complete quickly and respect
// context cancellation.
type Hooks struct {
	// OnStateChanged is called when the session state transitions.
	OnStateChanged func(ctx context.Context, from, to State) error

	// OnAssignmentChanged is called when the cached assignment changes,
	// including transitions to and from absence (nil).
	OnAssignmentChanged func(ctx context.Context, old, current *Assignment) error

	// OnStatusChanged is called when the clerk's status changes, whether
	// through a local mutation or a pushed event.
	OnStatusChanged func(ctx context.Context, from, to ClerkStatus) error

	// OnOutcomeApplied is called after an outcome submission succeeds
	// server-side.
	OnOutcomeApplied func(ctx context.Context, outcome Outcome) error

	// OnCooldownFinished is called when the post-outcome cooldown reaches
	// zero and the next assignment may be requested again.
	OnCooldownFinished func(ctx context.Context) error

	// OnError is called when a recoverable error occurs, including mutation
	// failures that were already rolled back or reconciled.
	OnError func(ctx context.Context, err error) error
}

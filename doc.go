// Package workplace drives a single payment clerk's live work session: it
// tracks the one work item (bordereau) the clerk holds at a time, manages the
// clerk's availability status, applies outcomes under a cooldown-gated
// admission policy, and keeps the locally cached state converged with the
// authoritative server state.
//
// # Quick Start
//
//	cfg := workplace.Config{}
//	coord, err := workplace.NewCoordinator(&cfg, svc, workplace.Session{ClerkID: "bpc-7"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	if err := coord.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer coord.Stop(context.Background())
//
// # Key Features
//
//   - Optimistic mutations: comment appends and outcome applications update
//     the local cache before the network call resolves, with rollback or a
//     forced refetch on failure
//   - Cooldown admission control: a fixed countdown after each outcome gates
//     when the next assignment may be requested
//   - Reconciliation: a background poller and an optional push-notification
//     bridge converge the cache with server-side queue changes
//   - Single-flight fetches: overlapping assignment fetches for the same
//     clerk are suppressed
//
// # Architecture
//
// A session progresses through a small state machine:
//
//	Init → NoAssignment ↔ HasAssignment → Shutdown
//
// Two orthogonal conditions gate admission of the next assignment: the
// awaiting-reconciliation flag (set while an outcome submission is settling)
// and the cooldown countdown. The reconciliation poller runs only while no
// assignment is held and neither condition is active.
//
// # Collaborators
//
// The remote API is consumed through the Service interface; the push channel
// through the NotificationBridge interface (a NATS adapter ships in the
// bridge subpackage). Timers are driven by an injected clock so tests run
// against a virtual clock.
package workplace

package types

import "context"

// Service is the remote workplace API consumed by the coordinator.
//
// Implementations own transport, authentication and retries; the coordinator
// only depends on these shapes. All calls take a context for cancellation.
//
// Error contract:
//   - GetCurrentAssignment returns (nil, nil) when the clerk holds no work
//     item. "No work available" is a normal empty result, never an error.
//   - Any non-nil error is either a transport failure or a server-rejected
//     mutation; the coordinator treats both the same way (rollback or forced
//     refetch, then surface the error).
type Service interface {
	// GetClerk returns the clerk, including the current status id.
	GetClerk(ctx context.Context, clerkID string) (*Clerk, error)

	// GetCurrentAssignment returns the assignment currently held by the
	// clerk, or nil if none is held.
	GetCurrentAssignment(ctx context.Context, clerkID string) (*Assignment, error)

	// ChangeClerkStatus submits a status change and returns the resulting
	// clerk snapshot. Implementations may return (nil, nil) when the server
	// does not echo the clerk back; the coordinator refetches in that case.
	ChangeClerkStatus(ctx context.Context, clerkID string, statusID int) (*Clerk, error)

	// ApplyOutcome applies a terminal disposition to an assignment,
	// releasing it server-side.
	ApplyOutcome(ctx context.Context, assignmentID int64, outcomeID int) error

	// AppendComment appends a comment to an assignment and returns the
	// authoritative comment with its server-assigned id and timestamp.
	AppendComment(ctx context.Context, assignmentID int64, text string) (*Comment, error)

	// ListStatuses returns the availability status catalog.
	ListStatuses(ctx context.Context) ([]ClerkStatus, error)

	// ListOutcomes returns the outcome reference data.
	ListOutcomes(ctx context.Context) ([]Outcome, error)
}

package types

// Well-known clerk status ids.
//
// The status catalog itself is server-owned and fetched via Service.ListStatuses;
// these constants pin the ids whose semantics the coordinator depends on.
// Any other id delivered by the server is treated as an ordinary selectable
// working status.
const (
	// StatusLoggedOff ends the clerk's session. Selecting it always requires
	// an explicit confirmation before the change is submitted.
	StatusLoggedOff = 1

	// StatusAvailable is the normal working status in which the server's
	// queue allocator may hand the clerk a new assignment.
	StatusAvailable = 2

	// StatusReferral is an escalation status entered server-side when an
	// assignment is referred. Never directly selectable.
	StatusReferral = 3

	// StatusSupervisorReview is an escalation status entered server-side when
	// a supervisor pulls an assignment for review. Never directly selectable.
	StatusSupervisorReview = 4
)

// Clerk identifies the logged-in operator. Created externally by the
// authentication collaborator and read-only to this library apart from its
// current status id, which mutations and push events keep in sync with the
// server.
type Clerk struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	StatusID int    `json:"statusId"`
}

// ClerkStatus is one entry of the server-owned availability status catalog.
//
// Working drives indicator iconography and, server-side, whether the queue
// allocator considers the clerk for new assignments. Exactly one status is
// active per clerk at any time; it is mirrored locally as Clerk.StatusID.
type ClerkStatus struct {
	ID      int    `json:"id"`
	Label   string `json:"label"`
	Working bool   `json:"working"`
}

// Confirmation identifies the confirmation step a status change requires
// before it may be submitted.
type Confirmation int

const (
	// ConfirmationNone means the change may be submitted directly.
	ConfirmationNone Confirmation = iota

	// ConfirmationLogOff is required when selecting StatusLoggedOff.
	ConfirmationLogOff

	// ConfirmationReleaseAssignment is required when changing status while an
	// assignment is held, because the change returns the assignment to the
	// shared queue.
	ConfirmationReleaseAssignment
)

// String returns the string representation of the confirmation kind.
func (c Confirmation) String() string {
	switch c {
	case ConfirmationNone:
		return "None"
	case ConfirmationLogOff:
		return "LogOff"
	case ConfirmationReleaseAssignment:
		return "ReleaseAssignment"
	default:
		return "Unknown"
	}
}

package types

import "time"

// Assignment is the single work item (bordereau) currently held by a clerk.
//
// The claim, supplier and financial fields are a denormalized snapshot taken
// by the server when the assignment was allocated; they are display-only and
// never mutated locally. Comments are the only part of an assignment that the
// coordinator patches optimistically.
//
// Absence of an assignment is represented as a nil *Assignment throughout the
// library. A nil result from Service.GetCurrentAssignment is a valid "no work
// available" answer, not an error.
type Assignment struct {
	ID int64 `json:"id"`

	// Denormalized display snapshot.
	ClaimReference string  `json:"claimReference"`
	SupplierName   string  `json:"supplierName"`
	Amount         float64 `json:"amount"`
	Currency       string  `json:"currency"`

	Comments []Comment `json:"comments"`

	// Audit trail, server-owned.
	CreatedBy string     `json:"createdBy"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedBy string     `json:"updatedBy,omitempty"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
	ClosedBy  string     `json:"closedBy,omitempty"`
	ClosedAt  *time.Time `json:"closedAt,omitempty"`
}

// Clone returns a deep copy of the assignment. Used by the cache to take
// pre-mutation snapshots that optimistic transactions can roll back to.
func (a *Assignment) Clone() *Assignment {
	if a == nil {
		return nil
	}

	cp := *a
	if a.Comments != nil {
		cp.Comments = make([]Comment, len(a.Comments))
		copy(cp.Comments, a.Comments)
	}

	return &cp
}

// Comment is an annotation attached to an assignment.
//
// Optimistically appended comments carry a negative sentinel ID until the
// settle-time refetch replaces them with the server-assigned one.
type Comment struct {
	ID           int64     `json:"id"`
	AssignmentID int64     `json:"assignmentId"`
	Text         string    `json:"text"`
	Author       string    `json:"author"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Pending reports whether the comment still carries a sentinel id, meaning it
// was appended optimistically and not yet confirmed by the server.
func (c Comment) Pending() bool {
	return c.ID < 0
}

// Outcome is a terminal disposition offered for the current assignment.
// Read-only reference data; applying one releases the assignment.
type Outcome struct {
	ID          int    `json:"id"`
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
}

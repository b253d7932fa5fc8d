package types

import "errors"

// Sentinel errors for the workplace library.
//
// These errors provide type-safe error checking using errors.Is() and
// errors.As(). Components use these sentinels for known conditions and wrap
// external errors with context using fmt.Errorf("...: %w", err).

// Coordinator errors - public API errors returned by the Coordinator.
var (
	// ErrInvalidConfig is returned when the configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrServiceRequired is returned when the workplace service is nil.
	ErrServiceRequired = errors.New("workplace service is required")

	// ErrClerkIDRequired is returned when the session carries no clerk id.
	ErrClerkIDRequired = errors.New("clerk id is required")

	// ErrAlreadyStarted is returned when Start is called on an already
	// running coordinator.
	ErrAlreadyStarted = errors.New("coordinator already started")

	// ErrNotStarted is returned when operations require a started coordinator.
	ErrNotStarted = errors.New("coordinator not started")
)

// Mutation errors - returned by the user-triggered mutation operations.
var (
	// ErrNoAssignment is returned when an operation requires a held
	// assignment and none is held.
	ErrNoAssignment = errors.New("no assignment held")

	// ErrEmptyComment is returned when a comment is empty after trimming.
	ErrEmptyComment = errors.New("comment text is empty")

	// ErrConfirmationRequired is returned when a status change needs an
	// explicit confirmation that was not given. No network call is issued.
	ErrConfirmationRequired = errors.New("status change requires confirmation")

	// ErrStatusNotSelectable is returned when the target status is reserved
	// and cannot be selected directly.
	ErrStatusNotSelectable = errors.New("status is not directly selectable")

	// ErrUnknownStatus is returned when the target status id is not part of
	// the status catalog.
	ErrUnknownStatus = errors.New("unknown status id")

	// ErrUnknownOutcome is returned when the outcome id is not part of the
	// outcome reference data.
	ErrUnknownOutcome = errors.New("unknown outcome id")

	// ErrNoOutcomeSelected is returned when ConfirmOutcome is called without
	// a prior SelectOutcome.
	ErrNoOutcomeSelected = errors.New("no outcome selected")
)

// Cache errors - internal assignment cache errors.
var (
	// ErrTxnFinished is returned when an optimistic transaction is confirmed
	// or rolled back more than once.
	ErrTxnFinished = errors.New("optimistic transaction already finished")
)

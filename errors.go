package workplace

import "github.com/claimdesk/workplace/types"

// Sentinel errors returned by the Coordinator, re-exported from the types
// package so errors.Is checks work regardless of which package a caller
// imports.
var (
	// ErrInvalidConfig is returned when the configuration is invalid.
	ErrInvalidConfig = types.ErrInvalidConfig

	// ErrServiceRequired is returned when the workplace service is nil.
	ErrServiceRequired = types.ErrServiceRequired

	// ErrClerkIDRequired is returned when the session carries no clerk id.
	ErrClerkIDRequired = types.ErrClerkIDRequired

	// ErrAlreadyStarted is returned when Start is called on an already running coordinator.
	ErrAlreadyStarted = types.ErrAlreadyStarted

	// ErrNotStarted is returned when operations require a started coordinator.
	ErrNotStarted = types.ErrNotStarted

	// ErrNoAssignment is returned when an operation requires a held assignment.
	ErrNoAssignment = types.ErrNoAssignment

	// ErrEmptyComment is returned when a comment is empty after trimming.
	ErrEmptyComment = types.ErrEmptyComment

	// ErrConfirmationRequired is returned when a status change needs an
	// explicit confirmation that was not given.
	ErrConfirmationRequired = types.ErrConfirmationRequired

	// ErrStatusNotSelectable is returned when the target status is reserved.
	ErrStatusNotSelectable = types.ErrStatusNotSelectable

	// ErrUnknownStatus is returned when the target status id is not in the catalog.
	ErrUnknownStatus = types.ErrUnknownStatus

	// ErrUnknownOutcome is returned when the outcome id is not in the reference data.
	ErrUnknownOutcome = types.ErrUnknownOutcome

	// ErrNoOutcomeSelected is returned when ConfirmOutcome is called without
	// a prior SelectOutcome.
	ErrNoOutcomeSelected = types.ErrNoOutcomeSelected
)

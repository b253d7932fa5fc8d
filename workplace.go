package workplace

import "github.com/claimdesk/workplace/types"

// Re-export types from the internal types package.
//
// This file provides a stable public API for the library's core types and
// interfaces. It uses type aliases to re-export definitions from the `types`
// subpackage, which contains the actual implementations.
//
// This pattern solves the "import cycle" problem by allowing internal
// packages to depend on `types` without depending on the root `workplace`
// package, while still providing a convenient `workplace.State`,
// `workplace.Assignment`, etc. for users.
type (
	State        = types.State
	Clerk        = types.Clerk
	ClerkStatus  = types.ClerkStatus
	Assignment   = types.Assignment
	Comment      = types.Comment
	Outcome      = types.Outcome
	Confirmation = types.Confirmation
	Event        = types.Event
	EventType    = types.EventType
)

// Re-export interfaces from the internal types package for convenience.
type (
	Service            = types.Service
	NotificationBridge = types.NotificationBridge
	EventHandler       = types.EventHandler
	MetricsCollector   = types.MetricsCollector
	Logger             = types.Logger
	Hooks              = types.Hooks
)

// Re-export State constants from the internal types package.
const (
	StateInit          = types.StateInit
	StateNoAssignment  = types.StateNoAssignment
	StateHasAssignment = types.StateHasAssignment
	StateShutdown      = types.StateShutdown
)

// Re-export well-known status ids.
const (
	StatusLoggedOff        = types.StatusLoggedOff
	StatusAvailable        = types.StatusAvailable
	StatusReferral         = types.StatusReferral
	StatusSupervisorReview = types.StatusSupervisorReview
)

// Re-export confirmation kinds.
const (
	ConfirmationNone              = types.ConfirmationNone
	ConfirmationLogOff            = types.ConfirmationLogOff
	ConfirmationReleaseAssignment = types.ConfirmationReleaseAssignment
)

// Re-export bridge event types.
const (
	EventStatusChanged     = types.EventStatusChanged
	EventAssignmentChanged = types.EventAssignmentChanged
)

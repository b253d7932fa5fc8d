package workplace

import "github.com/claimdesk/workplace/types"

// StatusOption is one entry of the status-change control.
//
// Disabled entries exist so the control can display the clerk's current
// escalation status even though it cannot be re-selected.
type StatusOption struct {
	Status   types.ClerkStatus
	Disabled bool
}

// reservedStatusIDs are never directly selectable; the server moves clerks
// into them through referral and supervisor-review flows.
var reservedStatusIDs = map[int]bool{
	types.StatusReferral:         true,
	types.StatusSupervisorReview: true,
}

// isEscalation reports whether the status id is one of the escalation states.
func isEscalation(statusID int) bool {
	return statusID == types.StatusReferral || statusID == types.StatusSupervisorReview
}

// SelectableStatuses derives the list of statuses offered by the
// status-change control from the full catalog and the current status id.
//
// Rules:
//   - the two reserved escalation statuses are never directly selectable;
//   - while the current status is an escalation status, StatusAvailable is
//     additionally hidden (the clerk cannot drop back to plain availability
//     until the escalation resolves) and the current escalation status is
//     injected, at its catalog position, as a disabled entry so the control
//     can still display it.
//
// The result is a derived read-only list; input order is preserved and the
// input slice is never modified.
func SelectableStatuses(all []types.ClerkStatus, currentID int) []StatusOption {
	escalated := isEscalation(currentID)

	options := make([]StatusOption, 0, len(all))
	for _, status := range all {
		if reservedStatusIDs[status.ID] {
			if escalated && status.ID == currentID {
				options = append(options, StatusOption{Status: status, Disabled: true})
			}

			continue
		}

		if escalated && status.ID == types.StatusAvailable {
			continue
		}

		options = append(options, StatusOption{Status: status})
	}

	return options
}

// ConfirmationFor returns the confirmation step required before a status
// change to the given id may be submitted.
//
// Logging off always requires confirmation. Any other change while an
// assignment is held requires confirmation too, because changing status
// returns the assignment to the shared queue.
func ConfirmationFor(statusID int, assignmentHeld bool) types.Confirmation {
	if statusID == types.StatusLoggedOff {
		return types.ConfirmationLogOff
	}
	if assignmentHeld {
		return types.ConfirmationReleaseAssignment
	}

	return types.ConfirmationNone
}

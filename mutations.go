package workplace

import (
	"context"
	"fmt"
	"strings"

	"github.com/claimdesk/workplace/types"
)

// ChangeStatus submits an availability status change for the clerk.
//
// Reserved escalation statuses are rejected before any network call, as is a
// change that requires a confirmation gesture the caller has not supplied
// (confirmed=false). Use ConfirmationFor or SelectableStatuses to know when
// confirmation is required.
//
// On success the clerk snapshot is updated and the assignment is reconciled,
// since a status change can return held work to the shared queue. On failure
// no local value is trusted: both the clerk and the assignment are refetched
// before the error is returned.
//
// Parameters:
//   - ctx: Context for cancellation
//   - statusID: Target status id from the catalog
//   - confirmed: Whether the caller completed the required confirmation
//
// Returns:
//   - error: ErrStatusNotSelectable, ErrUnknownStatus, ErrConfirmationRequired,
//     or the wrapped service error
func (c *Coordinator) ChangeStatus(ctx context.Context, statusID int, confirmed bool) error {
	if !c.started() {
		return ErrNotStarted
	}

	if reservedStatusIDs[statusID] {
		return fmt.Errorf("%w: status %d is assigned by the server only", ErrStatusNotSelectable, statusID)
	}

	if statuses := c.Statuses(); len(statuses) > 0 && !containsStatus(statuses, statusID) {
		return fmt.Errorf("%w: %d", ErrUnknownStatus, statusID)
	}

	assignmentHeld := c.CurrentAssignment() != nil
	if required := ConfirmationFor(statusID, assignmentHeld); required != ConfirmationNone && !confirmed {
		return fmt.Errorf("%w: %s", ErrConfirmationRequired, required)
	}

	start := c.clock.Now()
	c.updatingStatus.Store(true)
	defer c.updatingStatus.Store(false)

	from := c.CurrentStatus()

	clerk, err := c.svc.ChangeClerkStatus(ctx, c.session.ClerkID, statusID)
	if err != nil {
		// The server may have partially applied the change; recover the
		// authoritative clerk and assignment before reporting.
		c.refetchClerk(ctx)
		c.settleAssignment(ctx)

		c.metrics.RecordMutation("change_status", false, c.clock.Since(start).Seconds())

		err = fmt.Errorf("failed to change status: %w", err)
		c.reportError(err)

		return err
	}

	if clerk != nil {
		c.setClerk(clerk)
	} else {
		c.refetchClerk(ctx)
	}

	// A status change can release held work back to the queue.
	c.settleAssignment(ctx)
	c.refetchStatuses(ctx)

	if to := c.CurrentStatus(); from.ID != to.ID {
		c.dispatchStatusChanged(from, to)
	}

	c.metrics.RecordMutation("change_status", true, c.clock.Since(start).Seconds())

	return nil
}

// SelectOutcome records the clerk's chosen outcome for the held assignment.
//
// Selection is a local gesture; nothing is submitted until ConfirmOutcome.
// Returns ErrNoAssignment when no assignment is held and ErrUnknownOutcome
// when the id is not in the outcome catalog.
func (c *Coordinator) SelectOutcome(outcomeID int) error {
	if !c.started() {
		return ErrNotStarted
	}

	if c.CurrentAssignment() == nil {
		return ErrNoAssignment
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for _, outcome := range c.outcomes {
		if outcome.ID == outcomeID {
			selected := outcome
			c.selectedOutcome = &selected

			return nil
		}
	}

	return fmt.Errorf("%w: %d", ErrUnknownOutcome, outcomeID)
}

// CancelOutcomeSelection discards the pending outcome selection, if any.
func (c *Coordinator) CancelOutcomeSelection() {
	c.mu.Lock()
	c.selectedOutcome = nil
	c.mu.Unlock()
}

// SelectedOutcome returns a copy of the currently selected outcome, or nil
// when none is selected.
func (c *Coordinator) SelectedOutcome() *Outcome {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.selectedOutcome == nil {
		return nil
	}

	outcome := *c.selectedOutcome

	return &outcome
}

// ConfirmOutcome submits the selected outcome, releasing the assignment.
//
// Before the network call resolves, the cached assignment is synchronously
// cleared, the settle flag is raised (suppressing the reconciliation poller)
// and the cooldown countdown starts carrying the outcome's label. The
// released work item therefore disappears immediately.
//
// After the call resolves, win or lose, the assignment is reconciled against
// the service, the settle flag drops and the selection is cleared. On failure
// the cooldown keeps running; the post-cooldown refetch restores whatever
// state the server settled on.
//
// Returns:
//   - error: ErrNoOutcomeSelected, ErrNoAssignment, or the wrapped service
//     error
func (c *Coordinator) ConfirmOutcome(ctx context.Context) error {
	if !c.started() {
		return ErrNotStarted
	}

	c.mu.RLock()
	selected := c.selectedOutcome
	c.mu.RUnlock()

	if selected == nil {
		return ErrNoOutcomeSelected
	}
	outcome := *selected

	assignment := c.CurrentAssignment()
	if assignment == nil {
		return ErrNoAssignment
	}

	start := c.clock.Now()

	// Optimistic release: absence is recorded and the cooldown starts before
	// the submission is on the wire.
	c.cache.Clear(c.session.ClerkID)
	c.awaitingReconciliation.Store(true)
	c.cooldown.Start(outcome.Label)
	c.applyAssignment(assignment, nil)

	err := c.svc.ApplyOutcome(ctx, assignment.ID, outcome.ID)
	if err == nil {
		c.dispatchOutcomeApplied(outcome)

		// The disposition can change the clerk's status server-side (e.g.
		// an automatic referral on certain outcomes).
		c.refetchClerk(ctx)
		c.refetchStatuses(ctx)
	}

	// Settle refetch is final regardless of the submission result; the
	// server may have applied the outcome even when the response was lost.
	c.settleAssignment(ctx)

	c.awaitingReconciliation.Store(false)
	c.CancelOutcomeSelection()
	c.evaluatePolling()

	c.metrics.RecordMutation("apply_outcome", err == nil, c.clock.Since(start).Seconds())

	if err != nil {
		err = fmt.Errorf("failed to apply outcome: %w", err)
		c.reportError(err)

		return err
	}

	return nil
}

// AppendComment appends a comment to the held assignment.
//
// The comment appears in the cached assignment immediately under a negative
// sentinel id; the service call then settles it. On success a refetch swaps
// the sentinel for the authoritative comment, on failure the optimistic
// append is rolled back exactly.
//
// Parameters:
//   - ctx: Context for cancellation
//   - text: Comment text; leading and trailing whitespace is trimmed
//
// Returns:
//   - error: ErrEmptyComment, ErrNoAssignment, or the wrapped service error
func (c *Coordinator) AppendComment(ctx context.Context, text string) error {
	if !c.started() {
		return ErrNotStarted
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyComment
	}

	assignment, err := c.cache.Fetch(ctx, c.session.ClerkID)
	if err != nil {
		return err
	}
	if assignment == nil {
		return ErrNoAssignment
	}

	start := c.clock.Now()

	author := ""
	c.mu.RLock()
	if c.clerk != nil {
		author = c.clerk.Name
	}
	c.mu.RUnlock()

	pending := types.Comment{
		ID:           c.pendingCommentID.Add(-1),
		AssignmentID: assignment.ID,
		Text:         text,
		Author:       author,
		CreatedAt:    c.clock.Now(),
	}

	txn := c.cache.Begin(c.session.ClerkID)
	txn.Apply(func(current *types.Assignment) *types.Assignment {
		if current == nil {
			return nil
		}
		current.Comments = append(current.Comments, pending)

		return current
	})

	_, err = c.svc.AppendComment(ctx, assignment.ID, text)
	if err == nil {
		if confirmErr := txn.Confirm(); confirmErr != nil {
			c.logger.Error("comment transaction confirm failed", "error", confirmErr)
		}
	} else {
		if rollbackErr := txn.Rollback(); rollbackErr != nil {
			c.logger.Error("comment transaction rollback failed", "error", rollbackErr)
		}
	}

	// Settle: swap the sentinel comment for the server-assigned one (or, on
	// failure, confirm the rolled-back state against the server).
	c.settleAssignment(ctx)

	c.metrics.RecordMutation("append_comment", err == nil, c.clock.Since(start).Seconds())

	if err != nil {
		err = fmt.Errorf("failed to append comment: %w", err)
		c.reportError(err)

		return err
	}

	return nil
}

// settleAssignment refetches the authoritative assignment after a mutation
// and reconciles session state with it. Fetch errors are reported, not
// returned; the stale-marked cache entry forces the next read through to the
// service anyway.
func (c *Coordinator) settleAssignment(ctx context.Context) {
	previous := c.CurrentAssignment()

	assignment, err := c.cache.Refetch(ctx, c.session.ClerkID)
	if err != nil {
		c.reportError(fmt.Errorf("settle refetch failed: %w", err))

		return
	}

	c.applyAssignment(previous, assignment)
}

// refetchClerk replaces the clerk snapshot with the authoritative one.
func (c *Coordinator) refetchClerk(ctx context.Context) {
	clerk, err := c.svc.GetClerk(ctx, c.session.ClerkID)
	if err != nil {
		c.reportError(fmt.Errorf("clerk refetch failed: %w", err))

		return
	}

	c.setClerk(clerk)
}

// refetchStatuses replaces the status catalog with the authoritative one.
func (c *Coordinator) refetchStatuses(ctx context.Context) {
	statuses, err := c.svc.ListStatuses(ctx)
	if err != nil {
		c.reportError(fmt.Errorf("status catalog refetch failed: %w", err))

		return
	}

	c.mu.Lock()
	c.statuses = statuses
	c.mu.Unlock()
}

// setClerk stores a copy of the clerk snapshot.
func (c *Coordinator) setClerk(clerk *types.Clerk) {
	if clerk == nil {
		return
	}

	copied := *clerk

	c.mu.Lock()
	c.clerk = &copied
	c.mu.Unlock()
}

// dispatchOutcomeApplied triggers the outcome applied hook.
func (c *Coordinator) dispatchOutcomeApplied(outcome types.Outcome) {
	if c.hooks.OnOutcomeApplied == nil {
		return
	}

	ctx := c.hookCtx()
	go func() {
		if err := c.hooks.OnOutcomeApplied(ctx, outcome); err != nil {
			c.logger.Error("outcome applied hook error", "error", err)
		}
	}()
}

// containsStatus reports whether the catalog contains the status id.
func containsStatus(statuses []ClerkStatus, statusID int) bool {
	for _, status := range statuses {
		if status.ID == statusID {
			return true
		}
	}

	return false
}

package testing

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/claimdesk/workplace/types"
)

// Fake service operation names, used with FailNext and Calls.
const (
	OpGetClerk             = "GetClerk"
	OpGetCurrentAssignment = "GetCurrentAssignment"
	OpChangeClerkStatus    = "ChangeClerkStatus"
	OpApplyOutcome         = "ApplyOutcome"
	OpAppendComment        = "AppendComment"
	OpListStatuses         = "ListStatuses"
	OpListOutcomes         = "ListOutcomes"
)

// FakeService is an in-memory types.Service implementation for tests.
//
// It behaves like a minimal workplace server: it holds one clerk, a status
// and outcome catalog and at most one assignment, applies mutations to that
// state, and counts calls per operation. Individual calls can be scripted to
// fail with FailNext.
//
// All methods are safe for concurrent use.
type FakeService struct {
	mu sync.Mutex

	clerk      types.Clerk
	statuses   []types.ClerkStatus
	outcomes   []types.Outcome
	assignment *types.Assignment

	nextCommentID int64
	failures      map[string]error
	calls         map[string]int
}

var _ types.Service = (*FakeService)(nil)

// NewFakeService creates a fake service seeded with a default clerk, status
// catalog and outcome catalog, and no assignment.
func NewFakeService() *FakeService {
	return &FakeService{
		clerk: types.Clerk{
			ID:       "clerk-1",
			Name:     "Pat Example",
			Email:    "pat@example.test",
			StatusID: types.StatusAvailable,
		},
		statuses: []types.ClerkStatus{
			{ID: types.StatusLoggedOff, Label: "Logged off", Working: false},
			{ID: types.StatusAvailable, Label: "Available", Working: true},
			{ID: types.StatusReferral, Label: "Referral", Working: true},
			{ID: types.StatusSupervisorReview, Label: "Supervisor review", Working: true},
			{ID: 5, Label: "Paused", Working: false},
		},
		outcomes: []types.Outcome{
			{ID: 7, Label: "Approved"},
			{ID: 8, Label: "Rejected"},
			{ID: 9, Label: "Referred"},
		},
		nextCommentID: 1000,
		failures:      make(map[string]error),
		calls:         make(map[string]int),
	}
}

// SetAssignment replaces the assignment the service hands out.
func (s *FakeService) SetAssignment(assignment *types.Assignment) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.assignment = assignment.Clone()
}

// SetClerkStatus sets the clerk's status id directly, as a server-side change
// would.
func (s *FakeService) SetClerkStatus(statusID int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.clerk.StatusID = statusID
}

// Clerk returns a copy of the current clerk state.
func (s *FakeService) Clerk() types.Clerk {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.clerk
}

// Assignment returns a copy of the assignment the service currently holds for
// the clerk, or nil.
func (s *FakeService) Assignment() *types.Assignment {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.assignment.Clone()
}

// FailNext scripts the next call of the named operation to fail with err.
func (s *FakeService) FailNext(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.failures[op] = err
}

// Calls returns how many times the named operation has been invoked.
func (s *FakeService) Calls(op string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.calls[op]
}

// begin records the call and consumes a scripted failure, if any. Caller must
// hold s.mu.
func (s *FakeService) begin(op string) error {
	s.calls[op]++

	if err, ok := s.failures[op]; ok {
		delete(s.failures, op)

		return err
	}

	return nil
}

func (s *FakeService) GetClerk(_ context.Context, clerkID string) (*types.Clerk, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.begin(OpGetClerk); err != nil {
		return nil, err
	}

	if clerkID != s.clerk.ID {
		return nil, fmt.Errorf("unknown clerk %q", clerkID)
	}

	clerk := s.clerk

	return &clerk, nil
}

func (s *FakeService) GetCurrentAssignment(_ context.Context, clerkID string) (*types.Assignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.begin(OpGetCurrentAssignment); err != nil {
		return nil, err
	}

	if clerkID != s.clerk.ID {
		return nil, fmt.Errorf("unknown clerk %q", clerkID)
	}

	return s.assignment.Clone(), nil
}

func (s *FakeService) ChangeClerkStatus(_ context.Context, clerkID string, statusID int) (*types.Clerk, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.begin(OpChangeClerkStatus); err != nil {
		return nil, err
	}

	if clerkID != s.clerk.ID {
		return nil, fmt.Errorf("unknown clerk %q", clerkID)
	}

	s.clerk.StatusID = statusID

	// Any status change releases held work back to the queue.
	s.assignment = nil

	clerk := s.clerk

	return &clerk, nil
}

func (s *FakeService) ApplyOutcome(_ context.Context, assignmentID int64, outcomeID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.begin(OpApplyOutcome); err != nil {
		return err
	}

	if s.assignment == nil || s.assignment.ID != assignmentID {
		return fmt.Errorf("assignment %d is not held", assignmentID)
	}

	found := false
	for _, outcome := range s.outcomes {
		if outcome.ID == outcomeID {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("unknown outcome %d", outcomeID)
	}

	s.assignment = nil

	return nil
}

func (s *FakeService) AppendComment(_ context.Context, assignmentID int64, text string) (*types.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.begin(OpAppendComment); err != nil {
		return nil, err
	}

	if s.assignment == nil || s.assignment.ID != assignmentID {
		return nil, fmt.Errorf("assignment %d is not held", assignmentID)
	}

	s.nextCommentID++
	comment := types.Comment{
		ID:           s.nextCommentID,
		AssignmentID: assignmentID,
		Text:         text,
		Author:       s.clerk.Name,
		CreatedAt:    time.Now(),
	}
	s.assignment.Comments = append(s.assignment.Comments, comment)

	return &comment, nil
}

func (s *FakeService) ListStatuses(_ context.Context) ([]types.ClerkStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.begin(OpListStatuses); err != nil {
		return nil, err
	}

	statuses := make([]types.ClerkStatus, len(s.statuses))
	copy(statuses, s.statuses)

	return statuses, nil
}

func (s *FakeService) ListOutcomes(_ context.Context) ([]types.Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.begin(OpListOutcomes); err != nil {
		return nil, err
	}

	outcomes := make([]types.Outcome, len(s.outcomes))
	copy(outcomes, s.outcomes)

	return outcomes, nil
}

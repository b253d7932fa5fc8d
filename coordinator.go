package workplace

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/claimdesk/workplace/internal/cache"
	"github.com/claimdesk/workplace/internal/cooldown"
	"github.com/claimdesk/workplace/internal/logging"
	"github.com/claimdesk/workplace/internal/metrics"
	"github.com/claimdesk/workplace/internal/poller"
	"github.com/claimdesk/workplace/types"
)

// Session identifies the clerk whose live session the coordinator drives.
//
// It is created by the caller from the external authentication collaborator
// and passed in explicitly; the coordinator never reads ambient global state.
type Session struct {
	// ClerkID is the identity of the logged-in payment clerk.
	ClerkID string
}

// Coordinator drives a single payment clerk's live work session.
//
// The Coordinator is the main entry point of the workplace library. It
// handles:
//   - Caching the clerk's current assignment with staleness control
//   - The availability status state machine and its selection rules
//   - The three user-triggered mutations (status change, outcome
//     application, comment append) with optimistic apply and rollback
//   - Cooldown-gated admission of the next assignment after an outcome
//   - Reconciliation with server-side queue changes via polling and an
//     optional push-notification bridge
//
// Thread Safety:
//   - All public methods are safe for concurrent use
//   - Session state transitions are atomic and validated
//   - Cached assignment values returned to callers are deep copies
//
// Lifecycle:
//   - Create with NewCoordinator()
//   - Call Start() to load the session and begin reconciliation
//   - Use hooks to react to assignment/status changes
//   - Call Stop() for graceful teardown
type Coordinator struct {
	cfg     Config
	svc     types.Service
	session Session

	// Optional dependencies
	bridge  types.NotificationBridge
	hooks   *types.Hooks
	metrics types.MetricsCollector
	logger  types.Logger
	clock   clockwork.Clock

	// Internal components
	cache    *cache.AssignmentCache
	cooldown *cooldown.Scheduler
	poller   *poller.Poller

	// State management
	state                  atomic.Int32 // State
	updatingStatus         atomic.Bool
	awaitingReconciliation atomic.Bool
	pendingCommentID       atomic.Int64 // next negative sentinel comment id

	// Session snapshot (clerk, catalogs, outcome selection)
	mu              sync.RWMutex
	clerk           *types.Clerk
	statuses        []types.ClerkStatus
	outcomes        []types.Outcome
	selectedOutcome *types.Outcome

	// Lifecycle management
	lifecycle   sync.Mutex
	ctx         context.Context
	cancel      context.CancelFunc
	unsubscribe func() error
}

// NewCoordinator creates a new Coordinator for the given session.
//
// Returns a concrete *Coordinator struct following the "accept interfaces,
// return structs" principle. Consumers can define their own interfaces for
// testing if needed.
//
// Parameters:
//   - cfg: Runtime configuration; zero fields are filled with defaults
//   - svc: Remote workplace service client
//   - session: Session context carrying the clerk id
//   - opts: Optional configuration (bridge, hooks, metrics, logger, clock)
//
// Returns:
//   - *Coordinator: Initialized coordinator instance
//   - error: Validation error if configuration is invalid
//
// Example:
//
//	cfg := workplace.Config{PollInterval: 2 * time.Second}
//	coord, err := workplace.NewCoordinator(&cfg, svc, workplace.Session{ClerkID: "bpc-7"})
func NewCoordinator(cfg *Config, svc types.Service, session Session, opts ...Option) (*Coordinator, error) {
	if cfg == nil {
		return nil, ErrInvalidConfig
	}
	if svc == nil {
		return nil, ErrServiceRequired
	}
	if session.ClerkID == "" {
		return nil, ErrClerkIDRequired
	}

	// Fill in missing configuration values with defaults
	SetDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Apply options
	options := &coordinatorOptions{}
	for _, opt := range opts {
		opt(options)
	}

	// Provide safe defaults for optional dependencies to avoid nil checks everywhere
	metricsCollector := options.metrics
	if metricsCollector == nil {
		metricsCollector = metrics.NewNop()
	}

	loggerInstance := options.logger
	if loggerInstance == nil {
		loggerInstance = logging.NewNop()
	}

	// Validate with warnings after logger is available
	cfg.ValidateWithWarnings(loggerInstance)

	hooksInstance := options.hooks
	if hooksInstance == nil {
		hooksInstance = &types.Hooks{}
	}

	clk := options.clock
	if clk == nil {
		clk = clockwork.NewRealClock()
	}

	c := &Coordinator{
		cfg:     *cfg,
		svc:     svc,
		session: session,
		bridge:  options.bridge,
		hooks:   hooksInstance,
		metrics: metricsCollector,
		logger:  loggerInstance,
		clock:   clk,
	}

	c.state.Store(int32(StateInit))

	c.cache = cache.New(svc.GetCurrentAssignment, cfg.CacheFreshFor, clk, loggerInstance, metricsCollector)
	c.cooldown = cooldown.New(cfg.CooldownTicks, cfg.TickInterval, clk, c.handleCooldownFinished, loggerInstance, metricsCollector)
	c.poller = poller.New(cfg.PollInterval, clk, c.pollTick, loggerInstance)

	return c, nil
}

// Start loads the session and begins reconciliation.
//
// It fetches the clerk, the status and outcome catalogs and the current
// assignment, subscribes to the notification bridge when one is configured,
// and activates the reconciliation poller if the clerk holds no assignment.
//
// Parameters:
//   - ctx: Context bounding the startup fetches
//
// Returns:
//   - error: Startup error; the coordinator stays idle when Start fails
func (c *Coordinator) Start(ctx context.Context) error {
	c.lifecycle.Lock()
	if c.ctx != nil {
		c.lifecycle.Unlock()

		return ErrAlreadyStarted
	}

	// Create coordinator lifecycle context independent of the startup context
	c.ctx, c.cancel = context.WithCancel(context.Background())
	lifecycleCtx := c.ctx
	c.lifecycle.Unlock()

	// A failed startup leaves the coordinator idle and startable again.
	fail := func(err error) error {
		c.lifecycle.Lock()
		c.cancel()
		c.ctx = nil
		c.cancel = nil
		c.lifecycle.Unlock()

		c.state.Store(int32(StateInit))

		return err
	}

	// Apply startup timeout from the provided context
	startupCtx := ctx
	if c.cfg.StartupTimeout > 0 {
		var cancel context.CancelFunc
		startupCtx, cancel = context.WithTimeout(ctx, c.cfg.StartupTimeout)
		defer cancel()
	}

	clerk, err := c.svc.GetClerk(startupCtx, c.session.ClerkID)
	if err != nil {
		return fail(fmt.Errorf("failed to fetch clerk: %w", err))
	}

	statuses, err := c.svc.ListStatuses(startupCtx)
	if err != nil {
		return fail(fmt.Errorf("failed to fetch status catalog: %w", err))
	}

	outcomes, err := c.svc.ListOutcomes(startupCtx)
	if err != nil {
		return fail(fmt.Errorf("failed to fetch outcome catalog: %w", err))
	}

	c.mu.Lock()
	c.clerk = clerk
	c.statuses = statuses
	c.outcomes = outcomes
	c.mu.Unlock()

	assignment, err := c.cache.Fetch(startupCtx, c.session.ClerkID)
	if err != nil {
		return fail(fmt.Errorf("failed to fetch initial assignment: %w", err))
	}

	if assignment != nil {
		c.transitionState(StateInit, StateHasAssignment)
	} else {
		c.transitionState(StateInit, StateNoAssignment)
	}

	if c.bridge != nil {
		unsubscribe, err := c.bridge.Subscribe(lifecycleCtx, c.session.ClerkID, c.handleBridgeEvent)
		if err != nil {
			return fail(fmt.Errorf("failed to subscribe to notification bridge: %w", err))
		}

		c.lifecycle.Lock()
		c.unsubscribe = unsubscribe
		c.lifecycle.Unlock()
	}

	c.evaluatePolling()

	c.logger.Info("workplace session started",
		"clerk_id", c.session.ClerkID,
		"state", c.State().String(),
		"status_id", clerk.StatusID,
	)

	return nil
}

// Stop gracefully tears down the session.
//
// All timers are cancelled and the bridge subscription is released; no
// further ticks or events are delivered afterwards. Safe to call multiple
// times - subsequent calls return ErrNotStarted.
func (c *Coordinator) Stop(_ context.Context) error {
	c.lifecycle.Lock()

	if c.ctx == nil || c.State() == StateShutdown {
		c.lifecycle.Unlock()

		return ErrNotStarted
	}

	cancel := c.cancel
	unsubscribe := c.unsubscribe
	c.unsubscribe = nil
	c.lifecycle.Unlock()

	// Transition before cancelling so the shutdown hook still gets a live
	// lifecycle context.
	c.transitionState(c.State(), StateShutdown)
	cancel()

	c.poller.Stop()
	c.cooldown.Stop()

	if unsubscribe != nil {
		if err := unsubscribe(); err != nil {
			c.logger.Error("failed to unsubscribe from notification bridge", "error", err)

			return fmt.Errorf("bridge unsubscribe failed: %w", err)
		}
	}

	c.logger.Info("workplace session stopped", "clerk_id", c.session.ClerkID)

	return nil
}

// State returns the current session state.
func (c *Coordinator) State() State {
	return State(c.state.Load())
}

// WaitState waits for the coordinator to reach the expected state within the
// timeout period.
//
// The returned channel receives exactly one value - nil if the state is
// reached, context.DeadlineExceeded on timeout - and is then closed.
//
// The wait polls with a real-time ticker on purpose: it is a test and
// synchronization helper and must make progress even when the coordinator
// itself runs against a fake clock.
//
// Example:
//
//	if err := <-coord.WaitState(workplace.StateNoAssignment, 5*time.Second); err != nil {
//	    return fmt.Errorf("timeout waiting for release: %w", err)
//	}
func (c *Coordinator) WaitState(expectedState State, timeout time.Duration) <-chan error {
	ch := make(chan error, 1) // Buffered to prevent goroutine leak

	go func() {
		defer close(ch)

		if c.State() == expectedState {
			ch <- nil
			return
		}

		ticker := time.NewTicker(10 * time.Millisecond)
		defer ticker.Stop()

		timeoutTimer := time.NewTimer(timeout)
		defer timeoutTimer.Stop()

		for {
			select {
			case <-ticker.C:
				if c.State() == expectedState {
					ch <- nil
					return
				}
			case <-timeoutTimer.C:
				ch <- context.DeadlineExceeded
				return
			}
		}
	}()

	return ch
}

// CurrentAssignment returns a copy of the currently held assignment, or nil
// when none is held (or the cache entry has been invalidated).
func (c *Coordinator) CurrentAssignment() *Assignment {
	assignment, _ := c.cache.Get(c.session.ClerkID)

	return assignment
}

// Clerk returns a copy of the clerk, or nil before Start.
func (c *Coordinator) Clerk() *Clerk {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.clerk == nil {
		return nil
	}

	clerk := *c.clerk

	return &clerk
}

// CurrentStatus returns the clerk's current availability status resolved
// against the status catalog.
func (c *Coordinator) CurrentStatus() ClerkStatus {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.clerk == nil {
		return ClerkStatus{}
	}

	return c.statusByIDLocked(c.clerk.StatusID)
}

// Statuses returns a copy of the availability status catalog.
func (c *Coordinator) Statuses() []ClerkStatus {
	c.mu.RLock()
	defer c.mu.RUnlock()

	statuses := make([]ClerkStatus, len(c.statuses))
	copy(statuses, c.statuses)

	return statuses
}

// Outcomes returns a copy of the outcome reference data.
func (c *Coordinator) Outcomes() []Outcome {
	c.mu.RLock()
	defer c.mu.RUnlock()

	outcomes := make([]Outcome, len(c.outcomes))
	copy(outcomes, c.outcomes)

	return outcomes
}

// SelectableStatuses returns the status options currently offered by the
// status-change control.
func (c *Coordinator) SelectableStatuses() []StatusOption {
	return SelectableStatuses(c.Statuses(), c.CurrentStatus().ID)
}

// CooldownRemaining returns the ticks left on the post-outcome cooldown, or
// 0 when idle.
func (c *Coordinator) CooldownRemaining() int {
	return c.cooldown.Remaining()
}

// CooldownLabel returns the label of the outcome that started the running
// cooldown, or "" when idle.
func (c *Coordinator) CooldownLabel() string {
	return c.cooldown.Label()
}

// IsUpdatingStatus reports whether a status change is in flight. Drives
// disabling of the status control.
func (c *Coordinator) IsUpdatingStatus() bool {
	return c.updatingStatus.Load()
}

// IsAwaitingReconciliation reports whether an outcome submission is still
// settling. While true the reconciliation poller never fetches.
func (c *Coordinator) IsAwaitingReconciliation() bool {
	return c.awaitingReconciliation.Load()
}

// transitionState transitions to a new state and triggers hooks.
func (c *Coordinator) transitionState(from, to State) {
	if !c.isValidTransition(from, to) {
		c.logger.Error("invalid state transition attempted",
			"from", from.String(),
			"to", to.String(),
		)

		return
	}

	c.state.Store(int32(to)) //nolint:gosec // State values are controlled enum

	c.logger.Info("state transition",
		"from", from.String(),
		"to", to.String(),
		"clerk_id", c.session.ClerkID,
	)

	if c.hooks.OnStateChanged != nil {
		// Run hook in background to avoid blocking the state machine
		ctx := c.hookCtx()
		go func() {
			if err := c.hooks.OnStateChanged(ctx, from, to); err != nil {
				c.logger.Error("state change hook error", "from", from, "to", to, "error", err)
			}
		}()
	}

	c.metrics.RecordStateTransition(from, to)
}

// isValidTransition validates that a state transition is allowed.
func (c *Coordinator) isValidTransition(from, to State) bool {
	validTransitions := map[State][]State{
		StateInit:          {StateNoAssignment, StateHasAssignment, StateShutdown},
		StateNoAssignment:  {StateHasAssignment, StateShutdown},
		StateHasAssignment: {StateNoAssignment, StateShutdown},
		StateShutdown:      {}, // Terminal state - no transitions allowed
	}

	allowedStates, exists := validTransitions[from]
	if !exists {
		return false
	}

	for _, allowed := range allowedStates {
		if allowed == to {
			return true
		}
	}

	return false
}

// lifecycleCtx returns the coordinator lifecycle context, or nil before Start.
func (c *Coordinator) lifecycleCtx() context.Context {
	c.lifecycle.Lock()
	defer c.lifecycle.Unlock()

	return c.ctx
}

// hookCtx returns the context hooks run under.
func (c *Coordinator) hookCtx() context.Context {
	if ctx := c.lifecycleCtx(); ctx != nil {
		return ctx
	}

	return context.Background()
}

// started reports whether the coordinator is running.
func (c *Coordinator) started() bool {
	return c.lifecycleCtx() != nil && c.State() != StateShutdown
}

// evaluatePolling starts or stops the reconciliation poller according to its
// activation condition: no assignment held, no outcome submission settling,
// no cooldown running. Called after every state-affecting event.
func (c *Coordinator) evaluatePolling() {
	ctx := c.lifecycleCtx()
	if ctx == nil || c.State() == StateShutdown {
		c.poller.Stop()

		return
	}

	if c.awaitingReconciliation.Load() || c.cooldown.Running() {
		c.poller.Stop()

		return
	}

	if assignment, ok := c.cache.Get(c.session.ClerkID); ok && assignment != nil {
		c.poller.Stop()

		return
	}

	c.poller.Start(ctx)
}

// pollTick runs once per poll interval. The activation condition is
// re-checked at tick time: stopping the poller and a tick already on the
// loop can race, and the mutual-exclusion rules are mandatory.
func (c *Coordinator) pollTick(ctx context.Context) {
	if c.awaitingReconciliation.Load() || c.cooldown.Running() {
		return
	}

	if assignment, ok := c.cache.Get(c.session.ClerkID); ok && assignment != nil {
		return
	}

	previous := c.CurrentAssignment()

	assignment, issued, err := c.cache.TryFetch(ctx, c.session.ClerkID)
	c.metrics.RecordPollTick(!issued)
	if err != nil {
		c.reportError(fmt.Errorf("reconciliation fetch failed: %w", err))

		return
	}
	if !issued {
		return
	}

	c.applyAssignment(previous, assignment)
}

// applyAssignment reconciles session state with a newly cached assignment
// value and re-evaluates polling.
func (c *Coordinator) applyAssignment(old, current *types.Assignment) {
	target := StateNoAssignment
	if current != nil {
		target = StateHasAssignment
	}

	state := c.State()
	if state != target && state != StateShutdown && state != StateInit {
		c.transitionState(state, target)
	}

	if assignmentChanged(old, current) {
		c.dispatchAssignmentChanged(old, current)
	}

	c.evaluatePolling()
}

// assignmentChanged reports whether two assignment values differ in a way
// hooks should observe.
func assignmentChanged(old, current *types.Assignment) bool {
	if (old == nil) != (current == nil) {
		return true
	}
	if old == nil {
		return false
	}

	return old.ID != current.ID || len(old.Comments) != len(current.Comments)
}

// handleCooldownFinished runs on the cooldown tick that reaches zero. It
// invalidates the assignment cache so the next fetch can proceed, issues an
// immediate reconciliation fetch, and reactivates the poller.
func (c *Coordinator) handleCooldownFinished() {
	c.cache.Invalidate(c.session.ClerkID)
	c.logger.Debug("cooldown finished, assignment cache invalidated", "clerk_id", c.session.ClerkID)

	if c.hooks.OnCooldownFinished != nil {
		ctx := c.hookCtx()
		go func() {
			if err := c.hooks.OnCooldownFinished(ctx); err != nil {
				c.logger.Error("cooldown finished hook error", "error", err)
			}
		}()
	}

	ctx := c.lifecycleCtx()
	if ctx == nil || c.State() == StateShutdown || c.awaitingReconciliation.Load() {
		return
	}

	previous := c.CurrentAssignment()

	assignment, issued, err := c.cache.TryFetch(ctx, c.session.ClerkID)
	if err != nil {
		c.reportError(fmt.Errorf("post-cooldown fetch failed: %w", err))
		c.evaluatePolling()

		return
	}

	if issued {
		c.applyAssignment(previous, assignment)
	} else {
		c.evaluatePolling()
	}
}

// handleBridgeEvent applies a server-pushed change event. Events are applied
// last-write-wins against the current cached state; they are never queued
// against in-flight mutations, whose settle-time refetch remains final.
func (c *Coordinator) handleBridgeEvent(event types.Event) {
	c.metrics.RecordBridgeEvent(event.Type)
	c.logger.Debug("bridge event received", "type", event.Type.String(), "clerk_id", event.ClerkID)

	switch event.Type {
	case types.EventStatusChanged:
		c.applyPushedStatus(event.StatusID)

	case types.EventAssignmentChanged:
		ctx := c.lifecycleCtx()
		if ctx == nil || c.State() == StateShutdown {
			return
		}

		previous := c.CurrentAssignment()

		assignment, err := c.cache.Refetch(ctx, c.session.ClerkID)
		if err != nil {
			c.reportError(fmt.Errorf("assignment refetch after push event failed: %w", err))

			return
		}

		c.applyAssignment(previous, assignment)

	default:
		c.logger.Warn("ignoring unknown bridge event", "type", int(event.Type))
	}
}

// applyPushedStatus adopts a server-pushed status id.
func (c *Coordinator) applyPushedStatus(statusID int) {
	c.mu.Lock()
	if c.clerk == nil || c.clerk.StatusID == statusID {
		c.mu.Unlock()

		return
	}

	from := c.statusByIDLocked(c.clerk.StatusID)
	c.clerk.StatusID = statusID
	to := c.statusByIDLocked(statusID)
	c.mu.Unlock()

	c.logger.Info("status adopted from push event",
		"clerk_id", c.session.ClerkID,
		"from", from.Label,
		"to", to.Label,
	)

	c.dispatchStatusChanged(from, to)
}

// statusByIDLocked resolves a status id against the catalog. Caller must
// hold c.mu.
func (c *Coordinator) statusByIDLocked(statusID int) ClerkStatus {
	for _, status := range c.statuses {
		if status.ID == statusID {
			return status
		}
	}

	// Unknown to the local catalog; synthesize a placeholder label.
	return ClerkStatus{ID: statusID, Label: fmt.Sprintf("status %d", statusID)}
}

// dispatchAssignmentChanged triggers the assignment change hook.
func (c *Coordinator) dispatchAssignmentChanged(old, current *types.Assignment) {
	if c.hooks.OnAssignmentChanged == nil {
		return
	}

	ctx := c.hookCtx()
	go func() {
		if err := c.hooks.OnAssignmentChanged(ctx, old, current); err != nil {
			c.logger.Error("assignment change hook error", "error", err)
		}
	}()
}

// dispatchStatusChanged triggers the status change hook.
func (c *Coordinator) dispatchStatusChanged(from, to ClerkStatus) {
	if c.hooks.OnStatusChanged == nil {
		return
	}

	ctx := c.hookCtx()
	go func() {
		if err := c.hooks.OnStatusChanged(ctx, from, to); err != nil {
			c.logger.Error("status change hook error", "error", err)
		}
	}()
}

// reportError logs a recoverable error and triggers the error hook.
func (c *Coordinator) reportError(err error) {
	c.logger.Error("recoverable error", "clerk_id", c.session.ClerkID, "error", err)

	if c.hooks.OnError == nil {
		return
	}

	ctx := c.hookCtx()
	go func() {
		if hookErr := c.hooks.OnError(ctx, err); hookErr != nil {
			c.logger.Error("error hook error", "error", hookErr)
		}
	}()
}

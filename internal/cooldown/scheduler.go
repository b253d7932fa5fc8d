package cooldown

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/claimdesk/workplace/types"
)

// Scheduler counts down a fixed number of ticks after an outcome is
// confirmed before the clerk may be handed a new assignment.
//
// While running it carries the confirmed outcome's label for user feedback.
// On the tick that reaches zero the scheduler clears the label, returns to
// Idle and invokes the onFinished callback (the coordinator invalidates the
// assignment cache there).
//
// All methods are safe for concurrent use.
type Scheduler struct {
	ticks      int
	interval   time.Duration
	clock      clockwork.Clock
	onFinished func()
	logger     types.Logger
	metrics    types.MetricsCollector

	mu        sync.Mutex
	running   bool
	remaining int
	label     string
	stopCh    chan struct{}
}

// New creates a cooldown scheduler.
//
// Parameters:
//   - ticks: Countdown duration in ticks (e.g. 10)
//   - interval: Tick period (e.g. 1s)
//   - clock: Clock driving the countdown (inject a fake in tests)
//   - onFinished: Invoked once per countdown, on the tick that reaches zero
//   - logger: Structured logger
//   - metrics: Metrics collector
//
// Returns:
//   - *Scheduler: New scheduler in the Idle state
func New(ticks int, interval time.Duration, clock clockwork.Clock, onFinished func(), logger types.Logger, metrics types.MetricsCollector) *Scheduler {
	return &Scheduler{
		ticks:      ticks,
		interval:   interval,
		clock:      clock,
		onFinished: onFinished,
		logger:     logger,
		metrics:    metrics,
	}
}

// Start begins (or restarts) the countdown with the given outcome label.
//
// A countdown already in progress is cancelled and the full duration starts
// over; remaining time never accumulates across outcomes.
func (s *Scheduler) Start(label string) {
	s.mu.Lock()
	if s.stopCh != nil {
		close(s.stopCh)
	}
	stopCh := make(chan struct{})
	s.stopCh = stopCh
	s.running = true
	s.remaining = s.ticks
	s.label = label
	s.mu.Unlock()

	s.metrics.RecordCooldownStarted()
	s.logger.Debug("cooldown started", "label", label, "ticks", s.ticks)

	go s.run(stopCh)
}

// Stop cancels any countdown in progress and returns to Idle without
// invoking onFinished. No further ticks are delivered after Stop returns.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopCh != nil {
		close(s.stopCh)
		s.stopCh = nil
	}
	s.running = false
	s.remaining = 0
	s.label = ""
}

// Running reports whether a countdown is in progress.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.running
}

// Remaining returns the number of ticks left, or 0 when Idle.
func (s *Scheduler) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.remaining
}

// Label returns the confirmed outcome's label, or "" when Idle.
func (s *Scheduler) Label() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.label
}

// run drives one countdown. It exits when its stop channel closes (restart
// or teardown) or when the countdown reaches zero.
func (s *Scheduler) run(stopCh chan struct{}) {
	ticker := s.clock.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.Chan():
			if s.tick(stopCh) {
				return
			}
		}
	}
}

// tick applies one decrement. Returns true when the countdown finished or
// was superseded.
func (s *Scheduler) tick(stopCh chan struct{}) bool {
	s.mu.Lock()

	// A restart swapped in a new stop channel; this countdown is stale.
	if s.stopCh != stopCh {
		s.mu.Unlock()

		return true
	}

	s.remaining--
	if s.remaining > 0 {
		s.mu.Unlock()

		return false
	}

	s.remaining = 0
	s.label = ""
	s.running = false
	s.stopCh = nil
	s.mu.Unlock()

	s.logger.Debug("cooldown finished")
	if s.onFinished != nil {
		s.onFinished()
	}

	return true
}

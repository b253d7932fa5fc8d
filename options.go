package workplace

import (
	"github.com/jonboulle/clockwork"

	"github.com/claimdesk/workplace/types"
)

// Option configures a Coordinator with optional dependencies.
type Option func(*coordinatorOptions)

// coordinatorOptions holds optional Coordinator configuration.
type coordinatorOptions struct {
	bridge  types.NotificationBridge
	hooks   *types.Hooks
	metrics types.MetricsCollector
	logger  types.Logger
	clock   clockwork.Clock
}

// WithBridge sets the notification bridge delivering server-pushed change
// events. Without a bridge the coordinator relies on the reconciliation
// poller alone.
//
// Example:
//
//	br := bridge.NewNATS(nc, "workplace")
//	coord, err := workplace.NewCoordinator(&cfg, svc, session, workplace.WithBridge(br))
func WithBridge(bridge types.NotificationBridge) Option {
	return func(o *coordinatorOptions) {
		o.bridge = bridge
	}
}

// WithHooks sets lifecycle event hooks.
//
// Example:
//
//	hooks := &workplace.Hooks{
//	    OnAssignmentChanged: func(ctx context.Context, old, current *workplace.Assignment) error {
//	        return render(current)
//	    },
//	}
//	coord, err := workplace.NewCoordinator(&cfg, svc, session, workplace.WithHooks(hooks))
func WithHooks(hooks *types.Hooks) Option {
	return func(o *coordinatorOptions) {
		o.hooks = hooks
	}
}

// WithMetrics sets a metrics collector.
func WithMetrics(metrics types.MetricsCollector) Option {
	return func(o *coordinatorOptions) {
		o.metrics = metrics
	}
}

// WithLogger sets a logger (compatible with zap.SugaredLogger).
func WithLogger(logger types.Logger) Option {
	return func(o *coordinatorOptions) {
		o.logger = logger
	}
}

// WithClock sets the clock driving the cooldown countdown, the
// reconciliation poller and cache staleness bookkeeping.
//
// Tests inject clockwork.NewFakeClock() so timer behavior can be exercised
// without wall-clock delays.
func WithClock(clock clockwork.Clock) Option {
	return func(o *coordinatorOptions) {
		o.clock = clock
	}
}

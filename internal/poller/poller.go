// Package poller implements the reconciliation poller: a fixed-interval
// fallback that re-requests the current assignment so the client converges
// with server-side queue allocation.
//
// The poller itself is deliberately dumb. It knows nothing about session
// state; the coordinator owns the activation condition (no assignment held,
// not awaiting reconciliation, clerk id known) and starts or stops the
// poller the moment that condition changes. The tick callback is responsible
// for suppressing overlapping fetches.
package poller

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/claimdesk/workplace/types"
)

// Poller invokes a tick callback at a fixed interval while started.
//
// Start and Stop are idempotent; each Start establishes a fresh interval and
// at most one loop is ever live. Stop cancels the outstanding interval
// immediately: no tick callback begins after Stop returns.
type Poller struct {
	interval time.Duration
	clock    clockwork.Clock
	tickFn   func(ctx context.Context)
	logger   types.Logger

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
}

// New creates a poller.
//
// Parameters:
//   - interval: Tick period (e.g. 2s)
//   - clock: Clock driving the interval (inject a fake in tests)
//   - tickFn: Callback invoked once per tick with the loop context
//   - logger: Structured logger
//
// Returns:
//   - *Poller: New poller in the stopped state
func New(interval time.Duration, clock clockwork.Clock, tickFn func(ctx context.Context), logger types.Logger) *Poller {
	return &Poller{
		interval: interval,
		clock:    clock,
		tickFn:   tickFn,
		logger:   logger,
	}
}

// Start begins polling. A no-op when already running.
func (p *Poller) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		return
	}

	p.running = true
	p.stopCh = make(chan struct{})
	p.logger.Debug("reconciliation poller started", "interval", p.interval)

	go p.run(ctx, p.stopCh)
}

// Stop cancels the outstanding interval. A no-op when not running.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running {
		return
	}

	p.running = false
	close(p.stopCh)
	p.stopCh = nil
	p.logger.Debug("reconciliation poller stopped")
}

// Running reports whether the poller is active.
func (p *Poller) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.running
}

// run drives the interval loop until stopped or the context is cancelled.
func (p *Poller) run(ctx context.Context, stopCh chan struct{}) {
	ticker := p.clock.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			// Re-check stop and cancellation before ticking so a Stop that
			// raced the ticker wins and no callback begins after it.
			select {
			case <-stopCh:
				return
			case <-ctx.Done():
				return
			default:
			}

			p.tickFn(ctx)
		}
	}
}

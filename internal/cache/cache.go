package cache

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/puzpuzpuz/xsync/v4"

	"github.com/claimdesk/workplace/types"
)

// FetchFunc requests the current assignment for a clerk from the remote
// service. A (nil, nil) result is the explicit "no assignment" marker.
type FetchFunc func(ctx context.Context, clerkID string) (*types.Assignment, error)

// AssignmentCache caches the current assignment per clerk.
//
// Entries are treated as fresh for a bounded window after population and are
// served without a network call within it; explicit invalidation (mutation
// settle, bridge events, cooldown expiry) forces the next fetch through to
// the service.
//
// All methods are safe for concurrent use. Values returned to callers are
// deep copies, so callers can never mutate the cached state directly.
type AssignmentCache struct {
	fetchFn  FetchFunc
	freshFor time.Duration
	clock    clockwork.Clock
	logger   types.Logger
	metrics  types.MetricsCollector

	entries *xsync.Map[string, *entry]
}

// entry holds the cached state for a single clerk.
type entry struct {
	mu        sync.Mutex
	value     *types.Assignment // nil = no assignment held
	fetchedAt time.Time
	valid     bool

	// inFlight counts fetches currently on the wire for this key. The
	// poll path checks it before issuing a new fetch.
	inFlight atomic.Int32
}

// New creates an assignment cache.
//
// Parameters:
//   - fetchFn: Fetch function backed by the remote service
//   - freshFor: Staleness window; cached entries younger than this are
//     served without a network call
//   - clock: Clock used for staleness bookkeeping (inject a fake in tests)
//   - logger: Structured logger
//   - metrics: Metrics collector
//
// Returns:
//   - *AssignmentCache: New cache instance
func New(fetchFn FetchFunc, freshFor time.Duration, clock clockwork.Clock, logger types.Logger, metrics types.MetricsCollector) *AssignmentCache {
	return &AssignmentCache{
		fetchFn:  fetchFn,
		freshFor: freshFor,
		clock:    clock,
		logger:   logger,
		metrics:  metrics,
		entries:  xsync.NewMap[string, *entry](),
	}
}

// entryFor returns the entry for the clerk, creating it if needed.
func (c *AssignmentCache) entryFor(clerkID string) *entry {
	if e, ok := c.entries.Load(clerkID); ok {
		return e
	}

	e, _ := c.entries.LoadOrStore(clerkID, &entry{})

	return e
}

// fresh reports whether the entry may be served without a network call.
// Caller must hold e.mu.
func (c *AssignmentCache) fresh(e *entry) bool {
	return e.valid && c.clock.Since(e.fetchedAt) < c.freshFor
}

// Get returns the cached assignment for the clerk without issuing a network
// call. The second return value is false when the entry is missing, stale or
// invalidated.
func (c *AssignmentCache) Get(clerkID string) (*types.Assignment, bool) {
	e := c.entryFor(clerkID)

	e.mu.Lock()
	defer e.mu.Unlock()

	if !c.fresh(e) {
		return nil, false
	}

	return e.value.Clone(), true
}

// Fetch returns the assignment for the clerk, serving a fresh cached entry
// when possible and going to the service otherwise.
//
// A nil assignment with a nil error means the clerk holds no work item.
func (c *AssignmentCache) Fetch(ctx context.Context, clerkID string) (*types.Assignment, error) {
	e := c.entryFor(clerkID)

	e.mu.Lock()
	if c.fresh(e) {
		value := e.value.Clone()
		e.mu.Unlock()
		c.metrics.RecordAssignmentFetch(fetchResult(value), true)

		return value, nil
	}
	e.mu.Unlock()

	return c.fetchRemote(ctx, clerkID, e)
}

// TryFetch is the poll-path fetch: it always goes to the service but skips
// entirely when a fetch for the same clerk is already in flight.
//
// The second return value reports whether a fetch was actually issued.
func (c *AssignmentCache) TryFetch(ctx context.Context, clerkID string) (*types.Assignment, bool, error) {
	e := c.entryFor(clerkID)

	if e.inFlight.Load() > 0 {
		c.logger.Debug("skipping fetch, another is in flight", "clerk_id", clerkID)

		return nil, false, nil
	}

	value, err := c.fetchRemote(ctx, clerkID, e)

	return value, true, err
}

// Refetch invalidates the entry and immediately fetches the authoritative
// value from the service. Used by mutation settle handlers.
func (c *AssignmentCache) Refetch(ctx context.Context, clerkID string) (*types.Assignment, error) {
	c.Invalidate(clerkID)

	return c.Fetch(ctx, clerkID)
}

// fetchRemote performs the network fetch and replaces the entry on success.
func (c *AssignmentCache) fetchRemote(ctx context.Context, clerkID string, e *entry) (*types.Assignment, error) {
	e.inFlight.Add(1)
	defer e.inFlight.Add(-1)

	value, err := c.fetchFn(ctx, clerkID)
	if err != nil {
		c.metrics.RecordAssignmentFetch("error", false)

		return nil, fmt.Errorf("failed to fetch assignment: %w", err)
	}

	e.mu.Lock()
	e.value = value.Clone()
	e.fetchedAt = c.clock.Now()
	e.valid = true
	e.mu.Unlock()

	c.metrics.RecordAssignmentFetch(fetchResult(value), false)

	return value.Clone(), nil
}

// Replace stores an authoritative assignment value, marking the entry fresh.
// A nil value records authoritative absence.
func (c *AssignmentCache) Replace(clerkID string, value *types.Assignment) {
	e := c.entryFor(clerkID)

	e.mu.Lock()
	defer e.mu.Unlock()

	e.value = value.Clone()
	e.fetchedAt = c.clock.Now()
	e.valid = true
}

// Clear synchronously records absence for the clerk. Used when an outcome is
// submitted, before the network call resolves, so the released work item
// disappears immediately.
func (c *AssignmentCache) Clear(clerkID string) {
	c.Replace(clerkID, nil)
}

// Invalidate marks the entry stale so the next Fetch goes to the service.
// The cached value remains readable until then via InFlight-free TryFetch
// replacement or Replace.
func (c *AssignmentCache) Invalidate(clerkID string) {
	e := c.entryFor(clerkID)

	e.mu.Lock()
	defer e.mu.Unlock()

	e.valid = false
}

// InFlight returns the number of fetches currently on the wire for the clerk.
func (c *AssignmentCache) InFlight(clerkID string) int {
	e := c.entryFor(clerkID)

	return int(e.inFlight.Load())
}

// fetchResult maps a fetch value to its metrics label.
func fetchResult(value *types.Assignment) string {
	if value == nil {
		return "empty"
	}

	return "assigned"
}

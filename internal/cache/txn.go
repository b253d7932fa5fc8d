package cache

import (
	"sync"
	"time"

	"github.com/claimdesk/workplace/types"
)

// Txn is an optimistic transaction over a single clerk's cache entry:
// snapshot → apply → (confirm | rollback).
//
// Begin captures the entry's exact pre-mutation state. Apply mutates the
// cached value in place so the change is visible immediately. Rollback
// restores the snapshot byte-for-byte (value, freshness and timestamp), so a
// failed mutation leaves no trace. Confirm discards the snapshot.
//
// A Txn is single-use: Confirm and Rollback return ErrTxnFinished after the
// first of either has been called.
type Txn struct {
	cache   *AssignmentCache
	clerkID string

	snapshot  *types.Assignment
	snapAt    time.Time
	snapValid bool

	mu       sync.Mutex
	finished bool
}

// Begin starts an optimistic transaction for the clerk, capturing the
// current entry state as the rollback snapshot.
func (c *AssignmentCache) Begin(clerkID string) *Txn {
	e := c.entryFor(clerkID)

	e.mu.Lock()
	defer e.mu.Unlock()

	return &Txn{
		cache:     c,
		clerkID:   clerkID,
		snapshot:  e.value.Clone(),
		snapAt:    e.fetchedAt,
		snapValid: e.valid,
	}
}

// Apply mutates the cached value optimistically. The mutator receives a deep
// copy of the current value (nil when no assignment is held) and returns the
// value to store.
func (t *Txn) Apply(mutate func(current *types.Assignment) *types.Assignment) {
	e := t.cache.entryFor(t.clerkID)

	e.mu.Lock()
	defer e.mu.Unlock()

	e.value = mutate(e.value.Clone())
}

// Confirm keeps the optimistic value and discards the snapshot.
func (t *Txn) Confirm() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.finished {
		return types.ErrTxnFinished
	}
	t.finished = true
	t.snapshot = nil

	return nil
}

// Rollback restores the entry to its exact pre-transaction state.
func (t *Txn) Rollback() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.finished {
		return types.ErrTxnFinished
	}
	t.finished = true

	e := t.cache.entryFor(t.clerkID)

	e.mu.Lock()
	defer e.mu.Unlock()

	e.value = t.snapshot
	e.fetchedAt = t.snapAt
	e.valid = t.snapValid
	t.snapshot = nil

	return nil
}

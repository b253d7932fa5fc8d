// Package cache implements the assignment cache: the single source of truth
// for "does this clerk currently hold a work item, and what does it look
// like".
//
// The cache is keyed by clerk id. Three write paths must commute safely:
//
//   - full replacement from a successful fetch or reconciliation,
//   - optimistic patches taken inside a Txn with a pre-patch snapshot that
//     can be rolled back,
//   - a synchronous Clear to absence when an outcome is submitted, before
//     the network call resolves.
//
// Absence of an assignment is a valid cached value (nil), distinct from an
// invalidated entry: a nil fetch result means "no work available" and is
// never treated as an error.
package cache

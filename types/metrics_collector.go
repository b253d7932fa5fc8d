package types

// MetricsCollector receives operational metrics from the coordinator and its
// internal components.
//
// Implementations must be safe for concurrent use. A no-op implementation is
// used when no collector is configured, so callers never need nil checks.
type MetricsCollector interface {
	// RecordStateTransition records a session state transition.
	RecordStateTransition(from, to State)

	// RecordAssignmentFetch records an assignment fetch attempt.
	// result is one of "assigned", "empty" or "error"; cached indicates the
	// fetch was served from the cache without a network call.
	RecordAssignmentFetch(result string, cached bool)

	// RecordMutation records a user-triggered mutation attempt.
	// op is one of "change_status", "apply_outcome" or "append_comment".
	RecordMutation(op string, success bool, seconds float64)

	// RecordPollTick records a reconciliation poller tick; skipped indicates
	// the tick issued no fetch because one was already in flight.
	RecordPollTick(skipped bool)

	// RecordCooldownStarted records the start (or restart) of a cooldown.
	RecordCooldownStarted()

	// RecordBridgeEvent records a notification bridge event by type.
	RecordBridgeEvent(eventType EventType)
}

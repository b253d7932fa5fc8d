// Package metrics provides types.MetricsCollector implementations.
package metrics

import "github.com/claimdesk/workplace/types"

// NopMetrics implements a no-op metrics collector.
//
// All metrics are discarded. Useful for testing or when external metrics
// collection is used.
type NopMetrics struct{}

// Compile-time assertion that NopMetrics implements MetricsCollector.
var _ types.MetricsCollector = (*NopMetrics)(nil)

// NewNop creates a new no-op metrics collector.
func NewNop() *NopMetrics {
	return &NopMetrics{}
}

// RecordStateTransition discards the state transition metric.
func (n *NopMetrics) RecordStateTransition(_ /* from */, _ /* to */ types.State) {
	// No-op
}

// RecordAssignmentFetch discards the assignment fetch metric.
func (n *NopMetrics) RecordAssignmentFetch(_ /* result */ string, _ /* cached */ bool) {
	// No-op
}

// RecordMutation discards the mutation metric.
func (n *NopMetrics) RecordMutation(_ /* op */ string, _ /* success */ bool, _ /* seconds */ float64) {
	// No-op
}

// RecordPollTick discards the poll tick metric.
func (n *NopMetrics) RecordPollTick(_ /* skipped */ bool) {
	// No-op
}

// RecordCooldownStarted discards the cooldown start metric.
func (n *NopMetrics) RecordCooldownStarted() {
	// No-op
}

// RecordBridgeEvent discards the bridge event metric.
func (n *NopMetrics) RecordBridgeEvent(_ /* eventType */ types.EventType) {
	// No-op
}

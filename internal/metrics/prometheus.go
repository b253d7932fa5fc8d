package metrics

import (
	"errors"
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/claimdesk/workplace/types"
)

// PrometheusCollector implements types.MetricsCollector backed by Prometheus.
//
// Collectors are registered lazily on first use so that constructing the
// collector never panics on duplicate registration in tests.
type PrometheusCollector struct {
	reg       prometheus.Registerer
	namespace string
	once      sync.Once

	stateTransitions *prometheus.CounterVec
	fetches          *prometheus.CounterVec
	mutations        *prometheus.CounterVec
	mutationLatency  *prometheus.HistogramVec
	pollTicks        *prometheus.CounterVec
	cooldownsStarted prometheus.Counter
	bridgeEvents     *prometheus.CounterVec
}

// Compile-time assertion that PrometheusCollector implements MetricsCollector.
var _ types.MetricsCollector = (*PrometheusCollector)(nil)

// NewPrometheus creates a new Prometheus-backed metrics collector.
//
// Parameters:
//   - reg: Prometheus registerer interface (uses prometheus.DefaultRegisterer if nil)
//   - namespace: Prometheus metrics namespace (defaults to "workplace" if empty)
//
// Returns:
//   - *PrometheusCollector: A MetricsCollector implementation using Prometheus
func NewPrometheus(reg prometheus.Registerer, namespace string) *PrometheusCollector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = "workplace"
	}

	return &PrometheusCollector{reg: reg, namespace: namespace}
}

func (p *PrometheusCollector) ensureRegistered() {
	p.once.Do(func() {
		p.stateTransitions = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "session",
			Name:      "state_transitions_total",
			Help:      "Total session state transitions by from/to state.",
		}, []string{"from", "to"})

		p.fetches = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "cache",
			Name:      "assignment_fetches_total",
			Help:      "Total assignment fetch attempts by result and cache hit.",
		}, []string{"result", "cached"})

		p.mutations = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "mutation",
			Name:      "attempts_total",
			Help:      "Total mutation attempts by operation and success.",
		}, []string{"op", "success"})

		p.mutationLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "mutation",
			Name:      "duration_seconds",
			Help:      "Observed mutation round-trip durations in seconds by operation.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		}, []string{"op"})

		p.pollTicks = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "poller",
			Name:      "ticks_total",
			Help:      "Total reconciliation poller ticks by skipped flag.",
		}, []string{"skipped"})

		p.cooldownsStarted = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "cooldown",
			Name:      "started_total",
			Help:      "Total cooldown countdowns started.",
		})

		p.bridgeEvents = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "bridge",
			Name:      "events_total",
			Help:      "Total notification bridge events received by type.",
		}, []string{"type"})

		collectors := []prometheus.Collector{
			p.stateTransitions,
			p.fetches,
			p.mutations,
			p.mutationLatency,
			p.pollTicks,
			p.cooldownsStarted,
			p.bridgeEvents,
		}
		for _, c := range collectors {
			if err := p.reg.Register(c); err != nil {
				var are prometheus.AlreadyRegisteredError
				if !errors.As(err, &are) {
					panic(err)
				}
				// Another collector instance already registered this metric;
				// this instance keeps recording into its own (unexported)
				// copy rather than failing construction.
			}
		}
	})
}

// RecordStateTransition records a session state transition.
func (p *PrometheusCollector) RecordStateTransition(from, to types.State) {
	p.ensureRegistered()
	p.stateTransitions.WithLabelValues(from.String(), to.String()).Inc()
}

// RecordAssignmentFetch records an assignment fetch attempt.
func (p *PrometheusCollector) RecordAssignmentFetch(result string, cached bool) {
	p.ensureRegistered()
	p.fetches.WithLabelValues(result, strconv.FormatBool(cached)).Inc()
}

// RecordMutation records a mutation attempt and its duration.
func (p *PrometheusCollector) RecordMutation(op string, success bool, seconds float64) {
	p.ensureRegistered()
	p.mutations.WithLabelValues(op, strconv.FormatBool(success)).Inc()
	p.mutationLatency.WithLabelValues(op).Observe(seconds)
}

// RecordPollTick records a reconciliation poller tick.
func (p *PrometheusCollector) RecordPollTick(skipped bool) {
	p.ensureRegistered()
	p.pollTicks.WithLabelValues(strconv.FormatBool(skipped)).Inc()
}

// RecordCooldownStarted records the start of a cooldown countdown.
func (p *PrometheusCollector) RecordCooldownStarted() {
	p.ensureRegistered()
	p.cooldownsStarted.Inc()
}

// RecordBridgeEvent records a notification bridge event.
func (p *PrometheusCollector) RecordBridgeEvent(eventType types.EventType) {
	p.ensureRegistered()
	p.bridgeEvents.WithLabelValues(eventType.String()).Inc()
}

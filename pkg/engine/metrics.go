package engine

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the prometheus collectors for engine observability. A nil
// *Metrics is valid and records nothing, so the engine works without a
// registry.
type Metrics struct {
	runsTotal     prometheus.Counter
	nodesStarted  *prometheus.CounterVec
	nodesFailed   *prometheus.CounterVec
	nodeDurations *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		runsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "loom",
			Name:      "runs_total",
			Help:      "Number of workflow runs started.",
		}),
		nodesStarted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "loom",
			Name:      "nodes_started_total",
			Help:      "Number of node executions started, by node type.",
		}, []string{"type"}),
		nodesFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "loom",
			Name:      "nodes_failed_total",
			Help:      "Number of node executions that ended in error, by node type.",
		}, []string{"type"}),
		nodeDurations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "loom",
			Name:      "node_duration_seconds",
			Help:      "Node execution duration, by node type.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"type"}),
	}
	reg.MustRegister(m.runsTotal, m.nodesStarted, m.nodesFailed, m.nodeDurations)
	return m
}

func (m *Metrics) recordRun() {
	if m == nil {
		return
	}
	m.runsTotal.Inc()
}

func (m *Metrics) recordStart(kind string) {
	if m == nil {
		return
	}
	m.nodesStarted.WithLabelValues(kind).Inc()
}

func (m *Metrics) recordFailure(kind string) {
	if m == nil {
		return
	}
	m.nodesFailed.WithLabelValues(kind).Inc()
}

func (m *Metrics) recordDuration(kind string, d time.Duration) {
	if m == nil {
		return
	}
	m.nodeDurations.WithLabelValues(kind).Observe(d.Seconds())
}

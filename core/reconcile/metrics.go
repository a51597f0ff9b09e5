package reconcile

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records reconcile outcomes. A nil *Metrics is valid and records nothing.
type Metrics struct {
	records  *prometheus.CounterVec
	batches  *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics creates the reconcile collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		records: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "contest_sync",
			Subsystem: "reconcile",
			Name:      "records_total",
			Help:      "Reconciled records by outcome",
		}, []string{"adapter", "outcome"}),
		batches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "contest_sync",
			Subsystem: "reconcile",
			Name:      "batches_total",
			Help:      "Reconciled batches by result",
		}, []string{"adapter", "result"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "contest_sync",
			Subsystem: "reconcile",
			Name:      "batch_duration_seconds",
			Help:      "Time spent reconciling one batch",
			Buckets:   prometheus.DefBuckets,
		}, []string{"adapter"}),
	}
	reg.MustRegister(m.records, m.batches, m.duration)
	return m
}

func (m *Metrics) countRecords(adapter, outcome string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.records.WithLabelValues(adapter, outcome).Add(float64(n))
}

func (m *Metrics) observeBatch(adapter, result string, d time.Duration) {
	if m == nil {
		return
	}
	m.batches.WithLabelValues(adapter, result).Inc()
	m.duration.WithLabelValues(adapter).Observe(d.Seconds())
}

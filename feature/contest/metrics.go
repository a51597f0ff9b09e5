package contest

import "github.com/prometheus/client_golang/prometheus"

// Metrics records fetch and normalization outcomes. A nil *Metrics records nothing.
type Metrics struct {
	fetched     *prometheus.CounterVec
	dropped     *prometheus.CounterVec
	fetchErrors *prometheus.CounterVec
}

// NewMetrics creates the sync collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		fetched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "contest_sync",
			Subsystem: "upstream",
			Name:      "fetched_records_total",
			Help:      "Raw records fetched per provider",
		}, []string{"provider"}),
		dropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "contest_sync",
			Subsystem: "upstream",
			Name:      "dropped_records_total",
			Help:      "Raw records dropped by normalization per provider",
		}, []string{"provider"}),
		fetchErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "contest_sync",
			Subsystem: "upstream",
			Name:      "fetch_errors_total",
			Help:      "Failed provider fetches",
		}, []string{"provider"}),
	}
	reg.MustRegister(m.fetched, m.dropped, m.fetchErrors)
	return m
}

func (m *Metrics) countRecords(provider string, fetched, dropped int) {
	if m == nil {
		return
	}
	m.fetched.WithLabelValues(provider).Add(float64(fetched))
	m.dropped.WithLabelValues(provider).Add(float64(dropped))
}

func (m *Metrics) fetchFailed(provider string) {
	if m == nil {
		return
	}
	m.fetchErrors.WithLabelValues(provider).Inc()
}

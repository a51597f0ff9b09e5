package scheduler

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records cycle executions. A nil *Metrics is valid and records nothing.
type Metrics struct {
	runs        *prometheus.CounterVec
	skips       *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	running     *prometheus.GaugeVec
	lastSuccess *prometheus.GaugeVec
}

// NewMetrics creates the scheduler collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "contest_sync",
			Subsystem: "scheduler",
			Name:      "runs_total",
			Help:      "Cycle runs by result (ok, error, panic)",
		}, []string{"cycle", "result"}),
		skips: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "contest_sync",
			Subsystem: "scheduler",
			Name:      "skipped_ticks_total",
			Help:      "Ticks skipped because the previous run was still in progress",
		}, []string{"cycle"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "contest_sync",
			Subsystem: "scheduler",
			Name:      "run_duration_seconds",
			Help:      "Time spent in one cycle run",
			Buckets:   []float64{0.1, 0.5, 1, 5, 15, 30, 60, 120, 300},
		}, []string{"cycle"}),
		running: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "contest_sync",
			Subsystem: "scheduler",
			Name:      "running",
			Help:      "1 while a cycle run is in progress",
		}, []string{"cycle"}),
		lastSuccess: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "contest_sync",
			Subsystem: "scheduler",
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix timestamp of the last successful run",
		}, []string{"cycle"}),
	}
	reg.MustRegister(m.runs, m.skips, m.duration, m.running, m.lastSuccess)
	return m
}

func (m *Metrics) observeRun(cycle, result string, d time.Duration) {
	if m == nil {
		return
	}
	m.runs.WithLabelValues(cycle, result).Inc()
	m.duration.WithLabelValues(cycle).Observe(d.Seconds())
	if result == "ok" {
		m.lastSuccess.WithLabelValues(cycle).SetToCurrentTime()
	}
}

func (m *Metrics) skipped(cycle string) {
	if m == nil {
		return
	}
	m.skips.WithLabelValues(cycle).Inc()
}

func (m *Metrics) setRunning(cycle string, running bool) {
	if m == nil {
		return
	}
	v := 0.0
	if running {
		v = 1
	}
	m.running.WithLabelValues(cycle).Set(v)
}

// Package metrics holds the prometheus collectors a scan reports into.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "activity_scan"

// Scan holds all collectors for one scanner process
type Scan struct {
	Outcomes      *prometheus.CounterVec
	FetchDuration prometheus.Histogram
	InFlight      prometheus.Gauge
}

// NewScan creates the collectors and registers them with reg.
// A nil reg leaves them unregistered, which tests rely on.
func NewScan(reg prometheus.Registerer) *Scan {
	m := &Scan{
		Outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "outcomes_total",
			Help:      "Number of activity IDs attempted, by outcome.",
		}, []string{"outcome"}), // included, excluded, fetch_failed
		FetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fetch_duration_seconds",
			Help:      "Duration of activity page fetches.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		InFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "tasks_in_flight",
			Help:      "Number of fetch tasks currently running.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.Outcomes, m.FetchDuration, m.InFlight)
	}
	return m
}

// RecordOutcome counts one finished task
func (m *Scan) RecordOutcome(outcome string) {
	if m == nil {
		return
	}
	m.Outcomes.WithLabelValues(outcome).Inc()
}

// ObserveFetch records how long a fetch took
func (m *Scan) ObserveFetch(d time.Duration) {
	if m == nil {
		return
	}
	m.FetchDuration.Observe(d.Seconds())
}

// TaskStarted increments the in-flight gauge
func (m *Scan) TaskStarted() {
	if m == nil {
		return
	}
	m.InFlight.Inc()
}

// TaskDone decrements the in-flight gauge
func (m *Scan) TaskDone() {
	if m == nil {
		return
	}
	m.InFlight.Dec()
}

// Handler exposes the collectors gathered by g in the prometheus text format
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

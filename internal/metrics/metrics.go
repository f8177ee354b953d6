// Package metrics exposes recorded timing measurements as Prometheus
// gauges so dashboards can graph build performance over time.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bdbaddog/scons-time/internal/history"
)

// Metrics is the collection of exported measurements.
type Metrics struct {
	Measurement *prometheus.GaugeVec
	RunsTotal   *prometheus.CounterVec
	LastRun     *prometheus.GaugeVec

	registry *prometheus.Registry
}

// New creates and registers the metric set on its own registry, so
// repeated construction in one process does not collide.
func New() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.Measurement = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "scons_time_measurement",
			Help: "Latest value of one timing measurement",
		},
		[]string{"project", "scenario", "graph", "name", "units"},
	)

	m.RunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scons_time_runs_total",
			Help: "Number of timing runs exported",
		},
		[]string{"project", "scenario"},
	)

	m.LastRun = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "scons_time_last_run_timestamp_seconds",
			Help: "Start time of the most recent exported run",
		},
		[]string{"project", "scenario"},
	)

	m.registry.MustRegister(m.Measurement, m.RunsTotal, m.LastRun)
	return m
}

// Record exports one timing run.
func (m *Metrics) Record(run history.TimingRun) {
	m.RunsTotal.WithLabelValues(run.Project, run.Scenario).Inc()
	m.LastRun.WithLabelValues(run.Project, run.Scenario).Set(float64(run.StartedAt.Unix()))
	for _, measure := range run.Measures {
		m.Measurement.WithLabelValues(run.Project, run.Scenario, measure.Graph, measure.Name, measure.Units).
			Set(measure.Value)
	}
}

// Handler returns the /metrics HTTP handler for this metric set.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

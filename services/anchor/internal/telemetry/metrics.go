// Package telemetry holds the Prometheus collectors and tracer shared by the
// connection registry and the execution engine.
package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "driverhub"

// Metrics groups the collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	Statements       *prometheus.CounterVec
	StatementSeconds *prometheus.HistogramVec
	ConnectAttempts  *prometheus.CounterVec
	OpenConnections  prometheus.Gauge
	ScopesLoaded     prometheus.Gauge
}

// NewMetrics creates the collectors and registers them with reg. A nil reg
// leaves them unregistered, which is what tests usually want.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Statements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "statements_total",
			Help:      "SQL statements executed, by engine, statement kind and outcome.",
		}, []string{"engine", "kind", "outcome"}),
		StatementSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "statement_duration_seconds",
			Help:      "Wall time spent executing SQL statements.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
		}, []string{"engine", "kind"}),
		ConnectAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "connect_attempts_total",
			Help:      "Physical connection attempts, by engine and outcome.",
		}, []string{"engine", "outcome"}),
		OpenConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "open_connections",
			Help:      "Connections currently held by the registry.",
		}),
		ScopesLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "driver_scopes_loaded",
			Help:      "Driver library scopes loaded into the process.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.Statements, m.StatementSeconds, m.ConnectAttempts, m.OpenConnections, m.ScopesLoaded)
	}
	return m
}

// ObserveStatement records one execution.
func (m *Metrics) ObserveStatement(engine, kind string, success bool, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.Statements.WithLabelValues(engine, kind, outcome(success)).Inc()
	m.StatementSeconds.WithLabelValues(engine, kind).Observe(elapsed.Seconds())
}

// ObserveConnect records one physical connection attempt.
func (m *Metrics) ObserveConnect(engine string, success bool) {
	if m == nil {
		return
	}
	m.ConnectAttempts.WithLabelValues(engine, outcome(success)).Inc()
}

// SetOpenConnections publishes the registry size.
func (m *Metrics) SetOpenConnections(n int) {
	if m == nil {
		return
	}
	m.OpenConnections.Set(float64(n))
}

// SetScopesLoaded publishes the number of loaded driver scopes.
func (m *Metrics) SetScopesLoaded(n int) {
	if m == nil {
		return
	}
	m.ScopesLoaded.Set(float64(n))
}

func outcome(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}

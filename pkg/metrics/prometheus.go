// Package metrics exposes Prometheus metrics for the trade-in estimator.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	namespace = "tradein"

	OutcomeSuccess    = "success"
	OutcomeValidation = "validation_error"
	OutcomeMalformed  = "malformed_response"
	OutcomeUpstream   = "upstream_error"
)

// Manager owns the registry and every collector. A nil *Manager is valid and
// records nothing.
type Manager struct {
	registry *prometheus.Registry

	estimates         *prometheus.CounterVec
	chatTurns         *prometheus.CounterVec
	upstreamLatency   *prometheus.HistogramVec
	historicalRecords prometheus.Gauge
	appraisals        prometheus.Counter
}

func New() *Manager {
	reg := prometheus.NewRegistry()
	auto := promauto.With(reg)

	return &Manager{
		registry: reg,
		estimates: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "estimates_total",
			Help:      "Estimate submissions by outcome",
		}, []string{"outcome"}),
		chatTurns: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chat_turns_total",
			Help:      "Chat turns by outcome",
		}, []string{"outcome"}),
		upstreamLatency: auto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_latency_seconds",
			Help:      "Latency of generative model calls",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 40, 80},
		}, []string{"operation"}),
		historicalRecords: auto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "historical_records",
			Help:      "Historical trade-in records loaded",
		}),
		appraisals: auto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "appraisal_requests_total",
			Help:      "In-person appraisal requests received",
		}),
	}
}

func (m *Manager) RecordEstimate(outcome string) {
	if m == nil {
		return
	}
	m.estimates.WithLabelValues(outcome).Inc()
}

func (m *Manager) RecordChatTurn(outcome string) {
	if m == nil {
		return
	}
	m.chatTurns.WithLabelValues(outcome).Inc()
}

func (m *Manager) ObserveUpstream(operation string, d time.Duration) {
	if m == nil {
		return
	}
	m.upstreamLatency.WithLabelValues(operation).Observe(d.Seconds())
}

func (m *Manager) SetHistoricalRecords(n int) {
	if m == nil {
		return
	}
	m.historicalRecords.Set(float64(n))
}

func (m *Manager) RecordAppraisal() {
	if m == nil {
		return
	}
	m.appraisals.Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *Manager) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry is exposed for tests.
func (m *Manager) Registry() *prometheus.Registry {
	return m.registry
}

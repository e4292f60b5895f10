// Package metrics exposes Prometheus counters for scans, token checks and
// HTTP requests.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/foylaou/ExpoPass-sub000/internal/domain"
)

type Metrics struct {
	scans         *prometheus.CounterVec
	verifications *prometheus.CounterVec
	requests      *prometheus.HistogramVec
}

// New registers the collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		scans: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "expopass_scans_total",
				Help: "Scan attempts by outcome",
			},
			[]string{"outcome"},
		),
		verifications: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "expopass_token_verifications_total",
				Help: "Token verifications by resolved kind and validity",
			},
			[]string{"kind", "valid"},
		),
		requests: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "expopass_http_request_duration_seconds",
				Help:    "HTTP request latency",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "status"},
		),
	}
}

func (m *Metrics) ObserveScan(outcome string) {
	m.scans.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveVerification(kind domain.TokenKind, valid bool) {
	label := string(kind)
	if label == "" {
		label = "none"
	}
	m.verifications.WithLabelValues(label, strconv.FormatBool(valid)).Inc()
}

func (m *Metrics) ObserveRequest(method string, status int, d time.Duration) {
	m.requests.WithLabelValues(method, strconv.Itoa(status)).Observe(d.Seconds())
}

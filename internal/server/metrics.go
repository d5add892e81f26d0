package server

import (
	"github.com/iwvelando/donation-impact/pkg/constants"
	"github.com/iwvelando/donation-impact/pkg/currency"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeOK       = "ok"
	outcomeRejected = "rejected"
	outcomeError    = "error"
)

type metrics struct {
	estimates       *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

func newMetrics(registry *prometheus.Registry) *metrics {
	factory := promauto.With(registry)
	return &metrics{
		estimates: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: constants.MetricsNamespace,
				Name:      "estimates_total",
				Help:      "Estimates requested, by currency and outcome (ok, rejected, error)",
			},
			[]string{"currency", "outcome"},
		),
		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: constants.MetricsNamespace,
				Name:      "request_duration_seconds",
				Help:      "HTTP request latency by route",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"route"},
		),
	}
}

// observeEstimate counts one estimate. Unsupported currencies share a label
// so arbitrary client input cannot grow the series count.
func (m *metrics) observeEstimate(code currency.Code, outcome string) {
	label := "other"
	if code.Valid() {
		label = code.String()
	}
	m.estimates.WithLabelValues(label, outcome).Inc()
}

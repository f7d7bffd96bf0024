package client

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type clientMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	inflight prometheus.Gauge
}

// newClientMetrics builds the collectors; a nil reg leaves them unregistered
// so several clients can coexist in one process.
func newClientMetrics(reg prometheus.Registerer) *clientMetrics {
	factory := promauto.With(reg)
	return &clientMetrics{
		requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "exam_client",
				Name:      "requests_total",
				Help:      "API requests by method and resulting status code (0 = network, 408 = timeout).",
			},
			[]string{"method", "code"},
		),
		duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "exam_client",
				Name:      "request_duration_seconds",
				Help:      "Wall-clock duration of API requests.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method"},
		),
		inflight: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "exam_client",
				Name:      "inflight_requests",
				Help:      "Requests currently holding a deadline.",
			},
		),
	}
}

func (m *clientMetrics) observe(method string, code int, elapsed time.Duration) {
	m.requests.WithLabelValues(method, strconv.Itoa(code)).Inc()
	m.duration.WithLabelValues(method).Observe(elapsed.Seconds())
}

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// FeedRequestsTotal counts /api/feed responses by outcome.
	FeedRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mozimo",
			Subsystem: "feed",
			Name:      "requests_total",
			Help:      "Total number of feed proxy requests",
		},
		[]string{"outcome"},
	)

	UpstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mozimo",
			Subsystem: "instagram",
			Name:      "requests_total",
			Help:      "Total number of Instagram Graph API requests",
		},
		[]string{"operation", "status"},
	)

	UpstreamRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "mozimo",
			Subsystem: "instagram",
			Name:      "request_duration_seconds",
			Help:      "Instagram Graph API request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		},
		[]string{"operation"},
	)

	// CredentialValid is 1 while the last monitor probe accepted the access token.
	CredentialValid = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "mozimo",
			Subsystem: "instagram",
			Name:      "credential_valid",
			Help:      "Whether the Instagram access token passed the last probe",
		},
	)

	RateLimitedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "mozimo",
			Subsystem: "http",
			Name:      "rate_limited_total",
			Help:      "Requests rejected by the rate limiter",
		},
	)
)

func ObserveUpstream(operation, status string, elapsed time.Duration) {
	UpstreamRequestsTotal.WithLabelValues(operation, status).Inc()
	UpstreamRequestDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

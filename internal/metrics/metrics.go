package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Purge attempts by terminal outcome.
	PurgeOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cdn_purge_outcomes_total",
			Help: "Total purge attempts by outcome",
		},
		[]string{"outcome", "trigger"},
	)

	// CDN purge call latency in seconds.
	CDNRequestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cdn_purge_request_duration_seconds",
			Help:    "Cloudflare purge request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12), // 10ms to ~40s
		},
	)

	// Admin notifications by disposition.
	Notifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "purge_notifications_total",
			Help: "Total admin notification decisions by disposition",
		},
		[]string{"disposition"}, // disposition: sent, suppressed, disabled, send_error
	)
)

// RecordPurgeOutcome increments the purge outcome counter.
func RecordPurgeOutcome(outcome, trigger string) {
	PurgeOutcomes.WithLabelValues(outcome, trigger).Inc()
}

// ObserveCDNRequest records one purge call's duration.
func ObserveCDNRequest(duration time.Duration) {
	CDNRequestDuration.Observe(duration.Seconds())
}

// RecordNotification increments the notification disposition counter.
func RecordNotification(disposition string) {
	Notifications.WithLabelValues(disposition).Inc()
}

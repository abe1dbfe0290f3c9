// Package metrics provides Prometheus metrics for the mesh gopher server.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Command metrics
	commandsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "meshgopher_commands_total",
			Help: "Total inbound commands processed, by command kind",
		},
		[]string{"kind"},
	)

	handleDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "meshgopher_handle_duration_seconds",
			Help:    "Inbound message handling duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Delivery metrics
	pagesSentTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "meshgopher_pages_sent_total",
			Help: "Total pages acknowledged by remote nodes",
		},
	)

	sendRetriesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "meshgopher_send_retries_total",
			Help: "Total page send retries after ack timeout",
		},
	)

	sendFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "meshgopher_send_failures_total",
			Help: "Total pages abandoned after exhausting send attempts",
		},
	)

	// Session metrics
	activeSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "meshgopher_active_sessions",
			Help: "Number of live node sessions",
		},
	)

	sessionsSweptTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "meshgopher_sessions_swept_total",
			Help: "Total sessions removed by the idle sweeper",
		},
	)
)

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordCommand records a processed command and its handling duration.
func RecordCommand(kind string, duration time.Duration) {
	commandsTotal.WithLabelValues(kind).Inc()
	handleDuration.Observe(duration.Seconds())
}

// RecordPageSent records a page acknowledged by the remote node.
func RecordPageSent() {
	pagesSentTotal.Inc()
}

// RecordSendRetry records a page resend after an ack timeout.
func RecordSendRetry() {
	sendRetriesTotal.Inc()
}

// RecordSendFailure records a page abandoned after exhausting attempts.
func RecordSendFailure() {
	sendFailuresTotal.Inc()
}

// SetActiveSessions updates the live session gauge.
func SetActiveSessions(n int) {
	activeSessions.Set(float64(n))
}

// AddSessionsSwept records sessions removed by the idle sweeper.
func AddSessionsSwept(n int) {
	sessionsSweptTotal.Add(float64(n))
}

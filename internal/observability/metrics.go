package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	framesSent = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "edgecam",
			Subsystem: "session",
			Name:      "frames_sent_total",
			Help:      "Frame envelopes sent to the controller.",
		},
	)
	telemetrySent = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "edgecam",
			Subsystem: "session",
			Name:      "telemetry_sent_total",
			Help:      "Telemetry envelopes sent to the controller.",
		},
	)
	keepalivePings = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "edgecam",
			Subsystem: "session",
			Name:      "keepalive_pings_total",
			Help:      "Keepalive ping envelopes sent to the controller.",
		},
	)
	inboundMessages = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "edgecam",
			Subsystem: "session",
			Name:      "inbound_messages_total",
			Help:      "Inbound envelopes received, by type.",
		},
		[]string{"type"},
	)
	decodeFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "edgecam",
			Subsystem: "session",
			Name:      "decode_failures_total",
			Help:      "Inbound payloads discarded as malformed.",
		},
	)
	reconnectAttempts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "edgecam",
			Subsystem: "reconnect",
			Name:      "attempts_total",
			Help:      "Connection attempts made by the reconnection controller.",
		},
	)
	sessionsEnded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "edgecam",
			Subsystem: "session",
			Name:      "ended_total",
			Help:      "Sessions ended, by the task that ended them.",
		},
		[]string{"task"},
	)
	sessionDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "edgecam",
			Subsystem: "session",
			Name:      "duration_seconds",
			Help:      "Lifetime of established sessions in seconds.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		},
	)
	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "edgecam",
			Subsystem: "ops",
			Name:      "requests_total",
			Help:      "Total ops endpoint HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			framesSent,
			telemetrySent,
			keepalivePings,
			inboundMessages,
			decodeFailures,
			reconnectAttempts,
			sessionsEnded,
			sessionDuration,
			httpRequests,
		)
	})
}

func RecordFrameSent() {
	RegisterMetrics()
	framesSent.Inc()
}

func RecordTelemetrySent() {
	RegisterMetrics()
	telemetrySent.Inc()
}

func RecordKeepalivePing() {
	RegisterMetrics()
	keepalivePings.Inc()
}

func RecordInbound(messageType string) {
	RegisterMetrics()
	inboundMessages.WithLabelValues(messageType).Inc()
}

func RecordDecodeFailure() {
	RegisterMetrics()
	decodeFailures.Inc()
}

func RecordReconnectAttempt() {
	RegisterMetrics()
	reconnectAttempts.Inc()
}

func RecordSessionEnded(task string, lifetime time.Duration) {
	RegisterMetrics()
	sessionsEnded.WithLabelValues(task).Inc()
	if lifetime > 0 {
		sessionDuration.Observe(lifetime.Seconds())
	}
}

func RecordHTTPRequest(method, path string, status int) {
	RegisterMetrics()
	httpRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
}

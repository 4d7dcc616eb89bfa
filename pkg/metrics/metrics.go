// Package metrics provides Prometheus metrics instrumentation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestDuration tracks HTTP request duration.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	// RequestsTotal tracks total HTTP requests.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// CommandsTotal counts chat store commands by outcome (applied or noop).
	CommandsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chatstore_commands_total",
			Help: "Chat store commands by name and outcome",
		},
		[]string{"command", "outcome"},
	)

	// ChatroomsActive is the number of rooms currently held by the store.
	ChatroomsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "chatstore_chatrooms",
			Help: "Number of chat rooms in the store",
		},
	)

	// MessagesTotal tracks total messages appended, by sender.
	MessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messages_total",
			Help: "Total messages appended",
		},
		[]string{"sender"},
	)

	// StorageOpsTotal counts persistence gateway operations.
	StorageOpsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storage_operations_total",
			Help: "Persistence gateway operations by backend, op and result",
		},
		[]string{"backend", "op", "result"},
	)

	// StorageWriteBytes tracks the size of full-collection writes.
	StorageWriteBytes = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "storage_write_bytes",
			Help:    "Size of values written through the persistence gateway",
			Buckets: prometheus.ExponentialBuckets(256, 4, 8),
		},
		[]string{"backend", "key"},
	)

	// RepliesPending tracks scheduled assistant replies that have not fired.
	RepliesPending = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "responder_replies_pending",
			Help: "Scheduled assistant replies waiting to fire",
		},
	)

	// RepliesTotal counts scheduled replies by outcome (fired, cancelled, dropped).
	RepliesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "responder_replies_total",
			Help: "Scheduled assistant replies by outcome",
		},
		[]string{"outcome"},
	)

	// SSEConnectionsActive tracks active SSE connections.
	SSEConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sse_connections_active",
			Help: "Number of active SSE connections",
		},
	)

	// LoginsTotal counts login flow steps by result.
	LoginsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_login_steps_total",
			Help: "OTP login steps by step and result",
		},
		[]string{"step", "result"},
	)
)

// RecordRequest records metrics for an HTTP request.
func RecordRequest(method, path, status string, duration float64) {
	RequestDuration.WithLabelValues(method, path, status).Observe(duration)
	RequestsTotal.WithLabelValues(method, path, status).Inc()
}

// RecordCommand records a chat store command outcome.
func RecordCommand(command string, applied bool) {
	outcome := "noop"
	if applied {
		outcome = "applied"
	}
	CommandsTotal.WithLabelValues(command, outcome).Inc()
}

// RecordStorageOp records a persistence gateway operation.
func RecordStorageOp(backend, op, result string) {
	StorageOpsTotal.WithLabelValues(backend, op, result).Inc()
}

// IncrementSSEConnections increments the active SSE connection count.
func IncrementSSEConnections() {
	SSEConnectionsActive.Inc()
}

// DecrementSSEConnections decrements the active SSE connection count.
func DecrementSSEConnections() {
	SSEConnectionsActive.Dec()
}

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "insync_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "route", "status"},
	)

	RemindersProcessed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "insync_reminders_processed_total",
			Help: "Reminders dispatched and deleted by the sweep",
		},
	)

	ReminderMessages = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "insync_reminder_messages_total",
			Help: "Messages handed to the WhatsApp gateway",
		},
		[]string{"status"}, // status: sent, failed
	)

	BlobOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "insync_blob_operations_total",
			Help: "Object storage uploads and deletes",
		},
		[]string{"operation", "status"},
	)
)

func RecordHTTPRequestDuration(method, route, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, route, status).Observe(duration.Seconds())
}

func IncrementRemindersProcessed() {
	RemindersProcessed.Inc()
}

func IncrementReminderMessage(status string) {
	ReminderMessages.WithLabelValues(status).Inc()
}

func IncrementBlobOperation(operation string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	BlobOperations.WithLabelValues(operation, status).Inc()
}

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	turnsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "synthmind_chat_turns_total",
		Help: "Total number of submitted prompts by outcome",
	}, []string{"outcome"})

	modelRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "synthmind_model_request_duration_seconds",
		Help:    "Duration of language model requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"model", "status"})

	storageOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "synthmind_storage_operations_total",
		Help: "Total number of persistence gateway operations",
	}, []string{"operation", "status"})

	storageOperationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "synthmind_storage_operation_duration_seconds",
		Help:    "Duration of persistence gateway operations",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})

	authAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "synthmind_auth_attempts_total",
		Help: "Login and registration attempts by result",
	}, []string{"action", "result"})

	activityEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "synthmind_activity_events_total",
		Help: "Activity events consumed from the event bus",
	}, []string{"type"})

	activeConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "synthmind_websocket_connections",
		Help: "Number of open chat websocket connections",
	})
)

// Outcome labels for RecordTurn.
const (
	TurnCompleted = "completed"
	TurnBlocked   = "blocked"
	TurnModelFail = "model_error"
)

func RecordTurn(outcome string) {
	turnsTotal.WithLabelValues(outcome).Inc()
}

func RecordModelRequest(model string, err error, duration time.Duration) {
	modelRequestDuration.WithLabelValues(model, statusLabel(err)).Observe(duration.Seconds())
}

func RecordStorageOperation(operation string, err error, duration time.Duration) {
	storageOperations.WithLabelValues(operation, statusLabel(err)).Inc()
	storageOperationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

func RecordAuthAttempt(action, result string) {
	authAttempts.WithLabelValues(action, result).Inc()
}

func RecordActivity(eventType string) {
	activityEvents.WithLabelValues(eventType).Inc()
}

func ConnectionOpened() { activeConnections.Inc() }
func ConnectionClosed() { activeConnections.Dec() }

func statusLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

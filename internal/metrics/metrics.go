// Barfani - Glacier Lake Outburst Flood Monitoring and Early Warning
// Copyright 2026 Barfani Project Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/project-barfani/barfani

// Package metrics defines the Prometheus instrumentation for Barfani:
// ingestion throughput, alert decisions, notification deliveries, archive
// query performance, and WebSocket fan-out.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Ingestion metrics
	ReadingsIngested = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "barfani_readings_ingested_total",
			Help: "Total sensor readings accepted, by node",
		},
		[]string{"node_id"},
	)

	ReadingsRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "barfani_readings_rejected_total",
			Help: "Total sensor readings rejected during validation",
		},
		[]string{"reason"},
	)

	IngestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "barfani_ingest_duration_seconds",
			Help:    "Time from reading arrival to alert decision",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Alerting metrics
	AlertsRaised = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "barfani_alerts_raised_total",
			Help: "Total alerts that crossed the notification bar",
		},
		[]string{"node_id", "severity"},
	)

	AlertScore = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "barfani_alert_score",
			Help:    "Distribution of threshold scores for evaluated readings",
			Buckets: []float64{0, 20, 30, 40, 65, 70, 100, 140},
		},
		[]string{"node_id"},
	)

	// Notification metrics
	NotificationsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "barfani_notifications_total",
			Help: "Notification attempts by language and outcome",
		},
		[]string{"language", "status"},
	)

	NotificationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "barfani_notification_duration_seconds",
			Help:    "SMTP delivery latency by language",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"language"},
	)

	// Circuit breaker metrics (SMTP)
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "barfani_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "barfani_circuit_breaker_transitions_total",
			Help: "Circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	// Archive metrics (DuckDB)
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "barfani_db_query_duration_seconds",
			Help:    "Duration of archive queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "barfani_db_query_errors_total",
			Help: "Total archive query errors",
		},
		[]string{"operation", "table"},
	)

	// API metrics
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "barfani_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "barfani_http_requests_in_flight",
			Help: "HTTP requests currently being served",
		},
	)

	// WebSocket metrics
	WSConnectedClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "barfani_websocket_clients",
			Help: "Currently connected WebSocket clients",
		},
	)

	WSMessagesSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "barfani_websocket_messages_total",
			Help: "WebSocket messages broadcast, by message type",
		},
		[]string{"type"},
	)

	WSMessagesDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "barfani_websocket_messages_dropped_total",
			Help: "Broadcasts dropped because a client buffer was full",
		},
	)

	// Auth metrics
	AuthAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "barfani_auth_attempts_total",
			Help: "Authentication attempts by outcome",
		},
		[]string{"outcome"},
	)
)

// ObserveHTTPRequest records one served request.
func ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, path, strconv.Itoa(status)).Observe(duration.Seconds())
}

// ObserveDBQuery records one archive query, counting the error if any.
func ObserveDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		DBQueryErrors.WithLabelValues(operation, table).Inc()
	}
}

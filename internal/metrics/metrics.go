// Playforge - Gamified Community Platform
// Copyright 2026 Playforge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/playforge/playforge

// Package metrics provides Prometheus instrumentation for:
//   - Database query performance (DuckDB)
//   - API endpoint latency and throughput
//   - Cache efficiency and tag invalidations
//   - Reward settlements and game rounds
//   - Telegram delivery and WebSocket broadcast
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Database Metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "duckdb_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duckdb_query_errors_total",
			Help: "Total number of DuckDB query errors",
		},
		[]string{"operation", "table"},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Cache Metrics
	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
	)

	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
	)

	CacheEvictions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cache_evictions_total",
			Help: "Total number of cache evictions (TTL expiry)",
		},
	)

	CacheSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cache_entries",
			Help: "Current number of cached entries",
		},
	)

	CacheInvalidations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_tag_invalidations_total",
			Help: "Total number of tag invalidations",
		},
		[]string{"tag"},
	)

	CacheKeysInvalidated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_keys_invalidated_total",
			Help: "Total number of keys removed by tag invalidation",
		},
		[]string{"tag"},
	)

	// Reward Metrics
	RewardSettlements = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reward_settlements_total",
			Help: "Total number of reward mutations settled",
		},
		[]string{"reason", "result"}, // result: "success", "rejected", "error"
	)

	RewardPointsDelta = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reward_points_delta_total",
			Help: "Sum of absolute point deltas applied",
		},
		[]string{"reason", "direction"}, // direction: "credit", "debit"
	)

	// Wheel Metrics
	WheelSpins = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wheel_spins_total",
			Help: "Total number of wheel spins",
		},
		[]string{"result"}, // "win", "no_spins_left", "error"
	)

	// Shop Metrics
	ShopPurchases = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shop_purchases_total",
			Help: "Total number of shop purchase attempts",
		},
		[]string{"result"}, // "success", "insufficient_points", "out_of_stock", "limit_reached", "error"
	)

	// Game Metrics
	GameRounds = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "game_rounds_total",
			Help: "Total number of mini-game rounds",
		},
		[]string{"game", "result"}, // result: "win", "lose", "push", "expired"
	)

	GameRoundDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "game_round_duration_seconds",
			Help:    "Duration of mini-game round settlement in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"game"},
	)

	// Telegram Metrics
	TelegramUpdates = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "telegram_updates_total",
			Help: "Total number of Telegram webhook updates received",
		},
		[]string{"type"}, // "message", "callback_query", "other"
	)

	TelegramSends = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "telegram_sends_total",
			Help: "Total number of outbound Telegram API calls",
		},
		[]string{"method", "result"}, // result: "success", "failure", "rejected"
	)

	TelegramSendDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "telegram_send_duration_seconds",
			Help:    "Duration of outbound Telegram API calls",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Broadcast Metrics
	BroadcastsSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "broadcasts_sent_total",
			Help: "Total number of admin broadcasts dispatched",
		},
	)

	BroadcastRecipients = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "broadcast_recipients",
			Help:    "Number of recipients per broadcast",
			Buckets: []float64{1, 10, 50, 100, 500, 1000, 5000, 10000},
		},
	)

	// WebSocket Metrics
	WSConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "websocket_connections",
			Help: "Current number of active WebSocket connections",
		},
	)

	WSMessagesSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_messages_sent_total",
			Help: "Total number of WebSocket messages sent",
		},
	)

	WSErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "websocket_errors_total",
			Help: "Total number of WebSocket errors",
		},
		[]string{"error_type"},
	)

	// Event Bus Metrics
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_published_total",
			Help: "Total number of events published to the bus",
		},
		[]string{"topic"},
	)

	EventsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_processed_total",
			Help: "Total number of events handled by subscribers",
		},
		[]string{"topic", "result"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	// Revalidation Metrics
	RevalidateRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "revalidate_requests_total",
			Help: "Total number of frontend revalidation hook calls",
		},
		[]string{"result"}, // "success", "failure", "rejected", "disabled"
	)

	// System Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)

	AppUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "app_uptime_seconds",
			Help: "Application uptime in seconds",
		},
	)
)

// RecordDBQuery records a database query metric.
func RecordDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		DBQueryErrors.WithLabelValues(operation, table).Inc()
	}
}

// RecordAPIRequest records an API request metric.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordInvalidation records a tag invalidation and the number of keys it removed.
func RecordInvalidation(tag string, removed int) {
	CacheInvalidations.WithLabelValues(tag).Inc()
	CacheKeysInvalidated.WithLabelValues(tag).Add(float64(removed))
}

// RecordSettlement records a reward mutation outcome.
func RecordSettlement(reason, result string, pointsDelta int64) {
	RewardSettlements.WithLabelValues(reason, result).Inc()
	if result != "success" {
		return
	}
	if pointsDelta >= 0 {
		RewardPointsDelta.WithLabelValues(reason, "credit").Add(float64(pointsDelta))
	} else {
		RewardPointsDelta.WithLabelValues(reason, "debit").Add(float64(-pointsDelta))
	}
}

// RecordGameRound records a mini-game round outcome.
func RecordGameRound(game, result string, duration time.Duration) {
	GameRounds.WithLabelValues(game, result).Inc()
	GameRoundDuration.WithLabelValues(game).Observe(duration.Seconds())
}

// RecordTelegramSend records an outbound Telegram API call.
func RecordTelegramSend(method string, duration time.Duration, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	TelegramSends.WithLabelValues(method, result).Inc()
	TelegramSendDuration.Observe(duration.Seconds())
}

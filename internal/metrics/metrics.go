// Moodcast - Emotion-Adaptive Short-Video Recommendation Engine
// Copyright 2026 Moodcast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moodcast/moodcast

package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus instrumentation for the recommendation pipeline:
// - recommendation throughput and latency per emotion label
// - feedback and emotion-update ingestion
// - catalog and profile population
// - API endpoint latency and throughput
// - websocket stream connections

var (
	// Recommendation metrics
	RecommendationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendations_total",
			Help: "Total number of recommendation batches produced",
		},
		[]string{"emotion", "tier"},
	)

	RecommendationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommendation_duration_seconds",
			Help:    "Scoring and ranking latency in seconds",
			Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
		},
		[]string{"emotion"},
	)

	RecommendationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendation_errors_total",
			Help: "Total number of failed recommendation requests",
		},
		[]string{"reason"}, // "unknown_emotion", "empty_catalog", "internal"
	)

	RecommendationsThrottled = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recommendations_throttled_total",
			Help: "Emotion updates answered from the throttle window without a fresh batch",
		},
	)

	RecommendationBatchSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommendation_batch_size",
			Help:    "Number of items in delivered batches",
			Buckets: []float64{1, 2, 5, 10, 20, 50},
		},
	)

	// Learning metrics
	FeedbackTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feedback_events_total",
			Help: "Total number of feedback events applied",
		},
		[]string{"type"}, // "like", "skip", "share"
	)

	EmotionUpdatesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "emotion_updates_total",
			Help: "Total number of emotion readings ingested",
		},
		[]string{"emotion", "source"}, // source: "http", "stream"
	)

	// Population gauges
	ActiveProfiles = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "active_profiles",
			Help: "Current number of materialized user profiles",
		},
	)

	CatalogSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_records",
			Help: "Current number of indexed content records",
		},
	)

	// Snapshot store metrics
	SnapshotFlushes = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "profile_snapshot_flushes_total",
			Help: "Total number of profile snapshot flushes",
		},
	)

	SnapshotErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "profile_snapshot_errors_total",
			Help: "Total number of failed profile snapshot operations",
		},
	)

	SnapshotLastSuccess = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "profile_snapshot_last_success_timestamp",
			Help: "Unix timestamp of the last successful snapshot flush",
		},
	)

	// API endpoint metrics
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
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"method", "endpoint"},
	)

	// Stream metrics
	StreamConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "stream_connections",
			Help: "Current number of websocket stream connections",
		},
	)

	StreamMessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stream_messages_total",
			Help: "Total number of websocket messages",
		},
		[]string{"direction"}, // "inbound", "outbound"
	)
)

// ObserveRecommendation records one produced batch.
func ObserveRecommendation(emotion, tier string, size int, duration time.Duration) {
	RecommendationsTotal.WithLabelValues(emotion, tier).Inc()
	RecommendationDuration.WithLabelValues(emotion).Observe(duration.Seconds())
	RecommendationBatchSize.Observe(float64(size))
}

// ObserveAPIRequest records one completed HTTP request.
func ObserveAPIRequest(method, endpoint string, status int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(status)).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// ObserveSnapshotFlush records one successful flush.
func ObserveSnapshotFlush() {
	SnapshotFlushes.Inc()
	SnapshotLastSuccess.SetToCurrentTime()
}

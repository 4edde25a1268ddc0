// Package metrics provides Prometheus metrics for the matchmaking service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal tracks inbound API requests
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "oikion",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of API requests by route and status",
		},
		[]string{"method", "route", "status_code"},
	)

	// HTTPRequestDuration tracks inbound API request duration
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "oikion",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of API requests in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"method", "route"},
	)

	// RankingsTotal tracks ranking runs by source
	RankingsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "oikion",
			Subsystem: "matching",
			Name:      "rankings_total",
			Help:      "Total number of ranking runs by source",
		},
		[]string{"source"},
	)

	// PairsScored tracks profile/listing pairs scored
	PairsScored = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "oikion",
			Subsystem: "matching",
			Name:      "pairs_scored_total",
			Help:      "Total number of profile/listing pairs scored",
		},
	)

	// RankingDuration tracks ranking duration including data loading
	RankingDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "oikion",
			Subsystem: "matching",
			Name:      "ranking_duration_seconds",
			Help:      "Duration of ranking runs in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
		[]string{"source"},
	)

	// MatchScores tracks the distribution of returned scores
	MatchScores = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "oikion",
			Subsystem: "matching",
			Name:      "score",
			Help:      "Overall score of returned match results",
			Buckets:   []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
		},
	)

	// PreferencesExtracted tracks extracted preferences by kind and importance
	PreferencesExtracted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "oikion",
			Subsystem: "preferences",
			Name:      "extracted_total",
			Help:      "Total number of preferences extracted from notes",
		},
		[]string{"kind", "importance"},
	)

	// PreferenceCacheRequests tracks preference cache lookups
	PreferenceCacheRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "oikion",
			Subsystem: "preferences",
			Name:      "cache_requests_total",
			Help:      "Total number of preference cache lookups by result",
		},
		[]string{"result"},
	)

	// KafkaMessagesPublished tracks Kafka messages published
	KafkaMessagesPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "oikion",
			Subsystem: "kafka",
			Name:      "messages_published_total",
			Help:      "Total number of messages published to Kafka",
		},
		[]string{"topic", "status"},
	)
)

// Cache lookup results
const (
	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheError = "error"
)

// Status labels
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// RecordHTTPRequest records an inbound API request
func RecordHTTPRequest(method, route, statusCode string, durationSeconds float64) {
	HTTPRequestsTotal.WithLabelValues(method, route, statusCode).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(durationSeconds)
}

// RecordRanking records one ranking run and the scores it returned
func RecordRanking(source string, pairs int, scores []int, durationSeconds float64) {
	RankingsTotal.WithLabelValues(source).Inc()
	RankingDuration.WithLabelValues(source).Observe(durationSeconds)
	PairsScored.Add(float64(pairs))
	for _, score := range scores {
		MatchScores.Observe(float64(score))
	}
}

// RecordPreference records one extracted preference
func RecordPreference(kind, importance string) {
	PreferencesExtracted.WithLabelValues(kind, importance).Inc()
}

// RecordCacheLookup records a preference cache lookup result
func RecordCacheLookup(result string) {
	PreferenceCacheRequests.WithLabelValues(result).Inc()
}

// RecordKafkaPublish records a Kafka publish operation
func RecordKafkaPublish(topic, status string) {
	KafkaMessagesPublished.WithLabelValues(topic, status).Inc()
}

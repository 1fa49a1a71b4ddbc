// Airwave - Radio Playlist Scraping and Analytics
// Copyright 2026 A. Vierling (avierling)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/avierling/airwave

// Package metrics provides Prometheus instrumentation for the scraper,
// ingestion pipeline, snapshot guard, enrichment bridge and HTTP API.
// Metrics are exposed at /metrics in Prometheus text format.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Ingestion Metrics
	IngestRecordsReceived = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ingest_records_received_total",
			Help: "Total number of raw playlist records received for ingestion",
		},
	)

	IngestRecordsInserted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ingest_records_inserted_total",
			Help: "Total number of play events inserted into the store",
		},
	)

	IngestRecordsDuplicate = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ingest_records_duplicate_total",
			Help: "Total number of exact duplicates skipped during ingestion",
		},
	)

	IngestRecordsMalformed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ingest_records_malformed_total",
			Help: "Total number of records dropped during normalization",
		},
	)

	IngestBatchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ingest_batch_duration_seconds",
			Help:    "Duration of guarded ingestion batches in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Scraper Metrics
	ScrapePagesFetched = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scrape_pages_fetched_total",
			Help: "Total number of playlist pages fetched",
		},
		[]string{"result"}, // "success", "error"
	)

	ScrapePageDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "scrape_page_duration_seconds",
			Help:    "Duration of playlist page fetches in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Snapshot Guard Metrics
	SnapshotsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "snapshots_created_total",
			Help: "Total number of database snapshots by trigger and status",
		},
		[]string{"trigger", "status"},
	)

	IntegrityViolations = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "integrity_violations_total",
			Help: "Total number of guarded mutations that ended with fewer rows",
		},
	)

	// Enrichment Metrics
	EnrichmentLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "enrichment_lookups_total",
			Help: "Total number of genre oracle lookups",
		},
		[]string{"result"}, // "found", "not_found", "error"
	)

	EnrichmentLookupDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "enrichment_lookup_duration_seconds",
			Help:    "Duration of genre oracle lookups in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Database Metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "duckdb_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
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
)

// RecordIngestBatch records the outcome of one guarded ingestion batch.
func RecordIngestBatch(received, inserted, duplicates, malformed int, duration time.Duration) {
	IngestRecordsReceived.Add(float64(received))
	IngestRecordsInserted.Add(float64(inserted))
	IngestRecordsDuplicate.Add(float64(duplicates))
	IngestRecordsMalformed.Add(float64(malformed))
	IngestBatchDuration.Observe(duration.Seconds())
}

// RecordScrapePage records one playlist page fetch.
func RecordScrapePage(duration time.Duration, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	ScrapePagesFetched.WithLabelValues(result).Inc()
	ScrapePageDuration.Observe(duration.Seconds())
}

// RecordSnapshot records a snapshot attempt by trigger and final status.
func RecordSnapshot(trigger, status string) {
	SnapshotsCreated.WithLabelValues(trigger, status).Inc()
}

// RecordEnrichmentLookup records one genre oracle lookup.
func RecordEnrichmentLookup(result string, duration time.Duration) {
	EnrichmentLookups.WithLabelValues(result).Inc()
	EnrichmentLookupDuration.Observe(duration.Seconds())
}

// RecordDBQuery records a database query duration by operation.
func RecordDBQuery(operation string, duration time.Duration) {
	DBQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordAPIRequest records a completed HTTP API request.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordCircuitBreakerState updates the breaker state gauge.
func RecordCircuitBreakerState(name string, state float64) {
	CircuitBreakerState.WithLabelValues(name).Set(state)
}

// RecordCircuitBreakerRequest records a request outcome through a breaker.
func RecordCircuitBreakerRequest(name, result string) {
	CircuitBreakerRequests.WithLabelValues(name, result).Inc()
}

// Cinemind - Semantic Movie Recommendation Service
// Copyright 2026 Cinemind Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinemind/cinemind

// Package metrics provides Prometheus metrics for the recommendation
// pipeline. Metrics are exposed at /metrics in Prometheus text format.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RecommendRequests counts recommendation flow outcomes.
	// Outcomes: "returned", "blocked", "no_candidates", "invalid", "error".
	RecommendRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinemind_recommend_requests_total",
			Help: "Total recommendation requests by terminal outcome",
		},
		[]string{"outcome"},
	)

	// GuardrailBlocks counts inputs rejected by the input guardrail.
	GuardrailBlocks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinemind_guardrail_blocks_total",
			Help: "Total inputs blocked by the input guardrail",
		},
		[]string{"signature"},
	)

	// OutputValidationFailures counts structurally invalid LLM responses.
	OutputValidationFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinemind_output_validation_failures_total",
			Help: "Total LLM responses rejected by the output guardrail",
		},
		[]string{"kind"},
	)

	// LLMCallDuration observes completion call latency per model tier.
	LLMCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cinemind_llm_call_duration_seconds",
			Help:    "Completion call latency in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"tier", "status"},
	)

	// LLMRetries counts completion attempts beyond the first.
	LLMRetries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cinemind_llm_retries_total",
			Help: "Total completion retries after transient failures",
		},
	)

	// EmbeddingCalls counts embedding requests by status.
	EmbeddingCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinemind_embedding_calls_total",
			Help: "Total embedding requests",
		},
		[]string{"status"},
	)

	// VectorSearchDuration observes top-k search latency.
	VectorSearchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cinemind_vector_search_duration_seconds",
			Help:    "Vector index search latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// EnrichmentCacheHits counts enrichment cache reads that found a record.
	EnrichmentCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cinemind_enrichment_cache_hits_total",
			Help: "Total enrichment cache hits",
		},
	)

	// EnrichmentCacheMisses counts enrichment cache reads that found nothing.
	EnrichmentCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cinemind_enrichment_cache_misses_total",
			Help: "Total enrichment cache misses",
		},
	)

	// BackfillOutcomes counts fire-and-forget enrichment backfill results.
	// Outcomes: "stored", "failed", "dropped".
	BackfillOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinemind_enrichment_backfill_total",
			Help: "Total enrichment backfill attempts by outcome",
		},
		[]string{"outcome"},
	)

	// APIRequestDuration observes caller-facing request latency.
	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cinemind_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"method", "endpoint"},
	)
)

// NLP Article Suggestion System - Corpus-Backed Content Ranking
// Copyright 2026 Eliot (Eliot6001)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Eliot6001/nlp-article-suggestion-system

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Recommendation request metrics
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "suggest_requests_total",
			Help: "Total number of recommendation requests",
		},
		[]string{"status"}, // "ok", "cache_hit", "error"
	)

	RequestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "suggest_request_duration_seconds",
			Help:    "Duration of recommendation requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	FallbacksTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "suggest_fallbacks_total",
			Help: "Total number of requests that needed the random-unseen fallback",
		},
	)

	CandidateFetchErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "suggest_candidate_fetch_errors_total",
			Help: "Total number of per-category candidate fetch failures (skipped, not fatal)",
		},
		[]string{"category"},
	)

	// Cache metrics
	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "suggest_cache_hits_total",
			Help: "Total number of recommendation cache hits",
		},
	)

	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "suggest_cache_misses_total",
			Help: "Total number of recommendation cache misses",
		},
	)

	CacheIOErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "suggest_cache_io_errors_total",
			Help: "Total number of cache persistence failures (degraded to memory-only)",
		},
	)

	// Corpus metrics
	CorpusDocuments = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "suggest_corpus_documents",
			Help: "Current number of documents in the corpus",
		},
	)

	CorpusPendingDocuments = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "suggest_corpus_pending_documents",
			Help: "Documents appended since the last model refit",
		},
	)

	CorpusRefits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "suggest_corpus_refits_total",
			Help: "Total number of vector-space model refits",
		},
	)
)

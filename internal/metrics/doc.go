// NLP Article Suggestion System - Corpus-Backed Content Ranking
// Copyright 2026 Eliot (Eliot6001)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Eliot6001/nlp-article-suggestion-system

// Package metrics provides Prometheus instrumentation for the suggestion
// service: request throughput and latency, cache efficiency, per-category
// fetch failures, and corpus maintenance activity. Metrics are exposed on
// the /metrics endpoint.
package metrics

// NLP Article Suggestion System - Corpus-Backed Content Ranking
// Copyright 2026 Eliot (Eliot6001)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Eliot6001/nlp-article-suggestion-system

// Package api exposes the recommendation engine and corpus maintenance over
// HTTP with a chi router, JSON envelopes, per-IP rate limiting, and
// Prometheus metrics.
package api

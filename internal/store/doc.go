// NLP Article Suggestion System - Corpus-Backed Content Ranking
// Copyright 2026 Eliot (Eliot6001)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Eliot6001/nlp-article-suggestion-system

// Package store implements the item and profile store contracts on SQLite,
// plus a circuit-breaker decorator for resilience against a degraded
// database.
package store

// NLP Article Suggestion System - Corpus-Backed Content Ranking
// Copyright 2026 Eliot (Eliot6001)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Eliot6001/nlp-article-suggestion-system

// Package cache provides the TTL-bound recommendation cache keyed by user
// and history fingerprint.
//
// A cache key is the user ID joined with a SHA-256 fingerprint of the user's
// sorted reading history. Because the history is part of the key, any change
// to the history produces a different key and the stale entry simply stops
// being found; there is no explicit invalidation on read.
//
// Entries live in an in-memory map backed by a BadgerDB write-through. Reads
// fall back to BadgerDB on a memory miss, so warm results survive process
// restarts. All persistence failures are logged and absorbed; the cache then
// behaves as memory-only for the affected cycle.
package cache

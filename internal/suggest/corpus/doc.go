// NLP Article Suggestion System - Corpus-Backed Content Ranking
// Copyright 2026 Eliot (Eliot6001)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Eliot6001/nlp-article-suggestion-system

/*
Package corpus implements the shared TF-IDF vector space: document building,
fitting, incremental maintenance, persistence, and similarity scoring.

# Model lifecycle

The corpus is fitted once at startup over the top-engaged items
(Initialize), then grown on a fixed cadence (IncrementalUpdate): new
documents are appended unconditionally, but the model is only refitted when
the accumulated count of unfitted documents crosses the refit threshold.

The fitted model is an immutable snapshot behind an atomic pointer. Scoring
reads the pointer once per batch, so an in-flight scoring call sees either
the fully old or fully new model, never a half-updated one, and is never
blocked by a refit in progress.

# Persistence

The fitted model is persisted to BadgerDB together with an identity hash of
the sorted item-ID set it was fitted on. On startup the persisted model is
reused when the hash matches the rebuilt composition, skipping a redundant
refit.
*/
package corpus

// NLP Article Suggestion System - Corpus-Backed Content Ranking
// Copyright 2026 Eliot (Eliot6001)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Eliot6001/nlp-article-suggestion-system

// Package suggest contains the recommendation engine and the domain types
// shared by its collaborators.
//
// The engine orchestrates one pipeline per cache miss: load the user
// profile, fetch unseen candidates per category into an exploit pool
// (preferred categories) and an explore pool (history categories outside the
// preferences), score everything against the shared corpus model in a single
// pass, then assemble the final list from a ratio-based quota with
// score-ordered backfill. Users with no scorable candidates receive random
// unseen items at score zero.
//
// Collaborator contracts (ItemStore, ProfileStore, Scorer, ResultCache) are
// declared here and implemented by the store, corpus, and cache packages.
// The background CorpusService keeps the model fresh under supervision.
package suggest

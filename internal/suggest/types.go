// NLP Article Suggestion System - Corpus-Backed Content Ranking
// Copyright 2026 Eliot (Eliot6001)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Eliot6001/nlp-article-suggestion-system

package suggest

import (
	"context"
	"time"
)

// Metadata holds the structured enrichment of an item. The element types are
// deliberately loose: the enrichment pipeline is an external collaborator and
// its output has drifted in shape over time. The document builder tolerates
// every shape it has been observed to produce and silently drops the rest.
type Metadata struct {
	// Keywords are keyword terms: plain strings or weighted [term, weight]
	// pairs.
	Keywords []any `json:"keywords"`

	// Topics are topic labels: plain strings or {"name": ...} objects.
	Topics []any `json:"topics"`

	// Entities are named entities: plain strings or {"name": ...} objects.
	Entities []any `json:"entities"`

	// Summary is the free-text summary or body excerpt.
	Summary string `json:"summary"`
}

// Item is a content candidate. Items are created and enriched by external
// collaborators and are read-only to this package.
type Item struct {
	// ID is the opaque item identifier.
	ID string `json:"id"`

	// Category is the item's category label.
	Category string `json:"category"`

	// Title is the item title.
	Title string `json:"title"`

	// Metadata is the structured enrichment output.
	Metadata Metadata `json:"metadata"`

	// Engagement is the engagement signal used for corpus-priming ranking.
	Engagement float64 `json:"engagement"`

	// CreatedAt is the item creation time.
	CreatedAt time.Time `json:"created_at"`
}

// UserProfile is a user's weighted interest profile, produced by the external
// profile builder. Weights are in [0,1]. Only the map keys participate in the
// vector-space projection; the magnitudes are currently unused there.
type UserProfile struct {
	UserID              string             `json:"user_id"`
	Keywords            map[string]float64 `json:"keywords"`
	Topics              map[string]float64 `json:"topics"`
	Entities            map[string]float64 `json:"entities"`
	PreferredCategories []string           `json:"preferred_categories"`
}

// Recommendation is one ranked result.
type Recommendation struct {
	ItemID   string  `json:"item_id"`
	Title    string  `json:"title,omitempty"`
	Category string  `json:"category"`
	Score    float64 `json:"score"`
}

// Request is a recommendation request. Zero or negative N and
// PerCategoryLimit fall back to configured defaults; a negative
// ExplorationRatio falls back to the configured default (zero is a valid,
// pure-exploitation ratio).
type Request struct {
	// UserID is the user to generate recommendations for.
	UserID string

	// N is the number of recommendations requested.
	N int

	// ExplorationRatio is the share of slots drawn from the explore pool.
	ExplorationRatio float64

	// PerCategoryLimit bounds candidates fetched per category.
	PerCategoryLimit int

	// RequestID identifies the request in logs. Generated when empty.
	RequestID string
}

// ItemStore is the collaborator contract for the item store.
type ItemStore interface {
	// FetchTopEngaged returns the IDs of the n highest-engagement items.
	FetchTopEngaged(ctx context.Context, n int) ([]string, error)

	// FetchMetadata resolves structured metadata for the given IDs. IDs
	// with no metadata are absent from the result.
	FetchMetadata(ctx context.Context, ids []string) (map[string]Metadata, error)

	// FetchBody returns the body text of one item.
	FetchBody(ctx context.Context, id string) (string, error)

	// FetchUnseen returns up to limit items in the category that the user
	// has not seen.
	FetchUnseen(ctx context.Context, userID, category string, limit int) ([]Item, error)

	// FetchRandomUnseen returns up to n random unseen items in the category.
	FetchRandomUnseen(ctx context.Context, userID, category string, n int) ([]Item, error)

	// FetchHistory returns the IDs of items the user has seen.
	FetchHistory(ctx context.Context, userID string) ([]string, error)

	// FetchHistoryCategories returns the categories present in the user's
	// history.
	FetchHistoryCategories(ctx context.Context, userID string) ([]string, error)
}

// ProfileStore is the collaborator contract for the profile store.
type ProfileStore interface {
	// GetProfile returns the user's interest profile, or ErrProfileNotFound.
	GetProfile(ctx context.Context, userID string) (*UserProfile, error)
}

// Scorer projects a user profile and candidate items into the shared vector
// space and returns one similarity score per candidate, order-preserving.
// Implemented by the corpus package.
type Scorer interface {
	Score(ctx context.Context, profile *UserProfile, items []Item) ([]float64, error)
}

// ResultCache is the caching collaborator for computed recommendation lists.
// Implemented by the cache package.
type ResultCache interface {
	// Fingerprint computes the stable hash of a user's history.
	Fingerprint(history []string) string

	// Lookup returns a cached list still valid at now, or a miss.
	Lookup(userID, historyHash string, now time.Time) ([]Recommendation, bool)

	// Store upserts the list under the fingerprint, persisting durably.
	Store(userID, historyHash string, recs []Recommendation, now time.Time)
}

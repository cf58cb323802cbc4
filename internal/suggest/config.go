// NLP Article Suggestion System - Corpus-Backed Content Ranking
// Copyright 2026 Eliot (Eliot6001)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Eliot6001/nlp-article-suggestion-system

package suggest

import (
	"fmt"
	"time"
)

// Config controls ranking behavior for the suggestion engine.
type Config struct {
	// DefaultN is the recommendation count used when the request leaves N
	// unset.
	DefaultN int

	// MaxN caps the per-request recommendation count.
	MaxN int

	// ExplorationRatio is the default share of the result reserved for
	// exploration candidates, in [0, 1].
	ExplorationRatio float64

	// PerCategoryLimit bounds how many candidates each category fetch may
	// return.
	PerCategoryLimit int

	// DefaultCategories seeds the exploit pool for users without stated
	// preferences.
	DefaultCategories []string

	// FallbackCategory is used for the random-unseen fallback when a user
	// has no category signal at all.
	FallbackCategory string

	// FetchConcurrency bounds the number of category fetches in flight.
	FetchConcurrency int

	// RefreshInterval is the cadence of background corpus maintenance.
	RefreshInterval time.Duration
}

// DefaultConfig returns production defaults for the suggestion engine.
func DefaultConfig() Config {
	return Config{
		DefaultN:         20,
		MaxN:             100,
		ExplorationRatio: 0.2,
		PerCategoryLimit: 20,
		FallbackCategory: "Technology",
		FetchConcurrency: 4,
		RefreshInterval:  8 * time.Hour,
	}
}

// Validate checks configuration invariants.
func (c Config) Validate() error {
	if c.DefaultN <= 0 {
		return fmt.Errorf("default_n must be positive, got %d", c.DefaultN)
	}
	if c.MaxN < c.DefaultN {
		return fmt.Errorf("max_n %d must be at least default_n %d", c.MaxN, c.DefaultN)
	}
	if c.ExplorationRatio < 0 || c.ExplorationRatio > 1 {
		return fmt.Errorf("exploration_ratio must be in [0, 1], got %f", c.ExplorationRatio)
	}
	if c.PerCategoryLimit <= 0 {
		return fmt.Errorf("per_category_limit must be positive, got %d", c.PerCategoryLimit)
	}
	if c.FetchConcurrency <= 0 {
		return fmt.Errorf("fetch_concurrency must be positive, got %d", c.FetchConcurrency)
	}
	if len(c.DefaultCategories) == 0 {
		return fmt.Errorf("default_categories must not be empty")
	}
	if c.FallbackCategory == "" {
		return fmt.Errorf("fallback_category must not be empty")
	}
	return nil
}

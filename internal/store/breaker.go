// NLP Article Suggestion System - Corpus-Backed Content Ranking
// Copyright 2026 Eliot (Eliot6001)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Eliot6001/nlp-article-suggestion-system

package store

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"

	"github.com/Eliot6001/nlp-article-suggestion-system/internal/suggest"
)

// BreakerStore decorates an ItemStore with a circuit breaker so a failing
// store degrades fast instead of piling up slow queries. Open-circuit calls
// fail immediately with gobreaker.ErrOpenState, which the engine treats like
// any other per-category fetch failure.
type BreakerStore struct {
	inner suggest.ItemStore
	cb    *gobreaker.CircuitBreaker[any]
}

var _ suggest.ItemStore = (*BreakerStore)(nil)

// NewBreakerStore wraps inner with a circuit breaker. The breaker trips
// after five consecutive failures and probes again after 30 seconds.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewBreakerStore(inner suggest.ItemStore, logger zerolog.Logger) *BreakerStore {
	log := logger.With().Str("component", "store-breaker").Logger()
	settings := gobreaker.Settings{
		Name:    "item-store",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker state change")
		},
	}
	return &BreakerStore{
		inner: inner,
		cb:    gobreaker.NewCircuitBreaker[any](settings),
	}
}

func execute[T any](b *BreakerStore, fn func() (T, error)) (T, error) {
	result, err := b.cb.Execute(func() (any, error) {
		return fn()
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return result.(T), nil //nolint:forcetypeassert // breaker returns what fn produced
}

func (b *BreakerStore) FetchTopEngaged(ctx context.Context, n int) ([]string, error) {
	return execute(b, func() ([]string, error) {
		return b.inner.FetchTopEngaged(ctx, n)
	})
}

func (b *BreakerStore) FetchMetadata(ctx context.Context, ids []string) (map[string]suggest.Metadata, error) {
	return execute(b, func() (map[string]suggest.Metadata, error) {
		return b.inner.FetchMetadata(ctx, ids)
	})
}

func (b *BreakerStore) FetchBody(ctx context.Context, id string) (string, error) {
	return execute(b, func() (string, error) {
		return b.inner.FetchBody(ctx, id)
	})
}

func (b *BreakerStore) FetchUnseen(ctx context.Context, userID, category string, limit int) ([]suggest.Item, error) {
	return execute(b, func() ([]suggest.Item, error) {
		return b.inner.FetchUnseen(ctx, userID, category, limit)
	})
}

func (b *BreakerStore) FetchRandomUnseen(ctx context.Context, userID, category string, n int) ([]suggest.Item, error) {
	return execute(b, func() ([]suggest.Item, error) {
		return b.inner.FetchRandomUnseen(ctx, userID, category, n)
	})
}

func (b *BreakerStore) FetchHistory(ctx context.Context, userID string) ([]string, error) {
	return execute(b, func() ([]string, error) {
		return b.inner.FetchHistory(ctx, userID)
	})
}

func (b *BreakerStore) FetchHistoryCategories(ctx context.Context, userID string) ([]string, error) {
	return execute(b, func() ([]string, error) {
		return b.inner.FetchHistoryCategories(ctx, userID)
	})
}

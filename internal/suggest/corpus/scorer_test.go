// NLP Article Suggestion System - Corpus-Backed Content Ranking
// Copyright 2026 Eliot (Eliot6001)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Eliot6001/nlp-article-suggestion-system

package corpus

import (
	"context"
	"errors"
	"testing"

	"github.com/Eliot6001/nlp-article-suggestion-system/internal/suggest"
)

func fittedCorpus(t *testing.T) *Corpus {
	t.Helper()
	src := sourceWithItems("a", "b", "c")
	src.meta["a"] = suggest.Metadata{Keywords: []any{"golang", "concurrency"}, Summary: "channels and goroutines"}
	src.meta["b"] = suggest.Metadata{Keywords: []any{"databases"}, Summary: "transactions and indexes"}
	src.meta["c"] = suggest.Metadata{Keywords: []any{"networking"}, Summary: "tcp congestion control"}
	c := testCorpus(src)
	if err := c.Initialize(context.Background(), 100); err != nil {
		t.Fatalf("Initialize() error: %v", err)
	}
	return c
}

func TestScoreCorpusNotReady(t *testing.T) {
	t.Parallel()

	c := testCorpus(sourceWithItems())
	_, err := c.Score(context.Background(), &suggest.UserProfile{}, []suggest.Item{{ID: "x"}})
	if !errors.Is(err, suggest.ErrCorpusNotReady) {
		t.Fatalf("Score() error = %v, want ErrCorpusNotReady", err)
	}
}

func TestScoreOrderPreservingAndBounded(t *testing.T) {
	t.Parallel()

	c := fittedCorpus(t)
	profile := &suggest.UserProfile{
		Keywords: map[string]float64{"golang": 0.9, "concurrency": 0.7},
	}
	items := []suggest.Item{
		{ID: "match", Metadata: suggest.Metadata{Keywords: []any{"golang", "concurrency"}}},
		{ID: "miss", Metadata: suggest.Metadata{Keywords: []any{"databases"}}},
		{ID: "partial", Metadata: suggest.Metadata{Keywords: []any{"golang", "networking"}}},
	}

	scores, err := c.Score(context.Background(), profile, items)
	if err != nil {
		t.Fatalf("Score() error: %v", err)
	}
	if len(scores) != len(items) {
		t.Fatalf("len(scores) = %d, want %d", len(scores), len(items))
	}
	for i, s := range scores {
		if s < 0 || s > 1 {
			t.Errorf("score[%d] = %f, out of [0,1]", i, s)
		}
	}
	if scores[0] <= scores[2] {
		t.Errorf("full match %f not above partial match %f", scores[0], scores[2])
	}
	if scores[1] != 0 {
		t.Errorf("disjoint item scored %f, want 0", scores[1])
	}
}

func TestScoreMalformedMetadataScoresZero(t *testing.T) {
	t.Parallel()

	c := fittedCorpus(t)
	profile := &suggest.UserProfile{Keywords: map[string]float64{"golang": 1}}
	items := []suggest.Item{
		{ID: "broken", Metadata: suggest.Metadata{Keywords: []any{42, []any{}}}},
	}

	scores, err := c.Score(context.Background(), profile, items)
	if err != nil {
		t.Fatalf("Score() error: %v", err)
	}
	if scores[0] != 0 {
		t.Errorf("malformed item scored %f, want 0", scores[0])
	}
}

func TestScoreDeterministic(t *testing.T) {
	t.Parallel()

	c := fittedCorpus(t)
	profile := &suggest.UserProfile{
		Keywords: map[string]float64{"golang": 0.9, "networking": 0.4},
		Topics:   map[string]float64{"concurrency": 0.8, "databases": 0.2},
	}
	items := []suggest.Item{
		{ID: "a", Metadata: suggest.Metadata{Keywords: []any{"golang"}, Summary: "channels and goroutines"}},
		{ID: "b", Metadata: suggest.Metadata{Keywords: []any{"databases"}, Summary: "transactions"}},
	}

	first, err := c.Score(context.Background(), profile, items)
	if err != nil {
		t.Fatalf("Score() error: %v", err)
	}

	// Map iteration order must not leak into the result: repeated scoring
	// of the same profile and items is bit-for-bit identical.
	for run := 0; run < 20; run++ {
		scores, err := c.Score(context.Background(), profile, items)
		if err != nil {
			t.Fatalf("Score() run %d error: %v", run, err)
		}
		for i := range scores {
			if scores[i] != first[i] {
				t.Fatalf("run %d score[%d] = %v, want %v", run, i, scores[i], first[i])
			}
		}
	}
}

func TestScoreCanceledContext(t *testing.T) {
	t.Parallel()

	c := fittedCorpus(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Score(ctx, &suggest.UserProfile{}, []suggest.Item{{ID: "x"}})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Score() error = %v, want context.Canceled", err)
	}
}

func TestScoreEmptyProfile(t *testing.T) {
	t.Parallel()

	c := fittedCorpus(t)
	scores, err := c.Score(context.Background(), &suggest.UserProfile{}, []suggest.Item{
		{ID: "a", Metadata: suggest.Metadata{Keywords: []any{"golang"}}},
	})
	if err != nil {
		t.Fatalf("Score() error: %v", err)
	}
	if scores[0] != 0 {
		t.Errorf("empty profile scored %f, want 0", scores[0])
	}
}

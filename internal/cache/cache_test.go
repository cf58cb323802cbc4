// NLP Article Suggestion System - Corpus-Backed Content Ranking
// Copyright 2026 Eliot (Eliot6001)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Eliot6001/nlp-article-suggestion-system

package cache

import (
	"reflect"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"

	"github.com/Eliot6001/nlp-article-suggestion-system/internal/suggest"
)

func memoryCache(ttl time.Duration) *Cache {
	return New(ttl, 100, nil, zerolog.Nop())
}

func sampleRecs() []suggest.Recommendation {
	return []suggest.Recommendation{
		{ItemID: "a", Title: "First", Category: "Technology", Score: 0.9},
		{ItemID: "b", Title: "Second", Category: "Science", Score: 0.4},
	}
}

func TestFingerprintOrderIndependent(t *testing.T) {
	t.Parallel()

	c := memoryCache(time.Hour)

	a := c.Fingerprint([]string{"x", "y", "z"})
	b := c.Fingerprint([]string{"z", "y", "x"})
	if a != b {
		t.Errorf("fingerprints differ for reordered history: %s != %s", a, b)
	}

	changed := c.Fingerprint([]string{"x", "y", "z", "w"})
	if a == changed {
		t.Error("fingerprint unchanged after history grew")
	}

	empty := c.Fingerprint(nil)
	if empty == "" || empty == a {
		t.Errorf("empty history fingerprint = %q", empty)
	}
}

func TestFingerprintDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	c := memoryCache(time.Hour)
	history := []string{"c", "a", "b"}
	c.Fingerprint(history)
	if !reflect.DeepEqual(history, []string{"c", "a", "b"}) {
		t.Errorf("Fingerprint mutated its input: %v", history)
	}
}

func TestLookupHitWithinTTL(t *testing.T) {
	t.Parallel()

	c := memoryCache(2 * time.Hour)
	now := time.Now()
	hash := c.Fingerprint([]string{"h1"})
	recs := sampleRecs()

	c.Store("user1", hash, recs, now)

	got, ok := c.Lookup("user1", hash, now.Add(time.Hour))
	if !ok {
		t.Fatal("Lookup() miss, want hit")
	}
	if !reflect.DeepEqual(got, recs) {
		t.Errorf("Lookup() = %v, want stored list verbatim %v", got, recs)
	}
}

func TestLookupExpired(t *testing.T) {
	t.Parallel()

	c := memoryCache(2 * time.Hour)
	now := time.Now()
	hash := c.Fingerprint([]string{"h1"})

	c.Store("user1", hash, sampleRecs(), now)

	if _, ok := c.Lookup("user1", hash, now.Add(2*time.Hour+time.Second)); ok {
		t.Error("Lookup() hit past TTL, want miss")
	}
}

func TestLookupMissOnChangedHistory(t *testing.T) {
	t.Parallel()

	c := memoryCache(time.Hour)
	now := time.Now()

	oldHash := c.Fingerprint([]string{"h1"})
	c.Store("user1", oldHash, sampleRecs(), now)

	newHash := c.Fingerprint([]string{"h1", "h2"})
	if _, ok := c.Lookup("user1", newHash, now); ok {
		t.Error("Lookup() hit for changed history, want miss")
	}
	// The old entry stays valid under its own key.
	if _, ok := c.Lookup("user1", oldHash, now); !ok {
		t.Error("Lookup() miss for unchanged history, want hit")
	}
}

func TestLookupIsolatedPerUser(t *testing.T) {
	t.Parallel()

	c := memoryCache(time.Hour)
	now := time.Now()
	hash := c.Fingerprint([]string{"h1"})

	c.Store("user1", hash, sampleRecs(), now)
	if _, ok := c.Lookup("user2", hash, now); ok {
		t.Error("Lookup() leaked entry across users")
	}
}

func TestStoreEvictsExpiredAtCapacity(t *testing.T) {
	t.Parallel()

	c := New(time.Hour, 2, nil, zerolog.Nop())
	now := time.Now()

	c.Store("u1", "h1", sampleRecs(), now.Add(-2*time.Hour))
	c.Store("u2", "h2", sampleRecs(), now)
	c.Store("u3", "h3", sampleRecs(), now)

	if _, ok := c.Lookup("u1", "h1", now); ok {
		t.Error("expired entry survived eviction")
	}
	if _, ok := c.Lookup("u2", "h2", now); !ok {
		t.Error("live entry evicted")
	}
	if _, ok := c.Lookup("u3", "h3", now); !ok {
		t.Error("newly stored entry missing")
	}
}

func TestInvalidateUser(t *testing.T) {
	t.Parallel()

	c := memoryCache(time.Hour)
	now := time.Now()

	c.Store("user1", "h1", sampleRecs(), now)
	c.Store("user1", "h2", sampleRecs(), now)
	c.Store("user2", "h1", sampleRecs(), now)

	c.InvalidateUser("user1")

	if _, ok := c.Lookup("user1", "h1", now); ok {
		t.Error("user1 entry survived invalidation")
	}
	if _, ok := c.Lookup("user1", "h2", now); ok {
		t.Error("user1 second entry survived invalidation")
	}
	if _, ok := c.Lookup("user2", "h1", now); !ok {
		t.Error("user2 entry lost to user1 invalidation")
	}
}

func TestPersistenceAcrossRestart(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	db, err := badger.Open(badger.DefaultOptions(dir).WithLogger(nil))
	if err != nil {
		t.Fatalf("opening badger: %v", err)
	}

	now := time.Now()
	hash := "histhash"
	recs := sampleRecs()

	first := New(2*time.Hour, 100, db, zerolog.Nop())
	first.Store("user1", hash, recs, now)
	if err := db.Close(); err != nil {
		t.Fatalf("closing badger: %v", err)
	}

	db, err = badger.Open(badger.DefaultOptions(dir).WithLogger(nil))
	if err != nil {
		t.Fatalf("reopening badger: %v", err)
	}
	defer db.Close()

	// A fresh cache on the same store serves the persisted entry.
	second := New(2*time.Hour, 100, db, zerolog.Nop())
	got, ok := second.Lookup("user1", hash, now.Add(time.Hour))
	if !ok {
		t.Fatal("Lookup() after restart miss, want persisted hit")
	}
	if !reflect.DeepEqual(got, recs) {
		t.Errorf("Lookup() after restart = %v, want %v", got, recs)
	}
}

// NLP Article Suggestion System - Corpus-Backed Content Ranking
// Copyright 2026 Eliot (Eliot6001)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Eliot6001/nlp-article-suggestion-system

package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/Eliot6001/nlp-article-suggestion-system/internal/metrics"
	"github.com/Eliot6001/nlp-article-suggestion-system/internal/suggest"
)

// badgerKeyPrefix namespaces recommendation entries in the shared BadgerDB.
const badgerKeyPrefix = "rec:"

// Entry is one cached recommendation list. The history hash is embedded so
// that validity can be checked against the caller's current history: any
// history mutation produces a different key and therefore a natural miss,
// without explicit invalidation.
type Entry struct {
	HistoryHash string                   `json:"history_hash"`
	Items       []suggest.Recommendation `json:"items"`
	CreatedAt   time.Time                `json:"created_at"`
}

// Cache is the content-addressed, TTL-bound recommendation cache. Lookups
// hit an in-memory map first and fall back to BadgerDB, so cached results
// survive process restarts. Persistence failures degrade to memory-only
// operation for that cycle and never fail the request.
type Cache struct {
	mu         sync.RWMutex
	entries    map[string]Entry
	ttl        time.Duration
	maxEntries int
	db         *badger.DB // may be nil for memory-only operation
	logger     zerolog.Logger
}

// Compile-time check against the engine's cache contract.
var _ suggest.ResultCache = (*Cache)(nil)

// New creates a recommendation cache. db may be nil, in which case nothing
// survives restart.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func New(ttl time.Duration, maxEntries int, db *badger.DB, logger zerolog.Logger) *Cache {
	return &Cache{
		entries:    make(map[string]Entry),
		ttl:        ttl,
		maxEntries: maxEntries,
		db:         db,
		logger:     logger.With().Str("component", "cache").Logger(),
	}
}

// Fingerprint computes the SHA-256 hash of the JSON encoding of the sorted
// history IDs. Sorting makes the fingerprint order-independent: re-ordered
// identical history sets collide to the same key by design.
func (c *Cache) Fingerprint(history []string) string {
	sorted := make([]string, len(history))
	copy(sorted, history)
	sort.Strings(sorted)

	data, err := json.Marshal(sorted)
	if err != nil {
		return ""
	}

	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Lookup returns the cached list for (userID, historyHash) if it is still
// within the TTL window at now. Expired or absent entries report a miss;
// stale data is never returned.
func (c *Cache) Lookup(userID, historyHash string, now time.Time) ([]suggest.Recommendation, bool) {
	key := entryKey(userID, historyHash)

	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		entry, ok = c.loadPersisted(key)
		if !ok {
			return nil, false
		}
		c.mu.Lock()
		c.entries[key] = entry
		c.mu.Unlock()
	}

	if !c.valid(entry, historyHash, now) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, false
	}

	return entry.Items, true
}

// Store upserts the entry and persists it synchronously, so a crash
// immediately afterwards costs no more than a cache-cold start.
func (c *Cache) Store(userID, historyHash string, recs []suggest.Recommendation, now time.Time) {
	key := entryKey(userID, historyHash)
	entry := Entry{
		HistoryHash: historyHash,
		Items:       recs,
		CreatedAt:   now,
	}

	c.mu.Lock()
	if len(c.entries) >= c.maxEntries {
		c.evictExpiredLocked(now)
	}
	c.entries[key] = entry
	c.mu.Unlock()

	c.persist(key, entry)
}

// InvalidateUser drops every cached entry for the user, in memory and in the
// persistent store.
func (c *Cache) InvalidateUser(userID string) {
	prefix := userID + "-"

	c.mu.Lock()
	for key := range c.entries {
		if len(key) > len(prefix) && key[:len(prefix)] == prefix {
			delete(c.entries, key)
		}
	}
	c.mu.Unlock()

	if c.db == nil {
		return
	}

	err := c.db.Update(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		keyPrefix := []byte(badgerKeyPrefix + prefix)
		var keys [][]byte
		for it.Seek(keyPrefix); it.ValidForPrefix(keyPrefix); it.Next() {
			keys = append(keys, it.Item().KeyCopy(nil))
		}
		for _, k := range keys {
			if err := txn.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		metrics.CacheIOErrors.Inc()
		c.logger.Warn().Str("user_id", userID).Err(err).Msg("invalidating persisted cache entries failed")
	}
}

// valid reports whether the entry is within the TTL window and matches the
// caller's current history hash.
func (c *Cache) valid(entry Entry, historyHash string, now time.Time) bool {
	if entry.HistoryHash != historyHash {
		return false
	}
	return now.Sub(entry.CreatedAt) <= c.ttl
}

// evictExpiredLocked removes expired entries. Must be called with mu held.
func (c *Cache) evictExpiredLocked(now time.Time) {
	for key, entry := range c.entries {
		if now.Sub(entry.CreatedAt) > c.ttl {
			delete(c.entries, key)
		}
	}
}

// loadPersisted reads an entry from BadgerDB. A read failure degrades to a
// miss.
func (c *Cache) loadPersisted(key string) (Entry, bool) {
	if c.db == nil {
		return Entry{}, false
	}

	var entry Entry
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(badgerKeyPrefix + key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &entry)
		})
	})
	if err != nil {
		if !errors.Is(err, badger.ErrKeyNotFound) {
			metrics.CacheIOErrors.Inc()
			c.logger.Warn().Err(err).Msg("reading persisted cache entry failed")
		}
		return Entry{}, false
	}

	return entry, true
}

// persist writes the entry to BadgerDB with the cache TTL. Failures are
// absorbed: the in-memory entry stays valid for this cycle.
func (c *Cache) persist(key string, entry Entry) {
	if c.db == nil {
		return
	}

	data, err := json.Marshal(entry)
	if err != nil {
		metrics.CacheIOErrors.Inc()
		c.logger.Warn().Err(err).Msg("marshaling cache entry failed")
		return
	}

	err = c.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry([]byte(badgerKeyPrefix+key), data).WithTTL(c.ttl)
		return txn.SetEntry(e)
	})
	if err != nil {
		metrics.CacheIOErrors.Inc()
		c.logger.Warn().Err(err).Msg("persisting cache entry failed, continuing in memory")
	}
}

// entryKey builds the composite cache key. The user ID keeps entries
// per-user; the history hash provides implicit invalidation.
func entryKey(userID, historyHash string) string {
	return userID + "-" + historyHash
}

// NLP Article Suggestion System - Corpus-Backed Content Ranking
// Copyright 2026 Eliot (Eliot6001)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Eliot6001/nlp-article-suggestion-system

package corpus

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/Eliot6001/nlp-article-suggestion-system/internal/metrics"
	"github.com/Eliot6001/nlp-article-suggestion-system/internal/suggest"
)

// Source is the slice of the item store the corpus maintainer depends on.
// suggest.ItemStore satisfies it.
type Source interface {
	FetchTopEngaged(ctx context.Context, n int) ([]string, error)
	FetchMetadata(ctx context.Context, ids []string) (map[string]suggest.Metadata, error)
	FetchBody(ctx context.Context, id string) (string, error)
}

// Model is an immutable fitted vector-space snapshot. Readers obtain it via
// an atomic pointer and therefore always see either the fully old or fully
// new state; it is never mutated in place.
type Model struct {
	// Vectorizer is the fitted TF-IDF space.
	Vectorizer *Vectorizer

	// IDHash is the identity hash of the sorted item-ID set the model was
	// fitted on. A persisted model is reused only when this matches.
	IDHash string

	// DocCount is the number of documents fitted on.
	DocCount int

	// FittedAt is when the fit happened.
	FittedAt time.Time
}

// Status is a read-only view of the corpus state.
type Status struct {
	Documents int       `json:"documents"`
	Pending   int       `json:"pending"`
	Fitted    bool      `json:"fitted"`
	FittedOn  int       `json:"fitted_on"`
	FittedAt  time.Time `json:"fitted_at,omitempty"`
	IDHash    string    `json:"id_hash,omitempty"`
}

// Corpus holds the cumulative document set and the fitted vector-space model
// the scorer reads. Maintenance (Initialize, IncrementalUpdate) runs under a
// mutex; scoring reads only the atomic model pointer and is never blocked by
// a refit in progress.
type Corpus struct {
	source Source
	models *ModelStore
	logger zerolog.Logger

	mu      sync.Mutex
	docs    []string
	ids     []string
	idSet   map[string]struct{}
	pending int

	model atomic.Pointer[Model]
}

// New creates a corpus backed by the given item source and model store.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func New(source Source, models *ModelStore, logger zerolog.Logger) *Corpus {
	return &Corpus{
		source: source,
		models: models,
		logger: logger.With().Str("component", "corpus").Logger(),
		idSet:  make(map[string]struct{}),
	}
}

// Initialize performs the one-time cold fit over the topN most-engaged
// items. It is a no-op when a corpus already exists; this is a cold start,
// not a reset.
func (c *Corpus) Initialize(ctx context.Context, topN int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.ids) > 0 {
		c.logger.Info().Int("documents", len(c.docs)).Msg("corpus already initialized")
		return nil
	}

	c.logger.Info().Int("top_n", topN).Msg("initializing corpus")

	docs, ids, err := c.buildDocuments(ctx, nil, topN)
	if err != nil {
		return err
	}

	if len(docs) == 0 {
		c.logger.Warn().Msg("no documents resolved for initial corpus, model left untouched")
		return nil
	}

	c.docs = docs
	c.ids = ids
	for _, id := range ids {
		c.idSet[id] = struct{}{}
	}

	model, err := c.loadOrFit(c.docs, c.ids)
	if err != nil {
		return err
	}
	c.model.Store(model)

	metrics.CorpusDocuments.Set(float64(len(c.docs)))
	c.logger.Info().
		Int("documents", len(c.docs)).
		Str("id_hash", model.IDHash).
		Msg("corpus initialized")

	return nil
}

// IncrementalUpdate fetches the fetchN top items, appends documents for IDs
// not yet in the corpus, and refits the model only once the cross-call
// accumulator of pending new documents reaches refitThreshold. Appending is
// unconditional so composition grows monotonically; refitting is amortized
// against freshness. Returns the number of documents appended in this call.
func (c *Corpus) IncrementalUpdate(ctx context.Context, fetchN, refitThreshold int) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	docs, ids, err := c.buildDocuments(ctx, c.idSet, fetchN)
	if err != nil {
		return 0, err
	}

	if len(docs) == 0 {
		c.logger.Debug().Msg("no new documents for corpus")
		return 0, nil
	}

	c.docs = append(c.docs, docs...)
	c.ids = append(c.ids, ids...)
	for _, id := range ids {
		c.idSet[id] = struct{}{}
	}
	c.pending += len(docs)

	metrics.CorpusDocuments.Set(float64(len(c.docs)))
	metrics.CorpusPendingDocuments.Set(float64(c.pending))

	if c.pending < refitThreshold {
		c.logger.Info().
			Int("added", len(docs)).
			Int("pending", c.pending).
			Int("refit_threshold", refitThreshold).
			Msg("appended documents, holding refit")
		return len(docs), nil
	}

	model, err := c.fit(c.docs, c.ids)
	if err != nil {
		return len(docs), err
	}
	c.model.Store(model)
	c.pending = 0

	metrics.CorpusRefits.Inc()
	metrics.CorpusPendingDocuments.Set(0)
	c.logger.Info().
		Int("added", len(docs)).
		Int("documents", len(c.docs)).
		Msg("corpus model refitted")

	return len(docs), nil
}

// Ready reports whether a fitted model is available.
func (c *Corpus) Ready() bool {
	return c.model.Load() != nil
}

// Status returns a snapshot of the corpus state.
func (c *Corpus) Status() Status {
	c.mu.Lock()
	docs := len(c.docs)
	pending := c.pending
	c.mu.Unlock()

	st := Status{Documents: docs, Pending: pending}
	if m := c.model.Load(); m != nil {
		st.Fitted = true
		st.FittedOn = m.DocCount
		st.FittedAt = m.FittedAt
		st.IDHash = m.IDHash
	}
	return st
}

// buildDocuments resolves metadata and body text for the top fetchN items,
// skipping IDs in exclude and IDs whose metadata or body cannot be fetched.
// A per-ID failure excludes that ID without aborting the batch.
func (c *Corpus) buildDocuments(ctx context.Context, exclude map[string]struct{}, fetchN int) ([]string, []string, error) {
	topIDs, err := c.source.FetchTopEngaged(ctx, fetchN)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch top engaged: %w", err)
	}

	fresh := make([]string, 0, len(topIDs))
	for _, id := range topIDs {
		if _, ok := exclude[id]; !ok {
			fresh = append(fresh, id)
		}
	}
	if len(fresh) == 0 {
		return nil, nil, nil
	}

	meta, err := c.source.FetchMetadata(ctx, fresh)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch metadata: %w", err)
	}

	docs := make([]string, 0, len(fresh))
	ids := make([]string, 0, len(fresh))
	for _, id := range fresh {
		m, ok := meta[id]
		if !ok {
			continue
		}

		body, err := c.source.FetchBody(ctx, id)
		if err != nil {
			c.logger.Warn().Str("item_id", id).Err(err).Msg("fetch body failed, excluding item from corpus")
			continue
		}
		if body != "" {
			m.Summary = body
		}

		docs = append(docs, BuildDocument(m))
		ids = append(ids, id)
	}

	return docs, ids, nil
}

// loadOrFit reuses a persisted model when its identity hash matches the
// given ID set, and fits (and persists) a fresh one otherwise.
func (c *Corpus) loadOrFit(docs, ids []string) (*Model, error) {
	hash := identityHash(ids)

	if stored, err := c.models.Load(); err != nil {
		c.logger.Warn().Err(err).Msg("loading persisted model failed, fitting fresh")
	} else if stored != nil && stored.IDHash == hash {
		c.logger.Info().Str("id_hash", hash).Msg("reusing persisted corpus model")
		return stored, nil
	}

	return c.fit(docs, ids)
}

// fit builds a model over the documents and persists it. A persistence
// failure degrades to in-memory operation for this cycle.
func (c *Corpus) fit(docs, ids []string) (*Model, error) {
	if len(docs) == 0 {
		return nil, fmt.Errorf("fit called with empty document set")
	}

	model := &Model{
		Vectorizer: FitVectorizer(docs),
		IDHash:     identityHash(ids),
		DocCount:   len(docs),
		FittedAt:   time.Now().UTC(),
	}

	if err := c.models.Save(model); err != nil {
		c.logger.Warn().Err(err).Msg("persisting corpus model failed, continuing in memory")
	}

	return model, nil
}

// identityHash computes the SHA-256 hash of the JSON encoding of the sorted
// ID list. It is order-independent in the input and identifies the corpus
// composition for persisted-model validation.
func identityHash(ids []string) string {
	sorted := make([]string, len(ids))
	copy(sorted, ids)
	sort.Strings(sorted)

	data, err := json.Marshal(sorted)
	if err != nil {
		// A []string cannot fail to marshal; guard anyway.
		return ""
	}

	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// NLP Article Suggestion System - Corpus-Backed Content Ranking
// Copyright 2026 Eliot (Eliot6001)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Eliot6001/nlp-article-suggestion-system

package corpus

import (
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
)

// modelKey is the BadgerDB key under which the fitted model is persisted.
const modelKey = "corpus:model"

// modelRecord is the persisted form of a Model.
type modelRecord struct {
	IDHash   string    `json:"id_hash"`
	Terms    []string  `json:"terms"`
	IDF      []float64 `json:"idf"`
	Docs     int       `json:"docs"`
	FittedAt time.Time `json:"fitted_at"`
}

// ModelStore persists the fitted vector-space model so it survives process
// restarts. A nil database degrades every operation to a no-op; the corpus
// then refits on each cold start.
type ModelStore struct {
	db *badger.DB
}

// NewModelStore creates a model store over the given BadgerDB handle, which
// may be nil for in-memory-only operation.
func NewModelStore(db *badger.DB) *ModelStore {
	return &ModelStore{db: db}
}

// Load returns the persisted model, or nil when none exists.
func (s *ModelStore) Load() (*Model, error) {
	if s.db == nil {
		return nil, nil
	}

	var rec modelRecord
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(modelKey))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &rec)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load corpus model: %w", err)
	}

	index := make(map[string]int, len(rec.Terms))
	for i, term := range rec.Terms {
		index[term] = i
	}

	return &Model{
		Vectorizer: &Vectorizer{
			terms: rec.Terms,
			index: index,
			idf:   rec.IDF,
			docs:  rec.Docs,
		},
		IDHash:   rec.IDHash,
		DocCount: rec.Docs,
		FittedAt: rec.FittedAt,
	}, nil
}

// Save persists the model synchronously.
func (s *ModelStore) Save(m *Model) error {
	if s.db == nil {
		return nil
	}

	rec := modelRecord{
		IDHash:   m.IDHash,
		Terms:    m.Vectorizer.terms,
		IDF:      m.Vectorizer.idf,
		Docs:     m.Vectorizer.docs,
		FittedAt: m.FittedAt,
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal corpus model: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(modelKey), data)
	})
	if err != nil {
		return fmt.Errorf("persist corpus model: %w", err)
	}

	return nil
}

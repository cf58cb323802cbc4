// NLP Article Suggestion System - Corpus-Backed Content Ranking
// Copyright 2026 Eliot (Eliot6001)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Eliot6001/nlp-article-suggestion-system

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	// Pure-Go SQLite driver.
	_ "modernc.org/sqlite"

	"github.com/Eliot6001/nlp-article-suggestion-system/internal/suggest"
)

const schema = `
CREATE TABLE IF NOT EXISTS items (
	id         TEXT PRIMARY KEY,
	category   TEXT NOT NULL,
	title      TEXT NOT NULL,
	body       TEXT NOT NULL DEFAULT '',
	engagement REAL NOT NULL DEFAULT 0,
	created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_items_category_engagement
	ON items (category, engagement DESC);

CREATE TABLE IF NOT EXISTS item_metadata (
	item_id  TEXT PRIMARY KEY REFERENCES items (id),
	metadata TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS user_history (
	user_id   TEXT NOT NULL,
	item_id   TEXT NOT NULL REFERENCES items (id),
	viewed_at TIMESTAMP NOT NULL,
	PRIMARY KEY (user_id, item_id)
);

CREATE TABLE IF NOT EXISTS user_profiles (
	user_id TEXT PRIMARY KEY,
	profile TEXT NOT NULL
);
`

// SQLite backs the item and profile stores with a local SQLite database.
type SQLite struct {
	db     *sql.DB
	logger zerolog.Logger
}

// Compile-time checks against the engine's collaborator contracts.
var (
	_ suggest.ItemStore    = (*SQLite)(nil)
	_ suggest.ProfileStore = (*SQLite)(nil)
)

// Open opens (creating if necessary) the SQLite database at path and applies
// the schema.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func Open(path string, logger zerolog.Logger) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database at %s: %w", path, err)
	}
	// modernc sqlite serializes writes internally; a single connection
	// avoids SQLITE_BUSY on concurrent writers.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("applying schema: %w", err)
	}

	return &SQLite{
		db:     db,
		logger: logger.With().Str("component", "store").Logger(),
	}, nil
}

// Close releases the underlying database handle.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// FetchTopEngaged returns the IDs of the n highest-engagement items.
func (s *SQLite) FetchTopEngaged(ctx context.Context, n int) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id FROM items ORDER BY engagement DESC, id LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("querying top engaged items: %w", err)
	}
	defer rows.Close()

	return scanStrings(rows)
}

// FetchMetadata resolves structured metadata for the given IDs. IDs without
// metadata or with undecodable metadata are absent from the result.
func (s *SQLite) FetchMetadata(ctx context.Context, ids []string) (map[string]suggest.Metadata, error) {
	if len(ids) == 0 {
		return map[string]suggest.Metadata{}, nil
	}

	query := `SELECT item_id, metadata FROM item_metadata WHERE item_id IN (` +
		placeholders(len(ids)) + `)`
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying metadata for %d items: %w", len(ids), err)
	}
	defer rows.Close()

	result := make(map[string]suggest.Metadata, len(ids))
	for rows.Next() {
		var itemID, raw string
		if err := rows.Scan(&itemID, &raw); err != nil {
			return nil, fmt.Errorf("scanning metadata row: %w", err)
		}
		var meta suggest.Metadata
		if err := json.Unmarshal([]byte(raw), &meta); err != nil {
			s.logger.Warn().Str("item_id", itemID).Err(err).Msg("skipping undecodable item metadata")
			continue
		}
		result[itemID] = meta
	}
	return result, rows.Err()
}

// FetchBody returns the body text of one item.
func (s *SQLite) FetchBody(ctx context.Context, id string) (string, error) {
	var body string
	err := s.db.QueryRowContext(ctx,
		`SELECT body FROM items WHERE id = ?`, id).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("item %s not found", id)
	}
	if err != nil {
		return "", fmt.Errorf("querying body of item %s: %w", id, err)
	}
	return body, nil
}

// FetchUnseen returns up to limit items in the category absent from the
// user's history, highest engagement first.
func (s *SQLite) FetchUnseen(ctx context.Context, userID, category string, limit int) ([]suggest.Item, error) {
	return s.fetchItems(ctx, userID, category, limit, `i.engagement DESC, i.id`)
}

// FetchRandomUnseen returns up to n random unseen items in the category.
func (s *SQLite) FetchRandomUnseen(ctx context.Context, userID, category string, n int) ([]suggest.Item, error) {
	return s.fetchItems(ctx, userID, category, n, `RANDOM()`)
}

func (s *SQLite) fetchItems(ctx context.Context, userID, category string, limit int, order string) ([]suggest.Item, error) {
	query := `
		SELECT i.id, i.category, i.title, i.engagement, i.created_at,
		       COALESCE(m.metadata, '')
		FROM items i
		LEFT JOIN item_metadata m ON m.item_id = i.id
		LEFT JOIN user_history h ON h.item_id = i.id AND h.user_id = ?
		WHERE i.category = ? AND h.item_id IS NULL
		ORDER BY ` + order + `
		LIMIT ?`

	rows, err := s.db.QueryContext(ctx, query, userID, category, limit)
	if err != nil {
		return nil, fmt.Errorf("querying unseen items in category %s: %w", category, err)
	}
	defer rows.Close()

	var items []suggest.Item
	for rows.Next() {
		var item suggest.Item
		var rawMeta string
		var createdAt time.Time
		if err := rows.Scan(&item.ID, &item.Category, &item.Title, &item.Engagement, &createdAt, &rawMeta); err != nil {
			return nil, fmt.Errorf("scanning item row: %w", err)
		}
		item.CreatedAt = createdAt
		if rawMeta != "" {
			if err := json.Unmarshal([]byte(rawMeta), &item.Metadata); err != nil {
				s.logger.Warn().Str("item_id", item.ID).Err(err).Msg("skipping undecodable item metadata")
			}
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// FetchHistory returns the IDs of items the user has seen, most recent
// first.
func (s *SQLite) FetchHistory(ctx context.Context, userID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT item_id FROM user_history WHERE user_id = ? ORDER BY viewed_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying history for user %s: %w", userID, err)
	}
	defer rows.Close()

	return scanStrings(rows)
}

// FetchHistoryCategories returns the distinct categories present in the
// user's history.
func (s *SQLite) FetchHistoryCategories(ctx context.Context, userID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT i.category
		FROM user_history h
		JOIN items i ON i.id = h.item_id
		WHERE h.user_id = ?
		ORDER BY i.category`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying history categories for user %s: %w", userID, err)
	}
	defer rows.Close()

	return scanStrings(rows)
}

// GetProfile returns the user's interest profile, or
// suggest.ErrProfileNotFound.
func (s *SQLite) GetProfile(ctx context.Context, userID string) (*suggest.UserProfile, error) {
	var raw string
	err := s.db.QueryRowContext(ctx,
		`SELECT profile FROM user_profiles WHERE user_id = ?`, userID).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, suggest.ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying profile for user %s: %w", userID, err)
	}

	var profile suggest.UserProfile
	if err := json.Unmarshal([]byte(raw), &profile); err != nil {
		return nil, fmt.Errorf("decoding profile for user %s: %w", userID, err)
	}
	profile.UserID = userID
	return &profile, nil
}

// RecordView appends an item to the user's history. Repeated views update
// the timestamp.
func (s *SQLite) RecordView(ctx context.Context, userID, itemID string, at time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO user_history (user_id, item_id, viewed_at)
		VALUES (?, ?, ?)
		ON CONFLICT (user_id, item_id) DO UPDATE SET viewed_at = excluded.viewed_at`,
		userID, itemID, at)
	if err != nil {
		return fmt.Errorf("recording view of %s by %s: %w", itemID, userID, err)
	}
	return nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func scanStrings(rows *sql.Rows) ([]string, error) {
	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

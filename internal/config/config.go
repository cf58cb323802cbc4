// NLP Article Suggestion System - Corpus-Backed Content Ranking
// Copyright 2026 Eliot (Eliot6001)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Eliot6001/nlp-article-suggestion-system

package config

import (
	"fmt"
	"time"
)

// DefaultCategories is the global category list used when a user profile
// declares no preferred categories. It is injected into the engine as
// configuration, never read ambiently.
var DefaultCategories = []string{
	"Technology", "Culture", "Science", "History", "Geography",
	"Politics", "Economics", "Mathematics", "Literature",
	"Performing Arts", "Visual Arts", "Health & Wellness", "Sports",
	"Business & Finance", "Environment",
}

// Config is the root configuration for the suggestion service.
type Config struct {
	Server  ServerConfig  `koanf:"server"`
	Log     LogConfig     `koanf:"log"`
	Storage StorageConfig `koanf:"storage"`
	Corpus  CorpusConfig  `koanf:"corpus"`
	Suggest SuggestConfig `koanf:"suggest"`
	Cache   CacheConfig   `koanf:"cache"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the listen address.
	Host string `koanf:"host"`

	// Port is the listen port.
	Port int `koanf:"port"`

	// Timeout bounds request handling, including candidate fetches and
	// scoring. Cancelled requests are never cached.
	Timeout time.Duration `koanf:"timeout"`

	// RateLimitReqs / RateLimitWindow configure per-IP rate limiting.
	RateLimitReqs   int           `koanf:"rate_limit_reqs"`
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`

	// CORSOrigins lists allowed CORS origins.
	CORSOrigins []string `koanf:"cors_origins"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// StorageConfig holds persistence settings.
type StorageConfig struct {
	// BadgerPath is the directory for the BadgerDB store holding the
	// persisted cache and the persisted corpus model. Empty means
	// in-memory only (nothing survives restart).
	BadgerPath string `koanf:"badger_path"`

	// SQLitePath is the SQLite database file for the item and profile
	// stores.
	SQLitePath string `koanf:"sqlite_path"`
}

// CorpusConfig holds corpus maintenance settings.
type CorpusConfig struct {
	// InitialSize is the number of top-engaged items for the cold fit.
	InitialSize int `koanf:"initial_size"`

	// FetchSize is the number of top items fetched per incremental update.
	FetchSize int `koanf:"fetch_size"`

	// RefitThreshold is the minimum count of accumulated unseen documents
	// required before the vector-space model is recomputed.
	RefitThreshold int `koanf:"refit_threshold"`

	// RefreshInterval is the cadence of incremental corpus updates.
	RefreshInterval time.Duration `koanf:"refresh_interval"`
}

// SuggestConfig holds recommendation engine settings.
type SuggestConfig struct {
	// DefaultN is the result count when a request does not specify one.
	DefaultN int `koanf:"default_n"`

	// MaxN caps the result count per request.
	MaxN int `koanf:"max_n"`

	// ExplorationRatio is the default share of slots drawn from the
	// explore pool, in [0,1].
	ExplorationRatio float64 `koanf:"exploration_ratio"`

	// PerCategoryLimit is the default number of candidates fetched per
	// category.
	PerCategoryLimit int `koanf:"per_category_limit"`

	// DefaultCategories replaces a profile's preferred categories when it
	// declares none.
	DefaultCategories []string `koanf:"default_categories"`

	// FallbackCategory is used for the random-unseen fallback fetch when
	// the user has no preferred categories at all.
	FallbackCategory string `koanf:"fallback_category"`

	// FetchConcurrency bounds the parallel per-category candidate fetches.
	FetchConcurrency int `koanf:"fetch_concurrency"`
}

// CacheConfig holds recommendation cache settings.
type CacheConfig struct {
	// TTL bounds the validity of a cached recommendation list.
	TTL time.Duration `koanf:"ttl"`

	// MaxEntries caps the in-memory cache size; expired entries are
	// evicted once the cap is reached.
	MaxEntries int `koanf:"max_entries"`
}

// defaultConfig returns a Config with all default values. Defaults are
// applied first, then overridden by the config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			Timeout:         30 * time.Second,
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
			CORSOrigins:     []string{},
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Storage: StorageConfig{
			BadgerPath: "/data/suggestion/badger",
			SQLitePath: "/data/suggestion/articles.db",
		},
		Corpus: CorpusConfig{
			InitialSize:     1000,
			FetchSize:       100,
			RefitThreshold:  50,
			RefreshInterval: 8 * time.Hour,
		},
		Suggest: SuggestConfig{
			DefaultN:          20,
			MaxN:              100,
			ExplorationRatio:  0.2,
			PerCategoryLimit:  20,
			DefaultCategories: DefaultCategories,
			FallbackCategory:  "Technology",
			FetchConcurrency:  4,
		},
		Cache: CacheConfig{
			TTL:        2 * time.Hour,
			MaxEntries: 10000,
		},
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	validators := []func() error{
		c.validateServer,
		c.validateCorpus,
		c.validateSuggest,
		c.validateCache,
	}

	for _, validate := range validators {
		if err := validate(); err != nil {
			return err
		}
	}

	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1-65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("server.timeout must be positive, got %s", c.Server.Timeout)
	}
	return nil
}

func (c *Config) validateCorpus() error {
	if c.Corpus.InitialSize <= 0 {
		return fmt.Errorf("corpus.initial_size must be positive, got %d", c.Corpus.InitialSize)
	}
	if c.Corpus.FetchSize <= 0 {
		return fmt.Errorf("corpus.fetch_size must be positive, got %d", c.Corpus.FetchSize)
	}
	if c.Corpus.RefitThreshold < 1 {
		return fmt.Errorf("corpus.refit_threshold must be at least 1, got %d", c.Corpus.RefitThreshold)
	}
	if c.Corpus.RefreshInterval <= 0 {
		return fmt.Errorf("corpus.refresh_interval must be positive, got %s", c.Corpus.RefreshInterval)
	}
	return nil
}

func (c *Config) validateSuggest() error {
	if c.Suggest.DefaultN <= 0 {
		return fmt.Errorf("suggest.default_n must be positive, got %d", c.Suggest.DefaultN)
	}
	if c.Suggest.MaxN < c.Suggest.DefaultN {
		return fmt.Errorf("suggest.max_n (%d) must be >= suggest.default_n (%d)", c.Suggest.MaxN, c.Suggest.DefaultN)
	}
	if c.Suggest.ExplorationRatio < 0 || c.Suggest.ExplorationRatio > 1 {
		return fmt.Errorf("suggest.exploration_ratio must be in [0,1], got %f", c.Suggest.ExplorationRatio)
	}
	if c.Suggest.PerCategoryLimit <= 0 {
		return fmt.Errorf("suggest.per_category_limit must be positive, got %d", c.Suggest.PerCategoryLimit)
	}
	if len(c.Suggest.DefaultCategories) == 0 {
		return fmt.Errorf("suggest.default_categories must not be empty")
	}
	if c.Suggest.FallbackCategory == "" {
		return fmt.Errorf("suggest.fallback_category must not be empty")
	}
	if c.Suggest.FetchConcurrency <= 0 {
		return fmt.Errorf("suggest.fetch_concurrency must be positive, got %d", c.Suggest.FetchConcurrency)
	}
	return nil
}

func (c *Config) validateCache() error {
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("cache.ttl must be positive, got %s", c.Cache.TTL)
	}
	if c.Cache.MaxEntries <= 0 {
		return fmt.Errorf("cache.max_entries must be positive, got %d", c.Cache.MaxEntries)
	}
	return nil
}

// NLP Article Suggestion System - Corpus-Backed Content Ranking
// Copyright 2026 Eliot (Eliot6001)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Eliot6001/nlp-article-suggestion-system

// Package main is the entry point for the suggestion server.
//
// The server initializes components in the following order:
//
//  1. Configuration: defaults, config file, and environment (koanf v2)
//  2. Logging: zerolog with configured level and format
//  3. Storage: SQLite item/profile store and BadgerDB persistence
//  4. Corpus: vector-space model, reloaded from BadgerDB when the stored
//     document identity matches
//  5. Engine: exploit/explore recommendation pipeline with result cache
//  6. Supervision: corpus maintenance and HTTP server under a suture tree
//
// Graceful shutdown runs on SIGINT and SIGTERM: the HTTP server drains
// in-flight requests, then storage is closed.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/thejerf/suture/v4"
	"github.com/thejerf/sutureslog"

	"github.com/Eliot6001/nlp-article-suggestion-system/internal/api"
	"github.com/Eliot6001/nlp-article-suggestion-system/internal/cache"
	"github.com/Eliot6001/nlp-article-suggestion-system/internal/config"
	"github.com/Eliot6001/nlp-article-suggestion-system/internal/logging"
	"github.com/Eliot6001/nlp-article-suggestion-system/internal/store"
	"github.com/Eliot6001/nlp-article-suggestion-system/internal/suggest"
	"github.com/Eliot6001/nlp-article-suggestion-system/internal/suggest/corpus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// Config is not available yet, use the default logger.
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Caller: cfg.Log.Caller,
	})

	logging.Info().
		Str("sqlite_path", cfg.Storage.SQLitePath).
		Str("badger_path", cfg.Storage.BadgerPath).
		Int("port", cfg.Server.Port).
		Msg("Starting suggestion server")

	logger := logging.Logger()

	items, err := store.Open(cfg.Storage.SQLitePath, logger)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open item store")
	}
	defer func() {
		if err := items.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing item store")
		}
	}()

	var db *badger.DB
	if cfg.Storage.BadgerPath != "" {
		db, err = badger.Open(badger.DefaultOptions(cfg.Storage.BadgerPath).WithLogger(nil))
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to open badger store")
		}
		defer func() {
			if err := db.Close(); err != nil {
				logging.Error().Err(err).Msg("Error closing badger store")
			}
		}()
	} else {
		logging.Warn().Msg("No badger path configured, cache and model will not survive restarts")
	}

	breaker := store.NewBreakerStore(items, logger)
	corp := corpus.New(breaker, corpus.NewModelStore(db), logger)
	results := cache.New(cfg.Cache.TTL, cfg.Cache.MaxEntries, db, logger)

	engine, err := suggest.NewEngine(suggest.Config{
		DefaultN:          cfg.Suggest.DefaultN,
		MaxN:              cfg.Suggest.MaxN,
		ExplorationRatio:  cfg.Suggest.ExplorationRatio,
		PerCategoryLimit:  cfg.Suggest.PerCategoryLimit,
		DefaultCategories: cfg.Suggest.DefaultCategories,
		FallbackCategory:  cfg.Suggest.FallbackCategory,
		FetchConcurrency:  cfg.Suggest.FetchConcurrency,
		RefreshInterval:   cfg.Corpus.RefreshInterval,
	}, breaker, items, corp, results, logger)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create recommendation engine")
	}

	maintenance := suggest.MaintenanceConfig{
		InitialSize:    cfg.Corpus.InitialSize,
		FetchSize:      cfg.Corpus.FetchSize,
		RefitThreshold: cfg.Corpus.RefitThreshold,
		Interval:       cfg.Corpus.RefreshInterval,
	}

	handlers := api.NewHandlers(engine, corp, items, results, maintenance, logger)
	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           api.NewRouter(handlers, cfg.Server),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	handler := &sutureslog.Handler{Logger: logging.NewSlogLogger()}
	root := suture.New("suggestion-server", suture.Spec{
		EventHook:        handler.MustHook(),
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		Timeout:          10 * time.Second,
	})
	root.Add(suggest.NewCorpusService(corp, maintenance, logger))
	root.Add(api.NewServerService(server, 10*time.Second))

	logging.Info().Str("addr", server.Addr).Msg("Supervision tree starting")

	if err := <-root.ServeBackground(ctx); err != nil && ctx.Err() == nil {
		logging.Fatal().Err(err).Msg("Supervision tree failed")
	}

	logging.Info().Msg("Shutdown complete")
}

// NLP Article Suggestion System - Corpus-Backed Content Ranking
// Copyright 2026 Eliot (Eliot6001)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Eliot6001/nlp-article-suggestion-system

package suggest

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Maintainer is the corpus maintenance contract consumed by the background
// service. Implemented by the corpus package.
type Maintainer interface {
	// Initialize primes the corpus from the top engaged items.
	Initialize(ctx context.Context, topN int) error

	// IncrementalUpdate ingests new items and refits when the pending
	// threshold is crossed. Returns the number of items ingested.
	IncrementalUpdate(ctx context.Context, fetchN, refitThreshold int) (int, error)

	// Ready reports whether a fitted model is available.
	Ready() bool
}

// MaintenanceConfig holds the corpus maintenance schedule and sizes.
type MaintenanceConfig struct {
	InitialSize    int
	FetchSize      int
	RefitThreshold int
	Interval       time.Duration
}

// CorpusService is a supervised background worker that keeps the corpus
// model fresh. It initializes the corpus on startup and then runs
// incremental updates on a fixed interval until its context is canceled.
// Designed to run under a suture supervisor: a returned error triggers a
// supervised restart with backoff.
type CorpusService struct {
	corpus Maintainer
	cfg    MaintenanceConfig
	logger zerolog.Logger
}

// NewCorpusService creates the corpus maintenance service.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewCorpusService(corpus Maintainer, cfg MaintenanceConfig, logger zerolog.Logger) *CorpusService {
	return &CorpusService{
		corpus: corpus,
		cfg:    cfg,
		logger: logger.With().Str("service", "corpus-maintenance").Logger(),
	}
}

// Serve implements suture.Service.
func (s *CorpusService) Serve(ctx context.Context) error {
	if !s.corpus.Ready() {
		if err := s.corpus.Initialize(ctx, s.cfg.InitialSize); err != nil {
			s.logger.Error().Err(err).Msg("corpus initialization failed")
			return err
		}
	}

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	s.logger.Info().Dur("interval", s.cfg.Interval).Msg("corpus maintenance started")

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("corpus maintenance stopping")
			return ctx.Err()
		case <-ticker.C:
			added, err := s.corpus.IncrementalUpdate(ctx, s.cfg.FetchSize, s.cfg.RefitThreshold)
			if err != nil {
				s.logger.Warn().Err(err).Msg("incremental corpus update failed")
				continue
			}
			s.logger.Debug().Int("added", added).Msg("incremental corpus update complete")
		}
	}
}

// String implements fmt.Stringer for supervisor logging.
func (s *CorpusService) String() string {
	return "corpus-maintenance"
}

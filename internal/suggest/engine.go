// NLP Article Suggestion System - Corpus-Backed Content Ranking
// Copyright 2026 Eliot (Eliot6001)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Eliot6001/nlp-article-suggestion-system

package suggest

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/Eliot6001/nlp-article-suggestion-system/internal/metrics"
)

// Engine orchestrates candidate fetching, scoring, and the exploit/explore
// split. One Engine serves all users; concurrent calls for the same user and
// history are collapsed into a single computation.
type Engine struct {
	cfg      Config
	items    ItemStore
	profiles ProfileStore
	scorer   Scorer
	cache    ResultCache
	logger   zerolog.Logger
	flight   singleflight.Group

	// now is injectable for tests.
	now func() time.Time
}

// NewEngine wires the engine with its collaborators.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg Config, items ItemStore, profiles ProfileStore, scorer Scorer, cache ResultCache, logger zerolog.Logger) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid engine config: %w", err)
	}
	return &Engine{
		cfg:      cfg,
		items:    items,
		profiles: profiles,
		scorer:   scorer,
		cache:    cache,
		logger:   logger.With().Str("component", "suggest").Logger(),
		now:      time.Now,
	}, nil
}

// Recommend produces up to req.N ranked recommendations for req.UserID.
//
// The user's history is fingerprinted and used as the cache key together
// with the user ID, so a cached list is returned verbatim only while both
// user and history are unchanged. On a miss the full pipeline runs once per
// distinct (user, history) pair regardless of concurrent callers.
func (e *Engine) Recommend(ctx context.Context, req Request) ([]Recommendation, error) {
	start := e.now()
	req = e.prepareRequest(req)

	logger := e.logger.With().
		Str("request_id", req.RequestID).
		Str("user_id", req.UserID).
		Logger()

	history, err := e.items.FetchHistory(ctx, req.UserID)
	if err != nil {
		metrics.RequestsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("fetching history for user %s: %w", req.UserID, err)
	}

	hash := e.cache.Fingerprint(history)
	if recs, ok := e.cache.Lookup(req.UserID, hash, e.now()); ok {
		metrics.CacheHits.Inc()
		metrics.RequestsTotal.WithLabelValues("cache_hit").Inc()
		logger.Debug().Int("count", len(recs)).Msg("serving cached recommendations")
		return recs, nil
	}
	metrics.CacheMisses.Inc()

	flightKey := req.UserID + "-" + hash
	result, err, _ := e.flight.Do(flightKey, func() (any, error) {
		return e.compute(ctx, req, history, hash, logger)
	})
	if err != nil {
		metrics.RequestsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	recs, ok := result.([]Recommendation)
	if !ok {
		metrics.RequestsTotal.WithLabelValues("error").Inc()
		return nil, errors.New("unexpected computation result type")
	}

	metrics.RequestsTotal.WithLabelValues("ok").Inc()
	metrics.RequestDuration.Observe(e.now().Sub(start).Seconds())
	logger.Info().
		Int("count", len(recs)).
		Dur("elapsed", e.now().Sub(start)).
		Msg("recommendations generated")
	return recs, nil
}

// BatchRecommend generates recommendations for several users sequentially.
// Per-user failures are collected rather than aborting the batch.
func (e *Engine) BatchRecommend(ctx context.Context, userIDs []string, n int) (map[string][]Recommendation, error) {
	results := make(map[string][]Recommendation, len(userIDs))
	var errs []error
	for _, userID := range userIDs {
		recs, err := e.Recommend(ctx, Request{UserID: userID, N: n, ExplorationRatio: -1})
		if err != nil {
			if ctx.Err() != nil {
				return results, ctx.Err()
			}
			errs = append(errs, fmt.Errorf("user %s: %w", userID, err))
			continue
		}
		results[userID] = recs
	}
	return results, errors.Join(errs...)
}

// prepareRequest fills defaults and clamps request parameters to configured
// bounds. A negative exploration ratio selects the configured default; zero
// is a valid pure-exploitation request.
func (e *Engine) prepareRequest(req Request) Request {
	if req.RequestID == "" {
		req.RequestID = uuid.NewString()
	}
	if req.N <= 0 {
		req.N = e.cfg.DefaultN
	}
	if req.N > e.cfg.MaxN {
		req.N = e.cfg.MaxN
	}
	if req.ExplorationRatio < 0 {
		req.ExplorationRatio = e.cfg.ExplorationRatio
	}
	if req.ExplorationRatio > 1 {
		req.ExplorationRatio = 1
	}
	if req.PerCategoryLimit <= 0 {
		req.PerCategoryLimit = e.cfg.PerCategoryLimit
	}
	return req
}

// compute runs the full pipeline for one cache miss.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func (e *Engine) compute(ctx context.Context, req Request, history []string, hash string, logger zerolog.Logger) ([]Recommendation, error) {
	profile, err := e.loadProfile(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	exploitCats := profile.PreferredCategories
	if len(exploitCats) == 0 {
		exploitCats = e.cfg.DefaultCategories
	}

	exploreCats := e.exploreCategories(ctx, req.UserID, exploitCats, logger)

	seen := make(map[string]struct{}, len(history))
	for _, id := range history {
		seen[id] = struct{}{}
	}

	exploit, explore := e.fetchCandidates(ctx, req, exploitCats, exploreCats, seen, logger)

	ranked, err := e.rank(ctx, req, profile, exploit, explore)
	if err != nil {
		return nil, err
	}

	if len(ranked) < req.N {
		for _, r := range ranked {
			seen[r.ItemID] = struct{}{}
		}
		extra, ferr := e.fallback(ctx, req, req.N-len(ranked), exploitCats, seen, logger)
		if ferr != nil {
			if len(ranked) == 0 {
				return nil, ferr
			}
			logger.Warn().Err(ferr).Msg("fallback fetch failed, returning partial result")
		}
		ranked = append(ranked, extra...)
	}

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	e.cache.Store(req.UserID, hash, ranked, e.now())
	return ranked, nil
}

// loadProfile resolves the user profile. An absent profile is treated as an
// empty one so that new users still get default-category exploration.
func (e *Engine) loadProfile(ctx context.Context, userID string) (*UserProfile, error) {
	profile, err := e.profiles.GetProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			return &UserProfile{UserID: userID}, nil
		}
		return nil, fmt.Errorf("loading profile for user %s: %w", userID, err)
	}
	return profile, nil
}

// exploreCategories derives the explore pool's categories: categories found
// in the user's history that are not already in the exploit set. A history
// lookup failure degrades to an empty explore set.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func (e *Engine) exploreCategories(ctx context.Context, userID string, exploitCats []string, logger zerolog.Logger) []string {
	histCats, err := e.items.FetchHistoryCategories(ctx, userID)
	if err != nil {
		logger.Warn().Err(err).Msg("fetching history categories failed, skipping exploration sources")
		return nil
	}

	inExploit := make(map[string]struct{}, len(exploitCats))
	for _, c := range exploitCats {
		inExploit[c] = struct{}{}
	}

	var explore []string
	for _, c := range histCats {
		if _, ok := inExploit[c]; !ok {
			explore = append(explore, c)
		}
	}
	return explore
}

// fetchCandidates performs the bounded concurrent per-category fetches for
// both pools. Per-category failures are logged and the category skipped; the
// fetch order of categories is preserved in the returned slices so that
// downstream tie-breaking is deterministic. Items in the user's history and
// duplicates across categories are dropped, first occurrence winning, with
// the exploit pool taking precedence over explore.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func (e *Engine) fetchCandidates(ctx context.Context, req Request, exploitCats, exploreCats []string, seen map[string]struct{}, logger zerolog.Logger) (exploit, explore []Item) {
	exploitResults := make([][]Item, len(exploitCats))
	exploreResults := make([][]Item, len(exploreCats))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.FetchConcurrency)

	fetch := func(category string, slot *[]Item) {
		g.Go(func() error {
			items, err := e.items.FetchUnseen(gctx, req.UserID, category, req.PerCategoryLimit)
			if err != nil {
				metrics.CandidateFetchErrors.WithLabelValues(category).Inc()
				ferr := &FetchError{Category: category, Err: err}
				logger.Warn().Err(ferr).Msg("candidate fetch failed, skipping category")
				return nil
			}
			*slot = items
			return nil
		})
	}

	for i, c := range exploitCats {
		fetch(c, &exploitResults[i])
	}
	for i, c := range exploreCats {
		fetch(c, &exploreResults[i])
	}
	// Workers absorb their own errors, so Wait only synchronizes.
	_ = g.Wait()

	taken := make(map[string]struct{}, len(seen))
	for id := range seen {
		taken[id] = struct{}{}
	}

	dedupe := func(results [][]Item) []Item {
		var out []Item
		for _, items := range results {
			for _, item := range items {
				if _, dup := taken[item.ID]; dup {
					continue
				}
				taken[item.ID] = struct{}{}
				out = append(out, item)
			}
		}
		return out
	}

	exploit = dedupe(exploitResults)
	explore = dedupe(exploreResults)
	return exploit, explore
}

// rank scores both pools in a single pass against one model snapshot, sorts
// each pool, applies the exploit quota, and backfills shortfalls from the
// merged remainder in score order.
func (e *Engine) rank(ctx context.Context, req Request, profile *UserProfile, exploit, explore []Item) ([]Recommendation, error) {
	if len(exploit) == 0 && len(explore) == 0 {
		return nil, nil
	}

	union := make([]Item, 0, len(exploit)+len(explore))
	union = append(union, exploit...)
	union = append(union, explore...)

	scores, err := e.scorer.Score(ctx, profile, union)
	if err != nil {
		return nil, fmt.Errorf("scoring %d candidates: %w", len(union), err)
	}

	exploitRecs := toRecommendations(union[:len(exploit)], scores[:len(exploit)])
	exploreRecs := toRecommendations(union[len(exploit):], scores[len(exploit):])

	// Stable sort keeps fetch order among equal scores.
	sortByScore(exploitRecs)
	sortByScore(exploreRecs)

	// Quotas are fixed by the ratio; pool shortfalls are made up from the
	// merged remainder below, not by silently widening the other quota.
	nExploit := int(math.Floor(float64(req.N) * (1 - req.ExplorationRatio)))
	nExplore := req.N - nExploit
	if nExploit > len(exploitRecs) {
		nExploit = len(exploitRecs)
	}
	if nExplore > len(exploreRecs) {
		nExplore = len(exploreRecs)
	}

	result := make([]Recommendation, 0, req.N)
	result = append(result, exploitRecs[:nExploit]...)
	result = append(result, exploreRecs[:nExplore]...)

	if len(result) < req.N {
		remainder := make([]Recommendation, 0, len(exploitRecs)+len(exploreRecs)-len(result))
		remainder = append(remainder, exploitRecs[nExploit:]...)
		remainder = append(remainder, exploreRecs[nExplore:]...)
		sortByScore(remainder)

		missing := req.N - len(result)
		if missing > len(remainder) {
			missing = len(remainder)
		}
		result = append(result, remainder[:missing]...)
	}

	return result, nil
}

// fallback tops up a shortfall with random unseen items served at score
// zero. The first exploit category is used as the source, or the configured
// fallback category when the user has no category signal. Items already in
// the exclude set are skipped, so the fill may come up short of need.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func (e *Engine) fallback(ctx context.Context, req Request, need int, exploitCats []string, exclude map[string]struct{}, logger zerolog.Logger) ([]Recommendation, error) {
	category := e.cfg.FallbackCategory
	if len(exploitCats) > 0 {
		category = exploitCats[0]
	}

	metrics.FallbacksTotal.Inc()
	logger.Info().
		Str("category", category).
		Int("missing", need).
		Msg("shortfall after ranking, serving random fallback")

	items, err := e.items.FetchRandomUnseen(ctx, req.UserID, category, need)
	if err != nil {
		return nil, fmt.Errorf("fallback fetch from category %s: %w", category, err)
	}

	recs := make([]Recommendation, 0, need)
	for _, item := range items {
		if _, dup := exclude[item.ID]; dup {
			continue
		}
		if len(recs) == need {
			break
		}
		recs = append(recs, Recommendation{
			ItemID:   item.ID,
			Title:    item.Title,
			Category: item.Category,
			Score:    0,
		})
	}
	return recs, nil
}

func toRecommendations(items []Item, scores []float64) []Recommendation {
	recs := make([]Recommendation, len(items))
	for i, item := range items {
		recs[i] = Recommendation{
			ItemID:   item.ID,
			Title:    item.Title,
			Category: item.Category,
			Score:    scores[i],
		}
	}
	return recs
}

func sortByScore(recs []Recommendation) {
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Score > recs[j].Score
	})
}

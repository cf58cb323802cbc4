// NLP Article Suggestion System - Corpus-Backed Content Ranking
// Copyright 2026 Eliot (Eliot6001)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Eliot6001/nlp-article-suggestion-system

package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/Eliot6001/nlp-article-suggestion-system/internal/suggest"
	"github.com/Eliot6001/nlp-article-suggestion-system/internal/suggest/corpus"
	"github.com/Eliot6001/nlp-article-suggestion-system/internal/validation"
)

// Recommender is the engine contract consumed by the handlers.
type Recommender interface {
	Recommend(ctx context.Context, req suggest.Request) ([]suggest.Recommendation, error)
}

// CorpusController exposes corpus state and manual maintenance to the admin
// endpoints.
type CorpusController interface {
	Status() corpus.Status
	IncrementalUpdate(ctx context.Context, fetchN, refitThreshold int) (int, error)
}

// ViewRecorder appends items to a user's history.
type ViewRecorder interface {
	RecordView(ctx context.Context, userID, itemID string, at time.Time) error
}

// ResultInvalidator drops a user's cached recommendations.
type ResultInvalidator interface {
	InvalidateUser(userID string)
}

// Handlers holds the HTTP handlers and their collaborators.
type Handlers struct {
	engine  Recommender
	corpus  CorpusController
	views   ViewRecorder
	results ResultInvalidator
	refresh suggest.MaintenanceConfig
	logger  zerolog.Logger
}

// NewHandlers creates the handler set.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewHandlers(engine Recommender, corpusCtl CorpusController, views ViewRecorder, results ResultInvalidator, refresh suggest.MaintenanceConfig, logger zerolog.Logger) *Handlers {
	return &Handlers{
		engine:  engine,
		corpus:  corpusCtl,
		views:   views,
		results: results,
		refresh: refresh,
		logger:  logger.With().Str("component", "api").Logger(),
	}
}

// recommendationParams are the validated query parameters of the
// recommendations endpoint.
type recommendationParams struct {
	N                int     `validate:"gte=0,lte=1000"`
	ExplorationRatio float64 `validate:"gte=-1,lte=1"`
	PerCategoryLimit int     `validate:"gte=0,lte=1000"`
}

// GetRecommendations handles GET /api/v1/users/{userID}/recommendations.
//
// Query parameters: n (result count), exploration (ratio in [0,1]),
// per_category (per-category candidate limit). Unset parameters fall back
// to configured defaults.
func (h *Handlers) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if userID == "" {
		respondError(w, http.StatusBadRequest, "user ID is required")
		return
	}

	params, err := parseRecommendationParams(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	recs, err := h.engine.Recommend(r.Context(), suggest.Request{
		UserID:           userID,
		N:                params.N,
		ExplorationRatio: params.ExplorationRatio,
		PerCategoryLimit: params.PerCategoryLimit,
	})
	if err != nil {
		h.writeRecommendError(w, userID, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"user_id":         userID,
		"recommendations": recs,
		"count":           len(recs),
	})
}

func (h *Handlers) writeRecommendError(w http.ResponseWriter, userID string, err error) {
	switch {
	case errors.Is(err, suggest.ErrCorpusNotReady):
		respondError(w, http.StatusServiceUnavailable, "recommendation model is not ready yet")
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		respondError(w, http.StatusGatewayTimeout, "request timed out")
	default:
		h.logger.Error().Str("user_id", userID).Err(err).Msg("recommendation request failed")
		respondError(w, http.StatusInternalServerError, "failed to generate recommendations")
	}
}

// GetCorpusStatus handles GET /api/v1/corpus/status.
func (h *Handlers) GetCorpusStatus(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, h.corpus.Status())
}

// RefreshCorpus handles POST /api/v1/corpus/refresh, forcing an incremental
// update outside the background schedule.
func (h *Handlers) RefreshCorpus(w http.ResponseWriter, r *http.Request) {
	added, err := h.corpus.IncrementalUpdate(r.Context(), h.refresh.FetchSize, h.refresh.RefitThreshold)
	if err != nil {
		h.logger.Error().Err(err).Msg("manual corpus refresh failed")
		respondError(w, http.StatusInternalServerError, "corpus refresh failed")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"added":  added,
		"status": h.corpus.Status(),
	})
}

// viewRequest is the JSON body of the view-recording endpoint.
type viewRequest struct {
	ItemID string `json:"item_id" validate:"required"`
}

// RecordView handles POST /api/v1/users/{userID}/views. Recording a view
// changes the user's history, so their cached recommendations are dropped.
func (h *Handlers) RecordView(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if userID == "" {
		respondError(w, http.StatusBadRequest, "user ID is required")
		return
	}

	var body viewRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "request body must be JSON")
		return
	}
	if err := validation.Struct(body); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.views.RecordView(r.Context(), userID, body.ItemID, time.Now()); err != nil {
		h.logger.Error().
			Str("user_id", userID).
			Str("item_id", body.ItemID).
			Err(err).
			Msg("recording view failed")
		respondError(w, http.StatusInternalServerError, "failed to record view")
		return
	}
	h.results.InvalidateUser(userID)

	respondJSON(w, http.StatusCreated, map[string]string{
		"user_id": userID,
		"item_id": body.ItemID,
	})
}

// Healthz handles GET /healthz.
func (h *Handlers) Healthz(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func parseRecommendationParams(r *http.Request) (recommendationParams, error) {
	// A negative ratio means "use the configured default"; zero is a valid
	// pure-exploitation request, so absence must stay distinguishable.
	params := recommendationParams{ExplorationRatio: -1}
	q := r.URL.Query()

	if raw := q.Get("n"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return params, errors.New("parameter n must be an integer")
		}
		params.N = n
	}
	if raw := q.Get("exploration"); raw != "" {
		ratio, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return params, errors.New("parameter exploration must be a number")
		}
		if ratio < 0 || ratio > 1 {
			return params, errors.New("parameter exploration must be in [0, 1]")
		}
		params.ExplorationRatio = ratio
	}
	if raw := q.Get("per_category"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return params, errors.New("parameter per_category must be an integer")
		}
		params.PerCategoryLimit = limit
	}

	if err := validation.Struct(params); err != nil {
		return params, err
	}
	return params, nil
}

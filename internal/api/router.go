// NLP Article Suggestion System - Corpus-Backed Content Ranking
// Copyright 2026 Eliot (Eliot6001)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Eliot6001/nlp-article-suggestion-system

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Eliot6001/nlp-article-suggestion-system/internal/config"
)

// NewRouter assembles the HTTP router with the standard middleware stack.
func NewRouter(h *Handlers, cfg config.ServerConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.Timeout))

	if len(cfg.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.CORSOrigins,
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}

	if cfg.RateLimitReqs > 0 {
		r.Use(httprate.LimitByIP(cfg.RateLimitReqs, cfg.RateLimitWindow))
	}

	r.Get("/healthz", h.Healthz)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/users/{userID}/recommendations", h.GetRecommendations)
		r.Post("/users/{userID}/views", h.RecordView)
		r.Route("/corpus", func(r chi.Router) {
			r.Get("/status", h.GetCorpusStatus)
			r.Post("/refresh", h.RefreshCorpus)
		})
	})

	return r
}

// NLP Article Suggestion System - Corpus-Backed Content Ranking
// Copyright 2026 Eliot (Eliot6001)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Eliot6001/nlp-article-suggestion-system

package api

import (
	"net/http"

	"github.com/goccy/go-json"

	"github.com/Eliot6001/nlp-article-suggestion-system/internal/logging"
)

// APIResponse is the uniform JSON envelope for all endpoints.
type APIResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(APIResponse{Success: true, Data: data}); err != nil {
		logging.Error().Err(err).Msg("encoding response failed")
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(APIResponse{Success: false, Error: message}); err != nil {
		logging.Error().Err(err).Msg("encoding error response failed")
	}
}

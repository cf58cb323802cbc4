// NLP Article Suggestion System - Corpus-Backed Content Ranking
// Copyright 2026 Eliot (Eliot6001)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Eliot6001/nlp-article-suggestion-system

// Package config provides layered configuration for the suggestion service
// using koanf: struct defaults, an optional YAML file, and SUGGEST_-prefixed
// environment variables, in ascending priority.
package config

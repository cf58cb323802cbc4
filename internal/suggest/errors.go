// NLP Article Suggestion System - Corpus-Backed Content Ranking
// Copyright 2026 Eliot (Eliot6001)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Eliot6001/nlp-article-suggestion-system

package suggest

import (
	"errors"
	"fmt"
)

// ErrCorpusNotReady indicates no fitted vector-space model exists yet. The
// scorer refuses to score rather than silently returning zeros; callers see
// this as a distinct failure.
var ErrCorpusNotReady = errors.New("corpus model not fitted")

// ErrProfileNotFound indicates the profile store has no profile for the user.
// The engine treats this as an empty profile, not a failure.
var ErrProfileNotFound = errors.New("user profile not found")

// FetchError is a transient failure fetching candidates for one category.
// It is absorbed locally: the category is skipped, logged, and the request
// continues.
type FetchError struct {
	Category string
	Err      error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch candidates for category %q: %v", e.Category, e.Err)
}

// Unwrap returns the underlying error.
func (e *FetchError) Unwrap() error {
	return e.Err
}

// NLP Article Suggestion System - Corpus-Backed Content Ranking
// Copyright 2026 Eliot (Eliot6001)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Eliot6001/nlp-article-suggestion-system

package corpus

import (
	"context"
	"sort"
	"strings"

	"github.com/Eliot6001/nlp-article-suggestion-system/internal/suggest"
)

// Compile-time check that Corpus implements the engine's scorer contract.
var _ suggest.Scorer = (*Corpus)(nil)

// Score projects the user profile and each candidate item into the fitted
// vector space and returns the cosine similarity per candidate,
// order-preserving, each in [0,1]. It reads one consistent model snapshot
// for the whole batch and never mutates corpus state. A candidate with
// malformed metadata degrades to an empty document (scoring at or near
// zero). When no fitted model exists it returns suggest.ErrCorpusNotReady
// rather than silently returning zeros.
func (c *Corpus) Score(ctx context.Context, profile *suggest.UserProfile, items []suggest.Item) ([]float64, error) {
	model := c.model.Load()
	if model == nil {
		return nil, suggest.ErrCorpusNotReady
	}

	userVec := model.Vectorizer.Transform(buildProfileText(profile))

	scores := make([]float64, len(items))
	for i := range items {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		itemVec := model.Vectorizer.Transform(BuildDocument(items[i].Metadata))
		scores[i] = Cosine(userVec, itemVec)
	}

	return scores, nil
}

// buildProfileText joins the keys of the profile's keyword, topic, and
// entity maps into one text. Only key membership is projected; the interest
// weights do not participate. Keys are sorted so the projection is
// reproducible.
func buildProfileText(profile *suggest.UserProfile) string {
	if profile == nil {
		return ""
	}

	parts := make([]string, 0, len(profile.Keywords)+len(profile.Topics)+len(profile.Entities))
	parts = append(parts, sortedKeys(profile.Keywords)...)
	parts = append(parts, sortedKeys(profile.Topics)...)
	parts = append(parts, sortedKeys(profile.Entities)...)

	return strings.Join(parts, " ")
}

// sortedKeys returns the map keys in sorted order.
func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

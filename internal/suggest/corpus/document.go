// NLP Article Suggestion System - Corpus-Backed Content Ranking
// Copyright 2026 Eliot (Eliot6001)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Eliot6001/nlp-article-suggestion-system

package corpus

import (
	"strings"

	"github.com/Eliot6001/nlp-article-suggestion-system/internal/suggest"
)

// BuildDocument flattens item metadata into a single text in a fixed order:
// keyword terms, topic labels, entity names, then the summary/body text.
// Malformed components (wrong shape, non-string values) are silently omitted
// so that one bad item never aborts building representations for the rest of
// a batch. Identical input always yields identical output; the corpus
// identity hash depends on that.
func BuildDocument(meta suggest.Metadata) string {
	parts := make([]string, 0, len(meta.Keywords)+len(meta.Topics)+len(meta.Entities)+1)

	for _, kw := range meta.Keywords {
		if term := keywordTerm(kw); term != "" {
			parts = append(parts, term)
		}
	}
	for _, t := range meta.Topics {
		if name := labelName(t); name != "" {
			parts = append(parts, name)
		}
	}
	for _, e := range meta.Entities {
		if name := labelName(e); name != "" {
			parts = append(parts, name)
		}
	}
	if meta.Summary != "" {
		parts = append(parts, meta.Summary)
	}

	return strings.Join(parts, " ")
}

// keywordTerm extracts the term from a keyword element: a plain string, or
// the first element of a weighted [term, weight] pair.
func keywordTerm(v any) string {
	switch kw := v.(type) {
	case string:
		return kw
	case []any:
		if len(kw) == 0 {
			return ""
		}
		if term, ok := kw[0].(string); ok {
			return term
		}
	}
	return ""
}

// labelName extracts the name from a topic or entity element: a plain string,
// or the "name" field of an object.
func labelName(v any) string {
	switch label := v.(type) {
	case string:
		return label
	case map[string]any:
		if name, ok := label["name"].(string); ok {
			return name
		}
	}
	return ""
}

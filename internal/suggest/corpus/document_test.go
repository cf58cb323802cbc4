// NLP Article Suggestion System - Corpus-Backed Content Ranking
// Copyright 2026 Eliot (Eliot6001)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Eliot6001/nlp-article-suggestion-system

package corpus

import (
	"testing"

	"github.com/Eliot6001/nlp-article-suggestion-system/internal/suggest"
)

func TestBuildDocument(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		meta suggest.Metadata
		want string
	}{
		{
			name: "plain string components in fixed order",
			meta: suggest.Metadata{
				Keywords: []any{"golang", "channels"},
				Topics:   []any{"programming"},
				Entities: []any{"Google"},
				Summary:  "an introduction to concurrency",
			},
			want: "golang channels programming Google an introduction to concurrency",
		},
		{
			name: "weighted keyword pairs use the term",
			meta: suggest.Metadata{
				Keywords: []any{[]any{"golang", 0.9}, []any{"channels", 0.5}},
			},
			want: "golang channels",
		},
		{
			name: "topic and entity objects use the name field",
			meta: suggest.Metadata{
				Topics:   []any{map[string]any{"name": "programming", "confidence": 0.8}},
				Entities: []any{map[string]any{"name": "Google"}},
			},
			want: "programming Google",
		},
		{
			name: "malformed components are omitted",
			meta: suggest.Metadata{
				Keywords: []any{42, []any{}, []any{7, 0.5}, "kept"},
				Topics:   []any{map[string]any{"label": "no name key"}, 3.14},
				Entities: []any{nil},
				Summary:  "tail",
			},
			want: "kept tail",
		},
		{
			name: "empty metadata yields empty document",
			meta: suggest.Metadata{},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := BuildDocument(tt.meta); got != tt.want {
				t.Errorf("BuildDocument() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBuildDocumentDeterministic(t *testing.T) {
	t.Parallel()

	meta := suggest.Metadata{
		Keywords: []any{[]any{"raft", 0.9}, "consensus"},
		Topics:   []any{map[string]any{"name": "distributed systems"}},
		Summary:  "leader election",
	}

	first := BuildDocument(meta)
	for i := 0; i < 5; i++ {
		if got := BuildDocument(meta); got != first {
			t.Fatalf("BuildDocument run %d = %q, want %q", i, got, first)
		}
	}
}

// NLP Article Suggestion System - Corpus-Backed Content Ranking
// Copyright 2026 Eliot (Eliot6001)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Eliot6001/nlp-article-suggestion-system

package corpus

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"

	"github.com/Eliot6001/nlp-article-suggestion-system/internal/suggest"
)

// mockSource implements Source for testing.
type mockSource struct {
	topIDs      []string
	meta        map[string]suggest.Metadata
	bodies      map[string]string
	topErr      error
	metaErr     error
	bodyErrs    map[string]error
	fetchTopMax int
}

func (m *mockSource) FetchTopEngaged(ctx context.Context, n int) ([]string, error) {
	if m.topErr != nil {
		return nil, m.topErr
	}
	m.fetchTopMax = n
	if len(m.topIDs) > n {
		return m.topIDs[:n], nil
	}
	return m.topIDs, nil
}

func (m *mockSource) FetchMetadata(ctx context.Context, ids []string) (map[string]suggest.Metadata, error) {
	if m.metaErr != nil {
		return nil, m.metaErr
	}
	out := make(map[string]suggest.Metadata)
	for _, id := range ids {
		if meta, ok := m.meta[id]; ok {
			out[id] = meta
		}
	}
	return out, nil
}

func (m *mockSource) FetchBody(ctx context.Context, id string) (string, error) {
	if err, ok := m.bodyErrs[id]; ok {
		return "", err
	}
	return m.bodies[id], nil
}

func sourceWithItems(ids ...string) *mockSource {
	src := &mockSource{
		meta:   make(map[string]suggest.Metadata),
		bodies: make(map[string]string),
	}
	for i, id := range ids {
		src.topIDs = append(src.topIDs, id)
		src.meta[id] = suggest.Metadata{
			Keywords: []any{fmt.Sprintf("keyword%d", i), "shared"},
			Summary:  fmt.Sprintf("summary of item %s", id),
		}
	}
	return src
}

func testCorpus(src Source) *Corpus {
	return New(src, NewModelStore(nil), zerolog.Nop())
}

func TestInitialize(t *testing.T) {
	t.Parallel()

	src := sourceWithItems("a", "b", "c")
	c := testCorpus(src)

	if c.Ready() {
		t.Fatal("Ready() = true before initialization")
	}

	if err := c.Initialize(context.Background(), 100); err != nil {
		t.Fatalf("Initialize() error: %v", err)
	}

	if !c.Ready() {
		t.Fatal("Ready() = false after initialization")
	}
	st := c.Status()
	if st.Documents != 3 || st.FittedOn != 3 || !st.Fitted {
		t.Errorf("Status() = %+v, want 3 documents fitted", st)
	}
}

func TestInitializeIsNotAReset(t *testing.T) {
	t.Parallel()

	src := sourceWithItems("a", "b")
	c := testCorpus(src)

	if err := c.Initialize(context.Background(), 100); err != nil {
		t.Fatalf("Initialize() error: %v", err)
	}
	hash := c.Status().IDHash

	// A second call must leave the corpus untouched.
	src.topIDs = []string{"x"}
	src.meta["x"] = suggest.Metadata{Summary: "new item"}
	if err := c.Initialize(context.Background(), 100); err != nil {
		t.Fatalf("second Initialize() error: %v", err)
	}

	st := c.Status()
	if st.Documents != 2 || st.IDHash != hash {
		t.Errorf("second Initialize changed corpus: %+v", st)
	}
}

func TestInitializeEmptySource(t *testing.T) {
	t.Parallel()

	c := testCorpus(sourceWithItems())
	if err := c.Initialize(context.Background(), 100); err != nil {
		t.Fatalf("Initialize() on empty source error: %v", err)
	}
	if c.Ready() {
		t.Error("Ready() = true with no documents")
	}
}

func TestInitializeFetchFailure(t *testing.T) {
	t.Parallel()

	src := sourceWithItems("a")
	src.topErr = errors.New("store down")
	c := testCorpus(src)

	if err := c.Initialize(context.Background(), 100); err == nil {
		t.Fatal("Initialize() = nil error, want fetch failure")
	}
	if c.Ready() {
		t.Error("Ready() = true after failed initialization")
	}
}

func TestInitializeSkipsFailingItems(t *testing.T) {
	t.Parallel()

	src := sourceWithItems("a", "b", "c")
	src.bodyErrs = map[string]error{"b": errors.New("body missing")}
	delete(src.meta, "c")
	c := testCorpus(src)

	if err := c.Initialize(context.Background(), 100); err != nil {
		t.Fatalf("Initialize() error: %v", err)
	}
	if st := c.Status(); st.Documents != 1 {
		t.Errorf("Documents = %d, want 1 (b and c excluded)", st.Documents)
	}
}

func TestIncrementalUpdateHoldsRefitBelowThreshold(t *testing.T) {
	t.Parallel()

	src := sourceWithItems("a")
	c := testCorpus(src)
	if err := c.Initialize(context.Background(), 100); err != nil {
		t.Fatalf("Initialize() error: %v", err)
	}
	initialHash := c.Status().IDHash

	// 49 new documents with threshold 50: appended, not refitted.
	ids := []string{"a"}
	for i := 0; i < 49; i++ {
		id := fmt.Sprintf("new%02d", i)
		ids = append(ids, id)
		src.meta[id] = suggest.Metadata{Summary: fmt.Sprintf("text %d", i)}
	}
	src.topIDs = ids

	added, err := c.IncrementalUpdate(context.Background(), 1000, 50)
	if err != nil {
		t.Fatalf("IncrementalUpdate() error: %v", err)
	}
	if added != 49 {
		t.Fatalf("added = %d, want 49", added)
	}

	st := c.Status()
	if st.Documents != 50 {
		t.Errorf("Documents = %d, want 50", st.Documents)
	}
	if st.Pending != 49 {
		t.Errorf("Pending = %d, want 49", st.Pending)
	}
	if st.IDHash != initialHash {
		t.Error("model refitted below threshold")
	}
	if st.FittedOn != 1 {
		t.Errorf("FittedOn = %d, want 1 (stale model still serving)", st.FittedOn)
	}
}

func TestIncrementalUpdateRefitsAtThreshold(t *testing.T) {
	t.Parallel()

	src := sourceWithItems("a")
	c := testCorpus(src)
	if err := c.Initialize(context.Background(), 100); err != nil {
		t.Fatalf("Initialize() error: %v", err)
	}
	initialHash := c.Status().IDHash

	// Accumulate 49 pending across calls, then one more crosses the
	// threshold and triggers exactly one refit.
	ids := []string{"a"}
	for i := 0; i < 49; i++ {
		id := fmt.Sprintf("new%02d", i)
		ids = append(ids, id)
		src.meta[id] = suggest.Metadata{Summary: fmt.Sprintf("text %d", i)}
	}
	src.topIDs = ids
	if _, err := c.IncrementalUpdate(context.Background(), 1000, 50); err != nil {
		t.Fatalf("first IncrementalUpdate() error: %v", err)
	}

	src.topIDs = append(ids, "final")
	src.meta["final"] = suggest.Metadata{Summary: "the fiftieth document"}

	added, err := c.IncrementalUpdate(context.Background(), 1000, 50)
	if err != nil {
		t.Fatalf("second IncrementalUpdate() error: %v", err)
	}
	if added != 1 {
		t.Fatalf("added = %d, want 1", added)
	}

	st := c.Status()
	if st.Pending != 0 {
		t.Errorf("Pending = %d, want 0 after refit", st.Pending)
	}
	if st.FittedOn != 51 {
		t.Errorf("FittedOn = %d, want 51", st.FittedOn)
	}
	if st.IDHash == initialHash {
		t.Error("model not refitted at threshold")
	}
}

func TestIncrementalUpdateIgnoresKnownIDs(t *testing.T) {
	t.Parallel()

	src := sourceWithItems("a", "b")
	c := testCorpus(src)
	if err := c.Initialize(context.Background(), 100); err != nil {
		t.Fatalf("Initialize() error: %v", err)
	}

	added, err := c.IncrementalUpdate(context.Background(), 1000, 1)
	if err != nil {
		t.Fatalf("IncrementalUpdate() error: %v", err)
	}
	if added != 0 {
		t.Errorf("added = %d, want 0 for already-known IDs", added)
	}
	if st := c.Status(); st.Pending != 0 {
		t.Errorf("Pending = %d, want 0", st.Pending)
	}
}

func TestIdentityHashOrderIndependent(t *testing.T) {
	t.Parallel()

	a := identityHash([]string{"x", "y", "z"})
	b := identityHash([]string{"z", "x", "y"})
	if a != b {
		t.Errorf("identityHash order-dependent: %s != %s", a, b)
	}

	c := identityHash([]string{"x", "y"})
	if a == c {
		t.Error("identityHash collided for different ID sets")
	}
}

func TestModelPersistenceRoundTrip(t *testing.T) {
	t.Parallel()

	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLogger(nil))
	if err != nil {
		t.Fatalf("opening badger: %v", err)
	}
	defer db.Close()

	src := sourceWithItems("a", "b", "c")
	first := New(src, NewModelStore(db), zerolog.Nop())
	if err := first.Initialize(context.Background(), 100); err != nil {
		t.Fatalf("Initialize() error: %v", err)
	}
	firstStatus := first.Status()

	// A second corpus over the same composition reloads the stored model
	// instead of fitting again.
	second := New(src, NewModelStore(db), zerolog.Nop())
	if err := second.Initialize(context.Background(), 100); err != nil {
		t.Fatalf("second Initialize() error: %v", err)
	}

	secondStatus := second.Status()
	if secondStatus.IDHash != firstStatus.IDHash {
		t.Errorf("reloaded IDHash = %s, want %s", secondStatus.IDHash, firstStatus.IDHash)
	}
	if !secondStatus.FittedAt.Equal(firstStatus.FittedAt) {
		t.Errorf("reloaded FittedAt = %s, want stored %s (model must be reused, not refitted)",
			secondStatus.FittedAt, firstStatus.FittedAt)
	}
}

func TestModelStoreNilDB(t *testing.T) {
	t.Parallel()

	ms := NewModelStore(nil)
	if m, err := ms.Load(); err != nil || m != nil {
		t.Errorf("Load() on nil db = (%v, %v), want (nil, nil)", m, err)
	}
	if err := ms.Save(&Model{Vectorizer: FitVectorizer([]string{"doc"})}); err != nil {
		t.Errorf("Save() on nil db error: %v", err)
	}
}

// NLP Article Suggestion System - Corpus-Backed Content Ranking
// Copyright 2026 Eliot (Eliot6001)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Eliot6001/nlp-article-suggestion-system

package suggest

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

// mockMaintainer implements Maintainer for testing.
type mockMaintainer struct {
	ready       atomic.Bool
	initCalls   atomic.Int32
	updateCalls atomic.Int32
	initErr     error
	updateErr   error
}

func (m *mockMaintainer) Initialize(ctx context.Context, topN int) error {
	m.initCalls.Add(1)
	if m.initErr != nil {
		return m.initErr
	}
	m.ready.Store(true)
	return nil
}

func (m *mockMaintainer) IncrementalUpdate(ctx context.Context, fetchN, refitThreshold int) (int, error) {
	m.updateCalls.Add(1)
	if m.updateErr != nil {
		return 0, m.updateErr
	}
	return 1, nil
}

func (m *mockMaintainer) Ready() bool {
	return m.ready.Load()
}

func serviceConfig(interval time.Duration) MaintenanceConfig {
	return MaintenanceConfig{
		InitialSize:    100,
		FetchSize:      10,
		RefitThreshold: 5,
		Interval:       interval,
	}
}

func TestCorpusServiceInitializesAndUpdates(t *testing.T) {
	t.Parallel()

	m := &mockMaintainer{}
	svc := NewCorpusService(m, serviceConfig(10*time.Millisecond), zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	deadline := time.After(2 * time.Second)
	for m.updateCalls.Load() < 2 {
		select {
		case <-deadline:
			t.Fatal("timed out waiting for incremental updates")
		case <-time.After(5 * time.Millisecond):
		}
	}
	cancel()

	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("Serve() returned %v, want context.Canceled", err)
	}
	if m.initCalls.Load() != 1 {
		t.Errorf("Initialize called %d times, want 1", m.initCalls.Load())
	}
}

func TestCorpusServiceSkipsInitializeWhenReady(t *testing.T) {
	t.Parallel()

	m := &mockMaintainer{}
	m.ready.Store(true)
	svc := NewCorpusService(m, serviceConfig(time.Hour), zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	time.Sleep(20 * time.Millisecond)
	cancel()
	<-done

	if m.initCalls.Load() != 0 {
		t.Errorf("Initialize called %d times on a ready corpus, want 0", m.initCalls.Load())
	}
}

func TestCorpusServiceReturnsInitializationError(t *testing.T) {
	t.Parallel()

	m := &mockMaintainer{initErr: errors.New("store down")}
	svc := NewCorpusService(m, serviceConfig(time.Hour), zerolog.Nop())

	// A failed initialization surfaces to the supervisor for restart.
	if err := svc.Serve(context.Background()); err == nil {
		t.Fatal("Serve() = nil error, want initialization failure")
	}
}

func TestCorpusServiceAbsorbsUpdateErrors(t *testing.T) {
	t.Parallel()

	m := &mockMaintainer{updateErr: errors.New("transient")}
	m.ready.Store(true)
	svc := NewCorpusService(m, serviceConfig(5*time.Millisecond), zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	deadline := time.After(2 * time.Second)
	for m.updateCalls.Load() < 3 {
		select {
		case <-deadline:
			t.Fatal("service stopped retrying after update failures")
		case <-time.After(2 * time.Millisecond):
		}
	}
	cancel()

	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("Serve() returned %v, want context.Canceled after cancel", err)
	}
}

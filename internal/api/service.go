// NLP Article Suggestion System - Corpus-Backed Content Ranking
// Copyright 2026 Eliot (Eliot6001)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Eliot6001/nlp-article-suggestion-system

package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Server matches the *http.Server lifecycle methods the service needs,
// keeping the wrapper testable with mocks.
type Server interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
}

// ServerService adapts an HTTP server's blocking ListenAndServe to suture's
// context-aware Serve. On cancellation it shuts the server down gracefully
// within the configured timeout.
type ServerService struct {
	server          Server
	shutdownTimeout time.Duration
}

// NewServerService wraps server as a supervised service.
func NewServerService(server Server, shutdownTimeout time.Duration) *ServerService {
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	return &ServerService{server: server, shutdownTimeout: shutdownTimeout}
}

// Serve implements suture.Service.
func (s *ServerService) Serve(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
		// The original context is canceled, so shutdown gets its own.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		if err := s.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http server shutdown failed: %w", err)
		}
		<-errCh
		return ctx.Err()
	}
}

// String implements fmt.Stringer for supervisor logging.
func (s *ServerService) String() string {
	return "http-server"
}

// Playforge - Gamified Community Platform
// Copyright 2026 Playforge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/playforge/playforge

package services

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"
)

type fakeServer struct {
	serveErr    error
	shutdownErr error
	started     chan struct{}
	release     chan struct{}
	shutdowns   int
}

func newFakeServer() *fakeServer {
	return &fakeServer{
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
}

func (f *fakeServer) ListenAndServe() error {
	close(f.started)
	if f.serveErr != nil {
		return f.serveErr
	}
	<-f.release
	return http.ErrServerClosed
}

func (f *fakeServer) Shutdown(_ context.Context) error {
	f.shutdowns++
	close(f.release)
	return f.shutdownErr
}

func TestHTTPServiceGracefulShutdown(t *testing.T) {
	srv := newFakeServer()
	svc := NewHTTPServerService(srv, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	<-srv.started
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("Serve returned %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
	if srv.shutdowns != 1 {
		t.Fatalf("shutdowns = %d, want 1", srv.shutdowns)
	}
}

func TestHTTPServiceSurfacesStartupError(t *testing.T) {
	srv := newFakeServer()
	srv.serveErr = errors.New("address in use")
	svc := NewHTTPServerService(srv, time.Second)

	err := svc.Serve(context.Background())
	if err == nil || !errors.Is(err, srv.serveErr) {
		t.Fatalf("Serve returned %v, want wrapped startup error", err)
	}
}

func TestHTTPServiceString(t *testing.T) {
	if got := NewHTTPServerService(newFakeServer(), 0).String(); got != "http-server" {
		t.Fatalf("String() = %q", got)
	}
}

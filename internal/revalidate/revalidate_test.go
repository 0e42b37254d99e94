// Playforge - Gamified Community Platform
// Copyright 2026 Playforge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/playforge/playforge

package revalidate

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/playforge/playforge/internal/config"
)

func TestTriggerPostsPathAndSecret(t *testing.T) {
	var got revalidateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &got); err != nil {
			t.Errorf("bad payload: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := New(config.RevalidateConfig{
		Enabled: true,
		URL:     srv.URL,
		Secret:  "hook-secret",
		Timeout: time.Second,
	})
	c.Trigger(context.Background(), "leaderboard")

	if got.Path != "/leaderboard" {
		t.Fatalf("path = %q, want /leaderboard", got.Path)
	}
	if got.Secret != "hook-secret" {
		t.Fatalf("secret = %q", got.Secret)
	}
}

func TestTriggerDisabledDoesNothing(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	c := New(config.RevalidateConfig{Enabled: false, URL: srv.URL})
	c.Trigger(context.Background(), "/shop")

	if calls.Load() != 0 {
		t.Fatalf("disabled client made %d requests", calls.Load())
	}
}

func TestTriggerSwallowsServerErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(config.RevalidateConfig{Enabled: true, URL: srv.URL, Timeout: time.Second})
	// Must not panic or propagate anything.
	c.Trigger(context.Background(), "/wheel", "/shop")
}

func TestBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := New(config.RevalidateConfig{Enabled: true, URL: srv.URL, Timeout: time.Second})
	for i := 0; i < 10; i++ {
		c.Trigger(context.Background(), "/shop")
	}

	// Breaker trips at 5 consecutive failures; later triggers are
	// rejected without reaching the server.
	if calls.Load() > 6 {
		t.Fatalf("breaker never opened, server saw %d calls", calls.Load())
	}
}

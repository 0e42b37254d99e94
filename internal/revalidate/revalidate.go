// Playforge - Gamified Community Platform
// Copyright 2026 Playforge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/playforge/playforge

// Package revalidate notifies the frontend hosting platform that a
// cached page is stale. The hook is strictly best-effort: a mutation
// never fails or blocks on it, and a flapping endpoint is cut off by a
// circuit breaker.
package revalidate

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/playforge/playforge/internal/config"
	"github.com/playforge/playforge/internal/logging"
	"github.com/playforge/playforge/internal/metrics"
)

const breakerName = "revalidate"

// Client posts revalidation requests to the configured endpoint.
type Client struct {
	cfg     config.RevalidateConfig
	client  *http.Client
	breaker *gobreaker.CircuitBreaker[struct{}]
}

// New creates the revalidation client. A nil-safe disabled client is
// returned when cfg.Enabled is false.
func New(cfg config.RevalidateConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}

	settings := gobreaker.Settings{
		Name:     breakerName,
		Interval: time.Minute,
		Timeout:  30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.CircuitBreakerState.WithLabelValues(name).Set(float64(to))
			logging.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("revalidate circuit breaker state change")
		},
	}

	return &Client{
		cfg:     cfg,
		client:  &http.Client{Timeout: timeout},
		breaker: gobreaker.NewCircuitBreaker[struct{}](settings),
	}
}

// revalidateRequest is the payload the hosting platform expects.
type revalidateRequest struct {
	Path   string `json:"path"`
	Secret string `json:"secret"`
}

// Trigger fires revalidation for the given frontend paths. Errors are
// logged and counted, never returned; callers treat this as
// fire-and-forget.
func (c *Client) Trigger(ctx context.Context, paths ...string) {
	if !c.cfg.Enabled || c.cfg.URL == "" || len(paths) == 0 {
		metrics.RevalidateRequests.WithLabelValues("disabled").Inc()
		return
	}

	for _, path := range paths {
		if !strings.HasPrefix(path, "/") {
			path = "/" + path
		}
		_, err := c.breaker.Execute(func() (struct{}, error) {
			return struct{}{}, c.post(ctx, path)
		})
		switch {
		case err == nil:
			metrics.RevalidateRequests.WithLabelValues("success").Inc()
			metrics.CircuitBreakerRequests.WithLabelValues(breakerName, "success").Inc()
		case err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests:
			metrics.RevalidateRequests.WithLabelValues("rejected").Inc()
			metrics.CircuitBreakerRequests.WithLabelValues(breakerName, "rejected").Inc()
		default:
			metrics.RevalidateRequests.WithLabelValues("failure").Inc()
			metrics.CircuitBreakerRequests.WithLabelValues(breakerName, "failure").Inc()
			logging.Warn().Err(err).Str("path", path).Msg("revalidation failed")
		}
	}
}

func (c *Client) post(ctx context.Context, path string) error {
	body, err := json.Marshal(revalidateRequest{Path: path, Secret: c.cfg.Secret})
	if err != nil {
		return fmt.Errorf("marshal revalidate payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.URL, strings.NewReader(string(body)))
	if err != nil {
		return fmt.Errorf("build revalidate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("post revalidate: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("revalidate endpoint returned %d", resp.StatusCode)
	}
	return nil
}

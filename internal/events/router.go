// Playforge - Gamified Community Platform
// Copyright 2026 Playforge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/playforge/playforge

package events

import (
	"context"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"

	"github.com/playforge/playforge/internal/metrics"
)

// RouterConfig holds configuration for the event router.
type RouterConfig struct {
	// CloseTimeout is how long to wait for in-flight handlers on shutdown.
	CloseTimeout time.Duration

	RetryMaxRetries      int
	RetryInitialInterval time.Duration
	RetryMaxInterval     time.Duration
	RetryMultiplier      float64
}

// DefaultRouterConfig returns production defaults.
func DefaultRouterConfig() RouterConfig {
	return RouterConfig{
		CloseTimeout:         10 * time.Second,
		RetryMaxRetries:      3,
		RetryInitialInterval: 100 * time.Millisecond,
		RetryMaxInterval:     5 * time.Second,
		RetryMultiplier:      2.0,
	}
}

// Router wraps the Watermill router with panic recovery and retry
// middleware. Handlers that still fail after retries drop the message;
// consumers are fan-out sinks, not systems of record.
type Router struct {
	router *message.Router
	config RouterConfig
}

// NewRouter creates a router with pre-configured middleware.
func NewRouter(cfg *RouterConfig) (*Router, error) {
	if cfg == nil {
		defaultCfg := DefaultRouterConfig()
		cfg = &defaultCfg
	}

	logger := newWatermillLogger()

	wmRouter, err := message.NewRouter(message.RouterConfig{
		CloseTimeout: cfg.CloseTimeout,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("create event router: %w", err)
	}

	wmRouter.AddMiddleware(middleware.Recoverer)

	retry := middleware.Retry{
		MaxRetries:      cfg.RetryMaxRetries,
		InitialInterval: cfg.RetryInitialInterval,
		MaxInterval:     cfg.RetryMaxInterval,
		Multiplier:      cfg.RetryMultiplier,
		Logger:          logger,
	}
	wmRouter.AddMiddleware(retry.Middleware)

	return &Router{router: wmRouter, config: *cfg}, nil
}

// AddConsumerHandler registers a no-output handler for a topic. The
// handler is wrapped to record processing metrics per result.
func (r *Router) AddConsumerHandler(name, topic string, subscriber message.Subscriber, handler message.NoPublishHandlerFunc) {
	wrapped := func(msg *message.Message) error {
		if err := handler(msg); err != nil {
			metrics.EventsProcessed.WithLabelValues(topic, "error").Inc()
			return err
		}
		metrics.EventsProcessed.WithLabelValues(topic, "success").Inc()
		return nil
	}
	r.router.AddConsumerHandler(name, topic, subscriber, wrapped)
}

// Running returns a channel that closes once all handlers are consuming.
func (r *Router) Running() <-chan struct{} {
	return r.router.Running()
}

// Serve runs the router until ctx is cancelled. Implements the
// supervisor service contract.
func (r *Router) Serve(ctx context.Context) error {
	return r.router.Run(ctx)
}

// String identifies the service in supervisor logs.
func (r *Router) String() string {
	return "event-router"
}

// Close stops the router, waiting up to CloseTimeout for handlers.
func (r *Router) Close() error {
	return r.router.Close()
}

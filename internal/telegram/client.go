// Playforge - Gamified Community Platform
// Copyright 2026 Playforge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/playforge/playforge

package telegram

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/playforge/playforge/internal/config"
	"github.com/playforge/playforge/internal/logging"
	"github.com/playforge/playforge/internal/metrics"
)

const defaultAPIBaseURL = "https://api.telegram.org"

const breakerName = "telegram"

// Client sends outbound Bot API calls. A broken Telegram API trips the
// breaker so mutations stop paying the timeout on every send.
type Client struct {
	token   string
	baseURL string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker[struct{}]
}

// NewClient creates the outbound client.
func NewClient(cfg config.TelegramConfig) *Client {
	baseURL := cfg.APIBaseURL
	if baseURL == "" {
		baseURL = defaultAPIBaseURL
	}
	timeout := cfg.SendTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
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
				Msg("telegram circuit breaker state change")
		},
	}

	return &Client{
		token:   cfg.BotToken,
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		breaker: gobreaker.NewCircuitBreaker[struct{}](settings),
	}
}

// SendMessage posts a text message to a chat. Errors are returned for
// the caller to log; callers on mutation paths must not propagate them.
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string) error {
	start := time.Now()
	_, err := c.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, c.call(ctx, "sendMessage", sendMessageRequest{ChatID: chatID, Text: text})
	})
	if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
		metrics.TelegramSends.WithLabelValues("sendMessage", "rejected").Inc()
	} else {
		metrics.RecordTelegramSend("sendMessage", time.Since(start), err)
	}
	return err
}

func (c *Client) call(ctx context.Context, method string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", method, err)
	}

	url := fmt.Sprintf("%s/bot%s/%s", c.baseURL, c.token, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("call %s: %w", method, err)
	}
	defer func() { _ = resp.Body.Close() }()

	var api apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&api); err != nil {
		return fmt.Errorf("decode %s response: %w", method, err)
	}
	if !api.OK {
		return fmt.Errorf("%s failed: %s", method, api.Description)
	}
	return nil
}

// Playforge - Gamified Community Platform
// Copyright 2026 Playforge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/playforge/playforge

package cache

import (
	"context"
	"time"

	"github.com/playforge/playforge/internal/logging"
)

// JanitorService periodically sweeps expired entries out of a Cache.
// It implements suture.Service so the sweep loop is supervised and restarts
// with the rest of the process tree.
type JanitorService struct {
	cache    *Cache
	interval time.Duration
}

// NewJanitorService creates a janitor sweeping cache every interval.
func NewJanitorService(cache *Cache, interval time.Duration) *JanitorService {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &JanitorService{cache: cache, interval: interval}
}

// Serve implements suture.Service.
func (j *JanitorService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			j.cache.Cleanup()
			stats := j.cache.GetStats()
			logging.Debug().
				Int64("keys", stats.TotalKeys).
				Int64("evictions", stats.Evictions).
				Msg("cache cleanup completed")
		}
	}
}

// String implements fmt.Stringer for supervisor logs.
func (j *JanitorService) String() string {
	return "cache-janitor"
}

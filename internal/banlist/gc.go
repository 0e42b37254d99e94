// Playforge - Gamified Community Platform
// Copyright 2026 Playforge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/playforge/playforge

package banlist

import (
	"context"
	"time"
)

// GCService periodically runs Badger value log garbage collection on the
// ban store. It implements suture.Service.
type GCService struct {
	store    *Store
	interval time.Duration
}

// NewGCService creates a GC loop running every interval.
func NewGCService(store *Store, interval time.Duration) *GCService {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	return &GCService{store: store, interval: interval}
}

// Serve implements suture.Service.
func (g *GCService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(g.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			g.store.RunGC()
		}
	}
}

// String implements fmt.Stringer for supervisor logs.
func (g *GCService) String() string {
	return "banlist-gc"
}

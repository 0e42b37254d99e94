// Playforge - Gamified Community Platform
// Copyright 2026 Playforge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/playforge/playforge

package games

import (
	"fmt"
	"sync"

	"golang.org/x/time/rate"
)

// keyedMutex serializes rounds per user and game. Two concurrent
// requests for the same (user, game) pair run one at a time; different
// users or different games never contend.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*sync.Mutex)}
}

func (k *keyedMutex) lock(userID int64, game string) func() {
	key := fmt.Sprintf("%d:%s", userID, game)

	k.mu.Lock()
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	k.mu.Unlock()

	m.Lock()
	return m.Unlock
}

// limiterRegistry holds a token-bucket limiter per user for bet
// placement. Limiters are created lazily and never expire; the map is
// bounded by the active user population.
type limiterRegistry struct {
	mu       sync.Mutex
	limiters map[int64]*rate.Limiter
	limit    rate.Limit
	burst    int
}

func newLimiterRegistry(roundsPerMin, burst int) *limiterRegistry {
	if roundsPerMin <= 0 {
		roundsPerMin = 30
	}
	if burst <= 0 {
		burst = 5
	}
	return &limiterRegistry{
		limiters: make(map[int64]*rate.Limiter),
		limit:    rate.Limit(float64(roundsPerMin) / 60.0),
		burst:    burst,
	}
}

func (r *limiterRegistry) allow(userID int64) bool {
	r.mu.Lock()
	l, ok := r.limiters[userID]
	if !ok {
		l = rate.NewLimiter(r.limit, r.burst)
		r.limiters[userID] = l
	}
	r.mu.Unlock()
	return l.Allow()
}

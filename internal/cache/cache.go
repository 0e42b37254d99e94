// Playforge - Gamified Community Platform
// Copyright 2026 Playforge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/playforge/playforge

// Package cache provides a thread-safe in-memory cache with TTL expiry and
// tag-based bulk invalidation.
//
// Every entry carries zero or more tags. Mutation handlers invalidate a tag
// when the backing table changes, which evicts every key registered under
// that tag in one call. The tag index is purely derived state: it never
// holds a value, only fan-out bookkeeping, and it is kept consistent with
// the entry store under a single lock.
package cache

import (
	"sync"
	"time"
)

// Entry represents a cached item with expiration and tag membership.
type Entry struct {
	Data      interface{}
	ExpiresAt time.Time
	Tags      []string
}

// Cache is a tag-indexed TTL cache. Safe for concurrent use.
type Cache struct {
	mu         sync.RWMutex
	entries    map[string]Entry
	tags       map[string]map[string]struct{}
	defaultTTL time.Duration
	statsMu    sync.RWMutex
	stats      Stats
}

// Stats tracks cache performance counters. GetStats returns a snapshot, so
// the type itself carries no lock.
type Stats struct {
	Hits        int64
	Misses      int64
	Evictions   int64
	TotalKeys   int64
	LastCleanup time.Time
}

// New creates a cache with the given default TTL. The caller is responsible
// for running Cleanup periodically (see JanitorService); expired entries are
// otherwise evicted lazily on read.
func New(defaultTTL time.Duration) *Cache {
	if defaultTTL <= 0 {
		defaultTTL = 5 * time.Minute
	}
	return &Cache{
		entries:    make(map[string]Entry),
		tags:       make(map[string]map[string]struct{}),
		defaultTTL: defaultTTL,
		stats:      Stats{LastCleanup: time.Now()},
	}
}

// DefaultTTL returns the TTL applied when Set is called with ttl <= 0.
func (c *Cache) DefaultTTL() time.Duration {
	return c.defaultTTL
}

// Get retrieves a value by key. An expired entry is removed (from the entry
// store and every tag index it belongs to) and reported as a miss.
func (c *Cache) Get(key string) (interface{}, bool) {
	c.mu.RLock()
	entry, exists := c.entries[key]
	c.mu.RUnlock()

	if !exists {
		c.recordMiss()
		return nil, false
	}

	if time.Now().After(entry.ExpiresAt) {
		c.mu.Lock()
		// Re-check under write lock; a concurrent Set may have refreshed it.
		if cur, ok := c.entries[key]; ok && time.Now().After(cur.ExpiresAt) {
			c.removeLocked(key)
		}
		c.mu.Unlock()
		c.recordMiss()
		c.recordEviction()
		return nil, false
	}

	c.recordHit()
	return entry.Data, true
}

// Set stores a value under key with the given TTL and tags, overwriting any
// existing entry. The key is registered under each tag and unregistered from
// tags the previous entry held but the new one does not. A ttl <= 0 uses the
// cache default.
func (c *Cache) Set(key string, value interface{}, ttl time.Duration, tags ...string) {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if prev, ok := c.entries[key]; ok {
		c.unregisterTagsLocked(key, prev.Tags)
	}

	c.entries[key] = Entry{
		Data:      value,
		ExpiresAt: time.Now().Add(ttl),
		Tags:      tags,
	}
	for _, tag := range tags {
		keys, ok := c.tags[tag]
		if !ok {
			keys = make(map[string]struct{})
			c.tags[tag] = keys
		}
		keys[key] = struct{}{}
	}

	c.statsMu.Lock()
	c.stats.TotalKeys = int64(len(c.entries))
	c.statsMu.Unlock()
}

// GetOrCompute returns the cached value for key if still valid; otherwise it
// calls compute, stores the result under the given TTL and tags, and returns
// it. Two racing computations resolve last-write-wins. A compute error is
// returned without touching the cache.
func (c *Cache) GetOrCompute(key string, ttl time.Duration, tags []string, compute func() (interface{}, error)) (interface{}, error) {
	if value, ok := c.Get(key); ok {
		return value, nil
	}

	value, err := compute()
	if err != nil {
		return nil, err
	}

	c.Set(key, value, ttl, tags...)
	return value, nil
}

// InvalidateTag removes every live key registered under tag, from the entry
// store and from all tag indices those keys belong to. Invalidating an
// unknown or empty tag is a no-op. Returns the number of evicted entries.
func (c *Cache) InvalidateTag(tag string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys, ok := c.tags[tag]
	if !ok {
		return 0
	}

	evicted := 0
	for key := range keys {
		if _, live := c.entries[key]; live {
			c.removeLocked(key)
			evicted++
		}
	}
	// removeLocked unregisters the key from every tag, deleting the tag set
	// once empty; a leftover empty set means the index and store disagreed.
	delete(c.tags, tag)

	c.statsMu.Lock()
	c.stats.Evictions += int64(evicted)
	c.stats.TotalKeys = int64(len(c.entries))
	c.statsMu.Unlock()

	return evicted
}

// Delete removes a single key. No-op if the key is absent.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	if _, ok := c.entries[key]; ok {
		c.removeLocked(key)
	}
	c.mu.Unlock()

	c.recordEviction()
}

// Clear removes all entries and all tag indices unconditionally.
func (c *Cache) Clear() {
	c.mu.Lock()
	evictions := int64(len(c.entries))
	c.entries = make(map[string]Entry)
	c.tags = make(map[string]map[string]struct{})
	c.mu.Unlock()

	c.statsMu.Lock()
	c.stats.Evictions += evictions
	c.stats.TotalKeys = 0
	c.statsMu.Unlock()
}

// Cleanup removes all expired entries. Called periodically by the janitor.
func (c *Cache) Cleanup() {
	now := time.Now()
	c.mu.Lock()
	evictions := int64(0)
	for key, entry := range c.entries {
		if now.After(entry.ExpiresAt) {
			c.removeLocked(key)
			evictions++
		}
	}
	total := int64(len(c.entries))
	c.mu.Unlock()

	c.statsMu.Lock()
	c.stats.Evictions += evictions
	c.stats.TotalKeys = total
	c.stats.LastCleanup = now
	c.statsMu.Unlock()
}

// Len returns the number of live entries (expired entries still pending lazy
// eviction included).
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// TagKeys returns the number of keys currently indexed under tag.
func (c *Cache) TagKeys(tag string) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.tags[tag])
}

// removeLocked deletes key from the entry store and unregisters it from
// every tag index it belongs to. Must be called with mu held for writing.
func (c *Cache) removeLocked(key string) {
	entry, ok := c.entries[key]
	if !ok {
		return
	}
	delete(c.entries, key)
	c.unregisterTagsLocked(key, entry.Tags)
}

// unregisterTagsLocked drops key from the given tag sets, deleting a tag set
// once it becomes empty. Must be called with mu held for writing.
func (c *Cache) unregisterTagsLocked(key string, tags []string) {
	for _, tag := range tags {
		keys, ok := c.tags[tag]
		if !ok {
			continue
		}
		delete(keys, key)
		if len(keys) == 0 {
			delete(c.tags, tag)
		}
	}
}

// GetStats returns a snapshot of current cache counters.
func (c *Cache) GetStats() Stats {
	c.statsMu.RLock()
	defer c.statsMu.RUnlock()

	return Stats{
		Hits:        c.stats.Hits,
		Misses:      c.stats.Misses,
		Evictions:   c.stats.Evictions,
		TotalKeys:   c.stats.TotalKeys,
		LastCleanup: c.stats.LastCleanup,
	}
}

// HitRate returns the fraction of lookups served from the cache, in [0, 1].
func (c *Cache) HitRate() float64 {
	stats := c.GetStats()
	total := stats.Hits + stats.Misses
	if total == 0 {
		return 0.0
	}
	return float64(stats.Hits) / float64(total)
}

func (c *Cache) recordHit() {
	c.statsMu.Lock()
	c.stats.Hits++
	c.statsMu.Unlock()
}

func (c *Cache) recordMiss() {
	c.statsMu.Lock()
	c.stats.Misses++
	c.statsMu.Unlock()
}

func (c *Cache) recordEviction() {
	c.statsMu.Lock()
	c.stats.Evictions++
	c.statsMu.Unlock()
}

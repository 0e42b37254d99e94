// Playforge - Gamified Community Platform
// Copyright 2026 Playforge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/playforge/playforge

package cache

import (
	"errors"
	"sync"
	"testing"
	"time"
)

func TestSetGet(t *testing.T) {
	c := New(time.Minute)

	c.Set("wheel:prizes", []string{"a", "b"}, 0, TagWheel)

	got, ok := c.Get("wheel:prizes")
	if !ok {
		t.Fatal("expected hit for freshly set key")
	}
	prizes, ok := got.([]string)
	if !ok || len(prizes) != 2 {
		t.Fatalf("unexpected cached value: %#v", got)
	}
}

func TestGetMiss(t *testing.T) {
	c := New(time.Minute)

	if _, ok := c.Get("missing"); ok {
		t.Fatal("expected miss for absent key")
	}

	stats := c.GetStats()
	if stats.Misses != 1 {
		t.Fatalf("expected 1 miss, got %d", stats.Misses)
	}
}

func TestExpiration(t *testing.T) {
	c := New(time.Minute)

	c.Set("short", "value", 10*time.Millisecond)

	if _, ok := c.Get("short"); !ok {
		t.Fatal("expected hit before expiry")
	}

	time.Sleep(20 * time.Millisecond)

	if _, ok := c.Get("short"); ok {
		t.Fatal("expected miss after expiry")
	}
	if c.Len() != 0 {
		t.Fatalf("expected expired entry to be evicted, len=%d", c.Len())
	}
}

func TestSetOverwrite(t *testing.T) {
	c := New(time.Minute)

	c.Set("key", 1, 0, TagWheel)
	c.Set("key", 2, 0, TagShop)

	got, ok := c.Get("key")
	if !ok || got.(int) != 2 {
		t.Fatalf("expected overwritten value 2, got %v", got)
	}

	// The old tag association must not linger.
	if n := c.InvalidateTag(TagWheel); n != 0 {
		t.Fatalf("stale tag still indexed, invalidated %d keys", n)
	}
	if _, ok := c.Get("key"); !ok {
		t.Fatal("key removed by stale tag invalidation")
	}
	if n := c.InvalidateTag(TagShop); n != 1 {
		t.Fatalf("expected current tag to remove 1 key, got %d", n)
	}
}

func TestInvalidateTagFanOut(t *testing.T) {
	c := New(time.Minute)

	c.Set("wheel:prizes", "p", 0, TagWheel)
	c.Set("wheel:config", "c", 0, TagWheel)
	c.Set("shop:items", "s", 0, TagShop)
	c.Set("plain", "untagged", 0)

	removed := c.InvalidateTag(TagWheel)
	if removed != 2 {
		t.Fatalf("expected 2 removed, got %d", removed)
	}

	if _, ok := c.Get("wheel:prizes"); ok {
		t.Fatal("tagged key survived invalidation")
	}
	if _, ok := c.Get("wheel:config"); ok {
		t.Fatal("tagged key survived invalidation")
	}
	if _, ok := c.Get("shop:items"); !ok {
		t.Fatal("key with different tag was removed")
	}
	if _, ok := c.Get("plain"); !ok {
		t.Fatal("untagged key was removed")
	}
}

func TestInvalidateTagIdempotent(t *testing.T) {
	c := New(time.Minute)

	c.Set("wheel:prizes", "p", 0, TagWheel)

	if n := c.InvalidateTag(TagWheel); n != 1 {
		t.Fatalf("first invalidation removed %d, want 1", n)
	}
	if n := c.InvalidateTag(TagWheel); n != 0 {
		t.Fatalf("second invalidation removed %d, want 0", n)
	}
	if n := c.InvalidateTag("never-used"); n != 0 {
		t.Fatalf("unknown tag removed %d, want 0", n)
	}
}

func TestInvalidateEmptyCache(t *testing.T) {
	c := New(time.Minute)

	if n := c.InvalidateTag(TagLeaderboard); n != 0 {
		t.Fatalf("expected no-op on empty cache, removed %d", n)
	}
	if c.Len() != 0 {
		t.Fatal("empty cache gained entries")
	}
}

func TestInvalidateThenRecompute(t *testing.T) {
	c := New(time.Minute)

	calls := 0
	compute := func() (interface{}, error) {
		calls++
		return calls, nil
	}

	v, err := c.GetOrCompute("wheel:prizes", 0, []string{TagWheel}, compute)
	if err != nil {
		t.Fatal(err)
	}
	if v.(int) != 1 {
		t.Fatalf("expected first compute, got %v", v)
	}

	// Cached: no recompute.
	v, _ = c.GetOrCompute("wheel:prizes", 0, []string{TagWheel}, compute)
	if v.(int) != 1 || calls != 1 {
		t.Fatalf("expected cached value, got %v after %d calls", v, calls)
	}

	c.InvalidateTag(TagWheel)

	v, _ = c.GetOrCompute("wheel:prizes", 0, []string{TagWheel}, compute)
	if v.(int) != 2 || calls != 2 {
		t.Fatalf("expected recompute after invalidation, got %v after %d calls", v, calls)
	}
}

func TestGetOrComputeError(t *testing.T) {
	c := New(time.Minute)

	wantErr := errors.New("source down")
	_, err := c.GetOrCompute("key", 0, nil, func() (interface{}, error) {
		return nil, wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected compute error, got %v", err)
	}

	// Failed computes must not cache.
	if _, ok := c.Get("key"); ok {
		t.Fatal("error result was cached")
	}
}

func TestDelete(t *testing.T) {
	c := New(time.Minute)

	c.Set("key", "value", 0, TagShop)
	c.Delete("key")

	if _, ok := c.Get("key"); ok {
		t.Fatal("deleted key still present")
	}
	if n := c.TagKeys(TagShop); n != 0 {
		t.Fatalf("tag index retains %d keys after delete", n)
	}
}

func TestClear(t *testing.T) {
	c := New(time.Minute)

	c.Set("a", 1, 0, TagWheel)
	c.Set("b", 2, 0, TagShop)
	c.Clear()

	if c.Len() != 0 {
		t.Fatalf("expected empty cache, len=%d", c.Len())
	}
	if n := c.InvalidateTag(TagWheel); n != 0 {
		t.Fatalf("tag index survived clear, removed %d", n)
	}
}

func TestCleanup(t *testing.T) {
	c := New(time.Minute)

	c.Set("short", 1, 10*time.Millisecond, TagTasks)
	c.Set("long", 2, time.Hour, TagTasks)

	time.Sleep(20 * time.Millisecond)
	c.Cleanup()

	if c.Len() != 1 {
		t.Fatalf("expected 1 surviving entry, got %d", c.Len())
	}
	if _, ok := c.Get("long"); !ok {
		t.Fatal("unexpired entry swept by cleanup")
	}
	if n := c.TagKeys(TagTasks); n != 1 {
		t.Fatalf("tag index out of sync after cleanup: %d keys", n)
	}
}

func TestStats(t *testing.T) {
	c := New(time.Minute)

	c.Set("key", "value", 0)
	c.Get("key")
	c.Get("key")
	c.Get("missing")

	stats := c.GetStats()
	if stats.Hits != 2 {
		t.Errorf("hits = %d, want 2", stats.Hits)
	}
	if stats.Misses != 1 {
		t.Errorf("misses = %d, want 1", stats.Misses)
	}
	if got := c.HitRate(); got < 0.66 || got > 0.67 {
		t.Errorf("hit rate = %f, want ~0.667", got)
	}
}

func TestConcurrentAccess(t *testing.T) {
	c := New(time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				switch j % 4 {
				case 0:
					c.Set("shared", n, 0, TagLeaderboard)
				case 1:
					c.Get("shared")
				case 2:
					c.InvalidateTag(TagLeaderboard)
				case 3:
					c.Cleanup()
				}
			}
		}(i)
	}
	wg.Wait()
}

func TestGenerateKeyDeterministic(t *testing.T) {
	type params struct {
		Limit  int    `json:"limit"`
		UserID int64  `json:"user_id"`
		Sort   string `json:"sort"`
	}

	a := GenerateKey("leaderboard", params{Limit: 10, UserID: 42, Sort: "points"})
	b := GenerateKey("leaderboard", params{Limit: 10, UserID: 42, Sort: "points"})
	if a != b {
		t.Fatalf("same params produced different keys: %s vs %s", a, b)
	}

	other := GenerateKey("leaderboard", params{Limit: 20, UserID: 42, Sort: "points"})
	if a == other {
		t.Fatal("different params produced identical keys")
	}
}

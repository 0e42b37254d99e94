// Playforge - Gamified Community Platform
// Copyright 2026 Playforge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/playforge/playforge

package banlist

import "testing"

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open("", 0)
	if err != nil {
		t.Fatalf("failed to open in-memory store: %v", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	})
	return s
}

func TestBanUnban(t *testing.T) {
	s := newTestStore(t)

	banned, err := s.IsBanned(42)
	if err != nil {
		t.Fatal(err)
	}
	if banned {
		t.Fatal("fresh store reports user banned")
	}

	if err := s.Ban(42, "spam", "admin"); err != nil {
		t.Fatal(err)
	}
	banned, err = s.IsBanned(42)
	if err != nil {
		t.Fatal(err)
	}
	if !banned {
		t.Fatal("banned user not reported")
	}

	entry, err := s.Get(42)
	if err != nil {
		t.Fatal(err)
	}
	if entry == nil || entry.Reason != "spam" || entry.BannedBy != "admin" {
		t.Fatalf("entry = %+v", entry)
	}

	if err := s.Unban(42); err != nil {
		t.Fatal(err)
	}
	banned, err = s.IsBanned(42)
	if err != nil {
		t.Fatal(err)
	}
	if banned {
		t.Fatal("unbanned user still reported")
	}
}

func TestUnbanIdempotent(t *testing.T) {
	s := newTestStore(t)

	if err := s.Unban(999); err != nil {
		t.Fatalf("unban of unbanned user must be a no-op, got %v", err)
	}
}

func TestList(t *testing.T) {
	s := newTestStore(t)

	for _, id := range []int64{1, 2, 3} {
		if err := s.Ban(id, "test", "admin"); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.Unban(2); err != nil {
		t.Fatal(err)
	}

	entries, err := s.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
	for _, e := range entries {
		if e.UserID == 2 {
			t.Fatal("unbanned user still listed")
		}
	}
}

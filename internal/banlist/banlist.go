// Playforge - Gamified Community Platform
// Copyright 2026 Playforge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/playforge/playforge

// Package banlist provides a BadgerDB-backed ban registry. The database row
// carries the authoritative ban flag; this store is the fast path consulted
// by middleware on every request, durable across restarts.
package banlist

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/playforge/playforge/internal/logging"
)

const banKeyPrefix = "ban:"

// Entry records one active ban.
type Entry struct {
	UserID   int64     `json:"user_id"`
	Reason   string    `json:"reason,omitempty"`
	BannedBy string    `json:"banned_by,omitempty"`
	BannedAt time.Time `json:"banned_at"`
}

// Store is a durable ban registry.
type Store struct {
	db  *badger.DB
	ttl time.Duration
}

// Open opens the ban store at path. An empty path opens an in-memory store,
// used in tests. ttl = 0 means bans never expire.
func Open(path string, ttl time.Duration) (*Store, error) {
	opts := badger.DefaultOptions(path)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	opts = opts.WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open banlist store: %w", err)
	}
	return &Store{db: db, ttl: ttl}, nil
}

// Close closes the underlying store.
func (s *Store) Close() error {
	return s.db.Close()
}

func banKey(userID int64) []byte {
	return []byte(banKeyPrefix + strconv.FormatInt(userID, 10))
}

// Ban records a ban for the user.
func (s *Store) Ban(userID int64, reason, bannedBy string) error {
	entry := Entry{
		UserID:   userID,
		Reason:   reason,
		BannedBy: bannedBy,
		BannedAt: time.Now().UTC(),
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal ban entry: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry(banKey(userID), data)
		if s.ttl > 0 {
			e = e.WithTTL(s.ttl)
		}
		return txn.SetEntry(e)
	})
}

// Unban removes a ban. Unbanning an unbanned user is a no-op.
func (s *Store) Unban(userID int64) error {
	return s.db.Update(func(txn *badger.Txn) error {
		err := txn.Delete(banKey(userID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		return err
	})
}

// IsBanned reports whether the user is currently banned.
func (s *Store) IsBanned(userID int64) (bool, error) {
	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(banKey(userID))
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("banlist lookup failed: %w", err)
	}
	return true, nil
}

// Get returns the ban entry for a user, or nil when the user is not banned.
func (s *Store) Get(userID int64) (*Entry, error) {
	var entry Entry
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(banKey(userID))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &entry)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("banlist lookup failed: %w", err)
	}
	return &entry, nil
}

// List returns all active bans.
func (s *Store) List() ([]Entry, error) {
	var entries []Entry
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(banKeyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			var entry Entry
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &entry)
			})
			if err != nil {
				return err
			}
			entries = append(entries, entry)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("banlist scan failed: %w", err)
	}
	return entries, nil
}

// RunGC runs Badger's value log garbage collection. Safe to call
// periodically; returns without error when there is nothing to collect.
func (s *Store) RunGC() {
	for {
		if err := s.db.RunValueLogGC(0.5); err != nil {
			if !errors.Is(err, badger.ErrNoRewrite) {
				logging.Debug().Err(err).Msg("banlist value log GC stopped")
			}
			return
		}
	}
}

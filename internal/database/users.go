// Playforge - Gamified Community Platform
// Copyright 2026 Playforge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/playforge/playforge

// users.go - user rows, balance mutations and the leaderboard aggregate.
//
// Balance changes are single conditional UPDATE statements so a debit can
// never race another writer into a negative balance. A rejected debit leaves
// the row untouched.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/playforge/playforge/internal/models"
)

const userColumns = `id, username, first_name, points, xp, is_banned, daily_spins_left, last_spin_reset, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanUser(row rowScanner) (*models.User, error) {
	var u models.User
	var lastReset sql.NullTime
	err := row.Scan(&u.ID, &u.Username, &u.FirstName, &u.Points, &u.XP,
		&u.IsBanned, &u.DailySpinsLeft, &lastReset, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	if lastReset.Valid {
		t := lastReset.Time
		u.LastSpinReset = &t
	}
	return &u, nil
}

// UpsertUser creates the user row on first contact and refreshes the
// Telegram profile fields on subsequent calls. Points and XP are never
// touched here.
func (db *DB) UpsertUser(ctx context.Context, id int64, username, firstName string) (*models.User, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	query := `
		INSERT INTO users (id, username, first_name)
		VALUES (?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			username = excluded.username,
			first_name = excluded.first_name,
			updated_at = now()
		RETURNING ` + userColumns

	row := db.conn.QueryRowContext(ctx, query, id, username, firstName)
	return scanUser(row)
}

// GetUser retrieves a user by Telegram id.
func (db *DB) GetUser(ctx context.Context, id int64) (*models.User, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	row := db.conn.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row)
}

type execQuerier interface {
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// adjustBalance applies a points/xp delta on the given executor. The
// conditional WHERE clause rejects any debit that would take the balance
// below zero; the caller distinguishes a missing user from an insufficient
// balance.
func adjustBalance(ctx context.Context, q execQuerier, userID, pointsDelta, xpDelta int64) (*models.User, error) {
	query := `
		UPDATE users
		SET points = points + ?, xp = xp + ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND points + ? >= 0
		RETURNING ` + userColumns

	row := q.QueryRowContext(ctx, query, pointsDelta, xpDelta, userID, pointsDelta)
	u, err := scanUser(row)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	// No row updated: either the user does not exist or the debit exceeded
	// the balance.
	var exists bool
	checkErr := q.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE id = ?)`, userID).Scan(&exists)
	if checkErr != nil {
		return nil, fmt.Errorf("failed to check user existence: %w", checkErr)
	}
	if !exists {
		return nil, ErrNotFound
	}
	return nil, ErrInsufficientPoints
}

// AdjustBalance atomically applies a points and XP delta to a user and
// returns the updated row. Debits below zero are rejected with
// ErrInsufficientPoints and leave the balance unchanged.
func (db *DB) AdjustBalance(ctx context.Context, userID, pointsDelta, xpDelta int64) (*models.User, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	db.writeMu.Lock()
	defer db.writeMu.Unlock()
	return adjustBalance(ctx, db.conn, userID, pointsDelta, xpDelta)
}

// ApplyReward atomically applies a balance delta and writes the matching
// point_history record in one transaction. This is the single entry point
// for direct reward mutations; catalog flows (purchases, redemptions) carry
// their own transactions.
func (db *DB) ApplyReward(ctx context.Context, userID, pointsDelta, xpDelta int64, reason, actor string) (*models.User, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var user *models.User
	err := db.withTx(ctx, func(tx *sql.Tx) error {
		u, err := adjustBalance(ctx, tx, userID, pointsDelta, xpDelta)
		if err != nil {
			return err
		}
		if err := insertHistory(ctx, tx, userID, pointsDelta, xpDelta, reason, actor); err != nil {
			return err
		}
		user = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// SetBanned flips the ban flag on a user.
func (db *DB) SetBanned(ctx context.Context, userID int64, banned bool) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	res, err := db.conn.ExecContext(ctx,
		`UPDATE users SET is_banned = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		banned, userID)
	if err != nil {
		return fmt.Errorf("failed to update ban flag: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// ConsumeDailySpin decrements the user's daily spin allowance and returns
// the spins remaining after the decrement. The allowance resets to
// dailySpins on the first spin of each UTC day.
func (db *DB) ConsumeDailySpin(ctx context.Context, userID int64, dailySpins int) (int, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var left int
	err := db.withTx(ctx, func(tx *sql.Tx) error {
		var spinsLeft int
		var lastReset sql.NullTime
		row := tx.QueryRowContext(ctx,
			`SELECT daily_spins_left, last_spin_reset FROM users WHERE id = ?`, userID)
		if err := row.Scan(&spinsLeft, &lastReset); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to read spin state: %w", err)
		}

		now := time.Now().UTC()
		if !lastReset.Valid || !sameUTCDay(lastReset.Time, now) {
			spinsLeft = dailySpins
		}
		if spinsLeft <= 0 {
			return ErrNoSpinsLeft
		}

		left = spinsLeft - 1
		_, err := tx.ExecContext(ctx,
			`UPDATE users SET daily_spins_left = ?, last_spin_reset = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
			left, now, userID)
		if err != nil {
			return fmt.Errorf("failed to consume spin: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return left, nil
}

// SpinsLeft returns the user's remaining spins for today without consuming
// one, applying the same UTC day reset logic as ConsumeDailySpin.
func (db *DB) SpinsLeft(ctx context.Context, userID int64, dailySpins int) (int, error) {
	u, err := db.GetUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	if u.LastSpinReset == nil || !sameUTCDay(*u.LastSpinReset, time.Now().UTC()) {
		return dailySpins, nil
	}
	return u.DailySpinsLeft, nil
}

func sameUTCDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}

// Leaderboard returns users ordered by points, with their rank name derived
// from the ranks table at query time.
func (db *DB) Leaderboard(ctx context.Context, limit, offset int) ([]models.LeaderboardEntry, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	query := `
		SELECT u.id, u.username, u.points, u.xp,
			COALESCE((SELECT r.name FROM ranks r WHERE r.min_xp <= u.xp ORDER BY r.min_xp DESC LIMIT 1), '')
		FROM users u
		WHERE u.is_banned = FALSE
		ORDER BY u.points DESC, u.xp DESC, u.id ASC
		LIMIT ? OFFSET ?
	`

	rows, err := db.conn.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []models.LeaderboardEntry
	pos := offset
	for rows.Next() {
		var e models.LeaderboardEntry
		if err := rows.Scan(&e.UserID, &e.Username, &e.Points, &e.XP, &e.Rank); err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard entry: %w", err)
		}
		pos++
		e.Position = pos
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// UserPosition returns the 1-based leaderboard position of a user.
func (db *DB) UserPosition(ctx context.Context, userID int64) (int, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	u, err := db.GetUser(ctx, userID)
	if err != nil {
		return 0, err
	}

	var ahead int
	err = db.conn.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM users
		WHERE is_banned = FALSE
		AND (points > ? OR (points = ? AND xp > ?) OR (points = ? AND xp = ? AND id < ?))`,
		u.Points, u.Points, u.XP, u.Points, u.XP, u.ID).Scan(&ahead)
	if err != nil {
		return 0, fmt.Errorf("failed to count users ahead: %w", err)
	}
	return ahead + 1, nil
}

// ListUsers returns users for the admin back-office, newest first. A
// non-empty search filters by username substring.
func (db *DB) ListUsers(ctx context.Context, search string, limit, offset int) ([]models.User, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	query := `SELECT ` + userColumns + ` FROM users`
	args := []interface{}{}
	if search != "" {
		query += ` WHERE username ILIKE ?`
		args = append(args, "%"+search+"%")
	}
	query += ` ORDER BY created_at DESC LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

// CountUsers returns the total number of registered users.
func (db *DB) CountUsers(ctx context.Context) (int64, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var n int64
	if err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return n, nil
}

// ListUserIDs returns the ids of all non-banned users, for broadcast fan-out.
func (db *DB) ListUserIDs(ctx context.Context) ([]int64, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx, `SELECT id FROM users WHERE is_banned = FALSE ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query user ids: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan user id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Playforge - Gamified Community Platform
// Copyright 2026 Playforge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/playforge/playforge

package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/playforge/playforge/internal/models"
)

type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// insertHistory appends one balance change record on the given executor so
// callers inside a transaction share its atomicity.
func insertHistory(ctx context.Context, e execer, userID, delta, xpDelta int64, reason, actor string) error {
	_, err := e.ExecContext(ctx,
		`INSERT INTO point_history (user_id, delta, xp_delta, reason, actor) VALUES (?, ?, ?, ?, ?)`,
		userID, delta, xpDelta, reason, actor)
	if err != nil {
		return fmt.Errorf("failed to insert point history: %w", err)
	}
	return nil
}

// InsertPointHistory appends one balance change record.
func (db *DB) InsertPointHistory(ctx context.Context, h *models.PointHistory) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	return insertHistory(ctx, db.conn, h.UserID, h.Delta, h.XPDelta, h.Reason, h.Actor)
}

// ListPointHistory returns a user's balance changes, newest first.
func (db *DB) ListPointHistory(ctx context.Context, userID int64, limit, offset int) ([]models.PointHistory, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx, `
		SELECT id, user_id, delta, xp_delta, reason, actor, created_at
		FROM point_history
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?`,
		userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query point history: %w", err)
	}
	defer rows.Close()

	var entries []models.PointHistory
	for rows.Next() {
		var h models.PointHistory
		if err := rows.Scan(&h.ID, &h.UserID, &h.Delta, &h.XPDelta, &h.Reason, &h.Actor, &h.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan point history: %w", err)
		}
		entries = append(entries, h)
	}
	return entries, rows.Err()
}

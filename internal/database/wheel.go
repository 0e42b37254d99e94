// Playforge - Gamified Community Platform
// Copyright 2026 Playforge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/playforge/playforge

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/playforge/playforge/internal/models"
)

const prizeColumns = `id, label, points, weight, is_active, sort_order, created_at, updated_at`

func scanPrize(row rowScanner) (*models.WheelPrize, error) {
	var p models.WheelPrize
	err := row.Scan(&p.ID, &p.Label, &p.Points, &p.Weight, &p.IsActive,
		&p.SortOrder, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan wheel prize: %w", err)
	}
	return &p, nil
}

// ListWheelPrizes returns wheel prizes in display order. With activeOnly,
// only prizes eligible for the draw pool are returned.
func (db *DB) ListWheelPrizes(ctx context.Context, activeOnly bool) ([]models.WheelPrize, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	query := `SELECT ` + prizeColumns + ` FROM wheel_prizes`
	if activeOnly {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY sort_order ASC, id ASC`

	rows, err := db.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query wheel prizes: %w", err)
	}
	defer rows.Close()

	var prizes []models.WheelPrize
	for rows.Next() {
		p, err := scanPrize(rows)
		if err != nil {
			return nil, err
		}
		prizes = append(prizes, *p)
	}
	return prizes, rows.Err()
}

// GetWheelPrize retrieves one prize by id.
func (db *DB) GetWheelPrize(ctx context.Context, id int64) (*models.WheelPrize, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	row := db.conn.QueryRowContext(ctx,
		`SELECT `+prizeColumns+` FROM wheel_prizes WHERE id = ?`, id)
	return scanPrize(row)
}

// CreateWheelPrize inserts a prize and returns it with its assigned id.
func (db *DB) CreateWheelPrize(ctx context.Context, p *models.WheelPrize) (*models.WheelPrize, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	row := db.conn.QueryRowContext(ctx, `
		INSERT INTO wheel_prizes (label, points, weight, is_active, sort_order)
		VALUES (?, ?, ?, ?, ?)
		RETURNING `+prizeColumns,
		p.Label, p.Points, p.Weight, p.IsActive, p.SortOrder)
	return scanPrize(row)
}

// UpdateWheelPrize rewrites a prize.
func (db *DB) UpdateWheelPrize(ctx context.Context, p *models.WheelPrize) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	res, err := db.conn.ExecContext(ctx, `
		UPDATE wheel_prizes
		SET label = ?, points = ?, weight = ?, is_active = ?, sort_order = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		p.Label, p.Points, p.Weight, p.IsActive, p.SortOrder, p.ID)
	if err != nil {
		return fmt.Errorf("failed to update wheel prize: %w", err)
	}
	return requireRowsAffected(res)
}

// DeleteWheelPrize removes a prize. Spin history keeps the prize label so
// past spins stay meaningful.
func (db *DB) DeleteWheelPrize(ctx context.Context, id int64) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	res, err := db.conn.ExecContext(ctx, `DELETE FROM wheel_prizes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete wheel prize: %w", err)
	}
	return requireRowsAffected(res)
}

// RecordSpin appends one settled spin to the history.
func (db *DB) RecordSpin(ctx context.Context, userID int64, prize *models.WheelPrize) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO spin_history (user_id, prize_id, label, points) VALUES (?, ?, ?, ?)`,
		userID, prize.ID, prize.Label, prize.Points)
	if err != nil {
		return fmt.Errorf("failed to record spin: %w", err)
	}
	return nil
}

// ListSpinHistory returns a user's spins, newest first.
func (db *DB) ListSpinHistory(ctx context.Context, userID int64, limit, offset int) ([]models.SpinHistory, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx, `
		SELECT id, user_id, prize_id, label, points, created_at
		FROM spin_history
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?`,
		userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query spin history: %w", err)
	}
	defer rows.Close()

	var spins []models.SpinHistory
	for rows.Next() {
		var s models.SpinHistory
		if err := rows.Scan(&s.ID, &s.UserID, &s.PrizeID, &s.Label, &s.Points, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan spin: %w", err)
		}
		spins = append(spins, s)
	}
	return spins, rows.Err()
}

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

// ListRanks returns all rank tiers ordered by their XP threshold.
func (db *DB) ListRanks(ctx context.Context) ([]models.Rank, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, name, min_xp, sort_order FROM ranks ORDER BY min_xp ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query ranks: %w", err)
	}
	defer rows.Close()

	var ranks []models.Rank
	for rows.Next() {
		var r models.Rank
		if err := rows.Scan(&r.ID, &r.Name, &r.MinXP, &r.SortOrder); err != nil {
			return nil, fmt.Errorf("failed to scan rank: %w", err)
		}
		ranks = append(ranks, r)
	}
	return ranks, rows.Err()
}

// RankForXP returns the highest rank whose threshold the given XP meets,
// or ErrNotFound when no rank tier matches.
func (db *DB) RankForXP(ctx context.Context, xp int64) (*models.Rank, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var r models.Rank
	err := db.conn.QueryRowContext(ctx,
		`SELECT id, name, min_xp, sort_order FROM ranks WHERE min_xp <= ? ORDER BY min_xp DESC LIMIT 1`,
		xp).Scan(&r.ID, &r.Name, &r.MinXP, &r.SortOrder)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to query rank: %w", err)
	}
	return &r, nil
}

// CreateRank inserts a rank tier and returns it with its assigned id.
func (db *DB) CreateRank(ctx context.Context, r *models.Rank) (*models.Rank, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	err := db.conn.QueryRowContext(ctx,
		`INSERT INTO ranks (name, min_xp, sort_order) VALUES (?, ?, ?) RETURNING id`,
		r.Name, r.MinXP, r.SortOrder).Scan(&r.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to insert rank: %w", err)
	}
	return r, nil
}

// UpdateRank rewrites a rank tier.
func (db *DB) UpdateRank(ctx context.Context, r *models.Rank) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	res, err := db.conn.ExecContext(ctx,
		`UPDATE ranks SET name = ?, min_xp = ?, sort_order = ? WHERE id = ?`,
		r.Name, r.MinXP, r.SortOrder, r.ID)
	if err != nil {
		return fmt.Errorf("failed to update rank: %w", err)
	}
	return requireRowsAffected(res)
}

// DeleteRank removes a rank tier.
func (db *DB) DeleteRank(ctx context.Context, id int64) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	res, err := db.conn.ExecContext(ctx, `DELETE FROM ranks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete rank: %w", err)
	}
	return requireRowsAffected(res)
}

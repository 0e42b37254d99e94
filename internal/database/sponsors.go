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

const sponsorColumns = `id, name, url, logo_url, is_active, sort_order, created_at`

func scanSponsor(row rowScanner) (*models.Sponsor, error) {
	var s models.Sponsor
	err := row.Scan(&s.ID, &s.Name, &s.URL, &s.LogoURL, &s.IsActive, &s.SortOrder, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan sponsor: %w", err)
	}
	return &s, nil
}

// ListSponsors returns sponsors in display order.
func (db *DB) ListSponsors(ctx context.Context, activeOnly bool) ([]models.Sponsor, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	query := `SELECT ` + sponsorColumns + ` FROM sponsors`
	if activeOnly {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY sort_order ASC, id ASC`

	rows, err := db.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query sponsors: %w", err)
	}
	defer rows.Close()

	var sponsors []models.Sponsor
	for rows.Next() {
		s, err := scanSponsor(rows)
		if err != nil {
			return nil, err
		}
		sponsors = append(sponsors, *s)
	}
	return sponsors, rows.Err()
}

// CreateSponsor inserts a sponsor and returns it with its id.
func (db *DB) CreateSponsor(ctx context.Context, s *models.Sponsor) (*models.Sponsor, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	row := db.conn.QueryRowContext(ctx, `
		INSERT INTO sponsors (name, url, logo_url, is_active, sort_order)
		VALUES (?, ?, ?, ?, ?)
		RETURNING `+sponsorColumns,
		s.Name, s.URL, s.LogoURL, s.IsActive, s.SortOrder)
	return scanSponsor(row)
}

// UpdateSponsor rewrites a sponsor.
func (db *DB) UpdateSponsor(ctx context.Context, s *models.Sponsor) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	res, err := db.conn.ExecContext(ctx, `
		UPDATE sponsors SET name = ?, url = ?, logo_url = ?, is_active = ?, sort_order = ?
		WHERE id = ?`,
		s.Name, s.URL, s.LogoURL, s.IsActive, s.SortOrder, s.ID)
	if err != nil {
		return fmt.Errorf("failed to update sponsor: %w", err)
	}
	return requireRowsAffected(res)
}

// ReorderSponsors rewrites the display order in one transaction: each
// sponsor's sort_order becomes its position in ids. An unknown id aborts
// the whole batch.
func (db *DB) ReorderSponsors(ctx context.Context, ids []int64) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	return db.withTx(ctx, func(tx *sql.Tx) error {
		for pos, id := range ids {
			res, err := tx.ExecContext(ctx,
				`UPDATE sponsors SET sort_order = ? WHERE id = ?`, pos, id)
			if err != nil {
				return fmt.Errorf("failed to reorder sponsor %d: %w", id, err)
			}
			if err := requireRowsAffected(res); err != nil {
				return err
			}
		}
		return nil
	})
}

// DeleteSponsor removes a sponsor.
func (db *DB) DeleteSponsor(ctx context.Context, id int64) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	res, err := db.conn.ExecContext(ctx, `DELETE FROM sponsors WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete sponsor: %w", err)
	}
	return requireRowsAffected(res)
}

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

const socialColumns = `id, platform, url, is_active, sort_order, created_at`

func scanSocialLink(row rowScanner) (*models.SocialLink, error) {
	var l models.SocialLink
	err := row.Scan(&l.ID, &l.Platform, &l.URL, &l.IsActive, &l.SortOrder, &l.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan social link: %w", err)
	}
	return &l, nil
}

// ListSocialLinks returns social links in display order.
func (db *DB) ListSocialLinks(ctx context.Context, activeOnly bool) ([]models.SocialLink, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	query := `SELECT ` + socialColumns + ` FROM social_links`
	if activeOnly {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY sort_order ASC, id ASC`

	rows, err := db.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query social links: %w", err)
	}
	defer rows.Close()

	var links []models.SocialLink
	for rows.Next() {
		l, err := scanSocialLink(rows)
		if err != nil {
			return nil, err
		}
		links = append(links, *l)
	}
	return links, rows.Err()
}

// CreateSocialLink inserts a social link and returns it with its id.
func (db *DB) CreateSocialLink(ctx context.Context, l *models.SocialLink) (*models.SocialLink, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	row := db.conn.QueryRowContext(ctx, `
		INSERT INTO social_links (platform, url, is_active, sort_order)
		VALUES (?, ?, ?, ?)
		RETURNING `+socialColumns,
		l.Platform, l.URL, l.IsActive, l.SortOrder)
	return scanSocialLink(row)
}

// UpdateSocialLink rewrites a social link.
func (db *DB) UpdateSocialLink(ctx context.Context, l *models.SocialLink) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	res, err := db.conn.ExecContext(ctx, `
		UPDATE social_links SET platform = ?, url = ?, is_active = ?, sort_order = ?
		WHERE id = ?`,
		l.Platform, l.URL, l.IsActive, l.SortOrder, l.ID)
	if err != nil {
		return fmt.Errorf("failed to update social link: %w", err)
	}
	return requireRowsAffected(res)
}

// DeleteSocialLink removes a social link.
func (db *DB) DeleteSocialLink(ctx context.Context, id int64) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	res, err := db.conn.ExecContext(ctx, `DELETE FROM social_links WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete social link: %w", err)
	}
	return requireRowsAffected(res)
}

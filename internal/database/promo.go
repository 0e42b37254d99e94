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
	"strings"
	"time"

	"github.com/playforge/playforge/internal/models"
)

const promoColumns = `id, code, points, max_uses, used_count, expires_at, is_active, created_at`

func scanPromo(row rowScanner) (*models.Promocode, error) {
	var p models.Promocode
	var expires sql.NullTime
	err := row.Scan(&p.ID, &p.Code, &p.Points, &p.MaxUses, &p.UsedCount,
		&expires, &p.IsActive, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan promocode: %w", err)
	}
	if expires.Valid {
		t := expires.Time
		p.ExpiresAt = &t
	}
	return &p, nil
}

// ListPromocodes returns all codes for the admin back-office, newest first.
func (db *DB) ListPromocodes(ctx context.Context) ([]models.Promocode, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+promoColumns+` FROM promocodes ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query promocodes: %w", err)
	}
	defer rows.Close()

	var codes []models.Promocode
	for rows.Next() {
		p, err := scanPromo(rows)
		if err != nil {
			return nil, err
		}
		codes = append(codes, *p)
	}
	return codes, rows.Err()
}

// GetPromocodeByCode retrieves a code by its redeemable string. Lookup is
// case-insensitive; codes are stored uppercase.
func (db *DB) GetPromocodeByCode(ctx context.Context, code string) (*models.Promocode, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	row := db.conn.QueryRowContext(ctx,
		`SELECT `+promoColumns+` FROM promocodes WHERE code = ?`,
		strings.ToUpper(code))
	return scanPromo(row)
}

// CreatePromocode inserts a code and returns it with its id.
func (db *DB) CreatePromocode(ctx context.Context, p *models.Promocode) (*models.Promocode, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	row := db.conn.QueryRowContext(ctx, `
		INSERT INTO promocodes (code, points, max_uses, expires_at, is_active)
		VALUES (?, ?, ?, ?, ?)
		RETURNING `+promoColumns,
		strings.ToUpper(p.Code), p.Points, p.MaxUses, p.ExpiresAt, p.IsActive)
	return scanPromo(row)
}

// UpdatePromocode rewrites a code's reward and limits.
func (db *DB) UpdatePromocode(ctx context.Context, p *models.Promocode) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	res, err := db.conn.ExecContext(ctx, `
		UPDATE promocodes
		SET points = ?, max_uses = ?, expires_at = ?, is_active = ?
		WHERE id = ?`,
		p.Points, p.MaxUses, p.ExpiresAt, p.IsActive, p.ID)
	if err != nil {
		return fmt.Errorf("failed to update promocode: %w", err)
	}
	return requireRowsAffected(res)
}

// DeletePromocode removes a code and its redemption records.
func (db *DB) DeletePromocode(ctx context.Context, id int64) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	return db.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM promocodes WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("failed to delete promocode: %w", err)
		}
		if err := requireRowsAffected(res); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM promo_redemptions WHERE code_id = ?`, id); err != nil {
			return fmt.Errorf("failed to delete promo redemptions: %w", err)
		}
		return nil
	})
}

// RedeemPromocode redeems a code for the user. The transaction enforces
// activity, expiry, the total use cap and once-per-user, then credits the
// reward and records the redemption and history rows.
func (db *DB) RedeemPromocode(ctx context.Context, userID int64, code string) (*models.Promocode, *models.User, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var promo *models.Promocode
	var user *models.User
	err := db.withTx(ctx, func(tx *sql.Tx) error {
		p, err := scanPromo(tx.QueryRowContext(ctx,
			`SELECT `+promoColumns+` FROM promocodes WHERE code = ? AND is_active = TRUE`,
			strings.ToUpper(code)))
		if err != nil {
			return err
		}

		if p.ExpiresAt != nil && time.Now().After(*p.ExpiresAt) {
			return ErrPromoExpired
		}

		var redeemed bool
		err = tx.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM promo_redemptions WHERE code_id = ? AND user_id = ?)`,
			p.ID, userID).Scan(&redeemed)
		if err != nil {
			return fmt.Errorf("failed to check redemption: %w", err)
		}
		if redeemed {
			return ErrPromoRedeemed
		}

		// The conditional increment enforces the use cap under concurrency.
		res, err := tx.ExecContext(ctx,
			`UPDATE promocodes SET used_count = used_count + 1
			 WHERE id = ? AND (max_uses = 0 OR used_count < max_uses)`, p.ID)
		if err != nil {
			return fmt.Errorf("failed to increment use count: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to read rows affected: %w", err)
		}
		if n == 0 {
			return ErrPromoExhausted
		}
		p.UsedCount++

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO promo_redemptions (code_id, user_id) VALUES (?, ?)`, p.ID, userID); err != nil {
			return fmt.Errorf("failed to insert redemption: %w", err)
		}

		u, err := adjustBalance(ctx, tx, userID, p.Points, 0)
		if err != nil {
			return err
		}

		if err := insertHistory(ctx, tx, userID, p.Points, 0, "promo_redeem", "user"); err != nil {
			return err
		}

		promo = p
		user = u
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return promo, user, nil
}

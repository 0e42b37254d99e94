// Playforge - Gamified Community Platform
// Copyright 2026 Playforge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/playforge/playforge

// shop.go - shop catalog and the purchase transaction.
//
// PurchaseItem performs the whole purchase in one transaction: stock
// decrement, per-user limit check, balance debit and the history record.
// Any rejection rolls everything back, so a failed purchase never burns
// stock or points.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/playforge/playforge/internal/models"
)

const itemColumns = `id, name, description, price, stock, per_user_limit, is_active, sort_order, created_at, updated_at`

func scanItem(row rowScanner) (*models.ShopItem, error) {
	var it models.ShopItem
	err := row.Scan(&it.ID, &it.Name, &it.Description, &it.Price, &it.Stock,
		&it.PerUserLimit, &it.IsActive, &it.SortOrder, &it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan shop item: %w", err)
	}
	return &it, nil
}

// ListShopItems returns catalog entries in display order. With activeOnly,
// only purchasable items are returned.
func (db *DB) ListShopItems(ctx context.Context, activeOnly bool) ([]models.ShopItem, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	query := `SELECT ` + itemColumns + ` FROM shop_items`
	if activeOnly {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY sort_order ASC, id ASC`

	rows, err := db.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query shop items: %w", err)
	}
	defer rows.Close()

	var items []models.ShopItem
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *it)
	}
	return items, rows.Err()
}

// GetShopItem retrieves one catalog entry by id.
func (db *DB) GetShopItem(ctx context.Context, id int64) (*models.ShopItem, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	row := db.conn.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM shop_items WHERE id = ?`, id)
	return scanItem(row)
}

// CreateShopItem inserts a catalog entry and returns it with its id.
func (db *DB) CreateShopItem(ctx context.Context, it *models.ShopItem) (*models.ShopItem, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	row := db.conn.QueryRowContext(ctx, `
		INSERT INTO shop_items (name, description, price, stock, per_user_limit, is_active, sort_order)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING `+itemColumns,
		it.Name, it.Description, it.Price, it.Stock, it.PerUserLimit, it.IsActive, it.SortOrder)
	return scanItem(row)
}

// UpdateShopItem rewrites a catalog entry.
func (db *DB) UpdateShopItem(ctx context.Context, it *models.ShopItem) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	res, err := db.conn.ExecContext(ctx, `
		UPDATE shop_items
		SET name = ?, description = ?, price = ?, stock = ?, per_user_limit = ?,
			is_active = ?, sort_order = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		it.Name, it.Description, it.Price, it.Stock, it.PerUserLimit,
		it.IsActive, it.SortOrder, it.ID)
	if err != nil {
		return fmt.Errorf("failed to update shop item: %w", err)
	}
	return requireRowsAffected(res)
}

// DeleteShopItem removes a catalog entry. Purchase records survive.
func (db *DB) DeleteShopItem(ctx context.Context, id int64) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	res, err := db.conn.ExecContext(ctx, `DELETE FROM shop_items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete shop item: %w", err)
	}
	return requireRowsAffected(res)
}

// PurchaseItem buys one unit of an item for the user. The transaction
// checks activity, stock and per-user limit, debits the price and writes
// the purchase and history rows. On rejection nothing is persisted.
func (db *DB) PurchaseItem(ctx context.Context, userID, itemID int64) (*models.Purchase, *models.User, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var purchase *models.Purchase
	var user *models.User
	err := db.withTx(ctx, func(tx *sql.Tx) error {
		item, err := scanItem(tx.QueryRowContext(ctx,
			`SELECT `+itemColumns+` FROM shop_items WHERE id = ? AND is_active = TRUE`, itemID))
		if err != nil {
			return err
		}

		if item.PerUserLimit > 0 {
			var bought int
			err := tx.QueryRowContext(ctx,
				`SELECT COUNT(*) FROM purchases WHERE user_id = ? AND item_id = ?`,
				userID, itemID).Scan(&bought)
			if err != nil {
				return fmt.Errorf("failed to count purchases: %w", err)
			}
			if bought >= item.PerUserLimit {
				return ErrLimitReached
			}
		}

		// Stock >= 0 is finite; the conditional decrement rejects oversell.
		if item.Stock >= 0 {
			res, err := tx.ExecContext(ctx,
				`UPDATE shop_items SET stock = stock - 1, updated_at = CURRENT_TIMESTAMP
				 WHERE id = ? AND stock > 0`, itemID)
			if err != nil {
				return fmt.Errorf("failed to decrement stock: %w", err)
			}
			n, err := res.RowsAffected()
			if err != nil {
				return fmt.Errorf("failed to read rows affected: %w", err)
			}
			if n == 0 {
				return ErrOutOfStock
			}
		}

		u, err := adjustBalance(ctx, tx, userID, -item.Price, 0)
		if err != nil {
			return err
		}

		var p models.Purchase
		err = tx.QueryRowContext(ctx, `
			INSERT INTO purchases (user_id, item_id, price_paid)
			VALUES (?, ?, ?)
			RETURNING id, user_id, item_id, price_paid, created_at`,
			userID, itemID, item.Price).Scan(&p.ID, &p.UserID, &p.ItemID, &p.PricePaid, &p.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert purchase: %w", err)
		}

		if err := insertHistory(ctx, tx, userID, -item.Price, 0, "shop_purchase", "user"); err != nil {
			return err
		}

		purchase = &p
		user = u
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return purchase, user, nil
}

// ListPurchases returns a user's purchases, newest first.
func (db *DB) ListPurchases(ctx context.Context, userID int64, limit, offset int) ([]models.Purchase, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx, `
		SELECT id, user_id, item_id, price_paid, created_at
		FROM purchases
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?`,
		userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query purchases: %w", err)
	}
	defer rows.Close()

	var purchases []models.Purchase
	for rows.Next() {
		var p models.Purchase
		if err := rows.Scan(&p.ID, &p.UserID, &p.ItemID, &p.PricePaid, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan purchase: %w", err)
		}
		purchases = append(purchases, p)
	}
	return purchases, rows.Err()
}

// UserPurchaseCount returns how many units of an item the user has bought.
func (db *DB) UserPurchaseCount(ctx context.Context, userID, itemID int64) (int, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var n int
	err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM purchases WHERE user_id = ? AND item_id = ?`,
		userID, itemID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count purchases: %w", err)
	}
	return n, nil
}

// Playforge - Gamified Community Platform
// Copyright 2026 Playforge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/playforge/playforge

package database

import (
	"context"
	"fmt"
	"time"
)

// schemaStatements is the initial schema. All statements are idempotent so
// startup can run them unconditionally; incremental changes after first
// release go through versioned migrations instead.
var schemaStatements = []string{
	`CREATE SEQUENCE IF NOT EXISTS seq_ranks START 1`,
	`CREATE SEQUENCE IF NOT EXISTS seq_wheel_prizes START 1`,
	`CREATE SEQUENCE IF NOT EXISTS seq_spin_history START 1`,
	`CREATE SEQUENCE IF NOT EXISTS seq_shop_items START 1`,
	`CREATE SEQUENCE IF NOT EXISTS seq_purchases START 1`,
	`CREATE SEQUENCE IF NOT EXISTS seq_tasks START 1`,
	`CREATE SEQUENCE IF NOT EXISTS seq_task_claims START 1`,
	`CREATE SEQUENCE IF NOT EXISTS seq_promocodes START 1`,
	`CREATE SEQUENCE IF NOT EXISTS seq_promo_redemptions START 1`,
	`CREATE SEQUENCE IF NOT EXISTS seq_sponsors START 1`,
	`CREATE SEQUENCE IF NOT EXISTS seq_social_links START 1`,
	`CREATE SEQUENCE IF NOT EXISTS seq_ticket_events START 1`,
	`CREATE SEQUENCE IF NOT EXISTS seq_tickets START 1`,
	`CREATE SEQUENCE IF NOT EXISTS seq_point_history START 1`,

	// users.id is the Telegram user id, assigned externally.
	`CREATE TABLE IF NOT EXISTS users (
		id BIGINT PRIMARY KEY,
		username TEXT NOT NULL DEFAULT '',
		first_name TEXT NOT NULL DEFAULT '',
		points BIGINT NOT NULL DEFAULT 0,
		xp BIGINT NOT NULL DEFAULT 0,
		is_banned BOOLEAN NOT NULL DEFAULT FALSE,
		daily_spins_left INTEGER NOT NULL DEFAULT 0,
		last_spin_reset TIMESTAMP,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,

	`CREATE TABLE IF NOT EXISTS ranks (
		id BIGINT PRIMARY KEY DEFAULT nextval('seq_ranks'),
		name TEXT NOT NULL,
		min_xp BIGINT NOT NULL,
		sort_order INTEGER NOT NULL DEFAULT 0
	)`,

	`CREATE TABLE IF NOT EXISTS wheel_prizes (
		id BIGINT PRIMARY KEY DEFAULT nextval('seq_wheel_prizes'),
		label TEXT NOT NULL,
		points BIGINT NOT NULL DEFAULT 0,
		weight DOUBLE NOT NULL DEFAULT 1.0,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		sort_order INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,

	`CREATE TABLE IF NOT EXISTS spin_history (
		id BIGINT PRIMARY KEY DEFAULT nextval('seq_spin_history'),
		user_id BIGINT NOT NULL,
		prize_id BIGINT NOT NULL,
		label TEXT NOT NULL,
		points BIGINT NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,

	// stock < 0 means unlimited.
	`CREATE TABLE IF NOT EXISTS shop_items (
		id BIGINT PRIMARY KEY DEFAULT nextval('seq_shop_items'),
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		price BIGINT NOT NULL,
		stock INTEGER NOT NULL DEFAULT -1,
		per_user_limit INTEGER NOT NULL DEFAULT 0,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		sort_order INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,

	`CREATE TABLE IF NOT EXISTS purchases (
		id BIGINT PRIMARY KEY DEFAULT nextval('seq_purchases'),
		user_id BIGINT NOT NULL,
		item_id BIGINT NOT NULL,
		price_paid BIGINT NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,

	`CREATE TABLE IF NOT EXISTS tasks (
		id BIGINT PRIMARY KEY DEFAULT nextval('seq_tasks'),
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		url TEXT NOT NULL DEFAULT '',
		reward_points BIGINT NOT NULL DEFAULT 0,
		reward_xp BIGINT NOT NULL DEFAULT 0,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		sort_order INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,

	`CREATE TABLE IF NOT EXISTS task_claims (
		id BIGINT PRIMARY KEY DEFAULT nextval('seq_task_claims'),
		task_id BIGINT NOT NULL,
		user_id BIGINT NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE (task_id, user_id)
	)`,

	// max_uses = 0 means unlimited total redemptions.
	`CREATE TABLE IF NOT EXISTS promocodes (
		id BIGINT PRIMARY KEY DEFAULT nextval('seq_promocodes'),
		code TEXT NOT NULL UNIQUE,
		points BIGINT NOT NULL DEFAULT 0,
		max_uses INTEGER NOT NULL DEFAULT 0,
		used_count INTEGER NOT NULL DEFAULT 0,
		expires_at TIMESTAMP,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,

	`CREATE TABLE IF NOT EXISTS promo_redemptions (
		id BIGINT PRIMARY KEY DEFAULT nextval('seq_promo_redemptions'),
		code_id BIGINT NOT NULL,
		user_id BIGINT NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE (code_id, user_id)
	)`,

	`CREATE TABLE IF NOT EXISTS sponsors (
		id BIGINT PRIMARY KEY DEFAULT nextval('seq_sponsors'),
		name TEXT NOT NULL,
		url TEXT NOT NULL DEFAULT '',
		logo_url TEXT NOT NULL DEFAULT '',
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		sort_order INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,

	`CREATE TABLE IF NOT EXISTS social_links (
		id BIGINT PRIMARY KEY DEFAULT nextval('seq_social_links'),
		platform TEXT NOT NULL,
		url TEXT NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		sort_order INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,

	// max_tickets = 0 means no per-user cap.
	`CREATE TABLE IF NOT EXISTS ticket_events (
		id BIGINT PRIMARY KEY DEFAULT nextval('seq_ticket_events'),
		title TEXT NOT NULL,
		ticket_price BIGINT NOT NULL,
		max_tickets INTEGER NOT NULL DEFAULT 0,
		status TEXT NOT NULL DEFAULT 'open',
		winner_id BIGINT,
		ends_at TIMESTAMP,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,

	`CREATE TABLE IF NOT EXISTS tickets (
		id BIGINT PRIMARY KEY DEFAULT nextval('seq_tickets'),
		event_id BIGINT NOT NULL,
		user_id BIGINT NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,

	// Append-only audit trail of every balance change.
	`CREATE TABLE IF NOT EXISTS point_history (
		id BIGINT PRIMARY KEY DEFAULT nextval('seq_point_history'),
		user_id BIGINT NOT NULL,
		delta BIGINT NOT NULL,
		xp_delta BIGINT NOT NULL DEFAULT 0,
		reason TEXT NOT NULL,
		actor TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,

	`CREATE TABLE IF NOT EXISTS game_rounds (
		id TEXT PRIMARY KEY,
		user_id BIGINT NOT NULL,
		game TEXT NOT NULL,
		bet BIGINT NOT NULL,
		payout BIGINT NOT NULL DEFAULT 0,
		outcome TEXT NOT NULL DEFAULT '',
		state TEXT NOT NULL DEFAULT 'placed',
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		settled_at TIMESTAMP
	)`,

	`CREATE INDEX IF NOT EXISTS idx_spin_history_user ON spin_history (user_id, created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_purchases_user ON purchases (user_id, created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_purchases_item ON purchases (item_id)`,
	`CREATE INDEX IF NOT EXISTS idx_task_claims_user ON task_claims (user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_tickets_event ON tickets (event_id)`,
	`CREATE INDEX IF NOT EXISTS idx_point_history_user ON point_history (user_id, created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_game_rounds_user ON game_rounds (user_id, created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_users_points ON users (points)`,
}

// createSchema executes all idempotent schema statements.
func (db *DB) createSchema() error {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	for _, stmt := range schemaStatements {
		if _, err := db.conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("schema statement failed: %w", err)
		}
	}
	return nil
}

// Playforge - Gamified Community Platform
// Copyright 2026 Playforge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/playforge/playforge

// games.go - mini-game rounds.
//
// PlaceRound debits the bet; SettleRound credits the payout and marks the
// round settled exactly once. Both pair the balance change with its history
// record in one transaction.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/playforge/playforge/internal/models"
)

const roundColumns = `id, user_id, game, bet, payout, outcome, state, created_at, settled_at`

func scanRound(row rowScanner) (*models.GameRound, error) {
	var r models.GameRound
	var settledAt sql.NullTime
	err := row.Scan(&r.ID, &r.UserID, &r.Game, &r.Bet, &r.Payout,
		&r.Outcome, &r.State, &r.CreatedAt, &settledAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan game round: %w", err)
	}
	if settledAt.Valid {
		t := settledAt.Time
		r.SettledAt = &t
	}
	return &r, nil
}

// PlaceRound debits the bet and records the round in the placed state.
func (db *DB) PlaceRound(ctx context.Context, roundID string, userID int64, game string, bet int64) (*models.GameRound, *models.User, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var round *models.GameRound
	var user *models.User
	err := db.withTx(ctx, func(tx *sql.Tx) error {
		u, err := adjustBalance(ctx, tx, userID, -bet, 0)
		if err != nil {
			return err
		}

		r := tx.QueryRowContext(ctx, `
			INSERT INTO game_rounds (id, user_id, game, bet, state)
			VALUES (?, ?, ?, ?, ?)
			RETURNING `+roundColumns,
			roundID, userID, game, bet, models.GameRoundPlaced)
		placed, err := scanRound(r)
		if err != nil {
			return err
		}

		if err := insertHistory(ctx, tx, userID, -bet, 0, "game_bet", "user"); err != nil {
			return err
		}

		round = placed
		user = u
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return round, user, nil
}

// SettleRound records the outcome and credits the payout. A round settles
// exactly once; the conditional UPDATE rejects a second settlement.
func (db *DB) SettleRound(ctx context.Context, roundID string, payout int64, outcome string) (*models.GameRound, *models.User, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var round *models.GameRound
	var user *models.User
	err := db.withTx(ctx, func(tx *sql.Tx) error {
		r := tx.QueryRowContext(ctx, `
			UPDATE game_rounds
			SET payout = ?, outcome = ?, state = ?, settled_at = CURRENT_TIMESTAMP
			WHERE id = ? AND state = ?
			RETURNING `+roundColumns,
			payout, outcome, models.GameRoundSettled, roundID, models.GameRoundPlaced)
		settled, err := scanRound(r)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				// Missing or already settled; disambiguate.
				if _, getErr := scanRound(tx.QueryRowContext(ctx,
					`SELECT `+roundColumns+` FROM game_rounds WHERE id = ?`, roundID)); getErr != nil {
					return getErr
				}
				return ErrRoundSettled
			}
			return err
		}

		u := &models.User{}
		if payout > 0 {
			u, err = adjustBalance(ctx, tx, settled.UserID, payout, 0)
			if err != nil {
				return err
			}
			if err := insertHistory(ctx, tx, settled.UserID, payout, 0, "game_payout", "user"); err != nil {
				return err
			}
		} else {
			u, err = scanUser(tx.QueryRowContext(ctx,
				`SELECT `+userColumns+` FROM users WHERE id = ?`, settled.UserID))
			if err != nil {
				return err
			}
		}

		round = settled
		user = u
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return round, user, nil
}

// GetRound retrieves one round by id.
func (db *DB) GetRound(ctx context.Context, roundID string) (*models.GameRound, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	row := db.conn.QueryRowContext(ctx,
		`SELECT `+roundColumns+` FROM game_rounds WHERE id = ?`, roundID)
	return scanRound(row)
}

// ListRounds returns a user's rounds, newest first.
func (db *DB) ListRounds(ctx context.Context, userID int64, limit, offset int) ([]models.GameRound, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx, `
		SELECT `+roundColumns+` FROM game_rounds
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?`,
		userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query game rounds: %w", err)
	}
	defer rows.Close()

	var rounds []models.GameRound
	for rows.Next() {
		r, err := scanRound(rows)
		if err != nil {
			return nil, err
		}
		rounds = append(rounds, *r)
	}
	return rounds, rows.Err()
}

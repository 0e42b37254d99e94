// Playforge - Gamified Community Platform
// Copyright 2026 Playforge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/playforge/playforge

// tickets.go - raffle events and ticket purchases.
//
// Buying tickets debits points and inserts ticket rows in one transaction.
// The draw picks a uniformly random sold ticket and is only possible on a
// closed event, exactly once.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand"

	"github.com/playforge/playforge/internal/models"
)

const eventColumns = `e.id, e.title, e.ticket_price, e.max_tickets, e.status, e.winner_id, e.ends_at, e.created_at`

func scanEvent(row rowScanner) (*models.TicketEvent, error) {
	var ev models.TicketEvent
	var winner sql.NullInt64
	var endsAt sql.NullTime
	err := row.Scan(&ev.ID, &ev.Title, &ev.TicketPrice, &ev.MaxTickets,
		&ev.Status, &winner, &endsAt, &ev.CreatedAt, &ev.SoldTickets)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan ticket event: %w", err)
	}
	if winner.Valid {
		w := winner.Int64
		ev.WinnerID = &w
	}
	if endsAt.Valid {
		t := endsAt.Time
		ev.EndsAt = &t
	}
	return &ev, nil
}

const eventQuery = `
	SELECT ` + eventColumns + `,
		(SELECT COUNT(*) FROM tickets t WHERE t.event_id = e.id) AS sold
	FROM ticket_events e`

// ListTicketEvents returns raffle events, newest first.
func (db *DB) ListTicketEvents(ctx context.Context) ([]models.TicketEvent, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx, eventQuery+` ORDER BY e.created_at DESC, e.id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query ticket events: %w", err)
	}
	defer rows.Close()

	var events []models.TicketEvent
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, *ev)
	}
	return events, rows.Err()
}

// GetTicketEvent retrieves one raffle event with its sold count.
func (db *DB) GetTicketEvent(ctx context.Context, id int64) (*models.TicketEvent, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	row := db.conn.QueryRowContext(ctx, eventQuery+` WHERE e.id = ?`, id)
	return scanEvent(row)
}

// CreateTicketEvent inserts a raffle event in the open state.
func (db *DB) CreateTicketEvent(ctx context.Context, ev *models.TicketEvent) (*models.TicketEvent, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var id int64
	err := db.conn.QueryRowContext(ctx, `
		INSERT INTO ticket_events (title, ticket_price, max_tickets, status, ends_at)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id`,
		ev.Title, ev.TicketPrice, ev.MaxTickets, models.TicketEventOpen, ev.EndsAt).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("failed to insert ticket event: %w", err)
	}
	return db.GetTicketEvent(ctx, id)
}

// CloseTicketEvent moves an open event to closed, stopping ticket sales.
func (db *DB) CloseTicketEvent(ctx context.Context, id int64) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	res, err := db.conn.ExecContext(ctx,
		`UPDATE ticket_events SET status = ? WHERE id = ? AND status = ?`,
		models.TicketEventClosed, id, models.TicketEventOpen)
	if err != nil {
		return fmt.Errorf("failed to close ticket event: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		// Either missing or not open; disambiguate for the caller.
		if _, err := db.GetTicketEvent(ctx, id); err != nil {
			return err
		}
		return ErrEventNotOpen
	}
	return nil
}

// BuyTickets purchases count tickets for the user. The debit, ticket rows
// and history record share one transaction; the cap is enforced against
// the event-wide sold count.
func (db *DB) BuyTickets(ctx context.Context, userID, eventID int64, count int) ([]models.Ticket, *models.User, error) {
	if count < 1 {
		return nil, nil, fmt.Errorf("ticket count must be positive, got %d", count)
	}
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var tickets []models.Ticket
	var user *models.User
	err := db.withTx(ctx, func(tx *sql.Tx) error {
		ev, err := scanEvent(tx.QueryRowContext(ctx, eventQuery+` WHERE e.id = ?`, eventID))
		if err != nil {
			return err
		}
		if ev.Status != models.TicketEventOpen {
			return ErrEventNotOpen
		}

		// SoldTickets comes from the same transaction snapshot, so the
		// event-wide cap holds across concurrent buyers.
		if ev.MaxTickets > 0 && ev.SoldTickets+count > ev.MaxTickets {
			return ErrLimitReached
		}

		total := ev.TicketPrice * int64(count)
		u, err := adjustBalance(ctx, tx, userID, -total, 0)
		if err != nil {
			return err
		}

		for i := 0; i < count; i++ {
			var t models.Ticket
			err := tx.QueryRowContext(ctx, `
				INSERT INTO tickets (event_id, user_id)
				VALUES (?, ?)
				RETURNING id, event_id, user_id, created_at`,
				eventID, userID).Scan(&t.ID, &t.EventID, &t.UserID, &t.CreatedAt)
			if err != nil {
				return fmt.Errorf("failed to insert ticket: %w", err)
			}
			tickets = append(tickets, t)
		}

		if err := insertHistory(ctx, tx, userID, -total, 0, "ticket_purchase", "user"); err != nil {
			return err
		}

		user = u
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return tickets, user, nil
}

// DrawTicketWinner picks a uniformly random sold ticket of a closed event
// and records the winner, moving the event to drawn. Drawing twice or on an
// open event is rejected.
func (db *DB) DrawTicketWinner(ctx context.Context, eventID int64) (*models.TicketEvent, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	err := db.withTx(ctx, func(tx *sql.Tx) error {
		ev, err := scanEvent(tx.QueryRowContext(ctx, eventQuery+` WHERE e.id = ?`, eventID))
		if err != nil {
			return err
		}
		if ev.Status != models.TicketEventClosed {
			return ErrEventNotClosed
		}
		if ev.SoldTickets == 0 {
			return ErrNoTicketsSold
		}

		var winnerID int64
		err = tx.QueryRowContext(ctx,
			`SELECT user_id FROM tickets WHERE event_id = ? ORDER BY id LIMIT 1 OFFSET ?`,
			eventID, rand.Intn(ev.SoldTickets)).Scan(&winnerID)
		if err != nil {
			return fmt.Errorf("failed to pick winning ticket: %w", err)
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE ticket_events SET status = ?, winner_id = ? WHERE id = ?`,
			models.TicketEventDrawn, winnerID, eventID)
		if err != nil {
			return fmt.Errorf("failed to record winner: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return db.GetTicketEvent(ctx, eventID)
}

// ListUserTickets returns the user's tickets for an event.
func (db *DB) ListUserTickets(ctx context.Context, userID, eventID int64) ([]models.Ticket, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx, `
		SELECT id, event_id, user_id, created_at FROM tickets
		WHERE user_id = ? AND event_id = ?
		ORDER BY id`,
		userID, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to query tickets: %w", err)
	}
	defer rows.Close()

	var tickets []models.Ticket
	for rows.Next() {
		var t models.Ticket
		if err := rows.Scan(&t.ID, &t.EventID, &t.UserID, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan ticket: %w", err)
		}
		tickets = append(tickets, t)
	}
	return tickets, rows.Err()
}

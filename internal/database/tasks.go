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

const taskColumns = `id, title, description, url, reward_points, reward_xp, is_active, sort_order, created_at, updated_at`

func scanTask(row rowScanner) (*models.Task, error) {
	var t models.Task
	err := row.Scan(&t.ID, &t.Title, &t.Description, &t.URL, &t.RewardPoints,
		&t.RewardXP, &t.IsActive, &t.SortOrder, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan task: %w", err)
	}
	return &t, nil
}

// ListTasks returns tasks in display order. With activeOnly, only claimable
// tasks are returned.
func (db *DB) ListTasks(ctx context.Context, activeOnly bool) ([]models.Task, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	query := `SELECT ` + taskColumns + ` FROM tasks`
	if activeOnly {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY sort_order ASC, id ASC`

	rows, err := db.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

// GetTask retrieves one task by id.
func (db *DB) GetTask(ctx context.Context, id int64) (*models.Task, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	row := db.conn.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	return scanTask(row)
}

// CreateTask inserts a task and returns it with its id.
func (db *DB) CreateTask(ctx context.Context, t *models.Task) (*models.Task, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	row := db.conn.QueryRowContext(ctx, `
		INSERT INTO tasks (title, description, url, reward_points, reward_xp, is_active, sort_order)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING `+taskColumns,
		t.Title, t.Description, t.URL, t.RewardPoints, t.RewardXP, t.IsActive, t.SortOrder)
	return scanTask(row)
}

// UpdateTask rewrites a task.
func (db *DB) UpdateTask(ctx context.Context, t *models.Task) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	res, err := db.conn.ExecContext(ctx, `
		UPDATE tasks
		SET title = ?, description = ?, url = ?, reward_points = ?, reward_xp = ?,
			is_active = ?, sort_order = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		t.Title, t.Description, t.URL, t.RewardPoints, t.RewardXP,
		t.IsActive, t.SortOrder, t.ID)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	return requireRowsAffected(res)
}

// DeleteTask removes a task and its claims.
func (db *DB) DeleteTask(ctx context.Context, id int64) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	return db.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("failed to delete task: %w", err)
		}
		if err := requireRowsAffected(res); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM task_claims WHERE task_id = ?`, id); err != nil {
			return fmt.Errorf("failed to delete task claims: %w", err)
		}
		return nil
	})
}

// ClaimTask awards the task reward to the user once. The claim row, balance
// credit and history record share one transaction; a second claim by the
// same user is rejected with ErrAlreadyClaimed.
func (db *DB) ClaimTask(ctx context.Context, userID, taskID int64) (*models.Task, *models.User, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var task *models.Task
	var user *models.User
	err := db.withTx(ctx, func(tx *sql.Tx) error {
		t, err := scanTask(tx.QueryRowContext(ctx,
			`SELECT `+taskColumns+` FROM tasks WHERE id = ? AND is_active = TRUE`, taskID))
		if err != nil {
			return err
		}

		var claimed bool
		err = tx.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM task_claims WHERE task_id = ? AND user_id = ?)`,
			taskID, userID).Scan(&claimed)
		if err != nil {
			return fmt.Errorf("failed to check task claim: %w", err)
		}
		if claimed {
			return ErrAlreadyClaimed
		}

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO task_claims (task_id, user_id) VALUES (?, ?)`, taskID, userID); err != nil {
			return fmt.Errorf("failed to insert task claim: %w", err)
		}

		u, err := adjustBalance(ctx, tx, userID, t.RewardPoints, t.RewardXP)
		if err != nil {
			return err
		}

		if err := insertHistory(ctx, tx, userID, t.RewardPoints, t.RewardXP, "task_claim", "user"); err != nil {
			return err
		}

		task = t
		user = u
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return task, user, nil
}

// ListClaimedTaskIDs returns the ids of tasks the user has already claimed.
func (db *DB) ListClaimedTaskIDs(ctx context.Context, userID int64) (map[int64]bool, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx,
		`SELECT task_id FROM task_claims WHERE user_id = ?`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query task claims: %w", err)
	}
	defer rows.Close()

	claimed := make(map[int64]bool)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan task claim: %w", err)
		}
		claimed[id] = true
	}
	return claimed, rows.Err()
}

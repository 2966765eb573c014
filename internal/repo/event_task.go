package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"colorin/internal/model"
)

func (r *repository) CreateEventTask(ctx context.Context, t *model.EventTask) (int64, error) {
	query := `
		INSERT INTO event_tasks (event_id, description, completed)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	var id int64
	row := r.db.QueryRowContext(ctx, query, t.EventID, t.Description, t.Completed)
	if err := row.Scan(&id, &t.CreatedAt); err != nil {
		return 0, fmt.Errorf("failed to insert event task: %w", err)
	}
	return id, nil
}

const eventTaskColumns = `id, event_id, description, completed, created_at, completed_at`

func (r *repository) GetEventTask(ctx context.Context, id, eventID int64) (*model.EventTask, error) {
	query := `SELECT ` + eventTaskColumns + ` FROM event_tasks WHERE id = $1 AND event_id = $2`

	var t model.EventTask
	row := r.db.QueryRowContext(ctx, query, id, eventID)
	if err := row.Scan(&t.ID, &t.EventID, &t.Description, &t.Completed, &t.CreatedAt, &t.CompletedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to scan event task: %w", err)
	}
	return &t, nil
}

func (r *repository) ListEventTasks(ctx context.Context, eventID int64, completed *bool) ([]model.EventTask, error) {
	query := `SELECT ` + eventTaskColumns + ` FROM event_tasks WHERE event_id = $1`
	args := []any{eventID}
	if completed != nil {
		args = append(args, *completed)
		query += fmt.Sprintf(` AND completed = $%d`, len(args))
	}
	// Pending items first, newest first within each group.
	query += ` ORDER BY completed ASC, created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list event tasks: %w", err)
	}
	defer rows.Close()

	var tasks []model.EventTask
	for rows.Next() {
		var t model.EventTask
		if err := rows.Scan(&t.ID, &t.EventID, &t.Description, &t.Completed, &t.CreatedAt, &t.CompletedAt); err != nil {
			return nil, fmt.Errorf("failed to scan event task: %w", err)
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (r *repository) UpdateEventTask(ctx context.Context, t *model.EventTask) error {
	query := `
		UPDATE event_tasks
		SET description = $1, completed = $2, completed_at = $3
		WHERE id = $4 AND event_id = $5
		RETURNING id
	`
	var id int64
	row := r.db.QueryRowContext(ctx, query, t.Description, t.Completed, t.CompletedAt, t.ID, t.EventID)
	if err := row.Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to update event task: %w", err)
	}
	return nil
}

func (r *repository) DeleteEventTask(ctx context.Context, id, eventID int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM event_tasks WHERE id = $1 AND event_id = $2`, id, eventID)
	if err != nil {
		return fmt.Errorf("failed to delete event task: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read delete result: %w", err)
	}
	if affected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

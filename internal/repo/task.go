package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"colorin/internal/model"
)

func (r *repository) CreateTask(ctx context.Context, t *model.Task) (int64, error) {
	query := `
		INSERT INTO tasks (user_id, title, description, completed, due_date, priority)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`
	var id int64
	row := r.db.QueryRowContext(ctx, query,
		t.UserID, t.Title, t.Description, t.Completed, t.DueDate, t.Priority,
	)
	if err := row.Scan(&id, &t.CreatedAt); err != nil {
		return 0, fmt.Errorf("failed to insert task: %w", err)
	}
	return id, nil
}

func scanTask(scan func(dest ...any) error) (*model.Task, error) {
	var (
		t    model.Task
		desc sql.NullString
	)
	if err := scan(
		&t.ID, &t.UserID, &t.Title, &desc, &t.Completed, &t.DueDate, &t.Priority, &t.CreatedAt, &t.CompletedAt,
	); err != nil {
		return nil, err
	}
	t.Description = desc.String
	return &t, nil
}

const taskColumns = `id, user_id, title, description, completed, due_date, priority, created_at, completed_at`

func (r *repository) GetTask(ctx context.Context, id, userID int64) (*model.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1 AND user_id = $2`

	t, err := scanTask(r.db.QueryRowContext(ctx, query, id, userID).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to scan task: %w", err)
	}
	return t, nil
}

func (r *repository) ListTasks(ctx context.Context, userID int64, completed *bool, priority string) ([]model.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE user_id = $1`
	args := []any{userID}
	if completed != nil {
		args = append(args, *completed)
		query += fmt.Sprintf(` AND completed = $%d`, len(args))
	}
	if priority != "" {
		args = append(args, priority)
		query += fmt.Sprintf(` AND priority = $%d`, len(args))
	}
	// Tasks without a due date sort after dated ones; postgres would put
	// them first on a plain ASC, so the ordering is spelled out.
	query += ` ORDER BY due_date ASC NULLS LAST, priority DESC, created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []model.Task
	for rows.Next() {
		t, err := scanTask(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

func (r *repository) UpdateTask(ctx context.Context, t *model.Task) error {
	query := `
		UPDATE tasks
		SET title = $1, description = $2, completed = $3, due_date = $4, priority = $5, completed_at = $6
		WHERE id = $7 AND user_id = $8
		RETURNING id
	`
	var id int64
	row := r.db.QueryRowContext(ctx, query,
		t.Title, t.Description, t.Completed, t.DueDate, t.Priority, t.CompletedAt, t.ID, t.UserID,
	)
	if err := row.Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to update task: %w", err)
	}
	return nil
}

func (r *repository) DeleteTask(ctx context.Context, id, userID int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
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

package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"colorin/internal/model"
)

func (r *repository) CreateUser(ctx context.Context, u *model.User) (int64, error) {
	query := `
		INSERT INTO users (username, email, hashed_password, active, is_admin)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	var id int64
	row := r.db.QueryRowContext(ctx, query, u.Username, u.Email, u.HashedPassword, u.Active, u.IsAdmin)
	if err := row.Scan(&id, &u.CreatedAt); err != nil {
		return 0, fmt.Errorf("failed to insert user: %w", err)
	}
	return id, nil
}

func (r *repository) scanUser(row *sql.Row) (*model.User, error) {
	var u model.User
	if err := row.Scan(
		&u.ID, &u.Username, &u.Email, &u.HashedPassword, &u.Active, &u.IsAdmin, &u.CreatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	return &u, nil
}

func (r *repository) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	query := `
		SELECT id, username, email, hashed_password, active, is_admin, created_at
		FROM users WHERE username = $1
	`
	return r.scanUser(r.db.QueryRowContext(ctx, query, username))
}

func (r *repository) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	query := `
		SELECT id, username, email, hashed_password, active, is_admin, created_at
		FROM users WHERE id = $1
	`
	return r.scanUser(r.db.QueryRowContext(ctx, query, id))
}

func (r *repository) CountUsers(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}

func (r *repository) UserEmailExists(ctx context.Context, email string) (bool, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE email = $1`, email).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check email: %w", err)
	}
	return count > 0, nil
}

func (r *repository) UpdateUserPassword(ctx context.Context, id int64, hashed string) error {
	query := `UPDATE users SET hashed_password = $1 WHERE id = $2 RETURNING id`

	var updated int64
	if err := r.db.QueryRowContext(ctx, query, hashed, id).Scan(&updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

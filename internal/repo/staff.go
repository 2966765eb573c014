package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"colorin/internal/model"
)

func (r *repository) CreateStaff(ctx context.Context, s *model.Staff) (int64, error) {
	query := `INSERT INTO staff (name, active) VALUES ($1, $2) RETURNING id`

	var id int64
	if err := r.db.QueryRowContext(ctx, query, s.Name, s.Active).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to insert staff member: %w", err)
	}
	return id, nil
}

func (r *repository) GetStaffByID(ctx context.Context, id int64) (*model.Staff, error) {
	query := `SELECT id, name, active FROM staff WHERE id = $1`

	var s model.Staff
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&s.ID, &s.Name, &s.Active); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrStaffNotFound
		}
		return nil, fmt.Errorf("failed to scan staff member: %w", err)
	}
	return &s, nil
}

func (r *repository) ListStaff(ctx context.Context, active *bool) ([]model.Staff, error) {
	query := `SELECT id, name, active FROM staff`
	args := []any{}
	if active != nil {
		query += ` WHERE active = $1`
		args = append(args, *active)
	}
	query += ` ORDER BY name, id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list staff: %w", err)
	}
	defer rows.Close()

	var staff []model.Staff
	for rows.Next() {
		var s model.Staff
		if err := rows.Scan(&s.ID, &s.Name, &s.Active); err != nil {
			return nil, fmt.Errorf("failed to scan staff member: %w", err)
		}
		staff = append(staff, s)
	}
	return staff, rows.Err()
}

func (r *repository) UpdateStaff(ctx context.Context, s *model.Staff) error {
	query := `UPDATE staff SET name = $1, active = $2 WHERE id = $3 RETURNING id`

	var id int64
	if err := r.db.QueryRowContext(ctx, query, s.Name, s.Active, s.ID).Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrStaffNotFound
		}
		return fmt.Errorf("failed to update staff member: %w", err)
	}
	return nil
}

func (r *repository) DeleteStaff(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM staff WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete staff member: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read delete result: %w", err)
	}
	if affected == 0 {
		return ErrStaffNotFound
	}
	return nil
}

func (r *repository) CountAssignmentsByStaff(ctx context.Context, staffID int64) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM assignments WHERE staff_id = $1`
	if err := r.db.QueryRowContext(ctx, query, staffID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count assignments: %w", err)
	}
	return count, nil
}

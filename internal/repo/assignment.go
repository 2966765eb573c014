package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"colorin/internal/model"
)

func (r *repository) CreateAssignment(ctx context.Context, a *model.Assignment) (int64, error) {
	var exists int
	existsQuery := `SELECT COUNT(*) FROM assignments WHERE staff_id = $1 AND event_id = $2`
	if err := r.db.QueryRowContext(ctx, existsQuery, a.StaffID, a.EventID).Scan(&exists); err != nil {
		return 0, fmt.Errorf("failed to check duplicate assignment: %w", err)
	}
	if exists > 0 {
		return 0, ErrDuplicateAssignment
	}

	query := `
		INSERT INTO assignments (staff_id, event_id, role)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	var id int64
	if err := r.db.QueryRowContext(ctx, query, a.StaffID, a.EventID, a.Role).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to insert assignment: %w", err)
	}
	return id, nil
}

func (r *repository) ListAssignments(ctx context.Context, staffID, eventID int64) ([]model.Assignment, error) {
	query := `SELECT id, staff_id, event_id, role FROM assignments WHERE 1=1`
	args := []any{}
	if staffID > 0 {
		args = append(args, staffID)
		query += fmt.Sprintf(` AND staff_id = $%d`, len(args))
	}
	if eventID > 0 {
		args = append(args, eventID)
		query += fmt.Sprintf(` AND event_id = $%d`, len(args))
	}
	query += ` ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	defer rows.Close()

	var assignments []model.Assignment
	for rows.Next() {
		var a model.Assignment
		if err := rows.Scan(&a.ID, &a.StaffID, &a.EventID, &a.Role); err != nil {
			return nil, fmt.Errorf("failed to scan assignment: %w", err)
		}
		assignments = append(assignments, a)
	}
	return assignments, rows.Err()
}

func (r *repository) DeleteAssignment(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM assignments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete assignment: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read delete result: %w", err)
	}
	if affected == 0 {
		return ErrAssignmentNotFound
	}
	return nil
}

func (r *repository) AssignedStaffIDs(ctx context.Context, eventID int64) (map[int64]bool, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT staff_id FROM assignments WHERE event_id = $1`, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assigned staff: %w", err)
	}
	defer rows.Close()

	assigned := make(map[int64]bool)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan staff id: %w", err)
		}
		assigned[id] = true
	}
	return assigned, rows.Err()
}

// CreateAssignmentsTx inserts assignments for the given staff on one event as
// a unit: staff already on the event are skipped inside the transaction, any
// storage failure rolls the whole batch back.
func (r *repository) CreateAssignmentsTx(ctx context.Context, eventID int64, staff []model.Staff, role string) ([]model.Assignment, error) {
	tx, err := r.db.Master.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	var created []model.Assignment
	for _, s := range staff {
		var exists int
		existsQuery := `SELECT COUNT(*) FROM assignments WHERE staff_id = $1 AND event_id = $2`
		if err := tx.QueryRowContext(ctx, existsQuery, s.ID, eventID).Scan(&exists); err != nil {
			_ = tx.Rollback()
			return nil, fmt.Errorf("failed to check duplicate assignment: %w", err)
		}
		if exists > 0 {
			continue
		}

		var id int64
		insert := `INSERT INTO assignments (staff_id, event_id, role) VALUES ($1, $2, $3) RETURNING id`
		if err := tx.QueryRowContext(ctx, insert, s.ID, eventID, role).Scan(&id); err != nil {
			_ = tx.Rollback()
			return nil, fmt.Errorf("failed to insert assignment: %w", err)
		}
		created = append(created, model.Assignment{ID: id, StaffID: s.ID, EventID: eventID, Role: role})
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return created, nil
}

// BulkCreateAssignments validates each request inside one transaction,
// collecting per-item error strings instead of aborting; only storage
// failures roll the batch back.
func (r *repository) BulkCreateAssignments(ctx context.Context, reqs []model.Assignment) ([]BulkCreated, []string, error) {
	tx, err := r.db.Master.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to start transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	var (
		created  []BulkCreated
		failures []string
	)
	for _, req := range reqs {
		var staffName string
		err := tx.QueryRowContext(ctx, `SELECT name FROM staff WHERE id = $1`, req.StaffID).Scan(&staffName)
		if errors.Is(err, sql.ErrNoRows) {
			failures = append(failures, fmt.Sprintf("staff member %d not found", req.StaffID))
			continue
		}
		if err != nil {
			_ = tx.Rollback()
			return nil, nil, fmt.Errorf("failed to look up staff member: %w", err)
		}

		var eventID int64
		err = tx.QueryRowContext(ctx, `SELECT id FROM events WHERE id = $1`, req.EventID).Scan(&eventID)
		if errors.Is(err, sql.ErrNoRows) {
			failures = append(failures, fmt.Sprintf("event %d not found", req.EventID))
			continue
		}
		if err != nil {
			_ = tx.Rollback()
			return nil, nil, fmt.Errorf("failed to look up event: %w", err)
		}

		var exists int
		existsQuery := `SELECT COUNT(*) FROM assignments WHERE staff_id = $1 AND event_id = $2`
		if err := tx.QueryRowContext(ctx, existsQuery, req.StaffID, req.EventID).Scan(&exists); err != nil {
			_ = tx.Rollback()
			return nil, nil, fmt.Errorf("failed to check duplicate assignment: %w", err)
		}
		if exists > 0 {
			failures = append(failures, fmt.Sprintf("%s is already assigned to event %d", staffName, req.EventID))
			continue
		}

		role := req.Role
		if role == "" {
			role = model.DefaultRole
		}
		var id int64
		insert := `INSERT INTO assignments (staff_id, event_id, role) VALUES ($1, $2, $3) RETURNING id`
		if err := tx.QueryRowContext(ctx, insert, req.StaffID, req.EventID, role).Scan(&id); err != nil {
			_ = tx.Rollback()
			return nil, nil, fmt.Errorf("failed to insert assignment: %w", err)
		}
		created = append(created, BulkCreated{
			AssignmentID: id,
			StaffID:      req.StaffID,
			StaffName:    staffName,
			EventID:      req.EventID,
			Role:         role,
		})
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return created, failures, nil
}

// CountFutureAssignments aggregates future workload per active staff member.
// The double LEFT JOIN keeps zero-workload staff in the result and counts an
// assignment whose event row is missing as future, so a dangling reference
// never drops a staff member or crashes the ranking.
func (r *repository) CountFutureAssignments(ctx context.Context, ref time.Time) (map[int64]int, error) {
	query := `
		SELECT s.id, COUNT(a.id)
		FROM staff s
		LEFT JOIN assignments a ON a.staff_id = s.id
		LEFT JOIN events e ON e.id = a.event_id
		WHERE s.active = TRUE AND (e.event_date >= $1 OR e.event_date IS NULL)
		GROUP BY s.id
	`
	rows, err := r.db.QueryContext(ctx, query, ref)
	if err != nil {
		return nil, fmt.Errorf("failed to count future assignments: %w", err)
	}
	defer rows.Close()

	counts := make(map[int64]int)
	for rows.Next() {
		var (
			id    int64
			count int
		)
		if err := rows.Scan(&id, &count); err != nil {
			return nil, fmt.Errorf("failed to scan assignment count: %w", err)
		}
		counts[id] = count
	}
	return counts, rows.Err()
}

func (r *repository) StaffStats(ctx context.Context, from, to *time.Time) ([]StaffStat, error) {
	// Date filters live in the join condition so staff without matching
	// assignments still report zero.
	query := `
		SELECT s.id, s.name, s.active, COUNT(e.id)
		FROM staff s
		LEFT JOIN assignments a ON a.staff_id = s.id
		LEFT JOIN events e ON e.id = a.event_id
			AND ($1::date IS NULL OR e.event_date >= $1)
			AND ($2::date IS NULL OR e.event_date <= $2)
		GROUP BY s.id, s.name, s.active
		ORDER BY s.name, s.id
	`
	rows, err := r.db.QueryContext(ctx, query, nullableDate(from), nullableDate(to))
	if err != nil {
		return nil, fmt.Errorf("failed to query staff stats: %w", err)
	}
	defer rows.Close()

	var stats []StaffStat
	for rows.Next() {
		var s StaffStat
		if err := rows.Scan(&s.StaffID, &s.Name, &s.Active, &s.Total); err != nil {
			return nil, fmt.Errorf("failed to scan staff stat: %w", err)
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

func (r *repository) EventsByStaff(ctx context.Context, staffID int64, from, to *time.Time) ([]StaffEvent, error) {
	query := `
		SELECT e.id, e.name, e.event_date, e.category, COALESCE(e.location, ''), a.role
		FROM events e
		JOIN assignments a ON a.event_id = e.id
		WHERE a.staff_id = $1
			AND ($2::date IS NULL OR e.event_date >= $2)
			AND ($3::date IS NULL OR e.event_date <= $3)
		ORDER BY e.event_date, e.id
	`
	rows, err := r.db.QueryContext(ctx, query, staffID, nullableDate(from), nullableDate(to))
	if err != nil {
		return nil, fmt.Errorf("failed to query staff events: %w", err)
	}
	defer rows.Close()

	var events []StaffEvent
	for rows.Next() {
		var e StaffEvent
		if err := rows.Scan(&e.EventID, &e.Name, &e.Date, &e.Category, &e.Location, &e.Role); err != nil {
			return nil, fmt.Errorf("failed to scan staff event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func nullableDate(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

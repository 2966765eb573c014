package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"colorin/internal/model"
)

// activitiesToJSON serializes the ordered activity labels for the text
// column; an empty list is stored as NULL.
func activitiesToJSON(activities []string) (sql.NullString, error) {
	if len(activities) == 0 {
		return sql.NullString{}, nil
	}
	raw, err := json.Marshal(activities)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("failed to marshal activities: %w", err)
	}
	return sql.NullString{String: string(raw), Valid: true}, nil
}

// activitiesFromJSON tolerates a corrupt column the same way the stored data
// is treated everywhere: unreadable means empty, never an error.
func activitiesFromJSON(raw sql.NullString) []string {
	if !raw.Valid || raw.String == "" {
		return []string{}
	}
	var activities []string
	if err := json.Unmarshal([]byte(raw.String), &activities); err != nil {
		return []string{}
	}
	return activities
}

func scanEvent(scan func(dest ...any) error) (*model.Event, error) {
	var (
		e                                      model.Event
		location, morning, birthday, act, note sql.NullString
	)
	if err := scan(&e.ID, &e.Name, &e.Date, &e.Category, &location, &morning, &birthday, &act, &note); err != nil {
		return nil, err
	}
	e.Location = location.String
	e.MorningSlot = morning.String
	e.BirthdaySlot = birthday.String
	e.Activities = activitiesFromJSON(act)
	e.Notes = note.String
	return &e, nil
}

const eventColumns = `id, name, event_date, category, location, morning_slot, birthday_slot, activities, notes`

func (r *repository) CreateEvent(ctx context.Context, e *model.Event) (int64, error) {
	act, err := activitiesToJSON(e.Activities)
	if err != nil {
		return 0, err
	}

	query := `
		INSERT INTO events (name, event_date, category, location, morning_slot, birthday_slot, activities, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	var id int64
	row := r.db.QueryRowContext(ctx, query,
		e.Name, e.Date, e.Category, e.Location, e.MorningSlot, e.BirthdaySlot, act, e.Notes,
	)
	if err := row.Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to insert event: %w", err)
	}
	return id, nil
}

func (r *repository) GetEventByID(ctx context.Context, id int64) (*model.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`

	e, err := scanEvent(r.db.QueryRowContext(ctx, query, id).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to scan event: %w", err)
	}
	return e, nil
}

func (r *repository) ListEvents(ctx context.Context, from, to *time.Time, category string) ([]model.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE 1=1`
	args := []any{}
	if from != nil {
		args = append(args, *from)
		query += fmt.Sprintf(` AND event_date >= $%d`, len(args))
	}
	if to != nil {
		args = append(args, *to)
		query += fmt.Sprintf(` AND event_date <= $%d`, len(args))
	}
	if category != "" {
		args = append(args, category)
		query += fmt.Sprintf(` AND category = $%d`, len(args))
	}
	query += ` ORDER BY event_date, id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	var events []model.Event
	for rows.Next() {
		e, err := scanEvent(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, *e)
	}
	return events, rows.Err()
}

func (r *repository) UpdateEvent(ctx context.Context, e *model.Event) error {
	act, err := activitiesToJSON(e.Activities)
	if err != nil {
		return err
	}

	query := `
		UPDATE events
		SET name = $1, event_date = $2, category = $3, location = $4,
		    morning_slot = $5, birthday_slot = $6, activities = $7, notes = $8
		WHERE id = $9
		RETURNING id
	`
	var id int64
	row := r.db.QueryRowContext(ctx, query,
		e.Name, e.Date, e.Category, e.Location, e.MorningSlot, e.BirthdaySlot, act, e.Notes, e.ID,
	)
	if err := row.Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrEventNotFound
		}
		return fmt.Errorf("failed to update event: %w", err)
	}
	return nil
}

// DeleteEventTx removes the event together with its assignments and checklist
// items in one transaction.
func (r *repository) DeleteEventTx(ctx context.Context, id int64) error {
	tx, err := r.db.Master.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM event_tasks WHERE event_id = $1`, id); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to delete event tasks: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM assignments WHERE event_id = $1`, id); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to delete assignments: %w", err)
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to delete event: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to read delete result: %w", err)
	}
	if affected == 0 {
		_ = tx.Rollback()
		return ErrEventNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

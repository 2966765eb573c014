package repo

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/wb-go/wbf/dbpg"

	"colorin/internal/model"
)

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrUserExists          = errors.New("user already exists")
	ErrStaffNotFound       = errors.New("staff member not found")
	ErrEventNotFound       = errors.New("event not found")
	ErrAssignmentNotFound  = errors.New("assignment not found")
	ErrTaskNotFound        = errors.New("task not found")
	ErrDuplicateAssignment = errors.New("staff member already assigned to this event")
)

// StaffEvent is one event row in a per-staff report, carrying the role the
// staff member holds on it.
type StaffEvent struct {
	EventID  int64     `json:"event_id"`
	Name     string    `json:"name"`
	Date     time.Time `json:"date"`
	Category string    `json:"category"`
	Location string    `json:"location,omitempty"`
	Role     string    `json:"role"`
}

// StaffStat is one row of the assignment-count report.
type StaffStat struct {
	StaffID int64  `json:"staff_id"`
	Name    string `json:"name"`
	Active  bool   `json:"active"`
	Total   int    `json:"total_assignments"`
}

// BulkCreated describes one assignment created by a batch call.
type BulkCreated struct {
	AssignmentID int64  `json:"assignment_id"`
	StaffID      int64  `json:"staff_id"`
	StaffName    string `json:"staff_name"`
	EventID      int64  `json:"event_id"`
	Role         string `json:"role"`
}

type Repository interface {
	// users
	CreateUser(ctx context.Context, u *model.User) (int64, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	GetUserByID(ctx context.Context, id int64) (*model.User, error)
	CountUsers(ctx context.Context) (int, error)
	UserEmailExists(ctx context.Context, email string) (bool, error)
	UpdateUserPassword(ctx context.Context, id int64, hashed string) error

	// staff
	CreateStaff(ctx context.Context, s *model.Staff) (int64, error)
	GetStaffByID(ctx context.Context, id int64) (*model.Staff, error)
	ListStaff(ctx context.Context, active *bool) ([]model.Staff, error)
	UpdateStaff(ctx context.Context, s *model.Staff) error
	DeleteStaff(ctx context.Context, id int64) error
	CountAssignmentsByStaff(ctx context.Context, staffID int64) (int, error)

	// events
	CreateEvent(ctx context.Context, e *model.Event) (int64, error)
	GetEventByID(ctx context.Context, id int64) (*model.Event, error)
	ListEvents(ctx context.Context, from, to *time.Time, category string) ([]model.Event, error)
	UpdateEvent(ctx context.Context, e *model.Event) error
	DeleteEventTx(ctx context.Context, id int64) error

	// assignments
	CreateAssignment(ctx context.Context, a *model.Assignment) (int64, error)
	ListAssignments(ctx context.Context, staffID, eventID int64) ([]model.Assignment, error)
	DeleteAssignment(ctx context.Context, id int64) error
	AssignedStaffIDs(ctx context.Context, eventID int64) (map[int64]bool, error)
	CreateAssignmentsTx(ctx context.Context, eventID int64, staff []model.Staff, role string) ([]model.Assignment, error)
	BulkCreateAssignments(ctx context.Context, reqs []model.Assignment) ([]BulkCreated, []string, error)
	CountFutureAssignments(ctx context.Context, ref time.Time) (map[int64]int, error)
	StaffStats(ctx context.Context, from, to *time.Time) ([]StaffStat, error)
	EventsByStaff(ctx context.Context, staffID int64, from, to *time.Time) ([]StaffEvent, error)

	// tasks
	CreateTask(ctx context.Context, t *model.Task) (int64, error)
	GetTask(ctx context.Context, id, userID int64) (*model.Task, error)
	ListTasks(ctx context.Context, userID int64, completed *bool, priority string) ([]model.Task, error)
	UpdateTask(ctx context.Context, t *model.Task) error
	DeleteTask(ctx context.Context, id, userID int64) error

	// event tasks
	CreateEventTask(ctx context.Context, t *model.EventTask) (int64, error)
	GetEventTask(ctx context.Context, id, eventID int64) (*model.EventTask, error)
	ListEventTasks(ctx context.Context, eventID int64, completed *bool) ([]model.EventTask, error)
	UpdateEventTask(ctx context.Context, t *model.EventTask) error
	DeleteEventTask(ctx context.Context, id, eventID int64) error

	MigrateUp(migrationsDir string) error
	MigrateDown(migrationsDir string) error
}

type repository struct {
	db  *dbpg.DB
	log *zerolog.Logger
}

func NewRepository(db *dbpg.DB, log *zerolog.Logger) (Repository, error) {
	if db == nil {
		return nil, fmt.Errorf("db cannot be nil")
	}
	if err := db.Master.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping DB: %w", err)
	}
	return &repository{db: db, log: log}, nil
}

func (r *repository) MigrateUp(migrationsDir string) error {
	files, err := filepath.Glob(filepath.Join(migrationsDir, "*.up.sql"))
	if err != nil {
		return fmt.Errorf("failed to read migration files: %w", err)
	}

	for _, file := range files {
		sqlBytes, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", file, err)
		}

		if _, err := r.db.ExecContext(context.Background(), string(sqlBytes)); err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", file, err)
		}
	}

	r.log.Info().Msgf("Migrations applied successfully from %s", migrationsDir)
	return nil
}

func (r *repository) MigrateDown(migrationsDir string) error {
	files, err := filepath.Glob(filepath.Join(migrationsDir, "*.down.sql"))
	if err != nil {
		return fmt.Errorf("failed to read rollback files: %w", err)
	}

	for _, file := range files {
		sqlBytes, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read rollback file %s: %w", file, err)
		}

		if _, err := r.db.ExecContext(context.Background(), string(sqlBytes)); err != nil {
			return fmt.Errorf("failed to rollback migration %s: %w", file, err)
		}
	}

	r.log.Info().Msgf("Migrations rolled back successfully from %s", migrationsDir)
	return nil
}

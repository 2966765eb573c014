package model

import "time"

type User struct {
	ID             int64     `db:"id" json:"id"`
	Username       string    `db:"username" json:"username"`
	Email          string    `db:"email" json:"email"`
	HashedPassword string    `db:"hashed_password" json:"-"`
	Active         bool      `db:"active" json:"active"`
	IsAdmin        bool      `db:"is_admin" json:"is_admin"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

type Staff struct {
	ID     int64  `db:"id" json:"id"`
	Name   string `db:"name" json:"name"`
	Active bool   `db:"active" json:"active"`
}

type Event struct {
	ID           int64     `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Date         time.Time `db:"event_date" json:"date"`
	Category     string    `db:"category" json:"category"`
	Location     string    `db:"location,omitempty" json:"location,omitempty"`
	MorningSlot  string    `db:"morning_slot,omitempty" json:"morning_slot,omitempty"`
	BirthdaySlot string    `db:"birthday_slot,omitempty" json:"birthday_slot,omitempty"`
	Activities   []string  `db:"activities" json:"activities"`
	Notes        string    `db:"notes,omitempty" json:"notes,omitempty"`
}

type Assignment struct {
	ID      int64  `db:"id" json:"id"`
	StaffID int64  `db:"staff_id" json:"staff_id"`
	EventID int64  `db:"event_id" json:"event_id"`
	Role    string `db:"role" json:"role"`
}

// DefaultRole is the role recorded when a caller does not pick one.
const DefaultRole = "Professor"

type Task struct {
	ID          int64      `db:"id" json:"id"`
	UserID      int64      `db:"user_id" json:"user_id"`
	Title       string     `db:"title" json:"title"`
	Description string     `db:"description,omitempty" json:"description,omitempty"`
	Completed   bool       `db:"completed" json:"completed"`
	DueDate     *time.Time `db:"due_date" json:"due_date,omitempty"`
	Priority    string     `db:"priority" json:"priority"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	CompletedAt *time.Time `db:"completed_at" json:"completed_at,omitempty"`
}

type EventTask struct {
	ID          int64      `db:"id" json:"id"`
	EventID     int64      `db:"event_id" json:"event_id"`
	Description string     `db:"description" json:"description"`
	Completed   bool       `db:"completed" json:"completed"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	CompletedAt *time.Time `db:"completed_at" json:"completed_at,omitempty"`
}

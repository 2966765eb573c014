package model

import "time"

// Patch structs carry partial updates: a nil field means "leave unchanged".
// The completion timestamp is handled as an explicit pre-step before the
// generic field merge, so the transition rule never depends on merge order.

type StaffPatch struct {
	Name   *string
	Active *bool
}

type EventPatch struct {
	Name         *string
	Date         *time.Time
	Category     *string
	Location     *string
	MorningSlot  *string
	BirthdaySlot *string
	Activities   *[]string
	Notes        *string
}

type TaskPatch struct {
	Title       *string
	Description *string
	Completed   *bool
	DueDate     *time.Time
	ClearDue    bool
	Priority    *string
}

type EventTaskPatch struct {
	Description *string
	Completed   *bool
}

func ApplyStaffPatch(s *Staff, p StaffPatch) {
	if p.Name != nil {
		s.Name = *p.Name
	}
	if p.Active != nil {
		s.Active = *p.Active
	}
}

func ApplyEventPatch(e *Event, p EventPatch) {
	if p.Name != nil {
		e.Name = *p.Name
	}
	if p.Date != nil {
		e.Date = *p.Date
	}
	if p.Category != nil {
		e.Category = *p.Category
	}
	if p.Location != nil {
		e.Location = *p.Location
	}
	if p.MorningSlot != nil {
		e.MorningSlot = *p.MorningSlot
	}
	if p.BirthdaySlot != nil {
		e.BirthdaySlot = *p.BirthdaySlot
	}
	if p.Activities != nil {
		e.Activities = *p.Activities
	}
	if p.Notes != nil {
		e.Notes = *p.Notes
	}
}

// applyCompletion records or clears the completion timestamp on a state
// transition. Re-completing an already completed item keeps the original
// timestamp.
func applyCompletion(completed *bool, wasCompleted bool, completedAt **time.Time, now time.Time) {
	if completed == nil {
		return
	}
	if *completed && !wasCompleted {
		t := now
		*completedAt = &t
	} else if !*completed {
		*completedAt = nil
	}
}

func ApplyTaskPatch(t *Task, p TaskPatch, now time.Time) {
	applyCompletion(p.Completed, t.Completed, &t.CompletedAt, now)
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.DueDate != nil {
		d := *p.DueDate
		t.DueDate = &d
	} else if p.ClearDue {
		t.DueDate = nil
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
}

func ApplyEventTaskPatch(t *EventTask, p EventTaskPatch, now time.Time) {
	applyCompletion(p.Completed, t.Completed, &t.CompletedAt, now)
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
}

// ToggleTask flips the completion flag with the same timestamp rule as a
// patch carrying the inverted flag.
func ToggleTask(t *Task, now time.Time) {
	inverted := !t.Completed
	ApplyTaskPatch(t, TaskPatch{Completed: &inverted}, now)
}

func ToggleEventTask(t *EventTask, now time.Time) {
	inverted := !t.Completed
	ApplyEventTaskPatch(t, EventTaskPatch{Completed: &inverted}, now)
}

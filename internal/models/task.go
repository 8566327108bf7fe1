package models

import (
	"time"

	"github.com/google/uuid"
)

// Task belongs to exactly one project. ProjectID never changes after
// construction; a task without a deadline can never become overdue.
type Task struct {
	ID          string
	ProjectID   string
	Title       string
	Description string
	Status      Status
	Deadline    *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
	ClosedAt    *time.Time
	DeletedAt   *time.Time
	Version     int64
}

func NewTask(projectID, title, description string, deadline *time.Time, now time.Time) (*Task, error) {
	if projectID == "" {
		return nil, &ValidationError{Field: "project_id", Message: "must not be empty"}
	}
	title, err := validateRequiredString("title", title, MaxTitleLen)
	if err != nil {
		return nil, err
	}
	description, err = validateOptionalString("description", description, MaxDescriptionLen)
	if err != nil {
		return nil, err
	}

	return &Task{
		ID:          uuid.NewString(),
		ProjectID:   projectID,
		Title:       title,
		Description: description,
		Status:      StatusPending,
		Deadline:    deadline,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

func (t *Task) SetTitle(title string, now time.Time) error {
	title, err := validateRequiredString("title", title, MaxTitleLen)
	if err != nil {
		return err
	}
	t.Title = title
	t.UpdatedAt = now
	return nil
}

func (t *Task) SetDescription(description string, now time.Time) error {
	description, err := validateOptionalString("description", description, MaxDescriptionLen)
	if err != nil {
		return err
	}
	t.Description = description
	t.UpdatedAt = now
	return nil
}

func (t *Task) SetDeadline(deadline *time.Time, now time.Time) {
	t.Deadline = deadline
	t.UpdatedAt = now
}

// ChangeStatus applies a single edge of the status state machine.
// Reaching done, cancelled or overdue stamps ClosedAt; reopening an
// overdue task back to in_progress clears it.
func (t *Task) ChangeStatus(to Status, overdueReopen bool, now time.Time) error {
	if !to.Valid() {
		return &ValidationError{Field: "status", Message: "unknown status"}
	}
	if !CanTransition(t.Status, to, overdueReopen) {
		return &InvalidStatusTransitionError{From: t.Status, To: to}
	}

	t.Status = to
	t.UpdatedAt = now
	switch to {
	case StatusDone, StatusCancelled, StatusOverdue:
		closedAt := now
		t.ClosedAt = &closedAt
	case StatusInProgress:
		t.ClosedAt = nil
	}
	return nil
}

// Overdue reports whether the deadline has strictly passed for a task
// the autoclose job still cares about.
func (t *Task) Overdue(now time.Time) bool {
	if t.Deadline == nil || t.Status.Terminal() {
		return false
	}
	return now.After(*t.Deadline)
}

func (t *Task) Active() bool {
	return t.DeletedAt == nil
}

package models

import "fmt"

type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusDone       Status = "done"
	StatusOverdue    Status = "overdue"
	StatusCancelled  Status = "cancelled"
)

// InvalidStatusTransitionError names the rejected (from, to) pair.
type InvalidStatusTransitionError struct {
	From Status
	To   Status
}

func (e *InvalidStatusTransitionError) Error() string {
	return fmt.Sprintf("invalid status transition from %q to %q", e.From, e.To)
}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusDone, StatusOverdue, StatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether the status is reached by an explicit
// user decision and never revisited by the autoclose job.
func (s Status) Terminal() bool {
	return s == StatusDone || s == StatusCancelled
}

// CanTransition reports whether the edge from -> to is allowed.
// Transitions out of overdue are permitted only when overdueReopen
// is enabled.
func CanTransition(from, to Status, overdueReopen bool) bool {
	switch from {
	case StatusPending:
		return to == StatusInProgress || to == StatusCancelled || to == StatusOverdue
	case StatusInProgress:
		return to == StatusDone || to == StatusCancelled || to == StatusOverdue
	case StatusOverdue:
		if !overdueReopen {
			return false
		}
		return to == StatusInProgress || to == StatusDone || to == StatusCancelled
	default:
		return false
	}
}

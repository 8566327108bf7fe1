package services

import (
	"errors"
	"fmt"

	"github.com/dkotelnikov/go-todolist/internal/repository"
)

var (
	ErrProjectNotFound        = errors.New("project not found")
	ErrTaskNotFound           = errors.New("task not found")
	ErrConcurrentModification = errors.New("concurrent modification detected")
)

// CapacityExceededError is returned when creating an entity would push
// the active count past its configured maximum.
type CapacityExceededError struct {
	Resource string
	Limit    int
}

func (e *CapacityExceededError) Error() string {
	return fmt.Sprintf("maximum number of %s (%d) reached", e.Resource, e.Limit)
}

// DuplicateNameError is returned when a project name collides with an
// existing active project.
type DuplicateNameError struct {
	Name string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("project with name %q already exists", e.Name)
}

// ImmutableFieldError rejects an update touching a frozen field.
type ImmutableFieldError struct {
	Field string
}

func (e *ImmutableFieldError) Error() string {
	return fmt.Sprintf("field %q cannot be changed", e.Field)
}

// HasDependentsError blocks a project delete while active tasks remain
// and cascade deletion is disabled.
type HasDependentsError struct {
	ProjectID string
}

func (e *HasDependentsError) Error() string {
	return fmt.Sprintf("project %q still has active tasks", e.ProjectID)
}

// RepositoryUnavailableError wraps a storage failure or timeout. It is
// the only error in the taxonomy eligible for caller-directed retry.
type RepositoryUnavailableError struct {
	Err error
}

func (e *RepositoryUnavailableError) Error() string {
	return fmt.Sprintf("repository unavailable: %v", e.Err)
}

func (e *RepositoryUnavailableError) Unwrap() error {
	return e.Err
}

// translateRepositoryError maps storage-level errors that have no more
// specific service meaning at the call site. Anything unrecognized is
// treated as a storage failure.
func translateRepositoryError(err error, notFound error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return notFound
	case errors.Is(err, repository.ErrStaleVersion):
		return ErrConcurrentModification
	default:
		return &RepositoryUnavailableError{Err: err}
	}
}

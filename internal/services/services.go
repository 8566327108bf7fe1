package services

import (
	"context"
	"time"

	"github.com/dkotelnikov/go-todolist/internal/models"
)

// casAttempts bounds the re-read-and-retry loop on a stale version
// before ErrConcurrentModification is surfaced.
const casAttempts = 3

type ProjectService interface {
	// Create validates fields, enforces the active-project capacity
	// limit and name uniqueness, and persists the project.
	//
	// It returns a *models.ValidationError on a bad field, a
	// *CapacityExceededError at the limit, or a *DuplicateNameError
	// when the name is taken by another active project.
	Create(ctx context.Context, params CreateProjectParams) (*models.Project, error)

	// Get returns ErrProjectNotFound if no active project has the id.
	Get(ctx context.Context, id string) (*models.Project, error)

	// GetByName returns ErrProjectNotFound if no active project has
	// the name.
	GetByName(ctx context.Context, name string) (*models.Project, error)

	// Update applies the provided name/description changes and
	// re-validates. ID and creation time are frozen.
	Update(ctx context.Context, params UpdateProjectParams) (*models.Project, error)

	// Delete soft-deletes the project. With cascade deletion enabled
	// all child tasks are soft-deleted in the same unit; otherwise a
	// project with active tasks fails with *HasDependentsError.
	Delete(ctx context.Context, id string) error

	List(ctx context.Context, params ListProjectsParams) ([]*models.Project, error)

	// Statistics aggregates active task counts by status, plus an
	// overdue bucket, for one project or the whole account when
	// projectID is empty.
	Statistics(ctx context.Context, projectID string) (*Statistics, error)
}

type TaskService interface {
	// Create validates fields, checks that the owning project exists
	// and has capacity headroom, and persists the task in the pending
	// status.
	Create(ctx context.Context, params CreateTaskParams) (*models.Task, error)

	// Get returns ErrTaskNotFound if no active task has the id.
	Get(ctx context.Context, id string) (*models.Task, error)

	// Update applies title/description/deadline edits and
	// re-validates. A non-nil ProjectID in params fails with
	// *ImmutableFieldError.
	Update(ctx context.Context, params UpdateTaskParams) (*models.Task, error)

	// ChangeStatus applies a user-triggered edge of the status state
	// machine. A disallowed edge fails with
	// *models.InvalidStatusTransitionError and leaves the task
	// unchanged; the overdue status is assigned only by the autoclose
	// job and is rejected here.
	ChangeStatus(ctx context.Context, id string, to models.Status) (*models.Task, error)

	// Delete soft-deletes the task unconditionally.
	Delete(ctx context.Context, id string) error

	List(ctx context.Context, params ListTasksParams) ([]*models.Task, error)
}

type CreateProjectParams struct {
	Name        string
	Description string
}

type UpdateProjectParams struct {
	ID          string
	Name        *string
	Description *string
}

type ListProjectsParams struct {
	Query string
}

type CreateTaskParams struct {
	ProjectID   string
	Title       string
	Description string
	Deadline    *time.Time
	// Status is optional; when set it must be the initial pending
	// status, any other value is a validation error.
	Status models.Status
}

type UpdateTaskParams struct {
	ID          string
	Title       *string
	Description *string
	Deadline    *time.Time
	// ClearDeadline removes the deadline; it wins over Deadline.
	ClearDeadline bool
	// ProjectID is accepted only to be rejected: a task is never
	// reassigned to another project.
	ProjectID *string
}

type ListTasksParams struct {
	ProjectID string
	Status    models.Status
	Query     string
}

// Statistics is the aggregate read exposed to presentation layers.
// Overdue counts active tasks whose deadline has strictly passed and
// that are not done or cancelled, regardless of whether the autoclose
// job has visited them yet.
type Statistics struct {
	Total    int                   `json:"total"`
	ByStatus map[models.Status]int `json:"by_status"`
	Overdue  int                   `json:"overdue"`
}

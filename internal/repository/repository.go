package repository

import (
	"context"
	"errors"
	"time"

	"github.com/dkotelnikov/go-todolist/internal/models"
)

// Storage-level errors. Services translate them into the user-facing
// taxonomy; nothing below this layer knows about HTTP or limits
// configuration.
var (
	ErrNotFound      = errors.New("entity not found")
	ErrDuplicateName = errors.New("name already taken")
	ErrLimitReached  = errors.New("capacity limit reached")
	ErrStaleVersion  = errors.New("stale entity version")
	ErrHasChildren   = errors.New("entity has dependent children")
	ErrUnavailable   = errors.New("storage unavailable")
)

// ProjectFilter selects active projects. Query matches name or
// description case-insensitively.
type ProjectFilter struct {
	Query string
}

// TaskFilter selects active tasks. Zero fields mean "no constraint".
// DeadlineBefore is a strict inequality: a task whose deadline equals
// the bound is not selected.
type TaskFilter struct {
	ProjectID      string
	Statuses       []models.Status
	Query          string
	DeadlineBefore *time.Time
}

func (f TaskFilter) MatchesStatus(s models.Status) bool {
	if len(f.Statuses) == 0 {
		return true
	}
	for _, want := range f.Statuses {
		if s == want {
			return true
		}
	}
	return false
}

// ProjectRepository is the persistence contract for projects. Create
// enforces the active-project capacity limit and active-name
// uniqueness atomically with the insert; Update is a compare-and-set
// on (id, version) and fails with ErrStaleVersion on a lost update.
// Delete soft-deletes; with cascade it soft-deletes child tasks in
// the same unit, without cascade it fails with ErrHasChildren when
// active tasks exist.
type ProjectRepository interface {
	Create(ctx context.Context, p *models.Project, maxActive int) error
	GetByID(ctx context.Context, id string) (*models.Project, error)
	GetByName(ctx context.Context, name string) (*models.Project, error)
	Update(ctx context.Context, p *models.Project) error
	Delete(ctx context.Context, id string, cascade bool) error
	List(ctx context.Context, f ProjectFilter) ([]*models.Project, error)
	Count(ctx context.Context, f ProjectFilter) (int, error)
}

// TaskRepository is the persistence contract for tasks. Create checks
// that the owning project is active and that the per-project capacity
// limit holds, atomically with the insert. Update follows the same
// compare-and-set discipline as ProjectRepository.Update.
type TaskRepository interface {
	Create(ctx context.Context, t *models.Task, maxPerProject int) error
	GetByID(ctx context.Context, id string) (*models.Task, error)
	Update(ctx context.Context, t *models.Task) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, f TaskFilter) ([]*models.Task, error)
	Count(ctx context.Context, f TaskFilter) (int, error)
	CountByStatus(ctx context.Context, projectID string) (map[models.Status]int, error)
}

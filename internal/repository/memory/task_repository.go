package memory

import (
	"context"
	"sort"

	"github.com/dkotelnikov/go-todolist/internal/models"
	"github.com/dkotelnikov/go-todolist/internal/repository"
)

type TaskRepository struct {
	store *Store
}

func NewTaskRepository(store *Store) *TaskRepository {
	return &TaskRepository{store: store}
}

func (r *TaskRepository) Create(ctx context.Context, t *models.Task, maxPerProject int) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	p, ok := r.store.projects[t.ProjectID]
	if !ok || !p.Active() {
		return repository.ErrNotFound
	}
	if r.store.activeTaskCount(t.ProjectID) >= maxPerProject {
		return repository.ErrLimitReached
	}

	r.store.tasks[t.ID] = cloneTask(t)
	return nil
}

func (r *TaskRepository) GetByID(ctx context.Context, id string) (*models.Task, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	t, ok := r.store.tasks[id]
	if !ok || !t.Active() {
		return nil, repository.ErrNotFound
	}
	return cloneTask(t), nil
}

func (r *TaskRepository) Update(ctx context.Context, t *models.Task) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	cur, ok := r.store.tasks[t.ID]
	if !ok || !cur.Active() {
		return repository.ErrNotFound
	}
	if cur.Version != t.Version {
		return repository.ErrStaleVersion
	}

	t.Version++
	r.store.tasks[t.ID] = cloneTask(t)
	return nil
}

func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	t, ok := r.store.tasks[id]
	if !ok || !t.Active() {
		return repository.ErrNotFound
	}

	deletedAt := now()
	t.DeletedAt = &deletedAt
	t.UpdatedAt = deletedAt
	return nil
}

func (r *TaskRepository) List(ctx context.Context, f repository.TaskFilter) ([]*models.Task, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]*models.Task, 0, len(r.store.tasks))
	for _, t := range r.store.tasks {
		if matchTask(f, t) {
			out = append(out, cloneTask(t))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *TaskRepository) Count(ctx context.Context, f repository.TaskFilter) (int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	n := 0
	for _, t := range r.store.tasks {
		if matchTask(f, t) {
			n++
		}
	}
	return n, nil
}

func (r *TaskRepository) CountByStatus(ctx context.Context, projectID string) (map[models.Status]int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	counts := make(map[models.Status]int)
	for _, t := range r.store.tasks {
		if !t.Active() {
			continue
		}
		if projectID != "" && t.ProjectID != projectID {
			continue
		}
		counts[t.Status]++
	}
	return counts, nil
}

package memory

import (
	"context"
	"sort"

	"github.com/dkotelnikov/go-todolist/internal/models"
	"github.com/dkotelnikov/go-todolist/internal/repository"
)

type ProjectRepository struct {
	store *Store
}

func NewProjectRepository(store *Store) *ProjectRepository {
	return &ProjectRepository{store: store}
}

func (r *ProjectRepository) Create(ctx context.Context, p *models.Project, maxActive int) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if r.store.activeProjectCount() >= maxActive {
		return repository.ErrLimitReached
	}
	if r.store.activeProjectByName(p.Name) != nil {
		return repository.ErrDuplicateName
	}

	r.store.projects[p.ID] = cloneProject(p)
	return nil
}

func (r *ProjectRepository) GetByID(ctx context.Context, id string) (*models.Project, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	p, ok := r.store.projects[id]
	if !ok || !p.Active() {
		return nil, repository.ErrNotFound
	}
	return cloneProject(p), nil
}

func (r *ProjectRepository) GetByName(ctx context.Context, name string) (*models.Project, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	p := r.store.activeProjectByName(name)
	if p == nil {
		return nil, repository.ErrNotFound
	}
	return cloneProject(p), nil
}

func (r *ProjectRepository) Update(ctx context.Context, p *models.Project) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	cur, ok := r.store.projects[p.ID]
	if !ok || !cur.Active() {
		return repository.ErrNotFound
	}
	if cur.Version != p.Version {
		return repository.ErrStaleVersion
	}
	if existing := r.store.activeProjectByName(p.Name); existing != nil && existing.ID != p.ID {
		return repository.ErrDuplicateName
	}

	p.Version++
	r.store.projects[p.ID] = cloneProject(p)
	return nil
}

func (r *ProjectRepository) Delete(ctx context.Context, id string, cascade bool) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	p, ok := r.store.projects[id]
	if !ok || !p.Active() {
		return repository.ErrNotFound
	}

	if !cascade && r.store.activeTaskCount(id) > 0 {
		return repository.ErrHasChildren
	}

	deletedAt := now()
	p.DeletedAt = &deletedAt
	p.UpdatedAt = deletedAt
	for _, t := range r.store.tasks {
		if t.Active() && t.ProjectID == id {
			t.DeletedAt = &deletedAt
			t.UpdatedAt = deletedAt
		}
	}
	return nil
}

func (r *ProjectRepository) List(ctx context.Context, f repository.ProjectFilter) ([]*models.Project, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]*models.Project, 0, len(r.store.projects))
	for _, p := range r.store.projects {
		if matchProject(f, p) {
			out = append(out, cloneProject(p))
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

func (r *ProjectRepository) Count(ctx context.Context, f repository.ProjectFilter) (int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	n := 0
	for _, p := range r.store.projects {
		if matchProject(f, p) {
			n++
		}
	}
	return n, nil
}

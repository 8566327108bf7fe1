package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/dkotelnikov/go-todolist/internal/models"
	"github.com/dkotelnikov/go-todolist/internal/repository"
)

// projectCapacityLockKey serializes capacity-checked project creation
// via pg_advisory_xact_lock; the lock is released at commit.
const projectCapacityLockKey = 4217

type ProjectRepository struct {
	db DB
}

func NewProjectRepository(db DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

func (r *ProjectRepository) Create(ctx context.Context, p *models.Project, maxActive int) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return translateError(err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, projectCapacityLockKey)
	if err != nil {
		return translateError(err)
	}

	var active int
	err = tx.QueryRow(
		ctx,
		`SELECT count(*) FROM projects WHERE deleted_at IS NULL`,
	).Scan(&active)
	if err != nil {
		return translateError(err)
	}
	if active >= maxActive {
		return repository.ErrLimitReached
	}

	const insertProjectQuery = `
INSERT INTO projects (id, name, description, created_at, updated_at, version)
VALUES ($1, $2, $3, $4, $5, $6)
`
	_, err = tx.Exec(
		ctx,
		insertProjectQuery,
		p.ID,
		p.Name,
		p.Description,
		p.CreatedAt,
		p.UpdatedAt,
		p.Version,
	)
	if err != nil {
		return translateError(err)
	}

	return translateError(tx.Commit(ctx))
}

func (r *ProjectRepository) GetByID(ctx context.Context, id string) (*models.Project, error) {
	const selectProjectQuery = `
SELECT id, name, description, created_at, updated_at, version
FROM projects
WHERE id = $1 AND deleted_at IS NULL
`
	return r.scanProject(r.db.QueryRow(ctx, selectProjectQuery, id))
}

func (r *ProjectRepository) GetByName(ctx context.Context, name string) (*models.Project, error) {
	const selectProjectByNameQuery = `
SELECT id, name, description, created_at, updated_at, version
FROM projects
WHERE name = $1 AND deleted_at IS NULL
`
	return r.scanProject(r.db.QueryRow(ctx, selectProjectByNameQuery, name))
}

func (r *ProjectRepository) scanProject(row pgx.Row) (*models.Project, error) {
	var p models.Project
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.CreatedAt,
		&p.UpdatedAt,
		&p.Version,
	)
	if err != nil {
		return nil, translateError(err)
	}
	return &p, nil
}

func (r *ProjectRepository) Update(ctx context.Context, p *models.Project) error {
	const updateProjectQuery = `
UPDATE projects
SET name = $1,
    description = $2,
    updated_at = $3,
    version = version + 1
WHERE id = $4 AND version = $5 AND deleted_at IS NULL
RETURNING version
`
	err := r.db.QueryRow(
		ctx,
		updateProjectQuery,
		p.Name,
		p.Description,
		p.UpdatedAt,
		p.ID,
		p.Version,
	).Scan(&p.Version)
	if err == nil {
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return translateError(err)
	}

	// Zero rows: either the project is gone or the version is stale.
	var exists bool
	checkErr := r.db.QueryRow(
		ctx,
		`SELECT EXISTS (SELECT 1 FROM projects WHERE id = $1 AND deleted_at IS NULL)`,
		p.ID,
	).Scan(&exists)
	if checkErr != nil {
		return translateError(checkErr)
	}
	if exists {
		return repository.ErrStaleVersion
	}
	return repository.ErrNotFound
}

func (r *ProjectRepository) Delete(ctx context.Context, id string, cascade bool) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return translateError(err)
	}
	defer tx.Rollback(ctx)

	var version int64
	err = tx.QueryRow(
		ctx,
		`SELECT version FROM projects WHERE id = $1 AND deleted_at IS NULL FOR UPDATE`,
		id,
	).Scan(&version)
	if err != nil {
		return translateError(err)
	}

	var activeTasks int
	err = tx.QueryRow(
		ctx,
		`SELECT count(*) FROM tasks WHERE project_id = $1 AND deleted_at IS NULL`,
		id,
	).Scan(&activeTasks)
	if err != nil {
		return translateError(err)
	}
	if activeTasks > 0 && !cascade {
		return repository.ErrHasChildren
	}

	if activeTasks > 0 {
		const cascadeTasksQuery = `
UPDATE tasks
SET deleted_at = now(), updated_at = now(), version = version + 1
WHERE project_id = $1 AND deleted_at IS NULL
`
		_, err = tx.Exec(ctx, cascadeTasksQuery, id)
		if err != nil {
			return translateError(err)
		}
	}

	const deleteProjectQuery = `
UPDATE projects
SET deleted_at = now(), updated_at = now(), version = version + 1
WHERE id = $1 AND deleted_at IS NULL
`
	_, err = tx.Exec(ctx, deleteProjectQuery, id)
	if err != nil {
		return translateError(err)
	}

	return translateError(tx.Commit(ctx))
}

func (r *ProjectRepository) List(ctx context.Context, f repository.ProjectFilter) ([]*models.Project, error) {
	query, args := buildProjectQuery("SELECT id, name, description, created_at, updated_at, version FROM projects", f)
	query += " ORDER BY created_at, id"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()

	projects := make([]*models.Project, 0, 16)
	for rows.Next() {
		var p models.Project
		err = rows.Scan(
			&p.ID,
			&p.Name,
			&p.Description,
			&p.CreatedAt,
			&p.UpdatedAt,
			&p.Version,
		)
		if err != nil {
			return nil, translateError(err)
		}
		projects = append(projects, &p)
	}
	if err = rows.Err(); err != nil {
		return nil, translateError(err)
	}
	return projects, nil
}

func (r *ProjectRepository) Count(ctx context.Context, f repository.ProjectFilter) (int, error) {
	query, args := buildProjectQuery("SELECT count(*) FROM projects", f)

	var n int
	err := r.db.QueryRow(ctx, query, args...).Scan(&n)
	if err != nil {
		return 0, translateError(err)
	}
	return n, nil
}

func buildProjectQuery(prefix string, f repository.ProjectFilter) (string, []any) {
	conds := []string{"deleted_at IS NULL"}
	args := make([]any, 0, 1)

	if f.Query != "" {
		args = append(args, "%"+f.Query+"%")
		conds = append(conds, "(name ILIKE $1 OR description ILIKE $1)")
	}
	return prefix + where(conds), args
}

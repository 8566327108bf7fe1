package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/dkotelnikov/go-todolist/internal/models"
	"github.com/dkotelnikov/go-todolist/internal/repository"
)

const taskColumns = "id, project_id, title, description, status, deadline, created_at, updated_at, closed_at, version"

type TaskRepository struct {
	db DB
}

func NewTaskRepository(db DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, t *models.Task, maxPerProject int) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return translateError(err)
	}
	defer tx.Rollback(ctx)

	// Lock the owning project row so two concurrent creates cannot
	// both pass the capacity check.
	var projectID string
	err = tx.QueryRow(
		ctx,
		`SELECT id FROM projects WHERE id = $1 AND deleted_at IS NULL FOR UPDATE`,
		t.ProjectID,
	).Scan(&projectID)
	if err != nil {
		return translateError(err)
	}

	var active int
	err = tx.QueryRow(
		ctx,
		`SELECT count(*) FROM tasks WHERE project_id = $1 AND deleted_at IS NULL`,
		t.ProjectID,
	).Scan(&active)
	if err != nil {
		return translateError(err)
	}
	if active >= maxPerProject {
		return repository.ErrLimitReached
	}

	const insertTaskQuery = `
INSERT INTO tasks (id, project_id, title, description, status, deadline, created_at, updated_at, version)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
`
	_, err = tx.Exec(
		ctx,
		insertTaskQuery,
		t.ID,
		t.ProjectID,
		t.Title,
		t.Description,
		string(t.Status),
		t.Deadline,
		t.CreatedAt,
		t.UpdatedAt,
		t.Version,
	)
	if err != nil {
		return translateError(err)
	}

	return translateError(tx.Commit(ctx))
}

func (r *TaskRepository) GetByID(ctx context.Context, id string) (*models.Task, error) {
	query := fmt.Sprintf(`SELECT %s FROM tasks WHERE id = $1 AND deleted_at IS NULL`, taskColumns)

	var t models.Task
	err := r.db.QueryRow(ctx, query, id).Scan(
		&t.ID,
		&t.ProjectID,
		&t.Title,
		&t.Description,
		&t.Status,
		&t.Deadline,
		&t.CreatedAt,
		&t.UpdatedAt,
		&t.ClosedAt,
		&t.Version,
	)
	if err != nil {
		return nil, translateError(err)
	}
	return &t, nil
}

func (r *TaskRepository) Update(ctx context.Context, t *models.Task) error {
	const updateTaskQuery = `
UPDATE tasks
SET title = $1,
    description = $2,
    status = $3,
    deadline = $4,
    updated_at = $5,
    closed_at = $6,
    version = version + 1
WHERE id = $7 AND version = $8 AND deleted_at IS NULL
RETURNING version
`
	err := r.db.QueryRow(
		ctx,
		updateTaskQuery,
		t.Title,
		t.Description,
		string(t.Status),
		t.Deadline,
		t.UpdatedAt,
		t.ClosedAt,
		t.ID,
		t.Version,
	).Scan(&t.Version)
	if err == nil {
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return translateError(err)
	}

	var exists bool
	checkErr := r.db.QueryRow(
		ctx,
		`SELECT EXISTS (SELECT 1 FROM tasks WHERE id = $1 AND deleted_at IS NULL)`,
		t.ID,
	).Scan(&exists)
	if checkErr != nil {
		return translateError(checkErr)
	}
	if exists {
		return repository.ErrStaleVersion
	}
	return repository.ErrNotFound
}

func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	const deleteTaskQuery = `
UPDATE tasks
SET deleted_at = now(), updated_at = now(), version = version + 1
WHERE id = $1 AND deleted_at IS NULL
`
	tag, err := r.db.Exec(ctx, deleteTaskQuery, id)
	if err != nil {
		return translateError(err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *TaskRepository) List(ctx context.Context, f repository.TaskFilter) ([]*models.Task, error) {
	query, args := buildTaskQuery(fmt.Sprintf("SELECT %s FROM tasks", taskColumns), f)
	query += " ORDER BY created_at, id"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()

	tasks := make([]*models.Task, 0, 16)
	for rows.Next() {
		var t models.Task
		err = rows.Scan(
			&t.ID,
			&t.ProjectID,
			&t.Title,
			&t.Description,
			&t.Status,
			&t.Deadline,
			&t.CreatedAt,
			&t.UpdatedAt,
			&t.ClosedAt,
			&t.Version,
		)
		if err != nil {
			return nil, translateError(err)
		}
		tasks = append(tasks, &t)
	}
	if err = rows.Err(); err != nil {
		return nil, translateError(err)
	}
	return tasks, nil
}

func (r *TaskRepository) Count(ctx context.Context, f repository.TaskFilter) (int, error) {
	query, args := buildTaskQuery("SELECT count(*) FROM tasks", f)

	var n int
	err := r.db.QueryRow(ctx, query, args...).Scan(&n)
	if err != nil {
		return 0, translateError(err)
	}
	return n, nil
}

func (r *TaskRepository) CountByStatus(ctx context.Context, projectID string) (map[models.Status]int, error) {
	query := `SELECT status, count(*) FROM tasks WHERE deleted_at IS NULL`
	args := make([]any, 0, 1)
	if projectID != "" {
		args = append(args, projectID)
		query += " AND project_id = $1"
	}
	query += " GROUP BY status"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()

	counts := make(map[models.Status]int)
	for rows.Next() {
		var (
			status models.Status
			n      int
		)
		if err = rows.Scan(&status, &n); err != nil {
			return nil, translateError(err)
		}
		counts[status] = n
	}
	if err = rows.Err(); err != nil {
		return nil, translateError(err)
	}
	return counts, nil
}

func buildTaskQuery(prefix string, f repository.TaskFilter) (string, []any) {
	conds := []string{"deleted_at IS NULL"}
	args := make([]any, 0, 4)

	if f.ProjectID != "" {
		args = append(args, f.ProjectID)
		conds = append(conds, fmt.Sprintf("project_id = $%d", len(args)))
	}
	if len(f.Statuses) > 0 {
		statuses := make([]string, len(f.Statuses))
		for i, s := range f.Statuses {
			statuses[i] = string(s)
		}
		args = append(args, statuses)
		conds = append(conds, fmt.Sprintf("status = ANY($%d)", len(args)))
	}
	if f.Query != "" {
		args = append(args, "%"+f.Query+"%")
		conds = append(conds, fmt.Sprintf("(title ILIKE $%d OR description ILIKE $%d)", len(args), len(args)))
	}
	if f.DeadlineBefore != nil {
		args = append(args, *f.DeadlineBefore)
		conds = append(conds, fmt.Sprintf("deadline IS NOT NULL AND deadline < $%d", len(args)))
	}
	return prefix + where(conds), args
}

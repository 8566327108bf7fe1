package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkotelnikov/go-todolist/internal/models"
	"github.com/dkotelnikov/go-todolist/internal/repository"
	"github.com/dkotelnikov/go-todolist/internal/repository/memory"
)

type taskFixture struct {
	projects  ProjectService
	tasks     TaskService
	taskRepo  repository.TaskRepository
	projectID string
}

func newTaskFixture(t *testing.T, maxTasks int, overdueReopen bool, policy DeadlinePolicy) *taskFixture {
	t.Helper()
	store := memory.NewStore()
	projectRepo := memory.NewProjectRepository(store)
	taskRepo := memory.NewTaskRepository(store)
	logger := zerolog.Nop()

	projects := NewProjectService(logger, projectRepo, taskRepo, 10, true, nil)
	tasks := NewTaskService(logger, taskRepo, projectRepo, maxTasks, overdueReopen, policy, nil)

	project, err := projects.Create(context.Background(), CreateProjectParams{Name: "Launch"})
	require.NoError(t, err)

	return &taskFixture{
		projects:  projects,
		tasks:     tasks,
		taskRepo:  taskRepo,
		projectID: project.ID,
	}
}

func TestTaskServiceCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("persists pending task", func(t *testing.T) {
		f := newTaskFixture(t, 50, true, DeadlineReject)

		task, err := f.tasks.Create(ctx, CreateTaskParams{ProjectID: f.projectID, Title: "write report"})
		require.NoError(t, err)
		assert.NotEmpty(t, task.ID)
		assert.Equal(t, models.StatusPending, task.Status)

		got, err := f.tasks.Get(ctx, task.ID)
		require.NoError(t, err)
		assert.Equal(t, "write report", got.Title)
	})

	t.Run("initial status other than pending is rejected", func(t *testing.T) {
		f := newTaskFixture(t, 50, true, DeadlineReject)

		task, err := f.tasks.Create(ctx, CreateTaskParams{
			ProjectID: f.projectID,
			Title:     "t",
			Status:    models.StatusPending,
		})
		require.NoError(t, err)
		assert.Equal(t, models.StatusPending, task.Status)

		_, err = f.tasks.Create(ctx, CreateTaskParams{
			ProjectID: f.projectID,
			Title:     "t2",
			Status:    models.StatusDone,
		})
		var validationErr *models.ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Equal(t, "status", validationErr.Field)
	})

	t.Run("requires existing project", func(t *testing.T) {
		f := newTaskFixture(t, 50, true, DeadlineReject)

		_, err := f.tasks.Create(ctx, CreateTaskParams{ProjectID: "missing", Title: "t"})
		require.ErrorIs(t, err, ErrProjectNotFound)
	})

	t.Run("capacity boundary", func(t *testing.T) {
		f := newTaskFixture(t, 2, true, DeadlineReject)

		for i := 0; i < 2; i++ {
			_, err := f.tasks.Create(ctx, CreateTaskParams{ProjectID: f.projectID, Title: fmt.Sprintf("t%d", i)})
			require.NoError(t, err)
		}

		_, err := f.tasks.Create(ctx, CreateTaskParams{ProjectID: f.projectID, Title: "overflow"})
		var capacityErr *CapacityExceededError
		require.ErrorAs(t, err, &capacityErr)
		assert.Equal(t, "tasks", capacityErr.Resource)
	})

	t.Run("past deadline rejected by default", func(t *testing.T) {
		f := newTaskFixture(t, 50, true, DeadlineReject)
		past := time.Now().Add(-time.Hour)

		_, err := f.tasks.Create(ctx, CreateTaskParams{ProjectID: f.projectID, Title: "late", Deadline: &past})
		var validationErr *models.ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Equal(t, "deadline", validationErr.Field)
	})

	t.Run("past deadline accepted under warn policy", func(t *testing.T) {
		f := newTaskFixture(t, 50, true, DeadlineWarn)
		past := time.Now().Add(-time.Hour)

		task, err := f.tasks.Create(ctx, CreateTaskParams{ProjectID: f.projectID, Title: "late", Deadline: &past})
		require.NoError(t, err)
		require.NotNil(t, task.Deadline)
	})
}

func TestTaskServiceUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("edits mutable fields", func(t *testing.T) {
		f := newTaskFixture(t, 50, true, DeadlineReject)
		task, err := f.tasks.Create(ctx, CreateTaskParams{ProjectID: f.projectID, Title: "old"})
		require.NoError(t, err)

		title := "new"
		description := "details"
		deadline := time.Now().Add(time.Hour)
		updated, err := f.tasks.Update(ctx, UpdateTaskParams{
			ID:          task.ID,
			Title:       &title,
			Description: &description,
			Deadline:    &deadline,
		})
		require.NoError(t, err)
		assert.Equal(t, "new", updated.Title)
		assert.Equal(t, "details", updated.Description)
		require.NotNil(t, updated.Deadline)

		cleared, err := f.tasks.Update(ctx, UpdateTaskParams{ID: task.ID, ClearDeadline: true})
		require.NoError(t, err)
		assert.Nil(t, cleared.Deadline)
	})

	t.Run("project_id is immutable", func(t *testing.T) {
		f := newTaskFixture(t, 50, true, DeadlineReject)
		task, err := f.tasks.Create(ctx, CreateTaskParams{ProjectID: f.projectID, Title: "t"})
		require.NoError(t, err)

		elsewhere := "another-project"
		_, err = f.tasks.Update(ctx, UpdateTaskParams{ID: task.ID, ProjectID: &elsewhere})
		var immutableErr *ImmutableFieldError
		require.ErrorAs(t, err, &immutableErr)
		assert.Equal(t, "project_id", immutableErr.Field)
	})

	t.Run("re-validates on change", func(t *testing.T) {
		f := newTaskFixture(t, 50, true, DeadlineReject)
		task, err := f.tasks.Create(ctx, CreateTaskParams{ProjectID: f.projectID, Title: "t"})
		require.NoError(t, err)

		empty := "  "
		_, err = f.tasks.Update(ctx, UpdateTaskParams{ID: task.ID, Title: &empty})
		var validationErr *models.ValidationError
		require.ErrorAs(t, err, &validationErr)
	})

	t.Run("missing task", func(t *testing.T) {
		f := newTaskFixture(t, 50, true, DeadlineReject)
		title := "x"
		_, err := f.tasks.Update(ctx, UpdateTaskParams{ID: "missing", Title: &title})
		require.ErrorIs(t, err, ErrTaskNotFound)
	})
}

// flakyTaskRepo fails Update a fixed number of times with a stale
// version before delegating, simulating lost updates.
type flakyTaskRepo struct {
	repository.TaskRepository
	failures int
}

func (r *flakyTaskRepo) Update(ctx context.Context, task *models.Task) error {
	if r.failures > 0 {
		r.failures--
		return repository.ErrStaleVersion
	}
	return r.TaskRepository.Update(ctx, task)
}

func TestTaskServiceChangeStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("walks allowed edges", func(t *testing.T) {
		f := newTaskFixture(t, 50, true, DeadlineReject)
		task, err := f.tasks.Create(ctx, CreateTaskParams{ProjectID: f.projectID, Title: "t"})
		require.NoError(t, err)

		updated, err := f.tasks.ChangeStatus(ctx, task.ID, models.StatusInProgress)
		require.NoError(t, err)
		assert.Equal(t, models.StatusInProgress, updated.Status)

		updated, err = f.tasks.ChangeStatus(ctx, task.ID, models.StatusDone)
		require.NoError(t, err)
		assert.Equal(t, models.StatusDone, updated.Status)
		require.NotNil(t, updated.ClosedAt)
	})

	t.Run("disallowed edge fails and leaves state", func(t *testing.T) {
		f := newTaskFixture(t, 50, true, DeadlineReject)
		task, err := f.tasks.Create(ctx, CreateTaskParams{ProjectID: f.projectID, Title: "t"})
		require.NoError(t, err)

		_, err = f.tasks.ChangeStatus(ctx, task.ID, models.StatusDone)
		var transitionErr *models.InvalidStatusTransitionError
		require.ErrorAs(t, err, &transitionErr)
		assert.Equal(t, models.StatusPending, transitionErr.From)
		assert.Equal(t, models.StatusDone, transitionErr.To)

		got, err := f.tasks.Get(ctx, task.ID)
		require.NoError(t, err)
		assert.Equal(t, models.StatusPending, got.Status)
	})

	t.Run("overdue is reserved for the autoclose job", func(t *testing.T) {
		f := newTaskFixture(t, 50, true, DeadlineReject)
		task, err := f.tasks.Create(ctx, CreateTaskParams{ProjectID: f.projectID, Title: "t"})
		require.NoError(t, err)

		_, err = f.tasks.ChangeStatus(ctx, task.ID, models.StatusOverdue)
		var transitionErr *models.InvalidStatusTransitionError
		require.ErrorAs(t, err, &transitionErr)
	})

	t.Run("overdue terminal when reopen disabled", func(t *testing.T) {
		f := newTaskFixture(t, 50, false, DeadlineReject)
		task, err := f.tasks.Create(ctx, CreateTaskParams{ProjectID: f.projectID, Title: "t"})
		require.NoError(t, err)

		// Push to overdue the way the job does.
		stored, err := f.taskRepo.GetByID(ctx, task.ID)
		require.NoError(t, err)
		require.NoError(t, stored.ChangeStatus(models.StatusOverdue, false, time.Now()))
		require.NoError(t, f.taskRepo.Update(ctx, stored))

		_, err = f.tasks.ChangeStatus(ctx, task.ID, models.StatusDone)
		var transitionErr *models.InvalidStatusTransitionError
		require.ErrorAs(t, err, &transitionErr)
	})

	t.Run("retries after a lost update", func(t *testing.T) {
		f := newTaskFixture(t, 50, true, DeadlineReject)
		task, err := f.tasks.Create(ctx, CreateTaskParams{ProjectID: f.projectID, Title: "t"})
		require.NoError(t, err)

		flaky := &flakyTaskRepo{TaskRepository: f.taskRepo, failures: 1}
		svc := f.tasks.(*taskServiceImpl)
		svc.tasks = flaky

		updated, err := f.tasks.ChangeStatus(ctx, task.ID, models.StatusInProgress)
		require.NoError(t, err)
		assert.Equal(t, models.StatusInProgress, updated.Status)
	})

	t.Run("surfaces concurrent modification when retries exhaust", func(t *testing.T) {
		f := newTaskFixture(t, 50, true, DeadlineReject)
		task, err := f.tasks.Create(ctx, CreateTaskParams{ProjectID: f.projectID, Title: "t"})
		require.NoError(t, err)

		flaky := &flakyTaskRepo{TaskRepository: f.taskRepo, failures: casAttempts}
		svc := f.tasks.(*taskServiceImpl)
		svc.tasks = flaky

		_, err = f.tasks.ChangeStatus(ctx, task.ID, models.StatusInProgress)
		require.ErrorIs(t, err, ErrConcurrentModification)
	})
}

func TestTaskServiceDelete(t *testing.T) {
	ctx := context.Background()
	f := newTaskFixture(t, 50, true, DeadlineReject)

	task, err := f.tasks.Create(ctx, CreateTaskParams{ProjectID: f.projectID, Title: "t"})
	require.NoError(t, err)

	require.NoError(t, f.tasks.Delete(ctx, task.ID))
	_, err = f.tasks.Get(ctx, task.ID)
	require.ErrorIs(t, err, ErrTaskNotFound)

	require.ErrorIs(t, f.tasks.Delete(ctx, task.ID), ErrTaskNotFound)
}

func TestTaskServiceList(t *testing.T) {
	ctx := context.Background()
	f := newTaskFixture(t, 50, true, DeadlineReject)

	_, err := f.tasks.Create(ctx, CreateTaskParams{ProjectID: f.projectID, Title: "pay invoice"})
	require.NoError(t, err)
	doing, err := f.tasks.Create(ctx, CreateTaskParams{ProjectID: f.projectID, Title: "write summary"})
	require.NoError(t, err)
	_, err = f.tasks.ChangeStatus(ctx, doing.ID, models.StatusInProgress)
	require.NoError(t, err)

	t.Run("by status", func(t *testing.T) {
		got, err := f.tasks.List(ctx, ListTasksParams{Status: models.StatusInProgress})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, doing.ID, got[0].ID)
	})

	t.Run("free text", func(t *testing.T) {
		got, err := f.tasks.List(ctx, ListTasksParams{Query: "invoice"})
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})

	t.Run("invalid status filter", func(t *testing.T) {
		_, err := f.tasks.List(ctx, ListTasksParams{Status: models.Status("bogus")})
		var validationErr *models.ValidationError
		require.ErrorAs(t, err, &validationErr)
	})
}

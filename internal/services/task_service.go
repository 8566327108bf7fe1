package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/dkotelnikov/go-todolist/internal/models"
	"github.com/dkotelnikov/go-todolist/internal/repository"
)

// DeadlinePolicy governs tasks created with a deadline already in the
// past: reject them or accept with a warning.
type DeadlinePolicy string

const (
	DeadlineReject DeadlinePolicy = "reject"
	DeadlineWarn   DeadlinePolicy = "warn"
)

type taskServiceImpl struct {
	logger         zerolog.Logger
	tasks          repository.TaskRepository
	projects       repository.ProjectRepository
	maxTasks       int
	overdueReopen  bool
	deadlinePolicy DeadlinePolicy
	cache          *StatsCache
	now            func() time.Time
}

func NewTaskService(
	logger zerolog.Logger,
	tasks repository.TaskRepository,
	projects repository.ProjectRepository,
	maxTasks int,
	overdueReopen bool,
	deadlinePolicy DeadlinePolicy,
	cache *StatsCache,
) TaskService {
	return &taskServiceImpl{
		logger:         logger,
		tasks:          tasks,
		projects:       projects,
		maxTasks:       maxTasks,
		overdueReopen:  overdueReopen,
		deadlinePolicy: deadlinePolicy,
		cache:          cache,
		now:            time.Now,
	}
}

func (s *taskServiceImpl) checkDeadline(deadline *time.Time, now time.Time) error {
	if deadline == nil || !deadline.Before(now) {
		return nil
	}
	if s.deadlinePolicy == DeadlineWarn {
		s.logger.Warn().
			Time("deadline", *deadline).
			Msg("deadline is already in the past")
		return nil
	}
	return &models.ValidationError{Field: "deadline", Message: "must not be in the past"}
}

func (s *taskServiceImpl) Create(ctx context.Context, params CreateTaskParams) (*models.Task, error) {
	if params.Status != "" && params.Status != models.StatusPending {
		return nil, &models.ValidationError{Field: "status", Message: "new tasks start in the pending status"}
	}

	now := s.now()
	task, err := models.NewTask(params.ProjectID, params.Title, params.Description, params.Deadline, now)
	if err != nil {
		return nil, err
	}
	if err = s.checkDeadline(params.Deadline, now); err != nil {
		return nil, err
	}

	err = s.tasks.Create(ctx, task, s.maxTasks)
	if err != nil {
		if errors.Is(err, repository.ErrLimitReached) {
			s.logger.Warn().
				Str("project_id", params.ProjectID).
				Int("limit", s.maxTasks).
				Msg("task limit reached")
			return nil, &CapacityExceededError{Resource: "tasks", Limit: s.maxTasks}
		}

		s.logger.Error().
			Err(err).
			Str("project_id", params.ProjectID).
			Msg("failed to create task")
		return nil, translateRepositoryError(err, ErrProjectNotFound)
	}

	s.cache.Invalidate(ctx, task.ProjectID)
	s.logger.Info().
		Str("task_id", task.ID).
		Str("project_id", task.ProjectID).
		Msg("created task")
	return task, nil
}

func (s *taskServiceImpl) Get(ctx context.Context, id string) (*models.Task, error) {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, translateRepositoryError(err, ErrTaskNotFound)
	}
	return task, nil
}

func (s *taskServiceImpl) Update(ctx context.Context, params UpdateTaskParams) (*models.Task, error) {
	if params.ProjectID != nil {
		return nil, &ImmutableFieldError{Field: "project_id"}
	}

	for attempt := 0; attempt < casAttempts; attempt++ {
		task, err := s.tasks.GetByID(ctx, params.ID)
		if err != nil {
			return nil, translateRepositoryError(err, ErrTaskNotFound)
		}

		now := s.now()
		if params.Title != nil {
			if err = task.SetTitle(*params.Title, now); err != nil {
				return nil, err
			}
		}
		if params.Description != nil {
			if err = task.SetDescription(*params.Description, now); err != nil {
				return nil, err
			}
		}
		if params.ClearDeadline {
			task.SetDeadline(nil, now)
		} else if params.Deadline != nil {
			if err = s.checkDeadline(params.Deadline, now); err != nil {
				return nil, err
			}
			task.SetDeadline(params.Deadline, now)
		}

		err = s.tasks.Update(ctx, task)
		if err == nil {
			s.cache.Invalidate(ctx, task.ProjectID)
			s.logger.Info().
				Str("task_id", task.ID).
				Msg("updated task")
			return task, nil
		}
		if errors.Is(err, repository.ErrStaleVersion) {
			s.logger.Debug().
				Str("task_id", params.ID).
				Msg("stale task version, retrying")
			continue
		}
		s.logger.Error().
			Err(err).
			Str("task_id", params.ID).
			Msg("failed to update task")
		return nil, translateRepositoryError(err, ErrTaskNotFound)
	}

	return nil, ErrConcurrentModification
}

func (s *taskServiceImpl) ChangeStatus(ctx context.Context, id string, to models.Status) (*models.Task, error) {
	if !to.Valid() {
		return nil, &models.ValidationError{Field: "status", Message: "unknown status"}
	}

	for attempt := 0; attempt < casAttempts; attempt++ {
		task, err := s.tasks.GetByID(ctx, id)
		if err != nil {
			return nil, translateRepositoryError(err, ErrTaskNotFound)
		}

		// Overdue is assigned by the autoclose job, never by user
		// action.
		if to == models.StatusOverdue {
			return nil, &models.InvalidStatusTransitionError{From: task.Status, To: to}
		}

		if err = task.ChangeStatus(to, s.overdueReopen, s.now()); err != nil {
			return nil, err
		}

		err = s.tasks.Update(ctx, task)
		if err == nil {
			s.cache.Invalidate(ctx, task.ProjectID)
			s.logger.Info().
				Str("task_id", task.ID).
				Str("status", string(to)).
				Msg("changed task status")
			return task, nil
		}
		if errors.Is(err, repository.ErrStaleVersion) {
			s.logger.Debug().
				Str("task_id", id).
				Msg("stale task version, retrying")
			continue
		}
		s.logger.Error().
			Err(err).
			Str("task_id", id).
			Msg("failed to change task status")
		return nil, translateRepositoryError(err, ErrTaskNotFound)
	}

	return nil, ErrConcurrentModification
}

func (s *taskServiceImpl) Delete(ctx context.Context, id string) error {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return translateRepositoryError(err, ErrTaskNotFound)
	}

	err = s.tasks.Delete(ctx, id)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("task_id", id).
			Msg("failed to delete task")
		return translateRepositoryError(err, ErrTaskNotFound)
	}

	s.cache.Invalidate(ctx, task.ProjectID)
	s.logger.Info().
		Str("task_id", id).
		Msg("deleted task")
	return nil
}

func (s *taskServiceImpl) List(ctx context.Context, params ListTasksParams) ([]*models.Task, error) {
	filter := repository.TaskFilter{
		ProjectID: params.ProjectID,
		Query:     params.Query,
	}
	if params.Status != "" {
		if !params.Status.Valid() {
			return nil, &models.ValidationError{Field: "status", Message: "unknown status"}
		}
		filter.Statuses = []models.Status{params.Status}
	}

	tasks, err := s.tasks.List(ctx, filter)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to list tasks")
		return nil, translateRepositoryError(err, ErrTaskNotFound)
	}
	return tasks, nil
}

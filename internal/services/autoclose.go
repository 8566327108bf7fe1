package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/dkotelnikov/go-todolist/internal/models"
	"github.com/dkotelnikov/go-todolist/internal/repository"
)

// AutocloseReport summarizes one batch run. Skipped counts tasks whose
// status was concurrently changed away between fetch and transition.
type AutocloseReport struct {
	Examined int                `json:"examined"`
	Closed   int                `json:"closed"`
	Skipped  int                `json:"skipped"`
	Failures []AutocloseFailure `json:"failures,omitempty"`
}

type AutocloseFailure struct {
	TaskID string `json:"task_id"`
	Reason string `json:"reason"`
}

type AutocloseService interface {
	// Run transitions every pending or in-progress task whose deadline
	// has strictly passed to overdue. The run is idempotent: invoked
	// again with no intervening mutation it closes nothing. Per-task
	// failures are collected into the report instead of aborting the
	// batch.
	Run(ctx context.Context) (*AutocloseReport, error)
}

type autocloseServiceImpl struct {
	logger zerolog.Logger
	tasks  repository.TaskRepository
	cache  *StatsCache
	now    func() time.Time
}

func NewAutocloseService(
	logger zerolog.Logger,
	tasks repository.TaskRepository,
	cache *StatsCache,
) AutocloseService {
	return &autocloseServiceImpl{
		logger: logger,
		tasks:  tasks,
		cache:  cache,
		now:    time.Now,
	}
}

func (s *autocloseServiceImpl) Run(ctx context.Context) (*AutocloseReport, error) {
	now := s.now()
	candidates, err := s.tasks.List(ctx, repository.TaskFilter{
		Statuses:       []models.Status{models.StatusPending, models.StatusInProgress},
		DeadlineBefore: &now,
	})
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to list overdue candidates")
		return nil, &RepositoryUnavailableError{Err: err}
	}

	report := &AutocloseReport{Examined: len(candidates)}
	for _, task := range candidates {
		if err = s.close(ctx, task, now); err != nil {
			if errors.Is(err, errSkipped) {
				report.Skipped++
				continue
			}
			report.Failures = append(report.Failures, AutocloseFailure{
				TaskID: task.ID,
				Reason: err.Error(),
			})
			continue
		}
		report.Closed++
		s.cache.Invalidate(ctx, task.ProjectID)
	}

	s.logger.Info().
		Int("examined", report.Examined).
		Int("closed", report.Closed).
		Int("skipped", report.Skipped).
		Int("failed", len(report.Failures)).
		Msg("autoclose run finished")
	return report, nil
}

var errSkipped = errors.New("task no longer eligible")

// close moves one task to overdue, re-checking eligibility right
// before each transition attempt so a concurrent user action wins.
func (s *autocloseServiceImpl) close(ctx context.Context, task *models.Task, now time.Time) error {
	for attempt := 0; attempt < casAttempts; attempt++ {
		if task.Status != models.StatusPending && task.Status != models.StatusInProgress {
			return errSkipped
		}
		if !task.Overdue(now) {
			return errSkipped
		}

		// The reopen policy is irrelevant here: the job only ever
		// leaves pending or in_progress.
		if err := task.ChangeStatus(models.StatusOverdue, false, now); err != nil {
			return err
		}

		err := s.tasks.Update(ctx, task)
		if err == nil {
			s.logger.Debug().
				Str("task_id", task.ID).
				Msg("closed overdue task")
			return nil
		}
		if errors.Is(err, repository.ErrNotFound) {
			return errSkipped
		}
		if !errors.Is(err, repository.ErrStaleVersion) {
			return err
		}

		task, err = s.tasks.GetByID(ctx, task.ID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return errSkipped
			}
			return err
		}
	}
	return ErrConcurrentModification
}

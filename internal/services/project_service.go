package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/dkotelnikov/go-todolist/internal/models"
	"github.com/dkotelnikov/go-todolist/internal/repository"
)

type projectServiceImpl struct {
	logger        zerolog.Logger
	projects      repository.ProjectRepository
	tasks         repository.TaskRepository
	maxProjects   int
	cascadeDelete bool
	cache         *StatsCache
	now           func() time.Time
}

func NewProjectService(
	logger zerolog.Logger,
	projects repository.ProjectRepository,
	tasks repository.TaskRepository,
	maxProjects int,
	cascadeDelete bool,
	cache *StatsCache,
) ProjectService {
	return &projectServiceImpl{
		logger:        logger,
		projects:      projects,
		tasks:         tasks,
		maxProjects:   maxProjects,
		cascadeDelete: cascadeDelete,
		cache:         cache,
		now:           time.Now,
	}
}

func (s *projectServiceImpl) Create(ctx context.Context, params CreateProjectParams) (*models.Project, error) {
	project, err := models.NewProject(params.Name, params.Description, s.now())
	if err != nil {
		return nil, err
	}

	err = s.projects.Create(ctx, project, s.maxProjects)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrLimitReached):
			s.logger.Warn().
				Int("limit", s.maxProjects).
				Msg("project limit reached")
			return nil, &CapacityExceededError{Resource: "projects", Limit: s.maxProjects}
		case errors.Is(err, repository.ErrDuplicateName):
			return nil, &DuplicateNameError{Name: project.Name}
		}

		s.logger.Error().
			Err(err).
			Msg("failed to create project")
		return nil, translateRepositoryError(err, ErrProjectNotFound)
	}

	s.logger.Info().
		Str("project_id", project.ID).
		Str("name", project.Name).
		Msg("created project")
	return project, nil
}

func (s *projectServiceImpl) Get(ctx context.Context, id string) (*models.Project, error) {
	project, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return nil, translateRepositoryError(err, ErrProjectNotFound)
	}
	return project, nil
}

func (s *projectServiceImpl) GetByName(ctx context.Context, name string) (*models.Project, error) {
	project, err := s.projects.GetByName(ctx, name)
	if err != nil {
		return nil, translateRepositoryError(err, ErrProjectNotFound)
	}
	return project, nil
}

func (s *projectServiceImpl) Update(ctx context.Context, params UpdateProjectParams) (*models.Project, error) {
	for attempt := 0; attempt < casAttempts; attempt++ {
		project, err := s.projects.GetByID(ctx, params.ID)
		if err != nil {
			return nil, translateRepositoryError(err, ErrProjectNotFound)
		}

		now := s.now()
		if params.Name != nil {
			if err = project.Rename(*params.Name, now); err != nil {
				return nil, err
			}
		}
		if params.Description != nil {
			if err = project.SetDescription(*params.Description, now); err != nil {
				return nil, err
			}
		}

		err = s.projects.Update(ctx, project)
		if err == nil {
			s.logger.Info().
				Str("project_id", project.ID).
				Msg("updated project")
			return project, nil
		}
		if errors.Is(err, repository.ErrStaleVersion) {
			s.logger.Debug().
				Str("project_id", params.ID).
				Msg("stale project version, retrying")
			continue
		}
		if errors.Is(err, repository.ErrDuplicateName) {
			return nil, &DuplicateNameError{Name: project.Name}
		}
		s.logger.Error().
			Err(err).
			Str("project_id", params.ID).
			Msg("failed to update project")
		return nil, translateRepositoryError(err, ErrProjectNotFound)
	}

	return nil, ErrConcurrentModification
}

func (s *projectServiceImpl) Delete(ctx context.Context, id string) error {
	err := s.projects.Delete(ctx, id, s.cascadeDelete)
	if err != nil {
		if errors.Is(err, repository.ErrHasChildren) {
			return &HasDependentsError{ProjectID: id}
		}
		s.logger.Error().
			Err(err).
			Str("project_id", id).
			Msg("failed to delete project")
		return translateRepositoryError(err, ErrProjectNotFound)
	}

	s.cache.Invalidate(ctx, id)
	s.logger.Info().
		Str("project_id", id).
		Bool("cascade", s.cascadeDelete).
		Msg("deleted project")
	return nil
}

func (s *projectServiceImpl) List(ctx context.Context, params ListProjectsParams) ([]*models.Project, error) {
	projects, err := s.projects.List(ctx, repository.ProjectFilter{Query: params.Query})
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to list projects")
		return nil, translateRepositoryError(err, ErrProjectNotFound)
	}
	return projects, nil
}

func (s *projectServiceImpl) Statistics(ctx context.Context, projectID string) (*Statistics, error) {
	if projectID != "" {
		if _, err := s.projects.GetByID(ctx, projectID); err != nil {
			return nil, translateRepositoryError(err, ErrProjectNotFound)
		}
	}

	if stats, ok := s.cache.Get(ctx, projectID); ok {
		return stats, nil
	}

	counts, err := s.tasks.CountByStatus(ctx, projectID)
	if err != nil {
		return nil, translateRepositoryError(err, ErrProjectNotFound)
	}

	now := s.now()
	overdue, err := s.tasks.Count(ctx, repository.TaskFilter{
		ProjectID:      projectID,
		Statuses:       []models.Status{models.StatusPending, models.StatusInProgress, models.StatusOverdue},
		DeadlineBefore: &now,
	})
	if err != nil {
		return nil, translateRepositoryError(err, ErrProjectNotFound)
	}

	stats := &Statistics{ByStatus: counts, Overdue: overdue}
	for _, n := range counts {
		stats.Total += n
	}

	s.cache.Set(ctx, projectID, stats)
	s.logger.Debug().
		Str("project_id", projectID).
		Int("total", stats.Total).
		Msg("computed statistics")
	return stats, nil
}

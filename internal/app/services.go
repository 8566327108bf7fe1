package app

import (
	"github.com/dkotelnikov/go-todolist/internal/config"
	"github.com/dkotelnikov/go-todolist/internal/repository/postgres"
	"github.com/dkotelnikov/go-todolist/internal/services"
)

var (
	globalProjectService   services.ProjectService
	globalTaskService      services.TaskService
	globalAutocloseService services.AutocloseService
)

// MustInitServices wires the postgres repositories and optional redis
// statistics cache into the service layer. It requires MustReadEnv and
// MustConnectPostgres to have run.
func MustInitServices() {
	cfg := config.Global()

	projectRepo := postgres.NewProjectRepository(globalPostgresPool)
	taskRepo := postgres.NewTaskRepository(globalPostgresPool)

	var cache *services.StatsCache
	if globalRedisClient != nil {
		cache = services.NewStatsCache(globalLogger, globalRedisClient, cfg.Redis.StatsTTL)
	}

	globalProjectService = services.NewProjectService(
		globalLogger,
		projectRepo,
		taskRepo,
		cfg.Limits.ProjectMax,
		cfg.Policy.CascadeDelete,
		cache,
	)
	globalTaskService = services.NewTaskService(
		globalLogger,
		taskRepo,
		projectRepo,
		cfg.Limits.TaskMax,
		cfg.Policy.OverdueReopen,
		services.DeadlinePolicy(cfg.Policy.DeadlinePastPolicy),
		cache,
	)
	globalAutocloseService = services.NewAutocloseService(
		globalLogger,
		taskRepo,
		cache,
	)

	globalLogger.Info().
		Int("project_max", cfg.Limits.ProjectMax).
		Int("task_max", cfg.Limits.TaskMax).
		Bool("cascade_delete", cfg.Policy.CascadeDelete).
		Bool("overdue_reopen", cfg.Policy.OverdueReopen).
		Msg("initialized services")
}

package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/dkotelnikov/go-todolist/internal/services"
)

type Handler interface {
	HandleCreateProject(c *gin.Context)
	HandleListProjects(c *gin.Context)
	HandleGetProject(c *gin.Context)
	HandleUpdateProject(c *gin.Context)
	HandleDeleteProject(c *gin.Context)
	HandleProjectStats(c *gin.Context)

	HandleCreateTask(c *gin.Context)
	HandleListTasks(c *gin.Context)
	HandleGetTask(c *gin.Context)
	HandleUpdateTask(c *gin.Context)
	HandleSetTaskStatus(c *gin.Context)
	HandleDeleteTask(c *gin.Context)

	HandleAccountStats(c *gin.Context)
	HandleAutoclose(c *gin.Context)
}

type handlerImpl struct {
	logger    zerolog.Logger
	projects  services.ProjectService
	tasks     services.TaskService
	autoclose services.AutocloseService
}

func New(
	logger zerolog.Logger,
	projectService services.ProjectService,
	taskService services.TaskService,
	autocloseService services.AutocloseService,
) Handler {
	return &handlerImpl{
		logger:    logger,
		projects:  projectService,
		tasks:     taskService,
		autoclose: autocloseService,
	}
}

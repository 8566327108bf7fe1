package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dkotelnikov/go-todolist/internal/models"
	"github.com/dkotelnikov/go-todolist/internal/services"
)

type getProjectResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func newGetProjectResponse(project *models.Project) getProjectResponse {
	return getProjectResponse{
		ID:          project.ID,
		Name:        project.Name,
		Description: project.Description,
		CreatedAt:   project.CreatedAt,
		UpdatedAt:   project.UpdatedAt,
	}
}

type createProjectRequest struct {
	Name        string  `json:"name" binding:"required,max=255"`
	Description *string `json:"description,omitempty"`
}

func (h *handlerImpl) HandleCreateProject(c *gin.Context) {
	var req createProjectRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError("invalid request body"))
		return
	}

	params := services.CreateProjectParams{Name: req.Name}
	if req.Description != nil {
		params.Description = *req.Description
	}

	project, err := h.projects.Create(c, params)
	if err != nil {
		abortServiceError(c, err)
		return
	}

	h.logger.Info().
		Str("project_id", project.ID).
		Msg("created project")
	c.JSON(http.StatusCreated, newGetProjectResponse(project))
}

func (h *handlerImpl) HandleListProjects(c *gin.Context) {
	projects, err := h.projects.List(c, services.ListProjectsParams{
		Query: c.Query("q"),
	})
	if err != nil {
		abortServiceError(c, err)
		return
	}

	response := make([]getProjectResponse, len(projects))
	for i, project := range projects {
		response[i] = newGetProjectResponse(project)
	}
	c.JSON(http.StatusOK, response)
}

func (h *handlerImpl) HandleGetProject(c *gin.Context) {
	projectID := c.Param("id")
	if projectID == "" {
		abort(c, newBadRequestError("no project id provided"))
		return
	}

	project, err := h.projects.Get(c, projectID)
	if err != nil {
		abortServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newGetProjectResponse(project))
}

type updateProjectRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

func (h *handlerImpl) HandleUpdateProject(c *gin.Context) {
	projectID := c.Param("id")
	if projectID == "" {
		abort(c, newBadRequestError("no project id provided"))
		return
	}

	var req updateProjectRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError("invalid request body"))
		return
	}

	project, err := h.projects.Update(c, services.UpdateProjectParams{
		ID:          projectID,
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		abortServiceError(c, err)
		return
	}

	h.logger.Info().
		Str("project_id", project.ID).
		Msg("updated project")
	c.JSON(http.StatusOK, newGetProjectResponse(project))
}

func (h *handlerImpl) HandleDeleteProject(c *gin.Context) {
	projectID := c.Param("id")
	if projectID == "" {
		abort(c, newBadRequestError("no project id provided"))
		return
	}

	err := h.projects.Delete(c, projectID)
	if err != nil {
		abortServiceError(c, err)
		return
	}

	h.logger.Info().
		Str("project_id", projectID).
		Msg("deleted project")
	c.Status(http.StatusNoContent)
}

func (h *handlerImpl) HandleProjectStats(c *gin.Context) {
	projectID := c.Param("id")
	if projectID == "" {
		abort(c, newBadRequestError("no project id provided"))
		return
	}

	stats, err := h.projects.Statistics(c, projectID)
	if err != nil {
		abortServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *handlerImpl) HandleAccountStats(c *gin.Context) {
	stats, err := h.projects.Statistics(c, "")
	if err != nil {
		abortServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *handlerImpl) HandleAutoclose(c *gin.Context) {
	report, err := h.autoclose.Run(c)
	if err != nil {
		abortServiceError(c, err)
		return
	}

	h.logger.Info().
		Int("closed", report.Closed).
		Msg("autoclose triggered over http")
	c.JSON(http.StatusOK, report)
}

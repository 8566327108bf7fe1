package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dkotelnikov/go-todolist/internal/models"
	"github.com/dkotelnikov/go-todolist/internal/services"
)

type getTaskResponse struct {
	ID          string     `json:"id"`
	ProjectID   string     `json:"project_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	ClosedAt    *time.Time `json:"closed_at,omitempty"`
}

func newGetTaskResponse(task *models.Task) getTaskResponse {
	return getTaskResponse{
		ID:          task.ID,
		ProjectID:   task.ProjectID,
		Title:       task.Title,
		Description: task.Description,
		Status:      string(task.Status),
		Deadline:    task.Deadline,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
		ClosedAt:    task.ClosedAt,
	}
}

type createTaskRequest struct {
	ProjectID   string     `json:"project_id" binding:"required"`
	Title       string     `json:"title" binding:"required,max=255"`
	Description *string    `json:"description,omitempty"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	Status      *string    `json:"status,omitempty"`
}

func (h *handlerImpl) HandleCreateTask(c *gin.Context) {
	var req createTaskRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError("invalid request body"))
		return
	}

	params := services.CreateTaskParams{
		ProjectID: req.ProjectID,
		Title:     req.Title,
		Deadline:  req.Deadline,
	}
	if req.Description != nil {
		params.Description = *req.Description
	}
	if req.Status != nil {
		params.Status = models.Status(*req.Status)
	}

	task, err := h.tasks.Create(c, params)
	if err != nil {
		abortServiceError(c, err)
		return
	}

	h.logger.Info().
		Str("task_id", task.ID).
		Msg("created task")
	c.JSON(http.StatusCreated, newGetTaskResponse(task))
}

func (h *handlerImpl) HandleListTasks(c *gin.Context) {
	tasks, err := h.tasks.List(c, services.ListTasksParams{
		ProjectID: c.Query("project_id"),
		Status:    models.Status(c.Query("status")),
		Query:     c.Query("q"),
	})
	if err != nil {
		abortServiceError(c, err)
		return
	}

	response := make([]getTaskResponse, len(tasks))
	for i, task := range tasks {
		response[i] = newGetTaskResponse(task)
	}
	c.JSON(http.StatusOK, response)
}

func (h *handlerImpl) HandleGetTask(c *gin.Context) {
	taskID := c.Param("id")
	if taskID == "" {
		abort(c, newBadRequestError("no task id provided"))
		return
	}

	task, err := h.tasks.Get(c, taskID)
	if err != nil {
		abortServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newGetTaskResponse(task))
}

type updateTaskRequest struct {
	Title         *string    `json:"title,omitempty"`
	Description   *string    `json:"description,omitempty"`
	Deadline      *time.Time `json:"deadline,omitempty"`
	ClearDeadline bool       `json:"clear_deadline,omitempty"`
	ProjectID     *string    `json:"project_id,omitempty"`
}

func (h *handlerImpl) HandleUpdateTask(c *gin.Context) {
	taskID := c.Param("id")
	if taskID == "" {
		abort(c, newBadRequestError("no task id provided"))
		return
	}

	var req updateTaskRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError("invalid request body"))
		return
	}

	task, err := h.tasks.Update(c, services.UpdateTaskParams{
		ID:            taskID,
		Title:         req.Title,
		Description:   req.Description,
		Deadline:      req.Deadline,
		ClearDeadline: req.ClearDeadline,
		ProjectID:     req.ProjectID,
	})
	if err != nil {
		abortServiceError(c, err)
		return
	}

	h.logger.Info().
		Str("task_id", task.ID).
		Msg("updated task")
	c.JSON(http.StatusOK, newGetTaskResponse(task))
}

func (h *handlerImpl) HandleSetTaskStatus(c *gin.Context) {
	taskID := c.Param("id")
	if taskID == "" {
		abort(c, newBadRequestError("no task id provided"))
		return
	}

	status := c.Query("status")
	if status == "" {
		abort(c, newBadRequestError("no status provided"))
		return
	}

	task, err := h.tasks.ChangeStatus(c, taskID, models.Status(status))
	if err != nil {
		abortServiceError(c, err)
		return
	}

	h.logger.Info().
		Str("task_id", task.ID).
		Str("status", status).
		Msg("changed task status")
	c.JSON(http.StatusOK, newGetTaskResponse(task))
}

func (h *handlerImpl) HandleDeleteTask(c *gin.Context) {
	taskID := c.Param("id")
	if taskID == "" {
		abort(c, newBadRequestError("no task id provided"))
		return
	}

	err := h.tasks.Delete(c, taskID)
	if err != nil {
		abortServiceError(c, err)
		return
	}

	h.logger.Info().
		Str("task_id", taskID).
		Msg("deleted task")
	c.Status(http.StatusNoContent)
}

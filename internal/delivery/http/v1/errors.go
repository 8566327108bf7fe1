package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dkotelnikov/go-todolist/internal/models"
	"github.com/dkotelnikov/go-todolist/internal/services"
)

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func newAPIError(code int, message string) apiError {
	return apiError{
		Code:    code,
		Message: message,
	}
}

func (e apiError) Error() string {
	return e.Message
}

func abort(c *gin.Context, err apiError) {
	c.AbortWithStatusJSON(err.Code, gin.H{"error": err.Message})
}

func newBadRequestError(message string) apiError {
	return newAPIError(http.StatusBadRequest, message)
}

// abortServiceError translates the service error taxonomy into HTTP
// responses. Errors are surfaced unmodified by the services, so the
// mapping lives entirely here.
func abortServiceError(c *gin.Context, err error) {
	var (
		validationErr *models.ValidationError
		transitionErr *models.InvalidStatusTransitionError
		capacityErr   *services.CapacityExceededError
		duplicateErr  *services.DuplicateNameError
		immutableErr  *services.ImmutableFieldError
		dependentsErr *services.HasDependentsError
		repoErr       *services.RepositoryUnavailableError
	)

	switch {
	case errors.As(err, &validationErr):
		abort(c, newAPIError(http.StatusBadRequest, validationErr.Error()))
	case errors.As(err, &immutableErr):
		abort(c, newAPIError(http.StatusBadRequest, immutableErr.Error()))
	case errors.As(err, &transitionErr):
		abort(c, newAPIError(http.StatusUnprocessableEntity, transitionErr.Error()))
	case errors.Is(err, services.ErrProjectNotFound),
		errors.Is(err, services.ErrTaskNotFound):
		abort(c, newAPIError(http.StatusNotFound, err.Error()))
	case errors.As(err, &capacityErr):
		abort(c, newAPIError(http.StatusConflict, capacityErr.Error()))
	case errors.As(err, &duplicateErr):
		abort(c, newAPIError(http.StatusConflict, duplicateErr.Error()))
	case errors.As(err, &dependentsErr):
		abort(c, newAPIError(http.StatusConflict, dependentsErr.Error()))
	case errors.Is(err, services.ErrConcurrentModification):
		abort(c, newAPIError(http.StatusConflict, err.Error()))
	case errors.As(err, &repoErr):
		abort(c, newAPIError(http.StatusServiceUnavailable, "storage temporarily unavailable"))
	default:
		abort(c, newAPIError(http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError)))
	}
}

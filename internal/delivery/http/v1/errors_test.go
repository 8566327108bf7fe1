package v1

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/dkotelnikov/go-todolist/internal/models"
	"github.com/dkotelnikov/go-todolist/internal/services"
)

func TestAbortServiceError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name string
		err  error
		want int
	}{
		{
			name: "validation",
			err:  &models.ValidationError{Field: "name", Message: "must not be empty"},
			want: http.StatusBadRequest,
		},
		{
			name: "immutable field",
			err:  &services.ImmutableFieldError{Field: "project_id"},
			want: http.StatusBadRequest,
		},
		{
			name: "invalid transition",
			err:  &models.InvalidStatusTransitionError{From: models.StatusPending, To: models.StatusDone},
			want: http.StatusUnprocessableEntity,
		},
		{
			name: "project not found",
			err:  services.ErrProjectNotFound,
			want: http.StatusNotFound,
		},
		{
			name: "task not found",
			err:  services.ErrTaskNotFound,
			want: http.StatusNotFound,
		},
		{
			name: "capacity exceeded",
			err:  &services.CapacityExceededError{Resource: "projects", Limit: 10},
			want: http.StatusConflict,
		},
		{
			name: "duplicate name",
			err:  &services.DuplicateNameError{Name: "Launch"},
			want: http.StatusConflict,
		},
		{
			name: "has dependents",
			err:  &services.HasDependentsError{ProjectID: "p1"},
			want: http.StatusConflict,
		},
		{
			name: "concurrent modification",
			err:  services.ErrConcurrentModification,
			want: http.StatusConflict,
		},
		{
			name: "storage unavailable",
			err:  &services.RepositoryUnavailableError{Err: errors.New("dial tcp: refused")},
			want: http.StatusServiceUnavailable,
		},
		{
			name: "unknown",
			err:  errors.New("boom"),
			want: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(recorder)

			abortServiceError(c, tt.err)

			assert.Equal(t, tt.want, recorder.Code)
			assert.Contains(t, recorder.Body.String(), "error")
		})
	}
}

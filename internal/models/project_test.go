package models

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProject(t *testing.T) {
	now := time.Now()

	t.Run("assigns id and timestamps", func(t *testing.T) {
		project, err := NewProject("Launch", "ship the rocket", now)
		require.NoError(t, err)

		assert.NotEmpty(t, project.ID)
		assert.Equal(t, "Launch", project.Name)
		assert.Equal(t, now, project.CreatedAt)
		assert.Nil(t, project.DeletedAt)
		assert.True(t, project.Active())
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := NewProject("", "desc", now)
		var validationErr *ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Equal(t, "name", validationErr.Field)
	})

	t.Run("rejects overlong name", func(t *testing.T) {
		_, err := NewProject(strings.Repeat("x", MaxNameLen+1), "", now)
		var validationErr *ValidationError
		require.ErrorAs(t, err, &validationErr)
	})

	t.Run("description optional", func(t *testing.T) {
		project, err := NewProject("Launch", "", now)
		require.NoError(t, err)
		assert.Empty(t, project.Description)
	})
}

func TestProjectRename(t *testing.T) {
	now := time.Now()
	project, err := NewProject("Launch", "", now)
	require.NoError(t, err)

	later := now.Add(time.Minute)
	require.NoError(t, project.Rename("Relaunch", later))
	assert.Equal(t, "Relaunch", project.Name)
	assert.Equal(t, later, project.UpdatedAt)
	assert.Equal(t, now, project.CreatedAt)

	var validationErr *ValidationError
	require.ErrorAs(t, project.Rename("  ", later), &validationErr)
	assert.Equal(t, "Relaunch", project.Name)
}

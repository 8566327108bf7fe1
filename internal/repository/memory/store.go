package memory

import (
	"strings"
	"sync"
	"time"

	"github.com/dkotelnikov/go-todolist/internal/models"
	"github.com/dkotelnikov/go-todolist/internal/repository"
)

// Store holds both entity maps behind one mutex so that cross-entity
// operations (capacity-guarded creates, cascade deletes) are atomic,
// mirroring the transaction boundary of the postgres adapter.
type Store struct {
	mu       sync.RWMutex
	projects map[string]*models.Project
	tasks    map[string]*models.Task
}

func NewStore() *Store {
	return &Store{
		projects: make(map[string]*models.Project),
		tasks:    make(map[string]*models.Task),
	}
}

func cloneProject(p *models.Project) *models.Project {
	cp := *p
	if p.DeletedAt != nil {
		t := *p.DeletedAt
		cp.DeletedAt = &t
	}
	return &cp
}

func cloneTask(t *models.Task) *models.Task {
	ct := *t
	if t.Deadline != nil {
		d := *t.Deadline
		ct.Deadline = &d
	}
	if t.ClosedAt != nil {
		c := *t.ClosedAt
		ct.ClosedAt = &c
	}
	if t.DeletedAt != nil {
		d := *t.DeletedAt
		ct.DeletedAt = &d
	}
	return &ct
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func (s *Store) activeProjectCount() int {
	n := 0
	for _, p := range s.projects {
		if p.Active() {
			n++
		}
	}
	return n
}

func (s *Store) activeTaskCount(projectID string) int {
	n := 0
	for _, t := range s.tasks {
		if t.Active() && t.ProjectID == projectID {
			n++
		}
	}
	return n
}

func (s *Store) activeProjectByName(name string) *models.Project {
	for _, p := range s.projects {
		if p.Active() && p.Name == name {
			return p
		}
	}
	return nil
}

func matchProject(f repository.ProjectFilter, p *models.Project) bool {
	if !p.Active() {
		return false
	}
	if f.Query != "" && !containsFold(p.Name, f.Query) && !containsFold(p.Description, f.Query) {
		return false
	}
	return true
}

func matchTask(f repository.TaskFilter, t *models.Task) bool {
	if !t.Active() {
		return false
	}
	if f.ProjectID != "" && t.ProjectID != f.ProjectID {
		return false
	}
	if !f.MatchesStatus(t.Status) {
		return false
	}
	if f.Query != "" && !containsFold(t.Title, f.Query) && !containsFold(t.Description, f.Query) {
		return false
	}
	if f.DeadlineBefore != nil {
		if t.Deadline == nil || !t.Deadline.Before(*f.DeadlineBefore) {
			return false
		}
	}
	return true
}

func now() time.Time {
	return time.Now()
}

package models

import (
	"time"

	"github.com/google/uuid"
)

// Project owns an ordered collection of tasks. ID and CreatedAt are
// frozen at construction; Version backs the optimistic concurrency
// check in the repositories.
type Project struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   *time.Time
	Version     int64
}

func NewProject(name, description string, now time.Time) (*Project, error) {
	name, err := validateRequiredString("name", name, MaxNameLen)
	if err != nil {
		return nil, err
	}
	description, err = validateOptionalString("description", description, MaxDescriptionLen)
	if err != nil {
		return nil, err
	}

	return &Project{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

func (p *Project) Rename(name string, now time.Time) error {
	name, err := validateRequiredString("name", name, MaxNameLen)
	if err != nil {
		return err
	}
	p.Name = name
	p.UpdatedAt = now
	return nil
}

func (p *Project) SetDescription(description string, now time.Time) error {
	description, err := validateOptionalString("description", description, MaxDescriptionLen)
	if err != nil {
		return err
	}
	p.Description = description
	p.UpdatedAt = now
	return nil
}

func (p *Project) Active() bool {
	return p.DeletedAt == nil
}

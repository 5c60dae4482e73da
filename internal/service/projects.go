package service

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/tgienger/taskflow/internal/models"
)

// CreateProject creates a new project
func (s *Service) CreateProject(name, description string) (*models.Project, error) {
	if name == "" {
		return nil, errors.New("project name is required")
	}
	return s.db.CreateProject(name, description)
}

// GetProject retrieves a project by id
func (s *Service) GetProject(id int64) (*models.Project, error) {
	project, err := s.db.GetProject(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("project %d: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return project, nil
}

// Projects returns all projects, newest first
func (s *Service) Projects() ([]models.Project, error) {
	return s.db.ListProjects()
}

// UpdateProject updates a project's name and description
func (s *Service) UpdateProject(id int64, name, description string) error {
	if _, err := s.GetProject(id); err != nil {
		return err
	}
	return s.db.UpdateProject(id, name, description)
}

// DeleteProject deletes a project and everything under it
func (s *Service) DeleteProject(id int64) error {
	if _, err := s.GetProject(id); err != nil {
		return err
	}
	return s.db.DeleteProject(id)
}

package service

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/tgienger/taskflow/internal/models"
)

// CreateTaskParams are the client-settable fields of a new task.
// Creator, status, completion and creation time are always set
// server-side.
type CreateTaskParams struct {
	ProjectID        int64
	Title            string
	Description      string
	AssignedToUserID *int64
	ParentTaskID     *int64
	DueAt            *time.Time
}

// UpdateTaskParams are the updatable fields of a task. Status is
// validated against the transition table before anything is merged.
type UpdateTaskParams struct {
	Title            string
	Description      string
	AssignedToUserID *int64
	Status           models.TaskStatus
	IsCompleted      bool
	DueAt            *time.Time
}

// CreateTask creates a task in Todo state. The owning project and,
// when given, the parent task must exist; a task can never be its own
// parent because it has no id until this insert returns. When the new
// task is assigned to someone other than its creator, that user gets
// an "assigned" notification after the task commits.
func (s *Service) CreateTask(creatorID int64, p CreateTaskParams) (*models.Task, error) {
	if p.Title == "" {
		return nil, errors.New("task title is required")
	}
	if _, err := s.db.GetProject(p.ProjectID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("project %d: %w", p.ProjectID, ErrNotFound)
		}
		return nil, err
	}
	if p.ParentTaskID != nil {
		parent, err := s.db.GetTask(*p.ParentTaskID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, fmt.Errorf("parent task %d: %w", *p.ParentTaskID, ErrNotFound)
			}
			return nil, err
		}
		// Subtasks stay inside their parent's project
		if parent.ProjectID != p.ProjectID {
			return nil, fmt.Errorf("parent task %d not in project %d: %w", *p.ParentTaskID, p.ProjectID, ErrNotFound)
		}
	}

	task, err := s.db.CreateTask(&models.Task{
		ProjectID:        p.ProjectID,
		Title:            p.Title,
		Description:      p.Description,
		CreatedByUserID:  creatorID,
		AssignedToUserID: p.AssignedToUserID,
		ParentTaskID:     p.ParentTaskID,
		Status:           models.StatusTodo,
		IsCompleted:      false,
		DueAt:            p.DueAt,
	})
	if err != nil {
		return nil, err
	}

	if p.AssignedToUserID != nil && *p.AssignedToUserID != creatorID {
		s.notify(*p.AssignedToUserID, fmt.Sprintf("You have been assigned to task: %s", task.Title))
	}

	return task, nil
}

// ApplyStatusTransition moves a task to the requested status, failing
// with ErrInvalidTransition when the pair is not in the transition
// table. Only the in-memory task is touched; persistence is the
// caller's job.
func (s *Service) ApplyStatusTransition(task *models.Task, next models.TaskStatus) error {
	if !next.Valid() {
		return fmt.Errorf("status %q: %w", next, ErrInvalidTransition)
	}
	if !models.CanTransition(task.Status, next) {
		return fmt.Errorf("%s -> %s: %w", task.Status, next, ErrInvalidTransition)
	}
	task.Status = next
	return nil
}

// UpdateTask applies an update to a task. The status transition is
// checked before any other field is merged; on a rejected transition
// nothing is written. On success the status and the remaining fields
// go to the store in a single statement.
func (s *Service) UpdateTask(id int64, p UpdateTaskParams) (*models.Task, error) {
	task, err := s.db.GetTask(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("task %d: %w", id, ErrNotFound)
		}
		return nil, err
	}

	if err := s.ApplyStatusTransition(task, p.Status); err != nil {
		return nil, err
	}

	task.Title = p.Title
	task.Description = p.Description
	task.AssignedToUserID = p.AssignedToUserID
	task.IsCompleted = p.IsCompleted
	task.DueAt = p.DueAt

	if err := s.db.UpdateTask(task); err != nil {
		return nil, err
	}
	return task, nil
}

// GetTask retrieves a task by id
func (s *Service) GetTask(id int64) (*models.Task, error) {
	task, err := s.db.GetTask(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("task %d: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return task, nil
}

// TasksByProject returns a page of a project's tasks, newest first
func (s *Service) TasksByProject(projectID int64, page, pageSize int) ([]models.Task, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 50
	}
	return s.db.ListTasksByProject(projectID, (page-1)*pageSize, pageSize)
}

// Subtasks returns the direct children of a task
func (s *Service) Subtasks(parentTaskID int64) ([]models.Task, error) {
	return s.db.ListSubtasks(parentTaskID)
}

// DeleteTask deletes a task. A task that still has subtasks is
// rejected; the store's RESTRICT constraint backstops the check.
func (s *Service) DeleteTask(id int64) error {
	if _, err := s.db.GetTask(id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("task %d: %w", id, ErrNotFound)
		}
		return err
	}
	n, err := s.db.SubtaskCount(id)
	if err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("task %d: %w", id, ErrHasSubtasks)
	}
	return s.db.DeleteTask(id)
}

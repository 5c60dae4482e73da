package service

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/tgienger/taskflow/internal/models"
)

// AddComment adds a comment to a task. A missing task is ErrNotFound
// and nothing is written. After the comment commits, the task's
// assignee is notified unless they authored the comment themselves,
// and the comment is recorded in the activity log. Both follow-ons
// are best-effort: a failure is logged and the comment stands.
func (s *Service) AddComment(taskID, authorID int64, content string) (*models.Comment, error) {
	task, err := s.db.GetTask(taskID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("task %d: %w", taskID, ErrNotFound)
		}
		return nil, err
	}

	comment, err := s.db.CreateComment(taskID, authorID, content)
	if err != nil {
		return nil, err
	}

	if task.AssignedToUserID != nil && *task.AssignedToUserID != authorID {
		s.notify(*task.AssignedToUserID, fmt.Sprintf("New comment on task: %s", task.Title))
	}

	details, err := json.Marshal(struct {
		Content string `json:"content"`
	}{content})
	if err != nil {
		details = nil
	}
	s.audit(&authorID, ActionTaskCommented, EntityTask, strconv.FormatInt(task.ID, 10), string(details))

	return comment, nil
}

// Comments returns all comments on a task, oldest first
func (s *Service) Comments(taskID int64) ([]models.Comment, error) {
	return s.db.GetTaskComments(taskID)
}

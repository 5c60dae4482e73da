package service

import (
	"io"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/tgienger/taskflow/internal/db"
	"github.com/tgienger/taskflow/internal/models"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	database, err := db.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return New(database, log.New(io.Discard))
}

func mustUser(t *testing.T, s *Service, username string) *models.User {
	t.Helper()
	user, err := s.CreateUser(username, username+"@example.com", "secret", "", MemberRoleID)
	if err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return user
}

func mustProject(t *testing.T, s *Service, name string) *models.Project {
	t.Helper()
	project, err := s.CreateProject(name, "")
	if err != nil {
		t.Fatalf("create project %s: %v", name, err)
	}
	return project
}

func mustTask(t *testing.T, s *Service, creatorID int64, p CreateTaskParams) *models.Task {
	t.Helper()
	task, err := s.CreateTask(creatorID, p)
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	return task
}

// forceStatus writes a status directly, bypassing the transition
// table, so tests can start a task in an arbitrary state.
func forceStatus(t *testing.T, s *Service, task *models.Task, status models.TaskStatus) {
	t.Helper()
	task.Status = status
	if err := s.db.UpdateTask(task); err != nil {
		t.Fatalf("force status: %v", err)
	}
}

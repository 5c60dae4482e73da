package db

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/tgienger/taskflow/internal/models"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	database, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return database
}

func seedUserAndProject(t *testing.T, database *DB) (*models.User, *models.Project) {
	t.Helper()
	user, err := database.CreateUser("alice", "alice@example.com", "x", "", 2)
	if err != nil {
		t.Fatal(err)
	}
	project, err := database.CreateProject("proj", "")
	if err != nil {
		t.Fatal(err)
	}
	return user, project
}

func TestSchemaSeedsRoles(t *testing.T) {
	database := newTestDB(t)

	roles, err := database.ListRoles()
	if err != nil {
		t.Fatal(err)
	}
	if len(roles) != 2 {
		t.Fatalf("got %d roles, want 2", len(roles))
	}
	if roles[0].Name != "Admin" || roles[1].Name != "Member" {
		t.Errorf("roles = %v", roles)
	}
}

func TestSchemaIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	first, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := first.CreateProject("kept", ""); err != nil {
		t.Fatal(err)
	}
	first.Close()

	// Reopening runs the schema again; data must survive
	second, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	defer second.Close()
	projects, err := second.ListProjects()
	if err != nil {
		t.Fatal(err)
	}
	if len(projects) != 1 || projects[0].Name != "kept" {
		t.Errorf("data lost across reopen: %v", projects)
	}
}

func TestSettings(t *testing.T) {
	database := newTestDB(t)

	value, err := database.GetSetting("missing")
	if err != nil || value != "" {
		t.Errorf("missing setting = (%q, %v), want empty", value, err)
	}

	if err := database.SetSetting("active_user", "7"); err != nil {
		t.Fatal(err)
	}
	if err := database.SetSetting("active_user", "8"); err != nil {
		t.Fatal(err)
	}
	value, err = database.GetSetting("active_user")
	if err != nil {
		t.Fatal(err)
	}
	if value != "8" {
		t.Errorf("setting = %q, want 8", value)
	}
}

func TestDeleteTaskRestrictedBySubtasks(t *testing.T) {
	database := newTestDB(t)
	user, project := seedUserAndProject(t, database)

	parent, err := database.CreateTask(&models.Task{
		ProjectID: project.ID, Title: "parent",
		CreatedByUserID: user.ID, Status: models.StatusTodo,
	})
	if err != nil {
		t.Fatal(err)
	}
	_, err = database.CreateTask(&models.Task{
		ProjectID: project.ID, Title: "child",
		CreatedByUserID: user.ID, ParentTaskID: &parent.ID, Status: models.StatusTodo,
	})
	if err != nil {
		t.Fatal(err)
	}

	// The foreign key RESTRICT fires even without the service pre-check
	if err := database.DeleteTask(parent.ID); err == nil {
		t.Fatal("storage layer allowed deleting a task with subtasks")
	}
	if _, err := database.GetTask(parent.ID); err != nil {
		t.Errorf("parent gone after rejected delete: %v", err)
	}
}

func TestDeleteProjectRemovesNestedTasks(t *testing.T) {
	database := newTestDB(t)
	user, project := seedUserAndProject(t, database)

	parent, err := database.CreateTask(&models.Task{
		ProjectID: project.ID, Title: "parent",
		CreatedByUserID: user.ID, Status: models.StatusTodo,
	})
	if err != nil {
		t.Fatal(err)
	}
	child, err := database.CreateTask(&models.Task{
		ProjectID: project.ID, Title: "child",
		CreatedByUserID: user.ID, ParentTaskID: &parent.ID, Status: models.StatusTodo,
	})
	if err != nil {
		t.Fatal(err)
	}
	_, err = database.CreateTask(&models.Task{
		ProjectID: project.ID, Title: "grandchild",
		CreatedByUserID: user.ID, ParentTaskID: &child.ID, Status: models.StatusTodo,
	})
	if err != nil {
		t.Fatal(err)
	}

	if err := database.DeleteProject(project.ID); err != nil {
		t.Fatalf("delete project with nested tasks: %v", err)
	}
	tasks, err := database.ListTasksByProject(project.ID, 0, 100)
	if err != nil {
		t.Fatal(err)
	}
	if len(tasks) != 0 {
		t.Errorf("%d tasks survived project delete", len(tasks))
	}
	count, err := database.ProjectCount()
	if err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Errorf("project count = %d after delete, want 0", count)
	}
}

func TestDeleteTaskCascadesComments(t *testing.T) {
	database := newTestDB(t)
	user, project := seedUserAndProject(t, database)

	task, err := database.CreateTask(&models.Task{
		ProjectID: project.ID, Title: "chatty",
		CreatedByUserID: user.ID, Status: models.StatusTodo,
	})
	if err != nil {
		t.Fatal(err)
	}
	for _, content := range []string{"one", "two"} {
		if _, err := database.CreateComment(task.ID, user.ID, content); err != nil {
			t.Fatal(err)
		}
	}

	count, err := database.CommentCount(task.ID)
	if err != nil {
		t.Fatal(err)
	}
	if count != 2 {
		t.Fatalf("comment count = %d, want 2", count)
	}

	if err := database.DeleteTask(task.ID); err != nil {
		t.Fatal(err)
	}
	count, err = database.CommentCount(task.ID)
	if err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Errorf("%d comments survived task delete", count)
	}
}

func TestTaskNullableFieldsRoundTrip(t *testing.T) {
	database := newTestDB(t)
	user, project := seedUserAndProject(t, database)

	due := time.Now().Add(48 * time.Hour).UTC().Truncate(time.Second)
	task, err := database.CreateTask(&models.Task{
		ProjectID: project.ID, Title: "due soon",
		CreatedByUserID:  user.ID,
		AssignedToUserID: &user.ID,
		Status:           models.StatusTodo,
		DueAt:            &due,
	})
	if err != nil {
		t.Fatal(err)
	}
	if task.AssignedToUserID == nil || *task.AssignedToUserID != user.ID {
		t.Error("assignee did not round-trip")
	}
	if task.DueAt == nil || !task.DueAt.Equal(due) {
		t.Errorf("due date did not round-trip: %v", task.DueAt)
	}
	if task.ParentTaskID != nil {
		t.Error("parent set on top-level task")
	}

	// Clearing the assignee persists as NULL
	task.AssignedToUserID = nil
	if err := database.UpdateTask(task); err != nil {
		t.Fatal(err)
	}
	reloaded, err := database.GetTask(task.ID)
	if err != nil {
		t.Fatal(err)
	}
	if reloaded.AssignedToUserID != nil {
		t.Error("assignee not cleared")
	}
}

func TestRedeemResetTokenIsAtomic(t *testing.T) {
	database := newTestDB(t)
	user, _ := seedUserAndProject(t, database)

	token, err := database.CreateResetToken(user.ID, "tok-abc", time.Now().Add(time.Hour))
	if err != nil {
		t.Fatal(err)
	}

	err = database.RedeemResetToken(token.ID, user.ID, "newhash", &models.ActivityLogEntry{
		UserID: &user.ID, Action: "Password Reset", EntityType: "User", EntityID: "1",
	})
	if err != nil {
		t.Fatal(err)
	}

	reloaded, err := database.GetResetToken("tok-abc")
	if err != nil {
		t.Fatal(err)
	}
	if !reloaded.Used {
		t.Error("token not flagged used")
	}
	updated, err := database.GetUser(user.ID)
	if err != nil {
		t.Fatal(err)
	}
	if updated.PasswordHash != "newhash" {
		t.Error("password hash not rewritten")
	}
	_, total, err := database.ListActivity(ActivityFilter{Action: "Password Reset"}, 0, 10)
	if err != nil {
		t.Fatal(err)
	}
	if total != 1 {
		t.Errorf("audit entries = %d, want 1", total)
	}
}

func TestRedeemResetTokenAtMostOnce(t *testing.T) {
	database := newTestDB(t)
	user, _ := seedUserAndProject(t, database)

	token, err := database.CreateResetToken(user.ID, "tok-once", time.Now().Add(time.Hour))
	if err != nil {
		t.Fatal(err)
	}

	entry := &models.ActivityLogEntry{
		UserID: &user.ID, Action: "Password Reset", EntityType: "User", EntityID: "1",
	}
	if err := database.RedeemResetToken(token.ID, user.ID, "first", entry); err != nil {
		t.Fatal(err)
	}

	// A second redemption of the same token, as a racing caller that
	// read the row before the flip would attempt, must fail whole.
	if err := database.RedeemResetToken(token.ID, user.ID, "second", entry); err == nil {
		t.Fatal("token redeemed twice")
	}
	updated, err := database.GetUser(user.ID)
	if err != nil {
		t.Fatal(err)
	}
	if updated.PasswordHash != "first" {
		t.Errorf("password hash = %q, want the first redemption's", updated.PasswordHash)
	}
	_, total, err := database.ListActivity(ActivityFilter{Action: "Password Reset"}, 0, 10)
	if err != nil {
		t.Fatal(err)
	}
	if total != 1 {
		t.Errorf("audit entries = %d, want 1", total)
	}
}

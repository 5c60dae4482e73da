package db

import (
	"database/sql"

	"github.com/tgienger/taskflow/internal/models"
)

const taskColumns = `id, project_id, title, description, created_by_user_id,
	assigned_to_user_id, parent_task_id, status, is_completed, created_at, due_at`

// CreateTask inserts a new task and returns the stored row
func (db *DB) CreateTask(t *models.Task) (*models.Task, error) {
	result, err := db.Exec(`
		INSERT INTO tasks (project_id, title, description, created_by_user_id,
			assigned_to_user_id, parent_task_id, status, is_completed, due_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, t.ProjectID, t.Title, t.Description, t.CreatedByUserID,
		t.AssignedToUserID, t.ParentTaskID, string(t.Status), t.IsCompleted, t.DueAt)
	if err != nil {
		return nil, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	return db.GetTask(id)
}

func scanTask(row interface{ Scan(...any) error }) (*models.Task, error) {
	t := &models.Task{}
	var assignee, parent sql.NullInt64
	var status string
	var due sql.NullTime
	err := row.Scan(&t.ID, &t.ProjectID, &t.Title, &t.Description, &t.CreatedByUserID,
		&assignee, &parent, &status, &t.IsCompleted, &t.CreatedAt, &due)
	if err != nil {
		return nil, err
	}
	if assignee.Valid {
		t.AssignedToUserID = &assignee.Int64
	}
	if parent.Valid {
		t.ParentTaskID = &parent.Int64
	}
	if due.Valid {
		t.DueAt = &due.Time
	}
	t.Status = models.TaskStatus(status)
	return t, nil
}

// GetTask retrieves a task by ID
func (db *DB) GetTask(id int64) (*models.Task, error) {
	return scanTask(db.QueryRow("SELECT "+taskColumns+" FROM tasks WHERE id = ?", id))
}

// ListTasksByProject returns a page of a project's tasks, newest first
func (db *DB) ListTasksByProject(projectID int64, offset, limit int) ([]models.Task, error) {
	rows, err := db.Query(`
		SELECT `+taskColumns+` FROM tasks
		WHERE project_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?
	`, projectID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTasks(rows)
}

// ListSubtasks returns the direct children of a task, oldest first
func (db *DB) ListSubtasks(parentTaskID int64) ([]models.Task, error) {
	rows, err := db.Query(`
		SELECT `+taskColumns+` FROM tasks
		WHERE parent_task_id = ?
		ORDER BY created_at ASC, id ASC
	`, parentTaskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTasks(rows)
}

func collectTasks(rows *sql.Rows) ([]models.Task, error) {
	var tasks []models.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

// UpdateTask writes the task's updatable fields. Status and the other
// fields go out in a single statement so a partial update cannot be
// observed. Project, creator and creation time are never touched.
func (db *DB) UpdateTask(t *models.Task) error {
	_, err := db.Exec(`
		UPDATE tasks
		SET title = ?, description = ?, assigned_to_user_id = ?,
			status = ?, is_completed = ?, due_at = ?
		WHERE id = ?
	`, t.Title, t.Description, t.AssignedToUserID,
		string(t.Status), t.IsCompleted, t.DueAt, t.ID)
	return err
}

// DeleteTask deletes a task. The parent_task_id RESTRICT constraint
// makes this fail while subtasks still reference the task.
func (db *DB) DeleteTask(id int64) error {
	_, err := db.Exec("DELETE FROM tasks WHERE id = ?", id)
	return err
}

// SubtaskCount returns the number of direct children of a task
func (db *DB) SubtaskCount(parentTaskID int64) (int, error) {
	var count int
	err := db.QueryRow("SELECT COUNT(*) FROM tasks WHERE parent_task_id = ?", parentTaskID).Scan(&count)
	return count, err
}

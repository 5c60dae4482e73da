package db

import (
	"github.com/tgienger/taskflow/internal/models"
)

// CreateComment creates a new comment on a task
func (db *DB) CreateComment(taskID, authorID int64, content string) (*models.Comment, error) {
	result, err := db.Exec(`
		INSERT INTO comments (task_id, author_id, content) VALUES (?, ?, ?)
	`, taskID, authorID, content)
	if err != nil {
		return nil, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	return db.GetComment(id)
}

// GetComment retrieves a comment by ID
func (db *DB) GetComment(id int64) (*models.Comment, error) {
	c := &models.Comment{}
	err := db.QueryRow(`
		SELECT id, task_id, author_id, content, created_at
		FROM comments WHERE id = ?
	`, id).Scan(&c.ID, &c.TaskID, &c.AuthorID, &c.Content, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// GetTaskComments retrieves all comments for a task, oldest first
func (db *DB) GetTaskComments(taskID int64) ([]models.Comment, error) {
	rows, err := db.Query(`
		SELECT id, task_id, author_id, content, created_at
		FROM comments
		WHERE task_id = ?
		ORDER BY created_at ASC, id ASC
	`, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []models.Comment
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(&c.ID, &c.TaskID, &c.AuthorID, &c.Content, &c.CreatedAt); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

// CommentCount returns the number of comments on a task
func (db *DB) CommentCount(taskID int64) (int, error) {
	var count int
	err := db.QueryRow("SELECT COUNT(*) FROM comments WHERE task_id = ?", taskID).Scan(&count)
	return count, err
}

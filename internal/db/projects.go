package db

import (
	"github.com/tgienger/taskflow/internal/models"
)

// CreateProject creates a new project
func (db *DB) CreateProject(name, description string) (*models.Project, error) {
	result, err := db.Exec(`
		INSERT INTO projects (name, description) VALUES (?, ?)
	`, name, description)
	if err != nil {
		return nil, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	return db.GetProject(id)
}

// GetProject retrieves a project by ID
func (db *DB) GetProject(id int64) (*models.Project, error) {
	p := &models.Project{}
	err := db.QueryRow(`
		SELECT id, name, description, created_at
		FROM projects WHERE id = ?
	`, id).Scan(&p.ID, &p.Name, &p.Description, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// ListProjects returns all projects, newest first
func (db *DB) ListProjects() ([]models.Project, error) {
	rows, err := db.Query(`
		SELECT id, name, description, created_at
		FROM projects ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []models.Project
	for rows.Next() {
		var p models.Project
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.CreatedAt); err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// UpdateProject updates a project's name and description
func (db *DB) UpdateProject(id int64, name, description string) error {
	_, err := db.Exec(`
		UPDATE projects SET name = ?, description = ?
		WHERE id = ?
	`, name, description, id)
	return err
}

// DeleteProject deletes a project and all its tasks. Tasks go
// leaf-first so the subtask RESTRICT constraint never fires mid-way.
func (db *DB) DeleteProject(id int64) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for {
		result, err := tx.Exec(`
			DELETE FROM tasks
			WHERE project_id = ?
			  AND id NOT IN (SELECT parent_task_id FROM tasks WHERE parent_task_id IS NOT NULL)
		`, id)
		if err != nil {
			return err
		}
		n, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			break
		}
	}

	if _, err := tx.Exec("DELETE FROM projects WHERE id = ?", id); err != nil {
		return err
	}
	return tx.Commit()
}

// ProjectCount returns the number of projects
func (db *DB) ProjectCount() (int, error) {
	var count int
	err := db.QueryRow("SELECT COUNT(*) FROM projects").Scan(&count)
	return count, err
}

package db

import (
	"strings"

	"github.com/tgienger/taskflow/internal/models"
)

// ActivityFilter narrows an activity log query. Zero values mean
// "don't filter on this"; Action matches as a substring.
type ActivityFilter struct {
	EntityType string
	EntityID   string
	UserID     *int64
	Action     string
}

// RecordActivity appends an entry to the activity log. The log is
// append-only; there is no update or delete.
func (db *DB) RecordActivity(e *models.ActivityLogEntry) error {
	_, err := db.Exec(`
		INSERT INTO activity_log (user_id, action, entity_type, entity_id, details)
		VALUES (?, ?, ?, ?, ?)
	`, e.UserID, e.Action, e.EntityType, e.EntityID, e.Details)
	return err
}

// ListActivity returns a page of activity entries matching the filter,
// newest first, along with the total match count.
func (db *DB) ListActivity(f ActivityFilter, offset, limit int) ([]models.ActivityLogEntry, int, error) {
	var where []string
	var args []any

	if f.EntityType != "" {
		where = append(where, "entity_type = ?")
		args = append(args, f.EntityType)
	}
	if f.EntityID != "" {
		where = append(where, "entity_id = ?")
		args = append(args, f.EntityID)
	}
	if f.UserID != nil {
		where = append(where, "user_id = ?")
		args = append(args, *f.UserID)
	}
	if f.Action != "" {
		where = append(where, "action LIKE ?")
		args = append(args, "%"+f.Action+"%")
	}

	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := db.QueryRow("SELECT COUNT(*) FROM activity_log"+clause, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := db.Query(`
		SELECT id, user_id, action, entity_type, entity_id, details, timestamp
		FROM activity_log`+clause+`
		ORDER BY timestamp DESC, id DESC
		LIMIT ? OFFSET ?
	`, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var entries []models.ActivityLogEntry
	for rows.Next() {
		var e models.ActivityLogEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.Action, &e.EntityType, &e.EntityID, &e.Details, &e.Timestamp); err != nil {
			return nil, 0, err
		}
		entries = append(entries, e)
	}
	return entries, total, rows.Err()
}

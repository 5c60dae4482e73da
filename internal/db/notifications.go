package db

import (
	"github.com/tgienger/taskflow/internal/models"
)

// CreateNotification adds a message to a user's mailbox, unread
func (db *DB) CreateNotification(userID int64, message string) (*models.Notification, error) {
	result, err := db.Exec(`
		INSERT INTO notifications (user_id, message) VALUES (?, ?)
	`, userID, message)
	if err != nil {
		return nil, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	n := &models.Notification{}
	err = db.QueryRow(`
		SELECT id, user_id, message, read, created_at
		FROM notifications WHERE id = ?
	`, id).Scan(&n.ID, &n.UserID, &n.Message, &n.Read, &n.CreatedAt)
	if err != nil {
		return nil, err
	}
	return n, nil
}

// ListNotifications returns all of a user's notifications, newest first
func (db *DB) ListNotifications(userID int64) ([]models.Notification, error) {
	return db.queryNotifications(`
		SELECT id, user_id, message, read, created_at
		FROM notifications
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC
	`, userID)
}

// ListUnreadNotifications returns a user's unread notifications, newest first
func (db *DB) ListUnreadNotifications(userID int64) ([]models.Notification, error) {
	return db.queryNotifications(`
		SELECT id, user_id, message, read, created_at
		FROM notifications
		WHERE user_id = ? AND read = 0
		ORDER BY created_at DESC, id DESC
	`, userID)
}

func (db *DB) queryNotifications(query string, args ...any) ([]models.Notification, error) {
	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifs []models.Notification
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Message, &n.Read, &n.CreatedAt); err != nil {
			return nil, err
		}
		notifs = append(notifs, n)
	}
	return notifs, rows.Err()
}

// MarkNotificationRead marks a notification read, but only when it
// belongs to userID. A mismatched owner or unknown id is a silent
// no-op so callers cannot probe other users' notification ids.
func (db *DB) MarkNotificationRead(id, userID int64) error {
	_, err := db.Exec(`
		UPDATE notifications SET read = 1 WHERE id = ? AND user_id = ?
	`, id, userID)
	return err
}

// UnreadNotificationCount returns the number of unread notifications
// in a user's mailbox.
func (db *DB) UnreadNotificationCount(userID int64) (int, error) {
	var count int
	err := db.QueryRow(`
		SELECT COUNT(*) FROM notifications WHERE user_id = ? AND read = 0
	`, userID).Scan(&count)
	return count, err
}

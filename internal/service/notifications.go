package service

import (
	"github.com/tgienger/taskflow/internal/models"
)

// Notifications returns all of a user's notifications, newest first
func (s *Service) Notifications(userID int64) ([]models.Notification, error) {
	return s.db.ListNotifications(userID)
}

// UnreadNotifications returns a user's unread notifications, newest first
func (s *Service) UnreadNotifications(userID int64) ([]models.Notification, error) {
	return s.db.ListUnreadNotifications(userID)
}

// MarkNotificationRead marks one of userID's notifications read. A
// notification that does not exist or belongs to someone else is a
// silent no-op, never an error.
func (s *Service) MarkNotificationRead(id, userID int64) error {
	return s.db.MarkNotificationRead(id, userID)
}

// UnreadCount returns the number of unread notifications for a user
func (s *Service) UnreadCount(userID int64) (int, error) {
	return s.db.UnreadNotificationCount(userID)
}

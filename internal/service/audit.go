package service

import (
	"github.com/tgienger/taskflow/internal/db"
	"github.com/tgienger/taskflow/internal/models"
)

// Audit action labels
const (
	ActionTaskCommented          = "Task Commented"
	ActionUserCreated            = "User Created"
	ActionUserProfileUpdated     = "User Profile Updated"
	ActionUserDeleted            = "User Deleted"
	ActionUserRoleChanged        = "User Role Changed"
	ActionUserActivated          = "User Activated"
	ActionUserDeactivated        = "User Deactivated"
	ActionPasswordChanged        = "Password Changed"
	ActionPasswordResetRequested = "Password Reset Requested"
	ActionPasswordReset          = "Password Reset"
)

// Entity type labels used in audit entries
const (
	EntityTask = "Task"
	EntityUser = "User"
)

// Activity returns a page of audit entries matching the filter, newest
// first, plus the total match count for pagination controls.
func (s *Service) Activity(filter db.ActivityFilter, page, pageSize int) ([]models.ActivityLogEntry, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 50
	}
	return s.db.ListActivity(filter, (page-1)*pageSize, pageSize)
}

// audit appends an entry to the activity log as a secondary effect.
// A failure here never unwinds the primary write; it is logged and
// swallowed.
func (s *Service) audit(userID *int64, action, entityType, entityID, details string) {
	err := s.db.RecordActivity(&models.ActivityLogEntry{
		UserID:     userID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Details:    details,
	})
	if err != nil {
		s.log.Warn("audit write failed",
			"action", action, "entity_type", entityType, "entity_id", entityID, "err", err)
	}
}

// notify creates a notification as a secondary effect, with the same
// swallow-and-log policy as audit.
func (s *Service) notify(userID int64, message string) {
	if _, err := s.db.CreateNotification(userID, message); err != nil {
		s.log.Warn("notification write failed", "user_id", userID, "err", err)
	}
}

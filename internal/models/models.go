package models

import "time"

// Role represents a user role, e.g. Admin or Member
type Role struct {
	ID   int64
	Name string
}

// User represents an account in the system
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	FullName     string
	RoleID       int64
	IsActive     bool
	CreatedAt    time.Time
}

// Project groups tasks together
type Project struct {
	ID          int64
	Name        string
	Description string
	CreatedAt   time.Time
}

// Task represents a single unit of trackable work. A task may nest
// under a parent task; ParentTaskID is nil for top-level tasks.
type Task struct {
	ID               int64
	ProjectID        int64
	Title            string
	Description      string
	CreatedByUserID  int64
	AssignedToUserID *int64 // nil if unassigned
	ParentTaskID     *int64 // nil for top-level tasks
	Status           TaskStatus
	IsCompleted      bool
	CreatedAt        time.Time
	DueAt            *time.Time
}

// Comment represents a comment on a task. Comments are immutable
// once created.
type Comment struct {
	ID        int64
	TaskID    int64
	AuthorID  int64
	Content   string
	CreatedAt time.Time
}

// Notification is a short message delivered to a single user's mailbox
type Notification struct {
	ID        int64
	UserID    int64
	Message   string
	Read      bool
	CreatedAt time.Time
}

// ActivityLogEntry is an append-only record of who did what to which
// entity when. UserID is nil for system actions.
type ActivityLogEntry struct {
	ID         int64
	UserID     *int64
	Action     string
	EntityType string
	EntityID   string
	Details    string
	Timestamp  time.Time
}

// PasswordResetToken is a single-use, time-bound credential authorizing
// one password change. Tokens are kept after redemption for history.
type PasswordResetToken struct {
	ID        int64
	UserID    int64
	Token     string
	ExpiresAt time.Time
	Used      bool
	CreatedAt time.Time
}

package service

import "errors"

var (
	// ErrNotFound is returned when a referenced task, user or other
	// entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidTransition is returned when a task status change is
	// not permitted by the transition table.
	ErrInvalidTransition = errors.New("invalid task status transition")

	// ErrInvalidOrExpiredToken is returned for any dead reset token.
	// Missing, already-used and expired tokens are deliberately
	// indistinguishable to the caller.
	ErrInvalidOrExpiredToken = errors.New("invalid or expired token")

	// ErrHasSubtasks is returned when deleting a task that still has
	// children.
	ErrHasSubtasks = errors.New("task has subtasks")
)

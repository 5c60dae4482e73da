package models

import "fmt"

// TaskStatus is the lifecycle state of a task
type TaskStatus string

const (
	StatusTodo       TaskStatus = "todo"
	StatusInProgress TaskStatus = "in_progress"
	StatusDone       TaskStatus = "done"
	StatusBlocked    TaskStatus = "blocked"
	StatusCancelled  TaskStatus = "cancelled"
)

// transitions maps each status to the statuses it may move to.
// Done and Cancelled are terminal; the self-loop below covers
// every status uniformly.
var transitions = map[TaskStatus][]TaskStatus{
	StatusTodo:       {StatusInProgress, StatusCancelled},
	StatusInProgress: {StatusDone, StatusBlocked},
	StatusBlocked:    {StatusInProgress},
}

// CanTransition reports whether a task may move from current to next.
// A "transition" to the same status is always permitted.
func CanTransition(current, next TaskStatus) bool {
	if current == next {
		return true
	}
	for _, allowed := range transitions[current] {
		if next == allowed {
			return true
		}
	}
	return false
}

// Valid reports whether s is one of the known statuses
func (s TaskStatus) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone, StatusBlocked, StatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether s has no outgoing transitions
func (s TaskStatus) Terminal() bool {
	return s == StatusDone || s == StatusCancelled
}

// Label returns the human-readable form of a status
func (s TaskStatus) Label() string {
	switch s {
	case StatusTodo:
		return "Todo"
	case StatusInProgress:
		return "In Progress"
	case StatusDone:
		return "Done"
	case StatusBlocked:
		return "Blocked"
	case StatusCancelled:
		return "Cancelled"
	}
	return string(s)
}

// ParseStatus converts a stored status string back to a TaskStatus
func ParseStatus(s string) (TaskStatus, error) {
	st := TaskStatus(s)
	if !st.Valid() {
		return "", fmt.Errorf("unknown task status %q", s)
	}
	return st, nil
}

// Package service implements the task lifecycle and the orchestration
// of its side effects: every mutating operation persists its primary
// entity first and only then fires notifications and audit entries.
// Secondary effects are best-effort; their failure is logged, never
// rolled back into the primary write.
package service

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/tgienger/taskflow/internal/db"
)

// Service wires the stores together with a logger. All methods are
// request-scoped: they load what they need, mutate, and hold nothing
// between calls.
type Service struct {
	db  *db.DB
	log *log.Logger

	// now is swappable so expiry behavior is testable
	now func() time.Time
}

// New creates a Service over an open database. A nil logger falls
// back to the default logger.
func New(database *db.DB, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.Default()
	}
	return &Service{
		db:  database,
		log: logger,
		now: time.Now,
	}
}

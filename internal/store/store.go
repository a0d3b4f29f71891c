// ABOUTME: Store interfaces and data types for taskboard persistence
// ABOUTME: Defines Task, Draft, the Store handle and the per-interaction Session

package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned when a requested task does not exist
var ErrNotFound = errors.New("task not found")

// ValidationError describes a task field that was rejected before any write.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ErrEmptyTitle is returned when a task title is empty after trimming
var ErrEmptyTitle = &ValidationError{Field: "title", Reason: "title is required"}

// Task is a titled, described, completable unit of work.
type Task struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
}

// Draft holds the caller-supplied fields of a task that does not exist yet.
type Draft struct {
	Title       string
	Description string
}

// Validate reports ErrEmptyTitle when the title is blank.
func (d Draft) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return ErrEmptyTitle
	}
	return nil
}

// Store is the long-lived handle to the task database. Work happens on a
// Session obtained from Acquire, which must be closed when the interaction
// that acquired it ends.
type Store interface {
	Acquire(ctx context.Context) (Session, error)
	Ping(ctx context.Context) error
	Close() error
}

// Session exposes the task operations over a single acquired connection.
type Session interface {
	// ListTasks returns every task ordered by id ascending. Never nil.
	ListTasks(ctx context.Context) ([]*Task, error)

	// CreateTask inserts a pending task and returns it with its assigned id.
	CreateTask(ctx context.Context, title, description string) (*Task, error)

	// CreateTasks validates all drafts and then inserts them atomically,
	// in order. Nothing is written if any draft is invalid.
	CreateTasks(ctx context.Context, drafts []Draft) ([]*Task, error)

	// CompleteTask marks a task completed. Returns ErrNotFound for a
	// missing id. Completing an already completed task is a no-op.
	CompleteTask(ctx context.Context, id int64) (*Task, error)

	// DeleteTask removes a task permanently and returns what was removed.
	// Returns ErrNotFound for a missing id.
	DeleteTask(ctx context.Context, id int64) (*Task, error)

	// Close releases the session back to the store.
	Close() error
}

// validateDrafts returns the first validation failure, annotated with the
// draft's position.
func validateDrafts(drafts []Draft) error {
	for i, d := range drafts {
		if err := d.Validate(); err != nil {
			return fmt.Errorf("draft %d: %w", i, err)
		}
	}
	return nil
}

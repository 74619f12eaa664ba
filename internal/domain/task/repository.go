package task

import (
	"context"
	"time"
)

// Repository defines the persistence contract for tasks.
// Implementations live in infrastructure/persistence.
type Repository interface {
	// Create persists a new task.
	Create(ctx context.Context, t *Task) error

	// GetByID returns a task by ID.
	// Returns shared.ErrTaskNotFound if it does not exist.
	GetByID(ctx context.Context, id string) (*Task, error)

	// Update persists changes to an existing task.
	Update(ctx context.Context, t *Task) error

	// Delete removes a task. The caller is responsible for raising the
	// dirty-range recompute for the task's deadline window.
	Delete(ctx context.Context, id string) error

	// GetByDeadlineRange returns all tasks of a student whose deadline
	// falls in [from, to], ordered by deadline ascending.
	GetByDeadlineRange(ctx context.Context, studentID string, from, to time.Time) ([]*Task, error)

	// GetUncompletedByDeadlineRange is GetByDeadlineRange restricted to
	// uncompleted tasks. Used by the collision detector.
	GetUncompletedByDeadlineRange(ctx context.Context, studentID string, from, to time.Time) ([]*Task, error)
}

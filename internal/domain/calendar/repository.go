package calendar

import (
	"context"
	"time"
)

// Repository defines the persistence contract for calendar events.
type Repository interface {
	// Create persists a new event.
	Create(ctx context.Context, e *Event) error

	// GetByID returns an event by ID.
	// Returns shared.ErrEventNotFound if it does not exist.
	GetByID(ctx context.Context, id string) (*Event, error)

	// Delete removes an event.
	Delete(ctx context.Context, id string) error

	// GetVisibleInRange returns every event that applies to the student
	// (institutional events plus the student's personal events) whose
	// start date falls in [from, to], ordered by start date ascending.
	GetVisibleInRange(ctx context.Context, studentID string, from, to time.Time) ([]*Event, error)
}

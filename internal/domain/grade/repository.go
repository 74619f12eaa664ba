package grade

import (
	"context"
	"time"
)

// Repository defines the persistence contract for grades.
type Repository interface {
	// Create appends a new grade record.
	Create(ctx context.Context, g *Grade) error

	// GetRecent returns the most recent grades of a student across all
	// subjects, ordered by date descending, limited to limit records.
	// Used by the grade analyzer (limit 20) and the decline check.
	GetRecent(ctx context.Context, studentID string, limit int) ([]*Grade, error)

	// GetByDateRange returns the student's grades with date in [from, to],
	// ordered by date ascending. Used by the drift detector.
	GetByDateRange(ctx context.Context, studentID string, from, to time.Time) ([]*Grade, error)
}

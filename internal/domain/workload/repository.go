package workload

import (
	"context"
	"time"
)

// Repository defines the persistence contract for workload scores.
// The (student, day) pair is unique; Upsert overwrites on conflict, which
// gives last-write-wins serialization per day at the store.
type Repository interface {
	// Upsert creates or overwrites the row for (score.StudentID, score.Day).
	Upsert(ctx context.Context, score *Score) error

	// GetByDateRange returns the student's rows with Day in [from, to],
	// ordered by Day ascending.
	GetByDateRange(ctx context.Context, studentID string, from, to time.Time) ([]*Score, error)

	// BroadcastWeeklyScore sets WeeklyScore on every row of the student's
	// given ISO week.
	BroadcastWeeklyScore(ctx context.Context, studentID string, year, week int, weekly float64) error
}

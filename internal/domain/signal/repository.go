package signal

import (
	"context"
)

// Repository defines the persistence contract for signal snapshots.
// Snapshots are append-only; MarkNotified is the single permitted mutation.
type Repository interface {
	// Append persists a new snapshot.
	Append(ctx context.Context, s *Signal) error

	// GetLatest returns the student's most recent snapshot.
	// Returns shared.ErrSignalNotFound when the student has none.
	GetLatest(ctx context.Context, studentID string) (*Signal, error)

	// GetHistory returns the student's most recent snapshots, newest
	// first, limited to limit records.
	GetHistory(ctx context.Context, studentID string, limit int) ([]*Signal, error)

	// MarkNotified flips the notified flag of a snapshot.
	MarkNotified(ctx context.Context, id string) error
}

// Cache is a read-through cache for the latest snapshot. Dashboard queries
// may serve from it; the task admission path always reads the repository.
type Cache interface {
	// GetLatest returns the cached snapshot, or shared.ErrCacheMiss.
	GetLatest(ctx context.Context, studentID string) (*Signal, error)

	// SetLatest stores the snapshot under the student's key.
	SetLatest(ctx context.Context, s *Signal) error

	// Invalidate drops the cached snapshot for the student.
	Invalidate(ctx context.Context, studentID string) error
}

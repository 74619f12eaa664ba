// Package postgres implements the PostgreSQL persistence layer for StudyPulse.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/studypulse/studypulse/internal/domain/workload"

	"github.com/jackc/pgx/v5"
)

// ══════════════════════════════════════════════════════════════════════════════
// WORKLOAD SCORE REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// WorkloadRepository implements workload.Repository for PostgreSQL.
type WorkloadRepository struct {
	conn *Connection
}

// NewWorkloadRepository creates a new WorkloadRepository.
func NewWorkloadRepository(conn *Connection) *WorkloadRepository {
	return &WorkloadRepository{conn: conn}
}

// Upsert writes a daily row, replacing any existing row for the same
// (student, day). Last write wins; the scorer is the single writer.
func (r *WorkloadRepository) Upsert(ctx context.Context, s *workload.Score) error {
	query := `
		INSERT INTO workload_scores (
			id, student_id, score_date, task_score, event_score, daily_score,
			task_count, event_count, weekly_score, week_number, year, calculated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (student_id, score_date) DO UPDATE SET
			task_score = EXCLUDED.task_score,
			event_score = EXCLUDED.event_score,
			daily_score = EXCLUDED.daily_score,
			task_count = EXCLUDED.task_count,
			event_count = EXCLUDED.event_count,
			weekly_score = EXCLUDED.weekly_score,
			week_number = EXCLUDED.week_number,
			year = EXCLUDED.year,
			calculated_at = EXCLUDED.calculated_at
	`

	_, err := r.conn.Exec(ctx, query,
		s.ID,
		s.StudentID,
		s.Day,
		s.TaskScore,
		s.EventScore,
		s.DailyScore,
		s.TaskCount,
		s.EventCount,
		s.WeeklyScore,
		s.WeekNumber,
		s.Year,
		s.CalculatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert workload score: %w", err)
	}

	return nil
}

// GetByDateRange returns the student's daily rows in [from, to],
// oldest first.
func (r *WorkloadRepository) GetByDateRange(ctx context.Context, studentID string, from, to time.Time) ([]*workload.Score, error) {
	query := `
		SELECT id, student_id, score_date, task_score, event_score, daily_score,
			   task_count, event_count, weekly_score, week_number, year, calculated_at
		FROM workload_scores
		WHERE student_id = $1 AND score_date >= $2 AND score_date <= $3
		ORDER BY score_date
	`

	rows, err := r.conn.Query(ctx, query, studentID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query workload scores: %w", err)
	}
	defer rows.Close()

	var scores []*workload.Score
	for rows.Next() {
		s, err := r.scanScore(rows)
		if err != nil {
			return nil, err
		}
		scores = append(scores, s)
	}

	return scores, rows.Err()
}

// BroadcastWeeklyScore writes the weekly sum onto every row of the ISO week,
// keeping the denormalized weekly_score identical across the week.
func (r *WorkloadRepository) BroadcastWeeklyScore(ctx context.Context, studentID string, year, week int, weekly float64) error {
	query := `
		UPDATE workload_scores
		SET weekly_score = $4
		WHERE student_id = $1 AND year = $2 AND week_number = $3
	`

	_, err := r.conn.Exec(ctx, query, studentID, year, week, weekly)
	if err != nil {
		return fmt.Errorf("failed to broadcast weekly score: %w", err)
	}

	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Scanning
// ─────────────────────────────────────────────────────────────────────────────

func (r *WorkloadRepository) scanScore(row pgx.Row) (*workload.Score, error) {
	var s workload.Score

	err := row.Scan(
		&s.ID,
		&s.StudentID,
		&s.Day,
		&s.TaskScore,
		&s.EventScore,
		&s.DailyScore,
		&s.TaskCount,
		&s.EventCount,
		&s.WeeklyScore,
		&s.WeekNumber,
		&s.Year,
		&s.CalculatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &s, nil
}

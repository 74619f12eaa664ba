// Package postgres implements the PostgreSQL persistence layer for StudyPulse.
package postgres

import (
	"context"
	"fmt"

	"github.com/studypulse/studypulse/internal/domain/shared"
	"github.com/studypulse/studypulse/internal/domain/signal"

	"github.com/jackc/pgx/v5"
)

// ══════════════════════════════════════════════════════════════════════════════
// SIGNAL REPOSITORY IMPLEMENTATION
// Журнал предсказаний append-only: UPDATE разрешён только для notified.
// ══════════════════════════════════════════════════════════════════════════════

// SignalRepository implements signal.Repository for PostgreSQL.
type SignalRepository struct {
	conn *Connection
}

// NewSignalRepository creates a new SignalRepository.
func NewSignalRepository(conn *Connection) *SignalRepository {
	return &SignalRepository{conn: conn}
}

const signalColumns = `
	id, student_id, predicted_at,
	collision_flag, colliding_task_ids,
	volatility_flag, volatility_severity, spike_percentage,
	recovery_deficit_flag, continuous_work_streak,
	performance_drift_flag, drift_severity,
	grade_risk_flag, grade_risk_score, avg_grade,
	burnout_score, burnout_risk, reason_codes, notified, created_at
`

// Append persists a new snapshot.
func (r *SignalRepository) Append(ctx context.Context, s *signal.Signal) error {
	query := `
		INSERT INTO signals (
			id, student_id, predicted_at,
			collision_flag, colliding_task_ids,
			volatility_flag, volatility_severity, spike_percentage,
			recovery_deficit_flag, continuous_work_streak,
			performance_drift_flag, drift_severity,
			grade_risk_flag, grade_risk_score, avg_grade,
			burnout_score, burnout_risk, reason_codes, notified, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
				  $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
	`

	_, err := r.conn.Exec(ctx, query,
		s.ID,
		s.StudentID,
		s.Date,
		s.CollisionFlag,
		s.CollidingTaskIDs,
		s.VolatilityFlag,
		string(s.VolatilitySeverity),
		s.SpikePercentage,
		s.RecoveryDeficitFlag,
		s.ContinuousWorkStreak,
		s.PerformanceDriftFlag,
		string(s.DriftSeverity),
		s.GradeRiskFlag,
		s.GradeRiskScore,
		s.AvgGrade,
		s.BurnoutScore,
		string(s.BurnoutRisk),
		s.ReasonCodes,
		s.Notified,
		s.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to append signal: %w", err)
	}

	return nil
}

// GetLatest returns the student's most recent snapshot.
func (r *SignalRepository) GetLatest(ctx context.Context, studentID string) (*signal.Signal, error) {
	query := `
		SELECT ` + signalColumns + `
		FROM signals
		WHERE student_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`

	s, err := r.scanSignal(r.conn.QueryRow(ctx, query, studentID))
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrSignalNotFound
		}
		return nil, err
	}
	return s, nil
}

// GetHistory returns the student's most recent snapshots, newest first.
func (r *SignalRepository) GetHistory(ctx context.Context, studentID string, limit int) ([]*signal.Signal, error) {
	query := `
		SELECT ` + signalColumns + `
		FROM signals
		WHERE student_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.conn.Query(ctx, query, studentID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query signals: %w", err)
	}
	defer rows.Close()

	var signals []*signal.Signal
	for rows.Next() {
		s, err := r.scanSignal(rows)
		if err != nil {
			return nil, err
		}
		signals = append(signals, s)
	}

	return signals, rows.Err()
}

// MarkNotified flips the notified flag of a snapshot.
func (r *SignalRepository) MarkNotified(ctx context.Context, id string) error {
	tag, err := r.conn.Exec(ctx, `UPDATE signals SET notified = TRUE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to mark signal notified: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrSignalNotFound
	}

	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Scanning
// ─────────────────────────────────────────────────────────────────────────────

func (r *SignalRepository) scanSignal(row pgx.Row) (*signal.Signal, error) {
	var (
		s        signal.Signal
		severity string
		drift    string
		risk     string
	)

	err := row.Scan(
		&s.ID,
		&s.StudentID,
		&s.Date,
		&s.CollisionFlag,
		&s.CollidingTaskIDs,
		&s.VolatilityFlag,
		&severity,
		&s.SpikePercentage,
		&s.RecoveryDeficitFlag,
		&s.ContinuousWorkStreak,
		&s.PerformanceDriftFlag,
		&drift,
		&s.GradeRiskFlag,
		&s.GradeRiskScore,
		&s.AvgGrade,
		&s.BurnoutScore,
		&risk,
		&s.ReasonCodes,
		&s.Notified,
		&s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	s.VolatilitySeverity = signal.Severity(severity)
	s.DriftSeverity = signal.DriftSeverity(drift)
	s.BurnoutRisk = signal.Risk(risk)
	return &s, nil
}

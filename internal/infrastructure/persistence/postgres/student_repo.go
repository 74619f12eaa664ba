// Package postgres implements the PostgreSQL persistence layer for StudyPulse.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/studypulse/studypulse/internal/domain/shared"
	"github.com/studypulse/studypulse/internal/domain/student"

	"github.com/jackc/pgx/v5"
)

// ══════════════════════════════════════════════════════════════════════════════
// STUDENT REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// StudentRepository implements student.Repository for PostgreSQL.
type StudentRepository struct {
	conn *Connection
}

// NewStudentRepository creates a new StudentRepository.
func NewStudentRepository(conn *Connection) *StudentRepository {
	return &StudentRepository{conn: conn}
}

const studentColumns = `
	id, name, email, role, roll_number, department, semester, is_active,
	normal_weekly_load, max_weekly_load, baseline_samples, baseline_updated_at,
	created_at, updated_at
`

// Create creates a new student.
func (r *StudentRepository) Create(ctx context.Context, s *student.Student) error {
	query := `
		INSERT INTO students (
			id, name, email, role, roll_number, department, semester, is_active,
			normal_weekly_load, max_weekly_load, baseline_samples, baseline_updated_at,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	var baselineAt interface{}
	if !s.Thresholds.UpdatedAt.IsZero() {
		baselineAt = s.Thresholds.UpdatedAt
	}

	_, err := r.conn.Exec(ctx, query,
		s.ID,
		s.Name,
		s.Email,
		string(s.Role),
		string(s.RollNumber),
		s.Department,
		s.Semester,
		s.IsActive,
		s.Thresholds.NormalWeeklyLoad,
		s.Thresholds.MaxWeeklyLoad,
		s.Thresholds.SampleCount,
		baselineAt,
		s.CreatedAt,
		s.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return shared.ErrStudentAlreadyExists
		}
		return fmt.Errorf("failed to create student: %w", err)
	}

	return nil
}

// GetByID returns a student by internal ID.
func (r *StudentRepository) GetByID(ctx context.Context, id string) (*student.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE id = $1`

	row := r.conn.QueryRow(ctx, query, id)
	return r.scanStudent(row)
}

// GetActiveStudents returns every active student, ordered by roll number.
// The nightly batch iterates this set.
func (r *StudentRepository) GetActiveStudents(ctx context.Context) ([]*student.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE is_active ORDER BY roll_number`

	rows, err := r.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query active students: %w", err)
	}
	defer rows.Close()

	var students []*student.Student
	for rows.Next() {
		s, err := r.scanStudentRow(rows)
		if err != nil {
			return nil, err
		}
		students = append(students, s)
	}

	return students, rows.Err()
}

// UpdateThresholds persists a recomputed personal baseline.
func (r *StudentRepository) UpdateThresholds(ctx context.Context, id string, t student.PersonalThreshold) error {
	query := `
		UPDATE students
		SET normal_weekly_load = $2,
			max_weekly_load = $3,
			baseline_samples = $4,
			baseline_updated_at = $5,
			updated_at = NOW()
		WHERE id = $1
	`

	tag, err := r.conn.Exec(ctx, query,
		id,
		t.NormalWeeklyLoad,
		t.MaxWeeklyLoad,
		t.SampleCount,
		t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update thresholds: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrStudentNotFound
	}

	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Scanning
// ─────────────────────────────────────────────────────────────────────────────

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *StudentRepository) scanStudent(row pgx.Row) (*student.Student, error) {
	s, err := r.scanStudentRow(row)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrStudentNotFound
		}
		return nil, err
	}
	return s, nil
}

func (r *StudentRepository) scanStudentRow(row rowScanner) (*student.Student, error) {
	var (
		s          student.Student
		role       string
		rollNumber string
		baselineAt *time.Time
	)

	err := row.Scan(
		&s.ID,
		&s.Name,
		&s.Email,
		&role,
		&rollNumber,
		&s.Department,
		&s.Semester,
		&s.IsActive,
		&s.Thresholds.NormalWeeklyLoad,
		&s.Thresholds.MaxWeeklyLoad,
		&s.Thresholds.SampleCount,
		&baselineAt,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	s.Role = student.Role(role)
	s.RollNumber = student.RollNumber(rollNumber)
	if baselineAt != nil {
		s.Thresholds.UpdatedAt = *baselineAt
	}

	return &s, nil
}

// Package postgres implements the PostgreSQL persistence layer for StudyPulse.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/studypulse/studypulse/internal/domain/grade"

	"github.com/jackc/pgx/v5"
)

// ══════════════════════════════════════════════════════════════════════════════
// GRADE REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// GradeRepository implements grade.Repository for PostgreSQL.
type GradeRepository struct {
	conn *Connection
}

// NewGradeRepository creates a new GradeRepository.
func NewGradeRepository(conn *Connection) *GradeRepository {
	return &GradeRepository{conn: conn}
}

const gradeColumns = `
	id, student_id, subject, exam_type, marks, max_marks,
	percentage, exam_date, semester, created_at
`

// Create appends a grade.
func (r *GradeRepository) Create(ctx context.Context, g *grade.Grade) error {
	query := `
		INSERT INTO grades (
			id, student_id, subject, exam_type, marks, max_marks,
			percentage, exam_date, semester, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.conn.Exec(ctx, query,
		g.ID,
		g.StudentID,
		g.Subject,
		string(g.ExamType),
		g.Marks,
		g.MaxMarks,
		g.Percentage,
		g.Date,
		g.Semester,
		g.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create grade: %w", err)
	}

	return nil
}

// GetRecent returns the student's most recent grades, newest exam first.
func (r *GradeRepository) GetRecent(ctx context.Context, studentID string, limit int) ([]*grade.Grade, error) {
	query := `
		SELECT ` + gradeColumns + `
		FROM grades
		WHERE student_id = $1
		ORDER BY exam_date DESC
		LIMIT $2
	`

	return r.queryGrades(ctx, query, studentID, limit)
}

// GetByDateRange returns grades with exam dates in [from, to], oldest first.
func (r *GradeRepository) GetByDateRange(ctx context.Context, studentID string, from, to time.Time) ([]*grade.Grade, error) {
	query := `
		SELECT ` + gradeColumns + `
		FROM grades
		WHERE student_id = $1 AND exam_date >= $2 AND exam_date <= $3
		ORDER BY exam_date
	`

	return r.queryGrades(ctx, query, studentID, from, to)
}

// ─────────────────────────────────────────────────────────────────────────────
// Scanning
// ─────────────────────────────────────────────────────────────────────────────

func (r *GradeRepository) queryGrades(ctx context.Context, query string, args ...interface{}) ([]*grade.Grade, error) {
	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query grades: %w", err)
	}
	defer rows.Close()

	var grades []*grade.Grade
	for rows.Next() {
		g, err := r.scanGrade(rows)
		if err != nil {
			return nil, err
		}
		grades = append(grades, g)
	}

	return grades, rows.Err()
}

func (r *GradeRepository) scanGrade(row pgx.Row) (*grade.Grade, error) {
	var (
		g        grade.Grade
		examType string
	)

	err := row.Scan(
		&g.ID,
		&g.StudentID,
		&g.Subject,
		&examType,
		&g.Marks,
		&g.MaxMarks,
		&g.Percentage,
		&g.Date,
		&g.Semester,
		&g.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	g.ExamType = grade.ExamType(examType)
	return &g, nil
}

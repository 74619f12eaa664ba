// Package grade contains the grade domain model: academic results owned by
// a student. Grades are append-only in practice; the percentage is derived
// from marks at record time and treated as immutable afterwards.
package grade

import (
	"math"
	"strings"
	"time"

	"github.com/studypulse/studypulse/internal/domain/shared"
)

// ExamType classifies the assessment a grade came from.
type ExamType string

const (
	ExamCAT1          ExamType = "cat1"
	ExamCAT2          ExamType = "cat2"
	ExamMidTerm       ExamType = "mid-term"
	ExamFinal         ExamType = "final"
	ExamQuiz          ExamType = "quiz"
	ExamAssignment    ExamType = "assignment"
	ExamCourseProject ExamType = "course-project"
)

// ParseExamType normalizes a raw string into an exam type.
func ParseExamType(raw string) ExamType {
	return ExamType(strings.ToLower(strings.TrimSpace(raw)))
}

// Grade represents one recorded academic result.
type Grade struct {
	// ID is the internal UUID of the grade.
	ID string

	// StudentID is the owning student.
	StudentID string

	// Subject is the course the grade belongs to.
	Subject string

	// ExamType classifies the assessment.
	ExamType ExamType

	// Marks scored out of MaxMarks.
	Marks    float64
	MaxMarks float64

	// Percentage is derived from Marks/MaxMarks at record time (0-100).
	Percentage float64

	// Date the assessment took place.
	Date time.Time

	// Semester the grade belongs to (optional, 0 = unset).
	Semester int

	CreatedAt time.Time
}

// Validate checks the grade invariants.
func (g *Grade) Validate() error {
	if g.StudentID == "" {
		return shared.NewDomainError("grade", "Validate", shared.ErrEmptyValue, "student ID is required")
	}
	if g.Subject == "" {
		return shared.NewDomainError("grade", "Validate", shared.ErrEmptyValue, "subject is required")
	}
	if g.MaxMarks <= 0 {
		return shared.ErrInvalidMaxMarks
	}
	if g.Marks < 0 || g.Marks > g.MaxMarks {
		return shared.ErrInvalidMarks
	}
	if g.Date.IsZero() {
		return shared.NewDomainError("grade", "Validate", shared.ErrEmptyValue, "grade date is required")
	}
	return nil
}

// DerivePercentage computes and stores the percentage from marks,
// rounded to one decimal place.
func (g *Grade) DerivePercentage() {
	g.Percentage = math.Round(g.Marks/g.MaxMarks*1000) / 10
}

// IsStruggling reports whether the grade is below the struggling cutoff.
func (g *Grade) IsStruggling(cutoff float64) bool {
	return g.Percentage < cutoff
}

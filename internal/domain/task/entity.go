// Package task contains the task domain model: deadline-bound units of work
// owned by a single student. Task weight is derived from its type via the
// configured weight table, never supplied by the user.
package task

import (
	"strings"
	"time"

	"github.com/studypulse/studypulse/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// TASK TYPE
// ══════════════════════════════════════════════════════════════════════════════

// Type classifies a task. The type drives the workload weight and the
// admission policy's notion of a "major" task.
type Type string

const (
	TypeExam       Type = "exam"
	TypeProject    Type = "project"
	TypeAssignment Type = "assignment"
	TypeQuiz       Type = "quiz"
	TypePlacement  Type = "placement"
	TypeHackathon  Type = "hackathon"
	TypeOther      Type = "other"
)

// ParseType normalizes a raw string into a task type.
// Unknown values map to TypeOther so the default weight applies.
func ParseType(raw string) Type {
	t := Type(strings.ToLower(strings.TrimSpace(raw)))
	switch t {
	case TypeExam, TypeProject, TypeAssignment, TypeQuiz, TypePlacement, TypeHackathon:
		return t
	default:
		return TypeOther
	}
}

// IsValid checks that the type is one of the known values.
func (t Type) IsValid() bool {
	switch t {
	case TypeExam, TypeProject, TypeAssignment, TypeQuiz, TypePlacement, TypeHackathon, TypeOther:
		return true
	default:
		return false
	}
}

// IsMajor reports whether the task type is a major commitment.
// Exams and projects are treated specially by both the collision
// detector and the admission gate.
func (t Type) IsMajor() bool {
	return t == TypeExam || t == TypeProject
}

// String returns the string representation.
func (t Type) String() string {
	return string(t)
}

// ══════════════════════════════════════════════════════════════════════════════
// ENTITY
// ══════════════════════════════════════════════════════════════════════════════

// Task represents one deadline-bound unit of work owned by a student.
type Task struct {
	// ID is the internal UUID of the task.
	ID string

	// StudentID is the owning student. Tasks are never shared.
	StudentID string

	// Title is a short human-readable name.
	Title string

	// Type classifies the task and determines its weight.
	Type Type

	// Subject is the course or subject the task belongs to.
	Subject string

	// Deadline is the date the task is due. Workload is bucketed by it.
	Deadline time.Time

	// EstimatedEffort is the expected effort in hours (> 0).
	EstimatedEffort float64

	// Weight is derived from Type at creation time via the configured
	// weight table. Stored so historical rows keep the weight they were
	// scored with even if the table changes.
	Weight float64

	// Completed marks the task done. Completed tasks stop counting
	// toward collision detection.
	Completed bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks the task invariants.
func (t *Task) Validate() error {
	if t.StudentID == "" {
		return shared.NewDomainError("task", "Validate", shared.ErrEmptyValue, "student ID is required")
	}
	if !t.Type.IsValid() {
		return shared.ErrInvalidTaskType
	}
	if t.Deadline.IsZero() {
		return shared.ErrMissingDeadline
	}
	if t.EstimatedEffort <= 0 {
		return shared.ErrInvalidEffort
	}
	return nil
}

// WeightedEffort returns the effort scaled by the task weight.
// This is the task's contribution to the daily workload score.
func (t *Task) WeightedEffort() float64 {
	return t.EstimatedEffort * t.Weight
}

// Complete marks the task as completed.
func (t *Task) Complete(at time.Time) {
	t.Completed = true
	t.UpdatedAt = at
}

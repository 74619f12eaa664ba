package command

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/studypulse/studypulse/internal/domain/grade"
	"github.com/studypulse/studypulse/internal/domain/shared"
	"github.com/studypulse/studypulse/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// RECORD GRADE COMMAND
// ══════════════════════════════════════════════════════════════════════════════

// RecordGradeCommand records an exam or assignment grade for a student.
type RecordGradeCommand struct {
	// StudentID is the internal ID of the student.
	StudentID string

	// Subject is the course the grade belongs to.
	Subject string

	// ExamType is the raw exam type string (cat1, mid-term, final, ...).
	ExamType string

	// Marks is the obtained score.
	Marks float64

	// MaxMarks is the maximum possible score.
	MaxMarks float64

	// Date is when the exam took place (defaults to now if zero).
	Date time.Time

	// Semester the grade belongs to.
	Semester int
}

// Validate validates the command.
func (c RecordGradeCommand) Validate() error {
	if c.StudentID == "" {
		return errors.New("record_grade: student_id is required")
	}
	if strings.TrimSpace(c.Subject) == "" {
		return errors.New("record_grade: subject is required")
	}
	if c.MaxMarks <= 0 {
		return shared.ErrInvalidMaxMarks
	}
	if c.Marks < 0 || c.Marks > c.MaxMarks {
		return shared.ErrInvalidMarks
	}
	return nil
}

// RecordGradeResult contains the recorded grade.
type RecordGradeResult struct {
	// Grade is the persisted grade with the derived percentage.
	Grade *grade.Grade

	// RecordedAt is when the grade was appended.
	RecordedAt time.Time
}

// RecordGradeHandler handles the RecordGradeCommand.
type RecordGradeHandler struct {
	grades         grade.Repository
	eventPublisher shared.EventPublisher
	logger         *slog.Logger
}

// NewRecordGradeHandler creates a new RecordGradeHandler.
func NewRecordGradeHandler(grades grade.Repository, eventPublisher shared.EventPublisher, logger *slog.Logger) *RecordGradeHandler {
	if eventPublisher == nil {
		eventPublisher = shared.NoopPublisher{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RecordGradeHandler{
		grades:         grades,
		eventPublisher: eventPublisher,
		logger:         logger,
	}
}

// Handle validates, derives the percentage and appends the grade.
func (h *RecordGradeHandler) Handle(ctx context.Context, cmd RecordGradeCommand) (*RecordGradeResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("record_grade: validation failed: %w", err)
	}

	date := cmd.Date
	if date.IsZero() {
		date = timeutil.Now()
	}

	g := &grade.Grade{
		ID:        uuid.NewString(),
		StudentID: cmd.StudentID,
		Subject:   strings.TrimSpace(cmd.Subject),
		ExamType:  grade.ParseExamType(cmd.ExamType),
		Marks:     cmd.Marks,
		MaxMarks:  cmd.MaxMarks,
		Date:      date,
		Semester:  cmd.Semester,
		CreatedAt: timeutil.Now(),
	}
	g.DerivePercentage()
	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("record_grade: %w", err)
	}

	if err := h.grades.Create(ctx, g); err != nil {
		return nil, fmt.Errorf("record_grade: create: %w", err)
	}

	h.eventPublisher.Publish(shared.NewBaseEvent(shared.EventGradeRecorded, cmd.StudentID))

	h.logger.Debug("grade recorded",
		slog.String("student_id", cmd.StudentID),
		slog.String("subject", g.Subject),
		slog.Float64("percentage", g.Percentage),
	)

	return &RecordGradeResult{Grade: g, RecordedAt: g.CreatedAt}, nil
}

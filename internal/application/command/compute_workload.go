// Package command contains write operations (CQRS - Commands).
package command

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/studypulse/studypulse/internal/domain/shared"
	"github.com/studypulse/studypulse/internal/domain/workload"
	"github.com/studypulse/studypulse/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// COMPUTE WORKLOAD COMMAND
// Пересчитывает дневные и недельные оценки нагрузки студента за период.
// Это единственная точка входа для пересчёта: планировщик, создание задач
// и удаление задач - все проходят через эту команду.
// ══════════════════════════════════════════════════════════════════════════════

// ComputeWorkloadCommand contains parameters for a workload recomputation.
type ComputeWorkloadCommand struct {
	// StudentID is the internal ID of the student.
	StudentID string

	// From is the first day of the range (inclusive).
	From time.Time

	// To is the last day of the range (inclusive).
	To time.Time

	// Reason describes what triggered the recompute (for logging).
	Reason string
}

// Validate validates the command.
func (c ComputeWorkloadCommand) Validate() error {
	if c.StudentID == "" {
		return errors.New("compute_workload: student_id is required")
	}
	if c.From.IsZero() || c.To.IsZero() {
		return errors.New("compute_workload: from and to are required")
	}
	if c.To.Before(c.From) {
		return shared.ErrInvalidDateRange
	}
	return nil
}

// ComputeWorkloadResult contains the result of a recomputation.
type ComputeWorkloadResult struct {
	// StudentID is the internal ID of the student.
	StudentID string

	// DaysComputed is the number of daily rows written (including zero days).
	DaysComputed int

	// WeeksTouched is the number of ISO weeks whose weekly score was refreshed.
	WeeksTouched int

	// ComputedAt is when the recomputation finished.
	ComputedAt time.Time
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// ComputeWorkloadHandler handles the ComputeWorkloadCommand.
type ComputeWorkloadHandler struct {
	scorer         *workload.Scorer
	eventPublisher shared.EventPublisher
	logger         *slog.Logger
}

// NewComputeWorkloadHandler creates a new ComputeWorkloadHandler.
func NewComputeWorkloadHandler(
	scorer *workload.Scorer,
	eventPublisher shared.EventPublisher,
	logger *slog.Logger,
) *ComputeWorkloadHandler {
	if eventPublisher == nil {
		eventPublisher = shared.NoopPublisher{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ComputeWorkloadHandler{
		scorer:         scorer,
		eventPublisher: eventPublisher,
		logger:         logger,
	}
}

// Handle executes the recompute command.
func (h *ComputeWorkloadHandler) Handle(ctx context.Context, cmd ComputeWorkloadCommand) (*ComputeWorkloadResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("compute_workload: validation failed: %w", err)
	}

	summary, err := h.scorer.Compute(ctx, cmd.StudentID, cmd.From, cmd.To)
	if err != nil {
		return nil, fmt.Errorf("compute_workload: %w", err)
	}

	h.eventPublisher.Publish(shared.NewWorkloadDirtyRange(cmd.StudentID, cmd.From, cmd.To))

	h.logger.Info("workload recomputed",
		slog.String("student_id", cmd.StudentID),
		slog.String("from", timeutil.DayKey(cmd.From)),
		slog.String("to", timeutil.DayKey(cmd.To)),
		slog.Int("days", summary.DaysComputed),
		slog.Int("weeks", summary.WeeksTouched),
		slog.String("reason", cmd.Reason),
	)

	return &ComputeWorkloadResult{
		StudentID:    cmd.StudentID,
		DaysComputed: summary.DaysComputed,
		WeeksTouched: summary.WeeksTouched,
		ComputedAt:   timeutil.Now(),
	}, nil
}

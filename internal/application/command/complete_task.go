package command

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/studypulse/studypulse/internal/domain/shared"
	"github.com/studypulse/studypulse/internal/domain/task"
	"github.com/studypulse/studypulse/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// COMPLETE TASK COMMAND
// ══════════════════════════════════════════════════════════════════════════════

// CompleteTaskCommand marks a task as completed.
type CompleteTaskCommand struct {
	// StudentID is the internal ID of the student who owns the task.
	StudentID string

	// TaskID is the ID of the task to complete.
	TaskID string
}

// Validate validates the command.
func (c CompleteTaskCommand) Validate() error {
	if c.StudentID == "" {
		return errors.New("complete_task: student_id is required")
	}
	if c.TaskID == "" {
		return errors.New("complete_task: task_id is required")
	}
	return nil
}

// CompleteTaskResult contains the result of the completion.
type CompleteTaskResult struct {
	// Task is the task after completion.
	Task *task.Task

	// CompletedAt is when the task was marked complete.
	CompletedAt time.Time
}

// CompleteTaskHandler handles the CompleteTaskCommand.
type CompleteTaskHandler struct {
	tasks          task.Repository
	recompute      *ComputeWorkloadHandler
	eventPublisher shared.EventPublisher
	logger         *slog.Logger
}

// NewCompleteTaskHandler creates a new CompleteTaskHandler.
func NewCompleteTaskHandler(
	tasks task.Repository,
	recompute *ComputeWorkloadHandler,
	eventPublisher shared.EventPublisher,
	logger *slog.Logger,
) *CompleteTaskHandler {
	if eventPublisher == nil {
		eventPublisher = shared.NoopPublisher{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CompleteTaskHandler{
		tasks:          tasks,
		recompute:      recompute,
		eventPublisher: eventPublisher,
		logger:         logger,
	}
}

// Handle marks the task completed and refreshes the workload window around
// its deadline. Completed tasks stop counting toward collision pressure but
// stay in the workload history.
func (h *CompleteTaskHandler) Handle(ctx context.Context, cmd CompleteTaskCommand) (*CompleteTaskResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("complete_task: validation failed: %w", err)
	}

	t, err := h.tasks.GetByID(ctx, cmd.TaskID)
	if err != nil {
		return nil, fmt.Errorf("complete_task: %w", err)
	}
	if t.StudentID != cmd.StudentID {
		return nil, shared.ErrTaskNotFound
	}

	now := timeutil.Now()
	t.Complete(now)
	if err := h.tasks.Update(ctx, t); err != nil {
		return nil, fmt.Errorf("complete_task: update: %w", err)
	}

	h.eventPublisher.Publish(shared.NewBaseEvent(shared.EventTaskCompleted, cmd.StudentID))

	if _, err := h.recompute.Handle(ctx, ComputeWorkloadCommand{
		StudentID: cmd.StudentID,
		From:      timeutil.AddDays(t.Deadline, -deadlineRecomputeDays),
		To:        timeutil.AddDays(t.Deadline, deadlineRecomputeDays),
		Reason:    "task_completed",
	}); err != nil {
		h.logger.Error("post-completion workload recompute failed",
			slog.String("student_id", cmd.StudentID),
			slog.String("task_id", t.ID),
			slog.String("error", err.Error()),
		)
	}

	return &CompleteTaskResult{Task: t, CompletedAt: now}, nil
}

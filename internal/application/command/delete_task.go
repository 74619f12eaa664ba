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
// DELETE TASK COMMAND
// ══════════════════════════════════════════════════════════════════════════════

// DeleteTaskCommand removes a task.
type DeleteTaskCommand struct {
	// StudentID is the internal ID of the student who owns the task.
	StudentID string

	// TaskID is the ID of the task to delete.
	TaskID string
}

// Validate validates the command.
func (c DeleteTaskCommand) Validate() error {
	if c.StudentID == "" {
		return errors.New("delete_task: student_id is required")
	}
	if c.TaskID == "" {
		return errors.New("delete_task: task_id is required")
	}
	return nil
}

// DeleteTaskResult contains the result of the deletion.
type DeleteTaskResult struct {
	// TaskID is the ID of the removed task.
	TaskID string

	// DeletedAt is when the task was removed.
	DeletedAt time.Time
}

// DeleteTaskHandler handles the DeleteTaskCommand.
type DeleteTaskHandler struct {
	tasks          task.Repository
	recompute      *ComputeWorkloadHandler
	eventPublisher shared.EventPublisher
	logger         *slog.Logger
}

// NewDeleteTaskHandler creates a new DeleteTaskHandler.
func NewDeleteTaskHandler(
	tasks task.Repository,
	recompute *ComputeWorkloadHandler,
	eventPublisher shared.EventPublisher,
	logger *slog.Logger,
) *DeleteTaskHandler {
	if eventPublisher == nil {
		eventPublisher = shared.NoopPublisher{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &DeleteTaskHandler{
		tasks:          tasks,
		recompute:      recompute,
		eventPublisher: eventPublisher,
		logger:         logger,
	}
}

// Handle deletes the task and recomputes the window around its old deadline,
// which zeroes out days that held only this task.
func (h *DeleteTaskHandler) Handle(ctx context.Context, cmd DeleteTaskCommand) (*DeleteTaskResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("delete_task: validation failed: %w", err)
	}

	t, err := h.tasks.GetByID(ctx, cmd.TaskID)
	if err != nil {
		return nil, fmt.Errorf("delete_task: %w", err)
	}
	if t.StudentID != cmd.StudentID {
		return nil, shared.ErrTaskNotFound
	}

	if err := h.tasks.Delete(ctx, cmd.TaskID); err != nil {
		return nil, fmt.Errorf("delete_task: delete: %w", err)
	}

	h.eventPublisher.Publish(shared.NewBaseEvent(shared.EventTaskDeleted, cmd.StudentID))

	if _, err := h.recompute.Handle(ctx, ComputeWorkloadCommand{
		StudentID: cmd.StudentID,
		From:      timeutil.AddDays(t.Deadline, -deadlineRecomputeDays),
		To:        timeutil.AddDays(t.Deadline, deadlineRecomputeDays),
		Reason:    "task_deleted",
	}); err != nil {
		h.logger.Error("post-deletion workload recompute failed",
			slog.String("student_id", cmd.StudentID),
			slog.String("task_id", cmd.TaskID),
			slog.String("error", err.Error()),
		)
	}

	return &DeleteTaskResult{TaskID: cmd.TaskID, DeletedAt: timeutil.Now()}, nil
}

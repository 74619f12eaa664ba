package command

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/studypulse/studypulse/internal/domain/burnout"
	"github.com/studypulse/studypulse/internal/domain/shared"
	"github.com/studypulse/studypulse/internal/domain/task"
	"github.com/studypulse/studypulse/internal/domain/workload"
	"github.com/studypulse/studypulse/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// ADMIT TASK COMMAND
// Пропускает новую задачу через фильтр выгорания перед созданием.
// Если фильтр блокирует - задача не создаётся, но студент получает
// объяснение и рекомендации. Если пропускает - задача создаётся и
// нагрузка вокруг дедлайна пересчитывается немедленно.
// ══════════════════════════════════════════════════════════════════════════════

// recompute window around the new deadline, days in each direction.
const deadlineRecomputeDays = 7

// AdmitTaskCommand contains parameters for admitting a new task.
type AdmitTaskCommand struct {
	// StudentID is the internal ID of the student.
	StudentID string

	// Title is the task title.
	Title string

	// Type is the raw task type string (unknown values fall back to "other").
	Type string

	// Subject is the course or subject the task belongs to.
	Subject string

	// Deadline is when the task is due.
	Deadline time.Time

	// EstimatedEffort is the expected effort in hours.
	EstimatedEffort float64

	// Force skips the admission filter (proctor override).
	Force bool
}

// Validate validates the command.
func (c AdmitTaskCommand) Validate() error {
	if c.StudentID == "" {
		return errors.New("admit_task: student_id is required")
	}
	if strings.TrimSpace(c.Title) == "" {
		return errors.New("admit_task: title is required")
	}
	if c.Deadline.IsZero() {
		return shared.ErrMissingDeadline
	}
	if c.EstimatedEffort <= 0 {
		return shared.ErrInvalidEffort
	}
	return nil
}

// AdmitTaskResult contains the outcome of a task admission.
type AdmitTaskResult struct {
	// Decision is the admission decision, including warning and
	// recommendations when the filter spoke up.
	Decision burnout.Decision

	// Task is the created task. Nil when the decision blocked creation.
	Task *task.Task

	// AdmittedAt is when the command finished.
	AdmittedAt time.Time
}

// Blocked reports whether the filter refused the task.
func (r *AdmitTaskResult) Blocked() bool {
	return r.Task == nil
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// AdmitTaskHandler handles the AdmitTaskCommand.
type AdmitTaskHandler struct {
	policy         *burnout.AdmissionPolicy
	tasks          task.Repository
	weights        workload.Weights
	recompute      *ComputeWorkloadHandler
	eventPublisher shared.EventPublisher
	logger         *slog.Logger
}

// NewAdmitTaskHandler creates a new AdmitTaskHandler.
func NewAdmitTaskHandler(
	policy *burnout.AdmissionPolicy,
	tasks task.Repository,
	weights workload.Weights,
	recompute *ComputeWorkloadHandler,
	eventPublisher shared.EventPublisher,
	logger *slog.Logger,
) *AdmitTaskHandler {
	if eventPublisher == nil {
		eventPublisher = shared.NoopPublisher{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AdmitTaskHandler{
		policy:         policy,
		tasks:          tasks,
		weights:        weights,
		recompute:      recompute,
		eventPublisher: eventPublisher,
		logger:         logger,
	}
}

// Handle executes the admission command.
func (h *AdmitTaskHandler) Handle(ctx context.Context, cmd AdmitTaskCommand) (*AdmitTaskResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("admit_task: validation failed: %w", err)
	}

	taskType := task.ParseType(cmd.Type)

	var decision burnout.Decision
	if cmd.Force {
		decision = burnout.Decision{Allowed: true, Reason: "admission filter bypassed"}
	} else {
		decision = h.policy.Evaluate(ctx, cmd.StudentID, burnout.ProposedTask{
			Type:            taskType,
			EstimatedEffort: cmd.EstimatedEffort,
		})
	}

	if !decision.Allowed {
		h.logger.Info("task blocked by admission filter",
			slog.String("student_id", cmd.StudentID),
			slog.String("type", string(taskType)),
			slog.Float64("score", decision.CurrentScore),
			slog.String("reason", decision.Reason),
		)
		h.eventPublisher.Publish(shared.NewBaseEvent(shared.EventTaskBlocked, cmd.StudentID))
		return &AdmitTaskResult{Decision: decision, AdmittedAt: timeutil.Now()}, nil
	}

	now := timeutil.Now()
	created := &task.Task{
		ID:              uuid.NewString(),
		StudentID:       cmd.StudentID,
		Title:           strings.TrimSpace(cmd.Title),
		Type:            taskType,
		Subject:         cmd.Subject,
		Deadline:        cmd.Deadline,
		EstimatedEffort: cmd.EstimatedEffort,
		Weight:          h.weights.TaskWeight(taskType),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := created.Validate(); err != nil {
		return nil, fmt.Errorf("admit_task: %w", err)
	}
	if err := h.tasks.Create(ctx, created); err != nil {
		return nil, fmt.Errorf("admit_task: create task: %w", err)
	}

	h.eventPublisher.Publish(shared.NewBaseEvent(shared.EventTaskCreated, cmd.StudentID))

	// Refresh the workload picture around the new deadline right away so the
	// next prediction sees the task.
	_, err := h.recompute.Handle(ctx, ComputeWorkloadCommand{
		StudentID: cmd.StudentID,
		From:      timeutil.AddDays(cmd.Deadline, -deadlineRecomputeDays),
		To:        timeutil.AddDays(cmd.Deadline, deadlineRecomputeDays),
		Reason:    "task_created",
	})
	if err != nil {
		// The task exists; a stale workload row heals on the next recompute.
		h.logger.Error("post-create workload recompute failed",
			slog.String("student_id", cmd.StudentID),
			slog.String("task_id", created.ID),
			slog.String("error", err.Error()),
		)
	}

	return &AdmitTaskResult{
		Decision:   decision,
		Task:       created,
		AdmittedAt: timeutil.Now(),
	}, nil
}

package command

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/studypulse/studypulse/internal/domain/burnout"
	"github.com/studypulse/studypulse/internal/domain/shared"
	"github.com/studypulse/studypulse/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// REFRESH BASELINE COMMAND
// Пересчитывает персональный порог нагрузки студента из истории.
// Идемпотентна: повторный запуск на тех же данных даёт тот же порог.
// ══════════════════════════════════════════════════════════════════════════════

// RefreshBaselineCommand recomputes a student's personal workload baseline.
type RefreshBaselineCommand struct {
	// StudentID is the internal ID of the student.
	StudentID string
}

// Validate validates the command.
func (c RefreshBaselineCommand) Validate() error {
	if c.StudentID == "" {
		return errors.New("refresh_baseline: student_id is required")
	}
	return nil
}

// RefreshBaselineResult contains the result of a baseline refresh.
type RefreshBaselineResult struct {
	// StudentID is the internal ID of the student.
	StudentID string

	// RefreshedAt is when the refresh ran.
	RefreshedAt time.Time
}

// RefreshBaselineHandler handles the RefreshBaselineCommand.
type RefreshBaselineHandler struct {
	updater        *burnout.BaselineUpdater
	eventPublisher shared.EventPublisher
	logger         *slog.Logger
}

// NewRefreshBaselineHandler creates a new RefreshBaselineHandler.
func NewRefreshBaselineHandler(updater *burnout.BaselineUpdater, eventPublisher shared.EventPublisher, logger *slog.Logger) *RefreshBaselineHandler {
	if eventPublisher == nil {
		eventPublisher = shared.NoopPublisher{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RefreshBaselineHandler{
		updater:        updater,
		eventPublisher: eventPublisher,
		logger:         logger,
	}
}

// Handle refreshes the personal baseline. When the history holds fewer than
// the minimum weekly samples the refresh is a no-op and the system default
// keeps applying.
func (h *RefreshBaselineHandler) Handle(ctx context.Context, cmd RefreshBaselineCommand) (*RefreshBaselineResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("refresh_baseline: validation failed: %w", err)
	}

	if err := h.updater.Refresh(ctx, cmd.StudentID); err != nil {
		return nil, fmt.Errorf("refresh_baseline: %w", err)
	}

	h.eventPublisher.Publish(shared.NewBaseEvent(shared.EventBaselineRefreshed, cmd.StudentID))

	return &RefreshBaselineResult{
		StudentID:   cmd.StudentID,
		RefreshedAt: timeutil.Now(),
	}, nil
}

package command

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/studypulse/studypulse/internal/domain/burnout"
	"github.com/studypulse/studypulse/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// PREDICT BURNOUT COMMAND
// Запускает полный анализ выгорания: пять детекторов параллельно,
// агрегация в единый балл и снимок сигнала в журнале.
//
// Одновременные запросы по одному студенту схлопываются через singleflight:
// ночной батч и проверка при создании задачи не считают одно и то же дважды.
// ══════════════════════════════════════════════════════════════════════════════

// PredictBurnoutCommand contains parameters for a burnout analysis.
type PredictBurnoutCommand struct {
	// StudentID is the internal ID of the student.
	StudentID string

	// Trigger describes what asked for the analysis (for logging).
	Trigger string
}

// Validate validates the command.
func (c PredictBurnoutCommand) Validate() error {
	if c.StudentID == "" {
		return errors.New("predict_burnout: student_id is required")
	}
	return nil
}

// PredictBurnoutResult contains the outcome of an analysis run.
type PredictBurnoutResult struct {
	// Analysis is the full detector breakdown with the persisted signal ID.
	Analysis *burnout.Analysis

	// Shared indicates the result was taken from a concurrent in-flight run
	// rather than computed by this call.
	Shared bool

	// PredictedAt is when this handler returned the result.
	PredictedAt time.Time
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// PredictBurnoutHandler handles the PredictBurnoutCommand.
type PredictBurnoutHandler struct {
	aggregator *burnout.Aggregator
	group      singleflight.Group
	logger     *slog.Logger
}

// NewPredictBurnoutHandler creates a new PredictBurnoutHandler.
func NewPredictBurnoutHandler(aggregator *burnout.Aggregator, logger *slog.Logger) *PredictBurnoutHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &PredictBurnoutHandler{
		aggregator: aggregator,
		logger:     logger,
	}
}

// Handle executes the analysis, collapsing concurrent calls per student.
func (h *PredictBurnoutHandler) Handle(ctx context.Context, cmd PredictBurnoutCommand) (*PredictBurnoutResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("predict_burnout: validation failed: %w", err)
	}

	v, err, shared := h.group.Do(cmd.StudentID, func() (interface{}, error) {
		return h.aggregator.Predict(ctx, cmd.StudentID)
	})
	if err != nil {
		return nil, fmt.Errorf("predict_burnout: %w", err)
	}
	analysis := v.(*burnout.Analysis)

	h.logger.Info("burnout analysis completed",
		slog.String("student_id", cmd.StudentID),
		slog.Float64("score", analysis.Score),
		slog.String("risk", string(analysis.Risk)),
		slog.Int("degraded", len(analysis.Degraded)),
		slog.Bool("shared", shared),
		slog.String("trigger", cmd.Trigger),
	)

	return &PredictBurnoutResult{
		Analysis:    analysis,
		Shared:      shared,
		PredictedAt: timeutil.Now(),
	}, nil
}

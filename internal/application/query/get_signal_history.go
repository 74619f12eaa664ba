package query

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/studypulse/studypulse/internal/domain/signal"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET SIGNAL HISTORY QUERY
// ══════════════════════════════════════════════════════════════════════════════

// DefaultHistoryLimit is used when the query names no limit.
const DefaultHistoryLimit = 30

// GetSignalHistoryQuery contains parameters for a signal history read.
type GetSignalHistoryQuery struct {
	// StudentID is the internal ID of the student.
	StudentID string

	// Limit caps the number of snapshots (defaults to DefaultHistoryLimit).
	Limit int
}

// Validate validates the query.
func (q GetSignalHistoryQuery) Validate() error {
	if q.StudentID == "" {
		return errors.New("get_signal_history: student_id is required")
	}
	if q.Limit < 0 {
		return errors.New("get_signal_history: limit must not be negative")
	}
	return nil
}

// GetSignalHistoryResult contains the snapshot history.
type GetSignalHistoryResult struct {
	// Signals holds the snapshots, newest first.
	Signals []*signal.Signal
}

// GetSignalHistoryHandler handles the GetSignalHistoryQuery.
type GetSignalHistoryHandler struct {
	signals signal.Repository
	logger  *slog.Logger
}

// NewGetSignalHistoryHandler creates a new GetSignalHistoryHandler.
func NewGetSignalHistoryHandler(signals signal.Repository, logger *slog.Logger) *GetSignalHistoryHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &GetSignalHistoryHandler{signals: signals, logger: logger}
}

// Handle returns the student's recent snapshots, newest first.
func (h *GetSignalHistoryHandler) Handle(ctx context.Context, q GetSignalHistoryQuery) (*GetSignalHistoryResult, error) {
	if err := q.Validate(); err != nil {
		return nil, fmt.Errorf("get_signal_history: validation failed: %w", err)
	}

	limit := q.Limit
	if limit == 0 {
		limit = DefaultHistoryLimit
	}

	signals, err := h.signals.GetHistory(ctx, q.StudentID, limit)
	if err != nil {
		return nil, fmt.Errorf("get_signal_history: %w", err)
	}

	return &GetSignalHistoryResult{Signals: signals}, nil
}

package messaging

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/studypulse/studypulse/internal/domain/shared"
	"github.com/studypulse/studypulse/internal/domain/signal"
)

// ══════════════════════════════════════════════════════════════════════════════
// RISK ALERT HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// RiskAlertHandler reacts to high-risk burnout predictions. Notification
// delivery (mail, push) lives outside this engine; the handler records the
// alert in the log and flips the notified flag on the snapshot so the same
// prediction is not surfaced twice.
type RiskAlertHandler struct {
	signals signal.Repository
	logger  *slog.Logger
	timeout time.Duration
}

// NewRiskAlertHandler creates a handler over the signal journal.
func NewRiskAlertHandler(signals signal.Repository, logger *slog.Logger) *RiskAlertHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &RiskAlertHandler{
		signals: signals,
		logger:  logger,
		timeout: 5 * time.Second,
	}
}

// EventTypes returns the event types this handler is interested in.
func (h *RiskAlertHandler) EventTypes() []shared.EventType {
	return []shared.EventType{shared.EventHighRiskDetected}
}

// Handle records the alert and marks the snapshot notified.
func (h *RiskAlertHandler) Handle(event shared.Event) error {
	alert, ok := event.(shared.HighRiskDetected)
	if !ok {
		return nil
	}

	h.logger.Warn("high burnout risk detected",
		slog.String("student_id", alert.StudentID),
		slog.String("signal_id", alert.SignalID),
		slog.Float64("score", alert.Score),
		slog.String("reasons", strings.Join(alert.Reasons, ",")))

	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()

	return h.signals.MarkNotified(ctx, alert.SignalID)
}

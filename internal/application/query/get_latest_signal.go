package query

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/studypulse/studypulse/internal/domain/signal"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET LATEST SIGNAL QUERY
// Последний снимок анализа для дашборда. Кэш может отставать на TTL;
// для фильтра допуска задач это неприемлемо, поэтому фильтр читает
// напрямую из журнала, а не через этот запрос.
// ══════════════════════════════════════════════════════════════════════════════

// GetLatestSignalQuery contains parameters for the latest-signal read.
type GetLatestSignalQuery struct {
	// StudentID is the internal ID of the student.
	StudentID string

	// SkipCache forces a repository read.
	SkipCache bool
}

// Validate validates the query.
func (q GetLatestSignalQuery) Validate() error {
	if q.StudentID == "" {
		return errors.New("get_latest_signal: student_id is required")
	}
	return nil
}

// GetLatestSignalResult contains the latest snapshot.
type GetLatestSignalResult struct {
	// Signal is the most recent snapshot.
	Signal *signal.Signal

	// FromCache indicates the snapshot was served from the cache.
	FromCache bool
}

// GetLatestSignalHandler handles the GetLatestSignalQuery.
type GetLatestSignalHandler struct {
	signals signal.Repository
	cache   signal.Cache // optional, nil disables caching
	logger  *slog.Logger
}

// NewGetLatestSignalHandler creates a new GetLatestSignalHandler.
func NewGetLatestSignalHandler(signals signal.Repository, cache signal.Cache, logger *slog.Logger) *GetLatestSignalHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &GetLatestSignalHandler{signals: signals, cache: cache, logger: logger}
}

// Handle returns the student's latest snapshot, trying the cache first.
func (h *GetLatestSignalHandler) Handle(ctx context.Context, q GetLatestSignalQuery) (*GetLatestSignalResult, error) {
	if err := q.Validate(); err != nil {
		return nil, fmt.Errorf("get_latest_signal: validation failed: %w", err)
	}

	if h.cache != nil && !q.SkipCache {
		if cached, err := h.cache.GetLatest(ctx, q.StudentID); err == nil {
			return &GetLatestSignalResult{Signal: cached, FromCache: true}, nil
		}
	}

	latest, err := h.signals.GetLatest(ctx, q.StudentID)
	if err != nil {
		return nil, fmt.Errorf("get_latest_signal: %w", err)
	}

	if h.cache != nil && !q.SkipCache {
		if err := h.cache.SetLatest(ctx, latest); err != nil {
			// Cache trouble must not fail a read that already succeeded.
			h.logger.Warn("latest signal cache write failed",
				slog.String("student_id", q.StudentID),
				slog.String("error", err.Error()),
			)
		}
	}

	return &GetLatestSignalResult{Signal: latest}, nil
}

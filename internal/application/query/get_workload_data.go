// Package query contains read operations (CQRS - Queries).
package query

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/studypulse/studypulse/internal/domain/workload"
	"github.com/studypulse/studypulse/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET WORKLOAD DATA QUERY
// Отдаёт дневную серию нагрузки для дашборда: каждый день периода,
// нулевые дни включительно, в хронологическом порядке.
// ══════════════════════════════════════════════════════════════════════════════

// DefaultWorkloadDays is the trailing window when the query names none.
const DefaultWorkloadDays = 30

// GetWorkloadDataQuery contains parameters for a workload series read.
type GetWorkloadDataQuery struct {
	// StudentID is the internal ID of the student.
	StudentID string

	// Days is the trailing window length (defaults to DefaultWorkloadDays).
	Days int
}

// Validate validates the query.
func (q GetWorkloadDataQuery) Validate() error {
	if q.StudentID == "" {
		return errors.New("get_workload_data: student_id is required")
	}
	if q.Days < 0 {
		return errors.New("get_workload_data: days must not be negative")
	}
	return nil
}

// GetWorkloadDataResult contains the workload series.
type GetWorkloadDataResult struct {
	// StudentID is the internal ID of the student.
	StudentID string

	// From and To bound the returned series (inclusive).
	From time.Time
	To   time.Time

	// Scores is the chronological daily series.
	Scores []*workload.Score

	// CurrentWeekly is the weekly score of the most recent day, zero when
	// the series is empty.
	CurrentWeekly float64
}

// GetWorkloadDataHandler handles the GetWorkloadDataQuery.
type GetWorkloadDataHandler struct {
	scores workload.Repository
	logger *slog.Logger
}

// NewGetWorkloadDataHandler creates a new GetWorkloadDataHandler.
func NewGetWorkloadDataHandler(scores workload.Repository, logger *slog.Logger) *GetWorkloadDataHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &GetWorkloadDataHandler{scores: scores, logger: logger}
}

// Handle returns the student's trailing daily workload series.
func (h *GetWorkloadDataHandler) Handle(ctx context.Context, q GetWorkloadDataQuery) (*GetWorkloadDataResult, error) {
	if err := q.Validate(); err != nil {
		return nil, fmt.Errorf("get_workload_data: validation failed: %w", err)
	}

	days := q.Days
	if days == 0 {
		days = DefaultWorkloadDays
	}

	to := timeutil.EndOfDay(timeutil.Now())
	from := timeutil.StartOfDay(timeutil.AddDays(to, -(days - 1)))

	scores, err := h.scores.GetByDateRange(ctx, q.StudentID, from, to)
	if err != nil {
		return nil, fmt.Errorf("get_workload_data: %w", err)
	}

	result := &GetWorkloadDataResult{
		StudentID: q.StudentID,
		From:      from,
		To:        to,
		Scores:    scores,
	}
	if len(scores) > 0 {
		result.CurrentWeekly = scores[len(scores)-1].WeeklyScore
	}
	return result, nil
}

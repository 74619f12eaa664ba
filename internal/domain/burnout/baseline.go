package burnout

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/studypulse/studypulse/internal/domain/student"
	"github.com/studypulse/studypulse/internal/domain/workload"
	"github.com/studypulse/studypulse/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// BASELINE UPDATER
// Periodically rewrites a student's personal weekly-load baseline from
// historical workload data. The aggregator reads the baseline but never
// computes it; this updater is the single writer. Idempotent: running it
// twice over unchanged data writes the same values.
// ══════════════════════════════════════════════════════════════════════════════

// BaselineWindowMonths is how far back the updater looks.
const BaselineWindowMonths = 3

// BaselineUpdater recomputes personal thresholds from workload history.
type BaselineUpdater struct {
	scores   workload.Repository
	students student.Repository
	logger   *slog.Logger
	now      func() time.Time
}

// NewBaselineUpdater creates a BaselineUpdater.
func NewBaselineUpdater(scores workload.Repository, students student.Repository, logger *slog.Logger) *BaselineUpdater {
	if logger == nil {
		logger = slog.Default()
	}
	return &BaselineUpdater{
		scores:   scores,
		students: students,
		logger:   logger,
		now:      timeutil.Now,
	}
}

// Refresh recomputes the student's baseline. With fewer than the minimum
// weekly samples the baseline is left at the system default and no
// personalization applies; that is a successful no-op, not an error.
func (u *BaselineUpdater) Refresh(ctx context.Context, studentID string) error {
	end := u.now()
	start := end.AddDate(0, -BaselineWindowMonths, 0)

	rows, err := u.scores.GetByDateRange(ctx, studentID, start, end)
	if err != nil {
		return fmt.Errorf("baseline: fetch scores: %w", err)
	}

	var weekly []float64
	for _, row := range rows {
		if row.WeeklyScore > 0 {
			weekly = append(weekly, row.WeeklyScore)
		}
	}
	if len(weekly) < student.MinBaselineSamples {
		u.logger.Debug("not enough history for a personal baseline",
			slog.String("student_id", studentID),
			slog.Int("samples", len(weekly)))
		return nil
	}

	var sum, max float64
	for _, v := range weekly {
		sum += v
		if v > max {
			max = v
		}
	}
	avg := sum / float64(len(weekly))

	threshold := student.PersonalThreshold{
		NormalWeeklyLoad: math.Round(avg),
		MaxWeeklyLoad:    math.Round(max),
		SampleCount:      len(weekly),
		UpdatedAt:        end,
	}
	if err := u.students.UpdateThresholds(ctx, studentID, threshold); err != nil {
		return fmt.Errorf("baseline: update thresholds: %w", err)
	}

	u.logger.Info("personal baseline refreshed",
		slog.String("student_id", studentID),
		slog.Float64("normal_weekly", threshold.NormalWeeklyLoad),
		slog.Float64("max_weekly", threshold.MaxWeeklyLoad),
		slog.Int("samples", threshold.SampleCount))
	return nil
}

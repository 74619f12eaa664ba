package burnout

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/studypulse/studypulse/internal/domain/workload"
	"github.com/studypulse/studypulse/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// RECOVERY GAP DETECTOR
// Flags sustained work without a single low-load ("rest") day.
// ══════════════════════════════════════════════════════════════════════════════

// RecoveryResult is the detector verdict.
type RecoveryResult struct {
	HasRecoveryDeficit bool

	// ContinuousWorkStreak is the number of days since the last rest day
	// (or the whole window when no rest day exists).
	ContinuousWorkStreak int

	// MaxStreak is the longest high-load streak observed in the window,
	// kept for diagnostics.
	MaxStreak int

	// LastRestDay is the most recent low-load day, nil if none.
	LastRestDay *time.Time
}

// RecoveryGapDetector walks the trailing window chronologically looking
// for rest days. Read-only; insufficient data yields no signal.
type RecoveryGapDetector struct {
	scores workload.Repository
	cfg    Config
	logger *slog.Logger
	now    func() time.Time
}

// NewRecoveryGapDetector creates a RecoveryGapDetector.
func NewRecoveryGapDetector(scores workload.Repository, cfg Config, logger *slog.Logger) *RecoveryGapDetector {
	if logger == nil {
		logger = slog.Default()
	}
	return &RecoveryGapDetector{
		scores: scores,
		cfg:    cfg,
		logger: logger,
		now:    timeutil.Now,
	}
}

// Detect finds the last rest day in the window and measures the distance
// to it. A day is rest when its daily score is at or below the low-load
// threshold.
func (d *RecoveryGapDetector) Detect(ctx context.Context, studentID string) (RecoveryResult, error) {
	end := d.now()
	start := timeutil.AddDays(end, -d.cfg.RecoveryWindowDays)

	rows, err := d.scores.GetByDateRange(ctx, studentID, start, end)
	if err != nil {
		return RecoveryResult{}, fmt.Errorf("recovery: fetch scores: %w", err)
	}
	if len(rows) < d.cfg.RecoveryMinRecords {
		return RecoveryResult{}, nil
	}

	var (
		currentStreak int
		maxStreak     int
		lastRestDay   *time.Time
	)
	for _, row := range rows {
		if row.DailyScore <= d.cfg.LowLoadThreshold {
			if currentStreak > maxStreak {
				maxStreak = currentStreak
			}
			currentStreak = 0
			day := row.Day
			lastRestDay = &day
			continue
		}
		currentStreak++
	}
	if currentStreak > maxStreak {
		maxStreak = currentStreak
	}

	daysSinceRest := len(rows)
	if lastRestDay != nil {
		daysSinceRest = timeutil.DaysBetween(*lastRestDay, end)
	}

	deficit := daysSinceRest >= d.cfg.RecoveryGapDays
	if deficit {
		d.logger.Debug("recovery deficit detected",
			slog.String("student_id", studentID),
			slog.Int("days_since_rest", daysSinceRest),
			slog.Int("max_streak", maxStreak))
	}

	return RecoveryResult{
		HasRecoveryDeficit:   deficit,
		ContinuousWorkStreak: daysSinceRest,
		MaxStreak:            maxStreak,
		LastRestDay:          lastRestDay,
	}, nil
}

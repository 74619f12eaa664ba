package burnout

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/studypulse/studypulse/internal/domain/grade"
	"github.com/studypulse/studypulse/internal/domain/signal"
	"github.com/studypulse/studypulse/internal/domain/workload"
	"github.com/studypulse/studypulse/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// PERFORMANCE DRIFT DETECTOR
// Flags the "working harder but scoring worse" pattern across consecutive
// months.
// ══════════════════════════════════════════════════════════════════════════════

// MonthStat is one month's grade average and effort total.
type MonthStat struct {
	Month       string // "YYYY-MM"
	AvgGrade    float64
	TotalEffort float64
}

// DriftResult is the detector verdict.
type DriftResult struct {
	HasDrift bool
	Severity signal.DriftSeverity

	// DriftPeriods is how many consecutive month pairs showed effort up
	// with grades down.
	DriftPeriods int

	// RecentMonths carries the last three comparable months for
	// diagnostics.
	RecentMonths []MonthStat
}

// PerformanceDriftDetector correlates monthly grade averages with monthly
// effort totals over the trailing half year. Read-only.
type PerformanceDriftDetector struct {
	grades grade.Repository
	scores workload.Repository
	cfg    Config
	logger *slog.Logger
	now    func() time.Time
}

// NewPerformanceDriftDetector creates a PerformanceDriftDetector.
func NewPerformanceDriftDetector(grades grade.Repository, scores workload.Repository, cfg Config, logger *slog.Logger) *PerformanceDriftDetector {
	if logger == nil {
		logger = slog.Default()
	}
	return &PerformanceDriftDetector{
		grades: grades,
		scores: scores,
		cfg:    cfg,
		logger: logger,
		now:    timeutil.Now,
	}
}

// Detect groups grades and weekly-effort sums by calendar month, keeps
// months that have both, and counts consecutive pairs where effort rose
// while the grade average fell.
func (d *PerformanceDriftDetector) Detect(ctx context.Context, studentID string) (DriftResult, error) {
	end := d.now()
	start := end.AddDate(0, -d.cfg.DriftWindowMonths, 0)

	grades, err := d.grades.GetByDateRange(ctx, studentID, start, end)
	if err != nil {
		return DriftResult{}, fmt.Errorf("drift: fetch grades: %w", err)
	}
	if len(grades) < d.cfg.DriftPeriods {
		return DriftResult{}, nil
	}

	rows, err := d.scores.GetByDateRange(ctx, studentID, start, end)
	if err != nil {
		return DriftResult{}, fmt.Errorf("drift: fetch scores: %w", err)
	}
	if len(rows) == 0 {
		return DriftResult{}, nil
	}

	type monthAgg struct {
		gradeSum   float64
		gradeCount int
		effort     float64
	}
	monthly := make(map[string]*monthAgg)
	for _, g := range grades {
		key := timeutil.MonthKey(g.Date)
		agg, ok := monthly[key]
		if !ok {
			agg = &monthAgg{}
			monthly[key] = agg
		}
		agg.gradeSum += g.Percentage
		agg.gradeCount++
	}
	// Effort only counts toward months that have grades; a month without
	// grades cannot be compared.
	for _, row := range rows {
		if agg, ok := monthly[timeutil.MonthKey(row.Day)]; ok {
			agg.effort += row.WeeklyScore
		}
	}

	months := make([]MonthStat, 0, len(monthly))
	for key, agg := range monthly {
		if agg.gradeCount == 0 || agg.effort == 0 {
			continue
		}
		avg := agg.gradeSum / float64(agg.gradeCount)
		if avg == 0 {
			continue
		}
		months = append(months, MonthStat{Month: key, AvgGrade: avg, TotalEffort: agg.effort})
	}
	// "YYYY-MM" keys sort chronologically.
	sort.Slice(months, func(i, j int) bool { return months[i].Month < months[j].Month })

	if len(months) < d.cfg.DriftPeriods {
		return DriftResult{}, nil
	}

	driftCount := 0
	for i := 1; i < len(months); i++ {
		prev, curr := months[i-1], months[i]
		if curr.TotalEffort > prev.TotalEffort && curr.AvgGrade < prev.AvgGrade {
			driftCount++
		}
	}

	severity := signal.DriftMild
	switch {
	case driftCount >= 4:
		severity = signal.DriftSevere
	case driftCount >= 3:
		severity = signal.DriftModerate
	}

	recent := months
	if len(recent) > 3 {
		recent = recent[len(recent)-3:]
	}

	hasDrift := driftCount >= d.cfg.DriftPeriods-1
	if hasDrift {
		d.logger.Debug("performance drift detected",
			slog.String("student_id", studentID),
			slog.Int("drift_periods", driftCount),
			slog.String("severity", string(severity)))
	}

	return DriftResult{
		HasDrift:     hasDrift,
		Severity:     severity,
		DriftPeriods: driftCount,
		RecentMonths: recent,
	}, nil
}

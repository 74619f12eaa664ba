package burnout

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/studypulse/studypulse/internal/domain/shared"
	"github.com/studypulse/studypulse/internal/domain/signal"
	"github.com/studypulse/studypulse/internal/domain/workload"
	"github.com/studypulse/studypulse/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// VOLATILITY DETECTOR
// Flags sudden week-over-week spikes in aggregate workload.
// ══════════════════════════════════════════════════════════════════════════════

// VolatilityResult is the detector verdict.
type VolatilityResult struct {
	HasVolatility bool
	Severity      signal.Severity

	// SpikePercentage is the rounded week-over-week increase in percent.
	SpikePercentage int

	// CurrentWeek / PreviousWeek are the compared weekly totals.
	CurrentWeek  float64
	PreviousWeek float64
}

// VolatilityDetector compares the newest two weekly totals of the trailing
// window. Read-only; insufficient data yields a definitive no-signal.
type VolatilityDetector struct {
	scores workload.Repository
	cfg    Config
	logger *slog.Logger
	now    func() time.Time
}

// NewVolatilityDetector creates a VolatilityDetector.
func NewVolatilityDetector(scores workload.Repository, cfg Config, logger *slog.Logger) *VolatilityDetector {
	if logger == nil {
		logger = slog.Default()
	}
	return &VolatilityDetector{
		scores: scores,
		cfg:    cfg,
		logger: logger,
		now:    timeutil.Now,
	}
}

// Detect groups the trailing window by ISO week and compares the current
// week's total against the previous one. The weekly total is read off the
// first row seen per week; rows of one week carry identical weekly scores
// by invariant.
func (d *VolatilityDetector) Detect(ctx context.Context, studentID string) (VolatilityResult, error) {
	end := d.now()
	start := timeutil.AddDays(end, -d.cfg.VolatilityWindowDays)

	rows, err := d.scores.GetByDateRange(ctx, studentID, start, end)
	if err != nil {
		return VolatilityResult{}, fmt.Errorf("volatility: fetch scores: %w", err)
	}
	if len(rows) < d.cfg.VolatilityMinRecords {
		return VolatilityResult{}, nil
	}

	weekly := make(map[shared.WeekKey]float64)
	for _, row := range rows {
		key := shared.WeekKey{Year: row.Year, Week: row.WeekNumber}
		if _, seen := weekly[key]; !seen {
			weekly[key] = row.WeeklyScore
		}
	}
	if len(weekly) < 2 {
		return VolatilityResult{}, nil
	}

	keys := make([]shared.WeekKey, 0, len(weekly))
	for key := range weekly {
		keys = append(keys, key)
	}
	// Most recent week first.
	sort.Slice(keys, func(i, j int) bool { return keys[j].Less(keys[i]) })

	current := weekly[keys[0]]
	previous := weekly[keys[1]]
	if previous == 0 {
		return VolatilityResult{}, nil
	}

	change := (current - previous) / previous
	if change < d.cfg.VolatilitySpikeThreshold {
		return VolatilityResult{CurrentWeek: current, PreviousWeek: previous}, nil
	}

	severity := signal.SeverityLow
	switch {
	case change >= 1.0:
		severity = signal.SeverityHigh
	case change >= 0.75:
		severity = signal.SeverityMedium
	}

	spike := int(math.Round(change * 100))
	d.logger.Debug("volatility detected",
		slog.String("student_id", studentID),
		slog.Int("spike_percent", spike),
		slog.String("severity", string(severity)))

	return VolatilityResult{
		HasVolatility:   true,
		Severity:        severity,
		SpikePercentage: spike,
		CurrentWeek:     current,
		PreviousWeek:    previous,
	}, nil
}

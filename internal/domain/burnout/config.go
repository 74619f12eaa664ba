// Package burnout contains the burnout inference engine: five independent
// signal detectors, the aggregator that combines them into one 0-100 score
// with a risk tier, and the admission policy that gates new tasks on the
// live score.
package burnout

import (
	"github.com/studypulse/studypulse/internal/domain/signal"
)

// Config is the injected threshold configuration for the detectors, the
// aggregator, and the admission policy. Every value is overridable; no
// detector reads a process-wide global.
type Config struct {
	// SafeWeeklyLimit is the system default safe weekly load in hours,
	// used when a student has no personalized baseline.
	SafeWeeklyLimit float64

	// ───────────────────────────────────────────────────────────────────────
	// Collision detection
	// ───────────────────────────────────────────────────────────────────────

	// CollisionWindowDays is the look-ahead window starting today.
	CollisionWindowDays int

	// CollisionItemLimit flags a week with at least this many tasks+events.
	CollisionItemLimit int

	// CollisionMajorLimit flags a week where major tasks plus events reach
	// this count.
	CollisionMajorLimit int

	// CollisionHourLimit flags a week whose total hours exceed this.
	CollisionHourLimit float64

	// ───────────────────────────────────────────────────────────────────────
	// Volatility detection
	// ───────────────────────────────────────────────────────────────────────

	// VolatilityWindowDays is the trailing workload window examined.
	VolatilityWindowDays int

	// VolatilityMinRecords is the minimum daily rows for a verdict.
	VolatilityMinRecords int

	// VolatilitySpikeThreshold is the week-over-week fractional increase
	// that flags volatility (0.5 = +50%).
	VolatilitySpikeThreshold float64

	// ───────────────────────────────────────────────────────────────────────
	// Recovery gap detection
	// ───────────────────────────────────────────────────────────────────────

	// RecoveryWindowDays is the trailing workload window examined.
	RecoveryWindowDays int

	// RecoveryMinRecords is the minimum daily rows for a verdict.
	RecoveryMinRecords int

	// RecoveryGapDays flags a deficit after this many days without rest.
	RecoveryGapDays int

	// LowLoadThreshold is the daily score at or below which a day counts
	// as rest.
	LowLoadThreshold float64

	// ───────────────────────────────────────────────────────────────────────
	// Performance drift detection
	// ───────────────────────────────────────────────────────────────────────

	// DriftWindowMonths is the trailing grade/effort window examined.
	DriftWindowMonths int

	// DriftPeriods is the number of comparable months required; drift is
	// flagged at DriftPeriods-1 consecutive effort-up/grade-down pairs.
	DriftPeriods int

	// ───────────────────────────────────────────────────────────────────────
	// Grade analysis
	// ───────────────────────────────────────────────────────────────────────

	// GradeWindowRecords is how many recent grades are analyzed.
	GradeWindowRecords int

	// GradeStrugglingCutoff is the percentage below which a grade marks a
	// struggling subject.
	GradeStrugglingCutoff float64

	// GradeDeclineGap is how many percentage points the recent grade mean
	// must trail the older mean to count as a decline.
	GradeDeclineGap float64

	// ───────────────────────────────────────────────────────────────────────
	// Risk tiers and admission
	// ───────────────────────────────────────────────────────────────────────

	// RiskMediumFloor / RiskHighFloor classify the aggregate score.
	RiskMediumFloor float64
	RiskHighFloor   float64

	// AdmissionElevatedScore is the score at which high-effort tasks are
	// blocked and major tasks draw warnings.
	AdmissionElevatedScore float64

	// AdmissionMajorEffortLimit is the effort (hours) above which a task
	// is considered high-effort at high risk.
	AdmissionMajorEffortLimit float64

	// AdmissionHeavyEffortLimit is the effort (hours) above which a task
	// is blocked at elevated risk.
	AdmissionHeavyEffortLimit float64
}

// DefaultConfig returns the system default thresholds.
func DefaultConfig() Config {
	return Config{
		SafeWeeklyLimit: 40,

		CollisionWindowDays: 14,
		CollisionItemLimit:  5,
		CollisionMajorLimit: 2,
		CollisionHourLimit:  50,

		VolatilityWindowDays:     28,
		VolatilityMinRecords:     7,
		VolatilitySpikeThreshold: 0.5,

		RecoveryWindowDays: 30,
		RecoveryMinRecords: 7,
		RecoveryGapDays:    7,
		LowLoadThreshold:   10,

		DriftWindowMonths: 6,
		DriftPeriods:      3,

		GradeWindowRecords:    20,
		GradeStrugglingCutoff: 60,
		GradeDeclineGap:       10,

		RiskMediumFloor: 30,
		RiskHighFloor:   60,

		AdmissionElevatedScore:    40,
		AdmissionMajorEffortLimit: 5,
		AdmissionHeavyEffortLimit: 8,
	}
}

// ClassifyRisk maps an aggregate score to a risk tier using the configured
// floors.
func (c Config) ClassifyRisk(score float64) signal.Risk {
	switch {
	case score >= c.RiskHighFloor:
		return signal.RiskHigh
	case score >= c.RiskMediumFloor:
		return signal.RiskMedium
	default:
		return signal.RiskLow
	}
}

// Package signal contains the persisted burnout signal snapshot: one
// append-only record per prediction run, carrying every detector flag, the
// aggregate score, and the risk tier. Snapshots are immutable after
// creation except for the notified flag.
package signal

import (
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// ENUMS
// ══════════════════════════════════════════════════════════════════════════════

// Severity grades a volatility spike.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// DriftSeverity grades a performance drift pattern.
type DriftSeverity string

const (
	DriftMild     DriftSeverity = "mild"
	DriftModerate DriftSeverity = "moderate"
	DriftSevere   DriftSeverity = "severe"
)

// Risk is the burnout risk tier classified from the aggregate score.
type Risk string

const (
	RiskLow    Risk = "low"
	RiskMedium Risk = "medium"
	RiskHigh   Risk = "high"
)

// ══════════════════════════════════════════════════════════════════════════════
// ENTITY
// ══════════════════════════════════════════════════════════════════════════════

// Signal is one burnout prediction snapshot.
type Signal struct {
	// ID is the internal UUID of the snapshot.
	ID string

	// StudentID is the analyzed student.
	StudentID string

	// Date is when the prediction ran.
	Date time.Time

	// Collision signal.
	CollisionFlag    bool
	CollidingTaskIDs []string

	// Volatility signal.
	VolatilityFlag     bool
	VolatilitySeverity Severity
	SpikePercentage    int

	// Recovery signal.
	RecoveryDeficitFlag  bool
	ContinuousWorkStreak int

	// Performance drift signal.
	PerformanceDriftFlag bool
	DriftSeverity        DriftSeverity

	// Grade signal.
	GradeRiskFlag  bool
	GradeRiskScore float64
	AvgGrade       float64

	// Aggregate prediction.
	BurnoutScore float64
	BurnoutRisk  Risk

	// ReasonCodes holds one human-readable line per triggered signal.
	ReasonCodes []string

	// Notified is the only field mutable after creation; the delivery
	// layer flips it once the student has been told.
	Notified bool

	CreatedAt time.Time
}

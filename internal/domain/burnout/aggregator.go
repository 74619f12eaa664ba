package burnout

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/studypulse/studypulse/internal/domain/shared"
	"github.com/studypulse/studypulse/internal/domain/signal"
	"github.com/studypulse/studypulse/internal/domain/student"
	"github.com/studypulse/studypulse/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// BURNOUT AGGREGATOR
// Fans out to the five detectors, combines their verdicts into one additive
// score with a risk tier, persists the snapshot, and returns the analysis.
//
// A single failed detector does not fail the prediction: its contribution
// degrades to zero and the failure is logged and recorded on the analysis.
// ══════════════════════════════════════════════════════════════════════════════

// Signal contribution weights. Fixed and additive; order-independent.
const (
	collisionPoints      = 30
	volatilityHighPoints = 25
	volatilityMedPoints  = 20
	volatilityLowPoints  = 15
	recoveryPoints       = 25
	driftSeverePoints    = 20
	driftModeratePoints  = 15
	driftMildPoints      = 10
)

// Analysis is the full result of one burnout prediction run.
type Analysis struct {
	// SignalID is the ID of the persisted snapshot.
	SignalID string

	// Score is the aggregate burnout score: clamped at zero below, not
	// capped at 100 above (the additive scheme can exceed it; every tier
	// at or above the high floor reads the same downstream).
	Score float64

	// Risk is the tier classified from Score.
	Risk signal.Risk

	// Reasons holds one human-readable line per triggered signal.
	Reasons []string

	// Raw detector outputs.
	Collision  CollisionResult
	Volatility VolatilityResult
	Recovery   RecoveryResult
	Drift      DriftResult
	Grades     GradeResult

	// Degraded names detectors that failed and contributed zero.
	Degraded []string

	// SafeWeeklyLoad is the student's personalized weekly maximum, or the
	// system default when no baseline exists.
	SafeWeeklyLoad float64

	AnalyzedAt time.Time
}

// Aggregator orchestrates the detectors for one student.
type Aggregator struct {
	collision  *CollisionDetector
	volatility *VolatilityDetector
	recovery   *RecoveryGapDetector
	drift      *PerformanceDriftDetector
	grades     *GradeAnalyzer

	students  student.Repository
	signals   signal.Repository
	publisher shared.EventPublisher

	cfg    Config
	logger *slog.Logger
	now    func() time.Time
}

// NewAggregator creates an Aggregator.
func NewAggregator(
	collision *CollisionDetector,
	volatility *VolatilityDetector,
	recovery *RecoveryGapDetector,
	drift *PerformanceDriftDetector,
	grades *GradeAnalyzer,
	students student.Repository,
	signals signal.Repository,
	publisher shared.EventPublisher,
	cfg Config,
	logger *slog.Logger,
) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	if publisher == nil {
		publisher = shared.NoopPublisher{}
	}
	return &Aggregator{
		collision:  collision,
		volatility: volatility,
		recovery:   recovery,
		drift:      drift,
		grades:     grades,
		students:   students,
		signals:    signals,
		publisher:  publisher,
		cfg:        cfg,
		logger:     logger,
		now:        timeutil.Now,
	}
}

// Predict runs the full burnout prediction for one student.
// The detectors are independent read-only analyzers and run concurrently;
// aggregation waits for all five.
func (a *Aggregator) Predict(ctx context.Context, studentID string) (*Analysis, error) {
	if studentID == "" {
		return nil, shared.NewDomainError("burnout", "Predict", shared.ErrEmptyValue, "student ID is required")
	}

	var (
		wg sync.WaitGroup

		collisionRes  CollisionResult
		volatilityRes VolatilityResult
		recoveryRes   RecoveryResult
		driftRes      DriftResult
		gradesRes     GradeResult

		collisionErr  error
		volatilityErr error
		recoveryErr   error
		driftErr      error
		gradesErr     error
	)

	wg.Add(5)
	go func() { defer wg.Done(); collisionRes, collisionErr = a.collision.Detect(ctx, studentID) }()
	go func() { defer wg.Done(); volatilityRes, volatilityErr = a.volatility.Detect(ctx, studentID) }()
	go func() { defer wg.Done(); recoveryRes, recoveryErr = a.recovery.Detect(ctx, studentID) }()
	go func() { defer wg.Done(); driftRes, driftErr = a.drift.Detect(ctx, studentID) }()
	go func() { defer wg.Done(); gradesRes, gradesErr = a.grades.Analyze(ctx, studentID) }()
	wg.Wait()

	analysis := &Analysis{
		Collision:  collisionRes,
		Volatility: volatilityRes,
		Recovery:   recoveryRes,
		Drift:      driftRes,
		Grades:     gradesRes,
		AnalyzedAt: a.now(),
	}
	analysis.Degraded = a.recordFailures(studentID, map[string]error{
		"collision":  collisionErr,
		"volatility": volatilityErr,
		"recovery":   recoveryErr,
		"drift":      driftErr,
		"grades":     gradesErr,
	})

	// Personalized baseline: read, never computed here. Missing student
	// or store trouble degrades to the system default.
	analysis.SafeWeeklyLoad = a.cfg.SafeWeeklyLimit
	if st, err := a.students.GetByID(ctx, studentID); err == nil {
		analysis.SafeWeeklyLoad = st.Thresholds.MaxOrDefault(a.cfg.SafeWeeklyLimit)
	} else {
		a.logger.Warn("baseline lookup failed, using system default",
			slog.String("student_id", studentID),
			slog.String("error", err.Error()))
	}

	a.assemble(analysis)

	snap := a.snapshot(studentID, analysis)
	if err := a.signals.Append(ctx, snap); err != nil {
		return nil, fmt.Errorf("persist signal: %w", err)
	}
	analysis.SignalID = snap.ID

	a.logger.Info("burnout prediction completed",
		slog.String("student_id", studentID),
		slog.Float64("score", analysis.Score),
		slog.String("risk", string(analysis.Risk)),
		slog.Int("reasons", len(analysis.Reasons)))

	if analysis.Risk == signal.RiskHigh {
		a.publisher.Publish(shared.HighRiskDetected{
			BaseEvent: shared.NewBaseEvent(shared.EventHighRiskDetected, studentID),
			StudentID: studentID,
			SignalID:  snap.ID,
			Score:     analysis.Score,
			Reasons:   analysis.Reasons,
		})
	}

	return analysis, nil
}

// recordFailures logs failed detectors and returns their names. A failed
// detector's zero-valued result contributes nothing to the score.
func (a *Aggregator) recordFailures(studentID string, errs map[string]error) []string {
	var degraded []string
	for _, name := range []string{"collision", "volatility", "recovery", "drift", "grades"} {
		if err := errs[name]; err != nil {
			degraded = append(degraded, name)
			a.logger.Error("detector failed, contributing zero",
				slog.String("student_id", studentID),
				slog.String("detector", name),
				slog.String("error", err.Error()))
		}
	}
	return degraded
}

// assemble computes the additive score, the reason codes, and the tier.
func (a *Aggregator) assemble(analysis *Analysis) {
	var score float64
	var reasons []string

	if analysis.Collision.HasCollision {
		score += collisionPoints
		total := analysis.Collision.TotalUpcomingTasks + analysis.Collision.TotalUpcomingEvents
		reasons = append(reasons, fmt.Sprintf("%d upcoming deadlines/events detected (%d tasks, %d events)",
			total, analysis.Collision.TotalUpcomingTasks, analysis.Collision.TotalUpcomingEvents))
	}

	if analysis.Volatility.HasVolatility {
		switch analysis.Volatility.Severity {
		case signal.SeverityHigh:
			score += volatilityHighPoints
		case signal.SeverityMedium:
			score += volatilityMedPoints
		default:
			score += volatilityLowPoints
		}
		reasons = append(reasons, fmt.Sprintf("Sudden workload spike: %d%% increase", analysis.Volatility.SpikePercentage))
	}

	if analysis.Recovery.HasRecoveryDeficit {
		score += recoveryPoints
		reasons = append(reasons, fmt.Sprintf("No rest for %d days", analysis.Recovery.ContinuousWorkStreak))
	}

	if analysis.Drift.HasDrift {
		switch analysis.Drift.Severity {
		case signal.DriftSevere:
			score += driftSeverePoints
		case signal.DriftModerate:
			score += driftModeratePoints
		default:
			score += driftMildPoints
		}
		reasons = append(reasons, "Performance declining despite high effort")
	}

	if analysis.Grades.HasLowGrades {
		score += analysis.Grades.RiskScore
		reasons = append(reasons, analysis.Grades.Message)
	} else if analysis.Grades.RiskScore < 0 {
		score += analysis.Grades.RiskScore
		reasons = append(reasons, analysis.Grades.Message)
	}

	if score < 0 {
		score = 0
	}

	analysis.Score = score
	analysis.Risk = a.cfg.ClassifyRisk(score)
	analysis.Reasons = reasons
}

// snapshot builds the persisted signal record from the analysis.
func (a *Aggregator) snapshot(studentID string, analysis *Analysis) *signal.Signal {
	severity := analysis.Volatility.Severity
	if severity == "" {
		severity = signal.SeverityLow
	}
	driftSeverity := analysis.Drift.Severity
	if driftSeverity == "" {
		driftSeverity = signal.DriftMild
	}

	return &signal.Signal{
		ID:                   uuid.NewString(),
		StudentID:            studentID,
		Date:                 analysis.AnalyzedAt,
		CollisionFlag:        analysis.Collision.HasCollision,
		CollidingTaskIDs:     analysis.Collision.CollidingTaskIDs(),
		VolatilityFlag:       analysis.Volatility.HasVolatility,
		VolatilitySeverity:   severity,
		SpikePercentage:      analysis.Volatility.SpikePercentage,
		RecoveryDeficitFlag:  analysis.Recovery.HasRecoveryDeficit,
		ContinuousWorkStreak: analysis.Recovery.ContinuousWorkStreak,
		PerformanceDriftFlag: analysis.Drift.HasDrift,
		DriftSeverity:        driftSeverity,
		GradeRiskFlag:        analysis.Grades.HasLowGrades,
		GradeRiskScore:       analysis.Grades.RiskScore,
		AvgGrade:             analysis.Grades.AvgPercentage,
		BurnoutScore:         analysis.Score,
		BurnoutRisk:          analysis.Risk,
		ReasonCodes:          analysis.Reasons,
		CreatedAt:            analysis.AnalyzedAt,
	}
}

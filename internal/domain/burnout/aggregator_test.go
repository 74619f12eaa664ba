package burnout

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studypulse/studypulse/internal/domain/grade"
	"github.com/studypulse/studypulse/internal/domain/shared"
	"github.com/studypulse/studypulse/internal/domain/signal"
	"github.com/studypulse/studypulse/internal/domain/student"
	"github.com/studypulse/studypulse/internal/domain/task"
	"github.com/studypulse/studypulse/pkg/timeutil"
)

type aggregatorFixture struct {
	tasks    *stubTaskRepo
	events   *stubEventRepo
	scores   *stubScoreRepo
	grades   *stubGradeRepo
	students *stubStudentRepo
	signals  *stubSignalRepo
	bus      *capturePublisher
}

func newAggregatorFixture() *aggregatorFixture {
	return &aggregatorFixture{
		tasks:    &stubTaskRepo{},
		events:   &stubEventRepo{},
		scores:   &stubScoreRepo{},
		grades:   &stubGradeRepo{},
		students: newStubStudentRepo(),
		signals:  &stubSignalRepo{},
		bus:      &capturePublisher{},
	}
}

func (f *aggregatorFixture) build(at time.Time) *Aggregator {
	cfg := DefaultConfig()
	clock := func() time.Time { return at }

	collision := NewCollisionDetector(f.tasks, f.events, cfg, nil)
	collision.now = clock
	volatility := NewVolatilityDetector(f.scores, cfg, nil)
	volatility.now = clock
	recovery := NewRecoveryGapDetector(f.scores, cfg, nil)
	recovery.now = clock
	drift := NewPerformanceDriftDetector(f.grades, f.scores, cfg, nil)
	drift.now = clock
	analyzer := NewGradeAnalyzer(f.grades, cfg, nil)

	agg := NewAggregator(collision, volatility, recovery, drift, analyzer,
		f.students, f.signals, f.bus, cfg, nil)
	agg.now = clock
	return agg
}

func TestAssembleAddsSignalPoints(t *testing.T) {
	agg := newAggregatorFixture().build(testToday)

	analysis := &Analysis{
		Collision:  CollisionResult{HasCollision: true, TotalUpcomingTasks: 6},
		Volatility: VolatilityResult{HasVolatility: true, Severity: signal.SeverityLow, SpikePercentage: 55},
		Recovery:   RecoveryResult{HasRecoveryDeficit: true, ContinuousWorkStreak: 9},
	}
	agg.assemble(analysis)

	// 30 + 15 + 25
	assert.InDelta(t, 70.0, analysis.Score, 1e-9)
	assert.Equal(t, signal.RiskHigh, analysis.Risk)
	assert.Len(t, analysis.Reasons, 3)
}

func TestAssembleClampsNegativeScore(t *testing.T) {
	agg := newAggregatorFixture().build(testToday)

	analysis := &Analysis{
		Grades: GradeResult{RiskScore: -5, Message: "Strong academic performance - maintain balance"},
	}
	agg.assemble(analysis)

	assert.Zero(t, analysis.Score)
	assert.Equal(t, signal.RiskLow, analysis.Risk)
	// The strong-performance message still surfaces as a reason.
	assert.Len(t, analysis.Reasons, 1)
}

func TestPredictQuietStudent(t *testing.T) {
	f := newAggregatorFixture()
	agg := f.build(testToday)

	analysis, err := agg.Predict(context.Background(), testStudent)
	require.NoError(t, err)

	assert.Zero(t, analysis.Score)
	assert.Equal(t, signal.RiskLow, analysis.Risk)
	assert.Empty(t, analysis.Degraded)
	assert.InDelta(t, DefaultConfig().SafeWeeklyLimit, analysis.SafeWeeklyLoad, 1e-9)

	// Every run appends exactly one snapshot.
	require.Len(t, f.signals.appended, 1)
	assert.Equal(t, analysis.SignalID, f.signals.appended[0].ID)
	assert.Empty(t, f.bus.events)
}

func TestPredictHighRiskPublishesEvent(t *testing.T) {
	f := newAggregatorFixture()

	// Five upcoming quizzes pile into one week (+30), ten straight days of
	// load with no rest (+25), and two failing subjects (+30).
	for i := 0; i < 5; i++ {
		f.tasks.tasks = append(f.tasks.tasks, upcomingTask(fmt.Sprintf("t%d", i), task.TypeQuiz, i, 1))
	}
	f.scores.rows = dailyRows(testToday, []float64{20, 20, 20, 20, 20, 20, 20, 20, 20, 20})
	f.grades.grades = []*grade.Grade{
		gradeAt("math", 45, 1),
		gradeAt("physics", 50, 2),
	}

	agg := f.build(testToday)
	analysis, err := agg.Predict(context.Background(), testStudent)
	require.NoError(t, err)

	assert.GreaterOrEqual(t, analysis.Score, DefaultConfig().RiskHighFloor)
	assert.Equal(t, signal.RiskHigh, analysis.Risk)

	require.Len(t, f.bus.events, 1)
	event, ok := f.bus.events[0].(shared.HighRiskDetected)
	require.True(t, ok)
	assert.Equal(t, testStudent, event.StudentID)
	assert.Equal(t, analysis.SignalID, event.SignalID)
	assert.NotEmpty(t, event.Reasons)
}

func TestPredictDegradesFailedDetector(t *testing.T) {
	f := newAggregatorFixture()
	f.tasks.err = assert.AnError // collision loses its task feed

	agg := f.build(testToday)
	analysis, err := agg.Predict(context.Background(), testStudent)
	require.NoError(t, err)

	assert.Equal(t, []string{"collision"}, analysis.Degraded)
	assert.False(t, analysis.Collision.HasCollision)
	require.Len(t, f.signals.appended, 1)
}

func TestPredictFailsWhenSnapshotCannotPersist(t *testing.T) {
	f := newAggregatorFixture()
	f.signals.err = assert.AnError

	agg := f.build(testToday)
	_, err := agg.Predict(context.Background(), testStudent)
	assert.Error(t, err)
}

func TestPredictUsesPersonalBaseline(t *testing.T) {
	f := newAggregatorFixture()
	f.students.students[testStudent] = &student.Student{
		ID: testStudent,
		Thresholds: student.PersonalThreshold{
			NormalWeeklyLoad: 35,
			MaxWeeklyLoad:    55,
			SampleCount:      student.MinBaselineSamples,
			UpdatedAt:        testToday,
		},
	}

	agg := f.build(testToday)
	analysis, err := agg.Predict(context.Background(), testStudent)
	require.NoError(t, err)

	assert.InDelta(t, 55.0, analysis.SafeWeeklyLoad, 1e-9)
}

func TestPredictValidatesStudentID(t *testing.T) {
	agg := newAggregatorFixture().build(testToday)

	_, err := agg.Predict(context.Background(), "")
	assert.Error(t, err)
}

func TestSnapshotCarriesDetectorDetail(t *testing.T) {
	f := newAggregatorFixture()
	agg := f.build(testToday)

	analysis := &Analysis{
		Collision: CollisionResult{
			HasCollision: true,
			Weeks: []CollisionWeek{{
				Tasks: []CollisionTask{{ID: "t1"}, {ID: "t2"}},
			}},
		},
		Volatility: VolatilityResult{HasVolatility: true, Severity: signal.SeverityHigh, SpikePercentage: 120},
		AnalyzedAt: timeutil.Now(),
	}
	agg.assemble(analysis)

	snap := agg.snapshot(testStudent, analysis)
	assert.Equal(t, testStudent, snap.StudentID)
	assert.True(t, snap.CollisionFlag)
	assert.Equal(t, []string{"t1", "t2"}, snap.CollidingTaskIDs)
	assert.Equal(t, signal.SeverityHigh, snap.VolatilitySeverity)
	assert.Equal(t, 120, snap.SpikePercentage)
	assert.Equal(t, analysis.Score, snap.BurnoutScore)
	assert.Equal(t, analysis.Risk, snap.BurnoutRisk)
}

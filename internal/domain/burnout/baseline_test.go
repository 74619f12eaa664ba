package burnout

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studypulse/studypulse/internal/domain/student"
	"github.com/studypulse/studypulse/internal/domain/workload"
	"github.com/studypulse/studypulse/pkg/timeutil"
)

func newBaselineUpdater(scores *stubScoreRepo, students *stubStudentRepo, at time.Time) *BaselineUpdater {
	u := NewBaselineUpdater(scores, students, nil)
	u.now = func() time.Time { return at }
	return u
}

// weeklyHistory fabricates one row per week with the given weekly totals,
// newest last, all inside the baseline window ending at.
func weeklyHistory(at time.Time, totals []float64) []*workload.Score {
	rows := make([]*workload.Score, 0, len(totals))
	for i, total := range totals {
		day := timeutil.AddDays(at, -7*(len(totals)-i))
		year, week := timeutil.ISOWeek(day)
		rows = append(rows, &workload.Score{
			StudentID:   testStudent,
			Day:         day,
			WeeklyScore: total,
			Year:        year,
			WeekNumber:  week,
		})
	}
	return rows
}

func TestBaselineRefreshSetsThresholds(t *testing.T) {
	at := timeutil.Date(2025, 4, 20)
	totals := []float64{30, 32, 35, 28, 40, 38, 33, 31, 36, 42}
	scores := &stubScoreRepo{rows: weeklyHistory(at, totals)}
	students := newStubStudentRepo()

	err := newBaselineUpdater(scores, students, at).Refresh(context.Background(), testStudent)
	require.NoError(t, err)

	threshold, ok := students.thresholds[testStudent]
	require.True(t, ok)
	assert.InDelta(t, 35.0, threshold.NormalWeeklyLoad, 1e-9) // mean 34.5 rounds up
	assert.InDelta(t, 42.0, threshold.MaxWeeklyLoad, 1e-9)
	assert.Equal(t, len(totals), threshold.SampleCount)
	assert.True(t, threshold.IsPersonalized())
}

func TestBaselineRefreshNoOpBelowMinimumSamples(t *testing.T) {
	at := timeutil.Date(2025, 4, 20)
	totals := make([]float64, student.MinBaselineSamples-1)
	for i := range totals {
		totals[i] = 30
	}
	scores := &stubScoreRepo{rows: weeklyHistory(at, totals)}
	students := newStubStudentRepo()

	err := newBaselineUpdater(scores, students, at).Refresh(context.Background(), testStudent)
	require.NoError(t, err)

	assert.Zero(t, students.updates)
}

func TestBaselineRefreshIgnoresZeroWeeks(t *testing.T) {
	at := timeutil.Date(2025, 4, 20)
	// Nine real weeks plus zero-score rows must not reach the minimum.
	totals := []float64{30, 30, 30, 30, 30, 30, 30, 30, 30, 0, 0, 0}
	scores := &stubScoreRepo{rows: weeklyHistory(at, totals)}
	students := newStubStudentRepo()

	err := newBaselineUpdater(scores, students, at).Refresh(context.Background(), testStudent)
	require.NoError(t, err)

	assert.Zero(t, students.updates)
}

func TestBaselineRefreshIsIdempotent(t *testing.T) {
	at := timeutil.Date(2025, 4, 20)
	totals := []float64{30, 32, 35, 28, 40, 38, 33, 31, 36, 42}
	scores := &stubScoreRepo{rows: weeklyHistory(at, totals)}
	students := newStubStudentRepo()
	updater := newBaselineUpdater(scores, students, at)

	require.NoError(t, updater.Refresh(context.Background(), testStudent))
	first := students.thresholds[testStudent]

	require.NoError(t, updater.Refresh(context.Background(), testStudent))
	second := students.thresholds[testStudent]

	assert.Equal(t, 2, students.updates)
	assert.Equal(t, first.NormalWeeklyLoad, second.NormalWeeklyLoad)
	assert.Equal(t, first.MaxWeeklyLoad, second.MaxWeeklyLoad)
	assert.Equal(t, first.SampleCount, second.SampleCount)
}

func TestBaselineRefreshSurfacesStoreFailure(t *testing.T) {
	at := timeutil.Date(2025, 4, 20)
	scores := &stubScoreRepo{err: assert.AnError}

	err := newBaselineUpdater(scores, newStubStudentRepo(), at).Refresh(context.Background(), testStudent)
	assert.Error(t, err)
}

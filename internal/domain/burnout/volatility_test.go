package burnout

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studypulse/studypulse/internal/domain/signal"
	"github.com/studypulse/studypulse/internal/domain/workload"
	"github.com/studypulse/studypulse/pkg/timeutil"
)

// weekRows fabricates daily rows carrying one weekly total, n days starting
// at the given date.
func weekRows(start time.Time, n int, weekly float64) []*workload.Score {
	rows := make([]*workload.Score, 0, n)
	for i := 0; i < n; i++ {
		day := timeutil.AddDays(start, i)
		year, week := timeutil.ISOWeek(day)
		rows = append(rows, &workload.Score{
			StudentID:   testStudent,
			Day:         day,
			DailyScore:  weekly / float64(n),
			WeeklyScore: weekly,
			Year:        year,
			WeekNumber:  week,
		})
	}
	return rows
}

func newVolatilityDetector(scores *stubScoreRepo, at time.Time) *VolatilityDetector {
	d := NewVolatilityDetector(scores, DefaultConfig(), nil)
	d.now = func() time.Time { return at }
	return d
}

func TestVolatilityDetectsSpike(t *testing.T) {
	// Previous week 20, current week 30: a 50% jump, low severity.
	scores := &stubScoreRepo{}
	scores.rows = append(scores.rows, weekRows(timeutil.Date(2025, 4, 7), 4, 20)...)
	scores.rows = append(scores.rows, weekRows(timeutil.Date(2025, 4, 14), 4, 30)...)

	result, err := newVolatilityDetector(scores, timeutil.Date(2025, 4, 18)).
		Detect(context.Background(), testStudent)
	require.NoError(t, err)

	assert.True(t, result.HasVolatility)
	assert.Equal(t, signal.SeverityLow, result.Severity)
	assert.Equal(t, 50, result.SpikePercentage)
	assert.InDelta(t, 30.0, result.CurrentWeek, 1e-9)
	assert.InDelta(t, 20.0, result.PreviousWeek, 1e-9)
}

func TestVolatilitySeverityTiers(t *testing.T) {
	cases := []struct {
		name     string
		previous float64
		current  float64
		severity signal.Severity
	}{
		{"doubling is high", 20, 40, signal.SeverityHigh},
		{"seventy five percent is medium", 20, 35, signal.SeverityMedium},
		{"fifty percent is low", 20, 30, signal.SeverityLow},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			scores := &stubScoreRepo{}
			scores.rows = append(scores.rows, weekRows(timeutil.Date(2025, 4, 7), 4, tc.previous)...)
			scores.rows = append(scores.rows, weekRows(timeutil.Date(2025, 4, 14), 4, tc.current)...)

			result, err := newVolatilityDetector(scores, timeutil.Date(2025, 4, 18)).
				Detect(context.Background(), testStudent)
			require.NoError(t, err)

			assert.True(t, result.HasVolatility)
			assert.Equal(t, tc.severity, result.Severity)
		})
	}
}

func TestVolatilityBelowThresholdIsQuiet(t *testing.T) {
	scores := &stubScoreRepo{}
	scores.rows = append(scores.rows, weekRows(timeutil.Date(2025, 4, 7), 4, 20)...)
	scores.rows = append(scores.rows, weekRows(timeutil.Date(2025, 4, 14), 4, 25)...)

	result, err := newVolatilityDetector(scores, timeutil.Date(2025, 4, 18)).
		Detect(context.Background(), testStudent)
	require.NoError(t, err)

	assert.False(t, result.HasVolatility)
	assert.InDelta(t, 25.0, result.CurrentWeek, 1e-9)
}

func TestVolatilityZeroPreviousWeekIsQuiet(t *testing.T) {
	// A jump from a zero week is a semester start, not volatility.
	scores := &stubScoreRepo{}
	scores.rows = append(scores.rows, weekRows(timeutil.Date(2025, 4, 7), 4, 0)...)
	scores.rows = append(scores.rows, weekRows(timeutil.Date(2025, 4, 14), 4, 40)...)

	result, err := newVolatilityDetector(scores, timeutil.Date(2025, 4, 18)).
		Detect(context.Background(), testStudent)
	require.NoError(t, err)

	assert.False(t, result.HasVolatility)
}

func TestVolatilityNeedsEnoughRecords(t *testing.T) {
	scores := &stubScoreRepo{}
	scores.rows = append(scores.rows, weekRows(timeutil.Date(2025, 4, 14), 4, 40)...)

	result, err := newVolatilityDetector(scores, timeutil.Date(2025, 4, 18)).
		Detect(context.Background(), testStudent)
	require.NoError(t, err)

	assert.False(t, result.HasVolatility)
}

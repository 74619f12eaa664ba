package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntervalScheduleNext(t *testing.T) {
	s := NewIntervalSchedule(6 * time.Hour)

	at := time.Date(2025, 4, 7, 10, 0, 0, 0, time.UTC)
	next := s.Next(at)

	assert.Equal(t, at.Add(6*time.Hour), next)
	assert.Equal(t, "@every 6h0m0s", s.String())
}

func TestDailyScheduleNextSameDay(t *testing.T) {
	s, err := NewDailySchedule(2, 0)
	require.NoError(t, err)

	// Just after midnight the 02:00 slot is still ahead today.
	at := time.Date(2025, 4, 7, 0, 30, 0, 0, time.UTC)
	next := s.Next(at)

	assert.Equal(t, time.Date(2025, 4, 7, 2, 0, 0, 0, time.UTC), next)
}

func TestDailyScheduleNextRollsToTomorrow(t *testing.T) {
	s, err := NewDailySchedule(2, 0)
	require.NoError(t, err)

	at := time.Date(2025, 4, 7, 14, 0, 0, 0, time.UTC)
	next := s.Next(at)

	assert.Equal(t, time.Date(2025, 4, 8, 2, 0, 0, 0, time.UTC), next)
}

func TestDailyScheduleNextAtExactTimeRolls(t *testing.T) {
	s, err := NewDailySchedule(2, 0)
	require.NoError(t, err)

	at := time.Date(2025, 4, 7, 2, 0, 0, 0, time.UTC)
	next := s.Next(at)

	assert.Equal(t, time.Date(2025, 4, 8, 2, 0, 0, 0, time.UTC), next)
}

func TestDailySchedulePreservesLocation(t *testing.T) {
	s, err := NewDailySchedule(2, 0)
	require.NoError(t, err)

	campus := time.FixedZone("Asia/Kolkata", 5*3600+30*60)
	at := time.Date(2025, 4, 7, 23, 0, 0, 0, campus)
	next := s.Next(at)

	assert.Equal(t, campus, next.Location())
	assert.Equal(t, 2, next.Hour())
	assert.Equal(t, 8, next.Day())
}

func TestNewDailyScheduleRejectsOutOfRange(t *testing.T) {
	_, err := NewDailySchedule(24, 0)
	assert.Error(t, err)

	_, err = NewDailySchedule(-1, 0)
	assert.Error(t, err)

	_, err = NewDailySchedule(2, 60)
	assert.Error(t, err)
}

func TestParseDailySchedule(t *testing.T) {
	s, err := ParseDailySchedule("02:00")
	require.NoError(t, err)
	assert.Equal(t, 2, s.Hour)
	assert.Equal(t, 0, s.Minute)
	assert.Equal(t, "@daily 02:00", s.String())

	s, err = ParseDailySchedule("23:59")
	require.NoError(t, err)
	assert.Equal(t, 23, s.Hour)
	assert.Equal(t, 59, s.Minute)
}

func TestParseDailyScheduleRejectsGarbage(t *testing.T) {
	_, err := ParseDailySchedule("not a time")
	assert.Error(t, err)

	_, err = ParseDailySchedule("25:00")
	assert.Error(t, err)
}

package scheduler

import (
	"fmt"
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// SCHEDULES
// ══════════════════════════════════════════════════════════════════════════════

// IntervalSchedule schedules a job to run at a fixed interval.
type IntervalSchedule struct {
	Interval time.Duration
}

// NewIntervalSchedule creates a new IntervalSchedule.
func NewIntervalSchedule(interval time.Duration) *IntervalSchedule {
	return &IntervalSchedule{
		Interval: interval,
	}
}

// Next returns the next scheduled time.
func (s *IntervalSchedule) Next(t time.Time) time.Time {
	return t.Add(s.Interval)
}

// String returns the string representation of the schedule.
func (s *IntervalSchedule) String() string {
	return fmt.Sprintf("@every %s", s.Interval.String())
}

// DailySchedule schedules a job to run once a day at a fixed local time.
// The scheduler's timezone decides what "local" means.
type DailySchedule struct {
	Hour   int
	Minute int
}

// NewDailySchedule creates a daily schedule at hour:minute.
func NewDailySchedule(hour, minute int) (*DailySchedule, error) {
	if hour < 0 || hour > 23 {
		return nil, fmt.Errorf("daily schedule: hour out of range: %d", hour)
	}
	if minute < 0 || minute > 59 {
		return nil, fmt.Errorf("daily schedule: minute out of range: %d", minute)
	}
	return &DailySchedule{Hour: hour, Minute: minute}, nil
}

// ParseDailySchedule parses a "HH:MM" string.
func ParseDailySchedule(raw string) (*DailySchedule, error) {
	var hour, minute int
	if _, err := fmt.Sscanf(raw, "%d:%d", &hour, &minute); err != nil {
		return nil, fmt.Errorf("daily schedule: invalid time %q: %w", raw, err)
	}
	return NewDailySchedule(hour, minute)
}

// Next returns the next occurrence of the daily time after t.
func (s *DailySchedule) Next(t time.Time) time.Time {
	next := time.Date(t.Year(), t.Month(), t.Day(), s.Hour, s.Minute, 0, 0, t.Location())
	if !next.After(t) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// String returns the string representation of the schedule.
func (s *DailySchedule) String() string {
	return fmt.Sprintf("@daily %02d:%02d", s.Hour, s.Minute)
}

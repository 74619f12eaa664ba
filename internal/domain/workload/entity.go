// Package workload contains the workload scoring domain: one Score row per
// (student, calendar day), plus the Scorer service that derives the rows
// from tasks and calendar events.
package workload

import (
	"time"
)

// Score is the normalized workload of one student for one calendar day.
// Uniqueness invariant: one row per (StudentID, Day). DailyScore always
// equals TaskScore + EventScore, and WeeklyScore is identical for every
// row of the same ISO week.
type Score struct {
	// ID is the internal UUID of the row.
	ID string

	// StudentID is the student the row belongs to.
	StudentID string

	// Day is the calendar day, truncated to campus-timezone midnight.
	Day time.Time

	// TaskScore is the weighted-effort sum of tasks due this day.
	TaskScore float64

	// EventScore is the weighted-duration sum of events starting this day.
	EventScore float64

	// DailyScore = TaskScore + EventScore.
	DailyScore float64

	// TaskCount / EventCount are the contributing item counts.
	TaskCount  int
	EventCount int

	// WeeklyScore is the sum of DailyScore across the row's ISO week,
	// broadcast to every day-row of the week.
	WeeklyScore float64

	// WeekNumber / Year identify the ISO-8601 week the day falls in.
	WeekNumber int
	Year       int

	// CalculatedAt is when the scorer last wrote the row.
	CalculatedAt time.Time
}

// WeekOf returns the ISO week identity of the row.
func (s *Score) WeekOf() (year, week int) {
	return s.Year, s.WeekNumber
}

// Package timeutil provides timezone and calendar utilities for StudyPulse.
// All students are on the Vellore campus, so a single fixed timezone is used
// for day bucketing, week numbering, and scheduled jobs.
// No external dependencies - uses only standard library.
package timeutil

import (
	"fmt"
	"time"
)

// CampusTZ is the campus timezone (IST, UTC+5:30, no DST).
var CampusTZ = time.FixedZone("Asia/Kolkata", 5*60*60+30*60)

// Now returns the current time in campus timezone.
func Now() time.Time {
	return time.Now().In(CampusTZ)
}

// ToCampus converts a time to campus timezone.
func ToCampus(t time.Time) time.Time {
	return t.In(CampusTZ)
}

// Date creates a time in campus timezone with the given date.
func Date(year, month, day int) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, CampusTZ)
}

// StartOfDay returns the start of the day (00:00:00) in campus timezone.
func StartOfDay(t time.Time) time.Time {
	local := ToCampus(t)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, CampusTZ)
}

// EndOfDay returns the end of the day (23:59:59.999999999) in campus timezone.
func EndOfDay(t time.Time) time.Time {
	local := ToCampus(t)
	return time.Date(local.Year(), local.Month(), local.Day(), 23, 59, 59, 999999999, CampusTZ)
}

// SameDay reports whether two times fall on the same campus-timezone day.
func SameDay(a, b time.Time) bool {
	a, b = ToCampus(a), ToCampus(b)
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

// DayKey formats a time as a "YYYY-MM-DD" day bucket key.
func DayKey(t time.Time) string {
	return ToCampus(t).Format("2006-01-02")
}

// MonthKey formats a time as a "YYYY-MM" month bucket key.
// Used by the performance drift analysis to group grades and effort.
func MonthKey(t time.Time) string {
	return ToCampus(t).Format("2006-01")
}

// ISOWeek returns the ISO-8601 year and week number for a time.
// ISO weeks are Thursday-anchored: the week containing the year's first
// Thursday is week 1. This is the single week definition used by the
// workload scorer and every detector.
func ISOWeek(t time.Time) (year, week int) {
	return ToCampus(t).ISOWeek()
}

// WeekKey formats a time as a "YYYY-Www" ISO week bucket key.
func WeekKey(t time.Time) string {
	year, week := ISOWeek(t)
	return fmt.Sprintf("%d-W%02d", year, week)
}

// WeekKeyOf formats an already-computed ISO year/week pair as "YYYY-Www".
func WeekKeyOf(year, week int) string {
	return fmt.Sprintf("%d-W%02d", year, week)
}

// DaysBetween returns the number of whole days from a to b,
// truncated toward zero. Negative if b is before a.
func DaysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}

// AddDays returns t shifted by the given number of calendar days.
func AddDays(t time.Time, days int) time.Time {
	return t.AddDate(0, 0, days)
}

// EachDay calls fn for every campus-timezone day from start to end inclusive.
func EachDay(start, end time.Time, fn func(day time.Time)) {
	for d := StartOfDay(start); !d.After(EndOfDay(end)); d = d.AddDate(0, 0, 1) {
		fn(d)
	}
}

// FormatDuration formats a duration in a human-friendly way (e.g. "2h 30m").
func FormatDuration(d time.Duration) string {
	d = d.Round(time.Minute)
	h := d / time.Hour
	m := (d % time.Hour) / time.Minute
	if h == 0 {
		return fmt.Sprintf("%dm", m)
	}
	if m == 0 {
		return fmt.Sprintf("%dh", h)
	}
	return fmt.Sprintf("%dh %dm", h, m)
}

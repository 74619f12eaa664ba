// Package shared contains common domain types, errors, events, and value objects
// that are used across all domain packages.
package shared

import (
	"fmt"
	"strings"
)

// StudentID represents a unique student identifier (UUID string).
type StudentID string

// IsValid checks that the student ID is non-empty.
func (s StudentID) IsValid() bool {
	return strings.TrimSpace(string(s)) != ""
}

// String returns the string representation.
func (s StudentID) String() string {
	return string(s)
}

// WeekKey identifies one ISO-8601 week of one year.
// It is the grouping key for all weekly aggregation in the engine.
type WeekKey struct {
	Year int
	Week int
}

// String returns the "YYYY-Www" representation.
func (w WeekKey) String() string {
	return fmt.Sprintf("%d-W%02d", w.Year, w.Week)
}

// Less orders week keys chronologically.
func (w WeekKey) Less(other WeekKey) bool {
	if w.Year != other.Year {
		return w.Year < other.Year
	}
	return w.Week < other.Week
}

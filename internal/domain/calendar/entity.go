// Package calendar contains the calendar event domain model. Events are
// either institutional (created by an administrator, visible to every
// student) or personal (owned by one student). Both kinds feed the
// workload computation of the students they apply to.
package calendar

import (
	"strings"
	"time"

	"github.com/studypulse/studypulse/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// EVENT TYPE
// ══════════════════════════════════════════════════════════════════════════════

// EventType classifies a calendar event. The type drives the event's
// stress weight in the workload computation.
type EventType string

const (
	EventExam         EventType = "exam"
	EventHoliday      EventType = "holiday"
	EventRegistration EventType = "registration"
	EventDeadline     EventType = "deadline"
	EventGeneral      EventType = "event"
	EventOther        EventType = "other"
)

// ParseEventType normalizes a raw string into an event type.
// Unknown values map to EventGeneral, which carries the default weight.
func ParseEventType(raw string) EventType {
	t := EventType(strings.ToLower(strings.TrimSpace(raw)))
	switch t {
	case EventExam, EventHoliday, EventRegistration, EventDeadline, EventOther:
		return t
	default:
		return EventGeneral
	}
}

// String returns the string representation.
func (t EventType) String() string {
	return string(t)
}

// ══════════════════════════════════════════════════════════════════════════════
// ENTITY
// ══════════════════════════════════════════════════════════════════════════════

// DefaultDurationHours is assumed when an event has no explicit duration.
const DefaultDurationHours = 3.0

// Event represents one calendar event.
type Event struct {
	// ID is the internal UUID of the event.
	ID string

	// Title is a short human-readable name.
	Title string

	// Type classifies the event.
	Type EventType

	// StartDate is the day the event occurs; workload is bucketed by it.
	StartDate time.Time

	// EndDate is the last day for multi-day events (optional; zero means
	// single-day).
	EndDate time.Time

	// DurationHours is the expected duration in hours. Zero means
	// unspecified; DefaultDurationHours is assumed.
	DurationHours float64

	// Institutional marks events created by an administrator and visible
	// to all students.
	Institutional bool

	// CreatedBy is the creating user: the owning student for personal
	// events, an administrator for institutional ones.
	CreatedBy string

	CreatedAt time.Time
}

// Validate checks the event invariants.
func (e *Event) Validate() error {
	if e.StartDate.IsZero() {
		return shared.NewDomainError("calendar", "Validate", shared.ErrEmptyValue, "event start date is required")
	}
	if !e.EndDate.IsZero() && e.EndDate.Before(e.StartDate) {
		return shared.ErrInvalidEventDates
	}
	if e.DurationHours < 0 {
		return shared.ErrInvalidDuration
	}
	return nil
}

// Duration returns the event duration in hours, falling back to the
// default when unspecified.
func (e *Event) Duration() float64 {
	if e.DurationHours > 0 {
		return e.DurationHours
	}
	return DefaultDurationHours
}

// AppliesTo reports whether the event contributes to the given student's
// workload: institutional events apply to everyone, personal events only
// to their owner.
func (e *Event) AppliesTo(studentID string) bool {
	if e.Institutional {
		return true
	}
	return e.CreatedBy == studentID
}

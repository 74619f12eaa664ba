// Package shared contains common domain types, errors, events, and value objects
// that are used across all domain packages.
package shared

import (
	"time"
)

// EventType represents the type of domain event.
type EventType string

// Domain event types. The central one is workload.dirty_range: every task or
// calendar mutation raises it so the workload scorer can recompute the
// affected day window before the next burnout prediction reads it.
const (
	// Workload events
	EventWorkloadDirtyRange EventType = "workload.dirty_range"
	EventWorkloadRecomputed EventType = "workload.recomputed"

	// Task events
	EventTaskCreated   EventType = "task.created"
	EventTaskUpdated   EventType = "task.updated"
	EventTaskCompleted EventType = "task.completed"
	EventTaskDeleted   EventType = "task.deleted"
	EventTaskBlocked   EventType = "task.blocked"

	// Calendar events
	EventCalendarEventCreated EventType = "calendar.event_created"
	EventCalendarEventDeleted EventType = "calendar.event_deleted"

	// Grade events
	EventGradeRecorded EventType = "grade.recorded"

	// Burnout events
	EventBurnoutPredicted EventType = "burnout.predicted"
	EventHighRiskDetected EventType = "burnout.high_risk_detected"

	// Baseline events
	EventBaselineRefreshed EventType = "baseline.refreshed"

	// System events
	EventBatchAnalysisCompleted EventType = "system.batch_analysis_completed"
)

// Event is the base interface for all domain events.
type Event interface {
	// EventType returns the type of the event.
	EventType() EventType

	// OccurredAt returns when the event occurred.
	OccurredAt() time.Time

	// AggregateID returns the ID of the aggregate that produced this event.
	AggregateID() string

	// Payload returns the event data as a map for serialization.
	Payload() map[string]interface{}
}

// BaseEvent provides common event functionality.
type BaseEvent struct {
	Type        EventType `json:"type"`
	Timestamp   time.Time `json:"timestamp"`
	AggregateId string    `json:"aggregate_id"`
}

// EventType returns the type of the event.
func (e BaseEvent) EventType() EventType {
	return e.Type
}

// OccurredAt returns when the event occurred.
func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// AggregateID returns the ID of the aggregate that produced this event.
func (e BaseEvent) AggregateID() string {
	return e.AggregateId
}

// Payload returns the event data as a map for serialization. Events that
// carry more than the aggregate ID override this.
func (e BaseEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"aggregate_id": e.AggregateId,
	}
}

// NewBaseEvent creates a base event for the given aggregate.
func NewBaseEvent(eventType EventType, aggregateID string) BaseEvent {
	return BaseEvent{
		Type:        eventType,
		Timestamp:   time.Now().UTC(),
		AggregateId: aggregateID,
	}
}

// WorkloadDirtyRange is raised when a task or calendar mutation invalidates
// the workload series for a window of days. The recompute handler reacts to
// it by re-running the scorer over [From, To] for the student.
type WorkloadDirtyRange struct {
	BaseEvent
	StudentID string
	From      time.Time
	To        time.Time
}

// NewWorkloadDirtyRange creates a dirty-range event for a student and window.
func NewWorkloadDirtyRange(studentID string, from, to time.Time) WorkloadDirtyRange {
	return WorkloadDirtyRange{
		BaseEvent: NewBaseEvent(EventWorkloadDirtyRange, studentID),
		StudentID: studentID,
		From:      from,
		To:        to,
	}
}

// Payload returns the event data as a map for serialization.
func (e WorkloadDirtyRange) Payload() map[string]interface{} {
	return map[string]interface{}{
		"student_id": e.StudentID,
		"from":       e.From,
		"to":         e.To,
	}
}

// HighRiskDetected is raised when a burnout prediction lands in the high tier.
// Downstream notification delivery is outside this engine; the event carries
// everything a notifier needs.
type HighRiskDetected struct {
	BaseEvent
	StudentID string
	SignalID  string
	Score     float64
	Reasons   []string
}

// Payload returns the event data as a map for serialization.
func (e HighRiskDetected) Payload() map[string]interface{} {
	return map[string]interface{}{
		"student_id": e.StudentID,
		"signal_id":  e.SignalID,
		"score":      e.Score,
		"reasons":    e.Reasons,
	}
}

// EventPublisher publishes domain events to interested handlers.
type EventPublisher interface {
	// Publish publishes an event. Publishing must never fail the
	// command that raised the event; implementations log and continue.
	Publish(event Event)
}

// EventHandler handles a single domain event.
type EventHandler interface {
	// Handle processes the event.
	Handle(event Event) error

	// EventTypes returns the event types this handler is interested in.
	EventTypes() []EventType
}

// NoopPublisher discards all events. Useful in tests and in callers that
// perform recomputation inline.
type NoopPublisher struct{}

// Publish discards the event.
func (NoopPublisher) Publish(Event) {}

package workload

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/studypulse/studypulse/internal/domain/calendar"
	"github.com/studypulse/studypulse/internal/domain/shared"
	"github.com/studypulse/studypulse/internal/domain/task"
	"github.com/studypulse/studypulse/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// WEIGHT TABLES
// ══════════════════════════════════════════════════════════════════════════════

// Weights is the injected weight configuration for the scorer.
// Tests and deployments override individual entries; nothing here is a
// process-wide global.
type Weights struct {
	// TaskTypeWeights maps task types to effort multipliers.
	TaskTypeWeights map[task.Type]float64

	// DefaultTaskWeight applies to task types missing from the table.
	DefaultTaskWeight float64

	// EventTypeWeights maps event types to stress weights per hour.
	EventTypeWeights map[calendar.EventType]float64

	// DefaultEventWeight applies to event types missing from the table.
	DefaultEventWeight float64
}

// DefaultWeights returns the system default weight tables.
func DefaultWeights() Weights {
	return Weights{
		TaskTypeWeights: map[task.Type]float64{
			task.TypeExam:       3,
			task.TypeProject:    2.5,
			task.TypeAssignment: 1.5,
			task.TypeQuiz:       1,
		},
		DefaultTaskWeight: 1,
		EventTypeWeights: map[calendar.EventType]float64{
			calendar.EventExam:         8,
			calendar.EventRegistration: 4,
			calendar.EventGeneral:      3,
			calendar.EventHoliday:      0,
		},
		DefaultEventWeight: 3,
	}
}

// TaskWeight returns the weight for a task type.
func (w Weights) TaskWeight(t task.Type) float64 {
	if weight, ok := w.TaskTypeWeights[t]; ok {
		return weight
	}
	return w.DefaultTaskWeight
}

// EventWeight returns the stress weight for an event type.
func (w Weights) EventWeight(t calendar.EventType) float64 {
	if weight, ok := w.EventTypeWeights[t]; ok {
		return weight
	}
	return w.DefaultEventWeight
}

// EventWorkload returns the workload of one event: weight x duration,
// with the default duration assumed when unspecified.
func (w Weights) EventWorkload(e *calendar.Event) float64 {
	return w.EventWeight(e.Type) * e.Duration()
}

// ══════════════════════════════════════════════════════════════════════════════
// SCORER
// ══════════════════════════════════════════════════════════════════════════════

// Scorer turns raw tasks and calendar events into per-day and per-week
// workload rows. It upserts one Score per day of the requested range and
// then rebuilds the weekly aggregate of every ISO week it touched.
type Scorer struct {
	tasks   task.Repository
	events  calendar.Repository
	scores  Repository
	weights Weights
	logger  *slog.Logger
}

// NewScorer creates a Scorer.
func NewScorer(tasks task.Repository, events calendar.Repository, scores Repository, weights Weights, logger *slog.Logger) *Scorer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scorer{
		tasks:   tasks,
		events:  events,
		scores:  scores,
		weights: weights,
		logger:  logger,
	}
}

// dayBucket accumulates one day's contributions before the upsert.
type dayBucket struct {
	taskScore  float64
	eventScore float64
	taskCount  int
	eventCount int
}

// ComputeSummary reports what a recompute actually touched.
type ComputeSummary struct {
	DaysComputed int
	WeeksTouched int
}

// Compute recomputes the workload rows for every day in [from, to].
// Days in range with no tasks or events are written with zero scores, so a
// recompute over a range re-zeroes days whose items were removed. Rows
// outside the range are left untouched.
func (s *Scorer) Compute(ctx context.Context, studentID string, from, to time.Time) (*ComputeSummary, error) {
	if studentID == "" {
		return nil, shared.NewDomainError("workload", "Compute", shared.ErrEmptyValue, "student ID is required")
	}
	if to.Before(from) {
		return nil, shared.ErrInvalidRange
	}

	from = timeutil.StartOfDay(from)
	to = timeutil.EndOfDay(to)

	tasks, err := s.tasks.GetByDeadlineRange(ctx, studentID, from, to)
	if err != nil {
		return nil, fmt.Errorf("fetch tasks: %w", err)
	}
	events, err := s.events.GetVisibleInRange(ctx, studentID, from, to)
	if err != nil {
		return nil, fmt.Errorf("fetch events: %w", err)
	}

	s.logger.Debug("computing workload",
		slog.String("student_id", studentID),
		slog.Time("from", from),
		slog.Time("to", to),
		slog.Int("tasks", len(tasks)),
		slog.Int("events", len(events)))

	buckets := make(map[string]*dayBucket)
	bucketFor := func(day time.Time) *dayBucket {
		key := day.Format("2006-01-02")
		b, ok := buckets[key]
		if !ok {
			b = &dayBucket{}
			buckets[key] = b
		}
		return b
	}

	for _, t := range tasks {
		b := bucketFor(timeutil.StartOfDay(t.Deadline))
		b.taskScore += t.EstimatedEffort * s.weights.TaskWeight(t.Type)
		b.taskCount++
	}
	for _, e := range events {
		b := bucketFor(timeutil.StartOfDay(e.StartDate))
		b.eventScore += s.weights.EventWorkload(e)
		b.eventCount++
	}

	// Upsert one row per day of the range, zeros included, and remember
	// every ISO week the range touches.
	now := timeutil.Now()
	touched := make(map[shared.WeekKey]bool)
	days := 0
	for day := timeutil.StartOfDay(from); !day.After(to); day = day.AddDate(0, 0, 1) {
		b := buckets[day.Format("2006-01-02")]
		if b == nil {
			b = &dayBucket{}
		}

		year, week := day.ISOWeek()
		touched[shared.WeekKey{Year: year, Week: week}] = true

		score := &Score{
			ID:           uuid.NewString(),
			StudentID:    studentID,
			Day:          day,
			TaskScore:    b.taskScore,
			EventScore:   b.eventScore,
			DailyScore:   b.taskScore + b.eventScore,
			TaskCount:    b.taskCount,
			EventCount:   b.eventCount,
			WeekNumber:   week,
			Year:         year,
			CalculatedAt: now,
		}
		if err := s.scores.Upsert(ctx, score); err != nil {
			return nil, fmt.Errorf("upsert day %s: %w", day.Format("2006-01-02"), err)
		}
		days++
	}

	// Rebuild the weekly aggregate of every touched week over the whole
	// week, not just the recomputed slice, so the weekly invariant holds
	// for rows written by earlier runs.
	for week := range touched {
		if err := s.recomputeWeek(ctx, studentID, week); err != nil {
			return nil, err
		}
	}

	return &ComputeSummary{DaysComputed: days, WeeksTouched: len(touched)}, nil
}

// recomputeWeek sums DailyScore across all rows of the ISO week and
// broadcasts the sum to every row of the week.
func (s *Scorer) recomputeWeek(ctx context.Context, studentID string, week shared.WeekKey) error {
	monday := mondayOf(week)
	sunday := timeutil.EndOfDay(monday.AddDate(0, 0, 6))

	rows, err := s.scores.GetByDateRange(ctx, studentID, monday, sunday)
	if err != nil {
		return fmt.Errorf("fetch week %s: %w", week, err)
	}

	var total float64
	for _, row := range rows {
		total += row.DailyScore
	}

	if err := s.scores.BroadcastWeeklyScore(ctx, studentID, week.Year, week.Week, total); err != nil {
		return fmt.Errorf("broadcast week %s: %w", week, err)
	}
	return nil
}

// mondayOf returns the Monday (week start) of an ISO week.
// January 4th is always in ISO week 1 of its year.
func mondayOf(week shared.WeekKey) time.Time {
	jan4 := time.Date(week.Year, time.January, 4, 0, 0, 0, 0, timeutil.CampusTZ)
	weekday := int(jan4.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday
	}
	week1Monday := jan4.AddDate(0, 0, 1-weekday)
	return week1Monday.AddDate(0, 0, (week.Week-1)*7)
}

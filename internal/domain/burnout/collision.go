package burnout

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/studypulse/studypulse/internal/domain/calendar"
	"github.com/studypulse/studypulse/internal/domain/shared"
	"github.com/studypulse/studypulse/internal/domain/task"
	"github.com/studypulse/studypulse/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// COLLISION DETECTOR
// Flags weeks in the upcoming 14 days where deadlines and events pile up
// beyond the configured density or hour limits.
// ══════════════════════════════════════════════════════════════════════════════

// CollisionTask is the task detail carried in a flagged week.
type CollisionTask struct {
	ID       string
	Title    string
	Type     task.Type
	Deadline time.Time
	Effort   float64
}

// CollisionEvent is the event detail carried in a flagged week.
type CollisionEvent struct {
	ID            string
	Title         string
	Type          calendar.EventType
	Date          time.Time
	Institutional bool
}

// CollisionWeek is one flagged week with its contents.
type CollisionWeek struct {
	Week       shared.WeekKey
	TotalHours float64
	MajorTasks int
	EventCount int
	TotalItems int
	Tasks      []CollisionTask
	Events     []CollisionEvent
}

// CollisionResult is the detector verdict.
type CollisionResult struct {
	HasCollision bool
	Weeks        []CollisionWeek

	// Overall counts across the whole look-ahead window, used by the
	// aggregator's reason-code text.
	TotalUpcomingTasks  int
	TotalUpcomingEvents int
}

// collisionBucket accumulates one week before the verdict.
type collisionBucket struct {
	tasks      []CollisionTask
	events     []CollisionEvent
	totalHours float64
	majorTasks int
}

// CollisionDetector scans the upcoming window for deadline pile-ups.
// Read-only; it never mutates the store.
type CollisionDetector struct {
	tasks  task.Repository
	events calendar.Repository
	cfg    Config
	logger *slog.Logger
	now    func() time.Time
}

// NewCollisionDetector creates a CollisionDetector.
func NewCollisionDetector(tasks task.Repository, events calendar.Repository, cfg Config, logger *slog.Logger) *CollisionDetector {
	if logger == nil {
		logger = slog.Default()
	}
	return &CollisionDetector{
		tasks:  tasks,
		events: events,
		cfg:    cfg,
		logger: logger,
		now:    timeutil.Now,
	}
}

// Detect buckets uncompleted tasks and visible events of the upcoming
// window into ISO weeks and flags every week that crosses a limit.
func (d *CollisionDetector) Detect(ctx context.Context, studentID string) (CollisionResult, error) {
	today := timeutil.StartOfDay(d.now())
	horizon := timeutil.EndOfDay(timeutil.AddDays(today, d.cfg.CollisionWindowDays))

	tasks, err := d.tasks.GetUncompletedByDeadlineRange(ctx, studentID, today, horizon)
	if err != nil {
		return CollisionResult{}, fmt.Errorf("collision: fetch tasks: %w", err)
	}
	events, err := d.events.GetVisibleInRange(ctx, studentID, today, horizon)
	if err != nil {
		return CollisionResult{}, fmt.Errorf("collision: fetch events: %w", err)
	}

	buckets := make(map[shared.WeekKey]*collisionBucket)
	bucketFor := func(t time.Time) *collisionBucket {
		year, week := timeutil.ISOWeek(t)
		key := shared.WeekKey{Year: year, Week: week}
		b, ok := buckets[key]
		if !ok {
			b = &collisionBucket{}
			buckets[key] = b
		}
		return b
	}

	for _, t := range tasks {
		b := bucketFor(t.Deadline)
		b.tasks = append(b.tasks, CollisionTask{
			ID:       t.ID,
			Title:    t.Title,
			Type:     t.Type,
			Deadline: t.Deadline,
			Effort:   t.EstimatedEffort,
		})
		b.totalHours += t.EstimatedEffort
		if t.Type.IsMajor() {
			b.majorTasks++
		}
	}
	for _, e := range events {
		b := bucketFor(e.StartDate)
		b.events = append(b.events, CollisionEvent{
			ID:            e.ID,
			Title:         e.Title,
			Type:          e.Type,
			Date:          e.StartDate,
			Institutional: e.Institutional,
		})
		b.totalHours += e.Duration()
	}

	result := CollisionResult{
		TotalUpcomingTasks:  len(tasks),
		TotalUpcomingEvents: len(events),
	}

	keys := make([]shared.WeekKey, 0, len(buckets))
	for key := range buckets {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })

	for _, key := range keys {
		b := buckets[key]
		totalItems := len(b.tasks) + len(b.events)
		majorItems := b.majorTasks + len(b.events)

		flagged := totalItems >= d.cfg.CollisionItemLimit ||
			majorItems >= d.cfg.CollisionMajorLimit ||
			b.totalHours > d.cfg.CollisionHourLimit

		if !flagged {
			continue
		}

		d.logger.Debug("collision week flagged",
			slog.String("student_id", studentID),
			slog.String("week", key.String()),
			slog.Int("total_items", totalItems),
			slog.Int("major_items", majorItems),
			slog.Float64("total_hours", b.totalHours))

		result.Weeks = append(result.Weeks, CollisionWeek{
			Week:       key,
			TotalHours: b.totalHours,
			MajorTasks: b.majorTasks,
			EventCount: len(b.events),
			TotalItems: totalItems,
			Tasks:      b.tasks,
			Events:     b.events,
		})
	}

	result.HasCollision = len(result.Weeks) > 0
	return result, nil
}

// CollidingTaskIDs returns the task IDs of the first flagged week, the
// detail the signal snapshot records.
func (r CollisionResult) CollidingTaskIDs() []string {
	if len(r.Weeks) == 0 {
		return nil
	}
	ids := make([]string, 0, len(r.Weeks[0].Tasks))
	for _, t := range r.Weeks[0].Tasks {
		ids = append(ids, t.ID)
	}
	return ids
}

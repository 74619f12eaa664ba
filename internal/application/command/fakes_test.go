package command

import (
	"context"
	"sort"
	"time"

	"github.com/studypulse/studypulse/internal/domain/burnout"
	"github.com/studypulse/studypulse/internal/domain/calendar"
	"github.com/studypulse/studypulse/internal/domain/grade"
	"github.com/studypulse/studypulse/internal/domain/shared"
	"github.com/studypulse/studypulse/internal/domain/task"
	"github.com/studypulse/studypulse/internal/domain/workload"
	"github.com/studypulse/studypulse/pkg/timeutil"
)

const testStudent = "student-1"

type memTaskRepo struct {
	tasks     map[string]*task.Task
	createErr error
	creates   int
	updates   int
	deletes   int
}

func newMemTaskRepo() *memTaskRepo {
	return &memTaskRepo{tasks: make(map[string]*task.Task)}
}

func (r *memTaskRepo) Create(_ context.Context, t *task.Task) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.creates++
	copied := *t
	r.tasks[t.ID] = &copied
	return nil
}

func (r *memTaskRepo) GetByID(_ context.Context, id string) (*task.Task, error) {
	t, ok := r.tasks[id]
	if !ok {
		return nil, shared.ErrTaskNotFound
	}
	copied := *t
	return &copied, nil
}

func (r *memTaskRepo) Update(_ context.Context, t *task.Task) error {
	if _, ok := r.tasks[t.ID]; !ok {
		return shared.ErrTaskNotFound
	}
	r.updates++
	copied := *t
	r.tasks[t.ID] = &copied
	return nil
}

func (r *memTaskRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.tasks[id]; !ok {
		return shared.ErrTaskNotFound
	}
	r.deletes++
	delete(r.tasks, id)
	return nil
}

func (r *memTaskRepo) GetByDeadlineRange(_ context.Context, studentID string, from, to time.Time) ([]*task.Task, error) {
	var out []*task.Task
	for _, t := range r.tasks {
		if t.StudentID == studentID && !t.Deadline.Before(from) && !t.Deadline.After(to) {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Deadline.Before(out[j].Deadline) })
	return out, nil
}

func (r *memTaskRepo) GetUncompletedByDeadlineRange(ctx context.Context, studentID string, from, to time.Time) ([]*task.Task, error) {
	all, _ := r.GetByDeadlineRange(ctx, studentID, from, to)
	var out []*task.Task
	for _, t := range all {
		if !t.Completed {
			out = append(out, t)
		}
	}
	return out, nil
}

type memEventRepo struct{}

func (memEventRepo) Create(_ context.Context, _ *calendar.Event) error { return nil }
func (memEventRepo) GetByID(_ context.Context, _ string) (*calendar.Event, error) {
	return nil, shared.ErrEventNotFound
}
func (memEventRepo) Delete(_ context.Context, _ string) error { return nil }
func (memEventRepo) GetVisibleInRange(_ context.Context, _ string, _, _ time.Time) ([]*calendar.Event, error) {
	return nil, nil
}

type memScoreRepo struct {
	rows    map[string]*workload.Score
	upserts int
}

func newMemScoreRepo() *memScoreRepo {
	return &memScoreRepo{rows: make(map[string]*workload.Score)}
}

func (r *memScoreRepo) Upsert(_ context.Context, s *workload.Score) error {
	r.upserts++
	copied := *s
	r.rows[s.StudentID+"|"+timeutil.DayKey(s.Day)] = &copied
	return nil
}

func (r *memScoreRepo) GetByDateRange(_ context.Context, studentID string, from, to time.Time) ([]*workload.Score, error) {
	var out []*workload.Score
	for _, row := range r.rows {
		if row.StudentID == studentID && !row.Day.Before(from) && !row.Day.After(to) {
			out = append(out, row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day.Before(out[j].Day) })
	return out, nil
}

func (r *memScoreRepo) BroadcastWeeklyScore(_ context.Context, studentID string, year, week int, weekly float64) error {
	for _, row := range r.rows {
		if row.StudentID == studentID && row.Year == year && row.WeekNumber == week {
			row.WeeklyScore = weekly
		}
	}
	return nil
}

type memGradeRepo struct {
	grades    []*grade.Grade
	createErr error
}

func (r *memGradeRepo) Create(_ context.Context, g *grade.Grade) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.grades = append(r.grades, g)
	return nil
}

func (r *memGradeRepo) GetRecent(_ context.Context, _ string, _ int) ([]*grade.Grade, error) {
	return r.grades, nil
}

func (r *memGradeRepo) GetByDateRange(_ context.Context, _ string, _, _ time.Time) ([]*grade.Grade, error) {
	return r.grades, nil
}

type recordPublisher struct {
	events []shared.Event
}

func (p *recordPublisher) Publish(event shared.Event) {
	p.events = append(p.events, event)
}

func (p *recordPublisher) typesSeen() []shared.EventType {
	out := make([]shared.EventType, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.EventType())
	}
	return out
}

// cannedPredictor satisfies burnout.Predictor with a fixed analysis.
type cannedPredictor struct {
	analysis *burnout.Analysis
	err      error
}

func (p *cannedPredictor) Predict(_ context.Context, _ string) (*burnout.Analysis, error) {
	return p.analysis, p.err
}

// newRecomputeHandler builds a real compute handler over the fakes so the
// admission path exercises the actual scorer.
func newRecomputeHandler(tasks *memTaskRepo, scores *memScoreRepo, pub shared.EventPublisher) *ComputeWorkloadHandler {
	scorer := workload.NewScorer(tasks, memEventRepo{}, scores, workload.DefaultWeights(), nil)
	return NewComputeWorkloadHandler(scorer, pub, nil)
}

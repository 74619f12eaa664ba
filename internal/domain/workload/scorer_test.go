package workload

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studypulse/studypulse/internal/domain/calendar"
	"github.com/studypulse/studypulse/internal/domain/shared"
	"github.com/studypulse/studypulse/internal/domain/task"
	"github.com/studypulse/studypulse/pkg/timeutil"
)

// ─────────────────────────────────────────────────────────────────────────────
// In-memory fakes
// ─────────────────────────────────────────────────────────────────────────────

type fakeTaskRepo struct {
	tasks []*task.Task
}

func (r *fakeTaskRepo) Create(_ context.Context, t *task.Task) error {
	r.tasks = append(r.tasks, t)
	return nil
}

func (r *fakeTaskRepo) GetByID(_ context.Context, id string) (*task.Task, error) {
	for _, t := range r.tasks {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, shared.ErrTaskNotFound
}

func (r *fakeTaskRepo) Update(_ context.Context, t *task.Task) error { return nil }

func (r *fakeTaskRepo) Delete(_ context.Context, id string) error {
	for i, t := range r.tasks {
		if t.ID == id {
			r.tasks = append(r.tasks[:i], r.tasks[i+1:]...)
			return nil
		}
	}
	return shared.ErrTaskNotFound
}

func (r *fakeTaskRepo) GetByDeadlineRange(_ context.Context, studentID string, from, to time.Time) ([]*task.Task, error) {
	var out []*task.Task
	for _, t := range r.tasks {
		if t.StudentID == studentID && !t.Deadline.Before(from) && !t.Deadline.After(to) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *fakeTaskRepo) GetUncompletedByDeadlineRange(ctx context.Context, studentID string, from, to time.Time) ([]*task.Task, error) {
	all, _ := r.GetByDeadlineRange(ctx, studentID, from, to)
	var out []*task.Task
	for _, t := range all {
		if !t.Completed {
			out = append(out, t)
		}
	}
	return out, nil
}

type fakeEventRepo struct {
	events []*calendar.Event
}

func (r *fakeEventRepo) Create(_ context.Context, e *calendar.Event) error {
	r.events = append(r.events, e)
	return nil
}

func (r *fakeEventRepo) GetByID(_ context.Context, id string) (*calendar.Event, error) {
	for _, e := range r.events {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, shared.ErrEventNotFound
}

func (r *fakeEventRepo) Delete(_ context.Context, id string) error { return nil }

func (r *fakeEventRepo) GetVisibleInRange(_ context.Context, studentID string, from, to time.Time) ([]*calendar.Event, error) {
	var out []*calendar.Event
	for _, e := range r.events {
		if e.AppliesTo(studentID) && !e.StartDate.Before(from) && !e.StartDate.After(to) {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeScoreRepo struct {
	rows map[string]*Score // keyed by studentID + "|" + day key
	err  error
}

func newFakeScoreRepo() *fakeScoreRepo {
	return &fakeScoreRepo{rows: make(map[string]*Score)}
}

func (r *fakeScoreRepo) key(studentID string, day time.Time) string {
	return studentID + "|" + timeutil.DayKey(day)
}

func (r *fakeScoreRepo) Upsert(_ context.Context, score *Score) error {
	if r.err != nil {
		return r.err
	}
	copied := *score
	r.rows[r.key(score.StudentID, score.Day)] = &copied
	return nil
}

func (r *fakeScoreRepo) GetByDateRange(_ context.Context, studentID string, from, to time.Time) ([]*Score, error) {
	if r.err != nil {
		return nil, r.err
	}
	var out []*Score
	for _, row := range r.rows {
		if row.StudentID == studentID && !row.Day.Before(from) && !row.Day.After(to) {
			out = append(out, row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day.Before(out[j].Day) })
	return out, nil
}

func (r *fakeScoreRepo) BroadcastWeeklyScore(_ context.Context, studentID string, year, week int, weekly float64) error {
	for _, row := range r.rows {
		if row.StudentID == studentID && row.Year == year && row.WeekNumber == week {
			row.WeeklyScore = weekly
		}
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Tests
// ─────────────────────────────────────────────────────────────────────────────

const testStudent = "student-1"

func newTestScorer(tasks *fakeTaskRepo, events *fakeEventRepo, scores *fakeScoreRepo) *Scorer {
	return NewScorer(tasks, events, scores, DefaultWeights(), nil)
}

func TestComputeBucketsTasksAndEvents(t *testing.T) {
	day := timeutil.Date(2025, 4, 9) // Wednesday

	tasks := &fakeTaskRepo{tasks: []*task.Task{
		{ID: "t1", StudentID: testStudent, Type: task.TypeAssignment, Deadline: day, EstimatedEffort: 2},
		{ID: "t2", StudentID: testStudent, Type: task.TypeExam, Deadline: day, EstimatedEffort: 1},
	}}
	events := &fakeEventRepo{events: []*calendar.Event{
		{ID: "e1", Type: calendar.EventExam, StartDate: day, DurationHours: 2, Institutional: true},
	}}
	scores := newFakeScoreRepo()

	summary, err := newTestScorer(tasks, events, scores).Compute(context.Background(), testStudent, day, day)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.DaysComputed)
	assert.Equal(t, 1, summary.WeeksTouched)

	row := scores.rows[scores.key(testStudent, day)]
	require.NotNil(t, row)

	// assignment: 2h x 1.5, exam task: 1h x 3, exam event: 2h x 8
	assert.InDelta(t, 6.0, row.TaskScore, 1e-9)
	assert.InDelta(t, 16.0, row.EventScore, 1e-9)
	assert.InDelta(t, 22.0, row.DailyScore, 1e-9)
	assert.Equal(t, 2, row.TaskCount)
	assert.Equal(t, 1, row.EventCount)
}

func TestComputeWritesZeroRowsForEmptyDays(t *testing.T) {
	from := timeutil.Date(2025, 4, 7)
	to := timeutil.Date(2025, 4, 9)
	scores := newFakeScoreRepo()

	summary, err := newTestScorer(&fakeTaskRepo{}, &fakeEventRepo{}, scores).
		Compute(context.Background(), testStudent, from, to)
	require.NoError(t, err)
	assert.Equal(t, 3, summary.DaysComputed)

	for d := 7; d <= 9; d++ {
		row := scores.rows[scores.key(testStudent, timeutil.Date(2025, 4, d))]
		require.NotNil(t, row)
		assert.Zero(t, row.DailyScore)
	}
}

func TestComputeReZeroesRemovedItems(t *testing.T) {
	day := timeutil.Date(2025, 4, 9)
	tasks := &fakeTaskRepo{tasks: []*task.Task{
		{ID: "t1", StudentID: testStudent, Type: task.TypeQuiz, Deadline: day, EstimatedEffort: 4},
	}}
	scores := newFakeScoreRepo()
	scorer := newTestScorer(tasks, &fakeEventRepo{}, scores)

	_, err := scorer.Compute(context.Background(), testStudent, day, day)
	require.NoError(t, err)
	assert.InDelta(t, 4.0, scores.rows[scores.key(testStudent, day)].DailyScore, 1e-9)

	// Removing the task and recomputing the same range zeroes the day.
	tasks.tasks = nil
	_, err = scorer.Compute(context.Background(), testStudent, day, day)
	require.NoError(t, err)

	row := scores.rows[scores.key(testStudent, day)]
	assert.Zero(t, row.DailyScore)
	assert.Zero(t, row.TaskCount)
	assert.Zero(t, row.WeeklyScore)
}

func TestComputeIsIdempotent(t *testing.T) {
	day := timeutil.Date(2025, 4, 9)
	tasks := &fakeTaskRepo{tasks: []*task.Task{
		{ID: "t1", StudentID: testStudent, Type: task.TypeProject, Deadline: day, EstimatedEffort: 2},
	}}
	scores := newFakeScoreRepo()
	scorer := newTestScorer(tasks, &fakeEventRepo{}, scores)

	_, err := scorer.Compute(context.Background(), testStudent, day, day)
	require.NoError(t, err)
	first := *scores.rows[scores.key(testStudent, day)]

	_, err = scorer.Compute(context.Background(), testStudent, day, day)
	require.NoError(t, err)
	second := *scores.rows[scores.key(testStudent, day)]

	assert.Len(t, scores.rows, 1)
	assert.Equal(t, first.DailyScore, second.DailyScore)
	assert.Equal(t, first.WeeklyScore, second.WeeklyScore)
}

func TestWeeklyScoreIdenticalAcrossWeek(t *testing.T) {
	monday := timeutil.Date(2025, 4, 7)
	sunday := timeutil.Date(2025, 4, 13)

	tasks := &fakeTaskRepo{tasks: []*task.Task{
		{ID: "t1", StudentID: testStudent, Type: task.TypeQuiz, Deadline: monday, EstimatedEffort: 3},
		{ID: "t2", StudentID: testStudent, Type: task.TypeQuiz, Deadline: sunday, EstimatedEffort: 5},
	}}
	scores := newFakeScoreRepo()

	_, err := newTestScorer(tasks, &fakeEventRepo{}, scores).
		Compute(context.Background(), testStudent, monday, sunday)
	require.NoError(t, err)

	rows, err := scores.GetByDateRange(context.Background(), testStudent, monday, timeutil.EndOfDay(sunday))
	require.NoError(t, err)
	require.Len(t, rows, 7)

	for _, row := range rows {
		assert.InDelta(t, 8.0, row.WeeklyScore, 1e-9, "weekly score must be broadcast to %s", timeutil.DayKey(row.Day))
	}
}

func TestWeeklyRebuildCoversWholeWeek(t *testing.T) {
	monday := timeutil.Date(2025, 4, 7)
	wednesday := timeutil.Date(2025, 4, 9)

	tasks := &fakeTaskRepo{tasks: []*task.Task{
		{ID: "t1", StudentID: testStudent, Type: task.TypeQuiz, Deadline: monday, EstimatedEffort: 3},
		{ID: "t2", StudentID: testStudent, Type: task.TypeQuiz, Deadline: wednesday, EstimatedEffort: 5},
	}}
	scores := newFakeScoreRepo()
	scorer := newTestScorer(tasks, &fakeEventRepo{}, scores)

	// First run covers the whole week, second run recomputes only one day.
	// The weekly aggregate must still account for the Monday row.
	_, err := scorer.Compute(context.Background(), testStudent, monday, timeutil.Date(2025, 4, 13))
	require.NoError(t, err)
	_, err = scorer.Compute(context.Background(), testStudent, wednesday, wednesday)
	require.NoError(t, err)

	assert.InDelta(t, 8.0, scores.rows[scores.key(testStudent, monday)].WeeklyScore, 1e-9)
	assert.InDelta(t, 8.0, scores.rows[scores.key(testStudent, wednesday)].WeeklyScore, 1e-9)
}

func TestComputeValidation(t *testing.T) {
	scorer := newTestScorer(&fakeTaskRepo{}, &fakeEventRepo{}, newFakeScoreRepo())

	_, err := scorer.Compute(context.Background(), "", timeutil.Date(2025, 4, 1), timeutil.Date(2025, 4, 2))
	assert.Error(t, err)

	_, err = scorer.Compute(context.Background(), testStudent, timeutil.Date(2025, 4, 2), timeutil.Date(2025, 4, 1))
	assert.ErrorIs(t, err, shared.ErrInvalidRange)
}

func TestComputeSurfacesStoreFailure(t *testing.T) {
	scores := newFakeScoreRepo()
	scores.err = errors.New("connection reset")

	_, err := newTestScorer(&fakeTaskRepo{}, &fakeEventRepo{}, scores).
		Compute(context.Background(), testStudent, timeutil.Date(2025, 4, 1), timeutil.Date(2025, 4, 1))
	assert.Error(t, err)
}

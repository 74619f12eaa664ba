package burnout

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studypulse/studypulse/internal/domain/calendar"
	"github.com/studypulse/studypulse/internal/domain/task"
	"github.com/studypulse/studypulse/pkg/timeutil"
)

const testStudent = "student-1"

// Monday, so the first flagged week is unambiguous.
var testToday = timeutil.Date(2025, 4, 7)

func newCollisionDetector(tasks *stubTaskRepo, events *stubEventRepo) *CollisionDetector {
	d := NewCollisionDetector(tasks, events, DefaultConfig(), nil)
	d.now = func() time.Time { return testToday }
	return d
}

func upcomingTask(id string, taskType task.Type, daysAhead int, effort float64) *task.Task {
	return &task.Task{
		ID:              id,
		StudentID:       testStudent,
		Title:           id,
		Type:            taskType,
		Deadline:        timeutil.AddDays(testToday, daysAhead),
		EstimatedEffort: effort,
	}
}

func TestCollisionFlagsDenseWeek(t *testing.T) {
	tasks := &stubTaskRepo{}
	for i := 0; i < 5; i++ {
		tasks.tasks = append(tasks.tasks, upcomingTask(fmt.Sprintf("t%d", i), task.TypeQuiz, i, 1))
	}

	result, err := newCollisionDetector(tasks, &stubEventRepo{}).Detect(context.Background(), testStudent)
	require.NoError(t, err)

	assert.True(t, result.HasCollision)
	require.Len(t, result.Weeks, 1)
	assert.Equal(t, 5, result.Weeks[0].TotalItems)
	assert.Equal(t, 5, result.TotalUpcomingTasks)
	assert.Len(t, result.CollidingTaskIDs(), 5)
}

func TestCollisionIgnoresSparseWeek(t *testing.T) {
	tasks := &stubTaskRepo{}
	for i := 0; i < 4; i++ {
		tasks.tasks = append(tasks.tasks, upcomingTask(fmt.Sprintf("t%d", i), task.TypeQuiz, i, 1))
	}

	result, err := newCollisionDetector(tasks, &stubEventRepo{}).Detect(context.Background(), testStudent)
	require.NoError(t, err)

	assert.False(t, result.HasCollision)
	assert.Empty(t, result.Weeks)
}

func TestCollisionFlagsMajorPileUp(t *testing.T) {
	// One exam plus one institutional event is already a major pile-up.
	tasks := &stubTaskRepo{tasks: []*task.Task{
		upcomingTask("exam", task.TypeExam, 2, 2),
	}}
	events := &stubEventRepo{events: []*calendar.Event{
		{ID: "e1", Type: calendar.EventRegistration, StartDate: timeutil.AddDays(testToday, 3), Institutional: true},
	}}

	result, err := newCollisionDetector(tasks, events).Detect(context.Background(), testStudent)
	require.NoError(t, err)

	assert.True(t, result.HasCollision)
	require.Len(t, result.Weeks, 1)
	assert.Equal(t, 1, result.Weeks[0].MajorTasks)
	assert.Equal(t, 1, result.Weeks[0].EventCount)
}

func TestCollisionFlagsHourOverload(t *testing.T) {
	// Two tasks, but 60 hours of estimated effort in one week.
	tasks := &stubTaskRepo{tasks: []*task.Task{
		upcomingTask("t1", task.TypeAssignment, 1, 30),
		upcomingTask("t2", task.TypeAssignment, 2, 30),
	}}

	result, err := newCollisionDetector(tasks, &stubEventRepo{}).Detect(context.Background(), testStudent)
	require.NoError(t, err)

	assert.True(t, result.HasCollision)
	require.Len(t, result.Weeks, 1)
	assert.InDelta(t, 60.0, result.Weeks[0].TotalHours, 1e-9)
}

func TestCollisionSkipsCompletedTasks(t *testing.T) {
	tasks := &stubTaskRepo{}
	for i := 0; i < 5; i++ {
		done := upcomingTask(fmt.Sprintf("t%d", i), task.TypeQuiz, i, 1)
		done.Completed = true
		tasks.tasks = append(tasks.tasks, done)
	}

	result, err := newCollisionDetector(tasks, &stubEventRepo{}).Detect(context.Background(), testStudent)
	require.NoError(t, err)

	assert.False(t, result.HasCollision)
	assert.Zero(t, result.TotalUpcomingTasks)
}

func TestCollisionSurfacesStoreFailure(t *testing.T) {
	tasks := &stubTaskRepo{err: assert.AnError}

	_, err := newCollisionDetector(tasks, &stubEventRepo{}).Detect(context.Background(), testStudent)
	assert.Error(t, err)
}

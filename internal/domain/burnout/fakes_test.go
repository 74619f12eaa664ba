package burnout

import (
	"context"
	"sort"
	"time"

	"github.com/studypulse/studypulse/internal/domain/calendar"
	"github.com/studypulse/studypulse/internal/domain/grade"
	"github.com/studypulse/studypulse/internal/domain/shared"
	"github.com/studypulse/studypulse/internal/domain/signal"
	"github.com/studypulse/studypulse/internal/domain/student"
	"github.com/studypulse/studypulse/internal/domain/task"
	"github.com/studypulse/studypulse/internal/domain/workload"
)

// In-memory repository fakes shared by the detector tests.

type stubTaskRepo struct {
	tasks []*task.Task
	err   error
}

func (r *stubTaskRepo) Create(_ context.Context, t *task.Task) error { r.tasks = append(r.tasks, t); return nil }

func (r *stubTaskRepo) GetByID(_ context.Context, id string) (*task.Task, error) {
	for _, t := range r.tasks {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, shared.ErrTaskNotFound
}

func (r *stubTaskRepo) Update(_ context.Context, _ *task.Task) error { return nil }
func (r *stubTaskRepo) Delete(_ context.Context, _ string) error     { return nil }

func (r *stubTaskRepo) GetByDeadlineRange(_ context.Context, studentID string, from, to time.Time) ([]*task.Task, error) {
	if r.err != nil {
		return nil, r.err
	}
	var out []*task.Task
	for _, t := range r.tasks {
		if t.StudentID == studentID && !t.Deadline.Before(from) && !t.Deadline.After(to) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *stubTaskRepo) GetUncompletedByDeadlineRange(ctx context.Context, studentID string, from, to time.Time) ([]*task.Task, error) {
	all, err := r.GetByDeadlineRange(ctx, studentID, from, to)
	if err != nil {
		return nil, err
	}
	var out []*task.Task
	for _, t := range all {
		if !t.Completed {
			out = append(out, t)
		}
	}
	return out, nil
}

type stubEventRepo struct {
	events []*calendar.Event
	err    error
}

func (r *stubEventRepo) Create(_ context.Context, e *calendar.Event) error {
	r.events = append(r.events, e)
	return nil
}

func (r *stubEventRepo) GetByID(_ context.Context, id string) (*calendar.Event, error) {
	for _, e := range r.events {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, shared.ErrEventNotFound
}

func (r *stubEventRepo) Delete(_ context.Context, _ string) error { return nil }

func (r *stubEventRepo) GetVisibleInRange(_ context.Context, studentID string, from, to time.Time) ([]*calendar.Event, error) {
	if r.err != nil {
		return nil, r.err
	}
	var out []*calendar.Event
	for _, e := range r.events {
		if e.AppliesTo(studentID) && !e.StartDate.Before(from) && !e.StartDate.After(to) {
			out = append(out, e)
		}
	}
	return out, nil
}

type stubScoreRepo struct {
	rows []*workload.Score
	err  error
}

func (r *stubScoreRepo) Upsert(_ context.Context, s *workload.Score) error {
	r.rows = append(r.rows, s)
	return nil
}

func (r *stubScoreRepo) GetByDateRange(_ context.Context, studentID string, from, to time.Time) ([]*workload.Score, error) {
	if r.err != nil {
		return nil, r.err
	}
	var out []*workload.Score
	for _, row := range r.rows {
		if row.StudentID == studentID && !row.Day.Before(from) && !row.Day.After(to) {
			out = append(out, row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day.Before(out[j].Day) })
	return out, nil
}

func (r *stubScoreRepo) BroadcastWeeklyScore(_ context.Context, studentID string, year, week int, weekly float64) error {
	for _, row := range r.rows {
		if row.StudentID == studentID && row.Year == year && row.WeekNumber == week {
			row.WeeklyScore = weekly
		}
	}
	return nil
}

type stubGradeRepo struct {
	grades []*grade.Grade
	err    error
}

func (r *stubGradeRepo) Create(_ context.Context, g *grade.Grade) error {
	r.grades = append(r.grades, g)
	return nil
}

func (r *stubGradeRepo) GetRecent(_ context.Context, studentID string, limit int) ([]*grade.Grade, error) {
	if r.err != nil {
		return nil, r.err
	}
	var out []*grade.Grade
	for _, g := range r.grades {
		if g.StudentID == studentID {
			out = append(out, g)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *stubGradeRepo) GetByDateRange(_ context.Context, studentID string, from, to time.Time) ([]*grade.Grade, error) {
	if r.err != nil {
		return nil, r.err
	}
	var out []*grade.Grade
	for _, g := range r.grades {
		if g.StudentID == studentID && !g.Date.Before(from) && !g.Date.After(to) {
			out = append(out, g)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

type stubStudentRepo struct {
	students   map[string]*student.Student
	thresholds map[string]student.PersonalThreshold
	updates    int
	err        error
}

func newStubStudentRepo() *stubStudentRepo {
	return &stubStudentRepo{
		students:   make(map[string]*student.Student),
		thresholds: make(map[string]student.PersonalThreshold),
	}
}

func (r *stubStudentRepo) GetByID(_ context.Context, id string) (*student.Student, error) {
	if r.err != nil {
		return nil, r.err
	}
	s, ok := r.students[id]
	if !ok {
		return nil, shared.ErrStudentNotFound
	}
	return s, nil
}

func (r *stubStudentRepo) GetActiveStudents(_ context.Context) ([]*student.Student, error) {
	var out []*student.Student
	for _, s := range r.students {
		out = append(out, s)
	}
	return out, nil
}

func (r *stubStudentRepo) Create(_ context.Context, s *student.Student) error {
	r.students[s.ID] = s
	return nil
}

func (r *stubStudentRepo) UpdateThresholds(_ context.Context, id string, t student.PersonalThreshold) error {
	if r.err != nil {
		return r.err
	}
	r.thresholds[id] = t
	r.updates++
	if s, ok := r.students[id]; ok {
		s.Thresholds = t
	}
	return nil
}

type stubSignalRepo struct {
	appended []*signal.Signal
	err      error
}

func (r *stubSignalRepo) Append(_ context.Context, s *signal.Signal) error {
	if r.err != nil {
		return r.err
	}
	r.appended = append(r.appended, s)
	return nil
}

func (r *stubSignalRepo) GetLatest(_ context.Context, studentID string) (*signal.Signal, error) {
	for i := len(r.appended) - 1; i >= 0; i-- {
		if r.appended[i].StudentID == studentID {
			return r.appended[i], nil
		}
	}
	return nil, shared.ErrSignalNotFound
}

func (r *stubSignalRepo) GetHistory(_ context.Context, studentID string, limit int) ([]*signal.Signal, error) {
	var out []*signal.Signal
	for i := len(r.appended) - 1; i >= 0 && len(out) < limit; i-- {
		if r.appended[i].StudentID == studentID {
			out = append(out, r.appended[i])
		}
	}
	return out, nil
}

func (r *stubSignalRepo) MarkNotified(_ context.Context, id string) error {
	for _, s := range r.appended {
		if s.ID == id {
			s.Notified = true
			return nil
		}
	}
	return shared.ErrSignalNotFound
}

type capturePublisher struct {
	events []shared.Event
}

func (p *capturePublisher) Publish(event shared.Event) {
	p.events = append(p.events, event)
}

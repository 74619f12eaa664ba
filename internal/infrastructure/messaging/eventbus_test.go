package messaging

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studypulse/studypulse/internal/domain/shared"
	"github.com/studypulse/studypulse/internal/domain/signal"
)

type recordingHandler struct {
	types  []shared.EventType
	events []shared.Event
	err    error
}

func (h *recordingHandler) EventTypes() []shared.EventType { return h.types }

func (h *recordingHandler) Handle(event shared.Event) error {
	h.events = append(h.events, event)
	return h.err
}

func newTestBus() *InMemoryEventBus {
	return NewInMemoryEventBus(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestPublishDispatchesByType(t *testing.T) {
	bus := newTestBus()
	taskHandler := &recordingHandler{types: []shared.EventType{shared.EventTaskCreated}}
	gradeHandler := &recordingHandler{types: []shared.EventType{shared.EventGradeRecorded}}
	bus.Subscribe(taskHandler)
	bus.Subscribe(gradeHandler)

	bus.Publish(shared.NewBaseEvent(shared.EventTaskCreated, "task-1"))

	require.Len(t, taskHandler.events, 1)
	assert.Equal(t, "task-1", taskHandler.events[0].AggregateID())
	assert.Empty(t, gradeHandler.events)
}

func TestSubscribeAllSeesEveryEvent(t *testing.T) {
	bus := newTestBus()
	audit := &recordingHandler{}
	bus.SubscribeAll(audit)

	bus.Publish(shared.NewBaseEvent(shared.EventTaskCreated, "task-1"))
	bus.Publish(shared.NewBaseEvent(shared.EventGradeRecorded, "grade-1"))

	assert.Len(t, audit.events, 2)
}

func TestPublishSwallowsHandlerError(t *testing.T) {
	bus := newTestBus()
	failing := &recordingHandler{types: []shared.EventType{shared.EventTaskCreated}, err: assert.AnError}
	next := &recordingHandler{types: []shared.EventType{shared.EventTaskCreated}}
	bus.Subscribe(failing)
	bus.Subscribe(next)

	bus.Publish(shared.NewBaseEvent(shared.EventTaskCreated, "task-1"))

	assert.Len(t, failing.events, 1)
	assert.Len(t, next.events, 1, "a failing handler must not block the rest")
}

func TestPublishIgnoresNil(t *testing.T) {
	bus := newTestBus()
	bus.Subscribe(nil)
	bus.SubscribeAll(nil)

	assert.NotPanics(t, func() { bus.Publish(nil) })
}

// ─────────────────────────────────────────────────────────────────────────────
// RISK ALERT HANDLER
// ─────────────────────────────────────────────────────────────────────────────

type stubSignalRepo struct {
	notified []string
	err      error
}

func (r *stubSignalRepo) Append(ctx context.Context, s *signal.Signal) error { return nil }

func (r *stubSignalRepo) GetLatest(ctx context.Context, studentID string) (*signal.Signal, error) {
	return nil, shared.ErrSignalNotFound
}

func (r *stubSignalRepo) GetHistory(ctx context.Context, studentID string, limit int) ([]*signal.Signal, error) {
	return nil, nil
}

func (r *stubSignalRepo) MarkNotified(ctx context.Context, id string) error {
	r.notified = append(r.notified, id)
	return r.err
}

func TestRiskAlertHandlerMarksSnapshotNotified(t *testing.T) {
	repo := &stubSignalRepo{}
	handler := NewRiskAlertHandler(repo, slog.New(slog.NewTextHandler(io.Discard, nil)))

	event := shared.HighRiskDetected{
		BaseEvent: shared.NewBaseEvent(shared.EventHighRiskDetected, "student-1"),
		StudentID: "student-1",
		SignalID:  "signal-42",
		Score:     85,
		Reasons:   []string{"deadline collision ahead"},
	}

	require.NoError(t, handler.Handle(event))
	assert.Equal(t, []string{"signal-42"}, repo.notified)
}

func TestRiskAlertHandlerIgnoresOtherEvents(t *testing.T) {
	repo := &stubSignalRepo{}
	handler := NewRiskAlertHandler(repo, slog.New(slog.NewTextHandler(io.Discard, nil)))

	require.NoError(t, handler.Handle(shared.NewBaseEvent(shared.EventTaskCreated, "task-1")))
	assert.Empty(t, repo.notified)
}

func TestRiskAlertHandlerWiredThroughBus(t *testing.T) {
	repo := &stubSignalRepo{}
	bus := newTestBus()
	bus.Subscribe(NewRiskAlertHandler(repo, slog.New(slog.NewTextHandler(io.Discard, nil))))

	bus.Publish(shared.HighRiskDetected{
		BaseEvent: shared.NewBaseEvent(shared.EventHighRiskDetected, "student-1"),
		StudentID: "student-1",
		SignalID:  "signal-7",
		Score:     70,
		Reasons:   []string{"no recovery day in 12 days"},
	})

	assert.Equal(t, []string{"signal-7"}, repo.notified)
}

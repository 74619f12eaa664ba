// Package messaging implements the in-process event bus for StudyPulse.
// Domain events raised by command handlers are dispatched synchronously to
// subscribed handlers; handler errors are logged and never propagate back
// to the command that raised the event.
package messaging

import (
	"log/slog"
	"sync"

	"github.com/studypulse/studypulse/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// IN-MEMORY EVENT BUS
// ══════════════════════════════════════════════════════════════════════════════

// InMemoryEventBus is a synchronous in-process implementation of
// shared.EventPublisher. Suitable for single-instance deployments.
type InMemoryEventBus struct {
	mu          sync.RWMutex
	handlers    map[shared.EventType][]shared.EventHandler
	allHandlers []shared.EventHandler
	logger      *slog.Logger
}

// NewInMemoryEventBus creates a new in-memory event bus.
func NewInMemoryEventBus(logger *slog.Logger) *InMemoryEventBus {
	if logger == nil {
		logger = slog.Default()
	}
	return &InMemoryEventBus{
		handlers: make(map[shared.EventType][]shared.EventHandler),
		logger:   logger,
	}
}

// Subscribe registers a handler for the event types it declares interest in.
func (b *InMemoryEventBus) Subscribe(handler shared.EventHandler) {
	if handler == nil {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	for _, eventType := range handler.EventTypes() {
		b.handlers[eventType] = append(b.handlers[eventType], handler)
		b.logger.Debug("subscribed handler", slog.String("event_type", string(eventType)))
	}
}

// SubscribeAll registers a handler for every event regardless of type.
func (b *InMemoryEventBus) SubscribeAll(handler shared.EventHandler) {
	if handler == nil {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.allHandlers = append(b.allHandlers, handler)
}

// Publish dispatches the event to every matching handler. Handler failures
// are logged; publishing never fails the caller.
func (b *InMemoryEventBus) Publish(event shared.Event) {
	if event == nil {
		return
	}

	b.mu.RLock()
	matched := make([]shared.EventHandler, 0, len(b.allHandlers)+len(b.handlers[event.EventType()]))
	matched = append(matched, b.allHandlers...)
	matched = append(matched, b.handlers[event.EventType()]...)
	b.mu.RUnlock()

	for _, handler := range matched {
		if err := handler.Handle(event); err != nil {
			b.logger.Error("event handler failed",
				slog.String("event_type", string(event.EventType())),
				slog.String("aggregate_id", event.AggregateID()),
				slog.String("error", err.Error()))
		}
	}
}

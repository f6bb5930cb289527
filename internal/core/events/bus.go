package events

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Topic names a class of events. Subscriptions and publications meet on it.
type Topic string

type Event interface {
	Topic() Topic
	EventID() string
	OccurredAt() time.Time
	Payload() interface{}
}

type BaseEvent struct {
	ID        string                 `json:"id"`
	EventType Topic                  `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Data      map[string]interface{} `json:"data"`
}

func (e BaseEvent) Topic() Topic {
	return e.EventType
}

func (e BaseEvent) EventID() string {
	return e.ID
}

func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

func (e BaseEvent) Payload() interface{} {
	return e.Data
}

type Handler func(ctx context.Context, event Event) error

// EventBus decouples lifecycle transitions from their side effects. Async
// Publish never surfaces handler failures to the caller; the transition has
// already committed by the time handlers run.
type EventBus struct {
	mu       sync.RWMutex
	handlers map[Topic][]Handler
	logger   *slog.Logger
}

func NewEventBus(logger *slog.Logger) *EventBus {
	return &EventBus{
		handlers: make(map[Topic][]Handler),
		logger:   logger,
	}
}

func (eb *EventBus) Subscribe(topic Topic, handler Handler) {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	eb.handlers[topic] = append(eb.handlers[topic], handler)
	eb.logger.Debug("event handler registered", "topic", string(topic))
}

func (eb *EventBus) subscribers(topic Topic) []Handler {
	eb.mu.RLock()
	defer eb.mu.RUnlock()
	return eb.handlers[topic]
}

// Publish fans the event out to its topic's handlers, each on its own
// goroutine. Handler errors are logged and swallowed.
func (eb *EventBus) Publish(ctx context.Context, event Event) error {
	handlers := eb.subscribers(event.Topic())
	if len(handlers) == 0 {
		eb.logger.Debug("no handlers for topic", "topic", string(event.Topic()))
		return nil
	}

	for _, handler := range handlers {
		go func(h Handler) {
			if err := h(ctx, event); err != nil {
				eb.logger.Error("event handler failed",
					"topic", string(event.Topic()),
					"event_id", event.EventID(),
					"error", err)
			}
		}(handler)
	}
	return nil
}

// PublishSync runs handlers in subscription order and stops at the first
// failure. Used where the caller needs the side effects to have happened.
func (eb *EventBus) PublishSync(ctx context.Context, event Event) error {
	for _, handler := range eb.subscribers(event.Topic()) {
		if err := handler(ctx, event); err != nil {
			eb.logger.Error("event handler failed",
				"topic", string(event.Topic()),
				"event_id", event.EventID(),
				"error", err)
			return fmt.Errorf("handler failed for topic %s: %w", event.Topic(), err)
		}
	}
	return nil
}

// Package events is the in-process event bus. Services publish what happened
// (a lead converted, a consistency step failed) and subscribers such as the
// metrics counters react without the publisher knowing about them.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Event is a fact published on the bus.
type Event interface {
	// EventName is the subscription key, e.g. "leads.lead.synced".
	EventName() string
	// EventID identifies one occurrence for log correlation.
	EventID() string
	OccurredAt() time.Time
}

// BaseEvent carries the id and timestamp shared by every event. Embed it by
// value.
type BaseEvent struct {
	ID        string    `json:"eventId"`
	Timestamp time.Time `json:"timestamp"`
}

func (e BaseEvent) EventID() string { return e.ID }

func (e BaseEvent) OccurredAt() time.Time { return e.Timestamp }

// NewBaseEvent stamps a fresh id and the current UTC time.
func NewBaseEvent() BaseEvent {
	return BaseEvent{ID: uuid.NewString(), Timestamp: time.Now().UTC()}
}

type Handler interface {
	Handle(ctx context.Context, event Event) error
}

type HandlerFunc func(ctx context.Context, event Event) error

func (f HandlerFunc) Handle(ctx context.Context, event Event) error {
	return f(ctx, event)
}

// Bus routes events to the handlers subscribed to their name.
type Bus interface {
	// Publish is fire-and-forget; handler errors are logged by the bus.
	Publish(ctx context.Context, event Event)
	// PublishSync runs the handlers before returning and joins their errors.
	PublishSync(ctx context.Context, event Event) error
	Subscribe(eventName string, handler Handler)
}

// On subscribes fn to the event type E, keyed by the name E's zero value
// reports. E must be a struct type, not a pointer. Events published under
// the same name with a different concrete type are ignored.
func On[E Event](bus Bus, fn func(ctx context.Context, event E) error) {
	var zero E
	bus.Subscribe(zero.EventName(), HandlerFunc(func(ctx context.Context, event Event) error {
		e, ok := event.(E)
		if !ok {
			return nil
		}
		return fn(ctx, e)
	}))
}

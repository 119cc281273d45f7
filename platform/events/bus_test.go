package events

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

type testEvent struct {
	BaseEvent
}

func (testEvent) EventName() string { return "test.event" }

func TestPublishRunsAllSubscribers(t *testing.T) {
	bus := NewInMemoryBus(nil)
	var calls atomic.Int32
	for i := 0; i < 3; i++ {
		bus.Subscribe("test.event", HandlerFunc(func(context.Context, Event) error {
			calls.Add(1)
			return nil
		}))
	}

	bus.Publish(context.Background(), testEvent{BaseEvent: NewBaseEvent()})
	bus.Wait()

	if got := calls.Load(); got != 3 {
		t.Fatalf("expected 3 handler calls, got %d", got)
	}
}

func TestPublishSurvivesCancelledContext(t *testing.T) {
	bus := NewInMemoryBus(nil)
	seen := make(chan error, 1)
	bus.Subscribe("test.event", HandlerFunc(func(ctx context.Context, _ Event) error {
		seen <- ctx.Err()
		return nil
	}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	bus.Publish(ctx, testEvent{BaseEvent: NewBaseEvent()})

	select {
	case err := <-seen:
		if err != nil {
			t.Fatalf("expected detached context, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatalf("handler was not called")
	}
}

func TestPublishSyncJoinsErrors(t *testing.T) {
	bus := NewInMemoryBus(nil)
	boom := errors.New("boom")
	bus.Subscribe("test.event", HandlerFunc(func(context.Context, Event) error { return boom }))
	bus.Subscribe("test.event", HandlerFunc(func(context.Context, Event) error { return nil }))

	err := bus.PublishSync(context.Background(), testEvent{BaseEvent: NewBaseEvent()})
	if !errors.Is(err, boom) {
		t.Fatalf("expected joined error to contain boom, got %v", err)
	}
}

func TestPublishWithoutSubscribersIsNoop(t *testing.T) {
	bus := NewInMemoryBus(nil)
	bus.Publish(context.Background(), testEvent{BaseEvent: NewBaseEvent()})
	bus.Wait()
	if err := bus.PublishSync(context.Background(), testEvent{BaseEvent: NewBaseEvent()}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
}

type otherEvent struct {
	BaseEvent
}

func (otherEvent) EventName() string { return "test.event" }

func TestOnFiltersByConcreteType(t *testing.T) {
	bus := NewInMemoryBus(nil)
	var got []string
	On(bus, func(_ context.Context, e testEvent) error {
		got = append(got, e.EventID())
		return nil
	})

	want := testEvent{BaseEvent: NewBaseEvent()}
	if err := bus.PublishSync(context.Background(), want); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := bus.PublishSync(context.Background(), otherEvent{BaseEvent: NewBaseEvent()}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(got) != 1 || got[0] != want.EventID() {
		t.Fatalf("expected only %s, got %v", want.EventID(), got)
	}
}

func TestNewBaseEventStampsIDAndTime(t *testing.T) {
	a, b := NewBaseEvent(), NewBaseEvent()
	if a.EventID() == "" || a.EventID() == b.EventID() {
		t.Fatalf("expected distinct ids, got %q and %q", a.EventID(), b.EventID())
	}
	if a.OccurredAt().Location() != time.UTC {
		t.Fatalf("expected UTC timestamp, got %v", a.OccurredAt().Location())
	}
}

package events

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"leadcrm_backend/platform/logger"
)

type testEvent struct {
	BaseEvent
}

func (testEvent) EventName() string { return "test.event" }

func TestPublishReachesAllSubscribers(t *testing.T) {
	bus := NewInMemoryBus(logger.New("development"))

	var calls atomic.Int32
	done := make(chan struct{}, 2)
	handler := HandlerFunc(func(_ context.Context, _ Event) error {
		calls.Add(1)
		done <- struct{}{}
		return nil
	})
	bus.Subscribe("test.event", handler)
	bus.Subscribe("test.event", handler)

	bus.Publish(context.Background(), testEvent{BaseEvent: NewBaseEvent()})

	for i := 0; i < 2; i++ {
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("handler not invoked")
		}
	}
	if calls.Load() != 2 {
		t.Fatalf("handler calls = %d, want 2", calls.Load())
	}
}

func TestPublishSyncReturnsFirstError(t *testing.T) {
	bus := NewInMemoryBus(logger.New("development"))

	first := errors.New("first failure")
	var secondRan bool
	bus.Subscribe("test.event", HandlerFunc(func(_ context.Context, _ Event) error {
		return first
	}))
	bus.Subscribe("test.event", HandlerFunc(func(_ context.Context, _ Event) error {
		secondRan = true
		return errors.New("second failure")
	}))

	err := bus.PublishSync(context.Background(), testEvent{BaseEvent: NewBaseEvent()})
	if !errors.Is(err, first) {
		t.Fatalf("err = %v, want the first handler's error", err)
	}
	if !secondRan {
		t.Fatal("remaining handlers must still run after a failure")
	}
}

func TestPublishIgnoresUnsubscribedEvents(t *testing.T) {
	bus := NewInMemoryBus(logger.New("development"))
	// No subscribers; must not panic or block.
	bus.Publish(context.Background(), testEvent{BaseEvent: NewBaseEvent()})
	if err := bus.PublishSync(context.Background(), testEvent{BaseEvent: NewBaseEvent()}); err != nil {
		t.Fatalf("PublishSync with no subscribers returned %v", err)
	}
}

func TestPublishRecoversHandlerPanic(t *testing.T) {
	bus := NewInMemoryBus(logger.New("development"))

	done := make(chan struct{})
	bus.Subscribe("test.event", HandlerFunc(func(_ context.Context, _ Event) error {
		defer close(done)
		panic("handler exploded")
	}))

	bus.Publish(context.Background(), testEvent{BaseEvent: NewBaseEvent()})
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("handler not invoked")
	}
	// Give the deferred recover a moment; a propagated panic would crash
	// the test process.
	time.Sleep(10 * time.Millisecond)
}

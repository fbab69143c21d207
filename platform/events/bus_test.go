package events

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"repairbot/platform/logger"
)

type testEvent struct {
	BaseEvent
}

func (testEvent) EventName() string { return "test.event" }

func TestPublishSyncRunsHandlersInOrder(t *testing.T) {
	bus := NewInMemoryBus(logger.New("development"))

	var order []int
	bus.Subscribe("test.event", HandlerFunc(func(context.Context, Event) error {
		order = append(order, 1)
		return nil
	}))
	bus.Subscribe("test.event", HandlerFunc(func(context.Context, Event) error {
		order = append(order, 2)
		return nil
	}))

	if err := bus.PublishSync(context.Background(), testEvent{BaseEvent: NewBaseEvent()}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(order) != 2 || order[0] != 1 || order[1] != 2 {
		t.Fatalf("expected handlers to run in subscription order, got %v", order)
	}
}

func TestPublishSyncRunsAllHandlersDespiteFailure(t *testing.T) {
	bus := NewInMemoryBus(logger.New("development"))

	ran := false
	bus.Subscribe("test.event", HandlerFunc(func(context.Context, Event) error {
		return errors.New("first handler failed")
	}))
	bus.Subscribe("test.event", HandlerFunc(func(context.Context, Event) error {
		ran = true
		return nil
	}))

	err := bus.PublishSync(context.Background(), testEvent{BaseEvent: NewBaseEvent()})
	if err == nil {
		t.Fatalf("expected joined handler error")
	}
	if !ran {
		t.Fatalf("expected later handler to run after an earlier failure")
	}
}

func TestPublishSyncRecoversHandlerPanic(t *testing.T) {
	bus := NewInMemoryBus(logger.New("development"))

	bus.Subscribe("test.event", HandlerFunc(func(context.Context, Event) error {
		panic("handler exploded")
	}))

	err := bus.PublishSync(context.Background(), testEvent{BaseEvent: NewBaseEvent()})
	if err == nil {
		t.Fatalf("expected panic to surface as an error")
	}
}

func TestPublishRunsHandlersAsynchronously(t *testing.T) {
	bus := NewInMemoryBus(logger.New("development"))

	var wg sync.WaitGroup
	wg.Add(2)
	bus.Subscribe("test.event", HandlerFunc(func(context.Context, Event) error {
		wg.Done()
		return nil
	}))
	bus.Subscribe("test.event", HandlerFunc(func(context.Context, Event) error {
		wg.Done()
		return nil
	}))

	bus.Publish(context.Background(), testEvent{BaseEvent: NewBaseEvent()})

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("handlers did not complete in time")
	}
}

func TestEventsWithoutSubscribersAreDropped(t *testing.T) {
	bus := NewInMemoryBus(logger.New("development"))

	if err := bus.PublishSync(context.Background(), testEvent{BaseEvent: NewBaseEvent()}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

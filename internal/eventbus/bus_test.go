package eventbus

import (
	"context"
	"errors"
	"testing"
)

func TestBusPublishBroadcast(t *testing.T) {
	bus := NewBus()
	calledA := false
	calledB := false

	bus.Subscribe(PromptPublished, func(ctx context.Context, event PromptEvent) error {
		calledA = true
		return nil
	})
	bus.Subscribe(PromptPublished, func(ctx context.Context, event PromptEvent) error {
		calledB = true
		return nil
	})

	if err := bus.Publish(context.Background(), PromptEvent{Type: PromptPublished}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !calledA || !calledB {
		t.Fatalf("expected handlers to be called")
	}
}

func TestBusUnsubscribe(t *testing.T) {
	bus := NewBus()
	called := false
	unsubscribe := bus.Subscribe(PromptUnpublished, func(ctx context.Context, event PromptEvent) error {
		called = true
		return nil
	})
	unsubscribe()

	if err := bus.Publish(context.Background(), PromptEvent{Type: PromptUnpublished}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if called {
		t.Fatalf("expected handler to be unsubscribed")
	}
}

func TestBusPublishJoinErrors(t *testing.T) {
	bus := NewBus()
	bus.Subscribe(PromptDeleted, func(ctx context.Context, event PromptEvent) error {
		return errors.New("err-a")
	})
	bus.Subscribe(PromptDeleted, func(ctx context.Context, event PromptEvent) error {
		return errors.New("err-b")
	})

	if err := bus.Publish(context.Background(), PromptEvent{Type: PromptDeleted}); err == nil {
		t.Fatalf("expected error")
	}
}

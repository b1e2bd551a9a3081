package eventbus

import (
	"context"
	"errors"
	"testing"
)

func TestBusPublishBroadcast(t *testing.T) {
	bus := NewCatalogEventBus()
	calledA := false
	calledB := false

	bus.Subscribe(CatalogEventEntryChanged, func(ctx context.Context, event CatalogEvent) error {
		calledA = true
		return nil
	})
	bus.Subscribe(CatalogEventEntryChanged, func(ctx context.Context, event CatalogEvent) error {
		calledB = event.Path == "skills/a.yaml"
		return nil
	})

	if err := bus.Publish(context.Background(), CatalogEvent{Type: CatalogEventEntryChanged, Path: "skills/a.yaml"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !calledA || !calledB {
		t.Fatalf("expected handlers to be called")
	}
}

func TestBusRoutesByType(t *testing.T) {
	bus := NewCatalogEventBus()
	called := false
	bus.Subscribe(CatalogEventEntryRemoved, func(ctx context.Context, event CatalogEvent) error {
		called = true
		return nil
	})

	if err := bus.Publish(context.Background(), CatalogEvent{Type: CatalogEventEntryChanged}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if called {
		t.Fatalf("removed handler should not see changed events")
	}
}

func TestBusUnsubscribe(t *testing.T) {
	bus := NewCatalogEventBus()
	called := false
	unsubscribe := bus.Subscribe(CatalogEventEntryChanged, func(ctx context.Context, event CatalogEvent) error {
		called = true
		return nil
	})
	unsubscribe()

	if err := bus.Publish(context.Background(), CatalogEvent{Type: CatalogEventEntryChanged}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if called {
		t.Fatalf("expected handler to be unsubscribed")
	}
}

func TestBusPublishJoinErrors(t *testing.T) {
	bus := NewCatalogEventBus()
	bus.Subscribe(CatalogEventEntryChanged, func(ctx context.Context, event CatalogEvent) error {
		return errors.New("err-a")
	})
	bus.Subscribe(CatalogEventEntryChanged, func(ctx context.Context, event CatalogEvent) error {
		return errors.New("err-b")
	})

	if err := bus.Publish(context.Background(), CatalogEvent{Type: CatalogEventEntryChanged}); err == nil {
		t.Fatalf("expected error")
	}
}

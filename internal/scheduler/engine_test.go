package scheduler

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestEngineEmitsInTriggerOrder(t *testing.T) {
	engine := NewEngine(8)
	engine.Start()
	defer engine.Stop()

	now := time.Now().UTC()
	if err := engine.Schedule(AlertEvent{ID: "later", TriggerAt: now.Add(80 * time.Millisecond)}); err != nil {
		t.Fatalf("schedule later: %v", err)
	}
	if err := engine.Schedule(AlertEvent{ID: "sooner", TriggerAt: now.Add(20 * time.Millisecond)}); err != nil {
		t.Fatalf("schedule sooner: %v", err)
	}

	first := waitEvent(t, engine.C(), time.Second)
	second := waitEvent(t, engine.C(), time.Second)
	if first.ID != "sooner" || second.ID != "later" {
		t.Fatalf("unexpected order: first=%s second=%s", first.ID, second.ID)
	}
}

func TestEngineNonBlockingDropsWhenConsumerIsSlow(t *testing.T) {
	engine := NewEngine(1)
	engine.Start()
	defer engine.Stop()

	at := time.Now().Add(20 * time.Millisecond)
	for i := range 25 {
		if err := engine.Schedule(AlertEvent{
			ID:        fmt.Sprintf("evt-%d", i),
			TriggerAt: at,
		}); err != nil {
			t.Fatalf("schedule event: %v", err)
		}
	}

	time.Sleep(120 * time.Millisecond)
	if engine.Dropped() != 24 {
		t.Fatalf("expected 24 dropped events, got %d", engine.Dropped())
	}
}

func TestScheduleSameIDMovesAlert(t *testing.T) {
	engine := NewEngine(4)
	now := time.Now()
	if err := engine.Schedule(AlertEvent{ID: "task:1", Title: "old", TriggerAt: now.Add(time.Hour)}); err != nil {
		t.Fatalf("schedule: %v", err)
	}
	if err := engine.Schedule(AlertEvent{ID: "task:1", Title: "new", TriggerAt: now.Add(10 * time.Millisecond)}); err != nil {
		t.Fatalf("reschedule: %v", err)
	}
	if engine.Pending() != 1 {
		t.Fatalf("expected one pending alert, got %d", engine.Pending())
	}

	engine.Start()
	defer engine.Stop()
	ev := waitEvent(t, engine.C(), time.Second)
	if ev.Title != "new" {
		t.Fatalf("expected rescheduled alert, got %q", ev.Title)
	}
}

func TestScheduleValidatesEvent(t *testing.T) {
	engine := NewEngine(1)
	if err := engine.Schedule(AlertEvent{ID: "bad"}); !errors.Is(err, ErrInvalidTriggerTime) {
		t.Fatalf("expected ErrInvalidTriggerTime, got %v", err)
	}
	if err := engine.Schedule(AlertEvent{TriggerAt: time.Now()}); !errors.Is(err, ErrMissingID) {
		t.Fatalf("expected ErrMissingID, got %v", err)
	}
}

func waitEvent(t *testing.T, ch <-chan AlertEvent, timeout time.Duration) AlertEvent {
	t.Helper()
	select {
	case ev := <-ch:
		return ev
	case <-time.After(timeout):
		t.Fatalf("timed out waiting for event")
		return AlertEvent{}
	}
}

func TestEngineReplaceDropsPreviousQueue(t *testing.T) {
	engine := NewEngine(8)
	engine.Start()
	defer engine.Stop()

	now := time.Now().UTC()
	if err := engine.Schedule(AlertEvent{ID: "stale", TriggerAt: now.Add(30 * time.Millisecond)}); err != nil {
		t.Fatalf("schedule: %v", err)
	}
	err := engine.Replace([]AlertEvent{
		{ID: "fresh", Title: "first", TriggerAt: now.Add(time.Hour)},
		{ID: "no-trigger"},
		{ID: "fresh", Title: "second", TriggerAt: now.Add(40 * time.Millisecond)},
	})
	if err != nil {
		t.Fatalf("replace: %v", err)
	}
	if engine.Pending() != 1 {
		t.Fatalf("expected one pending event, got %d", engine.Pending())
	}

	ev := waitEvent(t, engine.C(), time.Second)
	if ev.ID != "fresh" || ev.Title != "second" {
		t.Fatalf("expected later fresh event, got %+v", ev)
	}
}

func TestScheduleAfterStop(t *testing.T) {
	engine := NewEngine(1)
	engine.Start()
	engine.Stop()
	if err := engine.Schedule(AlertEvent{ID: "late", TriggerAt: time.Now()}); !errors.Is(err, ErrEngineStopped) {
		t.Fatalf("expected ErrEngineStopped, got %v", err)
	}
	if err := engine.Replace(nil); !errors.Is(err, ErrEngineStopped) {
		t.Fatalf("expected ErrEngineStopped from replace, got %v", err)
	}
	if _, open := <-engine.C(); open {
		t.Fatal("expected alert channel closed after stop")
	}
}

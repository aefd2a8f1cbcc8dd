package events

import (
	"io"
	"log/slog"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestBus_PublishSubscribe(t *testing.T) {
	bus := NewBus(testLogger())
	defer bus.Close()

	ch := bus.Subscribe(TypeUnitAdded, 4)

	bus.Publish(UnitAdded{
		BaseEvent: NewBaseEvent(TypeUnitAdded, "unit", 7),
		Title:     "MovieA",
		Year:      2010,
	})

	select {
	case e := <-ch:
		added, ok := e.(UnitAdded)
		if !ok {
			t.Fatalf("unexpected event type %T", e)
		}
		if added.EntityID() != 7 || added.Title != "MovieA" {
			t.Errorf("got %+v", added)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestBus_TypeFiltering(t *testing.T) {
	bus := NewBus(testLogger())
	defer bus.Close()

	ch := bus.Subscribe(TypeUnitRemoved, 1)
	bus.Publish(UnitAdded{BaseEvent: NewBaseEvent(TypeUnitAdded, "unit", 1)})

	select {
	case e := <-ch:
		t.Fatalf("unexpected event %v", e.EventType())
	default:
	}
}

func TestBus_SubscribeAll(t *testing.T) {
	bus := NewBus(testLogger())
	defer bus.Close()

	ch := bus.SubscribeAll(4)
	bus.Publish(UnitAdded{BaseEvent: NewBaseEvent(TypeUnitAdded, "unit", 1)})
	bus.Publish(SetCreated{BaseEvent: NewBaseEvent(TypeSetCreated, "set", 2)})

	if e := <-ch; e.EventType() != TypeUnitAdded {
		t.Errorf("first event = %v", e.EventType())
	}
	if e := <-ch; e.EventType() != TypeSetCreated {
		t.Errorf("second event = %v", e.EventType())
	}
}

func TestBus_FullSubscriberDoesNotBlock(t *testing.T) {
	bus := NewBus(testLogger())
	defer bus.Close()

	_ = bus.Subscribe(TypeUnitAdded, 1)

	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			bus.Publish(UnitAdded{BaseEvent: NewBaseEvent(TypeUnitAdded, "unit", int64(i))})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a full subscriber")
	}
}

func TestBus_PublishAfterClose(t *testing.T) {
	bus := NewBus(testLogger())
	bus.Close()
	// Must not panic.
	bus.Publish(UnitAdded{BaseEvent: NewBaseEvent(TypeUnitAdded, "unit", 1)})
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := NewBus(testLogger())
	defer bus.Close()

	ch := bus.Subscribe(TypeUnitAdded, 1)
	bus.Unsubscribe(ch)

	if _, open := <-ch; open {
		t.Error("channel should be closed after Unsubscribe")
	}
}

func TestLogSink_Report(t *testing.T) {
	// Must not panic with a nil logger.
	LogSink{}.Report(Message{Severity: SeverityError, Subject: "/m", Key: "scan.failed"})
	LogSink{Logger: testLogger()}.Report(Message{Severity: SeverityInfo, Subject: "/m", Key: "ok"})
}

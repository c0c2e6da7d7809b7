package events

import (
	"testing"

	"github.com/quakeplan/quakeplan/pkg/domain/entities"
)

type captureHandler struct {
	accepts string
	seen    []Event
}

func (h *captureHandler) Handle(event Event) error {
	h.seen = append(h.seen, event)
	return nil
}

func (h *captureHandler) CanHandle(eventType string) bool {
	return eventType == h.accepts
}

func TestInMemoryEventStore_VersionsPerStream(t *testing.T) {
	store := NewInMemoryEventStore()
	baseline := entities.ScenarioConfig{Name: "baseline", MobilisationFactor: 1.0}
	optimistic := entities.ScenarioConfig{Name: "optimistic", MobilisationFactor: 2.0}

	runID := NewEvent(ScenarioStartedEvent, "x", nil).ID()

	if err := store.AppendEvent("baseline", NewScenarioStartedEvent(runID, baseline, 3)); err != nil {
		t.Fatalf("AppendEvent failed: %v", err)
	}
	if err := store.AppendEvent("optimistic", NewScenarioStartedEvent(runID, optimistic, 3)); err != nil {
		t.Fatalf("AppendEvent failed: %v", err)
	}
	if err := store.AppendEvent("baseline", NewScenarioCompletedEvent(runID, baseline, 3, -1.5)); err != nil {
		t.Fatalf("AppendEvent failed: %v", err)
	}

	stream, err := store.ReadEvents("baseline", 0)
	if err != nil {
		t.Fatalf("ReadEvents failed: %v", err)
	}
	if len(stream) != 2 {
		t.Fatalf("expected 2 baseline events, got %d", len(stream))
	}
	if stream[0].Version() != 1 || stream[1].Version() != 2 {
		t.Errorf("expected versions 1 and 2, got %d and %d", stream[0].Version(), stream[1].Version())
	}

	tail, err := store.ReadEvents("baseline", 2)
	if err != nil {
		t.Fatalf("ReadEvents failed: %v", err)
	}
	if len(tail) != 1 || tail[0].Type() != ScenarioCompletedEvent {
		t.Errorf("expected only the completion event from version 2, got %d events", len(tail))
	}

	all, err := store.ReadAllEvents(1)
	if err != nil {
		t.Fatalf("ReadAllEvents failed: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("expected 2 events from position 1, got %d", len(all))
	}

	missing, err := store.ReadEvents("unknown", 0)
	if err != nil {
		t.Fatalf("ReadEvents failed: %v", err)
	}
	if len(missing) != 0 {
		t.Errorf("expected empty stream for unknown id, got %d events", len(missing))
	}
}

func TestInMemoryEventStore_SubscribersReceiveMatchingEvents(t *testing.T) {
	store := NewInMemoryEventStore()
	baseline := entities.ScenarioConfig{Name: "baseline", MobilisationFactor: 1.0}
	runID := NewEvent(ScenarioStartedEvent, "x", nil).ID()

	handler := &captureHandler{accepts: ScenarioFailedEvent}
	if err := store.Subscribe([]string{ScenarioFailedEvent}, handler); err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}

	_ = store.AppendEvent("baseline", NewScenarioStartedEvent(runID, baseline, 1))
	_ = store.AppendEvent("baseline", NewScenarioFailedEvent(runID, baseline, "boom"))

	if len(handler.seen) != 1 {
		t.Fatalf("expected 1 delivered event, got %d", len(handler.seen))
	}
	if handler.seen[0].Type() != ScenarioFailedEvent {
		t.Errorf("expected %s, got %s", ScenarioFailedEvent, handler.seen[0].Type())
	}

	if err := store.Unsubscribe(handler); err != nil {
		t.Fatalf("Unsubscribe failed: %v", err)
	}
	_ = store.AppendEvent("baseline", NewScenarioFailedEvent(runID, baseline, "boom again"))

	if len(handler.seen) != 1 {
		t.Errorf("expected no delivery after unsubscribe, got %d events", len(handler.seen))
	}
}

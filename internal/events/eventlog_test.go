package events

import (
	"sync"
	"testing"
	"time"
)

// recordingPersister captures persisted events for assertions.
type recordingPersister struct {
	mu     sync.Mutex
	stored []SimEvent
	done   chan struct{}
}

func (p *recordingPersister) Append(event SimEvent) error {
	p.mu.Lock()
	p.stored = append(p.stored, event)
	p.mu.Unlock()
	p.done <- struct{}{}
	return nil
}

func testEvent(t EventType, aqID string) SimEvent {
	return SimEvent{
		ID:         GenerateEventID(),
		Timestamp:  time.Now(),
		SimTime:    time.Now(),
		Type:       t,
		AquariumID: aqID,
	}
}

func TestEventLogAppendAndQuery(t *testing.T) {
	el := NewEventLog(nil)
	el.Append(testEvent(EventTypeAquariumCreated, "AQ-0001"))
	el.Append(testEvent(EventTypeFishAdded, "AQ-0001"))
	el.Append(testEvent(EventTypeAquariumCreated, "AQ-0002"))

	if got := len(el.Replay()); got != 3 {
		t.Errorf("Expected 3 events in replay, got %d", got)
	}
	if got := len(el.GetByAquarium("AQ-0001")); got != 2 {
		t.Errorf("Expected 2 events for AQ-0001, got %d", got)
	}
	if got := len(el.GetByType(EventTypeAquariumCreated)); got != 2 {
		t.Errorf("Expected 2 creation events, got %d", got)
	}
}

func TestEventLogReplayReturnsIndependentCopy(t *testing.T) {
	el := NewEventLog(nil)
	el.Append(testEvent(EventTypeAquariumCreated, "AQ-0001"))

	history := el.Replay()
	history[0].AquariumID = "TAMPERED"

	if got := el.Replay()[0].AquariumID; got != "AQ-0001" {
		t.Errorf("Expected log to be immune to caller mutation, got %s", got)
	}
}

func TestEventLogRecentReturnsNewestOldestFirst(t *testing.T) {
	el := NewEventLog(nil)
	ids := make([]string, 0, 5)
	for i := 0; i < 5; i++ {
		e := testEvent(EventTypeTimeTick, "")
		ids = append(ids, e.ID)
		el.Append(e)
	}

	recent := el.Recent(2)
	if len(recent) != 2 {
		t.Fatalf("Expected 2 recent events, got %d", len(recent))
	}
	if recent[0].ID != ids[3] || recent[1].ID != ids[4] {
		t.Error("Expected the two newest events in append order")
	}

	if got := el.Recent(100); len(got) != 5 {
		t.Errorf("Expected full log when n exceeds size, got %d", len(got))
	}
	if got := el.Recent(0); got != nil {
		t.Errorf("Expected nil for n=0, got %v", got)
	}
}

func TestEventLogWritesThroughToPersister(t *testing.T) {
	p := &recordingPersister{done: make(chan struct{}, 2)}
	el := NewEventLog(p)

	el.Append(testEvent(EventTypeAlertRaised, "AQ-0001"))
	el.Append(testEvent(EventTypeTimeTick, ""))

	for i := 0; i < 2; i++ {
		select {
		case <-p.done:
		case <-time.After(time.Second):
			t.Fatal("Timed out waiting for persister write-through")
		}
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.stored) != 2 {
		t.Errorf("Expected 2 persisted events, got %d", len(p.stored))
	}
}

func TestGenerateEventIDIsUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := GenerateEventID()
		if seen[id] {
			t.Fatalf("Duplicate event ID generated: %s", id)
		}
		seen[id] = true
	}
}

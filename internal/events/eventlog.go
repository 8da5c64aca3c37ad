// Package events provides the append-only audit log of the simulator.
// Commands, ticks, and newly-raised alerts are recorded here for the
// presentation layer and the persistence ledger. The log is strictly an
// OUTPUT: the deterministic engine never reads it back.
package events

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// EventType defines the category of a simulation event.
type EventType string

const (
	EventTypeTimeTick            EventType = "TIME_TICK"
	EventTypeAquariumCreated     EventType = "AQUARIUM_CREATED"
	EventTypeAquariumRemoved     EventType = "AQUARIUM_REMOVED"
	EventTypeFishAdded           EventType = "FISH_ADDED"
	EventTypeFishRemoved         EventType = "FISH_REMOVED"
	EventTypeRoutinePerformed    EventType = "ROUTINE_PERFORMED"
	EventTypeTemperatureAdjusted EventType = "TEMPERATURE_ADJUSTED"
	EventTypeAlertRaised         EventType = "ALERT_RAISED"
	EventTypeStateImported       EventType = "STATE_IMPORTED"
)

// SimEvent is an immutable record of something that happened.
type SimEvent struct {
	ID         string      `json:"id"`
	Timestamp  time.Time   `json:"timestamp"` // wall time of the recording
	SimTime    time.Time   `json:"sim_time"`  // simulated time when it applied
	Type       EventType   `json:"type"`
	AquariumID string      `json:"aquarium_id"` // empty for global events
	SubjectID  string      `json:"subject_id"`  // fish ID, routine kind, or empty
	Payload    interface{} `json:"payload"`     // event-specific data
}

// EventPersister defines how an event is durably stored.
type EventPersister interface {
	Append(event SimEvent) error
}

// EventLog is the in-memory append-only log with optional write-through
// persistence.
type EventLog struct {
	mu        sync.RWMutex
	events    []SimEvent
	persister EventPersister
}

// NewEventLog creates a new event log with an optional persister.
func NewEventLog(persister EventPersister) *EventLog {
	return &EventLog{
		events:    make([]SimEvent, 0),
		persister: persister,
	}
}

// Append adds a new event to the log. Events are immutable once appended.
func (el *EventLog) Append(event SimEvent) {
	el.mu.Lock()
	el.events = append(el.events, event)
	el.mu.Unlock()

	if el.persister != nil {
		// Write-through; the ledger lags the in-memory log at most briefly.
		go func(e SimEvent) {
			_ = el.persister.Append(e)
		}(event)
	}
}

// GetByAquarium returns all events concerning one aquarium.
func (el *EventLog) GetByAquarium(aquariumID string) []SimEvent {
	el.mu.RLock()
	defer el.mu.RUnlock()

	var result []SimEvent
	for _, e := range el.events {
		if e.AquariumID == aquariumID {
			result = append(result, e)
		}
	}
	return result
}

// GetByType returns all events of one type.
func (el *EventLog) GetByType(t EventType) []SimEvent {
	el.mu.RLock()
	defer el.mu.RUnlock()

	var result []SimEvent
	for _, e := range el.events {
		if e.Type == t {
			result = append(result, e)
		}
	}
	return result
}

// Replay returns a copy of the full history of events, so callers can never
// alias the log's backing array.
func (el *EventLog) Replay() []SimEvent {
	el.mu.RLock()
	defer el.mu.RUnlock()

	out := make([]SimEvent, len(el.events))
	copy(out, el.events)
	return out
}

// Recent returns up to n of the newest events, oldest first.
func (el *EventLog) Recent(n int) []SimEvent {
	el.mu.RLock()
	defer el.mu.RUnlock()

	if n <= 0 || len(el.events) == 0 {
		return nil
	}
	if n > len(el.events) {
		n = len(el.events)
	}
	out := make([]SimEvent, n)
	copy(out, el.events[len(el.events)-n:])
	return out
}

// GenerateEventID creates a unique event identifier.
func GenerateEventID() string {
	return uuid.NewString()
}

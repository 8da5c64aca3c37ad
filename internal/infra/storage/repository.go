// Package storage provides the persistence layer for the simulator server.
// This package implements the repository pattern to keep the domain pure.
package storage

import (
	"context"
	"time"
)

// EventRecord mirrors the audit event structure for persistence.
// The engine and events packages do NOT import this; adapters in cmd
// translate between the two.
type EventRecord struct {
	ID         string                 `json:"id" db:"id"`
	Timestamp  time.Time              `json:"timestamp" db:"timestamp"`
	SimTime    time.Time              `json:"sim_time" db:"sim_time"`
	EventType  string                 `json:"event_type" db:"event_type"`
	AquariumID string                 `json:"aquarium_id" db:"aquarium_id"`
	SubjectID  string                 `json:"subject_id" db:"subject_id"`
	Payload    map[string]interface{} `json:"payload" db:"payload"`
}

// EventRepository defines the interface for the append-only event ledger.
type EventRepository interface {
	// Append adds a new event to the immutable ledger.
	Append(ctx context.Context, event EventRecord) error

	// GetByAquarium retrieves all ledger events for one aquarium.
	GetByAquarium(ctx context.Context, aquariumID string) ([]EventRecord, error)

	// GetRecent retrieves the newest n events, oldest first.
	GetRecent(ctx context.Context, n int) ([]EventRecord, error)
}

// StateRecord is one saved full-state snapshot. The payload is the engine
// snapshot serialized to JSON; storage never interprets it, which keeps the
// round-trip contract byte-exact.
type StateRecord struct {
	TakenAt time.Time `json:"taken_at" db:"taken_at"`
	SavedAt time.Time `json:"saved_at" db:"saved_at"`
	Payload []byte    `json:"payload" db:"payload"`
}

// StateRepository persists and restores the full simulation state.
type StateRepository interface {
	// Save stores the snapshot, replacing the previous one.
	Save(ctx context.Context, rec StateRecord) error

	// Load returns the latest snapshot. ok is false when none was saved yet.
	Load(ctx context.Context) (rec StateRecord, ok bool, err error)
}

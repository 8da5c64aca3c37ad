package main

import (
	"context"
	"testing"
	"time"

	"github.com/edutanks/aquasim/internal/events"
	"github.com/edutanks/aquasim/internal/infra/storage"
	"github.com/edutanks/aquasim/internal/platform/logger"
)

// recordingEventRepo captures appended records for assertions.
type recordingEventRepo struct {
	records []storage.EventRecord
}

func (r *recordingEventRepo) Append(_ context.Context, rec storage.EventRecord) error {
	r.records = append(r.records, rec)
	return nil
}

func (r *recordingEventRepo) GetByAquarium(context.Context, string) ([]storage.EventRecord, error) {
	return nil, nil
}

func (r *recordingEventRepo) GetRecent(context.Context, int) ([]storage.EventRecord, error) {
	return nil, nil
}

func TestLedgerPersisterAdapterTranslatesEvents(t *testing.T) {
	repo := &recordingEventRepo{}
	adapter := &ledgerPersisterAdapter{repo: repo, logger: logger.NewLogger()}

	err := adapter.Append(events.SimEvent{
		ID:         "E1",
		Timestamp:  time.Now(),
		SimTime:    time.Now(),
		Type:       events.EventTypeFishAdded,
		AquariumID: "AQ-0001",
		SubjectID:  "FSH-0001",
		Payload:    map[string]interface{}{"species": "GUPPY"},
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(repo.records) != 1 {
		t.Fatalf("Expected 1 persisted record, got %d", len(repo.records))
	}
	rec := repo.records[0]
	if rec.ID != "E1" || rec.EventType != string(events.EventTypeFishAdded) || rec.AquariumID != "AQ-0001" {
		t.Errorf("Record fields not carried over: %+v", rec)
	}
	if rec.Payload["species"] != "GUPPY" {
		t.Errorf("Expected payload to survive translation, got %v", rec.Payload)
	}
}

func TestLedgerPersisterAdapterSurvivesBadPayload(t *testing.T) {
	repo := &recordingEventRepo{}
	adapter := &ledgerPersisterAdapter{repo: repo, logger: logger.NewLogger()}

	// A channel is not JSON-serializable; the event must still be ledgered.
	err := adapter.Append(events.SimEvent{
		ID:      "E2",
		Type:    events.EventTypeTimeTick,
		Payload: make(chan int),
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(repo.records) != 1 {
		t.Fatalf("Expected 1 persisted record, got %d", len(repo.records))
	}
	if repo.records[0].Payload != nil {
		t.Errorf("Expected empty payload for unserializable event, got %v", repo.records[0].Payload)
	}
}

package storage

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *SQLiteEventRepository {
	t.Helper()
	db, err := InitSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewSQLiteEventRepository(db)
}

func sampleEvent(id, aqID, eventType string, at time.Time) EventRecord {
	return EventRecord{
		ID:         id,
		Timestamp:  at,
		SimTime:    at,
		EventType:  eventType,
		AquariumID: aqID,
		SubjectID:  "FSH-0001",
		Payload:    map[string]interface{}{"detail": "x"},
	}
}

func TestSQLiteEventRepositoryAppendAndQuery(t *testing.T) {
	repo := newTestDB(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Append(ctx, sampleEvent("E1", "AQ-0001", "FISH_ADDED", base)))
	require.NoError(t, repo.Append(ctx, sampleEvent("E2", "AQ-0002", "FISH_ADDED", base.Add(time.Minute))))
	require.NoError(t, repo.Append(ctx, sampleEvent("E3", "AQ-0001", "ROUTINE_PERFORMED", base.Add(2*time.Minute))))

	byAquarium, err := repo.GetByAquarium(ctx, "AQ-0001")
	require.NoError(t, err)
	require.Len(t, byAquarium, 2)
	assert.Equal(t, "E1", byAquarium[0].ID, "events come back oldest first")
	assert.Equal(t, "E3", byAquarium[1].ID)
	assert.Equal(t, "x", byAquarium[0].Payload["detail"], "payload survives the round trip")

	recent, err := repo.GetRecent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "E2", recent[0].ID)
	assert.Equal(t, "E3", recent[1].ID)
}

func TestSQLiteEventRepositoryRejectsDuplicateID(t *testing.T) {
	repo := newTestDB(t)
	ctx := context.Background()
	at := time.Now()

	require.NoError(t, repo.Append(ctx, sampleEvent("E1", "AQ-0001", "FISH_ADDED", at)))
	assert.Error(t, repo.Append(ctx, sampleEvent("E1", "AQ-0001", "FISH_ADDED", at)), "ledger is append-only with unique IDs")
}

func TestSQLiteStateRepositorySingleSlot(t *testing.T) {
	db, err := InitSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	repo := NewSQLiteStateRepository(db)
	ctx := context.Background()

	_, ok, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.False(t, ok, "empty database has no snapshot")

	first, _ := json.Marshal(map[string]int{"version": 1})
	second, _ := json.Marshal(map[string]int{"version": 2})
	takenAt := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Save(ctx, StateRecord{TakenAt: takenAt, SavedAt: takenAt, Payload: first}))
	require.NoError(t, repo.Save(ctx, StateRecord{TakenAt: takenAt.Add(time.Hour), SavedAt: takenAt.Add(time.Hour), Payload: second}))

	rec, ok, err := repo.Load(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, string(second), string(rec.Payload), "save replaces the single slot")
}

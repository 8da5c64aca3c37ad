package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// SQLiteEventRepository implements EventRepository for SQLite.
type SQLiteEventRepository struct {
	db *sql.DB
}

func NewSQLiteEventRepository(db *sql.DB) *SQLiteEventRepository {
	return &SQLiteEventRepository{db: db}
}

func (r *SQLiteEventRepository) Append(ctx context.Context, event EventRecord) error {
	payloadBytes, err := json.Marshal(event.Payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	query := `
		INSERT INTO events (id, timestamp, sim_time, event_type, aquarium_id, subject_id, payload)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err = r.db.ExecContext(ctx, query,
		event.ID, event.Timestamp, event.SimTime, event.EventType,
		event.AquariumID, event.SubjectID, string(payloadBytes),
	)
	if err != nil {
		return fmt.Errorf("failed to append event: %w", err)
	}
	return nil
}

func (r *SQLiteEventRepository) GetByAquarium(ctx context.Context, aquariumID string) ([]EventRecord, error) {
	query := `
		SELECT id, timestamp, sim_time, event_type, aquarium_id, subject_id, payload
		FROM events
		WHERE aquarium_id = ?
		ORDER BY timestamp ASC
	`
	return r.getMany(ctx, query, aquariumID)
}

func (r *SQLiteEventRepository) GetRecent(ctx context.Context, n int) ([]EventRecord, error) {
	query := `
		SELECT id, timestamp, sim_time, event_type, aquarium_id, subject_id, payload
		FROM (
			SELECT * FROM events ORDER BY timestamp DESC LIMIT ?
		)
		ORDER BY timestamp ASC
	`
	return r.getMany(ctx, query, n)
}

func (r *SQLiteEventRepository) getMany(ctx context.Context, query string, args ...interface{}) ([]EventRecord, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []EventRecord
	for rows.Next() {
		var e EventRecord
		var payloadStr string
		err := rows.Scan(&e.ID, &e.Timestamp, &e.SimTime, &e.EventType, &e.AquariumID, &e.SubjectID, &payloadStr)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(payloadStr), &e.Payload); err != nil {
			return nil, err
		}
		records = append(records, e)
	}
	return records, rows.Err()
}

// SQLiteStateRepository implements StateRepository for SQLite. A single slot
// holds the latest snapshot; saving replaces it.
type SQLiteStateRepository struct {
	db *sql.DB
}

func NewSQLiteStateRepository(db *sql.DB) *SQLiteStateRepository {
	return &SQLiteStateRepository{db: db}
}

func (r *SQLiteStateRepository) Save(ctx context.Context, rec StateRecord) error {
	if rec.SavedAt.IsZero() {
		rec.SavedAt = time.Now()
	}
	query := `
		INSERT INTO state_snapshot (slot, taken_at, saved_at, payload)
		VALUES (1, ?, ?, ?)
		ON CONFLICT(slot) DO UPDATE SET
			taken_at = excluded.taken_at,
			saved_at = excluded.saved_at,
			payload = excluded.payload
	`
	_, err := r.db.ExecContext(ctx, query, rec.TakenAt, rec.SavedAt, string(rec.Payload))
	if err != nil {
		return fmt.Errorf("failed to save state snapshot: %w", err)
	}
	return nil
}

func (r *SQLiteStateRepository) Load(ctx context.Context) (StateRecord, bool, error) {
	query := `SELECT taken_at, saved_at, payload FROM state_snapshot WHERE slot = 1`

	var rec StateRecord
	var payloadStr string
	err := r.db.QueryRowContext(ctx, query).Scan(&rec.TakenAt, &rec.SavedAt, &payloadStr)
	if errors.Is(err, sql.ErrNoRows) {
		return StateRecord{}, false, nil
	}
	if err != nil {
		return StateRecord{}, false, fmt.Errorf("failed to load state snapshot: %w", err)
	}
	rec.Payload = []byte(payloadStr)
	return rec, true, nil
}

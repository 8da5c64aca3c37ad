// Package storage - postgres.go
// PostgreSQL implementation of the event ledger, for deployments where
// several classroom servers share one database.
package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// NewPostgresPool connects a pgx pool and ensures the ledger schema exists.
func NewPostgresPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	schema := `
		CREATE TABLE IF NOT EXISTS event_log (
			id TEXT PRIMARY KEY,
			timestamp TIMESTAMPTZ NOT NULL,
			sim_time TIMESTAMPTZ NOT NULL,
			event_type TEXT NOT NULL,
			aquarium_id TEXT NOT NULL,
			subject_id TEXT NOT NULL,
			payload JSONB NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_event_log_aquarium_id ON event_log(aquarium_id);
		CREATE INDEX IF NOT EXISTS idx_event_log_timestamp ON event_log(timestamp);
	`
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create event_log schema: %w", err)
	}
	return pool, nil
}

// PostgresEventRepository implements EventRepository using PostgreSQL.
type PostgresEventRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresEventRepository creates a new PostgreSQL event repository.
func NewPostgresEventRepository(pool *pgxpool.Pool) *PostgresEventRepository {
	return &PostgresEventRepository{pool: pool}
}

// Append inserts a new event into the immutable ledger.
func (r *PostgresEventRepository) Append(ctx context.Context, event EventRecord) error {
	payloadJSON, err := json.Marshal(event.Payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	query := `
		INSERT INTO event_log (id, timestamp, sim_time, event_type, aquarium_id, subject_id, payload)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err = r.pool.Exec(ctx, query,
		event.ID, event.Timestamp, event.SimTime, event.EventType,
		event.AquariumID, event.SubjectID, payloadJSON,
	)
	if err != nil {
		return fmt.Errorf("failed to append event: %w", err)
	}
	return nil
}

// GetByAquarium retrieves all ledger events for one aquarium.
func (r *PostgresEventRepository) GetByAquarium(ctx context.Context, aquariumID string) ([]EventRecord, error) {
	query := `
		SELECT id, timestamp, sim_time, event_type, aquarium_id, subject_id, payload
		FROM event_log
		WHERE aquarium_id = $1
		ORDER BY timestamp ASC
	`
	return r.queryEvents(ctx, query, aquariumID)
}

// GetRecent retrieves the newest n events, oldest first.
func (r *PostgresEventRepository) GetRecent(ctx context.Context, n int) ([]EventRecord, error) {
	query := `
		SELECT id, timestamp, sim_time, event_type, aquarium_id, subject_id, payload
		FROM (
			SELECT * FROM event_log ORDER BY timestamp DESC LIMIT $1
		) recent
		ORDER BY timestamp ASC
	`
	return r.queryEvents(ctx, query, n)
}

func (r *PostgresEventRepository) queryEvents(ctx context.Context, query string, args ...interface{}) ([]EventRecord, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []EventRecord
	for rows.Next() {
		var e EventRecord
		var payloadBytes []byte
		err := rows.Scan(&e.ID, &e.Timestamp, &e.SimTime, &e.EventType, &e.AquariumID, &e.SubjectID, &payloadBytes)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(payloadBytes, &e.Payload); err != nil {
			return nil, err
		}
		records = append(records, e)
	}
	return records, rows.Err()
}

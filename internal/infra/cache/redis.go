// Package cache provides a Redis-based read cache for aquarium snapshots.
// It serves dashboard reads without touching the simulation lock; the engine
// remains the source of truth. Entries expire on the tick cadence, so a read
// never lags the simulation by more than roughly one tick, and command
// handlers invalidate eagerly on mutation.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// SnapshotCache holds the latest per-aquarium snapshot JSON.
type SnapshotCache struct {
	client     *redis.Client
	expiration time.Duration
}

// DefaultExpiration bounds cached-read staleness when no tick interval is
// supplied.
const DefaultExpiration = 5 * time.Second

// NewSnapshotCache creates a cache on an existing Redis client. ttl should be
// the simulation tick interval: an entry must not outlive the tick that
// invalidates its data.
func NewSnapshotCache(client *redis.Client, ttl time.Duration) *SnapshotCache {
	if ttl <= 0 {
		ttl = DefaultExpiration
	}
	return &SnapshotCache{
		client:     client,
		expiration: ttl,
	}
}

// SetAquarium caches the snapshot value (any JSON-serializable projection)
// for one aquarium.
func (c *SnapshotCache) SetAquarium(ctx context.Context, aquariumID string, snapshot interface{}) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal aquarium snapshot: %w", err)
	}
	return c.client.Set(ctx, c.key(aquariumID), data, c.expiration).Err()
}

// GetAquarium reads the cached snapshot JSON for one aquarium. ok is false
// on a cache miss.
func (c *SnapshotCache) GetAquarium(ctx context.Context, aquariumID string) (data []byte, ok bool, err error) {
	raw, err := c.client.Get(ctx, c.key(aquariumID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read aquarium snapshot: %w", err)
	}
	return raw, true, nil
}

// Invalidate drops the cached entries for the given aquariums.
func (c *SnapshotCache) Invalidate(ctx context.Context, aquariumIDs ...string) error {
	if len(aquariumIDs) == 0 {
		return nil
	}
	keys := make([]string, len(aquariumIDs))
	for i, id := range aquariumIDs {
		keys[i] = c.key(id)
	}
	return c.client.Del(ctx, keys...).Err()
}

func (c *SnapshotCache) key(aquariumID string) string {
	return "aquasim:snapshot:" + aquariumID
}

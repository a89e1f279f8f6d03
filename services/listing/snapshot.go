package listing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// SnapshotStore remembers the last filtered listing ids per browsing session.
type SnapshotStore interface {
	Save(ctx context.Context, sessionID string, ids []string) error
	// Load returns ok=false when the session has no snapshot.
	Load(ctx context.Context, sessionID string) (ids []string, ok bool, err error)
}

// RedisSnapshotStore keeps snapshots as JSON arrays with a sliding TTL.
type RedisSnapshotStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSnapshotStore(client *redis.Client, ttl time.Duration) *RedisSnapshotStore {
	return &RedisSnapshotStore{client: client, ttl: ttl}
}

func snapshotKey(sessionID string) string {
	return "listings:snapshot:" + sessionID
}

func (s *RedisSnapshotStore) Save(ctx context.Context, sessionID string, ids []string) error {
	if ids == nil {
		ids = []string{}
	}
	data, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	if err := s.client.Set(ctx, snapshotKey(sessionID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store snapshot: %w", err)
	}
	return nil
}

func (s *RedisSnapshotStore) Load(ctx context.Context, sessionID string) ([]string, bool, error) {
	key := snapshotKey(sessionID)
	data, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read snapshot: %w", err)
	}

	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, false, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	s.client.Expire(ctx, key, s.ttl)
	return ids, true, nil
}

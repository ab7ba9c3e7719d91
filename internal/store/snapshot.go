package store

import (
	"context"
	"encoding/json"
	"fmt"

	"b2b-catalog/internal/config"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// NewClient creates a Redis client from the configuration.
func NewClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// Snapshots reads and writes whole-collection snapshots. Each store's
// entire collection is serialized as one JSON blob under a fixed
// namespaced key and overwritten wholesale on every mutation. A missing
// or unreadable snapshot is reported as absent so the caller can fall
// back to its default dataset; reads never fail the store.
type Snapshots struct {
	rdb       *redis.Client
	namespace string
	logger    *zap.Logger
}

// NewSnapshots creates a snapshot reader/writer over the given client.
func NewSnapshots(rdb *redis.Client, namespace string, logger *zap.Logger) *Snapshots {
	if namespace == "" {
		namespace = "b2b"
	}
	return &Snapshots{rdb: rdb, namespace: namespace, logger: logger}
}

// Key returns the namespaced snapshot key for a store name.
func (s *Snapshots) Key(name string) string {
	return s.namespace + ":" + name
}

// Load reads the snapshot for name into v. It returns false when the
// snapshot is missing or cannot be decoded.
func (s *Snapshots) Load(ctx context.Context, name string, v interface{}) bool {
	key := s.Key(name)

	raw, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			s.logger.Warn("Failed to read snapshot, using defaults",
				zap.String("key", key),
				zap.Error(err),
			)
		}
		return false
	}

	if err := json.Unmarshal(raw, v); err != nil {
		s.logger.Warn("Corrupt snapshot, using defaults",
			zap.String("key", key),
			zap.Error(err),
		)
		return false
	}

	return true
}

// Save serializes v and overwrites the snapshot for name.
func (s *Snapshots) Save(ctx context.Context, name string, v interface{}) error {
	key := s.Key(name)

	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to serialize snapshot %s: %w", key, err)
	}

	if err := s.rdb.Set(ctx, key, raw, 0).Err(); err != nil {
		return fmt.Errorf("failed to write snapshot %s: %w", key, err)
	}

	return nil
}

// Delete removes the snapshot for name.
func (s *Snapshots) Delete(ctx context.Context, name string) error {
	if err := s.rdb.Del(ctx, s.Key(name)).Err(); err != nil {
		return fmt.Errorf("failed to delete snapshot %s: %w", s.Key(name), err)
	}
	return nil
}
